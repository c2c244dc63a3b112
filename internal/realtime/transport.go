package realtime

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-stomp/stomp/v3"
	"github.com/gorilla/websocket"
)

// heartbeatInterval is the STOMP heartbeat negotiated in both directions.
const heartbeatInterval = 4 * time.Second

// Subscription is a live channel subscription on the transport.
type Subscription interface {
	// Messages returns the stream of frame bodies for this subscription.
	// The channel is closed when the subscription ends or the session dies.
	Messages() <-chan []byte

	// Unsubscribe cancels the subscription.
	Unsubscribe() error
}

// Transport is a single authenticated STOMP session. Implementations must
// be safe for concurrent use.
type Transport interface {
	// Subscribe opens a subscription to the given destination.
	Subscribe(destination string) (Subscription, error)

	// Send publishes a fire-and-forget message to the given destination.
	Send(destination string, body []byte) error

	// Done is closed (after an error is delivered) when the session fails
	// or is closed locally.
	Done() <-chan error

	// Close tears the session down.
	Close() error
}

// Dialer opens an authenticated Transport to the given endpoint.
// The Client never dials directly, so tests can inject a fake session.
type Dialer func(ctx context.Context, endpoint, token string) (Transport, error)

// DialSTOMP is the production Dialer: it upgrades a WebSocket connection
// to the server endpoint and negotiates a STOMP session over it, presenting
// the bearer token as a connect header.
func DialSTOMP(ctx context.Context, endpoint, token string) (Transport, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	wsConn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, header)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", endpoint, err)
	}

	conn, err := stomp.Connect(newWSStream(wsConn),
		stomp.ConnOpt.Header("Authorization", "Bearer "+token),
		stomp.ConnOpt.HeartBeat(heartbeatInterval, heartbeatInterval),
	)
	if err != nil {
		wsConn.Close()
		return nil, fmt.Errorf("STOMP handshake with %s: %w", endpoint, err)
	}

	return &stompTransport{
		conn: conn,
		done: make(chan error, 1),
	}, nil
}

// wsStream adapts a websocket connection to the io.ReadWriteCloser the
// STOMP library expects. Each Write becomes one text frame; Read drains
// inbound frames sequentially.
type wsStream struct {
	conn   *websocket.Conn
	reader io.Reader
}

func newWSStream(conn *websocket.Conn) *wsStream {
	return &wsStream{conn: conn}
}

func (w *wsStream) Read(p []byte) (int, error) {
	for {
		if w.reader == nil {
			_, r, err := w.conn.NextReader()
			if err != nil {
				return 0, err
			}
			w.reader = r
		}

		n, err := w.reader.Read(p)
		if err == io.EOF {
			// Frame exhausted; move on to the next one.
			w.reader = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (w *wsStream) Write(p []byte) (int, error) {
	if err := w.conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *wsStream) Close() error {
	return w.conn.Close()
}

// stompTransport implements Transport over a live *stomp.Conn.
type stompTransport struct {
	conn *stomp.Conn

	once sync.Once
	done chan error
}

func (t *stompTransport) Subscribe(destination string) (Subscription, error) {
	sub, err := t.conn.Subscribe(destination, stomp.AckAuto)
	if err != nil {
		return nil, fmt.Errorf("subscribing to %s: %w", destination, err)
	}

	out := make(chan []byte, 16)
	go func() {
		defer close(out)
		for msg := range sub.C {
			if msg.Err != nil {
				// Session-level failure; surface it and stop pumping.
				t.fail(msg.Err)
				return
			}
			out <- msg.Body
		}
	}()

	return &stompSubscription{sub: sub, messages: out}, nil
}

func (t *stompTransport) Send(destination string, body []byte) error {
	if err := t.conn.Send(destination, "application/json", body); err != nil {
		return fmt.Errorf("sending to %s: %w", destination, err)
	}
	return nil
}

func (t *stompTransport) Done() <-chan error {
	return t.done
}

func (t *stompTransport) Close() error {
	err := t.conn.Disconnect()
	t.fail(err)
	return err
}

// fail records the terminal session error once and closes the done channel.
func (t *stompTransport) fail(err error) {
	t.once.Do(func() {
		if err != nil {
			t.done <- err
		}
		close(t.done)
	})
}

// stompSubscription wraps a *stomp.Subscription behind the Subscription
// interface.
type stompSubscription struct {
	sub      *stomp.Subscription
	messages <-chan []byte
}

func (s *stompSubscription) Messages() <-chan []byte {
	return s.messages
}

func (s *stompSubscription) Unsubscribe() error {
	return s.sub.Unsubscribe()
}
