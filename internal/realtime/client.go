package realtime

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/taskflow/tui/internal/model"
)

// Server-defined channel topology. The client must match these exactly.
const (
	destNotifications    = "/user/queue/notifications"
	destConnectedAck     = "/user/queue/connected"
	destSubscribedAck    = "/user/queue/subscribed"
	destAnnounceConnect  = "/app/connect"
	destSubscribeProject = "/app/subscribe/project"
)

const (
	// maxReconnectAttempts bounds the supervised reconnect sequence.
	// Beyond it the client gives up silently; notification delivery is
	// best-effort and must never block task/project workflows.
	maxReconnectAttempts = 5

	// reconnectDelay is multiplied by the attempt count, so retries back
	// off linearly: 5s, 10s, 15s, 20s, 25s.
	reconnectDelay = 5 * time.Second

	// dialTimeout bounds a single connection attempt.
	dialTimeout = 10 * time.Second
)

// State is the lifecycle state of the realtime connection.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

// NotificationFunc receives each normalized notification from the user's
// private queue.
type NotificationFunc func(model.Notification)

// ProjectEventFunc receives each decoded event from a project topic.
type ProjectEventFunc func(model.ProjectEvent)

// Client owns the single persistent session to the TaskFlow push endpoint.
// It establishes an authenticated STOMP session, subscribes the user's
// private queues, tracks per-project topic subscriptions, and recovers
// from failures with a bounded supervised reconnect.
//
// All failure is absorbed: nothing here returns an error to UI code. The
// connectivity snapshot (IsConnected) is the only failure signal exposed.
//
// Project subscriptions are NOT restored automatically after a reconnect;
// callers that want project-level live updates across reconnects must
// re-subscribe when connectivity returns.
type Client struct {
	endpoint string
	dial     Dialer

	// retryDelay is the base reconnect delay, multiplied by the attempt
	// count. Tests shrink it; production uses reconnectDelay.
	retryDelay time.Duration

	mu               sync.Mutex
	state            State
	transport        Transport
	generation       int
	reconnectAttempts int
	token            string
	onNotification   NotificationFunc
	projectSubs      map[int64]Subscription
	projectCallbacks map[int64]ProjectEventFunc
}

// New creates a realtime client for the given ws:// endpoint. A nil dialer
// selects the production STOMP-over-WebSocket dialer.
func New(endpoint string, dial Dialer) *Client {
	if dial == nil {
		dial = DialSTOMP
	}
	return &Client{
		endpoint:         endpoint,
		dial:             dial,
		retryDelay:       reconnectDelay,
		projectSubs:      make(map[int64]Subscription),
		projectCallbacks: make(map[int64]ProjectEventFunc),
	}
}

// Connect establishes the session using the given bearer token and routes
// normalized notifications to onNotification. It returns immediately; the
// handshake completes in the background. Calling Connect while a session
// is live or an attempt is in flight is a no-op.
func (c *Client) Connect(token string, onNotification NotificationFunc) {
	c.mu.Lock()
	if c.state != StateDisconnected {
		c.mu.Unlock()
		return
	}
	c.state = StateConnecting
	c.generation++
	gen := c.generation
	c.token = token
	c.onNotification = onNotification
	c.mu.Unlock()

	go c.establish(gen, token)
}

// Disconnect tears down all project subscriptions and the session, and
// resets the reconnect budget. Safe to call when already disconnected.
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.generation++
	for id, sub := range c.projectSubs {
		if err := sub.Unsubscribe(); err != nil {
			log.Printf("[ws] unsubscribing project %d: %v", id, err)
		}
		delete(c.projectSubs, id)
		delete(c.projectCallbacks, id)
	}
	t := c.transport
	c.transport = nil
	c.state = StateDisconnected
	c.reconnectAttempts = 0
	c.onNotification = nil
	c.token = ""
	c.mu.Unlock()

	if t != nil {
		t.Close()
	}
}

// IsConnected returns a point-in-time snapshot of whether a live session
// exists. Non-blocking, never fails.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateConnected && c.transport != nil
}

// establish performs one full connection attempt for the given generation.
func (c *Client) establish(gen int, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	t, err := c.dial(ctx, c.endpoint, token)
	if err != nil {
		log.Printf("[ws] connect failed: %v", err)
		c.connectionLost(gen)
		return
	}

	c.mu.Lock()
	// A Disconnect may have raced the dial; if so this session is stale.
	if c.generation != gen || c.state != StateConnecting {
		c.mu.Unlock()
		t.Close()
		return
	}
	c.transport = t
	c.state = StateConnected
	c.reconnectAttempts = 0
	onNotification := c.onNotification
	c.mu.Unlock()

	log.Printf("[ws] connected to %s", c.endpoint)

	c.attachUserQueues(t, onNotification)

	// Announce presence to the server; fire-and-forget.
	if err := t.Send(destAnnounceConnect, nil); err != nil {
		log.Printf("[ws] announcing connect: %v", err)
	}

	go c.monitor(gen, t)
}

// attachUserQueues subscribes the user's private queues on a fresh session.
// Notification frames are normalized and handed to the callback; the ack
// queues are informational and only logged.
func (c *Client) attachUserQueues(t Transport, onNotification NotificationFunc) {
	sub, err := t.Subscribe(destNotifications)
	if err != nil {
		log.Printf("[ws] subscribing notifications: %v", err)
	} else {
		go func() {
			for body := range sub.Messages() {
				n := Normalize(body, time.Now())
				if n == nil {
					continue
				}
				if onNotification != nil {
					onNotification(*n)
				}
			}
		}()
	}

	for _, dest := range []string{destConnectedAck, destSubscribedAck} {
		ackSub, err := t.Subscribe(dest)
		if err != nil {
			log.Printf("[ws] subscribing %s: %v", dest, err)
			continue
		}
		go func(dest string) {
			for body := range ackSub.Messages() {
				log.Printf("[ws] %s: %s", dest, body)
			}
		}(dest)
	}
}

// monitor waits for the session to fail and, if this generation is still
// current, tears down and schedules a supervised reconnect.
func (c *Client) monitor(gen int, t Transport) {
	if err := <-t.Done(); err != nil {
		log.Printf("[ws] session error: %v", err)
	}

	c.mu.Lock()
	if c.generation != gen {
		// An intervening Connect/Disconnect owns the state now.
		c.mu.Unlock()
		return
	}
	// The session died underneath us; project subscriptions died with it.
	for id := range c.projectSubs {
		delete(c.projectSubs, id)
		delete(c.projectCallbacks, id)
	}
	c.transport = nil
	c.state = StateDisconnected
	c.mu.Unlock()

	c.connectionLost(gen)
}

// connectionLost schedules one supervised retry of the full connect, with
// delay scaling linearly with the attempt count, up to the budget. Past
// the budget the client stays Disconnected until a fresh Connect call.
func (c *Client) connectionLost(gen int) {
	c.mu.Lock()
	if c.generation != gen {
		c.mu.Unlock()
		return
	}
	c.state = StateDisconnected
	c.transport = nil
	if c.reconnectAttempts >= maxReconnectAttempts {
		c.mu.Unlock()
		log.Printf("[ws] giving up after %d reconnect attempts", maxReconnectAttempts)
		return
	}
	c.reconnectAttempts++
	attempt := c.reconnectAttempts
	token := c.token
	onNotification := c.onNotification
	delay := c.retryDelay
	c.mu.Unlock()

	log.Printf("[ws] reconnecting, attempt %d", attempt)

	time.AfterFunc(delay*time.Duration(attempt), func() {
		c.mu.Lock()
		stale := c.generation != gen || c.state != StateDisconnected
		c.mu.Unlock()
		if stale {
			// A Disconnect or fresh Connect intervened while we waited.
			return
		}
		c.Connect(token, onNotification)
	})
}
