package session

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskflow/tui/internal/notify"
	"github.com/taskflow/tui/internal/realtime"
)

const notificationsQueue = "/user/queue/notifications"

// fakeTransport is a minimal in-memory realtime.Transport.
type fakeTransport struct {
	mu   sync.Mutex
	subs map[string]chan []byte
	done chan error
	once sync.Once
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		subs: make(map[string]chan []byte),
		done: make(chan error, 1),
	}
}

func (t *fakeTransport) Subscribe(destination string) (realtime.Subscription, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ch := make(chan []byte, 16)
	t.subs[destination] = ch
	return fakeSub{ch: ch}, nil
}

func (t *fakeTransport) Send(string, []byte) error { return nil }

func (t *fakeTransport) Done() <-chan error { return t.done }

func (t *fakeTransport) Close() error {
	t.once.Do(func() {
		close(t.done)
		t.mu.Lock()
		defer t.mu.Unlock()
		for _, ch := range t.subs {
			close(ch)
		}
	})
	return nil
}

func (t *fakeTransport) push(destination string, body []byte) bool {
	t.mu.Lock()
	ch, ok := t.subs[destination]
	t.mu.Unlock()
	if !ok {
		return false
	}
	ch <- body
	return true
}

func (t *fakeTransport) hasSub(destination string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.subs[destination]
	return ok
}

type fakeSub struct {
	ch chan []byte
}

func (s fakeSub) Messages() <-chan []byte { return s.ch }
func (s fakeSub) Unsubscribe() error      { return nil }

type fakeDialer struct {
	mu        sync.Mutex
	dials     int
	transport *fakeTransport
}

func (d *fakeDialer) dial(ctx context.Context, endpoint, token string) (realtime.Transport, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dials++
	d.transport = newFakeTransport()
	return d.transport, nil
}

func (d *fakeDialer) dialCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}

func (d *fakeDialer) latest() *fakeTransport {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.transport
}

func newTestBinder(t *testing.T) (*Binder, *realtime.Client, *notify.Store, *fakeDialer) {
	t.Helper()
	d := &fakeDialer{}
	client := realtime.New("ws://localhost:8080/api/ws", d.dial)
	inbox := notify.NewStore()
	b := NewBinder(client, inbox, 10*time.Millisecond)
	t.Cleanup(b.Stop)
	return b, client, inbox, d
}

// nextMsg drains the next bridged message or fails the test.
func nextMsg(t *testing.T, b *Binder) tea.Msg {
	t.Helper()
	out := make(chan tea.Msg, 1)
	go func() { out <- b.WaitForNext()() }()

	select {
	case msg := <-out:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a bridged message")
		return nil
	}
}

// waitForStatus drains bridged messages until a StatusMsg with the wanted
// connectivity arrives.
func waitForStatus(t *testing.T, b *Binder, connected bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatalf("never saw StatusMsg{Connected: %v}", connected)
		default:
		}
		if msg, ok := nextMsg(t, b).(StatusMsg); ok && msg.Connected == connected {
			return
		}
	}
}

func TestStartWithoutTokenDoesNotConnect(t *testing.T) {
	b, client, _, d := newTestBinder(t)

	cmd := b.Start("")

	assert.Nil(t, cmd)
	assert.False(t, client.IsConnected())
	assert.Equal(t, 0, d.dialCount())
}

func TestStartConnectsAndReportsStatus(t *testing.T) {
	b, client, _, _ := newTestBinder(t)

	cmd := b.Start("test-token")
	require.NotNil(t, cmd)

	require.Eventually(t, client.IsConnected, time.Second, 5*time.Millisecond)
	waitForStatus(t, b, true)
}

func TestStartIsIdempotent(t *testing.T) {
	b, client, _, d := newTestBinder(t)

	b.Start("test-token")
	b.Start("test-token")
	require.Eventually(t, client.IsConnected, time.Second, 5*time.Millisecond)
	b.Start("test-token")

	assert.Equal(t, 1, d.dialCount())
}

func TestNotificationIsBridgedToInboxAndUI(t *testing.T) {
	b, client, inbox, d := newTestBinder(t)

	b.Start("test-token")
	require.Eventually(t, client.IsConnected, time.Second, 5*time.Millisecond)
	tr := d.latest()
	require.Eventually(t, func() bool {
		return tr.hasSub(notificationsQueue)
	}, time.Second, 5*time.Millisecond)

	// A comment notification raises no toast, so the next non-status
	// message must be the NotificationMsg itself.
	require.True(t, tr.push(notificationsQueue, []byte(
		`{"type":"TASK_COMMENT_ADDED","title":"New comment","message":"Dana commented"}`,
	)))

	deadline := time.After(2 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatal("never saw the NotificationMsg")
		default:
		}
		if msg, ok := nextMsg(t, b).(NotificationMsg); ok {
			assert.Equal(t, "New comment", msg.Notification.Title)
			break
		}
	}

	assert.Equal(t, 1, inbox.UnreadCount())
}

func TestToastIsBridged(t *testing.T) {
	b, client, _, d := newTestBinder(t)

	b.Start("test-token")
	require.Eventually(t, client.IsConnected, time.Second, 5*time.Millisecond)
	tr := d.latest()
	require.Eventually(t, func() bool {
		return tr.hasSub(notificationsQueue)
	}, time.Second, 5*time.Millisecond)

	require.True(t, tr.push(notificationsQueue, []byte(
		`{"type":"BADGE_EARNED","title":"Badge earned","message":"First Steps"}`,
	)))

	deadline := time.After(2 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatal("never saw the ToastMsg")
		default:
		}
		if msg, ok := nextMsg(t, b).(ToastMsg); ok {
			assert.Equal(t, notify.ToastSuccess, msg.Toast.Level)
			assert.Equal(t, "Badge earned", msg.Toast.Title)
			break
		}
	}
}

func TestStopDisconnectsAndClearsInbox(t *testing.T) {
	b, client, inbox, d := newTestBinder(t)

	b.Start("test-token")
	require.Eventually(t, client.IsConnected, time.Second, 5*time.Millisecond)
	tr := d.latest()
	require.Eventually(t, func() bool {
		return tr.hasSub(notificationsQueue)
	}, time.Second, 5*time.Millisecond)

	tr.push(notificationsQueue, []byte(
		`{"type":"TASK_ASSIGNED","title":"Assigned","message":"You got one"}`,
	))
	require.Eventually(t, func() bool {
		return inbox.UnreadCount() == 1
	}, time.Second, 5*time.Millisecond)

	b.Stop()

	assert.False(t, client.IsConnected())
	assert.Empty(t, inbox.Notifications())
	waitForStatus(t, b, false)
}

func TestStopWhenNotRunningIsSafe(t *testing.T) {
	b, _, _, _ := newTestBinder(t)
	b.Stop()
	b.Stop()
}
