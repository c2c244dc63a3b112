// Package session binds the realtime client's lifecycle to authentication
// state: a login starts the connection and the connectivity poll, a logout
// tears both down and resets the notification inbox.
package session

import (
	"log"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskflow/tui/internal/model"
	"github.com/taskflow/tui/internal/notify"
	"github.com/taskflow/tui/internal/realtime"
)

// defaultStatusInterval is how often the connectivity snapshot is polled.
const defaultStatusInterval = 2 * time.Second

// StatusMsg is a tea.Msg carrying the current connectivity snapshot.
type StatusMsg struct {
	Connected bool
}

// NotificationMsg is a tea.Msg sent for every notification added to the
// inbox, so views can refresh their badge counters.
type NotificationMsg struct {
	Notification model.Notification
}

// ToastMsg is a tea.Msg carrying a toast alert to the UI overlay.
type ToastMsg struct {
	Toast notify.Toast
}

// Binder wires a realtime client and a notification inbox to the session
// lifecycle and bridges their events onto the Bubble Tea runtime.
type Binder struct {
	client   *realtime.Client
	inbox    *notify.Store
	interval time.Duration
	msgCh    chan tea.Msg

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

// NewBinder creates a binder for the given client and inbox. A zero
// interval selects the default 2s connectivity poll.
func NewBinder(client *realtime.Client, inbox *notify.Store, interval time.Duration) *Binder {
	if interval <= 0 {
		interval = defaultStatusInterval
	}
	b := &Binder{
		client:   client,
		inbox:    inbox,
		interval: interval,
		msgCh:    make(chan tea.Msg, 32),
	}

	inbox.OnToast(func(t notify.Toast) {
		b.send(ToastMsg{Toast: t})
	})
	inbox.OnNotification(func(n model.Notification) {
		b.send(NotificationMsg{Notification: n})
	})

	return b
}

// Start connects the realtime client with the given bearer token and
// begins the periodic connectivity poll. An empty token means there is no
// authenticated session, so no connection is attempted. The returned
// command waits for the next bridged message; calling Start while already
// running only returns that command.
func (b *Binder) Start(token string) tea.Cmd {
	if token == "" {
		log.Printf("[session] no token; skipping realtime connect")
		return nil
	}

	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		return b.waitForMsg()
	}
	b.running = true
	b.stopCh = make(chan struct{})
	stopCh := b.stopCh
	b.mu.Unlock()

	b.client.Connect(token, b.inbox.Add)
	go b.pollStatus(stopCh)

	return b.waitForMsg()
}

// Stop halts the connectivity poll, disconnects the realtime session, and
// clears the inbox so notifications never leak across user sessions. Safe
// to call when not running.
func (b *Binder) Stop() {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return
	}
	b.running = false
	close(b.stopCh)
	b.mu.Unlock()

	b.client.Disconnect()
	b.inbox.ClearAll()
	b.send(StatusMsg{Connected: false})
}

// pollStatus publishes a connectivity snapshot at each tick until stopped.
func (b *Binder) pollStatus(stopCh chan struct{}) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			b.send(StatusMsg{Connected: b.client.IsConnected()})
		}
	}
}

// Publish bridges an arbitrary message onto the binder's channel, letting
// transport callbacks (which run off the UI loop) hand events to the
// Bubble Tea runtime. Non-blocking; drops when the UI is not draining.
func (b *Binder) Publish(msg tea.Msg) {
	b.send(msg)
}

// send bridges a message to the UI without blocking; when the UI is not
// draining fast enough the message is dropped.
func (b *Binder) send(msg tea.Msg) {
	select {
	case b.msgCh <- msg:
	default:
	}
}

// waitForMsg returns a tea.Cmd that waits for the next bridged message.
func (b *Binder) waitForMsg() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-b.msgCh
		if !ok {
			return nil
		}
		return msg
	}
}

// WaitForNext returns a tea.Cmd that waits for the next bridged message.
// Call it after processing each StatusMsg/NotificationMsg/ToastMsg to
// keep listening.
func (b *Binder) WaitForNext() tea.Cmd {
	return b.waitForMsg()
}
