// Package notify holds the bounded in-memory notification inbox for the
// current session and fans newly arrived notifications out to interested
// UI surfaces.
package notify

import (
	"sync"

	"github.com/taskflow/tui/internal/model"
)

// MaxNotifications bounds the inbox; the oldest entries are evicted first.
const MaxNotifications = 50

// ToastLevel selects the visual style of a toast alert.
type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastSuccess
)

// Toast is a transient alert raised for selected notification types.
type Toast struct {
	Level   ToastLevel
	Title   string
	Message string
}

// Listener receives each notification as it is added to the store.
type Listener func(model.Notification)

// ToastListener receives the toast raised for a notification, if any.
type ToastListener func(Toast)

// Store is the session inbox: a bounded, newest-first collection of
// notifications with client-side read state. All methods are safe for
// concurrent use; listeners are invoked outside the store's lock so a
// listener may call back into the store.
type Store struct {
	mu            sync.Mutex
	notifications []model.Notification
	listeners     []Listener
	toasters      []ToastListener
}

// NewStore creates an empty notification store.
func NewStore() *Store {
	return &Store{}
}

// OnNotification registers a listener invoked for every added notification,
// in registration order.
func (s *Store) OnNotification(fn Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// OnToast registers a listener for toast alerts.
func (s *Store) OnToast(fn ToastListener) {
	s.mu.Lock()
	s.toasters = append(s.toasters, fn)
	s.mu.Unlock()
}

// Add prepends the notification and evicts past the capacity bound, then
// dispatches it to the registered listeners. This is the only insertion
// point into the inbox.
func (s *Store) Add(n model.Notification) {
	s.mu.Lock()
	s.notifications = append([]model.Notification{n}, s.notifications...)
	if len(s.notifications) > MaxNotifications {
		s.notifications = s.notifications[:MaxNotifications]
	}
	listeners := append([]Listener(nil), s.listeners...)
	toasters := append([]ToastListener(nil), s.toasters...)
	s.mu.Unlock()

	if toast, ok := toastFor(n); ok {
		for _, fn := range toasters {
			fn(toast)
		}
	}
	for _, fn := range listeners {
		fn(n)
	}
}

// toastFor routes a notification type to its toast style. Types without
// an entry raise no toast.
func toastFor(n model.Notification) (Toast, bool) {
	switch n.Type {
	case model.NotificationTaskAssigned,
		model.NotificationTaskStatusChanged,
		model.NotificationProjectMemberAdded:
		return Toast{Level: ToastInfo, Title: n.Title, Message: n.Message}, true
	case model.NotificationBadgeEarned, model.NotificationLevelUp:
		return Toast{Level: ToastSuccess, Title: n.Title, Message: n.Message}, true
	default:
		return Toast{}, false
	}
}

// MarkAsRead flags the matching entry as read. Unknown ids are ignored;
// entry order never changes.
func (s *Store) MarkAsRead(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].Read = true
			return
		}
	}
}

// MarkAllAsRead flags every entry as read.
func (s *Store) MarkAllAsRead() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		s.notifications[i].Read = true
	}
}

// ClearAll empties the inbox.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = nil
}

// Notifications returns a newest-first snapshot of the inbox.
func (s *Store) Notifications() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// UnreadCount counts the entries not yet marked read. Recomputed on every
// call rather than cached.
func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for i := range s.notifications {
		if !s.notifications[i].Read {
			count++
		}
	}
	return count
}
