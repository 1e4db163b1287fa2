package tui

import "github.com/mmcdole/netkin/internal/domain"

// Notification is one queued user-facing message
type Notification struct {
	Message string
	Kind    domain.NotificationKind
}

// Notifications collects notifications raised while the event loop
// handles a message. The model drains it after every update.
type Notifications struct {
	pending []Notification
}

// NewNotifications creates an empty queue
func NewNotifications() *Notifications {
	return &Notifications{}
}

// Notify implements domain.Notifier
func (n *Notifications) Notify(message string, kind domain.NotificationKind) {
	n.pending = append(n.pending, Notification{Message: message, Kind: kind})
}

// Drain returns the newest pending notification and empties the queue.
// Errors outrank successes raised in the same update.
func (n *Notifications) Drain() (Notification, bool) {
	if len(n.pending) == 0 {
		return Notification{}, false
	}
	latest := n.pending[len(n.pending)-1]
	for _, p := range n.pending {
		if p.Kind == domain.NotifyError {
			latest = p
		}
	}
	n.pending = n.pending[:0]
	return latest, true
}
