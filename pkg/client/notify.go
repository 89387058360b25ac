package client

import (
	"sync"
	"time"
)

type Kind int

const (
	Success Kind = iota
	Error
)

func (k Kind) String() string {
	if k == Success {
		return "success"
	}
	return "error"
}

// Display lifetimes. A freshly generated share code stays up longer so the
// user has time to copy it.
const (
	TTLSuccess   = 3 * time.Second
	TTLShareCode = 5 * time.Second
	TTLCopied    = 2 * time.Second
	TTLError     = 3 * time.Second
)

type Notification struct {
	Kind      Kind
	Message   string
	ExpiresAt time.Time
}

// Notifier holds at most one live notification per kind. A new message of a
// kind replaces the current one and restarts its timer; kinds expire
// independently. Clearing is purely time-driven.
type Notifier struct {
	mu      sync.Mutex
	current map[Kind]Notification
	timers  map[Kind]*time.Timer
	seq     map[Kind]uint64
}

func NewNotifier() *Notifier {
	return &Notifier{
		current: make(map[Kind]Notification),
		timers:  make(map[Kind]*time.Timer),
		seq:     make(map[Kind]uint64),
	}
}

// Notify schedules the message for display and its clearing after ttl. Safe
// to call on a nil Notifier, which makes the channel optional for callers
// that do not surface feedback.
func (n *Notifier) Notify(kind Kind, message string, ttl time.Duration) {
	if n == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.seq[kind]++
	seq := n.seq[kind]
	n.current[kind] = Notification{
		Kind:      kind,
		Message:   message,
		ExpiresAt: time.Now().Add(ttl),
	}
	if t, ok := n.timers[kind]; ok {
		t.Stop()
	}
	n.timers[kind] = time.AfterFunc(ttl, func() {
		n.clear(kind, seq)
	})
}

// clear removes the notification only if no newer message of the same kind
// superseded the one this timer was armed for.
func (n *Notifier) clear(kind Kind, seq uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.seq[kind] != seq {
		return
	}
	delete(n.current, kind)
	delete(n.timers, kind)
}

// Current returns the live notification of the given kind, if any.
func (n *Notifier) Current(kind Kind) (Notification, bool) {
	if n == nil {
		return Notification{}, false
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	msg, ok := n.current[kind]
	if ok && time.Now().After(msg.ExpiresAt) {
		return Notification{}, false
	}
	return msg, ok
}

// Stop cancels all pending timers. Messages already displayed stay until
// queried past their expiry.
func (n *Notifier) Stop() {
	if n == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	for kind, t := range n.timers {
		t.Stop()
		delete(n.timers, kind)
	}
}
