// Package toast is the queue of short-lived notifications shown to the user.
package toast

import (
	"sync"
	"time"

	"booking-client/internal/metrics"
)

type Type string

const (
	Info    Type = "info"
	Success Type = "success"
	Error   Type = "error"
)

// DefaultTTL is how long a toast stays up unless dismissed.
const DefaultTTL = 4 * time.Second

type Toast struct {
	ID      int
	Message string
	Type    Type
	Created time.Time
}

// Notifier owns the toasts. Expiry timers fire on their own goroutines, so
// every access goes through mu.
type Notifier struct {
	mu      sync.Mutex
	ttl     time.Duration
	nextID  int
	toasts  []Toast
	timers  map[int]*time.Timer
	display func(Toast)
	metrics *metrics.Metrics
}

type Option func(*Notifier)

// WithDisplay calls fn for every new toast, outside the lock.
func WithDisplay(fn func(Toast)) Option {
	return func(n *Notifier) { n.display = fn }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(n *Notifier) { n.metrics = m }
}

func New(ttl time.Duration, opts ...Option) *Notifier {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	n := &Notifier{ttl: ttl, timers: make(map[int]*time.Timer)}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Add queues a toast and schedules its expiry. An empty type means info.
func (n *Notifier) Add(message string, typ Type) int {
	if typ == "" {
		typ = Info
	}
	n.mu.Lock()
	n.nextID++
	t := Toast{ID: n.nextID, Message: message, Type: typ, Created: time.Now()}
	n.toasts = append(n.toasts, t)
	id := t.ID
	n.timers[id] = time.AfterFunc(n.ttl, func() { n.Remove(id) })
	display := n.display
	n.mu.Unlock()

	n.metrics.ObserveToast(string(typ))
	if display != nil {
		display(t)
	}
	return id
}

// Remove dismisses a toast; unknown ids are ignored.
func (n *Notifier) Remove(id int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if tm, ok := n.timers[id]; ok {
		tm.Stop()
		delete(n.timers, id)
	}
	for i, t := range n.toasts {
		if t.ID == id {
			n.toasts = append(n.toasts[:i], n.toasts[i+1:]...)
			return
		}
	}
}

// List returns the live toasts, oldest first.
func (n *Notifier) List() []Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Toast(nil), n.toasts...)
}

// Close stops pending timers and drops every toast.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for id, tm := range n.timers {
		tm.Stop()
		delete(n.timers, id)
	}
	n.toasts = nil
}
