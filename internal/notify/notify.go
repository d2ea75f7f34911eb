package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a toast stays up when no TTL is configured
const DefaultTTL = 5 * time.Second

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Notification is one transient toast
type Notification struct {
	ID        string
	Kind      Kind
	Message   string
	ExpiresAt time.Time
}

// Center is a session's toast stack, newest first
type Center struct {
	ttl time.Duration
	now func() time.Time

	mu    sync.Mutex
	items []Notification
}

func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{
		ttl: ttl,
		now: time.Now,
	}
}

// Push adds a toast on top of the stack and returns it
func (c *Center) Push(kind Kind, message string) Notification {
	n := Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		ExpiresAt: c.now().Add(c.ttl),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]Notification{n}, c.items...)
	return n
}

func (c *Center) Error(message string) {
	c.Push(KindError, message)
}

func (c *Center) Success(message string) {
	c.Push(KindSuccess, message)
}

func (c *Center) Info(message string) {
	c.Push(KindInfo, message)
}

// Dismiss removes a toast. It reports whether the id was present.
func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Active drops the toasts expired at now and returns the rest
func (c *Center) Active(now time.Time) []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.items[:0]
	for _, n := range c.items {
		if now.Before(n.ExpiresAt) {
			kept = append(kept, n)
		}
	}
	c.items = kept
	return append([]Notification(nil), kept...)
}

// TTL is the remaining lifetime of n at now, never negative
func (n Notification) TTL(now time.Time) time.Duration {
	if d := n.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}
