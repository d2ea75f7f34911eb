package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type entry[T any] struct {
	value    T
	lastSeen time.Time
}

// Store keeps one value per session id. Entries idle for longer than the
// TTL are dropped by Sweep.
type Store[T any] struct {
	name string
	ttl  time.Duration
	now  func() time.Time

	mu      sync.Mutex
	entries map[string]*entry[T]
}

func NewStore[T any](name string, ttl time.Duration) *Store[T] {
	return &Store[T]{
		name:    name,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*entry[T]),
	}
}

// Put replaces the value of a session
func (s *Store[T]) Put(sid string, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sid] = &entry[T]{value: value, lastSeen: s.now()}
}

// Get returns the value of a session and refreshes its idle timer
func (s *Store[T]) Get(sid string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sid]
	if !ok || s.expired(e) {
		var zero T
		return zero, false
	}
	e.lastSeen = s.now()
	return e.value, true
}

// GetOrCreate returns the session's value, creating it with create when absent
func (s *Store[T]) GetOrCreate(sid string, create func() T) T {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[sid]; ok && !s.expired(e) {
		e.lastSeen = s.now()
		return e.value
	}
	v := create()
	s.entries[sid] = &entry[T]{value: v, lastSeen: s.now()}
	return v
}

func (s *Store[T]) Delete(sid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sid)
}

func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep drops expired entries and returns how many were removed
func (s *Store[T]) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for sid, e := range s.entries {
		if s.expired(e) {
			delete(s.entries, sid)
			removed++
		}
	}
	return removed
}

func (s *Store[T]) expired(e *entry[T]) bool {
	return s.ttl > 0 && s.now().Sub(e.lastSeen) > s.ttl
}

// Janitor sweeps a store on a ticker until stopped or its context ends
type Janitor struct {
	interval time.Duration
	sweep    func() int
	name     string
	done     chan struct{}
	ticker   *time.Ticker
	stopOnce sync.Once
}

// StartJanitor sweeps s every interval in a background goroutine
func (s *Store[T]) StartJanitor(ctx context.Context, interval time.Duration) *Janitor {
	j := &Janitor{
		interval: interval,
		sweep:    s.Sweep,
		name:     s.name,
		done:     make(chan struct{}),
		ticker:   time.NewTicker(interval),
	}
	go j.run(ctx)

	log.Info().
		Str("store", s.name).
		Dur("interval", interval).
		Dur("ttl", s.ttl).
		Msg("started session janitor")
	return j
}

func (j *Janitor) Stop() {
	j.stopOnce.Do(func() {
		j.ticker.Stop()
		close(j.done)
		log.Info().Str("store", j.name).Msg("session janitor stopped")
	})
}

func (j *Janitor) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("store", j.name).Msg("context cancelled, session janitor shutting down")
			return
		case <-j.done:
			return
		case <-j.ticker.C:
			if n := j.sweep(); n > 0 {
				log.Debug().
					Str("store", j.name).
					Int("removed", n).
					Msg("swept idle sessions")
			}
		}
	}
}
