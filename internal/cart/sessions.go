package cart

import (
	"context"
	"sync"
	"time"

	applog "organicfoods/internal/log"
)

// Sessions owns one Store per browsing session. A session starts on first Get and
// ends on End or once it has been idle longer than the TTL.
type Sessions struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	carts map[string]*session
}

type session struct {
	store    *Store
	lastSeen time.Time
}

func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{ttl: ttl, now: time.Now, carts: make(map[string]*session)}
}

// Get returns the cart for sid, creating an empty one if the session is new.
func (m *Sessions) Get(sid string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.carts[sid]
	if !ok {
		s = &session{store: New()}
		m.carts[sid] = s
	}
	s.lastSeen = m.now()
	return s.store
}

// Peek returns the cart for sid without starting a session or refreshing it.
func (m *Sessions) Peek(sid string) (*Store, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.carts[sid]
	if !ok {
		return nil, false
	}
	return s.store, true
}

// End tears the session down; a later Get starts over with an empty cart.
func (m *Sessions) End(sid string) {
	m.mu.Lock()
	delete(m.carts, sid)
	m.mu.Unlock()
}

func (m *Sessions) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.carts)
}

// Sweep ends every session idle for longer than the TTL and returns how many it ended.
// A TTL of zero keeps sessions for the life of the process.
func (m *Sessions) Sweep(now time.Time) int {
	if m.ttl <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for sid, s := range m.carts {
		if now.Sub(s.lastSeen) > m.ttl {
			delete(m.carts, sid)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (m *Sessions) Run(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := m.Sweep(now); n > 0 {
				applog.Info(nil, "session.sweep", map[string]any{"ended": n, "active": m.Len()})
			}
		}
	}
}
