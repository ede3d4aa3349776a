package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Zachkp/cs-journey/internal/portfolio"
)

// Store keeps every live session in memory. Nothing survives a restart.
type Store struct {
	content *portfolio.Content
	ttl     time.Duration
	now     func() time.Time
	logger  *zap.Logger

	mu       sync.Mutex
	sessions map[string]*State
}

type Option func(*Store)

// WithClock overrides the time source used for log dates and expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// NewStore creates a store that seeds new sessions from content and drops
// sessions idle for longer than ttl. A non-positive ttl disables expiry.
func NewStore(content *portfolio.Content, ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		content:  content,
		ttl:      ttl,
		now:      time.Now,
		logger:   zap.NewNop(),
		sessions: make(map[string]*State),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the live session with the given id and marks it as seen.
func (s *Store) Get(id string) (*State, bool) {
	if id == "" {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	st.lastSeen = s.now()
	return st, true
}

// Create seeds a new session under a fresh random id.
func (s *Store) Create() *State {
	id := uuid.NewString()
	st := NewState(id, s.content, s.now)

	s.mu.Lock()
	st.lastSeen = s.now()
	s.sessions[id] = st
	n := len(s.sessions)
	s.mu.Unlock()

	s.logger.Debug("Session created", zap.String("session_id", shortID(id)), zap.Int("live_sessions", n))
	return st
}

// GetOrCreate returns the session for id, creating one when id is unknown.
// created reports whether a new session was made.
func (s *Store) GetOrCreate(id string) (st *State, created bool) {
	if st, ok := s.Get(id); ok {
		return st, false
	}
	return s.Create(), true
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes sessions idle for longer than the ttl and returns how many
// were dropped.
func (s *Store) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, st := range s.sessions {
		if st.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 || s.ttl <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Info("Expired idle sessions", zap.Int("removed", n), zap.Int("live_sessions", s.Len()))
			}
		}
	}
}

// shortID trims a session id for log lines.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
