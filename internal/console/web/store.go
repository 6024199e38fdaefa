package web

import (
	"context"
	"sync"
	"time"

	"fleetadmin/internal/console"

	"github.com/sirupsen/logrus"
)

// SessionStore keeps console sessions in memory. Sessions idle for longer
// than the TTL are dropped by Sweep.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*console.Session
	ttl      time.Duration
	create   func() *console.Session
}

func NewSessionStore(ttl time.Duration, create func() *console.Session) *SessionStore {
	return &SessionStore{sessions: make(map[string]*console.Session), ttl: ttl, create: create}
}

// Get returns a live session and marks it used.
func (s *SessionStore) Get(id string) (*console.Session, bool) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}
	if s.ttl > 0 && time.Since(sess.LastSeen()) > s.ttl {
		s.Delete(id)
		return nil, false
	}
	sess.Touch()
	return sess, true
}

// Build returns a session that is not tracked until Add.
func (s *SessionStore) Build() *console.Session { return s.create() }

func (s *SessionStore) Add(sess *console.Session) {
	sess.Touch()
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
}

func (s *SessionStore) New() *console.Session {
	sess := s.Build()
	s.Add(sess)
	return sess
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle since before now minus the TTL.
func (s *SessionStore) Sweep(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.LastSeen()) > s.ttl {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.Sweep(now); n > 0 {
				logrus.WithField("expired", n).Debug("Console sessions swept")
			}
		}
	}
}
