// Package session keeps one page per browser in memory. Nothing outlives the
// process.
package session

import (
	"context"
	"sync"
	"time"

	"task_frontend/internal/logger"
	"task_frontend/internal/page"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

var activeSessions = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "ui_sessions_active",
	Help: "View sessions currently held in memory",
})

func init() {
	prometheus.MustRegister(activeSessions)
}

type entry struct {
	page     *page.Page
	lastSeen time.Time
}

// Store maps session ids to pages. An entry idle for longer than ttl is gone.
type Store struct {
	newPage func() *page.Page
	ttl     time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

func NewStore(ttl time.Duration, newPage func() *page.Page) *Store {
	return &Store{
		newPage:  newPage,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// Create starts a new session with a fresh page. The caller loads the list.
func (s *Store) Create() (string, *page.Page) {
	sid := uuid.NewString()
	p := s.newPage()

	s.mu.Lock()
	s.sessions[sid] = &entry{page: p, lastSeen: s.now()}
	n := len(s.sessions)
	s.mu.Unlock()

	activeSessions.Set(float64(n))
	return sid, p
}

// Get returns the page of a live session and marks it as seen.
func (s *Store) Get(sid string) (*page.Page, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[sid]
	if !ok {
		return nil, false
	}
	now := s.now()
	if now.Sub(e.lastSeen) > s.ttl {
		delete(s.sessions, sid)
		activeSessions.Set(float64(len(s.sessions)))
		return nil, false
	}
	e.lastSeen = now
	return e.page, true
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// StartCleanup drops idle sessions every interval until ctx is done.
func (s *Store) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.cleanupExpired(); n > 0 {
					logger.Debug("expired sessions removed", "count", n)
				}
			}
		}
	}()
}

func (s *Store) cleanupExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for sid, e := range s.sessions {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.sessions, sid)
			removed++
		}
	}
	activeSessions.Set(float64(len(s.sessions)))
	return removed
}
