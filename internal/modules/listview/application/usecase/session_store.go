package usecase

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"acornAdmin/internal/shared/clock"
)

const defaultSessionTTL = 30 * time.Minute

// View is the per-session state of one screen. Close is called when the session is unmounted or
// expires.
type View interface {
	Close()
}

// SessionStore keeps one view per browser session, expiring idle ones.
type SessionStore[V View] struct {
	mu      sync.RWMutex
	entries map[string]*sessionEntry[V]
	ttl     time.Duration
	clock   clock.Clock
	factory func(sessionID string) (V, error)
}

type sessionEntry[V View] struct {
	view      V
	mountedAt time.Time
	lastSeen  time.Time
}

func NewSessionStore[V View](ttl time.Duration, clk clock.Clock, factory func(sessionID string) (V, error)) *SessionStore[V] {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &SessionStore[V]{
		entries: make(map[string]*sessionEntry[V]),
		ttl:     ttl,
		clock:   clk,
		factory: factory,
	}
}

// Mount returns the view for sessionID, creating one when the id is unknown or expired. A blank or
// malformed id is replaced with a fresh UUID; the id actually used is returned.
func (s *SessionStore[V]) Mount(sessionID string) (string, V, bool, error) {
	id := normalizeSessionID(sessionID)
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[id]; ok {
		if now.Sub(entry.lastSeen) <= s.ttl {
			entry.lastSeen = now
			return id, entry.view, false, nil
		}
		entry.view.Close()
		delete(s.entries, id)
		slog.Debug("view session expired on mount", slog.String("sessionId", id))
	}

	view, err := s.factory(id)
	if err != nil {
		var zero V
		return "", zero, false, err
	}
	s.entries[id] = &sessionEntry[V]{view: view, mountedAt: now, lastSeen: now}
	slog.Info("view session mounted", slog.String("sessionId", id))
	return id, view, true, nil
}

// Get returns a live view without creating one.
func (s *SessionStore[V]) Get(sessionID string) (V, bool) {
	id := strings.TrimSpace(sessionID)
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok || now.Sub(entry.lastSeen) > s.ttl {
		var zero V
		return zero, false
	}
	entry.lastSeen = now
	return entry.view, true
}

// Unmount closes and forgets the view for sessionID.
func (s *SessionStore[V]) Unmount(sessionID string) bool {
	id := strings.TrimSpace(sessionID)
	s.mu.Lock()
	entry, ok := s.entries[id]
	if ok {
		delete(s.entries, id)
	}
	s.mu.Unlock()
	if ok {
		entry.view.Close()
		slog.Info("view session unmounted", slog.String("sessionId", id))
	}
	return ok
}

// Sweep closes every view idle for longer than the TTL and returns how many were dropped.
func (s *SessionStore[V]) Sweep() int {
	now := s.clock.Now()
	s.mu.Lock()
	expired := make([]V, 0)
	for id, entry := range s.entries {
		if now.Sub(entry.lastSeen) > s.ttl {
			expired = append(expired, entry.view)
			delete(s.entries, id)
		}
	}
	s.mu.Unlock()
	for _, view := range expired {
		view.Close()
	}
	return len(expired)
}

// Each calls fn for every live view. fn runs outside the store lock.
func (s *SessionStore[V]) Each(fn func(sessionID string, view V)) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.entries))
	views := make([]V, 0, len(s.entries))
	for id, entry := range s.entries {
		ids = append(ids, id)
		views = append(views, entry.view)
	}
	s.mu.RUnlock()
	for i := range ids {
		fn(ids[i], views[i])
	}
}

// Len returns the number of mounted sessions.
func (s *SessionStore[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func normalizeSessionID(raw string) string {
	parsed, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.NewString()
	}
	return parsed.String()
}
