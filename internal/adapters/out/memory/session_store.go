// Package memory holds in-process adapters used when no database is configured
// and in tests.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"logiflow/internal/core/ports"
	"logiflow/internal/pkg/errs"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore keeps device sessions in a map. Sessions are lost on restart.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]ports.StoredSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]ports.StoredSession)}
}

func (s *SessionStore) Save(_ context.Context, device string, stored ports.StoredSession) error {
	if strings.TrimSpace(device) == "" {
		return errs.NewValueIsRequiredError("device")
	}
	if stored.Token == "" {
		return errs.NewValueIsRequiredError("token")
	}
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[device] = stored
	return nil
}

func (s *SessionStore) Load(_ context.Context, device string) (ports.StoredSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.sessions[device]
	if !ok {
		return ports.StoredSession{}, errs.NewObjectNotFoundError("session", device)
	}
	return stored, nil
}

func (s *SessionStore) Delete(_ context.Context, device string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[device]; !ok {
		return errs.NewObjectNotFoundError("session", device)
	}
	delete(s.sessions, device)
	return nil
}

// DeleteOlderThan removes sessions not renewed since cutoff.
func (s *SessionStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for device, stored := range s.sessions {
		if stored.UpdatedAt.Before(cutoff) {
			delete(s.sessions, device)
			removed++
		}
	}
	return removed, nil
}
