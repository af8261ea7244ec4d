package memory

import (
	"context"
	"sync"

	"github.com/matchday/league-api/internal/domain/session"
)

type SessionRepository struct {
	mu    sync.Mutex
	items map[string]session.Session
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{items: make(map[string]session.Session)}
}

func (r *SessionRepository) Create(_ context.Context, s session.Session) (session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[s.ID] = s
	return s, nil
}

func (r *SessionRepository) GetByID(_ context.Context, id string) (session.Session, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	return s, ok, nil
}

// Rotate swaps the refresh token hash only if oldHash still matches the
// stored hash, guarding against a concurrent rotation racing this one.
func (r *SessionRepository) Rotate(_ context.Context, id, oldHash, newHash string) (session.Session, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.items[id]
	if !ok {
		return session.Session{}, false, nil
	}
	if s.RefreshTokenHash != oldHash {
		return s, false, nil
	}

	s.RefreshTokenHash = newHash
	s.Generation++
	r.items[id] = s
	return s, true, nil
}

func (r *SessionRepository) Revoke(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok {
		return nil
	}
	s.Revoked = true
	r.items[id] = s
	return nil
}
