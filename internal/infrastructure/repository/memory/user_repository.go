package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/matchday/league-api/internal/domain/user"
)

type UserRepository struct {
	mu    sync.RWMutex
	items map[string]user.Profile
}

func NewUserRepository() *UserRepository {
	return &UserRepository{items: make(map[string]user.Profile)}
}

func (r *UserRepository) Create(_ context.Context, p user.Profile) (user.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[p.ID] = p
	return p, nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (user.Profile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	return p, ok, nil
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (user.Profile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.items {
		if strings.EqualFold(p.Username, username) {
			return p, true, nil
		}
	}
	return user.Profile{}, false, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (user.Profile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.items {
		if strings.EqualFold(p.Email, email) {
			return p, true, nil
		}
	}
	return user.Profile{}, false, nil
}

func (r *UserRepository) Update(_ context.Context, p user.Profile) (user.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[p.ID] = p
	return p, nil
}

func (r *UserRepository) ListByTeam(_ context.Context, teamID string) ([]user.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]user.Profile, 0)
	for _, p := range r.items {
		if p.TeamID == teamID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *UserRepository) ListByClub(_ context.Context, clubID string) ([]user.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]user.Profile, 0)
	for _, p := range r.items {
		if p.ClubID == clubID {
			out = append(out, p)
		}
	}
	return out, nil
}
