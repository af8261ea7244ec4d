package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/matchday/league-api/internal/domain/club"
)

type ClubRepository struct {
	mu    sync.RWMutex
	items map[string]club.Club
}

func NewClubRepository() *ClubRepository {
	return &ClubRepository{items: make(map[string]club.Club)}
}

func (r *ClubRepository) Create(_ context.Context, c club.Club) (club.Club, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[c.ID] = c
	return c, nil
}

func (r *ClubRepository) GetByID(_ context.Context, id string) (club.Club, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[id]
	return c, ok, nil
}

func (r *ClubRepository) GetByName(_ context.Context, name string) (club.Club, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.items {
		if strings.EqualFold(c.Name, name) {
			return c, true, nil
		}
	}
	return club.Club{}, false, nil
}

func (r *ClubRepository) List(_ context.Context) ([]club.Club, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]club.Club, 0, len(r.items))
	for _, c := range r.items {
		out = append(out, c)
	}
	return out, nil
}

func (r *ClubRepository) Update(_ context.Context, c club.Club) (club.Club, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[c.ID] = c
	return c, nil
}
