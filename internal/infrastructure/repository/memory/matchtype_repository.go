package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/matchday/league-api/internal/domain/matchtype"
)

type MatchTypeRepository struct {
	mu    sync.RWMutex
	items map[string]matchtype.MatchType
}

func NewMatchTypeRepository() *MatchTypeRepository {
	return &MatchTypeRepository{items: make(map[string]matchtype.MatchType)}
}

func (r *MatchTypeRepository) Create(_ context.Context, m matchtype.MatchType) (matchtype.MatchType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[m.ID] = m
	return m, nil
}

func (r *MatchTypeRepository) GetByID(_ context.Context, id string) (matchtype.MatchType, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.items[id]
	return m, ok, nil
}

func (r *MatchTypeRepository) GetByName(_ context.Context, name string) (matchtype.MatchType, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.items {
		if strings.EqualFold(m.Name, name) {
			return m, true, nil
		}
	}
	return matchtype.MatchType{}, false, nil
}

func (r *MatchTypeRepository) List(_ context.Context) ([]matchtype.MatchType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]matchtype.MatchType, 0, len(r.items))
	for _, m := range r.items {
		out = append(out, m)
	}
	return out, nil
}
