package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/matchday/league-api/internal/domain/agegroup"
)

type AgeGroupRepository struct {
	mu    sync.RWMutex
	items map[string]agegroup.AgeGroup
}

func NewAgeGroupRepository() *AgeGroupRepository {
	return &AgeGroupRepository{items: make(map[string]agegroup.AgeGroup)}
}

func (r *AgeGroupRepository) Create(_ context.Context, a agegroup.AgeGroup) (agegroup.AgeGroup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[a.ID] = a
	return a, nil
}

func (r *AgeGroupRepository) GetByID(_ context.Context, id string) (agegroup.AgeGroup, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.items[id]
	return a, ok, nil
}

func (r *AgeGroupRepository) GetByName(_ context.Context, name string) (agegroup.AgeGroup, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.items {
		if strings.EqualFold(a.Name, name) {
			return a, true, nil
		}
	}
	return agegroup.AgeGroup{}, false, nil
}

func (r *AgeGroupRepository) List(_ context.Context) ([]agegroup.AgeGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]agegroup.AgeGroup, 0, len(r.items))
	for _, a := range r.items {
		out = append(out, a)
	}
	return out, nil
}
