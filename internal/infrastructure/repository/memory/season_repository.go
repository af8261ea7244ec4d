package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/matchday/league-api/internal/domain/season"
)

type SeasonRepository struct {
	mu    sync.RWMutex
	items map[string]season.Season
}

func NewSeasonRepository() *SeasonRepository {
	return &SeasonRepository{items: make(map[string]season.Season)}
}

func (r *SeasonRepository) Create(_ context.Context, s season.Season) (season.Season, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[s.ID] = s
	return s, nil
}

func (r *SeasonRepository) GetByID(_ context.Context, id string) (season.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.items[id]
	return s, ok, nil
}

func (r *SeasonRepository) GetByName(_ context.Context, name string) (season.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.items {
		if strings.EqualFold(s.Name, name) {
			return s, true, nil
		}
	}
	return season.Season{}, false, nil
}

func (r *SeasonRepository) GetCurrent(_ context.Context) (season.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.items {
		if s.IsCurrent {
			return s, true, nil
		}
	}
	return season.Season{}, false, nil
}

func (r *SeasonRepository) List(_ context.Context) ([]season.Season, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]season.Season, 0, len(r.items))
	for _, s := range r.items {
		out = append(out, s)
	}
	return out, nil
}
