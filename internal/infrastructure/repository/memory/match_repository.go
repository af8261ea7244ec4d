package memory

import (
	"context"
	"sync"

	"github.com/matchday/league-api/internal/domain/match"
)

type MatchRepository struct {
	mu    sync.RWMutex
	items map[string]match.Match
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{items: make(map[string]match.Match)}
}

func (r *MatchRepository) Create(_ context.Context, m match.Match) (match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[m.ID] = m
	return m, nil
}

func (r *MatchRepository) Update(_ context.Context, m match.Match) (match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[m.ID] = m
	return m, nil
}

func (r *MatchRepository) GetByID(_ context.Context, id string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.items[id]
	return m, ok, nil
}

func (r *MatchRepository) GetByExternalID(_ context.Context, externalMatchID string) (match.Match, bool, error) {
	if externalMatchID == "" {
		return match.Match{}, false, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.items {
		if m.ExternalMatchID == externalMatchID {
			return m, true, nil
		}
	}
	return match.Match{}, false, nil
}

func (r *MatchRepository) GetByDedup(_ context.Context, d match.Dedup) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.items {
		if m.HomeTeamID == d.HomeTeamID &&
			m.AwayTeamID == d.AwayTeamID &&
			m.MatchDate.Equal(d.MatchDate) &&
			m.SeasonID == d.SeasonID &&
			m.AgeGroupID == d.AgeGroupID &&
			m.MatchTypeID == d.MatchTypeID &&
			m.DivisionID == d.DivisionID {
			return m, true, nil
		}
	}
	return match.Match{}, false, nil
}

func (r *MatchRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *MatchRepository) List(_ context.Context, f match.Filter) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, m := range r.items {
		if !matchesFilter(m, f) {
			continue
		}
		out = append(out, m)
	}

	if f.Offset > 0 && f.Offset < len(out) {
		out = out[f.Offset:]
	} else if f.Offset >= len(out) {
		out = nil
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *MatchRepository) ListCompleted(_ context.Context, leagueID, divisionID, seasonID, ageGroupID string) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, m := range r.items {
		if m.Status != match.StatusCompleted {
			continue
		}
		if divisionID != "" && m.DivisionID != divisionID {
			continue
		}
		if seasonID != "" && m.SeasonID != seasonID {
			continue
		}
		if ageGroupID != "" && m.AgeGroupID != ageGroupID {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func matchesFilter(m match.Match, f match.Filter) bool {
	if f.SeasonID != "" && m.SeasonID != f.SeasonID {
		return false
	}
	if f.AgeGroupID != "" && m.AgeGroupID != f.AgeGroupID {
		return false
	}
	if f.DivisionID != "" && m.DivisionID != f.DivisionID {
		return false
	}
	if f.Status != "" && m.Status != f.Status {
		return false
	}
	if f.TeamID != "" && m.HomeTeamID != f.TeamID && m.AwayTeamID != f.TeamID {
		return false
	}
	if !f.DateFrom.IsZero() && m.MatchDate.Before(f.DateFrom) {
		return false
	}
	if !f.DateTo.IsZero() && m.MatchDate.After(f.DateTo) {
		return false
	}
	return true
}
