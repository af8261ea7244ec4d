package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/matchday/league-api/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	items map[string]team.Team
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{items: make(map[string]team.Team)}
}

func (r *TeamRepository) Create(_ context.Context, t team.Team) (team.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[t.ID] = t
	return t, nil
}

func (r *TeamRepository) Update(_ context.Context, t team.Team) (team.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[t.ID] = t
	return t, nil
}

func (r *TeamRepository) List(_ context.Context, f team.Filter) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.items))
	for _, t := range r.items {
		if f.LeagueID != "" && t.LeagueID != f.LeagueID {
			continue
		}
		if f.ClubID != "" && t.ClubID != f.ClubID {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *TeamRepository) ListByLeague(_ context.Context, leagueID string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0)
	for _, t := range r.items {
		if t.LeagueID == leagueID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.items[teamID]
	return t, ok, nil
}

func (r *TeamRepository) GetByName(_ context.Context, name, clubID, leagueID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.items {
		if strings.EqualFold(t.Name, name) && t.ClubID == clubID && t.LeagueID == leagueID {
			return t, true, nil
		}
	}
	return team.Team{}, false, nil
}
