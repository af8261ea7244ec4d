package memory

import (
	"context"
	"sync"

	"github.com/matchday/league-api/internal/domain/playerteamhistory"
)

func historyKey(playerID, teamID, seasonID string) string {
	return playerID + "|" + teamID + "|" + seasonID
}

type PlayerTeamHistoryRepository struct {
	mu    sync.Mutex
	items map[string]playerteamhistory.Entry
}

func NewPlayerTeamHistoryRepository() *PlayerTeamHistoryRepository {
	return &PlayerTeamHistoryRepository{items: make(map[string]playerteamhistory.Entry)}
}

func (r *PlayerTeamHistoryRepository) Upsert(_ context.Context, e playerteamhistory.Entry) (playerteamhistory.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[historyKey(e.PlayerID, e.TeamID, e.SeasonID)] = e
	return e, nil
}

func (r *PlayerTeamHistoryRepository) ListByPlayer(_ context.Context, playerID string) ([]playerteamhistory.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]playerteamhistory.Entry, 0)
	for _, e := range r.items {
		if e.PlayerID == playerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *PlayerTeamHistoryRepository) GetCurrent(_ context.Context, playerID string) (playerteamhistory.Entry, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.items {
		if e.PlayerID == playerID && e.IsCurrent {
			return e, true, nil
		}
	}
	return playerteamhistory.Entry{}, false, nil
}

// SetCurrent clears is_current on every other entry for the player before
// marking the given team/season entry current, preserving the
// at-most-one-current invariant as a single logical write.
func (r *PlayerTeamHistoryRepository) SetCurrent(_ context.Context, playerID, teamID, seasonID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for k, e := range r.items {
		if e.PlayerID != playerID {
			continue
		}
		isTarget := e.TeamID == teamID && e.SeasonID == seasonID
		if e.IsCurrent != isTarget {
			e.IsCurrent = isTarget
			r.items[k] = e
		}
	}
	return nil
}
