package division

import (
	"context"
	"fmt"
	"strings"
)

// Division groups teams within a league for standings purposes (e.g. "North", "Gold").
// Uniqueness is (name, league_id); Level orders divisions for display only.
type Division struct {
	ID       string
	LeagueID string
	Name     string
	Level    int
}

func (d Division) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("division: id is required")
	}
	if strings.TrimSpace(d.LeagueID) == "" {
		return fmt.Errorf("division: league_id is required")
	}
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("division: name is required")
	}
	return nil
}

type Repository interface {
	Create(ctx context.Context, d Division) (Division, error)
	GetByID(ctx context.Context, id string) (Division, bool, error)
	GetByName(ctx context.Context, leagueID, name string) (Division, bool, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Division, error)
}
