package teammanagerassignment

import (
	"context"
	"fmt"
)

// Assignment grants a team_manager authority over one team. A manager may
// hold several assignments across different teams.
type Assignment struct {
	UserID string
	TeamID string
}

func (a Assignment) Validate() error {
	if a.UserID == "" {
		return fmt.Errorf("teammanagerassignment: user_id is required")
	}
	if a.TeamID == "" {
		return fmt.Errorf("teammanagerassignment: team_id is required")
	}
	return nil
}

type Repository interface {
	Assign(ctx context.Context, a Assignment) error
	Unassign(ctx context.Context, userID, teamID string) error
	ListTeamsByUser(ctx context.Context, userID string) ([]string, error)
	ListUsersByTeam(ctx context.Context, teamID string) ([]string, error)
}
