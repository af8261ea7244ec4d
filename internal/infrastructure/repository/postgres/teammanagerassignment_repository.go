package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/matchday/league-api/internal/domain/teammanagerassignment"
	qb "github.com/matchday/league-api/internal/platform/querybuilder"
)

type TeamManagerAssignmentRepository struct {
	db *sqlx.DB
}

func NewTeamManagerAssignmentRepository(db *sqlx.DB) *TeamManagerAssignmentRepository {
	return &TeamManagerAssignmentRepository{db: db}
}

func (r *TeamManagerAssignmentRepository) Assign(ctx context.Context, a teammanagerassignment.Assignment) error {
	query, args, err := qb.InsertInto("team_manager_assignments").
		Columns("user_public_id", "team_public_id").
		Values(a.UserID, a.TeamID).
		Suffix("ON CONFLICT (user_public_id, team_public_id) DO NOTHING").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert team manager assignment query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert team manager assignment: %w", err)
	}
	return nil
}

func (r *TeamManagerAssignmentRepository) Unassign(ctx context.Context, userID, teamID string) error {
	query := `DELETE FROM team_manager_assignments WHERE user_public_id = $1 AND team_public_id = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, teamID); err != nil {
		return fmt.Errorf("delete team manager assignment: %w", err)
	}
	return nil
}

func (r *TeamManagerAssignmentRepository) ListTeamsByUser(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT team_public_id FROM team_manager_assignments WHERE user_public_id = $1`
	var out []string
	if err := r.db.SelectContext(ctx, &out, query, userID); err != nil {
		return nil, fmt.Errorf("select teams by user: %w", err)
	}
	return out, nil
}

func (r *TeamManagerAssignmentRepository) ListUsersByTeam(ctx context.Context, teamID string) ([]string, error) {
	query := `SELECT user_public_id FROM team_manager_assignments WHERE team_public_id = $1`
	var out []string
	if err := r.db.SelectContext(ctx, &out, query, teamID); err != nil {
		return nil, fmt.Errorf("select users by team: %w", err)
	}
	return out, nil
}
