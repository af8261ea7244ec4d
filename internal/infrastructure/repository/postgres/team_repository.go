package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/matchday/league-api/internal/domain/team"
	qb "github.com/matchday/league-api/internal/platform/querybuilder"
)

type teamTableModel struct {
	ID          int64          `db:"id"`
	PublicID    string         `db:"public_id"`
	Name        string         `db:"name"`
	City        sql.NullString `db:"city"`
	ClubID      sql.NullString `db:"club_public_id"`
	LeagueID    string         `db:"league_public_id"`
	AcademyTeam bool           `db:"academy_team"`
}

func teamFromRow(row teamTableModel) team.Team {
	return team.Team{
		ID:          row.PublicID,
		Name:        row.Name,
		City:        nullStringToString(row.City),
		ClubID:      nullStringToString(row.ClubID),
		LeagueID:    row.LeagueID,
		AcademyTeam: row.AcademyTeam,
	}
}

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Create(ctx context.Context, t team.Team) (team.Team, error) {
	query, args, err := qb.InsertInto("teams").
		Columns("public_id", "name", "city", "club_public_id", "league_public_id", "academy_team").
		Values(t.ID, t.Name, nullableString(t.City), nullableString(t.ClubID), t.LeagueID, t.AcademyTeam).
		ToSQL()
	if err != nil {
		return team.Team{}, fmt.Errorf("build insert team query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return team.Team{}, fmt.Errorf("insert team: %w", err)
	}
	return t, nil
}

func (r *TeamRepository) Update(ctx context.Context, t team.Team) (team.Team, error) {
	query, args, err := qb.Update("teams").
		Set("name", t.Name).
		Set("city", nullableString(t.City)).
		Set("club_public_id", nullableString(t.ClubID)).
		Set("academy_team", t.AcademyTeam).
		Where(qb.Eq("public_id", t.ID)).
		ToSQL()
	if err != nil {
		return team.Team{}, fmt.Errorf("build update team query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return team.Team{}, fmt.Errorf("update team: %w", err)
	}
	return t, nil
}

func (r *TeamRepository) List(ctx context.Context, f team.Filter) ([]team.Team, error) {
	conditions := make([]qb.Condition, 0, 2)
	if f.LeagueID != "" {
		conditions = append(conditions, qb.Eq("league_public_id", f.LeagueID))
	}
	if f.ClubID != "" {
		conditions = append(conditions, qb.Eq("club_public_id", f.ClubID))
	}

	query, args, err := qb.Select("*").From("teams").Where(conditions...).OrderBy("id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}
	return out, nil
}

func (r *TeamRepository) ListByLeague(ctx context.Context, leagueID string) ([]team.Team, error) {
	return r.List(ctx, team.Filter{LeagueID: leagueID})
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").Where(qb.Eq("public_id", teamID)).ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team by id query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team by id: %w", err)
	}
	return teamFromRow(row), true, nil
}

func (r *TeamRepository) GetByName(ctx context.Context, name, clubID, leagueID string) (team.Team, bool, error) {
	conditions := []qb.Condition{
		qb.Expr("lower(name) = lower(?)", name),
		qb.Eq("league_public_id", leagueID),
	}
	if clubID != "" {
		conditions = append(conditions, qb.Eq("club_public_id", clubID))
	}

	query, args, err := qb.Select("*").From("teams").Where(conditions...).ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team by name query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team by name: %w", err)
	}
	return teamFromRow(row), true, nil
}
