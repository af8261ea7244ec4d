package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/matchday/league-api/internal/domain/league"
	qb "github.com/matchday/league-api/internal/platform/querybuilder"
)

type leagueTableModel struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	Name      string    `db:"name"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func leagueFromRow(row leagueTableModel) league.League {
	return league.League{
		ID:        row.PublicID,
		Name:      row.Name,
		IsActive:  row.IsActive,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) Create(ctx context.Context, l league.League) (league.League, error) {
	query, args, err := qb.InsertInto("leagues").
		Columns("public_id", "name", "is_active").
		Values(l.ID, l.Name, l.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSQL()
	if err != nil {
		return league.League{}, fmt.Errorf("build insert league query: %w", err)
	}

	var row struct {
		ID        int64     `db:"id"`
		CreatedAt time.Time `db:"created_at"`
		UpdatedAt time.Time `db:"updated_at"`
	}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return league.League{}, fmt.Errorf("insert league: %w", err)
	}

	l.CreatedAt = row.CreatedAt
	l.UpdatedAt = row.UpdatedAt
	return l, nil
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select("*").From("leagues").OrderBy("id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leagues: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, leagueFromRow(row))
	}
	return out, nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(qb.Eq("public_id", leagueID)).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league by id query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league by id: %w", err)
	}
	return leagueFromRow(row), true, nil
}

func (r *LeagueRepository) GetByName(ctx context.Context, name string) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(qb.Expr("lower(name) = lower(?)", name)).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league by name query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league by name: %w", err)
	}
	return leagueFromRow(row), true, nil
}

func (r *LeagueRepository) Update(ctx context.Context, l league.League) (league.League, error) {
	query, args, err := qb.Update("leagues").
		Set("name", l.Name).
		Set("is_active", l.IsActive).
		SetExpr("updated_at", "now()").
		Where(qb.Eq("public_id", l.ID)).
		Suffix("RETURNING updated_at").
		ToSQL()
	if err != nil {
		return league.League{}, fmt.Errorf("build update league query: %w", err)
	}

	var row struct {
		UpdatedAt time.Time `db:"updated_at"`
	}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return league.League{}, fmt.Errorf("update league: %w", err)
	}

	l.UpdatedAt = row.UpdatedAt
	return l, nil
}
