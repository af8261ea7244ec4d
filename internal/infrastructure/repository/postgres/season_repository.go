package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/matchday/league-api/internal/domain/season"
	qb "github.com/matchday/league-api/internal/platform/querybuilder"
)

type seasonTableModel struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	Name      string    `db:"name"`
	StartsOn  time.Time `db:"starts_on"`
	EndsOn    time.Time `db:"ends_on"`
	IsCurrent bool      `db:"is_current"`
}

func seasonFromRow(row seasonTableModel) season.Season {
	return season.Season{
		ID:        row.PublicID,
		Name:      row.Name,
		StartsOn:  row.StartsOn,
		EndsOn:    row.EndsOn,
		IsCurrent: row.IsCurrent,
	}
}

type SeasonRepository struct {
	db *sqlx.DB
}

func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) Create(ctx context.Context, s season.Season) (season.Season, error) {
	query, args, err := qb.InsertInto("seasons").
		Columns("public_id", "name", "starts_on", "ends_on", "is_current").
		Values(s.ID, s.Name, s.StartsOn, s.EndsOn, s.IsCurrent).
		ToSQL()
	if err != nil {
		return season.Season{}, fmt.Errorf("build insert season query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return season.Season{}, fmt.Errorf("insert season: %w", err)
	}
	return s, nil
}

func (r *SeasonRepository) GetByID(ctx context.Context, id string) (season.Season, bool, error) {
	query, args, err := qb.Select("*").From("seasons").Where(qb.Eq("public_id", id)).ToSQL()
	if err != nil {
		return season.Season{}, false, fmt.Errorf("build get season by id query: %w", err)
	}

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return season.Season{}, false, nil
		}
		return season.Season{}, false, fmt.Errorf("get season by id: %w", err)
	}
	return seasonFromRow(row), true, nil
}

func (r *SeasonRepository) GetByName(ctx context.Context, name string) (season.Season, bool, error) {
	query, args, err := qb.Select("*").From("seasons").
		Where(qb.Expr("lower(name) = lower(?)", name)).
		ToSQL()
	if err != nil {
		return season.Season{}, false, fmt.Errorf("build get season by name query: %w", err)
	}

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return season.Season{}, false, nil
		}
		return season.Season{}, false, fmt.Errorf("get season by name: %w", err)
	}
	return seasonFromRow(row), true, nil
}

func (r *SeasonRepository) GetCurrent(ctx context.Context) (season.Season, bool, error) {
	query, args, err := qb.Select("*").From("seasons").
		Where(qb.Eq("is_current", true)).
		Limit(1).
		ToSQL()
	if err != nil {
		return season.Season{}, false, fmt.Errorf("build get current season query: %w", err)
	}

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return season.Season{}, false, nil
		}
		return season.Season{}, false, fmt.Errorf("get current season: %w", err)
	}
	return seasonFromRow(row), true, nil
}

func (r *SeasonRepository) List(ctx context.Context) ([]season.Season, error) {
	query, args, err := qb.Select("*").From("seasons").OrderBy("starts_on").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select seasons query: %w", err)
	}

	var rows []seasonTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select seasons: %w", err)
	}

	out := make([]season.Season, 0, len(rows))
	for _, row := range rows {
		out = append(out, seasonFromRow(row))
	}
	return out, nil
}
