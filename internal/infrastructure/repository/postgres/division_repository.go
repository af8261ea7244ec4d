package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/matchday/league-api/internal/domain/division"
	qb "github.com/matchday/league-api/internal/platform/querybuilder"
)

type divisionTableModel struct {
	ID       int64  `db:"id"`
	PublicID string `db:"public_id"`
	LeagueID string `db:"league_public_id"`
	Name     string `db:"name"`
	Level    int    `db:"level"`
}

func divisionFromRow(row divisionTableModel) division.Division {
	return division.Division{
		ID:       row.PublicID,
		LeagueID: row.LeagueID,
		Name:     row.Name,
		Level:    row.Level,
	}
}

type DivisionRepository struct {
	db *sqlx.DB
}

func NewDivisionRepository(db *sqlx.DB) *DivisionRepository {
	return &DivisionRepository{db: db}
}

func (r *DivisionRepository) Create(ctx context.Context, d division.Division) (division.Division, error) {
	query, args, err := qb.InsertInto("divisions").
		Columns("public_id", "league_public_id", "name", "level").
		Values(d.ID, d.LeagueID, d.Name, d.Level).
		ToSQL()
	if err != nil {
		return division.Division{}, fmt.Errorf("build insert division query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return division.Division{}, fmt.Errorf("insert division: %w", err)
	}
	return d, nil
}

func (r *DivisionRepository) GetByID(ctx context.Context, id string) (division.Division, bool, error) {
	query, args, err := qb.Select("*").From("divisions").Where(qb.Eq("public_id", id)).ToSQL()
	if err != nil {
		return division.Division{}, false, fmt.Errorf("build get division by id query: %w", err)
	}

	var row divisionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return division.Division{}, false, nil
		}
		return division.Division{}, false, fmt.Errorf("get division by id: %w", err)
	}
	return divisionFromRow(row), true, nil
}

func (r *DivisionRepository) GetByName(ctx context.Context, leagueID, name string) (division.Division, bool, error) {
	query, args, err := qb.Select("*").From("divisions").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Expr("lower(name) = lower(?)", name),
		).
		ToSQL()
	if err != nil {
		return division.Division{}, false, fmt.Errorf("build get division by name query: %w", err)
	}

	var row divisionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return division.Division{}, false, nil
		}
		return division.Division{}, false, fmt.Errorf("get division by name: %w", err)
	}
	return divisionFromRow(row), true, nil
}

func (r *DivisionRepository) ListByLeague(ctx context.Context, leagueID string) ([]division.Division, error) {
	query, args, err := qb.Select("*").From("divisions").
		Where(qb.Eq("league_public_id", leagueID)).
		OrderBy("level", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select divisions by league query: %w", err)
	}

	var rows []divisionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select divisions by league: %w", err)
	}

	out := make([]division.Division, 0, len(rows))
	for _, row := range rows {
		out = append(out, divisionFromRow(row))
	}
	return out, nil
}
