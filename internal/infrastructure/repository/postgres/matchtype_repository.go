package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/matchday/league-api/internal/domain/matchtype"
	qb "github.com/matchday/league-api/internal/platform/querybuilder"
)

type matchTypeTableModel struct {
	ID              int64  `db:"id"`
	PublicID        string `db:"public_id"`
	Name            string `db:"name"`
	CountsStandings bool   `db:"counts_standings"`
}

func matchTypeFromRow(row matchTypeTableModel) matchtype.MatchType {
	return matchtype.MatchType{
		ID:              row.PublicID,
		Name:            row.Name,
		CountsStandings: row.CountsStandings,
	}
}

type MatchTypeRepository struct {
	db *sqlx.DB
}

func NewMatchTypeRepository(db *sqlx.DB) *MatchTypeRepository {
	return &MatchTypeRepository{db: db}
}

func (r *MatchTypeRepository) Create(ctx context.Context, m matchtype.MatchType) (matchtype.MatchType, error) {
	query, args, err := qb.InsertInto("match_types").
		Columns("public_id", "name", "counts_standings").
		Values(m.ID, m.Name, m.CountsStandings).
		ToSQL()
	if err != nil {
		return matchtype.MatchType{}, fmt.Errorf("build insert match type query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return matchtype.MatchType{}, fmt.Errorf("insert match type: %w", err)
	}
	return m, nil
}

func (r *MatchTypeRepository) GetByID(ctx context.Context, id string) (matchtype.MatchType, bool, error) {
	query, args, err := qb.Select("*").From("match_types").Where(qb.Eq("public_id", id)).ToSQL()
	if err != nil {
		return matchtype.MatchType{}, false, fmt.Errorf("build get match type by id query: %w", err)
	}

	var row matchTypeTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return matchtype.MatchType{}, false, nil
		}
		return matchtype.MatchType{}, false, fmt.Errorf("get match type by id: %w", err)
	}
	return matchTypeFromRow(row), true, nil
}

func (r *MatchTypeRepository) GetByName(ctx context.Context, name string) (matchtype.MatchType, bool, error) {
	query, args, err := qb.Select("*").From("match_types").
		Where(qb.Expr("lower(name) = lower(?)", name)).
		ToSQL()
	if err != nil {
		return matchtype.MatchType{}, false, fmt.Errorf("build get match type by name query: %w", err)
	}

	var row matchTypeTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return matchtype.MatchType{}, false, nil
		}
		return matchtype.MatchType{}, false, fmt.Errorf("get match type by name: %w", err)
	}
	return matchTypeFromRow(row), true, nil
}

func (r *MatchTypeRepository) List(ctx context.Context) ([]matchtype.MatchType, error) {
	query, args, err := qb.Select("*").From("match_types").OrderBy("id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select match types query: %w", err)
	}

	var rows []matchTypeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select match types: %w", err)
	}

	out := make([]matchtype.MatchType, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchTypeFromRow(row))
	}
	return out, nil
}
