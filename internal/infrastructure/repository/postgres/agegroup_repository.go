package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/matchday/league-api/internal/domain/agegroup"
	qb "github.com/matchday/league-api/internal/platform/querybuilder"
)

type ageGroupTableModel struct {
	ID       int64          `db:"id"`
	PublicID string         `db:"public_id"`
	Name     string         `db:"name"`
	Label    sql.NullString `db:"label"`
}

func ageGroupFromRow(row ageGroupTableModel) agegroup.AgeGroup {
	return agegroup.AgeGroup{
		ID:    row.PublicID,
		Name:  row.Name,
		Label: nullStringToString(row.Label),
	}
}

type AgeGroupRepository struct {
	db *sqlx.DB
}

func NewAgeGroupRepository(db *sqlx.DB) *AgeGroupRepository {
	return &AgeGroupRepository{db: db}
}

func (r *AgeGroupRepository) Create(ctx context.Context, a agegroup.AgeGroup) (agegroup.AgeGroup, error) {
	query, args, err := qb.InsertInto("age_groups").
		Columns("public_id", "name", "label").
		Values(a.ID, a.Name, nullableString(a.Label)).
		ToSQL()
	if err != nil {
		return agegroup.AgeGroup{}, fmt.Errorf("build insert age group query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return agegroup.AgeGroup{}, fmt.Errorf("insert age group: %w", err)
	}
	return a, nil
}

func (r *AgeGroupRepository) GetByID(ctx context.Context, id string) (agegroup.AgeGroup, bool, error) {
	query, args, err := qb.Select("*").From("age_groups").Where(qb.Eq("public_id", id)).ToSQL()
	if err != nil {
		return agegroup.AgeGroup{}, false, fmt.Errorf("build get age group by id query: %w", err)
	}

	var row ageGroupTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return agegroup.AgeGroup{}, false, nil
		}
		return agegroup.AgeGroup{}, false, fmt.Errorf("get age group by id: %w", err)
	}
	return ageGroupFromRow(row), true, nil
}

func (r *AgeGroupRepository) GetByName(ctx context.Context, name string) (agegroup.AgeGroup, bool, error) {
	query, args, err := qb.Select("*").From("age_groups").
		Where(qb.Expr("lower(name) = lower(?)", name)).
		ToSQL()
	if err != nil {
		return agegroup.AgeGroup{}, false, fmt.Errorf("build get age group by name query: %w", err)
	}

	var row ageGroupTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return agegroup.AgeGroup{}, false, nil
		}
		return agegroup.AgeGroup{}, false, fmt.Errorf("get age group by name: %w", err)
	}
	return ageGroupFromRow(row), true, nil
}

func (r *AgeGroupRepository) List(ctx context.Context) ([]agegroup.AgeGroup, error) {
	query, args, err := qb.Select("*").From("age_groups").OrderBy("id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select age groups query: %w", err)
	}

	var rows []ageGroupTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select age groups: %w", err)
	}

	out := make([]agegroup.AgeGroup, 0, len(rows))
	for _, row := range rows {
		out = append(out, ageGroupFromRow(row))
	}
	return out, nil
}
