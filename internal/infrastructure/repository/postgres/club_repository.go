package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/matchday/league-api/internal/domain/club"
	qb "github.com/matchday/league-api/internal/platform/querybuilder"
)

type clubTableModel struct {
	ID          int64          `db:"id"`
	PublicID    string         `db:"public_id"`
	Name        string         `db:"name"`
	City        string         `db:"city"`
	Website     sql.NullString `db:"website"`
	Description sql.NullString `db:"description"`
	ProAcademy  bool           `db:"pro_academy"`
	IsActive    bool           `db:"is_active"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func clubFromRow(row clubTableModel) club.Club {
	return club.Club{
		ID:          row.PublicID,
		Name:        row.Name,
		City:        row.City,
		Website:     nullStringToString(row.Website),
		Description: nullStringToString(row.Description),
		ProAcademy:  row.ProAcademy,
		IsActive:    row.IsActive,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

type ClubRepository struct {
	db *sqlx.DB
}

func NewClubRepository(db *sqlx.DB) *ClubRepository {
	return &ClubRepository{db: db}
}

func (r *ClubRepository) Create(ctx context.Context, c club.Club) (club.Club, error) {
	query, args, err := qb.InsertInto("clubs").
		Columns("public_id", "name", "city", "website", "description", "pro_academy", "is_active").
		Values(c.ID, c.Name, c.City, nullableString(c.Website), nullableString(c.Description), c.ProAcademy, c.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSQL()
	if err != nil {
		return club.Club{}, fmt.Errorf("build insert club query: %w", err)
	}

	var row struct {
		ID        int64     `db:"id"`
		CreatedAt time.Time `db:"created_at"`
		UpdatedAt time.Time `db:"updated_at"`
	}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return club.Club{}, fmt.Errorf("insert club: %w", err)
	}

	c.CreatedAt = row.CreatedAt
	c.UpdatedAt = row.UpdatedAt
	return c, nil
}

func (r *ClubRepository) GetByID(ctx context.Context, id string) (club.Club, bool, error) {
	query, args, err := qb.Select("*").From("clubs").Where(qb.Eq("public_id", id)).ToSQL()
	if err != nil {
		return club.Club{}, false, fmt.Errorf("build get club by id query: %w", err)
	}

	var row clubTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return club.Club{}, false, nil
		}
		return club.Club{}, false, fmt.Errorf("get club by id: %w", err)
	}
	return clubFromRow(row), true, nil
}

func (r *ClubRepository) GetByName(ctx context.Context, name string) (club.Club, bool, error) {
	query, args, err := qb.Select("*").From("clubs").
		Where(qb.Expr("lower(name) = lower(?)", name)).
		ToSQL()
	if err != nil {
		return club.Club{}, false, fmt.Errorf("build get club by name query: %w", err)
	}

	var row clubTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return club.Club{}, false, nil
		}
		return club.Club{}, false, fmt.Errorf("get club by name: %w", err)
	}
	return clubFromRow(row), true, nil
}

func (r *ClubRepository) List(ctx context.Context) ([]club.Club, error) {
	query, args, err := qb.Select("*").From("clubs").OrderBy("id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select clubs query: %w", err)
	}

	var rows []clubTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select clubs: %w", err)
	}

	out := make([]club.Club, 0, len(rows))
	for _, row := range rows {
		out = append(out, clubFromRow(row))
	}
	return out, nil
}

func (r *ClubRepository) Update(ctx context.Context, c club.Club) (club.Club, error) {
	query, args, err := qb.Update("clubs").
		Set("name", c.Name).
		Set("city", c.City).
		Set("website", nullableString(c.Website)).
		Set("description", nullableString(c.Description)).
		Set("pro_academy", c.ProAcademy).
		Set("is_active", c.IsActive).
		SetExpr("updated_at", "now()").
		Where(qb.Eq("public_id", c.ID)).
		Suffix("RETURNING updated_at").
		ToSQL()
	if err != nil {
		return club.Club{}, fmt.Errorf("build update club query: %w", err)
	}

	var row struct {
		UpdatedAt time.Time `db:"updated_at"`
	}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return club.Club{}, fmt.Errorf("update club: %w", err)
	}

	c.UpdatedAt = row.UpdatedAt
	return c, nil
}
