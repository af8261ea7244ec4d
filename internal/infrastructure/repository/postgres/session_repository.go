package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/matchday/league-api/internal/domain/session"
	qb "github.com/matchday/league-api/internal/platform/querybuilder"
)

type sessionTableModel struct {
	ID               int64     `db:"id"`
	PublicID         string    `db:"public_id"`
	UserID           string    `db:"user_public_id"`
	RefreshTokenHash string    `db:"refresh_token_hash"`
	Generation       int       `db:"generation"`
	Revoked          bool      `db:"revoked"`
	ExpiresAt        time.Time `db:"expires_at"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

func sessionFromRow(row sessionTableModel) session.Session {
	return session.Session{
		ID:               row.PublicID,
		UserID:           row.UserID,
		RefreshTokenHash: row.RefreshTokenHash,
		Generation:       row.Generation,
		Revoked:          row.Revoked,
		ExpiresAt:        row.ExpiresAt,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}

type SessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, s session.Session) (session.Session, error) {
	query, args, err := qb.InsertInto("sessions").
		Columns("public_id", "user_public_id", "refresh_token_hash", "generation", "revoked", "expires_at").
		Values(s.ID, s.UserID, s.RefreshTokenHash, s.Generation, s.Revoked, s.ExpiresAt).
		Suffix("RETURNING id, created_at, updated_at").
		ToSQL()
	if err != nil {
		return session.Session{}, fmt.Errorf("build insert session query: %w", err)
	}

	var row struct {
		ID        int64     `db:"id"`
		CreatedAt time.Time `db:"created_at"`
		UpdatedAt time.Time `db:"updated_at"`
	}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return session.Session{}, fmt.Errorf("insert session: %w", err)
	}

	s.CreatedAt = row.CreatedAt
	s.UpdatedAt = row.UpdatedAt
	return s, nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (session.Session, bool, error) {
	query, args, err := qb.Select("*").From("sessions").Where(qb.Eq("public_id", id)).ToSQL()
	if err != nil {
		return session.Session{}, false, fmt.Errorf("build get session by id query: %w", err)
	}

	var row sessionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return session.Session{}, false, nil
		}
		return session.Session{}, false, fmt.Errorf("get session by id: %w", err)
	}
	return sessionFromRow(row), true, nil
}

// Rotate swaps the refresh token hash only if oldHash still matches the
// stored hash, guarding against a concurrent rotation racing this one.
func (r *SessionRepository) Rotate(ctx context.Context, id, oldHash, newHash string) (session.Session, bool, error) {
	query, args, err := qb.Update("sessions").
		Set("refresh_token_hash", newHash).
		SetExpr("generation", "generation + 1").
		SetExpr("updated_at", "now()").
		Where(
			qb.Eq("public_id", id),
			qb.Eq("refresh_token_hash", oldHash),
		).
		Suffix("RETURNING id, public_id, user_public_id, refresh_token_hash, generation, revoked, expires_at, created_at, updated_at").
		ToSQL()
	if err != nil {
		return session.Session{}, false, fmt.Errorf("build rotate session query: %w", err)
	}

	var row sessionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			existing, _, getErr := r.GetByID(ctx, id)
			if getErr != nil {
				return session.Session{}, false, getErr
			}
			return existing, false, nil
		}
		return session.Session{}, false, fmt.Errorf("rotate session: %w", err)
	}
	return sessionFromRow(row), true, nil
}

func (r *SessionRepository) Revoke(ctx context.Context, id string) error {
	query, args, err := qb.Update("sessions").
		Set("revoked", true).
		SetExpr("updated_at", "now()").
		Where(qb.Eq("public_id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build revoke session query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
