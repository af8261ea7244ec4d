package session

import (
	"context"
	"fmt"
	"time"
)

// Session is one refresh-token family. Rotation replaces RefreshTokenHash
// and bumps Generation; presenting a hash older than the current one is
// refresh-token reuse and must revoke the whole family.
type Session struct {
	ID               string
	UserID           string
	RefreshTokenHash string
	Generation       int
	Revoked          bool
	ExpiresAt        time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (s Session) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("session: id is required")
	}
	if s.UserID == "" {
		return fmt.Errorf("session: user_id is required")
	}
	if s.RefreshTokenHash == "" {
		return fmt.Errorf("session: refresh_token_hash is required")
	}
	return nil
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && s.ExpiresAt.Before(now)
}

// Repository persists session/refresh-token families.
type Repository interface {
	Create(ctx context.Context, s Session) (Session, error)
	GetByID(ctx context.Context, id string) (Session, bool, error)
	Rotate(ctx context.Context, id, oldHash, newHash string) (Session, bool, error)
	Revoke(ctx context.Context, id string) error
}
