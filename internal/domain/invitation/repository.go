package invitation

import (
	"context"
	"time"
)

// Filter narrows invite listings.
type Filter struct {
	CreatedBy string
	Status    Status
}

// Repository persists invitations. ConsumeAtomic performs the
// compare-and-increment required by the consume operation: it only applies
// when status='pending' AND current_uses < max_uses AND expires_at > now,
// returning ok=false (no error) when the conditional update did not match a
// row, so callers can retry or surface INVITE_UNAVAILABLE.
type Repository interface {
	Create(ctx context.Context, inv Invitation) (Invitation, error)
	GetByID(ctx context.Context, id string) (Invitation, bool, error)
	GetByCode(ctx context.Context, code string) (Invitation, bool, error)
	List(ctx context.Context, f Filter) ([]Invitation, error)
	Cancel(ctx context.Context, id string) (Invitation, error)
	ConsumeAtomic(ctx context.Context, code string, now time.Time) (Invitation, bool, error)
}
