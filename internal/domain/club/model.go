package club

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Club is the top-level organizational entity that owns teams directly and
// leagues indirectly through them. Soft-deletion flips IsActive; the entity
// is never hard-deleted.
type Club struct {
	ID          string
	Name        string
	City        string
	Website     string
	Description string
	ProAcademy  bool
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c Club) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("club: id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("club: name is required")
	}
	return nil
}

// Repository persists and queries clubs.
type Repository interface {
	Create(ctx context.Context, c Club) (Club, error)
	GetByID(ctx context.Context, id string) (Club, bool, error)
	GetByName(ctx context.Context, name string) (Club, bool, error)
	List(ctx context.Context) ([]Club, error)
	Update(ctx context.Context, c Club) (Club, error)
}
