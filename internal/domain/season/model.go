package season

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Season bounds a league's matches to a calendar window, e.g. "2025-2026".
type Season struct {
	ID        string
	Name      string
	StartsOn  time.Time
	EndsOn    time.Time
	IsCurrent bool
}

func (s Season) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("season: id is required")
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("season: name is required")
	}
	if !s.EndsOn.IsZero() && !s.StartsOn.IsZero() && s.EndsOn.Before(s.StartsOn) {
		return fmt.Errorf("season: ends_on must not be before starts_on")
	}
	return nil
}

type Repository interface {
	Create(ctx context.Context, s Season) (Season, error)
	GetByID(ctx context.Context, id string) (Season, bool, error)
	GetByName(ctx context.Context, name string) (Season, bool, error)
	GetCurrent(ctx context.Context) (Season, bool, error)
	List(ctx context.Context) ([]Season, error)
}
