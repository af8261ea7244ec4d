package matchtype

import (
	"context"
	"fmt"
	"strings"
)

// MatchType distinguishes league play from cups, friendlies, playoffs, etc.
type MatchType struct {
	ID              string
	Name            string
	CountsStandings bool
}

func (m MatchType) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("matchtype: id is required")
	}
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("matchtype: name is required")
	}
	return nil
}

type Repository interface {
	Create(ctx context.Context, m MatchType) (MatchType, error)
	GetByID(ctx context.Context, id string) (MatchType, bool, error)
	GetByName(ctx context.Context, name string) (MatchType, bool, error)
	List(ctx context.Context) ([]MatchType, error)
}
