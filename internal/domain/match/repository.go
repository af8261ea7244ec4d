package match

import (
	"context"
	"time"
)

// Filter narrows match listings; zero-value fields are not applied.
// LeagueID is never applied, and neither is ListCompleted's leagueID: a
// match records its division, season and age group but no league.
type Filter struct {
	SeasonID    string
	AgeGroupID  string
	DivisionID  string
	LeagueID    string
	Status      Status
	TeamID      string
	DateFrom    time.Time
	DateTo      time.Time
	Limit       int
	Offset      int
}

// Repository persists and queries matches. The postgres Update enforces
// optimistic concurrency by comparing the caller-supplied Version against
// storage; the in-memory Update overwrites unconditionally.
type Repository interface {
	Create(ctx context.Context, m Match) (Match, error)
	Update(ctx context.Context, m Match) (Match, error)
	GetByID(ctx context.Context, id string) (Match, bool, error)
	GetByExternalID(ctx context.Context, externalMatchID string) (Match, bool, error)
	GetByDedup(ctx context.Context, d Dedup) (Match, bool, error)
	List(ctx context.Context, f Filter) ([]Match, error)
	ListCompleted(ctx context.Context, leagueID, divisionID, seasonID, ageGroupID string) ([]Match, error)
	Delete(ctx context.Context, id string) error
}
