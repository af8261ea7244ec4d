package team

import "context"

// Filter narrows List results; zero-value fields are not applied.
type Filter struct {
	LeagueID string
	ClubID   string
}

// Repository describes team persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, t Team) (Team, error)
	Update(ctx context.Context, t Team) (Team, error)
	List(ctx context.Context, f Filter) ([]Team, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Team, error)
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	GetByName(ctx context.Context, name, clubID, leagueID string) (Team, bool, error)
}
