package league

import "context"

// Repository describes league persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, l League) (League, error)
	List(ctx context.Context) ([]League, error)
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	GetByName(ctx context.Context, name string) (League, bool, error)
	Update(ctx context.Context, l League) (League, error)
}
