package usecase

import (
	"context"
	"fmt"

	"github.com/matchday/league-api/internal/domain/match"
	"github.com/matchday/league-api/internal/domain/standing"
	"github.com/matchday/league-api/internal/domain/team"
	"github.com/matchday/league-api/internal/platform/cache"
)

// CacheBackend is the read-through surface QueryService needs. It is
// satisfied by *cache.Store; tests can substitute a bypassing no-op.
type CacheBackend interface {
	GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error)
	DeletePrefix(ctx context.Context, prefix string)
}

const standingsCachePrefix = "mt:dao:standing:"

type QueryService struct {
	matchRepo match.Repository
	teamRepo  team.Repository
	cache     CacheBackend
}

func NewQueryService(matchRepo match.Repository, teamRepo team.Repository, cache CacheBackend) *QueryService {
	return &QueryService{matchRepo: matchRepo, teamRepo: teamRepo, cache: cache}
}

func (s *QueryService) ListMatches(ctx context.Context, f match.Filter) ([]match.Match, error) {
	items, err := s.matchRepo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return items, nil
}

// Standings computes the table for one (league, division, season, age_group)
// scope on the fly from completed matches, cached by that scope tuple and
// invalidated whenever a match in it is written. leagueID is part of the
// cache key only; matches are narrowed by division, season and age group.
func (s *QueryService) Standings(ctx context.Context, leagueID, divisionID, seasonID, ageGroupID string) ([]standing.Row, error) {
	key := fmt.Sprintf("%s%s:%s:%s:%s", standingsCachePrefix, leagueID, divisionID, seasonID, ageGroupID)

	loaded, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		completed, err := s.matchRepo.ListCompleted(ctx, leagueID, divisionID, seasonID, ageGroupID)
		if err != nil {
			return nil, fmt.Errorf("list completed matches: %w", err)
		}

		names, err := s.teamNameIndex(ctx, completed)
		if err != nil {
			return nil, err
		}

		rows := standing.Compute(completed, func(teamID string) string {
			if name, ok := names[teamID]; ok {
				return name
			}
			return teamID
		})
		return rows, nil
	})
	if err != nil {
		return nil, err
	}

	rows, ok := loaded.([]standing.Row)
	if !ok {
		return nil, fmt.Errorf("%w: cached standings had an unexpected type", ErrInternal)
	}
	return rows, nil
}

// InvalidateStandings must be called by MatchService after any write that
// could change a completed table: create, update, score edit, or delete.
func (s *QueryService) InvalidateStandings(ctx context.Context) {
	s.cache.DeletePrefix(ctx, standingsCachePrefix)
}

func (s *QueryService) teamNameIndex(ctx context.Context, matches []match.Match) (map[string]string, error) {
	seen := make(map[string]struct{})
	names := make(map[string]string)
	for _, m := range matches {
		for _, teamID := range []string{m.HomeTeamID, m.AwayTeamID} {
			if _, ok := seen[teamID]; ok {
				continue
			}
			seen[teamID] = struct{}{}
			t, exists, err := s.teamRepo.GetByID(ctx, teamID)
			if err != nil {
				return nil, fmt.Errorf("get team %s: %w", teamID, err)
			}
			if exists {
				names[teamID] = t.Name
			}
		}
	}
	return names, nil
}
