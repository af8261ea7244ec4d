package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matchday/league-api/internal/domain/league"
	"github.com/matchday/league-api/internal/platform/id"
)

type LeagueService struct {
	leagueRepo league.Repository
	idgen      id.Generator
}

func NewLeagueService(leagueRepo league.Repository, idgen id.Generator) *LeagueService {
	return &LeagueService{leagueRepo: leagueRepo, idgen: idgen}
}

func (s *LeagueService) List(ctx context.Context) ([]league.League, error) {
	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	return leagues, nil
}

func (s *LeagueService) GetByID(ctx context.Context, leagueID string) (league.League, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	item, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}
	return item, nil
}

func (s *LeagueService) Create(ctx context.Context, name string) (league.League, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return league.League{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	if _, exists, err := s.leagueRepo.GetByName(ctx, name); err != nil {
		return league.League{}, fmt.Errorf("get league by name: %w", err)
	} else if exists {
		return league.League{}, fmt.Errorf("%w: league name=%s already exists", ErrConflict, name)
	}

	newID, err := s.idgen.NewID()
	if err != nil {
		return league.League{}, fmt.Errorf("generate league id: %w", err)
	}

	now := time.Now().UTC()
	item := league.League{
		ID:        newID,
		Name:      name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := item.Validate(); err != nil {
		return league.League{}, fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}

	created, err := s.leagueRepo.Create(ctx, item)
	if err != nil {
		return league.League{}, fmt.Errorf("create league: %w", err)
	}
	return created, nil
}
