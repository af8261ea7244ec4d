package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matchday/league-api/internal/domain/agegroup"
	"github.com/matchday/league-api/internal/domain/division"
	"github.com/matchday/league-api/internal/domain/matchtype"
	"github.com/matchday/league-api/internal/domain/season"
	"github.com/matchday/league-api/internal/platform/id"
)

// CatalogService manages the small reference-data entities that scope
// matches and teams: divisions, age groups, seasons and match types.
type CatalogService struct {
	divisionRepo  division.Repository
	ageGroupRepo  agegroup.Repository
	seasonRepo    season.Repository
	matchTypeRepo matchtype.Repository
	idgen         id.Generator
}

func NewCatalogService(
	divisionRepo division.Repository,
	ageGroupRepo agegroup.Repository,
	seasonRepo season.Repository,
	matchTypeRepo matchtype.Repository,
	idgen id.Generator,
) *CatalogService {
	return &CatalogService{
		divisionRepo:  divisionRepo,
		ageGroupRepo:  ageGroupRepo,
		seasonRepo:    seasonRepo,
		matchTypeRepo: matchTypeRepo,
		idgen:         idgen,
	}
}

func (s *CatalogService) ListDivisions(ctx context.Context, leagueID string) ([]division.Division, error) {
	items, err := s.divisionRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list divisions: %w", err)
	}
	return items, nil
}

func (s *CatalogService) CreateDivision(ctx context.Context, leagueID, name string, level int) (division.Division, error) {
	leagueID = strings.TrimSpace(leagueID)
	name = strings.TrimSpace(name)
	if leagueID == "" || name == "" {
		return division.Division{}, fmt.Errorf("%w: league_id and name are required", ErrInvalidInput)
	}

	if _, exists, err := s.divisionRepo.GetByName(ctx, leagueID, name); err != nil {
		return division.Division{}, fmt.Errorf("get division by name: %w", err)
	} else if exists {
		return division.Division{}, fmt.Errorf("%w: division name=%s already exists in this league", ErrConflict, name)
	}

	newID, err := s.idgen.NewID()
	if err != nil {
		return division.Division{}, fmt.Errorf("generate division id: %w", err)
	}
	item := division.Division{ID: newID, LeagueID: leagueID, Name: name, Level: level}
	if err := item.Validate(); err != nil {
		return division.Division{}, fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}
	created, err := s.divisionRepo.Create(ctx, item)
	if err != nil {
		return division.Division{}, fmt.Errorf("create division: %w", err)
	}
	return created, nil
}

func (s *CatalogService) ListAgeGroups(ctx context.Context) ([]agegroup.AgeGroup, error) {
	items, err := s.ageGroupRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list age groups: %w", err)
	}
	return items, nil
}

func (s *CatalogService) CreateAgeGroup(ctx context.Context, name, label string) (agegroup.AgeGroup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return agegroup.AgeGroup{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	newID, err := s.idgen.NewID()
	if err != nil {
		return agegroup.AgeGroup{}, fmt.Errorf("generate age group id: %w", err)
	}
	item := agegroup.AgeGroup{ID: newID, Name: name, Label: label}
	if err := item.Validate(); err != nil {
		return agegroup.AgeGroup{}, fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}
	created, err := s.ageGroupRepo.Create(ctx, item)
	if err != nil {
		return agegroup.AgeGroup{}, fmt.Errorf("create age group: %w", err)
	}
	return created, nil
}

func (s *CatalogService) ListSeasons(ctx context.Context) ([]season.Season, error) {
	items, err := s.seasonRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	return items, nil
}

func (s *CatalogService) CreateSeason(ctx context.Context, name string, startsOn, endsOn time.Time, isCurrent bool) (season.Season, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return season.Season{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if _, exists, err := s.seasonRepo.GetByName(ctx, name); err != nil {
		return season.Season{}, fmt.Errorf("get season by name: %w", err)
	} else if exists {
		return season.Season{}, fmt.Errorf("%w: season name=%s already exists", ErrConflict, name)
	}

	newID, err := s.idgen.NewID()
	if err != nil {
		return season.Season{}, fmt.Errorf("generate season id: %w", err)
	}
	item := season.Season{ID: newID, Name: name, StartsOn: startsOn, EndsOn: endsOn, IsCurrent: isCurrent}
	if err := item.Validate(); err != nil {
		return season.Season{}, fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}
	created, err := s.seasonRepo.Create(ctx, item)
	if err != nil {
		return season.Season{}, fmt.Errorf("create season: %w", err)
	}
	return created, nil
}

func (s *CatalogService) ListMatchTypes(ctx context.Context) ([]matchtype.MatchType, error) {
	items, err := s.matchTypeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list match types: %w", err)
	}
	return items, nil
}

func (s *CatalogService) CreateMatchType(ctx context.Context, name string, countsStandings bool) (matchtype.MatchType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return matchtype.MatchType{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if _, exists, err := s.matchTypeRepo.GetByName(ctx, name); err != nil {
		return matchtype.MatchType{}, fmt.Errorf("get match type by name: %w", err)
	} else if exists {
		return matchtype.MatchType{}, fmt.Errorf("%w: match type name=%s already exists", ErrConflict, name)
	}

	newID, err := s.idgen.NewID()
	if err != nil {
		return matchtype.MatchType{}, fmt.Errorf("generate match type id: %w", err)
	}
	item := matchtype.MatchType{ID: newID, Name: name, CountsStandings: countsStandings}
	if err := item.Validate(); err != nil {
		return matchtype.MatchType{}, fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}
	created, err := s.matchTypeRepo.Create(ctx, item)
	if err != nil {
		return matchtype.MatchType{}, fmt.Errorf("create match type: %w", err)
	}
	return created, nil
}
