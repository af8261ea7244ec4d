package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/matchday/league-api/internal/domain/club"
	"github.com/matchday/league-api/internal/domain/league"
	"github.com/matchday/league-api/internal/domain/team"
	"github.com/matchday/league-api/internal/platform/id"
)

type TeamService struct {
	teamRepo   team.Repository
	leagueRepo league.Repository
	clubRepo   club.Repository
	idgen      id.Generator
}

func NewTeamService(teamRepo team.Repository, leagueRepo league.Repository, clubRepo club.Repository, idgen id.Generator) *TeamService {
	return &TeamService{teamRepo: teamRepo, leagueRepo: leagueRepo, clubRepo: clubRepo, idgen: idgen}
}

func (s *TeamService) List(ctx context.Context, f team.Filter) ([]team.Team, error) {
	teams, err := s.teamRepo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

func (s *TeamService) GetByID(ctx context.Context, teamID string) (team.Team, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return team.Team{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	item, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}
	return item, nil
}

func (s *TeamService) Create(ctx context.Context, in team.Team) (team.Team, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.LeagueID = strings.TrimSpace(in.LeagueID)
	in.ClubID = strings.TrimSpace(in.ClubID)
	if in.Name == "" {
		return team.Team{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if in.LeagueID == "" {
		return team.Team{}, fmt.Errorf("%w: league_id is required", ErrInvalidInput)
	}

	if _, exists, err := s.leagueRepo.GetByID(ctx, in.LeagueID); err != nil {
		return team.Team{}, fmt.Errorf("get league: %w", err)
	} else if !exists {
		return team.Team{}, fmt.Errorf("%w: league=%s", ErrNotFound, in.LeagueID)
	}

	if in.ClubID != "" {
		if _, exists, err := s.clubRepo.GetByID(ctx, in.ClubID); err != nil {
			return team.Team{}, fmt.Errorf("get club: %w", err)
		} else if !exists {
			return team.Team{}, fmt.Errorf("%w: club=%s", ErrNotFound, in.ClubID)
		}
	}

	if _, exists, err := s.teamRepo.GetByName(ctx, in.Name, in.ClubID, in.LeagueID); err != nil {
		return team.Team{}, fmt.Errorf("get team by name: %w", err)
	} else if exists {
		return team.Team{}, fmt.Errorf("%w: team name=%s already exists in this league/club", ErrConflict, in.Name)
	}

	newID, err := s.idgen.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("generate team id: %w", err)
	}
	in.ID = newID

	if err := in.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}

	created, err := s.teamRepo.Create(ctx, in)
	if err != nil {
		return team.Team{}, fmt.Errorf("create team: %w", err)
	}
	return created, nil
}

func (s *TeamService) Update(ctx context.Context, in team.Team) (team.Team, error) {
	existing, err := s.GetByID(ctx, in.ID)
	if err != nil {
		return team.Team{}, err
	}

	if strings.TrimSpace(in.Name) != "" {
		existing.Name = strings.TrimSpace(in.Name)
	}
	existing.City = in.City
	existing.AcademyTeam = in.AcademyTeam

	if err := existing.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}

	updated, err := s.teamRepo.Update(ctx, existing)
	if err != nil {
		return team.Team{}, fmt.Errorf("update team: %w", err)
	}
	return updated, nil
}
