package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/matchday/league-api/internal/domain/club"
	"github.com/matchday/league-api/internal/domain/league"
	"github.com/matchday/league-api/internal/domain/team"
	"github.com/matchday/league-api/internal/infrastructure/repository/memory"
	"github.com/matchday/league-api/internal/platform/id"
	"github.com/matchday/league-api/internal/usecase"
)

func newTeamService(t *testing.T) (*usecase.TeamService, league.League, club.Club) {
	t.Helper()
	teamRepo := memory.NewTeamRepository()
	leagueRepo := memory.NewLeagueRepository()
	clubRepo := memory.NewClubRepository()
	svc := usecase.NewTeamService(teamRepo, leagueRepo, clubRepo, id.NewRandomGenerator())

	lg, err := leagueRepo.Create(context.Background(), league.League{ID: "league-1", Name: "Metro League"})
	if err != nil {
		t.Fatalf("seed league: %v", err)
	}
	cl, err := clubRepo.Create(context.Background(), club.Club{ID: "club-1", Name: "Lakeside SC"})
	if err != nil {
		t.Fatalf("seed club: %v", err)
	}
	return svc, lg, cl
}

func TestTeamService_CreateRejectsUnknownLeague(t *testing.T) {
	svc, _, _ := newTeamService(t)
	_, err := svc.Create(context.Background(), team.Team{Name: "Ironclad", LeagueID: "no-such-league"})
	if !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTeamService_CreateRejectsUnknownClub(t *testing.T) {
	svc, lg, _ := newTeamService(t)
	_, err := svc.Create(context.Background(), team.Team{Name: "Ironclad", LeagueID: lg.ID, ClubID: "no-such-club"})
	if !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTeamService_CreateRejectsDuplicateNameWithinLeagueAndClub(t *testing.T) {
	svc, lg, cl := newTeamService(t)

	in := team.Team{Name: "Ironclad", LeagueID: lg.ID, ClubID: cl.ID}
	if _, err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(context.Background(), in); !errors.Is(err, usecase.ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate team name, got %v", err)
	}
}

func TestTeamService_UpdateKeepsExistingNameWhenBlank(t *testing.T) {
	svc, lg, cl := newTeamService(t)

	created, err := svc.Create(context.Background(), team.Team{Name: "Ironclad", LeagueID: lg.ID, ClubID: cl.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(context.Background(), team.Team{ID: created.ID, City: "Riverside"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Ironclad" {
		t.Fatalf("expected name to remain Ironclad, got %q", updated.Name)
	}
	if updated.City != "Riverside" {
		t.Fatalf("expected city to update, got %q", updated.City)
	}
}
