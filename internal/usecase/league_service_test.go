package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/matchday/league-api/internal/infrastructure/repository/memory"
	"github.com/matchday/league-api/internal/platform/id"
	"github.com/matchday/league-api/internal/usecase"
)

func newLeagueService(t *testing.T) *usecase.LeagueService {
	t.Helper()
	return usecase.NewLeagueService(memory.NewLeagueRepository(), id.NewRandomGenerator())
}

func TestLeagueService_CreateRejectsBlankName(t *testing.T) {
	svc := newLeagueService(t)
	if _, err := svc.Create(context.Background(), "   "); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestLeagueService_CreateRejectsDuplicateName(t *testing.T) {
	svc := newLeagueService(t)
	if _, err := svc.Create(context.Background(), "Metro League"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(context.Background(), "Metro League"); !errors.Is(err, usecase.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestLeagueService_GetByIDUnknownNotFound(t *testing.T) {
	svc := newLeagueService(t)
	if _, err := svc.GetByID(context.Background(), "no-such-league"); !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
