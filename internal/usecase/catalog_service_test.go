package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matchday/league-api/internal/infrastructure/repository/memory"
	"github.com/matchday/league-api/internal/platform/id"
	"github.com/matchday/league-api/internal/usecase"
)

func newCatalogService(t *testing.T) *usecase.CatalogService {
	t.Helper()
	return usecase.NewCatalogService(
		memory.NewDivisionRepository(),
		memory.NewAgeGroupRepository(),
		memory.NewSeasonRepository(),
		memory.NewMatchTypeRepository(),
		id.NewRandomGenerator(),
	)
}

func TestCatalogService_CreateDivisionRejectsDuplicateWithinLeague(t *testing.T) {
	svc := newCatalogService(t)

	if _, err := svc.CreateDivision(context.Background(), "league-1", "Premier", 1); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.CreateDivision(context.Background(), "league-1", "Premier", 1); !errors.Is(err, usecase.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestCatalogService_CreateDivisionAllowsSameNameInDifferentLeagues(t *testing.T) {
	svc := newCatalogService(t)

	if _, err := svc.CreateDivision(context.Background(), "league-1", "Premier", 1); err != nil {
		t.Fatalf("create in league-1: %v", err)
	}
	if _, err := svc.CreateDivision(context.Background(), "league-2", "Premier", 1); err != nil {
		t.Fatalf("expected division name reuse across leagues to succeed, got %v", err)
	}
}

func TestCatalogService_CreateAgeGroupRejectsBlankName(t *testing.T) {
	svc := newCatalogService(t)
	if _, err := svc.CreateAgeGroup(context.Background(), "  ", "Under 12"); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCatalogService_CreateSeasonRejectsEndBeforeStart(t *testing.T) {
	svc := newCatalogService(t)
	now := time.Now().UTC()
	_, err := svc.CreateSeason(context.Background(), "2026 Spring", now, now.Add(-24*time.Hour), false)
	if !errors.Is(err, usecase.ErrInvariantViolation) {
		t.Fatalf("expected ErrInvariantViolation, got %v", err)
	}
}

func TestCatalogService_CreateSeasonRejectsDuplicateName(t *testing.T) {
	svc := newCatalogService(t)
	now := time.Now().UTC()

	if _, err := svc.CreateSeason(context.Background(), "2026 Spring", now, now.Add(30*24*time.Hour), true); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.CreateSeason(context.Background(), "2026 Spring", now, now.Add(30*24*time.Hour), false); !errors.Is(err, usecase.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestCatalogService_CreateMatchTypeRejectsDuplicateName(t *testing.T) {
	svc := newCatalogService(t)

	if _, err := svc.CreateMatchType(context.Background(), "league", true); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.CreateMatchType(context.Background(), "league", true); !errors.Is(err, usecase.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}
