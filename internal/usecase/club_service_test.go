package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/matchday/league-api/internal/domain/club"
	"github.com/matchday/league-api/internal/infrastructure/repository/memory"
	"github.com/matchday/league-api/internal/platform/id"
	"github.com/matchday/league-api/internal/usecase"
)

func newClubService(t *testing.T) (*usecase.ClubService, *memory.ClubRepository) {
	t.Helper()
	repo := memory.NewClubRepository()
	return usecase.NewClubService(repo, id.NewRandomGenerator()), repo
}

func TestClubService_CreateRejectsDuplicateName(t *testing.T) {
	svc, _ := newClubService(t)

	if _, err := svc.Create(context.Background(), club.Club{Name: "Lakeside SC"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(context.Background(), club.Club{Name: "Lakeside SC"}); !errors.Is(err, usecase.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestClubService_CreateDefaultsToActive(t *testing.T) {
	svc, _ := newClubService(t)
	created, err := svc.Create(context.Background(), club.Club{Name: "Lakeside SC"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created.IsActive {
		t.Fatalf("expected a freshly created club to be active")
	}
}

func TestClubService_DeactivateFlipsIsActive(t *testing.T) {
	svc, repo := newClubService(t)
	created, err := svc.Create(context.Background(), club.Club{Name: "Lakeside SC"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Deactivate(context.Background(), created.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	stored, found, err := repo.GetByID(context.Background(), created.ID)
	if err != nil || !found {
		t.Fatalf("get club: found=%v err=%v", found, err)
	}
	if stored.IsActive {
		t.Fatalf("expected club to be inactive after deactivation")
	}
}

func TestClubService_GetByIDRejectsBlankID(t *testing.T) {
	svc, _ := newClubService(t)
	if _, err := svc.GetByID(context.Background(), " "); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
