package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matchday/league-api/internal/domain/match"
	"github.com/matchday/league-api/internal/infrastructure/repository/memory"
	"github.com/matchday/league-api/internal/platform/cache"
	"github.com/matchday/league-api/internal/platform/id"
	"github.com/matchday/league-api/internal/usecase"
)

func newMatchService(t *testing.T) (*usecase.MatchService, *memory.MatchRepository) {
	t.Helper()
	matchRepo := memory.NewMatchRepository()
	teamRepo := memory.NewTeamRepository()
	queries := usecase.NewQueryService(matchRepo, teamRepo, cache.NewStore(time.Minute))
	return usecase.NewMatchService(matchRepo, id.NewRandomGenerator(), queries), matchRepo
}

func intP(v int) *int { return &v }

func TestMatchService_CreateRejectsDuplicateExternalMatchID(t *testing.T) {
	svc, _ := newMatchService(t)

	in := match.Match{HomeTeamID: "a", AwayTeamID: "b", ExternalMatchID: "ext-1"}
	if _, err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("first create: %v", err)
	}

	if _, err := svc.Create(context.Background(), in); !errors.Is(err, usecase.ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate external_match_id, got %v", err)
	}
}

func TestMatchService_CreateDefaultsStatusAndSource(t *testing.T) {
	svc, _ := newMatchService(t)

	created, err := svc.Create(context.Background(), match.Match{HomeTeamID: "a", AwayTeamID: "b"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != match.StatusScheduled {
		t.Fatalf("expected default status scheduled, got %q", created.Status)
	}
	if created.Source != match.SourceManual {
		t.Fatalf("expected default source manual, got %q", created.Source)
	}
}

// TestMatchService_UpdateLocksScoreOnManualEdit is the flip side of the
// worker's score-lock invariant: a human editing the score by hand is the
// thing that sets ScoreLocked in the first place.
func TestMatchService_UpdateLocksScoreOnManualEdit(t *testing.T) {
	svc, _ := newMatchService(t)

	created, err := svc.Create(context.Background(), match.Match{HomeTeamID: "a", AwayTeamID: "b"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ScoreLocked {
		t.Fatalf("expected a freshly created, unscored match to not be locked")
	}

	updated := created
	updated.HomeScore = intP(2)
	updated.AwayScore = intP(0)

	saved, err := svc.Update(context.Background(), updated)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !saved.ScoreLocked {
		t.Fatalf("expected manual score edit to lock the match")
	}
}

func TestMatchService_UpdateWithoutScoreChangeDoesNotLock(t *testing.T) {
	svc, _ := newMatchService(t)

	created, err := svc.Create(context.Background(), match.Match{HomeTeamID: "a", AwayTeamID: "b"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated := created
	updated.Location = "New Venue"
	saved, err := svc.Update(context.Background(), updated)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if saved.ScoreLocked {
		t.Fatalf("expected a non-score edit to leave the match unlocked")
	}
}

func TestMatchService_DeleteUnknownMatchNotFound(t *testing.T) {
	svc, _ := newMatchService(t)
	if err := svc.Delete(context.Background(), "does-not-exist"); !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMatchService_DeleteRemovesTheMatch(t *testing.T) {
	svc, matchRepo := newMatchService(t)

	created, err := svc.Create(context.Background(), match.Match{HomeTeamID: "a", AwayTeamID: "b"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, found, err := matchRepo.GetByID(context.Background(), created.ID); err != nil || found {
		t.Fatalf("expected match to be gone, found=%v err=%v", found, err)
	}
}
