package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matchday/league-api/internal/infrastructure/broker"
	"github.com/matchday/league-api/internal/infrastructure/resultstore"
	"github.com/matchday/league-api/internal/platform/cache"
	"github.com/matchday/league-api/internal/platform/id"
	"github.com/matchday/league-api/internal/usecase"
)

func newIngestionService(t *testing.T) *usecase.IngestionService {
	t.Helper()
	b := broker.NewInProcess(id.NewRandomGenerator(), 16)
	store := resultstore.New(cache.NewStore(time.Minute))
	return usecase.NewIngestionService(b, store)
}

func TestIngestionService_SubmitRejectsMissingTeamNames(t *testing.T) {
	svc := newIngestionService(t)
	_, err := svc.Submit(context.Background(), usecase.IngestMatchSubmission{LeagueName: "Metro League"})
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestIngestionService_SubmitRejectsMissingLeagueName(t *testing.T) {
	svc := newIngestionService(t)
	_, err := svc.Submit(context.Background(), usecase.IngestMatchSubmission{HomeTeamName: "A", AwayTeamName: "B"})
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestIngestionService_SubmitReturnsAPendingTaskImmediately(t *testing.T) {
	svc := newIngestionService(t)

	taskID, err := svc.Submit(context.Background(), usecase.IngestMatchSubmission{
		LeagueName: "Metro League", HomeTeamName: "A", AwayTeamName: "B",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if taskID == "" {
		t.Fatalf("expected a non-empty task id")
	}

	result, err := svc.Status(context.Background(), taskID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if result.State != resultstore.StatePending || result.Ready {
		t.Fatalf("expected a pending, not-ready result, got %+v", result)
	}
}

func TestIngestionService_StatusUnknownTaskNotFound(t *testing.T) {
	svc := newIngestionService(t)
	if _, err := svc.Status(context.Background(), "never-submitted"); !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestIngestionService_StatusRejectsBlankTaskID(t *testing.T) {
	svc := newIngestionService(t)
	if _, err := svc.Status(context.Background(), "   "); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
