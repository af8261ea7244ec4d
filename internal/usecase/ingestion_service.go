package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matchday/league-api/internal/infrastructure/broker"
	"github.com/matchday/league-api/internal/infrastructure/resultstore"
)

// IngestionService is the HTTP-facing half of C7: it validates a submission
// shape, enqueues it on the broker, and returns the task id the status
// endpoint will later resolve against the result store WorkerService writes.
type IngestionService struct {
	broker  broker.Broker
	results *resultstore.Store
}

func NewIngestionService(b broker.Broker, results *resultstore.Store) *IngestionService {
	return &IngestionService{broker: b, results: results}
}

// Submit enqueues a match submission and returns its task id. The caller
// responds 202 Accepted with this id.
func (s *IngestionService) Submit(ctx context.Context, submission IngestMatchSubmission) (string, error) {
	submission.HomeTeamName = strings.TrimSpace(submission.HomeTeamName)
	submission.AwayTeamName = strings.TrimSpace(submission.AwayTeamName)
	if submission.HomeTeamName == "" || submission.AwayTeamName == "" {
		return "", fmt.Errorf("%w: home_team_name and away_team_name are required", ErrInvalidInput)
	}
	if submission.LeagueName == "" {
		return "", fmt.Errorf("%w: league_name is required", ErrInvalidInput)
	}

	payload, err := json.Marshal(submission)
	if err != nil {
		return "", fmt.Errorf("marshal submission: %w", err)
	}

	taskID, err := s.broker.Enqueue(ctx, payload)
	if err != nil {
		return "", fmt.Errorf("%w: enqueue submission: %v", ErrDependencyUnavailable, err)
	}

	s.results.Set(ctx, taskID, resultstore.Result{State: resultstore.StatePending, Ready: false})
	return taskID, nil
}

// Status reports a previously submitted task's progress.
func (s *IngestionService) Status(ctx context.Context, taskID string) (resultstore.Result, error) {
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return resultstore.Result{}, fmt.Errorf("%w: task id is required", ErrInvalidInput)
	}
	result, found, err := s.results.Get(ctx, taskID)
	if err != nil {
		return resultstore.Result{}, fmt.Errorf("get task result: %w", err)
	}
	if !found {
		return resultstore.Result{}, ErrNotFound
	}
	return result, nil
}
