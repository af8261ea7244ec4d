// Package resultstore backs the ingestion status endpoint
// (GET /api/matches/task/{task_id}). It wraps platform/cache.Store rather
// than reimplementing TTL eviction: a task result is exactly a cache entry
// that expires after the retention window.
package resultstore

import (
	"context"
	"fmt"
	"time"
)

type State string

const (
	StatePending State = "PENDING"
	StateStarted State = "STARTED"
	StateSuccess State = "SUCCESS"
	StateFailure State = "FAILURE"
)

// Result is what the status endpoint serializes.
type Result struct {
	State  State
	Ready  bool
	Result any
	Error  string
}

type backend interface {
	Set(ctx context.Context, key string, value any)
	Get(ctx context.Context, key string) (any, bool)
}

const keyPrefix = "mt:task:"
const defaultTTL = 24 * time.Hour

// Store is the C7 result store: Set is called by the worker as a task
// progresses through PENDING -> STARTED -> SUCCESS/FAILURE; Get backs the
// status endpoint. Results are retained for ~24h by default.
type Store struct {
	backend backend
}

func New(backend backend) *Store {
	return &Store{backend: backend}
}

func (s *Store) Set(ctx context.Context, taskID string, result Result) error {
	if taskID == "" {
		return fmt.Errorf("resultstore: task id is required")
	}
	s.backend.Set(ctx, keyPrefix+taskID, result)
	return nil
}

func (s *Store) Get(ctx context.Context, taskID string) (Result, bool, error) {
	if taskID == "" {
		return Result{}, false, fmt.Errorf("resultstore: task id is required")
	}
	value, ok := s.backend.Get(ctx, keyPrefix+taskID)
	if !ok {
		return Result{}, false, nil
	}
	result, ok := value.(Result)
	if !ok {
		return Result{}, false, fmt.Errorf("resultstore: cached value for %s had an unexpected type", taskID)
	}
	return result, true, nil
}

// DefaultTTL is the retention window a caller should pass to
// cache.NewStore when constructing the backend for this store.
func DefaultTTL() time.Duration { return defaultTTL }
