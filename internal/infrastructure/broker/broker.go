// Package broker provides the job queue match ingestion submits to and the
// worker dequeues from. The in-process implementation here is the default;
// a production deployment can swap in a Redis- or SQS-backed Broker without
// changing usecase code, since usecase only depends on the Broker interface.
package broker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrEmpty is returned by Dequeue when no job is available within the
// caller's context deadline.
var ErrEmpty = errors.New("broker: queue is empty")

// Job is one unit of ingestion work in flight.
type Job struct {
	ID      string
	Payload []byte
	Attempt int
}

// Broker is the external collaborator C7 depends on: submit enqueues,
// the worker dequeues and acks (or leaves it to be redelivered).
type Broker interface {
	Enqueue(ctx context.Context, payload []byte) (jobID string, err error)
	Dequeue(ctx context.Context) (Job, error)
	Ack(ctx context.Context, jobID string) error
	// Requeue puts a job back for redelivery after delay, bumping Attempt.
	Requeue(ctx context.Context, job Job, delay time.Duration) error
}

type idGenerator interface {
	NewID() (string, error)
}

// InProcess is a buffered-channel broker for single-binary deployments and
// tests. Requeue with a delay schedules redelivery with time.AfterFunc
// rather than blocking the caller.
type InProcess struct {
	idgen    idGenerator
	ch       chan Job
	mu       sync.Mutex
	inFlight map[string]Job
}

func NewInProcess(idgen idGenerator, capacity int) *InProcess {
	if capacity <= 0 {
		capacity = 256
	}
	return &InProcess{
		idgen:    idgen,
		ch:       make(chan Job, capacity),
		inFlight: make(map[string]Job),
	}
}

func (b *InProcess) Enqueue(ctx context.Context, payload []byte) (string, error) {
	jobID, err := b.idgen.NewID()
	if err != nil {
		return "", fmt.Errorf("generate job id: %w", err)
	}
	job := Job{ID: jobID, Payload: payload, Attempt: 1}

	select {
	case b.ch <- job:
	case <-ctx.Done():
		return "", ctx.Err()
	}

	b.mu.Lock()
	b.inFlight[jobID] = job
	b.mu.Unlock()

	return jobID, nil
}

func (b *InProcess) Dequeue(ctx context.Context) (Job, error) {
	select {
	case job := <-b.ch:
		return job, nil
	case <-ctx.Done():
		return Job{}, ErrEmpty
	}
}

func (b *InProcess) Ack(_ context.Context, jobID string) error {
	b.mu.Lock()
	delete(b.inFlight, jobID)
	b.mu.Unlock()
	return nil
}

func (b *InProcess) Requeue(ctx context.Context, job Job, delay time.Duration) error {
	job.Attempt++
	if delay <= 0 {
		select {
		case b.ch <- job:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	time.AfterFunc(delay, func() {
		b.ch <- job
	})
	return nil
}
