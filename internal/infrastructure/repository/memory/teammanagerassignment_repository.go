package memory

import (
	"context"
	"sync"

	"github.com/matchday/league-api/internal/domain/teammanagerassignment"
)

type TeamManagerAssignmentRepository struct {
	mu    sync.RWMutex
	items map[string]teammanagerassignment.Assignment
}

func NewTeamManagerAssignmentRepository() *TeamManagerAssignmentRepository {
	return &TeamManagerAssignmentRepository{items: make(map[string]teammanagerassignment.Assignment)}
}

func assignmentKey(userID, teamID string) string { return userID + "|" + teamID }

func (r *TeamManagerAssignmentRepository) Assign(_ context.Context, a teammanagerassignment.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[assignmentKey(a.UserID, a.TeamID)] = a
	return nil
}

func (r *TeamManagerAssignmentRepository) Unassign(_ context.Context, userID, teamID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, assignmentKey(userID, teamID))
	return nil
}

func (r *TeamManagerAssignmentRepository) ListTeamsByUser(_ context.Context, userID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0)
	for _, a := range r.items {
		if a.UserID == userID {
			out = append(out, a.TeamID)
		}
	}
	return out, nil
}

func (r *TeamManagerAssignmentRepository) ListUsersByTeam(_ context.Context, teamID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0)
	for _, a := range r.items {
		if a.TeamID == teamID {
			out = append(out, a.UserID)
		}
	}
	return out, nil
}
