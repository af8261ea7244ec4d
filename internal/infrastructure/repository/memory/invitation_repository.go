package memory

import (
	"context"
	"sync"
	"time"

	"github.com/matchday/league-api/internal/domain/invitation"
)

type InvitationRepository struct {
	mu    sync.Mutex
	items map[string]invitation.Invitation
}

func NewInvitationRepository() *InvitationRepository {
	return &InvitationRepository{items: make(map[string]invitation.Invitation)}
}

func (r *InvitationRepository) Create(_ context.Context, inv invitation.Invitation) (invitation.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[inv.ID] = inv
	return inv, nil
}

func (r *InvitationRepository) GetByID(_ context.Context, id string) (invitation.Invitation, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.items[id]
	return inv, ok, nil
}

func (r *InvitationRepository) GetByCode(_ context.Context, code string) (invitation.Invitation, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.items {
		if inv.Code == code {
			return inv, true, nil
		}
	}
	return invitation.Invitation{}, false, nil
}

func (r *InvitationRepository) List(_ context.Context, f invitation.Filter) ([]invitation.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]invitation.Invitation, 0)
	for _, inv := range r.items {
		if f.CreatedBy != "" && inv.CreatedBy != f.CreatedBy {
			continue
		}
		if f.Status != "" && inv.Status != f.Status {
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}

func (r *InvitationRepository) Cancel(_ context.Context, id string) (invitation.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv := r.items[id]
	inv.Status = invitation.StatusCancelled
	inv.UpdatedAt = time.Now().UTC()
	r.items[id] = inv
	return inv, nil
}

// ConsumeAtomic applies the compare-and-increment under the repository's
// single mutex, which is the in-memory stand-in for a database row lock.
func (r *InvitationRepository) ConsumeAtomic(_ context.Context, code string, now time.Time) (invitation.Invitation, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var found *invitation.Invitation
	for _, inv := range r.items {
		if inv.Code == code {
			match := inv
			found = &match
			break
		}
	}
	if found == nil {
		return invitation.Invitation{}, false, nil
	}
	if !found.Consumable(now) {
		return *found, false, nil
	}

	found.CurrentUses++
	if found.CurrentUses >= found.MaxUses {
		found.Status = invitation.StatusConsumed
	}
	found.UpdatedAt = now
	r.items[found.ID] = *found

	return *found, true, nil
}
