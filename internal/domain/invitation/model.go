package invitation

import (
	"fmt"
	"time"
)

type Type string

const (
	TypeClubManager Type = "club_manager"
	TypeClubFan     Type = "club_fan"
	TypeTeamManager Type = "team_manager"
	TypeTeamPlayer  Type = "team_player"
	TypeTeamFan     Type = "team_fan"
)

func (t Type) Valid() bool {
	switch t {
	case TypeClubManager, TypeClubFan, TypeTeamManager, TypeTeamPlayer, TypeTeamFan:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusConsumed  Status = "consumed"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// Invitation is a single-use (or multi-use) code that delegates a role and
// scope to whoever consumes it during signup.
type Invitation struct {
	ID              string
	Code            string
	InviteType      Type
	TeamID          string
	ClubID          string
	AgeGroupID      string
	MaxUses         int
	CurrentUses     int
	ExpiresAt       time.Time
	Status          Status
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (i Invitation) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("invitation: id is required")
	}
	if i.Code == "" {
		return fmt.Errorf("invitation: code is required")
	}
	if !i.InviteType.Valid() {
		return fmt.Errorf("invitation: invite_type %q is invalid", i.InviteType)
	}
	if i.MaxUses < 1 {
		return fmt.Errorf("invitation: max_uses must be >= 1")
	}
	if i.CreatedBy == "" {
		return fmt.Errorf("invitation: created_by is required")
	}
	return nil
}

// EffectiveStatus derives status on read: a pending invite whose uses are
// exhausted or whose expiry has passed is surfaced as consumed/expired even
// before a write reconciles the stored value.
func (i Invitation) EffectiveStatus(now time.Time) Status {
	if i.Status != StatusPending {
		return i.Status
	}
	if i.CurrentUses >= i.MaxUses {
		return StatusConsumed
	}
	if !i.ExpiresAt.IsZero() && i.ExpiresAt.Before(now) {
		return StatusExpired
	}
	return StatusPending
}

// Consumable reports whether a consume attempt may still succeed.
func (i Invitation) Consumable(now time.Time) bool {
	return i.EffectiveStatus(now) == StatusPending
}

// RemainingUses reports how many consumes the invite has left, floored at 0.
func (i Invitation) RemainingUses() int {
	remaining := i.MaxUses - i.CurrentUses
	if remaining < 0 {
		return 0
	}
	return remaining
}
