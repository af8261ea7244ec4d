package user

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Role is the typed replacement for ambient role strings: every authorization
// decision switches on one of these values, never on a raw string from storage.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleClubManager Role = "club_manager"
	RoleTeamManager Role = "team_manager"
	RoleTeamPlayer  Role = "team_player"
	RoleClubFan     Role = "club_fan"
	RoleTeamFan     Role = "team_fan"
)

// rank orders roles from most to least privileged for delegation checks.
var rank = map[Role]int{
	RoleAdmin:       0,
	RoleClubManager: 1,
	RoleTeamManager: 2,
	RoleTeamPlayer:  3,
	RoleClubFan:     3,
	RoleTeamFan:     3,
}

func (r Role) Valid() bool {
	_, ok := rank[r]
	return ok
}

// Outranks reports whether r sits strictly above other in the hierarchy.
func (r Role) Outranks(other Role) bool {
	ra, aok := rank[r]
	rb, bok := rank[other]
	if !aok || !bok {
		return false
	}
	return ra < rb
}

// Profile is the persisted user record. It never carries a "current user"
// implicitly; every usecase receives it explicitly via the request context.
type Profile struct {
	ID                 string
	Username           string
	Email              string
	PhoneNumber        string
	Role               Role
	ClubID             string
	TeamID             string
	DisplayName        string
	PlayerNumber       int
	Positions          []string
	AssignedAgeGroupID string
	InvitedViaCode     string
	PasswordHash       string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (p Profile) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("user: id is required")
	}
	if strings.TrimSpace(p.Username) == "" {
		return fmt.Errorf("user: username is required")
	}
	if !p.Role.Valid() {
		return fmt.Errorf("user: role %q is invalid", p.Role)
	}
	if p.TeamID != "" && p.ClubID == "" {
		return fmt.Errorf("user: team_id requires a consistent club_id")
	}
	return nil
}

// Principal is the authenticated identity attached to a request context.
// It is a read-only projection of Profile plus session metadata, never a
// package-level "current user" global.
type Principal struct {
	UserID    string
	Role      Role
	ClubID    string
	TeamID    string
	SessionID string
}

func (p Principal) IsAnonymous() bool {
	return p.UserID == ""
}

// Anonymous is the principal attached to unauthenticated requests.
var Anonymous = Principal{}

// Repository persists and queries user profiles.
type Repository interface {
	Create(ctx context.Context, p Profile) (Profile, error)
	GetByID(ctx context.Context, id string) (Profile, bool, error)
	GetByUsername(ctx context.Context, username string) (Profile, bool, error)
	GetByEmail(ctx context.Context, email string) (Profile, bool, error)
	Update(ctx context.Context, p Profile) (Profile, error)
	ListByTeam(ctx context.Context, teamID string) ([]Profile, error)
	ListByClub(ctx context.Context, clubID string) ([]Profile, error)
}
