package usecase

import (
	"context"
	"fmt"

	"github.com/matchday/league-api/internal/domain/teammanagerassignment"
	"github.com/matchday/league-api/internal/domain/user"
)

// Action names one thing a caller wants to do. Write is false for read
// operations, true for anything that creates, updates or deletes state.
type Action struct {
	Name  string
	Write bool
}

// Scope describes the resource an Action targets. A zero-value field means
// "not scoped to that dimension" — e.g. a league-level read has no ClubID
// or TeamID. Public marks actions anonymous principals may take regardless
// of scope (invite code validation).
type Scope struct {
	ClubID string
	TeamID string
	Public bool
}

// Decision is the engine's verdict plus an explanation for audit logs and
// 403 response bodies.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow(reason string) Decision { return Decision{Allowed: true, Reason: reason} }
func deny(reason string) Decision  { return Decision{Allowed: false, Reason: reason} }

// AuthorizationEngine evaluates an ordered set of rules per role. It never
// touches storage beyond the team_manager assignment lookup it needs to
// resolve scope — it is otherwise a pure function of (principal, action, scope).
type AuthorizationEngine struct {
	assignmentRepo teammanagerassignment.Repository
}

func NewAuthorizationEngine(assignmentRepo teammanagerassignment.Repository) *AuthorizationEngine {
	return &AuthorizationEngine{assignmentRepo: assignmentRepo}
}

func (e *AuthorizationEngine) Authorize(ctx context.Context, principal user.Principal, action Action, scope Scope) (Decision, error) {
	if principal.IsAnonymous() {
		if scope.Public {
			return allow("action is public"), nil
		}
		return deny("anonymous principals may only take public actions"), nil
	}

	switch principal.Role {
	case user.RoleAdmin:
		return allow("admin has unrestricted access"), nil

	case user.RoleClubManager:
		if scope.ClubID == "" {
			return deny("club_manager actions must be scoped to a club"), nil
		}
		if scope.ClubID != principal.ClubID {
			return deny("club_manager is scoped to their own club"), nil
		}
		return allow("club_manager acting within their own club"), nil

	case user.RoleTeamManager:
		if scope.TeamID == "" {
			return deny("team_manager actions must be scoped to a team"), nil
		}
		assigned, err := e.assignmentRepo.ListTeamsByUser(ctx, principal.UserID)
		if err != nil {
			return Decision{}, fmt.Errorf("list assigned teams: %w", err)
		}
		for _, teamID := range assigned {
			if teamID == scope.TeamID {
				return allow("team_manager acting within an assigned team"), nil
			}
		}
		return deny("team_manager is not assigned to this team"), nil

	case user.RoleTeamPlayer, user.RoleClubFan, user.RoleTeamFan:
		if action.Write {
			return deny(string(principal.Role) + " is read-only"), nil
		}
		if scope.ClubID != "" && scope.ClubID == principal.ClubID {
			return allow(string(principal.Role) + " reading within their own club"), nil
		}
		if scope.TeamID != "" && scope.TeamID == principal.TeamID {
			return allow(string(principal.Role) + " reading within their own team"), nil
		}
		if scope.ClubID == "" && scope.TeamID == "" {
			return allow(string(principal.Role) + " reading an unscoped resource"), nil
		}
		return deny(string(principal.Role) + " is scoped to their own club/team"), nil

	default:
		return deny("unrecognized role"), nil
	}
}
