package usecase_test

import (
	"context"
	"testing"

	"github.com/matchday/league-api/internal/domain/teammanagerassignment"
	"github.com/matchday/league-api/internal/domain/user"
	"github.com/matchday/league-api/internal/infrastructure/repository/memory"
	"github.com/matchday/league-api/internal/usecase"
)

func TestAuthorizationEngine_Authorize(t *testing.T) {
	assignmentRepo := memory.NewTeamManagerAssignmentRepository()
	if err := assignmentRepo.Assign(context.Background(), teammanagerassignment.Assignment{UserID: "tm-1", TeamID: "team-a"}); err != nil {
		t.Fatalf("seed assignment: %v", err)
	}
	engine := usecase.NewAuthorizationEngine(assignmentRepo)

	cases := []struct {
		name      string
		principal user.Principal
		action    usecase.Action
		scope     usecase.Scope
		allowed   bool
	}{
		{
			name:      "anonymous denied non-public action",
			principal: user.Anonymous,
			action:    usecase.Action{Name: "matches.list"},
			scope:     usecase.Scope{},
			allowed:   false,
		},
		{
			name:      "anonymous allowed public action",
			principal: user.Anonymous,
			action:    usecase.Action{Name: "invites.validate"},
			scope:     usecase.Scope{Public: true},
			allowed:   true,
		},
		{
			name:      "admin allowed unscoped write",
			principal: user.Principal{UserID: "admin-1", Role: user.RoleAdmin},
			action:    usecase.Action{Name: "catalog.manage", Write: true},
			scope:     usecase.Scope{},
			allowed:   true,
		},
		{
			name:      "club_manager denied unscoped action",
			principal: user.Principal{UserID: "cm-1", Role: user.RoleClubManager, ClubID: "club-a"},
			action:    usecase.Action{Name: "catalog.manage", Write: true},
			scope:     usecase.Scope{},
			allowed:   false,
		},
		{
			name:      "club_manager allowed within own club",
			principal: user.Principal{UserID: "cm-1", Role: user.RoleClubManager, ClubID: "club-a"},
			action:    usecase.Action{Name: "teams.create", Write: true},
			scope:     usecase.Scope{ClubID: "club-a"},
			allowed:   true,
		},
		{
			name:      "club_manager denied a different club",
			principal: user.Principal{UserID: "cm-1", Role: user.RoleClubManager, ClubID: "club-a"},
			action:    usecase.Action{Name: "teams.create", Write: true},
			scope:     usecase.Scope{ClubID: "club-b"},
			allowed:   false,
		},
		{
			name:      "team_manager allowed for an assigned team",
			principal: user.Principal{UserID: "tm-1", Role: user.RoleTeamManager},
			action:    usecase.Action{Name: "matches.submit", Write: true},
			scope:     usecase.Scope{TeamID: "team-a"},
			allowed:   true,
		},
		{
			name:      "team_manager denied for an unassigned team",
			principal: user.Principal{UserID: "tm-1", Role: user.RoleTeamManager},
			action:    usecase.Action{Name: "matches.submit", Write: true},
			scope:     usecase.Scope{TeamID: "team-z"},
			allowed:   false,
		},
		{
			name:      "team_player denied write regardless of scope",
			principal: user.Principal{UserID: "tp-1", Role: user.RoleTeamPlayer, TeamID: "team-a"},
			action:    usecase.Action{Name: "matches.submit", Write: true},
			scope:     usecase.Scope{TeamID: "team-a"},
			allowed:   false,
		},
		{
			name:      "team_player allowed reading their own team",
			principal: user.Principal{UserID: "tp-1", Role: user.RoleTeamPlayer, TeamID: "team-a"},
			action:    usecase.Action{Name: "matches.list"},
			scope:     usecase.Scope{TeamID: "team-a"},
			allowed:   true,
		},
		{
			name:      "team_player denied reading a different team",
			principal: user.Principal{UserID: "tp-1", Role: user.RoleTeamPlayer, TeamID: "team-a"},
			action:    usecase.Action{Name: "matches.list"},
			scope:     usecase.Scope{TeamID: "team-z"},
			allowed:   false,
		},
		{
			name:      "club_fan allowed reading an unscoped resource",
			principal: user.Principal{UserID: "cf-1", Role: user.RoleClubFan, ClubID: "club-a"},
			action:    usecase.Action{Name: "table.view"},
			scope:     usecase.Scope{},
			allowed:   true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decision, err := engine.Authorize(context.Background(), tc.principal, tc.action, tc.scope)
			if err != nil {
				t.Fatalf("authorize: %v", err)
			}
			if decision.Allowed != tc.allowed {
				t.Fatalf("expected allowed=%v, got %v (reason: %s)", tc.allowed, decision.Allowed, decision.Reason)
			}
		})
	}
}
