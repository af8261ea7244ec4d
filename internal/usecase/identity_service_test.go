package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/matchday/league-api/internal/domain/user"
	"github.com/matchday/league-api/internal/infrastructure/repository/memory"
	"github.com/matchday/league-api/internal/platform/id"
	"github.com/matchday/league-api/internal/usecase"
)

func newIdentityService(t *testing.T) (*usecase.IdentityService, *memory.UserRepository) {
	t.Helper()
	userRepo := memory.NewUserRepository()
	sessionRepo := memory.NewSessionRepository()
	svc := usecase.NewIdentityService(userRepo, sessionRepo, id.NewRandomGenerator(), nil, usecase.IdentityConfig{
		JWTSigningKey: []byte("test-signing-key"),
	})
	return svc, userRepo
}

func seedUser(t *testing.T, repo *memory.UserRepository, username, password string, role user.Role) user.Profile {
	t.Helper()
	svc := usecase.NewIdentityService(repo, memory.NewSessionRepository(), id.NewRandomGenerator(), nil, usecase.IdentityConfig{
		JWTSigningKey: []byte("test-signing-key"),
	})
	profile, err := svc.SignupSelfServe(context.Background(), username, password, username+"@example.com")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	profile.Role = role
	updated, err := repo.Update(context.Background(), profile)
	if err != nil {
		t.Fatalf("seed user role: %v", err)
	}
	return updated
}

func TestIdentityService_LoginRejectsUnknownUsername(t *testing.T) {
	svc, _ := newIdentityService(t)
	if _, err := svc.Login(context.Background(), "ghost", "whatever"); !errors.Is(err, usecase.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestIdentityService_LoginRejectsWrongPassword(t *testing.T) {
	svc, userRepo := newIdentityService(t)
	seedUser(t, userRepo, "alice", "correct-horse", user.RoleTeamFan)

	if _, err := svc.Login(context.Background(), "alice", "wrong"); !errors.Is(err, usecase.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestIdentityService_LoginSucceedsWithCorrectPassword(t *testing.T) {
	svc, userRepo := newIdentityService(t)
	seedUser(t, userRepo, "alice", "correct-horse", user.RoleTeamFan)

	pair, err := svc.Login(context.Background(), "alice", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected non-empty token pair")
	}

	principal, err := svc.VerifyAccessToken(context.Background(), pair.AccessToken)
	if err != nil {
		t.Fatalf("verify access token: %v", err)
	}
	if principal.UserID != pair.Profile.ID {
		t.Fatalf("unexpected principal user id: %q", principal.UserID)
	}
}

func TestIdentityService_RefreshRotatesToken(t *testing.T) {
	userRepo := memory.NewUserRepository()
	sessionRepo := memory.NewSessionRepository()
	svc := usecase.NewIdentityService(userRepo, sessionRepo, id.NewRandomGenerator(), nil, usecase.IdentityConfig{
		JWTSigningKey: []byte("test-signing-key"),
	})
	seedUserWithRepos(t, svc, userRepo, "bob", "hunter22")

	pair, err := svc.Login(context.Background(), "bob", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	rotated, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if rotated.RefreshToken == pair.RefreshToken {
		t.Fatalf("expected a new refresh token on rotation")
	}

	if _, err := svc.VerifyAccessToken(context.Background(), rotated.AccessToken); err != nil {
		t.Fatalf("verify rotated access token: %v", err)
	}
}

// TestIdentityService_RefreshReuseRevokesFamily is the replay-detection
// property: presenting an already-rotated refresh token must fail, and must
// take the whole session down so the legitimate rotated token is dead too.
func TestIdentityService_RefreshReuseRevokesFamily(t *testing.T) {
	userRepo := memory.NewUserRepository()
	sessionRepo := memory.NewSessionRepository()
	svc := usecase.NewIdentityService(userRepo, sessionRepo, id.NewRandomGenerator(), nil, usecase.IdentityConfig{
		JWTSigningKey: []byte("test-signing-key"),
	})
	seedUserWithRepos(t, svc, userRepo, "carol", "p4ssw0rd!")

	pair, err := svc.Login(context.Background(), "carol", "p4ssw0rd!")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	rotated, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("first refresh: %v", err)
	}

	// Replay the stale, already-rotated token.
	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized on refresh-token reuse, got %v", err)
	}

	// The legitimate rotated token must now be dead too: reuse revoked the
	// whole family, not just the stale token.
	if _, err := svc.Refresh(context.Background(), rotated.RefreshToken); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized after family revocation, got %v", err)
	}
}

func TestIdentityService_SignupSelfServeRejectsDuplicateUsername(t *testing.T) {
	svc, userRepo := newIdentityService(t)
	seedUser(t, userRepo, "dave", "secretpass", user.RoleTeamFan)

	if _, err := svc.SignupSelfServe(context.Background(), "dave", "anotherpass", "dave2@example.com"); !errors.Is(err, usecase.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate username, got %v", err)
	}
}

func TestIdentityService_UpdateProfileNeverTouchesRoleOrScope(t *testing.T) {
	svc, userRepo := newIdentityService(t)
	profile := seedUser(t, userRepo, "erin", "letmein123", user.RoleClubManager)
	profile.ClubID = "club-1"
	if _, err := userRepo.Update(context.Background(), profile); err != nil {
		t.Fatalf("set club id: %v", err)
	}

	updated, err := svc.UpdateProfile(context.Background(), profile.ID, usecase.ProfileUpdate{
		Email:       "erin-new@example.com",
		DisplayName: "Erin Updated",
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.Role != user.RoleClubManager {
		t.Fatalf("expected role to remain club_manager, got %q", updated.Role)
	}
	if updated.ClubID != "club-1" {
		t.Fatalf("expected club id to remain club-1, got %q", updated.ClubID)
	}
	if updated.Email != "erin-new@example.com" {
		t.Fatalf("expected email to update, got %q", updated.Email)
	}
}

func seedUserWithRepos(t *testing.T, svc *usecase.IdentityService, userRepo *memory.UserRepository, username, password string) user.Profile {
	t.Helper()
	profile, err := svc.SignupSelfServe(context.Background(), username, password, username+"@example.com")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return profile
}
