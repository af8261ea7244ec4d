package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/matchday/league-api/internal/domain/invitation"
	"github.com/matchday/league-api/internal/domain/user"
	"github.com/matchday/league-api/internal/infrastructure/repository/memory"
	"github.com/matchday/league-api/internal/platform/id"
	"github.com/matchday/league-api/internal/usecase"
)

func newInviteService(t *testing.T) (*usecase.InviteService, *memory.InvitationRepository) {
	t.Helper()
	inviteRepo := memory.NewInvitationRepository()
	identitySvc := usecase.NewIdentityService(
		memory.NewUserRepository(), memory.NewSessionRepository(), id.NewRandomGenerator(), nil,
		usecase.IdentityConfig{JWTSigningKey: []byte("test-signing-key")},
	)
	return usecase.NewInviteService(inviteRepo, identitySvc, usecase.InviteConfig{DefaultTTL: time.Hour}), inviteRepo
}

func TestInviteService_CreateEnforcesDelegationTable(t *testing.T) {
	svc, _ := newInviteService(t)

	cases := []struct {
		issuer  user.Role
		invite  invitation.Type
		allowed bool
	}{
		{user.RoleAdmin, invitation.TypeClubManager, true},
		{user.RoleAdmin, invitation.TypeTeamManager, false},
		{user.RoleClubManager, invitation.TypeTeamManager, true},
		{user.RoleClubManager, invitation.TypeClubFan, true},
		{user.RoleClubManager, invitation.TypeClubManager, false},
		{user.RoleTeamManager, invitation.TypeTeamPlayer, true},
		{user.RoleTeamManager, invitation.TypeTeamFan, true},
		{user.RoleTeamManager, invitation.TypeTeamManager, false},
		{user.RoleTeamPlayer, invitation.TypeTeamFan, false},
	}

	for _, tc := range cases {
		_, err := svc.Create(context.Background(), tc.issuer, usecase.CreateInviteRequest{InviteType: tc.invite, CreatedBy: "issuer-1"})
		if tc.allowed && err != nil {
			t.Fatalf("%s issuing %s: expected success, got %v", tc.issuer, tc.invite, err)
		}
		if !tc.allowed && !errors.Is(err, usecase.ErrForbidden) {
			t.Fatalf("%s issuing %s: expected ErrForbidden, got %v", tc.issuer, tc.invite, err)
		}
	}
}

func TestInviteService_ValidateUnknownCode(t *testing.T) {
	svc, _ := newInviteService(t)
	if _, err := svc.Validate(context.Background(), "does-not-exist"); !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInviteService_ConsumeExhaustedInviteFails(t *testing.T) {
	svc, _ := newInviteService(t)

	inv, err := svc.Create(context.Background(), user.RoleAdmin, usecase.CreateInviteRequest{
		InviteType: invitation.TypeClubManager,
		MaxUses:    1,
		CreatedBy:  "admin-1",
	})
	if err != nil {
		t.Fatalf("create invite: %v", err)
	}

	if _, err := svc.Consume(context.Background(), inv.Code, "first-user", "password123"); err != nil {
		t.Fatalf("first consume: %v", err)
	}

	if _, err := svc.Consume(context.Background(), inv.Code, "second-user", "password123"); !errors.Is(err, usecase.ErrInviteExhausted) {
		t.Fatalf("expected ErrInviteExhausted on second consume, got %v", err)
	}
}

func TestInviteService_ConsumeExpiredInviteFails(t *testing.T) {
	svc, inviteRepo := newInviteService(t)

	inv, err := svc.Create(context.Background(), user.RoleAdmin, usecase.CreateInviteRequest{
		InviteType: invitation.TypeClubManager,
		MaxUses:    5,
		TTL:        time.Hour,
		CreatedBy:  "admin-1",
	})
	if err != nil {
		t.Fatalf("create invite: %v", err)
	}

	stored, _, err := inviteRepo.GetByCode(context.Background(), inv.Code)
	if err != nil {
		t.Fatalf("get invite: %v", err)
	}
	stored.ExpiresAt = time.Now().UTC().Add(-time.Minute)
	if _, err := inviteRepo.Create(context.Background(), stored); err != nil {
		t.Fatalf("force-expire invite: %v", err)
	}

	if _, err := svc.Consume(context.Background(), inv.Code, "late-user", "password123"); !errors.Is(err, usecase.ErrInviteExpired) {
		t.Fatalf("expected ErrInviteExpired, got %v", err)
	}
}

// TestInviteService_ConsumeConcurrentSingleUseExactlyOneWinner is the
// headline invite property: an invite with MaxUses=1 consumed by many
// concurrent callers must let exactly one through.
func TestInviteService_ConsumeConcurrentSingleUseExactlyOneWinner(t *testing.T) {
	svc, _ := newInviteService(t)

	inv, err := svc.Create(context.Background(), user.RoleAdmin, usecase.CreateInviteRequest{
		InviteType: invitation.TypeClubManager,
		MaxUses:    1,
		CreatedBy:  "admin-1",
	})
	if err != nil {
		t.Fatalf("create invite: %v", err)
	}

	const attempts = 32
	var wg sync.WaitGroup
	var successes int32
	var mu sync.Mutex
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := svc.Consume(context.Background(), inv.Code, fmt.Sprintf("racer-%d", i), "password123")
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("expected exactly 1 successful consume, got %d", successes)
	}
}

func TestInviteService_CancelMarksCancelled(t *testing.T) {
	svc, _ := newInviteService(t)

	inv, err := svc.Create(context.Background(), user.RoleAdmin, usecase.CreateInviteRequest{
		InviteType: invitation.TypeClubManager,
		MaxUses:    5,
		CreatedBy:  "admin-1",
	})
	if err != nil {
		t.Fatalf("create invite: %v", err)
	}

	cancelled, err := svc.Cancel(context.Background(), inv.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != invitation.StatusCancelled {
		t.Fatalf("expected status cancelled, got %q", cancelled.Status)
	}

	if _, err := svc.Consume(context.Background(), inv.Code, "too-late", "password123"); !errors.Is(err, usecase.ErrGone) {
		t.Fatalf("expected ErrGone consuming a cancelled invite, got %v", err)
	}
}
