package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/matchday/league-api/internal/domain/invitation"
	"github.com/matchday/league-api/internal/domain/user"
)

// delegates lists, for each issuing role, the invite types it may create.
// An admin delegates club-level access; a club_manager delegates team and
// club-fan access within their own club; a team_manager delegates player
// and team-fan access within their own team.
var delegates = map[user.Role][]invitation.Type{
	user.RoleAdmin:       {invitation.TypeClubManager},
	user.RoleClubManager: {invitation.TypeTeamManager, invitation.TypeClubFan},
	user.RoleTeamManager: {invitation.TypeTeamPlayer, invitation.TypeTeamFan},
}

const maxConsumeRetries = 5

type InviteConfig struct {
	DefaultTTL time.Duration
}

func (c InviteConfig) normalized() InviteConfig {
	if c.DefaultTTL <= 0 {
		c.DefaultTTL = 14 * 24 * time.Hour
	}
	return c
}

type InviteService struct {
	inviteRepo  invitation.Repository
	identitySvc *IdentityService
	cfg         InviteConfig
}

func NewInviteService(inviteRepo invitation.Repository, identitySvc *IdentityService, cfg InviteConfig) *InviteService {
	return &InviteService{inviteRepo: inviteRepo, identitySvc: identitySvc, cfg: cfg.normalized()}
}

type CreateInviteRequest struct {
	InviteType invitation.Type
	TeamID     string
	ClubID     string
	AgeGroupID string
	MaxUses    int
	TTL        time.Duration
	CreatedBy  string
}

// Create issues an invite on behalf of issuerRole, enforcing the delegation
// table: an issuer may only grant invite types below it in the hierarchy.
func (s *InviteService) Create(ctx context.Context, issuerRole user.Role, req CreateInviteRequest) (invitation.Invitation, error) {
	allowed := delegates[issuerRole]
	permitted := false
	for _, t := range allowed {
		if t == req.InviteType {
			permitted = true
			break
		}
	}
	if !permitted {
		return invitation.Invitation{}, fmt.Errorf("%w: %s may not issue %s invites", ErrForbidden, issuerRole, req.InviteType)
	}

	if req.MaxUses < 1 {
		req.MaxUses = 1
	}
	ttl := req.TTL
	if ttl <= 0 {
		ttl = s.cfg.DefaultTTL
	}

	code, err := generateInviteCode()
	if err != nil {
		return invitation.Invitation{}, fmt.Errorf("generate invite code: %w", err)
	}

	now := time.Now().UTC()
	inv := invitation.Invitation{
		ID:         code,
		Code:       code,
		InviteType: req.InviteType,
		TeamID:     req.TeamID,
		ClubID:     req.ClubID,
		AgeGroupID: req.AgeGroupID,
		MaxUses:    req.MaxUses,
		Status:     invitation.StatusPending,
		ExpiresAt:  now.Add(ttl),
		CreatedBy:  req.CreatedBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := inv.Validate(); err != nil {
		return invitation.Invitation{}, fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}

	created, err := s.inviteRepo.Create(ctx, inv)
	if err != nil {
		return invitation.Invitation{}, fmt.Errorf("create invite: %w", err)
	}
	return created, nil
}

// Validate surfaces an invite's effective, derived-on-read status. It is the
// one invite operation anonymous callers may take.
func (s *InviteService) Validate(ctx context.Context, code string) (invitation.Invitation, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return invitation.Invitation{}, fmt.Errorf("%w: code is required", ErrInvalidInput)
	}
	inv, exists, err := s.inviteRepo.GetByCode(ctx, code)
	if err != nil {
		return invitation.Invitation{}, fmt.Errorf("get invite: %w", err)
	}
	if !exists {
		return invitation.Invitation{}, ErrNotFound
	}
	return inv, nil
}

type ConsumeResult struct {
	Invitation invitation.Invitation
	Profile    user.Profile
}

// Consume atomically increments an invite's use count and creates the
// resulting user profile with the role and scope the invite carries.
// Exhaustion/expiry is resolved in the store's conditional update so two
// concurrent consumes of the last remaining use never both succeed.
func (s *InviteService) Consume(ctx context.Context, code, username, password string) (ConsumeResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return ConsumeResult{}, fmt.Errorf("%w: code is required", ErrInvalidInput)
	}

	var consumed invitation.Invitation
	var ok bool
	var err error
	for attempt := 0; attempt < maxConsumeRetries; attempt++ {
		consumed, ok, err = s.inviteRepo.ConsumeAtomic(ctx, code, time.Now().UTC())
		if err != nil {
			return ConsumeResult{}, fmt.Errorf("consume invite: %w", err)
		}
		if ok {
			break
		}
	}
	if !ok {
		existing, exists, getErr := s.inviteRepo.GetByCode(ctx, code)
		if getErr == nil && exists {
			switch existing.EffectiveStatus(time.Now().UTC()) {
			case invitation.StatusExpired:
				return ConsumeResult{}, ErrInviteExpired
			case invitation.StatusConsumed:
				return ConsumeResult{}, ErrInviteExhausted
			case invitation.StatusCancelled:
				return ConsumeResult{}, ErrGone
			}
		}
		return ConsumeResult{}, ErrInviteUnavailable
	}

	role, err := roleForInviteType(consumed.InviteType)
	if err != nil {
		return ConsumeResult{}, err
	}

	profile, err := s.identitySvc.SignupSelfServe(ctx, username, password, "")
	if err != nil {
		return ConsumeResult{}, err
	}
	profile.Role = role
	profile.ClubID = consumed.ClubID
	profile.TeamID = consumed.TeamID
	profile.AssignedAgeGroupID = consumed.AgeGroupID
	profile.InvitedViaCode = consumed.Code
	if err := profile.Validate(); err != nil {
		return ConsumeResult{}, fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}

	updated, err := s.identitySvc.userRepo.Update(ctx, profile)
	if err != nil {
		return ConsumeResult{}, fmt.Errorf("apply invite role: %w", err)
	}

	return ConsumeResult{Invitation: consumed, Profile: updated}, nil
}

func (s *InviteService) Cancel(ctx context.Context, id string) (invitation.Invitation, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return invitation.Invitation{}, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	cancelled, err := s.inviteRepo.Cancel(ctx, id)
	if err != nil {
		return invitation.Invitation{}, fmt.Errorf("cancel invite: %w", err)
	}
	return cancelled, nil
}

func (s *InviteService) List(ctx context.Context, f invitation.Filter) ([]invitation.Invitation, error) {
	items, err := s.inviteRepo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list invites: %w", err)
	}
	return items, nil
}

func roleForInviteType(t invitation.Type) (user.Role, error) {
	switch t {
	case invitation.TypeClubManager:
		return user.RoleClubManager, nil
	case invitation.TypeClubFan:
		return user.RoleClubFan, nil
	case invitation.TypeTeamManager:
		return user.RoleTeamManager, nil
	case invitation.TypeTeamPlayer:
		return user.RoleTeamPlayer, nil
	case invitation.TypeTeamFan:
		return user.RoleTeamFan, nil
	default:
		return "", fmt.Errorf("%w: unknown invite type %q", ErrInvariantViolation, t)
	}
}

// generateInviteCode produces a 256-bit, URL-safe, non-sequential code.
func generateInviteCode() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
