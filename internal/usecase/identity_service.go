package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/matchday/league-api/internal/domain/session"
	"github.com/matchday/league-api/internal/domain/user"
	"github.com/matchday/league-api/internal/platform/id"
)

// CredentialVerifier checks a username-derived internal email and password
// against an external identity provider. When nil, IdentityService falls
// back to comparing against the locally stored bcrypt hash.
type CredentialVerifier interface {
	VerifyCredentials(ctx context.Context, internalEmail, password string) (user.Principal, error)
}

type IdentityConfig struct {
	InternalEmailDomain string
	AccessTokenTTL      time.Duration
	RefreshTokenTTL     time.Duration
	JWTSigningKey       []byte
	JWTIssuer           string
}

func (c IdentityConfig) normalized() IdentityConfig {
	if c.InternalEmailDomain == "" {
		c.InternalEmailDomain = "users.internal.matchday.local"
	}
	if c.AccessTokenTTL <= 0 {
		c.AccessTokenTTL = 15 * time.Minute
	}
	if c.RefreshTokenTTL <= 0 {
		c.RefreshTokenTTL = 7 * 24 * time.Hour
	}
	if c.JWTIssuer == "" {
		c.JWTIssuer = "league-api"
	}
	return c
}

type IdentityService struct {
	userRepo    user.Repository
	sessionRepo session.Repository
	idgen       id.Generator
	external    CredentialVerifier
	cfg         IdentityConfig
}

func NewIdentityService(userRepo user.Repository, sessionRepo session.Repository, idgen id.Generator, external CredentialVerifier, cfg IdentityConfig) *IdentityService {
	return &IdentityService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		idgen:       idgen,
		external:    external,
		cfg:         cfg.normalized(),
	}
}

// InternalEmail maps a username to the one-directional internal email used
// only when talking to an external IdP. It never reaches end users.
func (s *IdentityService) InternalEmail(username string) string {
	return strings.ToLower(strings.TrimSpace(username)) + "@" + s.cfg.InternalEmailDomain
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	Profile      user.Profile
}

type claims struct {
	jwt.RegisteredClaims
	Role      user.Role `json:"role"`
	ClubID    string    `json:"club_id,omitempty"`
	TeamID    string    `json:"team_id,omitempty"`
	SessionID string    `json:"sid"`
}

// Login verifies credentials and mints a fresh access/refresh pair. It never
// reveals whether the username or the password was the mismatch.
func (s *IdentityService) Login(ctx context.Context, username, password string) (TokenPair, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return TokenPair{}, ErrInvalidCredentials
	}

	profile, exists, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return TokenPair{}, fmt.Errorf("get user by username: %w", err)
	}
	if !exists {
		return TokenPair{}, ErrInvalidCredentials
	}

	if err := s.verifyPassword(ctx, profile, password); err != nil {
		return TokenPair{}, err
	}

	return s.mintPair(ctx, profile)
}

func (s *IdentityService) verifyPassword(ctx context.Context, profile user.Profile, password string) error {
	if s.external != nil {
		if _, err := s.external.VerifyCredentials(ctx, s.InternalEmail(profile.Username), password); err != nil {
			return ErrInvalidCredentials
		}
		return nil
	}

	if profile.PasswordHash == "" {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

func (s *IdentityService) mintPair(ctx context.Context, profile user.Profile) (TokenPair, error) {
	sessionID, err := s.idgen.NewID()
	if err != nil {
		return TokenPair{}, fmt.Errorf("generate session id: %w", err)
	}

	refreshRaw, refreshHash, err := newOpaqueToken()
	if err != nil {
		return TokenPair{}, err
	}

	now := time.Now().UTC()
	sess := session.Session{
		ID:               sessionID,
		UserID:           profile.ID,
		RefreshTokenHash: refreshHash,
		Generation:       1,
		ExpiresAt:        now.Add(s.cfg.RefreshTokenTTL),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if _, err := s.sessionRepo.Create(ctx, sess); err != nil {
		return TokenPair{}, fmt.Errorf("create session: %w", err)
	}

	access, err := s.signAccessToken(profile, sessionID)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: sessionID + "." + refreshRaw,
		Profile:      profile,
	}, nil
}

func (s *IdentityService) signAccessToken(profile user.Profile, sessionID string) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profile.ID,
			Issuer:    s.cfg.JWTIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenTTL)),
		},
		Role:      profile.Role,
		ClubID:    profile.ClubID,
		TeamID:    profile.TeamID,
		SessionID: sessionID,
	})

	signed, err := token.SignedString(s.cfg.JWTSigningKey)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// Refresh rotates a refresh token. Presenting a stale (already-rotated)
// token is reuse and revokes the whole session family.
func (s *IdentityService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	sessionID, raw, ok := splitOpaqueToken(refreshToken)
	if !ok {
		return TokenPair{}, ErrUnauthorized
	}

	sess, exists, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("get session: %w", err)
	}
	if !exists || sess.Revoked || sess.Expired(time.Now().UTC()) {
		return TokenPair{}, ErrUnauthorized
	}

	if hashOpaqueToken(raw) != sess.RefreshTokenHash {
		// Presented hash does not match the current generation: either a
		// stale token was replayed, or it never belonged to this family.
		_ = s.sessionRepo.Revoke(ctx, sessionID)
		return TokenPair{}, ErrUnauthorized
	}

	newRaw, newHash, err := newOpaqueToken()
	if err != nil {
		return TokenPair{}, err
	}

	rotated, ok, err := s.sessionRepo.Rotate(ctx, sessionID, sess.RefreshTokenHash, newHash)
	if err != nil {
		return TokenPair{}, fmt.Errorf("rotate session: %w", err)
	}
	if !ok {
		return TokenPair{}, ErrUnauthorized
	}

	profile, exists, err := s.userRepo.GetByID(ctx, rotated.UserID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return TokenPair{}, ErrUnauthorized
	}

	access, err := s.signAccessToken(profile, sessionID)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: sessionID + "." + newRaw,
		Profile:      profile,
	}, nil
}

func (s *IdentityService) Logout(ctx context.Context, principal user.Principal) error {
	if principal.SessionID == "" {
		return nil
	}
	if err := s.sessionRepo.Revoke(ctx, principal.SessionID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// VerifyAccessToken decodes and validates a JWT access token, satisfying
// httpapi.TokenVerifier.
func (s *IdentityService) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return s.cfg.JWTSigningKey, nil
	})
	if err != nil || !parsed.Valid {
		return user.Principal{}, ErrUnauthorized
	}

	c, ok := parsed.Claims.(*claims)
	if !ok {
		return user.Principal{}, ErrUnauthorized
	}

	return user.Principal{
		UserID:    c.Subject,
		Role:      c.Role,
		ClubID:    c.ClubID,
		TeamID:    c.TeamID,
		SessionID: c.SessionID,
	}, nil
}

// SignupSelfServe creates a new team_fan profile. Invite-driven signups go
// through InviteService.Consume, which consumes the invite first, then calls
// SignupSelfServe and applies the invite's role and scope with a separate
// profile update; these writes do not share a transaction.
func (s *IdentityService) SignupSelfServe(ctx context.Context, username, password, email string) (user.Profile, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return user.Profile{}, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	if _, exists, err := s.userRepo.GetByUsername(ctx, username); err != nil {
		return user.Profile{}, fmt.Errorf("get user by username: %w", err)
	} else if exists {
		return user.Profile{}, fmt.Errorf("%w: username=%s already taken", ErrConflict, username)
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return user.Profile{}, err
	}

	newID, err := s.idgen.NewID()
	if err != nil {
		return user.Profile{}, fmt.Errorf("generate user id: %w", err)
	}

	now := time.Now().UTC()
	profile := user.Profile{
		ID:           newID,
		Username:     username,
		Email:        email,
		Role:         user.RoleTeamFan,
		PasswordHash: hash,
		DisplayName:  username,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := profile.Validate(); err != nil {
		return user.Profile{}, fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}

	created, err := s.userRepo.Create(ctx, profile)
	if err != nil {
		return user.Profile{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (s *IdentityService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// GetProfile returns the stored profile for an authenticated principal.
func (s *IdentityService) GetProfile(ctx context.Context, userID string) (user.Profile, error) {
	profile, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return user.Profile{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return user.Profile{}, ErrNotFound
	}
	return profile, nil
}

// ProfileUpdate carries the caller-editable subset of a profile. Role,
// ClubID, TeamID and InvitedViaCode are assigned only via invite consume or
// admin action, never through a self-service profile edit.
type ProfileUpdate struct {
	Email              string
	PhoneNumber        string
	DisplayName        string
	PlayerNumber       int
	Positions          []string
	AssignedAgeGroupID string
}

func (s *IdentityService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (user.Profile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return user.Profile{}, err
	}

	profile.Email = in.Email
	profile.PhoneNumber = in.PhoneNumber
	profile.DisplayName = in.DisplayName
	profile.PlayerNumber = in.PlayerNumber
	profile.Positions = in.Positions
	profile.AssignedAgeGroupID = in.AssignedAgeGroupID
	profile.UpdatedAt = time.Now().UTC()

	if err := profile.Validate(); err != nil {
		return user.Profile{}, fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}

	updated, err := s.userRepo.Update(ctx, profile)
	if err != nil {
		return user.Profile{}, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}

func newOpaqueToken() (raw string, hash string, err error) {
	raw = uuid.NewString() + uuid.NewString()
	return raw, hashOpaqueToken(raw), nil
}

func hashOpaqueToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func splitOpaqueToken(token string) (sessionID, raw string, ok bool) {
	idx := strings.IndexByte(token, '.')
	if idx <= 0 || idx == len(token)-1 {
		return "", "", false
	}
	return token[:idx], token[idx+1:], true
}
