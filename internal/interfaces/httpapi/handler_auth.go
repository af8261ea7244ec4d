package httpapi

import (
	"net/http"

	"github.com/matchday/league-api/internal/domain/user"
	"github.com/matchday/league-api/internal/usecase"
)

type loginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required"`
}

type signupRequest struct {
	Username   string `json:"username" validate:"required,min=3,max=50"`
	Password   string `json:"password" validate:"required,min=8"`
	Email      string `json:"email" validate:"omitempty,email"`
	InviteCode string `json:"invite_code"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type updateProfileRequest struct {
	Email              string   `json:"email" validate:"omitempty,email"`
	PhoneNumber        string   `json:"phone_number"`
	DisplayName        string   `json:"display_name"`
	PlayerNumber       int      `json:"player_number"`
	Positions          []string `json:"positions"`
	AssignedAgeGroupID string   `json:"assigned_age_group_id"`
}

type tokenPairResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	Profile      profileResponse `json:"profile"`
}

type profileResponse struct {
	ID                 string   `json:"id"`
	Username           string   `json:"username"`
	Email              string   `json:"email,omitempty"`
	PhoneNumber        string   `json:"phone_number,omitempty"`
	Role               string   `json:"role"`
	ClubID             string   `json:"club_id,omitempty"`
	TeamID             string   `json:"team_id,omitempty"`
	DisplayName        string   `json:"display_name,omitempty"`
	PlayerNumber       int      `json:"player_number,omitempty"`
	Positions          []string `json:"positions,omitempty"`
	AssignedAgeGroupID string   `json:"assigned_age_group_id,omitempty"`
	InvitedViaCode     string   `json:"invited_via_code,omitempty"`
}

func newProfileResponse(p user.Profile) profileResponse {
	return profileResponse{
		ID:                 p.ID,
		Username:           p.Username,
		Email:              p.Email,
		PhoneNumber:        p.PhoneNumber,
		Role:               string(p.Role),
		ClubID:             p.ClubID,
		TeamID:             p.TeamID,
		DisplayName:        p.DisplayName,
		PlayerNumber:       p.PlayerNumber,
		Positions:          p.Positions,
		AssignedAgeGroupID: p.AssignedAgeGroupID,
		InvitedViaCode:     p.InvitedViaCode,
	}
}

func newTokenPairResponse(pair usecase.TokenPair) tokenPairResponse {
	return tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Profile:      newProfileResponse(pair.Profile),
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Login")
	defer span.End()

	var req loginRequest
	if err := decodeAndValidate(ctx, r, h.validate, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	pair, err := h.identity.Login(ctx, req.Username, req.Password)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, newTokenPairResponse(pair))
}

// Signup creates a profile either as a self-service signup or, when an
// invite_code is present, by consuming the invite under its delegated role.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Signup")
	defer span.End()

	var req signupRequest
	if err := decodeAndValidate(ctx, r, h.validate, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if req.InviteCode != "" {
		result, err := h.invites.Consume(ctx, req.InviteCode, req.Username, req.Password)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		writeSuccess(ctx, w, http.StatusCreated, newProfileResponse(result.Profile))
		return
	}

	profile, err := h.identity.SignupSelfServe(ctx, req.Username, req.Password, req.Email)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, newProfileResponse(profile))
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Refresh")
	defer span.End()

	var req refreshRequest
	if err := decodeAndValidate(ctx, r, h.validate, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	pair, err := h.identity.Refresh(ctx, req.RefreshToken)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, newTokenPairResponse(pair))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Logout")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, usecase.ErrUnauthorized)
		return
	}

	if err := h.identity.Logout(ctx, principal); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeNoContent(w)
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetProfile")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, usecase.ErrUnauthorized)
		return
	}

	profile, err := h.identity.GetProfile(ctx, principal.UserID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, newProfileResponse(profile))
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateProfile")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, usecase.ErrUnauthorized)
		return
	}

	var req updateProfileRequest
	if err := decodeAndValidate(ctx, r, h.validate, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.identity.UpdateProfile(ctx, principal.UserID, usecase.ProfileUpdate{
		Email:              req.Email,
		PhoneNumber:        req.PhoneNumber,
		DisplayName:        req.DisplayName,
		PlayerNumber:       req.PlayerNumber,
		Positions:          req.Positions,
		AssignedAgeGroupID: req.AssignedAgeGroupID,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, newProfileResponse(updated))
}
