package httpapi

import (
	"net/http"
	"time"

	"github.com/matchday/league-api/internal/domain/invitation"
	"github.com/matchday/league-api/internal/domain/user"
	"github.com/matchday/league-api/internal/usecase"
)

type createInviteRequest struct {
	ClubID     string `json:"club_id"`
	TeamID     string `json:"team_id"`
	AgeGroupID string `json:"age_group_id"`
	MaxUses    int    `json:"max_uses"`
	TTLSeconds int    `json:"ttl_seconds"`
}

type inviteResponse struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	InviteType string `json:"invite_type"`
	ClubID     string `json:"club_id,omitempty"`
	TeamID     string `json:"team_id,omitempty"`
	AgeGroupID string `json:"age_group_id,omitempty"`
	MaxUses    int    `json:"max_uses"`
	Remaining  int    `json:"remaining"`
	Status     string `json:"status"`
	ExpiresAt  string `json:"expires_at"`
}

func newInviteResponse(inv invitation.Invitation) inviteResponse {
	now := time.Now().UTC()
	return inviteResponse{
		ID:         inv.ID,
		Code:       inv.Code,
		InviteType: string(inv.InviteType),
		ClubID:     inv.ClubID,
		TeamID:     inv.TeamID,
		AgeGroupID: inv.AgeGroupID,
		MaxUses:    inv.MaxUses,
		Remaining:  inv.RemainingUses(),
		Status:     string(inv.EffectiveStatus(now)),
		ExpiresAt:  inv.ExpiresAt.Format(time.RFC3339),
	}
}

// issuerRolePath maps the URL role segment (admin|club-manager|team-manager)
// onto the principal role that must match it; a mismatch is a spoofed URL,
// not a delegation decision, so it is rejected before reaching InviteService.
func issuerRolePath(segment string) (user.Role, bool) {
	switch segment {
	case "admin":
		return user.RoleAdmin, true
	case "club-manager":
		return user.RoleClubManager, true
	case "team-manager":
		return user.RoleTeamManager, true
	default:
		return "", false
	}
}

func targetRolePath(segment string) (invitation.Type, bool) {
	switch segment {
	case "club-manager":
		return invitation.TypeClubManager, true
	case "club-fan":
		return invitation.TypeClubFan, true
	case "team-manager":
		return invitation.TypeTeamManager, true
	case "team-player":
		return invitation.TypeTeamPlayer, true
	case "team-fan":
		return invitation.TypeTeamFan, true
	default:
		return "", false
	}
}

func (h *Handler) ValidateInvite(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ValidateInvite")
	defer span.End()

	code := r.PathValue("code")
	inv, err := h.invites.Validate(ctx, code)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if !inv.Consumable(time.Now().UTC()) {
		writeError(ctx, w, usecase.ErrGone)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, newInviteResponse(inv))
}

func (h *Handler) CreateInvite(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateInvite")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, usecase.ErrUnauthorized)
		return
	}

	expectedIssuer, validIssuer := issuerRolePath(r.PathValue("issuerRole"))
	inviteType, validTarget := targetRolePath(r.PathValue("targetRole"))
	if !validIssuer || !validTarget {
		writeError(ctx, w, usecase.ErrNotFound)
		return
	}
	if principal.Role != expectedIssuer {
		writeError(ctx, w, usecase.ErrForbidden)
		return
	}

	var req createInviteRequest
	if err := decodeAndValidate(ctx, r, nil, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.invites.Create(ctx, principal.Role, usecase.CreateInviteRequest{
		InviteType: inviteType,
		TeamID:     req.TeamID,
		ClubID:     req.ClubID,
		AgeGroupID: req.AgeGroupID,
		MaxUses:    req.MaxUses,
		TTL:        time.Duration(req.TTLSeconds) * time.Second,
		CreatedBy:  principal.UserID,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, newInviteResponse(created))
}

func (h *Handler) CancelInvite(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelInvite")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, usecase.ErrUnauthorized)
		return
	}

	id := r.PathValue("id")
	existing, err := h.invites.Validate(ctx, id)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if principal.Role != user.RoleAdmin && existing.CreatedBy != principal.UserID {
		writeError(ctx, w, usecase.ErrForbidden)
		return
	}

	cancelled, err := h.invites.Cancel(ctx, id)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, newInviteResponse(cancelled))
}

func (h *Handler) ListInvites(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListInvites")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, usecase.ErrUnauthorized)
		return
	}

	filter := invitation.Filter{
		CreatedBy: r.URL.Query().Get("created_by"),
		Status:    invitation.Status(r.URL.Query().Get("status")),
	}
	if principal.Role != user.RoleAdmin {
		filter.CreatedBy = principal.UserID
	}

	items, err := h.invites.List(ctx, filter)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]inviteResponse, 0, len(items))
	for _, inv := range items {
		out = append(out, newInviteResponse(inv))
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"items": out, "count": len(out)})
}
