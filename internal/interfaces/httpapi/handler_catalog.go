package httpapi

import (
	"fmt"
	"net/http"

	"github.com/matchday/league-api/internal/domain/club"
	"github.com/matchday/league-api/internal/domain/team"
	"github.com/matchday/league-api/internal/usecase"
)

type teamResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	City        string `json:"city,omitempty"`
	ClubID      string `json:"club_id,omitempty"`
	LeagueID    string `json:"league_id"`
	AcademyTeam bool   `json:"academy_team"`
}

func newTeamResponse(t team.Team) teamResponse {
	return teamResponse{ID: t.ID, Name: t.Name, City: t.City, ClubID: t.ClubID, LeagueID: t.LeagueID, AcademyTeam: t.AcademyTeam}
}

type clubResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	City        string `json:"city,omitempty"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description,omitempty"`
	ProAcademy  bool   `json:"pro_academy"`
	IsActive    bool   `json:"is_active"`
}

func newClubResponse(c club.Club) clubResponse {
	return clubResponse{
		ID:          c.ID,
		Name:        c.Name,
		City:        c.City,
		Website:     c.Website,
		Description: c.Description,
		ProAcademy:  c.ProAcademy,
		IsActive:    c.IsActive,
	}
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	filter := team.Filter{
		ClubID:   r.URL.Query().Get("club_id"),
		LeagueID: r.URL.Query().Get("league_id"),
	}
	items, err := h.teams.List(ctx, filter)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	out := make([]teamResponse, 0, len(items))
	for _, t := range items {
		out = append(out, newTeamResponse(t))
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"items": out, "count": len(out)})
}

type createTeamRequest struct {
	Name        string `json:"name" validate:"required"`
	City        string `json:"city"`
	ClubID      string `json:"club_id"`
	LeagueID    string `json:"league_id" validate:"required"`
	AcademyTeam bool   `json:"academy_team"`
}

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateTeam")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, usecase.ErrUnauthorized)
		return
	}

	var req createTeamRequest
	if err := decodeAndValidate(ctx, r, h.validate, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	decision, err := h.authz.Authorize(ctx, principal, usecase.Action{Name: "team.create", Write: true}, usecase.Scope{ClubID: req.ClubID})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if !decision.Allowed {
		writeError(ctx, w, fmt.Errorf("%w: %s", usecase.ErrForbidden, decision.Reason))
		return
	}

	created, err := h.teams.Create(ctx, team.Team{
		Name:        req.Name,
		City:        req.City,
		ClubID:      req.ClubID,
		LeagueID:    req.LeagueID,
		AcademyTeam: req.AcademyTeam,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, newTeamResponse(created))
}

func (h *Handler) ListClubs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListClubs")
	defer span.End()

	items, err := h.clubs.List(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	out := make([]clubResponse, 0, len(items))
	for _, c := range items {
		out = append(out, newClubResponse(c))
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"items": out, "count": len(out)})
}

type createClubRequest struct {
	Name        string `json:"name" validate:"required"`
	City        string `json:"city"`
	Website     string `json:"website"`
	Description string `json:"description"`
	ProAcademy  bool   `json:"pro_academy"`
}

func (h *Handler) CreateClub(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateClub")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, usecase.ErrUnauthorized)
		return
	}

	decision, err := h.authz.Authorize(ctx, principal, usecase.Action{Name: "club.create", Write: true}, usecase.Scope{})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if !decision.Allowed {
		writeError(ctx, w, fmt.Errorf("%w: %s", usecase.ErrForbidden, decision.Reason))
		return
	}

	var req createClubRequest
	if err := decodeAndValidate(ctx, r, h.validate, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.clubs.Create(ctx, club.Club{
		Name:        req.Name,
		City:        req.City,
		Website:     req.Website,
		Description: req.Description,
		ProAcademy:  req.ProAcademy,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, newClubResponse(created))
}

func (h *Handler) DeleteClub(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteClub")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, usecase.ErrUnauthorized)
		return
	}

	decision, err := h.authz.Authorize(ctx, principal, usecase.Action{Name: "club.delete", Write: true}, usecase.Scope{})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if !decision.Allowed {
		writeError(ctx, w, fmt.Errorf("%w: %s", usecase.ErrForbidden, decision.Reason))
		return
	}

	if err := h.clubs.Deactivate(ctx, r.PathValue("id")); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeNoContent(w)
}
