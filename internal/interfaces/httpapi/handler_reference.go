package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/matchday/league-api/internal/domain/agegroup"
	"github.com/matchday/league-api/internal/domain/division"
	"github.com/matchday/league-api/internal/domain/league"
	"github.com/matchday/league-api/internal/domain/matchtype"
	"github.com/matchday/league-api/internal/domain/season"
	"github.com/matchday/league-api/internal/usecase"
)

// requireAdmin enforces the admin-only write gate the reference catalog
// shares: leagues, divisions, age groups, seasons and match types are
// league-wide structural data, never scoped to a single club or team.
func (h *Handler) requireAdmin(r *http.Request) (usecase.Scope, error) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		return usecase.Scope{}, usecase.ErrUnauthorized
	}
	decision, err := h.authz.Authorize(r.Context(), principal, usecase.Action{Name: "catalog.manage", Write: true}, usecase.Scope{})
	if err != nil {
		return usecase.Scope{}, err
	}
	if !decision.Allowed {
		return usecase.Scope{}, fmt.Errorf("%w: %s", usecase.ErrForbidden, decision.Reason)
	}
	return usecase.Scope{}, nil
}

type leagueResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

func newLeagueResponse(l league.League) leagueResponse {
	return leagueResponse{ID: l.ID, Name: l.Name, IsActive: l.IsActive}
}

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	items, err := h.leagues.List(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	out := make([]leagueResponse, 0, len(items))
	for _, l := range items {
		out = append(out, newLeagueResponse(l))
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"items": out, "count": len(out)})
}

type createLeagueRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *Handler) CreateLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateLeague")
	defer span.End()

	if _, err := h.requireAdmin(r); err != nil {
		writeError(ctx, w, err)
		return
	}
	var req createLeagueRequest
	if err := decodeAndValidate(ctx, r, h.validate, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	created, err := h.leagues.Create(ctx, req.Name)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, newLeagueResponse(created))
}

type divisionResponse struct {
	ID       string `json:"id"`
	LeagueID string `json:"league_id"`
	Name     string `json:"name"`
	Level    int    `json:"level"`
}

func newDivisionResponse(d division.Division) divisionResponse {
	return divisionResponse{ID: d.ID, LeagueID: d.LeagueID, Name: d.Name, Level: d.Level}
}

func (h *Handler) ListDivisions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListDivisions")
	defer span.End()

	items, err := h.catalog.ListDivisions(ctx, r.URL.Query().Get("league_id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	out := make([]divisionResponse, 0, len(items))
	for _, d := range items {
		out = append(out, newDivisionResponse(d))
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"items": out, "count": len(out)})
}

type createDivisionRequest struct {
	LeagueID string `json:"league_id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Level    int    `json:"level"`
}

func (h *Handler) CreateDivision(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateDivision")
	defer span.End()

	if _, err := h.requireAdmin(r); err != nil {
		writeError(ctx, w, err)
		return
	}
	var req createDivisionRequest
	if err := decodeAndValidate(ctx, r, h.validate, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	created, err := h.catalog.CreateDivision(ctx, req.LeagueID, req.Name, req.Level)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, newDivisionResponse(created))
}

type ageGroupResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Label string `json:"label,omitempty"`
}

func newAgeGroupResponse(a agegroup.AgeGroup) ageGroupResponse {
	return ageGroupResponse{ID: a.ID, Name: a.Name, Label: a.Label}
}

func (h *Handler) ListAgeGroups(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListAgeGroups")
	defer span.End()

	items, err := h.catalog.ListAgeGroups(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	out := make([]ageGroupResponse, 0, len(items))
	for _, a := range items {
		out = append(out, newAgeGroupResponse(a))
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"items": out, "count": len(out)})
}

type createAgeGroupRequest struct {
	Name  string `json:"name" validate:"required"`
	Label string `json:"label"`
}

func (h *Handler) CreateAgeGroup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateAgeGroup")
	defer span.End()

	if _, err := h.requireAdmin(r); err != nil {
		writeError(ctx, w, err)
		return
	}
	var req createAgeGroupRequest
	if err := decodeAndValidate(ctx, r, h.validate, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	created, err := h.catalog.CreateAgeGroup(ctx, req.Name, req.Label)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, newAgeGroupResponse(created))
}

type seasonResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartsOn  string `json:"starts_on,omitempty"`
	EndsOn    string `json:"ends_on,omitempty"`
	IsCurrent bool   `json:"is_current"`
}

func newSeasonResponse(s season.Season) seasonResponse {
	out := seasonResponse{ID: s.ID, Name: s.Name, IsCurrent: s.IsCurrent}
	if !s.StartsOn.IsZero() {
		out.StartsOn = s.StartsOn.Format(time.RFC3339)
	}
	if !s.EndsOn.IsZero() {
		out.EndsOn = s.EndsOn.Format(time.RFC3339)
	}
	return out
}

func (h *Handler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasons")
	defer span.End()

	items, err := h.catalog.ListSeasons(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	out := make([]seasonResponse, 0, len(items))
	for _, s := range items {
		out = append(out, newSeasonResponse(s))
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"items": out, "count": len(out)})
}

type createSeasonRequest struct {
	Name      string `json:"name" validate:"required"`
	StartsOn  string `json:"starts_on"`
	EndsOn    string `json:"ends_on"`
	IsCurrent bool   `json:"is_current"`
}

func (h *Handler) CreateSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateSeason")
	defer span.End()

	if _, err := h.requireAdmin(r); err != nil {
		writeError(ctx, w, err)
		return
	}
	var req createSeasonRequest
	if err := decodeAndValidate(ctx, r, h.validate, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	var startsOn, endsOn time.Time
	if req.StartsOn != "" {
		startsOn, _ = time.Parse(time.RFC3339, req.StartsOn)
	}
	if req.EndsOn != "" {
		endsOn, _ = time.Parse(time.RFC3339, req.EndsOn)
	}
	created, err := h.catalog.CreateSeason(ctx, req.Name, startsOn, endsOn, req.IsCurrent)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, newSeasonResponse(created))
}

type matchTypeResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	CountsStandings bool   `json:"counts_standings"`
}

func newMatchTypeResponse(m matchtype.MatchType) matchTypeResponse {
	return matchTypeResponse{ID: m.ID, Name: m.Name, CountsStandings: m.CountsStandings}
}

func (h *Handler) ListMatchTypes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchTypes")
	defer span.End()

	items, err := h.catalog.ListMatchTypes(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	out := make([]matchTypeResponse, 0, len(items))
	for _, m := range items {
		out = append(out, newMatchTypeResponse(m))
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"items": out, "count": len(out)})
}

type createMatchTypeRequest struct {
	Name            string `json:"name" validate:"required"`
	CountsStandings bool   `json:"counts_standings"`
}

func (h *Handler) CreateMatchType(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateMatchType")
	defer span.End()

	if _, err := h.requireAdmin(r); err != nil {
		writeError(ctx, w, err)
		return
	}
	var req createMatchTypeRequest
	if err := decodeAndValidate(ctx, r, h.validate, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	created, err := h.catalog.CreateMatchType(ctx, req.Name, req.CountsStandings)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, newMatchTypeResponse(created))
}
