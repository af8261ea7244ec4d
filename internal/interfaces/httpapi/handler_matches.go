package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/matchday/league-api/internal/domain/match"
	"github.com/matchday/league-api/internal/domain/user"
	"github.com/matchday/league-api/internal/infrastructure/resultstore"
	"github.com/matchday/league-api/internal/usecase"
)

type submitMatchResponse struct {
	TaskID    string `json:"task_id"`
	StatusURL string `json:"status_url"`
}

type taskStatusResponse struct {
	State  string `json:"state"`
	Ready  bool   `json:"ready"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

func newTaskStatusResponse(r resultstore.Result) taskStatusResponse {
	return taskStatusResponse{
		State:  string(r.State),
		Ready:  r.Ready,
		Result: r.Result,
		Error:  r.Error,
	}
}

type matchResponse struct {
	ID              string `json:"id"`
	HomeTeamID      string `json:"home_team_id"`
	AwayTeamID      string `json:"away_team_id"`
	HomeScore       *int   `json:"home_score"`
	AwayScore       *int   `json:"away_score"`
	MatchDate       string `json:"match_date"`
	MatchTime       string `json:"match_time,omitempty"`
	Location        string `json:"location,omitempty"`
	SeasonID        string `json:"season_id"`
	AgeGroupID      string `json:"age_group_id"`
	MatchTypeID     string `json:"match_type_id"`
	DivisionID      string `json:"division_id"`
	Status          string `json:"status"`
	ExternalMatchID string `json:"external_match_id,omitempty"`
	Source          string `json:"source"`
	ScoreLocked     bool   `json:"score_locked"`
	Version         int    `json:"version"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

func newMatchResponse(m match.Match) matchResponse {
	return matchResponse{
		ID:              m.ID,
		HomeTeamID:      m.HomeTeamID,
		AwayTeamID:      m.AwayTeamID,
		HomeScore:       m.HomeScore,
		AwayScore:       m.AwayScore,
		MatchDate:       m.MatchDate.Format(time.RFC3339),
		MatchTime:       m.MatchTime,
		Location:        m.Location,
		SeasonID:        m.SeasonID,
		AgeGroupID:      m.AgeGroupID,
		MatchTypeID:     m.MatchTypeID,
		DivisionID:      m.DivisionID,
		Status:          string(m.Status),
		ExternalMatchID: m.ExternalMatchID,
		Source:          string(m.Source),
		ScoreLocked:     m.ScoreLocked,
		Version:         m.Version,
		CreatedAt:       m.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       m.UpdatedAt.Format(time.RFC3339),
	}
}

// authorizeMatchScope tries the home then the away team's (team, club) scope
// and allows as soon as one passes, matching S6: a team_manager assigned to
// either side of a fixture may write to it.
func (h *Handler) authorizeMatchScope(r *http.Request, principal user.Principal, homeTeamID, awayTeamID string, write bool) error {
	ctx := r.Context()
	action := usecase.Action{Name: "match.write", Write: write}

	var lastReason string
	for _, teamID := range []string{homeTeamID, awayTeamID} {
		if teamID == "" {
			continue
		}
		scope := usecase.Scope{TeamID: teamID}
		if t, err := h.teams.GetByID(ctx, teamID); err == nil {
			scope.ClubID = t.ClubID
		}
		decision, err := h.authz.Authorize(ctx, principal, action, scope)
		if err != nil {
			return err
		}
		if decision.Allowed {
			return nil
		}
		lastReason = decision.Reason
	}
	return fmt.Errorf("%w: %s", usecase.ErrForbidden, lastReason)
}

func (h *Handler) SubmitMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitMatch")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, usecase.ErrUnauthorized)
		return
	}
	decision, err := h.authz.Authorize(ctx, principal, usecase.Action{Name: "match.ingest", Write: true}, usecase.Scope{})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if !decision.Allowed {
		writeError(ctx, w, fmt.Errorf("%w: %s", usecase.ErrForbidden, decision.Reason))
		return
	}

	var req usecase.IngestMatchSubmission
	if err := decodeAndValidate(ctx, r, nil, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if req.Producer == "" {
		req.Producer = principal.UserID
	}

	taskID, err := h.ingestion.Submit(ctx, req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusAccepted, submitMatchResponse{
		TaskID:    taskID,
		StatusURL: "/api/matches/task/" + taskID,
	})
}

func (h *Handler) MatchTaskStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MatchTaskStatus")
	defer span.End()

	result, err := h.ingestion.Status(ctx, r.PathValue("task_id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, newTaskStatusResponse(result))
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	q := r.URL.Query()
	filter := match.Filter{
		SeasonID:   q.Get("season_id"),
		AgeGroupID: q.Get("age_group_id"),
		DivisionID: q.Get("division_id"),
		LeagueID:   q.Get("league_id"),
		Status:     match.Status(q.Get("status")),
		TeamID:     q.Get("team_id"),
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil {
		filter.Offset = v
	}
	if v, err := time.Parse(time.RFC3339, q.Get("date_from")); err == nil {
		filter.DateFrom = v
	}
	if v, err := time.Parse(time.RFC3339, q.Get("date_to")); err == nil {
		filter.DateTo = v
	}

	items, err := h.matches.List(ctx, filter)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	out := make([]matchResponse, 0, len(items))
	for _, m := range items {
		out = append(out, newMatchResponse(m))
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"items": out, "count": len(out)})
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	m, err := h.matches.GetByID(ctx, r.PathValue("id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, newMatchResponse(m))
}

type createMatchRequest struct {
	HomeTeamID      string `json:"home_team_id" validate:"required"`
	AwayTeamID      string `json:"away_team_id" validate:"required"`
	HomeScore       *int   `json:"home_score"`
	AwayScore       *int   `json:"away_score"`
	MatchDate       string `json:"match_date" validate:"required"`
	MatchTime       string `json:"match_time"`
	Location        string `json:"location"`
	SeasonID        string `json:"season_id" validate:"required"`
	AgeGroupID      string `json:"age_group_id" validate:"required"`
	MatchTypeID     string `json:"match_type_id" validate:"required"`
	DivisionID      string `json:"division_id" validate:"required"`
	Status          string `json:"status"`
	ExternalMatchID string `json:"external_match_id"`
}

func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateMatch")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, usecase.ErrUnauthorized)
		return
	}

	var req createMatchRequest
	if err := decodeAndValidate(ctx, r, h.validate, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.authorizeMatchScope(r, principal, req.HomeTeamID, req.AwayTeamID, true); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchDate, err := time.Parse(time.RFC3339, req.MatchDate)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: match_date must be RFC3339", usecase.ErrInvalidInput))
		return
	}

	created, err := h.matches.Create(ctx, match.Match{
		HomeTeamID:      req.HomeTeamID,
		AwayTeamID:      req.AwayTeamID,
		HomeScore:       req.HomeScore,
		AwayScore:       req.AwayScore,
		MatchDate:       matchDate,
		MatchTime:       req.MatchTime,
		Location:        req.Location,
		SeasonID:        req.SeasonID,
		AgeGroupID:      req.AgeGroupID,
		MatchTypeID:     req.MatchTypeID,
		DivisionID:      req.DivisionID,
		Status:          match.Status(req.Status),
		ExternalMatchID: req.ExternalMatchID,
		Source:          match.SourceManual,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, newMatchResponse(created))
}

type patchMatchRequest struct {
	HomeScore *int   `json:"home_score"`
	AwayScore *int   `json:"away_score"`
	Status    string `json:"status"`
	MatchDate string `json:"match_date"`
	MatchTime string `json:"match_time"`
	Location  string `json:"location"`
}

func (h *Handler) PatchMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PatchMatch")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, usecase.ErrUnauthorized)
		return
	}

	existing, err := h.matches.GetByID(ctx, r.PathValue("id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.authorizeMatchScope(r, principal, existing.HomeTeamID, existing.AwayTeamID, true); err != nil {
		writeError(ctx, w, err)
		return
	}

	var req patchMatchRequest
	if err := decodeAndValidate(ctx, r, nil, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	patched := existing
	patched.HomeScore = req.HomeScore
	patched.AwayScore = req.AwayScore
	if req.Status != "" {
		patched.Status = match.Status(req.Status)
	}
	if req.MatchDate != "" {
		if parsed, err := time.Parse(time.RFC3339, req.MatchDate); err == nil {
			patched.MatchDate = parsed
		}
	}
	patched.MatchTime = req.MatchTime
	patched.Location = req.Location

	updated, err := h.matches.Update(ctx, patched)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, newMatchResponse(updated))
}

func (h *Handler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteMatch")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, usecase.ErrUnauthorized)
		return
	}

	existing, err := h.matches.GetByID(ctx, r.PathValue("id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.authorizeMatchScope(r, principal, existing.HomeTeamID, existing.AwayTeamID, true); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.matches.Delete(ctx, existing.ID); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeNoContent(w)
}

func (h *Handler) Standings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Standings")
	defer span.End()

	q := r.URL.Query()
	rows, err := h.query.Standings(ctx, q.Get("league"), q.Get("division"), q.Get("season"), q.Get("age_group"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"items": rows, "count": len(rows)})
}
