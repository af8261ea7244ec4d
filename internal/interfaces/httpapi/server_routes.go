package httpapi

import (
	"net/http"

	"github.com/matchday/league-api/internal/platform/ratelimit"
)

// registerRoutes binds every handler method to its route, applying the
// per-route-class rate limit and the RequireAuth gate where the endpoint is
// not public.
func registerRoutes(mux *http.ServeMux, h *Handler, verifier TokenVerifier, limiter ratelimit.Limiter, rl RateLimitConfig) {
	auth := RateLimit(limiter, RouteClass("auth"), rl.AuthLimit, rl.AuthWindow, ByRemoteAddr)
	invite := RateLimit(limiter, RouteClass("invite"), rl.InviteLimit, rl.InviteWindow, ByPrincipalOrAddr)
	write := RateLimit(limiter, RouteClass("write"), rl.WriteLimit, rl.WriteWindow, ByPrincipalOrAddr)
	read := RateLimit(limiter, RouteClass("read"), rl.ReadLimit, rl.ReadWindow, ByPrincipalOrAddr)

	protected := func(next http.HandlerFunc) http.Handler {
		return RequireAuth(verifier, next)
	}

	// Health, unauthenticated and unlimited.
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /health/full", h.HealthFull)

	// Auth: public entry points, rate limited per caller address.
	mux.Handle("POST /api/auth/login", auth(http.HandlerFunc(h.Login)))
	mux.Handle("POST /api/auth/signup", auth(http.HandlerFunc(h.Signup)))
	mux.Handle("POST /api/auth/refresh", auth(http.HandlerFunc(h.Refresh)))

	mux.Handle("POST /api/auth/logout", protected(h.Logout))
	mux.Handle("GET /api/auth/profile", protected(h.GetProfile))
	mux.Handle("PUT /api/auth/profile", protected(h.UpdateProfile))

	// Invites.
	mux.HandleFunc("GET /api/invites/validate/{code}", h.ValidateInvite)
	mux.Handle("POST /api/invites/{issuerRole}/{targetRole}", invite(protected(h.CreateInvite)))
	mux.Handle("DELETE /api/invites/{id}", invite(protected(h.CancelInvite)))
	mux.Handle("GET /api/invites", read(protected(h.ListInvites)))

	// Matches and ingestion.
	mux.Handle("POST /api/matches/submit", write(protected(h.SubmitMatch)))
	mux.Handle("GET /api/matches/task/{task_id}", protected(h.MatchTaskStatus))
	mux.Handle("GET /api/matches", read(protected(h.ListMatches)))
	mux.Handle("POST /api/matches", write(protected(h.CreateMatch)))
	mux.Handle("GET /api/matches/{id}", read(protected(h.GetMatch)))
	mux.Handle("PATCH /api/matches/{id}", write(protected(h.PatchMatch)))
	mux.Handle("DELETE /api/matches/{id}", write(protected(h.DeleteMatch)))

	// Standings/table, read-only and gated the same as other list endpoints.
	mux.Handle("GET /api/table", read(protected(h.Standings)))

	// Teams and clubs.
	mux.Handle("GET /api/teams", read(protected(h.ListTeams)))
	mux.Handle("POST /api/teams", write(protected(h.CreateTeam)))
	mux.Handle("GET /api/clubs", read(protected(h.ListClubs)))
	mux.Handle("POST /api/clubs", write(protected(h.CreateClub)))
	mux.Handle("DELETE /api/clubs/{id}", write(protected(h.DeleteClub)))

	// Reference catalog: leagues, divisions, age groups, seasons, match types.
	mux.Handle("GET /api/leagues", read(protected(h.ListLeagues)))
	mux.Handle("POST /api/leagues", write(protected(h.CreateLeague)))
	mux.Handle("GET /api/divisions", read(protected(h.ListDivisions)))
	mux.Handle("POST /api/divisions", write(protected(h.CreateDivision)))
	mux.Handle("GET /api/age-groups", read(protected(h.ListAgeGroups)))
	mux.Handle("POST /api/age-groups", write(protected(h.CreateAgeGroup)))
	mux.Handle("GET /api/seasons", read(protected(h.ListSeasons)))
	mux.Handle("POST /api/seasons", write(protected(h.CreateSeason)))
	mux.Handle("GET /api/match-types", read(protected(h.ListMatchTypes)))
	mux.Handle("POST /api/match-types", write(protected(h.CreateMatchType)))
}
