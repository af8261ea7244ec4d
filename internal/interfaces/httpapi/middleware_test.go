package httpapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matchday/league-api/internal/domain/user"
	"github.com/matchday/league-api/internal/interfaces/httpapi"
	"github.com/matchday/league-api/internal/platform/ratelimit"
)

type stubVerifier struct {
	principal user.Principal
	err       error
}

func (s stubVerifier) VerifyAccessToken(_ context.Context, _ string) (user.Principal, error) {
	return s.principal, s.err
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_RejectsMissingAuthorizationHeader(t *testing.T) {
	h := httpapi.RequireAuth(stubVerifier{}, okHandler())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAuth_RejectsMalformedAuthorizationHeader(t *testing.T) {
	h := httpapi.RequireAuth(stubVerifier{}, okHandler())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic whatever")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAuth_AllowsAValidToken(t *testing.T) {
	h := httpapi.RequireAuth(stubVerifier{principal: user.Principal{UserID: "u-1", Role: user.RoleTeamFan}}, okHandler())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer a-valid-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

// TestRateLimit_BlocksAfterLimitReached is the login rate-limiting
// property: the Nth+1 request within a window must be rejected with 429.
func TestRateLimit_BlocksAfterLimitReached(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter()
	mw := httpapi.RateLimit(limiter, "auth", 3, time.Minute, httpapi.ByRemoteAddr)
	h := mw(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 within the limit, got %d", i+1, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 once the limit is exceeded, got %d", rec.Code)
	}
}

func TestRateLimit_TracksSeparateKeysIndependently(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter()
	mw := httpapi.RateLimit(limiter, "auth", 1, time.Minute, httpapi.ByRemoteAddr)
	h := mw(okHandler())

	reqA := httptest.NewRequest(http.MethodPost, "/login", nil)
	reqA.RemoteAddr = "10.0.0.1:1234"
	recA := httptest.NewRecorder()
	h.ServeHTTP(recA, reqA)
	if recA.Code != http.StatusOK {
		t.Fatalf("expected first caller's first request to succeed, got %d", recA.Code)
	}

	reqB := httptest.NewRequest(http.MethodPost, "/login", nil)
	reqB.RemoteAddr = "10.0.0.2:5678"
	recB := httptest.NewRecorder()
	h.ServeHTTP(recB, reqB)
	if recB.Code != http.StatusOK {
		t.Fatalf("expected a different caller's first request to succeed independently, got %d", recB.Code)
	}
}

func TestCORS_ReflectsAllowedOrigin(t *testing.T) {
	h := httpapi.CORS([]string{"https://app.example.com"}, okHandler())

	req := httptest.NewRequest(http.MethodGet, "/matches", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("expected origin to be reflected, got %q", got)
	}
}

func TestCORS_DoesNotReflectDisallowedOrigin(t *testing.T) {
	h := httpapi.CORS([]string{"https://app.example.com"}, okHandler())

	req := httptest.NewRequest(http.MethodGet, "/matches", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected a disallowed origin to not be reflected, got %q", got)
	}
}
