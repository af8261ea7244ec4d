package httpapi

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/matchday/league-api/internal/domain/user"
	"github.com/matchday/league-api/internal/platform/logging"
	"github.com/matchday/league-api/internal/platform/ratelimit"
	"github.com/matchday/league-api/internal/usecase"
)

// TokenVerifier verifies bearer tokens against the identity service.
type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (user.Principal, error)
}

func RequireAuth(verifier TokenVerifier, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.RequireAuth")
		defer span.End()

		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			writeError(ctx, w, fmt.Errorf("%w: missing Authorization header", usecase.ErrUnauthorized))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			writeError(ctx, w, fmt.Errorf("%w: invalid Authorization header format", usecase.ErrUnauthorized))
			return
		}

		principal, err := verifier.VerifyAccessToken(ctx, strings.TrimSpace(parts[1]))
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withPrincipal(ctx, principal)))
	})
}

// TraceHeaders extracts or mints the pair (session_id, request_id) spec
// callers correlate logs and task results by: X-Session-ID persists across a
// browser session, X-Request-ID is minted fresh per call.
func TraceHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.TraceHeaders")
		defer span.End()

		sessionID := strings.TrimSpace(r.Header.Get("X-Session-ID"))
		if sessionID == "" {
			sessionID = newTraceID("mt-sess-")
		}
		requestID := newTraceID("mt-req-")

		w.Header().Set("X-Session-ID", sessionID)
		w.Header().Set("X-Request-ID", requestID)

		ctx = withSessionID(ctx, sessionID)
		ctx = withRequestID(ctx, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func newTraceID(prefix string) string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return prefix + "00000000"
	}
	return prefix + hex.EncodeToString(buf)
}

func RequestLogging(logger *logging.Logger, next http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.RequestLogging")
		defer span.End()

		started := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))

		spanContext := trace.SpanContextFromContext(ctx)
		traceID := ""
		spanID := ""
		if spanContext.IsValid() {
			traceID = spanContext.TraceID().String()
			spanID = spanContext.SpanID().String()
		}

		logger.InfoContext(ctx, "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(started).Milliseconds(),
			"session_id", sessionIDFromContext(ctx),
			"request_id", requestIDFromContext(ctx),
			"trace_id", traceID,
			"span_id", spanID,
		)
	})
}

// RouteClass groups endpoints that share one rate-limit bucket: "auth"
// (login/refresh), "invite", "write" (including match submission) and "read".
type RouteClass string

// RateLimitKeyFunc derives the bucket key for a request within a route
// class, typically the caller's principal ID or remote address.
type RateLimitKeyFunc func(r *http.Request) string

// ByRemoteAddr keys the bucket on the caller's remote address, for routes
// reached before authentication (login, signup).
func ByRemoteAddr(r *http.Request) string {
	return r.RemoteAddr
}

// ByPrincipalOrAddr keys the bucket on the authenticated principal when
// present, falling back to the remote address for anonymous requests.
func ByPrincipalOrAddr(r *http.Request) string {
	if principal, ok := principalFromContext(r.Context()); ok {
		return principal.UserID
	}
	return r.RemoteAddr
}

// RateLimit enforces limit requests per window within routeClass, keyed by
// keyFn, against limiter. The bound holds across every instance serving the
// API only when limiter is shared (RedisLimiter); a MemoryLimiter counts per
// process.
func RateLimit(limiter ratelimit.Limiter, routeClass RouteClass, limit int, window time.Duration, keyFn RateLimitKeyFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := startSpan(r.Context(), "httpapi.RateLimit")
			defer span.End()

			key := fmt.Sprintf("%s:%s", routeClass, keyFn(r))
			count, resetAt, allowed, err := limiter.Allow(ctx, key, limit, window)
			if err != nil {
				writeError(ctx, w, fmt.Errorf("%w: rate limiter unavailable: %v", usecase.ErrDependencyUnavailable, err))
				return
			}

			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
			remaining := limit - count
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", resetAt.Unix()))

			if !allowed {
				writeError(ctx, w, fmt.Errorf("%w: %s limit of %d per %s exceeded", usecase.ErrRateLimited, routeClass, limit, window))
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CORS applies a permissive-by-default, configurable allow-list. A single
// "*" entry (the default) reflects any Origin without credentials.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	wildcard := len(allowedOrigins) == 0
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			wildcard = true
			continue
		}
		allowed[o] = struct{}{}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			_, explicit := allowed[origin]
			if explicit || wildcard {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
			}
			if explicit {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Session-ID, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequestBodyTracing optionally attaches the request body (truncated to
// maxBytes) to the active span, for local debugging. Disabled by default:
// request bodies can carry credentials.
func RequestBodyTracing(enabled bool, maxBytes int, next http.Handler) http.Handler {
	if !enabled {
		return next
	}
	if maxBytes <= 0 {
		maxBytes = 4096
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.RequestBodyTracing")
		defer span.End()

		if r.Body != nil && (r.Method == http.MethodPost || r.Method == http.MethodPatch || r.Method == http.MethodPut) {
			body, err := io.ReadAll(io.LimitReader(r.Body, int64(maxBytes)+1))
			if err == nil {
				r.Body.Close()
				captured := body
				truncated := false
				if len(captured) > maxBytes {
					captured = captured[:maxBytes]
					truncated = true
				}
				span.SetAttributes(
					attribute.String("http.request.body", string(captured)),
					attribute.Bool("http.request.body.truncated", truncated),
				)
				r.Body = io.NopCloser(bytes.NewReader(body))
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RequestTracing(next http.Handler) http.Handler {
	return otelhttp.NewHandler(next, "league-api-http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}
