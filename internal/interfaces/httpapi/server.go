package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/codes"

	"github.com/matchday/league-api/internal/platform/logging"
	"github.com/matchday/league-api/internal/platform/ratelimit"
)

// RateLimitConfig holds the limit/window pair for each RouteClass the HTTP
// front enforces, per C9: stricter on auth and invite routes, lax on reads.
type RateLimitConfig struct {
	AuthLimit    int
	AuthWindow   time.Duration
	InviteLimit  int
	InviteWindow time.Duration
	WriteLimit   int
	WriteWindow  time.Duration
	ReadLimit    int
	ReadWindow   time.Duration
}

func NewRouter(
	handler *Handler,
	verifier TokenVerifier,
	limiter ratelimit.Limiter,
	logger *logging.Logger,
	corsAllowedOrigins []string,
	rateLimits RateLimitConfig,
	traceRequestBody bool,
	traceRequestBodyMaxBytes int,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerRoutes(mux, handler, verifier, limiter, rateLimits)

	stack := RequestLogging(logger, CORS(corsAllowedOrigins, recoverPanic(logger, mux)))
	stack = RequestBodyTracing(traceRequestBody, traceRequestBodyMaxBytes, stack)
	stack = TraceHeaders(stack)
	return RequestTracing(stack)
}

// recoverPanic converts a panic in any downstream handler into a uniform 500
// instead of taking down the whole server process.
func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				panicErr := fmt.Errorf("panic recovered: %v", rec)
				span.RecordError(panicErr)
				span.SetStatus(codes.Error, "panic")
				logger.ErrorContext(ctx, "panic recovered",
					"event", "panic_recovered",
					"error_code", "panic",
					"panic", rec,
				)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
