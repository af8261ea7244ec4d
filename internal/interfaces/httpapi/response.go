package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/matchday/league-api/internal/platform/logging"
	"github.com/matchday/league-api/internal/usecase"
)

// Stable error codes the HTTP surface promises callers, independent of the
// internal sentinel error that produced them.
const (
	CodeInvalidCredentials    = "INVALID_CREDENTIALS"
	CodeRateLimited           = "RATE_LIMITED"
	CodeUnknownEntity         = "UNKNOWN_ENTITY"
	CodeInviteExpired         = "INVITE_EXPIRED"
	CodeInviteExhausted       = "INVITE_EXHAUSTED"
	CodeInviteUnavailable     = "INVITE_UNAVAILABLE"
	CodeForbidden             = "FORBIDDEN"
	CodeUnauthenticated       = "UNAUTHENTICATED"
	CodeNotFound              = "NOT_FOUND"
	CodeConflict              = "CONFLICT"
	CodeGone                  = "GONE"
	CodeInvalidInput          = "INVALID_INPUT"
	CodeInvariantViolation    = "INVARIANT_VIOLATION"
	CodeDependencyUnavailable = "DEPENDENCY_UNAVAILABLE"
	CodeInternal              = "INTERNAL"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	RequestID string `json:"request_id"`
}

type mappedError struct {
	HTTPStatus int
	Code       string
	Message    string
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	ctx, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	ctx, span := startSpan(ctx, "httpapi.writeSuccess")
	defer span.End()

	writeJSON(ctx, w, status, data)
}

// writeNoContent responds 204 with no body, for logout/cancel/delete.
func writeNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	mapped := mapError(err)
	requestID := requestIDFromContext(ctx)

	logging.Default().ErrorContext(ctx, "api error response",
		"event", "api_error",
		"error_code", mapped.Code,
		"http_status", mapped.HTTPStatus,
		"request_id", requestID,
		"internal_message", err.Error(),
	)

	span.RecordError(err)
	span.SetStatus(codes.Error, mapped.Code)
	span.SetAttributes(
		attribute.Int("error.http_status", mapped.HTTPStatus),
		attribute.String("error.code", mapped.Code),
		attribute.String("error.request_id", requestID),
	)

	if mapped.HTTPStatus == http.StatusTooManyRequests {
		w.Header().Set("Retry-After", "1")
	}

	writeJSON(ctx, w, mapped.HTTPStatus, errorEnvelope{
		Error: errorBody{
			Code:      mapped.Code,
			Message:   mapped.Message,
			RequestID: requestID,
		},
	})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	ctx, span := startSpan(ctx, "httpapi.writeInternalError")
	defer span.End()

	writeJSON(ctx, w, http.StatusInternalServerError, errorEnvelope{
		Error: errorBody{
			Code:      CodeInternal,
			Message:   "internal server error",
			RequestID: requestIDFromContext(ctx),
		},
	})
}

// mapError maps a usecase sentinel error to the stable HTTP shape from the
// error taxonomy. More specific sentinels (invalid credentials, invite
// lifecycle) are checked before the generic ones they wrap.
func mapError(err error) mappedError {
	switch {
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return mappedError{http.StatusUnauthorized, CodeInvalidCredentials, "invalid username or password"}
	case errors.Is(err, usecase.ErrRateLimited):
		return mappedError{http.StatusTooManyRequests, CodeRateLimited, "too many requests"}
	case errors.Is(err, usecase.ErrUnknownEntity):
		return mappedError{http.StatusBadRequest, CodeUnknownEntity, "referenced entity is unknown"}
	case errors.Is(err, usecase.ErrInviteExpired):
		return mappedError{http.StatusGone, CodeInviteExpired, "invite has expired"}
	case errors.Is(err, usecase.ErrInviteExhausted):
		return mappedError{http.StatusConflict, CodeInviteExhausted, "invite has no uses remaining"}
	case errors.Is(err, usecase.ErrInviteUnavailable):
		return mappedError{http.StatusConflict, CodeInviteUnavailable, "invite is unavailable"}
	case errors.Is(err, usecase.ErrGone):
		return mappedError{http.StatusGone, CodeGone, "resource is gone"}
	case errors.Is(err, usecase.ErrForbidden):
		return mappedError{http.StatusForbidden, CodeForbidden, "forbidden"}
	case errors.Is(err, usecase.ErrUnauthorized):
		return mappedError{http.StatusUnauthorized, CodeUnauthenticated, "unauthenticated"}
	case errors.Is(err, usecase.ErrNotFound):
		return mappedError{http.StatusNotFound, CodeNotFound, "resource not found"}
	case errors.Is(err, usecase.ErrConflict):
		return mappedError{http.StatusConflict, CodeConflict, "conflict"}
	case errors.Is(err, usecase.ErrInvariantViolation):
		return mappedError{http.StatusUnprocessableEntity, CodeInvariantViolation, "request violates an invariant"}
	case errors.Is(err, usecase.ErrInvalidInput):
		return mappedError{http.StatusBadRequest, CodeInvalidInput, "invalid request"}
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return mappedError{http.StatusServiceUnavailable, CodeDependencyUnavailable, "dependency unavailable"}
	default:
		return mappedError{http.StatusInternalServerError, CodeInternal, "internal server error"}
	}
}
