package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/example/talent-matching/internal/matching"
)

var (
	errBadRequestBody = errors.New("request body is malformed")
	errInvalidCount   = errors.New("n must be a non-negative integer")
	errInvalidDate    = errors.New("expires_at must be a date formatted as YYYY-MM-DD")
	errInvalidType    = errors.New("type must be internship, apprenticeship or thesis")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	return responder{logger: defaultLogger(logger)}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeBadRequest reports a malformed request that never reached the engine.
func (r responder) writeBadRequest(ctx context.Context, w http.ResponseWriter, err error) {
	r.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{
		Result:  string(matching.ResultValidation),
		Message: err.Error(),
	})
}

// handleServiceError maps an engine error to its status code and result label.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	result := matching.ResultOf(err)
	status := statusFor(result)

	body := errorResponse{Result: string(result), Message: messageFor(result)}
	var vErr *matching.ValidationError
	if errors.As(err, &vErr) {
		body.Errors = vErr.FieldErrors
	}
	if status == http.StatusInternalServerError {
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}
	r.writeJSON(ctx, w, status, body)
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func statusFor(result matching.Result) int {
	switch result {
	case matching.ResultOK:
		return http.StatusOK
	case matching.ResultAlreadyApplied, matching.ResultNotApplied, matching.ResultAlreadyWishlisted,
		matching.ResultNotWishlisted, matching.ResultAlreadyExists:
		return http.StatusConflict
	case matching.ResultExpired:
		return http.StatusGone
	case matching.ResultNotFound:
		return http.StatusNotFound
	case matching.ResultNotOwner:
		return http.StatusForbidden
	case matching.ResultInvalidCredential:
		return http.StatusUnauthorized
	case matching.ResultValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(result matching.Result) string {
	switch result {
	case matching.ResultAlreadyApplied:
		return "the candidate has already applied to this offer"
	case matching.ResultExpired:
		return "the offer has expired"
	case matching.ResultNotFound:
		return "the requested resource does not exist"
	case matching.ResultNotApplied:
		return "the candidate has not applied to this offer"
	case matching.ResultNotOwner:
		return "the offer belongs to another company"
	case matching.ResultAlreadyWishlisted:
		return "the candidate is already in the wishlist"
	case matching.ResultNotWishlisted:
		return "the candidate is not in the wishlist"
	case matching.ResultAlreadyExists:
		return "a record with this identifier or email already exists"
	case matching.ResultInvalidCredential:
		return "email or secret is incorrect"
	case matching.ResultValidation:
		return "the request contains invalid values"
	default:
		return "an internal error occurred"
	}
}

type errorResponse struct {
	Result  string            `json:"result"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}
