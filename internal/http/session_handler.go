package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/talent-matching/internal/matching"
)

var errInvalidRole = errors.New(`role must be "candidate" or "company"`)

type sessionService interface {
	AuthenticateCandidate(email, secret string) (matching.Candidate, error)
	AuthenticateCompany(email, secret string) (matching.Company, error)
}

// SessionHandler verifies candidate and company credentials.
type SessionHandler struct {
	service   sessionService
	responder responder
	logger    *slog.Logger
}

func NewSessionHandler(service sessionService, logger *slog.Logger) *SessionHandler {
	base := defaultLogger(logger)
	return &SessionHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *SessionHandler) log(r *http.Request, operation string, attrs ...any) *slog.Logger {
	return requestLogger(r, h.logger, "SessionHandler", operation, attrs...)
}

// Create handles POST /sessions.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeBadRequest(r.Context(), w, errBadRequestBody)
		return
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	logger := h.log(r, "Create", "role", role)

	var (
		resp sessionResponse
		err  error
	)
	switch role {
	case "candidate":
		var c matching.Candidate
		if c, err = h.service.AuthenticateCandidate(req.Email, req.Secret); err == nil {
			resp = sessionResponse{Role: role, ID: c.ID, Name: c.FullName()}
		}
	case "company":
		var c matching.Company
		if c, err = h.service.AuthenticateCompany(req.Email, req.Secret); err == nil {
			resp = sessionResponse{Role: role, ID: c.ID, Name: c.Name}
		}
	default:
		h.responder.writeBadRequest(r.Context(), w, errInvalidRole)
		return
	}
	if err != nil {
		logger.InfoContext(r.Context(), "authentication failed", "result", matching.ResultOf(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "authenticated", "principal_id", resp.ID)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resp)
}

type sessionRequest struct {
	Role   string `json:"role"`
	Email  string `json:"email"`
	Secret string `json:"secret"`
}

type sessionResponse struct {
	Role string `json:"role"`
	ID   string `json:"id"`
	Name string `json:"name"`
}
