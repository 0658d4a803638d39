package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/talent-matching/internal/matching"
)

type candidateService interface {
	Now() time.Time
	Apply(ctx context.Context, candidateID, offerID string) error
	Withdraw(ctx context.Context, candidateID, offerID string) error
	AppliedOffers(candidateID string) ([]matching.Offer, error)
	CountActiveApplications(candidateID string) (int, error)
	Recommend(ctx context.Context, candidateID string, n int) ([]matching.Recommendation, error)
	Explain(candidateID, offerID string) (matching.Breakdown, error)
}

// CandidateHandler serves a candidate's applications and recommendations.
type CandidateHandler struct {
	service                candidateService
	defaultRecommendations int
	responder              responder
	logger                 *slog.Logger
}

// NewCandidateHandler builds the handler. defaultRecommendations applies when the
// request carries no n parameter.
func NewCandidateHandler(service candidateService, defaultRecommendations int, logger *slog.Logger) *CandidateHandler {
	base := defaultLogger(logger)
	if defaultRecommendations <= 0 {
		defaultRecommendations = 5
	}
	return &CandidateHandler{
		service:                service,
		defaultRecommendations: defaultRecommendations,
		responder:              newResponder(base),
		logger:                 base,
	}
}

func (h *CandidateHandler) log(r *http.Request, operation string, attrs ...any) *slog.Logger {
	return requestLogger(r, h.logger, "CandidateHandler", operation, attrs...)
}

// Apply handles POST /candidates/{candidateID}/applications/{offerID}.
func (h *CandidateHandler) Apply(w http.ResponseWriter, r *http.Request) {
	candidateID, offerID := r.PathValue("candidateID"), r.PathValue("offerID")
	logger := h.log(r, "Apply")

	if err := h.service.Apply(r.Context(), candidateID, offerID); err != nil {
		logger.InfoContext(r.Context(), "application refused", "result", matching.ResultOf(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, applicationResponse{
		CandidateID: candidateID,
		OfferID:     offerID,
		Result:      string(matching.ResultOK),
	})
}

// Withdraw handles DELETE /candidates/{candidateID}/applications/{offerID}.
func (h *CandidateHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	candidateID, offerID := r.PathValue("candidateID"), r.PathValue("offerID")
	logger := h.log(r, "Withdraw")

	if err := h.service.Withdraw(r.Context(), candidateID, offerID); err != nil {
		logger.InfoContext(r.Context(), "withdrawal refused", "result", matching.ResultOf(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// Applications handles GET /candidates/{candidateID}/applications.
func (h *CandidateHandler) Applications(w http.ResponseWriter, r *http.Request) {
	candidateID := r.PathValue("candidateID")

	offers, err := h.service.AppliedOffers(candidateID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	active, err := h.service.CountActiveApplications(candidateID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, applicationsResponse{
		Offers: toOfferDTOs(offers, h.service.Now()),
		Active: active,
	})
}

// Recommendations handles GET /candidates/{candidateID}/recommendations?n=.
func (h *CandidateHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	candidateID := r.PathValue("candidateID")

	n := h.defaultRecommendations
	if raw := strings.TrimSpace(r.URL.Query().Get("n")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.responder.writeBadRequest(r.Context(), w, errInvalidCount)
			return
		}
		n = parsed
	}

	recs, err := h.service.Recommend(r.Context(), candidateID, n)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.log(r, "Recommendations").
		DebugContext(r.Context(), "recommendations served", "result_count", len(recs))
	h.responder.writeJSON(r.Context(), w, http.StatusOK, recommendationsResponse{Recommendations: toRecommendationDTOs(recs)})
}

// Explain handles GET /candidates/{candidateID}/recommendations/{offerID}.
func (h *CandidateHandler) Explain(w http.ResponseWriter, r *http.Request) {
	breakdown, err := h.service.Explain(r.PathValue("candidateID"), r.PathValue("offerID"))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toBreakdownDTO(breakdown))
}

type applicationResponse struct {
	CandidateID string `json:"candidate_id"`
	OfferID     string `json:"offer_id"`
	Result      string `json:"result"`
}

type applicationsResponse struct {
	Offers []offerDTO `json:"offers"`
	Active int        `json:"active"`
}

type recommendationsResponse struct {
	Recommendations []recommendationDTO `json:"recommendations"`
}
