package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/talent-matching/internal/matching"
)

type offerService interface {
	Now() time.Time
	Offer(id string) (matching.Offer, bool)
	PublishOffer(ctx context.Context, params matching.PublishOfferParams) (matching.Offer, error)
	SetOfferExpiration(ctx context.Context, companyID, offerID string, date time.Time) error
	RemoveOffer(ctx context.Context, offerID, companyID string) error
	RejectApplication(ctx context.Context, companyID, offerID, candidateID string) error
	Applicants(offerID string) ([]matching.Candidate, error)
	AvailableOffers() []matching.Offer
	SearchOffers(criterion matching.SearchCriterion, value string) ([]matching.Offer, error)
	CompanyOffers(companyID string) ([]matching.Offer, error)
	ActiveOfferCount(companyID string) (int, error)
	Stats() matching.OfferStats
}

// OfferHandler serves the offer catalog and company-side offer management.
type OfferHandler struct {
	service   offerService
	responder responder
	logger    *slog.Logger
}

func NewOfferHandler(service offerService, logger *slog.Logger) *OfferHandler {
	base := defaultLogger(logger)
	return &OfferHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *OfferHandler) log(r *http.Request, operation string, attrs ...any) *slog.Logger {
	return requestLogger(r, h.logger, "OfferHandler", operation, attrs...)
}

// List handles GET /offers. With criterion and q it searches, otherwise it lists the
// offers still open.
func (h *OfferHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	value := query.Get("q")
	label := strings.TrimSpace(query.Get("criterion"))

	if label == "" && value == "" {
		h.responder.writeJSON(r.Context(), w, http.StatusOK, offersResponse{
			Offers: toOfferDTOs(h.service.AvailableOffers(), h.service.Now()),
		})
		return
	}

	criterion := matching.SearchAll
	if label != "" {
		parsed, ok := matching.ParseSearchCriterion(label)
		if !ok {
			h.responder.writeBadRequest(r.Context(), w, fmt.Errorf("unknown search criterion %q", label))
			return
		}
		criterion = parsed
	}
	offers, err := h.service.SearchOffers(criterion, value)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, offersResponse{Offers: toOfferDTOs(offers, h.service.Now())})
}

// Get handles GET /offers/{offerID}.
func (h *OfferHandler) Get(w http.ResponseWriter, r *http.Request) {
	offer, ok := h.service.Offer(r.PathValue("offerID"))
	if !ok {
		h.responder.handleServiceError(r.Context(), w, matching.ErrNotFound)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toOfferDTO(offer, h.service.Now()))
}

// Applicants handles GET /offers/{offerID}/applicants.
func (h *OfferHandler) Applicants(w http.ResponseWriter, r *http.Request) {
	applicants, err := h.service.Applicants(r.PathValue("offerID"))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, candidatesResponse{Candidates: toCandidateDTOs(applicants)})
}

// Stats handles GET /stats.
func (h *OfferHandler) Stats(w http.ResponseWriter, r *http.Request) {
	h.responder.writeJSON(r.Context(), w, http.StatusOK, h.service.Stats())
}

// Publish handles POST /companies/{companyID}/offers.
func (h *OfferHandler) Publish(w http.ResponseWriter, r *http.Request) {
	companyID := r.PathValue("companyID")

	var req publishOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r, "Publish", "error_kind", "bad_request").
			InfoContext(r.Context(), "failed to decode offer request", "error", err)
		h.responder.writeBadRequest(r.Context(), w, errBadRequestBody)
		return
	}
	params, err := req.toParams(companyID)
	if err != nil {
		h.responder.writeBadRequest(r.Context(), w, err)
		return
	}

	offer, err := h.service.PublishOffer(r.Context(), params)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toOfferDTO(offer, h.service.Now()))
}

// CompanyOffers handles GET /companies/{companyID}/offers.
func (h *OfferHandler) CompanyOffers(w http.ResponseWriter, r *http.Request) {
	companyID := r.PathValue("companyID")
	offers, err := h.service.CompanyOffers(companyID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	active, err := h.service.ActiveOfferCount(companyID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, companyOffersResponse{
		Offers: toOfferDTOs(offers, h.service.Now()),
		Active: active,
	})
}

// SetExpiration handles PUT /companies/{companyID}/offers/{offerID}/expiration.
func (h *OfferHandler) SetExpiration(w http.ResponseWriter, r *http.Request) {
	companyID, offerID := r.PathValue("companyID"), r.PathValue("offerID")

	var req expirationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeBadRequest(r.Context(), w, errBadRequestBody)
		return
	}
	date, err := time.Parse(dateLayout, strings.TrimSpace(req.ExpiresAt))
	if err != nil {
		h.responder.writeBadRequest(r.Context(), w, errInvalidDate)
		return
	}

	if err := h.service.SetOfferExpiration(r.Context(), companyID, offerID, date); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	offer, _ := h.service.Offer(offerID)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toOfferDTO(offer, h.service.Now()))
}

// Remove handles DELETE /companies/{companyID}/offers/{offerID}. Every application to
// the offer is removed with it.
func (h *OfferHandler) Remove(w http.ResponseWriter, r *http.Request) {
	companyID, offerID := r.PathValue("companyID"), r.PathValue("offerID")
	logger := h.log(r, "Remove")

	if err := h.service.RemoveOffer(r.Context(), offerID, companyID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	logger.InfoContext(r.Context(), "offer removed")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// Reject handles DELETE /companies/{companyID}/offers/{offerID}/applicants/{candidateID}.
func (h *OfferHandler) Reject(w http.ResponseWriter, r *http.Request) {
	companyID, offerID, candidateID := r.PathValue("companyID"), r.PathValue("offerID"), r.PathValue("candidateID")

	if err := h.service.RejectApplication(r.Context(), companyID, offerID, candidateID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type publishOfferRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Type           string `json:"type"`
	ExpiresAt      string `json:"expires_at"`
	DurationMonths int    `json:"duration_months"`
	Domain         string `json:"domain"`
	Rhythm         string `json:"rhythm"`
	Subject        string `json:"subject"`
	Technologies   string `json:"technologies"`
}

func (req publishOfferRequest) toParams(companyID string) (matching.PublishOfferParams, error) {
	params := matching.PublishOfferParams{
		CompanyID:   companyID,
		Title:       req.Title,
		Description: req.Description,
	}

	offerType, ok := matching.ParseOfferType(req.Type)
	if !ok {
		return params, errInvalidType
	}
	switch offerType {
	case matching.OfferInternship:
		params.Details = matching.InternshipDetails{DurationMonths: req.DurationMonths, Domain: strings.TrimSpace(req.Domain)}
	case matching.OfferApprenticeship:
		params.Details = matching.ApprenticeshipDetails{DurationMonths: req.DurationMonths, Rhythm: strings.TrimSpace(req.Rhythm)}
	case matching.OfferThesis:
		params.Details = matching.ThesisDetails{Subject: strings.TrimSpace(req.Subject), Technologies: strings.TrimSpace(req.Technologies)}
	}

	if raw := strings.TrimSpace(req.ExpiresAt); raw != "" {
		date, err := time.Parse(dateLayout, raw)
		if err != nil {
			return params, errInvalidDate
		}
		params.ExpiresAt = &date
	}
	return params, nil
}

type expirationRequest struct {
	ExpiresAt string `json:"expires_at"`
}

type offersResponse struct {
	Offers []offerDTO `json:"offers"`
}

type companyOffersResponse struct {
	Offers []offerDTO `json:"offers"`
	Active int        `json:"active"`
}

type candidatesResponse struct {
	Candidates []candidateDTO `json:"candidates"`
}
