package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/example/talent-matching/internal/matching"
)

type wishlistService interface {
	AddToWishlist(ctx context.Context, companyID, candidateID string) error
	RemoveFromWishlist(ctx context.Context, companyID, candidateID string) error
	Wishlist(companyID string) ([]matching.Candidate, error)
	FindInWishlist(companyID, candidateID string) (matching.Candidate, error)
}

// WishlistHandler serves a company's saved candidates.
type WishlistHandler struct {
	service   wishlistService
	responder responder
	logger    *slog.Logger
}

func NewWishlistHandler(service wishlistService, logger *slog.Logger) *WishlistHandler {
	base := defaultLogger(logger)
	return &WishlistHandler{service: service, responder: newResponder(base), logger: base}
}

// Add handles POST /companies/{companyID}/wishlist/{candidateID}.
func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	companyID, candidateID := r.PathValue("companyID"), r.PathValue("candidateID")
	if err := h.service.AddToWishlist(r.Context(), companyID, candidateID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	candidate, err := h.service.FindInWishlist(companyID, candidateID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toCandidateDTO(candidate))
}

// Remove handles DELETE /companies/{companyID}/wishlist/{candidateID}.
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RemoveFromWishlist(r.Context(), r.PathValue("companyID"), r.PathValue("candidateID")); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// Find handles GET /companies/{companyID}/wishlist/{candidateID}.
func (h *WishlistHandler) Find(w http.ResponseWriter, r *http.Request) {
	candidate, err := h.service.FindInWishlist(r.PathValue("companyID"), r.PathValue("candidateID"))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toCandidateDTO(candidate))
}

// List handles GET /companies/{companyID}/wishlist.
func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	companyID := r.PathValue("companyID")
	candidates, err := h.service.Wishlist(companyID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	requestLogger(r, h.logger, "WishlistHandler", "List").
		DebugContext(r.Context(), "wishlist listed", "result_count", len(candidates))
	h.responder.writeJSON(r.Context(), w, http.StatusOK, candidatesResponse{Candidates: toCandidateDTOs(candidates)})
}
