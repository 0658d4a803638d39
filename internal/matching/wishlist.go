package matching

import (
	"context"
	"fmt"
	"log/slog"
)

// WishlistEntry is one candidate saved by a company, used for persistence round trips.
type WishlistEntry struct {
	CompanyID   string
	CandidateID string
}

// Wishlists keeps each company's ordered list of favorite candidates. It is independent
// of applications: wish-listing never requires or creates an application.
type Wishlists struct {
	registry *Registry
	lists    map[string]*idSet
	logger   *slog.Logger
}

// NewWishlists constructs a wishlist manager over the registry.
func NewWishlists(registry *Registry, logger *slog.Logger) *Wishlists {
	return &Wishlists{
		registry: registry,
		lists:    make(map[string]*idSet),
		logger:   defaultLogger(logger),
	}
}

// Add appends the candidate to the company wishlist unless already present.
func (w *Wishlists) Add(ctx context.Context, companyID, candidateID string) (err error) {
	logger := serviceLogger(ctx, w.logger, "Wishlists", "Add", "company_id", companyID, "candidate_id", candidateID)
	defer func() { logOutcome(ctx, logger, "wishlist add", err) }()

	if _, ok := w.registry.Company(companyID); !ok {
		return fmt.Errorf("company %s: %w", companyID, ErrNotFound)
	}
	if _, ok := w.registry.Candidate(candidateID); !ok {
		return fmt.Errorf("candidate %s: %w", candidateID, ErrNotFound)
	}

	list, ok := w.lists[companyID]
	if !ok {
		list = newIDSet()
		w.lists[companyID] = list
	}
	if !list.add(candidateID) {
		return fmt.Errorf("candidate %s for company %s: %w", candidateID, companyID, ErrAlreadyWishlisted)
	}
	return nil
}

// Remove drops the candidate from the company wishlist.
func (w *Wishlists) Remove(ctx context.Context, companyID, candidateID string) (err error) {
	logger := serviceLogger(ctx, w.logger, "Wishlists", "Remove", "company_id", companyID, "candidate_id", candidateID)
	defer func() { logOutcome(ctx, logger, "wishlist remove", err) }()

	if _, ok := w.registry.Company(companyID); !ok {
		return fmt.Errorf("company %s: %w", companyID, ErrNotFound)
	}
	if !w.lists[companyID].remove(candidateID) {
		return fmt.Errorf("candidate %s for company %s: %w", candidateID, companyID, ErrNotWishlisted)
	}
	return nil
}

// Contains reports whether the candidate is on the company wishlist.
func (w *Wishlists) Contains(companyID, candidateID string) bool {
	return w.lists[companyID].has(candidateID)
}

// Find returns the wish-listed candidate, or ErrNotWishlisted when absent.
func (w *Wishlists) Find(companyID, candidateID string) (Candidate, error) {
	if _, ok := w.registry.Company(companyID); !ok {
		return Candidate{}, fmt.Errorf("company %s: %w", companyID, ErrNotFound)
	}
	if !w.Contains(companyID, candidateID) {
		return Candidate{}, fmt.Errorf("candidate %s for company %s: %w", candidateID, companyID, ErrNotWishlisted)
	}
	c, ok := w.registry.Candidate(candidateID)
	if !ok {
		return Candidate{}, fmt.Errorf("candidate %s: %w", candidateID, ErrNotFound)
	}
	return c, nil
}

// List returns the company wishlist in insertion order.
func (w *Wishlists) List(companyID string) ([]Candidate, error) {
	if _, ok := w.registry.Company(companyID); !ok {
		return nil, fmt.Errorf("company %s: %w", companyID, ErrNotFound)
	}
	ids := w.lists[companyID].ids()
	out := make([]Candidate, 0, len(ids))
	for _, id := range ids {
		if c, ok := w.registry.Candidate(id); ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// Entries returns every wishlist entry grouped by company in registration order.
func (w *Wishlists) Entries() []WishlistEntry {
	var entries []WishlistEntry
	for _, company := range w.registry.Companies() {
		for _, candidateID := range w.lists[company.ID].ids() {
			entries = append(entries, WishlistEntry{CompanyID: company.ID, CandidateID: candidateID})
		}
	}
	return entries
}

// Restore reloads persisted entries; duplicates collapse silently.
func (w *Wishlists) Restore(entries []WishlistEntry) error {
	for _, e := range entries {
		if _, ok := w.registry.Company(e.CompanyID); !ok {
			return fmt.Errorf("restore wishlist: company %s: %w", e.CompanyID, ErrNotFound)
		}
		if _, ok := w.registry.Candidate(e.CandidateID); !ok {
			return fmt.Errorf("restore wishlist: candidate %s: %w", e.CandidateID, ErrNotFound)
		}
		list, ok := w.lists[e.CompanyID]
		if !ok {
			list = newIDSet()
			w.lists[e.CompanyID] = list
		}
		list.add(e.CandidateID)
	}
	return nil
}
