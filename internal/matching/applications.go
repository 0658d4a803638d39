package matching

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"
)

// ApplicationLink is one candidate→offer application, used for persistence round trips.
type ApplicationLink struct {
	CandidateID string
	OfferID     string
}

// Applications maintains the bidirectional link between candidates and offers. The two
// index sets are only mutated here, so offer ∈ appliedOffers(candidate) holds exactly
// when candidate ∈ applicants(offer).
type Applications struct {
	registry    *Registry
	byCandidate map[string]*idSet
	byOffer     map[string]*idSet
	// sequence numbers each live application in the order it was made.
	sequence map[ApplicationLink]uint64
	next     uint64
	now      func() time.Time
	logger   *slog.Logger
}

// NewApplications constructs an application manager over the registry.
func NewApplications(registry *Registry, now func() time.Time, logger *slog.Logger) *Applications {
	if now == nil {
		now = time.Now
	}
	return &Applications{
		registry:    registry,
		byCandidate: make(map[string]*idSet),
		byOffer:     make(map[string]*idSet),
		sequence:    make(map[ApplicationLink]uint64),
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (a *Applications) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, a.logger, "Applications", operation, attrs...)
}

// Apply links the candidate and the offer. It fails with ErrNotFound for unknown
// identifiers, ErrOfferExpired for expired offers, and ErrAlreadyApplied when the link
// already exists; in every failure case state is unchanged.
func (a *Applications) Apply(ctx context.Context, candidateID, offerID string) (err error) {
	logger := a.loggerWith(ctx, "Apply", "candidate_id", candidateID, "offer_id", offerID)
	defer func() { logOutcome(ctx, logger, "application", err) }()

	if _, ok := a.registry.Candidate(candidateID); !ok {
		return fmt.Errorf("candidate %s: %w", candidateID, ErrNotFound)
	}
	offer, ok := a.registry.Offer(offerID)
	if !ok {
		return fmt.Errorf("offer %s: %w", offerID, ErrNotFound)
	}
	if offer.IsExpired(a.now()) {
		return fmt.Errorf("offer %s: %w", offerID, ErrOfferExpired)
	}
	if a.HasApplied(candidateID, offerID) {
		return fmt.Errorf("candidate %s on offer %s: %w", candidateID, offerID, ErrAlreadyApplied)
	}

	a.link(candidateID, offerID)
	return nil
}

// Withdraw removes the link from both sides.
func (a *Applications) Withdraw(ctx context.Context, candidateID, offerID string) (err error) {
	logger := a.loggerWith(ctx, "Withdraw", "candidate_id", candidateID, "offer_id", offerID)
	defer func() { logOutcome(ctx, logger, "withdrawal", err) }()

	if _, ok := a.registry.Candidate(candidateID); !ok {
		return fmt.Errorf("candidate %s: %w", candidateID, ErrNotFound)
	}
	if _, ok := a.registry.Offer(offerID); !ok {
		return fmt.Errorf("offer %s: %w", offerID, ErrNotFound)
	}
	if !a.unlink(candidateID, offerID) {
		return fmt.Errorf("candidate %s on offer %s: %w", candidateID, offerID, ErrNotApplied)
	}
	return nil
}

// RemoveOffer deletes an offer on behalf of its owner. Every applicant loses the offer
// from their applications before the offer leaves the owner's list and the registry.
func (a *Applications) RemoveOffer(ctx context.Context, offerID, companyID string) (err error) {
	logger := a.loggerWith(ctx, "RemoveOffer", "offer_id", offerID, "company_id", companyID)
	defer func() { logOutcome(ctx, logger, "offer removal", err) }()

	offer, err := a.ownedOffer(offerID, companyID)
	if err != nil {
		return err
	}

	applicants := a.byOffer[offer.ID].ids()
	for _, candidateID := range applicants {
		a.unlink(candidateID, offer.ID)
	}
	delete(a.byOffer, offer.ID)
	a.registry.deleteOffer(offer.ID)

	logger.DebugContext(ctx, "applications cascaded", "applicant_count", len(applicants))
	return nil
}

// RejectApplication lets the owning company drop one candidate's application.
func (a *Applications) RejectApplication(ctx context.Context, companyID, offerID, candidateID string) (err error) {
	logger := a.loggerWith(ctx, "RejectApplication", "company_id", companyID, "offer_id", offerID, "candidate_id", candidateID)
	defer func() { logOutcome(ctx, logger, "application rejection", err) }()

	if _, err := a.ownedOffer(offerID, companyID); err != nil {
		return err
	}
	if _, ok := a.registry.Candidate(candidateID); !ok {
		return fmt.Errorf("candidate %s: %w", candidateID, ErrNotFound)
	}
	if !a.unlink(candidateID, offerID) {
		return fmt.Errorf("candidate %s on offer %s: %w", candidateID, offerID, ErrNotApplied)
	}
	return nil
}

// CountActiveApplications counts the candidate's applications to offers that have not expired.
func (a *Applications) CountActiveApplications(candidateID string) (int, error) {
	if _, ok := a.registry.Candidate(candidateID); !ok {
		return 0, fmt.Errorf("candidate %s: %w", candidateID, ErrNotFound)
	}
	now := a.now()
	count := 0
	for _, offerID := range a.byCandidate[candidateID].ids() {
		offer, ok := a.registry.Offer(offerID)
		if ok && !offer.IsExpired(now) {
			count++
		}
	}
	return count, nil
}

// HasApplied reports whether the candidate holds an application to the offer.
func (a *Applications) HasApplied(candidateID, offerID string) bool {
	return a.byCandidate[candidateID].has(offerID)
}

// ApplicantCount returns the number of candidates who applied to the offer.
func (a *Applications) ApplicantCount(offerID string) int {
	return a.byOffer[offerID].len()
}

// AppliedOffers lists the offers the candidate applied to, in application order.
func (a *Applications) AppliedOffers(candidateID string) ([]Offer, error) {
	if _, ok := a.registry.Candidate(candidateID); !ok {
		return nil, fmt.Errorf("candidate %s: %w", candidateID, ErrNotFound)
	}
	ids := a.byCandidate[candidateID].ids()
	out := make([]Offer, 0, len(ids))
	for _, id := range ids {
		if offer, ok := a.registry.Offer(id); ok {
			out = append(out, offer)
		}
	}
	return out, nil
}

// Applicants lists the candidates who applied to the offer, in application order.
func (a *Applications) Applicants(offerID string) ([]Candidate, error) {
	if _, ok := a.registry.Offer(offerID); !ok {
		return nil, fmt.Errorf("offer %s: %w", offerID, ErrNotFound)
	}
	ids := a.byOffer[offerID].ids()
	out := make([]Candidate, 0, len(ids))
	for _, id := range ids {
		if c, ok := a.registry.Candidate(id); ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// Links returns every application in the order the applications were made. Restoring
// them in that order rebuilds both the per-candidate and the per-offer order.
func (a *Applications) Links() []ApplicationLink {
	links := make([]ApplicationLink, 0, len(a.sequence))
	for l := range a.sequence {
		links = append(links, l)
	}
	slices.SortFunc(links, func(x, y ApplicationLink) int {
		return cmp.Compare(a.sequence[x], a.sequence[y])
	})
	return links
}

// Restore relinks persisted applications in the given order. Expiration is not
// checked: an application made while the offer was open stays valid after it expires.
func (a *Applications) Restore(links []ApplicationLink) error {
	for _, l := range links {
		if _, ok := a.registry.Candidate(l.CandidateID); !ok {
			return fmt.Errorf("restore application: candidate %s: %w", l.CandidateID, ErrNotFound)
		}
		if _, ok := a.registry.Offer(l.OfferID); !ok {
			return fmt.Errorf("restore application: offer %s: %w", l.OfferID, ErrNotFound)
		}
		a.link(l.CandidateID, l.OfferID)
	}
	return nil
}

func (a *Applications) ownedOffer(offerID, companyID string) (Offer, error) {
	if _, ok := a.registry.Company(companyID); !ok {
		return Offer{}, fmt.Errorf("company %s: %w", companyID, ErrNotFound)
	}
	offer, ok := a.registry.Offer(offerID)
	if !ok {
		return Offer{}, fmt.Errorf("offer %s: %w", offerID, ErrNotFound)
	}
	if offer.CompanyID != companyID {
		return Offer{}, fmt.Errorf("offer %s not published by %s: %w", offerID, companyID, ErrNotOwner)
	}
	return offer, nil
}

func (a *Applications) link(candidateID, offerID string) {
	offers, ok := a.byCandidate[candidateID]
	if !ok {
		offers = newIDSet()
		a.byCandidate[candidateID] = offers
	}
	applicants, ok := a.byOffer[offerID]
	if !ok {
		applicants = newIDSet()
		a.byOffer[offerID] = applicants
	}
	if offers.add(offerID) {
		a.sequence[ApplicationLink{CandidateID: candidateID, OfferID: offerID}] = a.next
		a.next++
	}
	applicants.add(candidateID)
}

func (a *Applications) unlink(candidateID, offerID string) bool {
	if !a.byCandidate[candidateID].remove(offerID) {
		return false
	}
	a.byOffer[offerID].remove(candidateID)
	delete(a.sequence, ApplicationLink{CandidateID: candidateID, OfferID: offerID})
	return true
}
