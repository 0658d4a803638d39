package matching

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"
)

// Recommendation is one ranked offer with its score.
type Recommendation struct {
	Offer Offer
	Score float64
}

// Ranker produces per-candidate offer rankings. It reads state only and recomputes
// every score on each call.
type Ranker struct {
	registry     *Registry
	applications *Applications
	scorer       *Scorer
	now          func() time.Time
	logger       *slog.Logger
}

// NewRanker constructs a ranker over the registry and application state.
func NewRanker(registry *Registry, applications *Applications, scorer *Scorer, now func() time.Time, logger *slog.Logger) *Ranker {
	if now == nil {
		now = time.Now
	}
	return &Ranker{
		registry:     registry,
		applications: applications,
		scorer:       scorer,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

// Recommend returns at most n offers the candidate has not applied to and that have not
// expired, by descending score. Ties keep publication order. n <= 0 yields an empty list.
func (r *Ranker) Recommend(ctx context.Context, candidateID string, n int) ([]Recommendation, error) {
	logger := serviceLogger(ctx, r.logger, "Ranker", "Recommend", "candidate_id", candidateID, "limit", n)

	candidate, ok := r.registry.Candidate(candidateID)
	if !ok {
		return nil, fmt.Errorf("candidate %s: %w", candidateID, ErrNotFound)
	}
	if n <= 0 {
		return []Recommendation{}, nil
	}

	now := r.now()
	offers := r.registry.Offers()
	ranked := make([]Recommendation, 0, len(offers))
	for _, offer := range offers {
		if offer.IsExpired(now) || r.applications.HasApplied(candidateID, offer.ID) {
			continue
		}
		company, _ := r.registry.Company(offer.CompanyID)
		score := r.scorer.Score(ScoreInput{
			Candidate:  candidate,
			Offer:      offer,
			Company:    company,
			Applicants: r.applications.ApplicantCount(offer.ID),
			Now:        now,
		})
		ranked = append(ranked, Recommendation{Offer: offer, Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	logger.DebugContext(ctx, "recommendations computed", "considered", len(offers), "returned", len(ranked))
	return ranked, nil
}

// Explain returns the score breakdown of one candidate/offer pair.
func (r *Ranker) Explain(candidateID, offerID string) (Breakdown, error) {
	candidate, ok := r.registry.Candidate(candidateID)
	if !ok {
		return Breakdown{}, fmt.Errorf("candidate %s: %w", candidateID, ErrNotFound)
	}
	offer, ok := r.registry.Offer(offerID)
	if !ok {
		return Breakdown{}, fmt.Errorf("offer %s: %w", offerID, ErrNotFound)
	}
	company, _ := r.registry.Company(offer.CompanyID)
	return r.scorer.Explain(ScoreInput{
		Candidate:  candidate,
		Offer:      offer,
		Company:    company,
		Applicants: r.applications.ApplicantCount(offer.ID),
		Now:        r.now(),
	}), nil
}
