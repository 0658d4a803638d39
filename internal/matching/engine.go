package matching

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	now         func() time.Time
	idGenerator func() string
	logger      *slog.Logger
	scoring     ScoringConfig
}

// WithClock injects the current-date source used for expiration and recency.
func WithClock(now func() time.Time) Option {
	return func(o *engineOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDGenerator injects the offer identifier source.
func WithIDGenerator(next func() string) Option {
	return func(o *engineOptions) {
		if next != nil {
			o.idGenerator = next
		}
	}
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *engineOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithScoringConfig replaces the default scoring constants.
func WithScoringConfig(config ScoringConfig) Option {
	return func(o *engineOptions) {
		o.scoring = config
	}
}

// Engine wires the registry and managers together and serializes every public
// operation with a single mutex, so it can be shared by concurrent request handlers.
type Engine struct {
	mu sync.Mutex

	registry     *Registry
	applications *Applications
	wishlists    *Wishlists
	catalog      *Catalog
	ranker       *Ranker
	now          func() time.Time
	logger       *slog.Logger
}

// NewEngine builds an empty engine.
func NewEngine(opts ...Option) (*Engine, error) {
	options := engineOptions{
		now:         time.Now,
		idGenerator: NewToken,
		logger:      slog.Default(),
		scoring:     DefaultScoringConfig(),
	}
	for _, opt := range opts {
		opt(&options)
	}

	scorer, err := NewScorer(options.scoring)
	if err != nil {
		return nil, err
	}

	registry := NewRegistry()
	applications := NewApplications(registry, options.now, options.logger)
	return &Engine{
		registry:     registry,
		applications: applications,
		wishlists:    NewWishlists(registry, options.logger),
		catalog:      NewCatalog(registry, options.now, options.idGenerator, options.logger),
		ranker:       NewRanker(registry, applications, scorer, options.now, options.logger),
		now:          options.now,
		logger:       options.logger,
	}, nil
}

// Now returns the engine's current date.
func (e *Engine) Now() time.Time {
	return e.now()
}

// RegisterCandidate adds a candidate.
func (e *Engine) RegisterCandidate(ctx context.Context, c Candidate) (err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	logger := serviceLogger(ctx, e.logger, "Engine", "RegisterCandidate", "candidate_id", c.ID)
	defer func() { logOutcome(ctx, logger, "candidate registration", err) }()
	return e.registry.AddCandidate(c)
}

// RegisterCompany adds a company. An empty ID is replaced by a generated token.
func (e *Engine) RegisterCompany(ctx context.Context, c Company) (company Company, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if c.ID == "" {
		c.ID = NewToken()
	}
	logger := serviceLogger(ctx, e.logger, "Engine", "RegisterCompany", "company_id", c.ID)
	defer func() { logOutcome(ctx, logger, "company registration", err) }()

	if err := e.registry.AddCompany(c); err != nil {
		return Company{}, err
	}
	company, _ = e.registry.Company(c.ID)
	return company, nil
}

// AuthenticateCandidate verifies a candidate's email and secret.
func (e *Engine) AuthenticateCandidate(email, secret string) (Candidate, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, ok := e.registry.CandidateByEmail(email)
	if !ok {
		return Candidate{}, fmt.Errorf("candidate %s: %w", email, ErrInvalidCredentials)
	}
	if err := checkSecret(c.SecretHash, secret); err != nil {
		return Candidate{}, fmt.Errorf("candidate %s: %w", email, err)
	}
	return c, nil
}

// AuthenticateCompany verifies a company's email and secret.
func (e *Engine) AuthenticateCompany(email, secret string) (Company, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, ok := e.registry.CompanyByEmail(email)
	if !ok {
		return Company{}, fmt.Errorf("company %s: %w", email, ErrInvalidCredentials)
	}
	if err := checkSecret(c.SecretHash, secret); err != nil {
		return Company{}, fmt.Errorf("company %s: %w", email, err)
	}
	return c, nil
}

func checkSecret(hash, secret string) error {
	err := VerifySecret(hash, secret)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrSecretMismatch):
		return ErrInvalidCredentials
	}
	return err
}

// PublishOffer creates an offer for a company.
func (e *Engine) PublishOffer(ctx context.Context, params PublishOfferParams) (Offer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.catalog.Publish(ctx, params)
}

// SetOfferExpiration updates an offer's expiration date on behalf of its owner.
func (e *Engine) SetOfferExpiration(ctx context.Context, companyID, offerID string, date time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.catalog.SetExpiration(ctx, companyID, offerID, date)
}

// Apply records a candidate's application to an offer.
func (e *Engine) Apply(ctx context.Context, candidateID, offerID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applications.Apply(ctx, candidateID, offerID)
}

// Withdraw cancels a candidate's application.
func (e *Engine) Withdraw(ctx context.Context, candidateID, offerID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applications.Withdraw(ctx, candidateID, offerID)
}

// RemoveOffer deletes an offer and every application to it.
func (e *Engine) RemoveOffer(ctx context.Context, offerID, companyID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applications.RemoveOffer(ctx, offerID, companyID)
}

// RejectApplication drops one application on behalf of the offer's owner.
func (e *Engine) RejectApplication(ctx context.Context, companyID, offerID, candidateID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applications.RejectApplication(ctx, companyID, offerID, candidateID)
}

// CountActiveApplications counts a candidate's applications to unexpired offers.
func (e *Engine) CountActiveApplications(candidateID string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applications.CountActiveApplications(candidateID)
}

// AppliedOffers lists a candidate's applications in order.
func (e *Engine) AppliedOffers(candidateID string) ([]Offer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applications.AppliedOffers(candidateID)
}

// Applicants lists an offer's applicants in order.
func (e *Engine) Applicants(offerID string) ([]Candidate, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applications.Applicants(offerID)
}

// AddToWishlist saves a candidate on a company wishlist.
func (e *Engine) AddToWishlist(ctx context.Context, companyID, candidateID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.wishlists.Add(ctx, companyID, candidateID)
}

// RemoveFromWishlist drops a candidate from a company wishlist.
func (e *Engine) RemoveFromWishlist(ctx context.Context, companyID, candidateID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.wishlists.Remove(ctx, companyID, candidateID)
}

// Wishlist returns a company wishlist in insertion order.
func (e *Engine) Wishlist(companyID string) ([]Candidate, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.wishlists.List(companyID)
}

// FindInWishlist returns one wish-listed candidate.
func (e *Engine) FindInWishlist(companyID, candidateID string) (Candidate, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.wishlists.Find(companyID, candidateID)
}

// Recommend ranks offers for a candidate.
func (e *Engine) Recommend(ctx context.Context, candidateID string, n int) ([]Recommendation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ranker.Recommend(ctx, candidateID, n)
}

// Explain itemizes the score of one candidate/offer pair.
func (e *Engine) Explain(candidateID, offerID string) (Breakdown, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ranker.Explain(candidateID, offerID)
}

// Candidate looks up a candidate.
func (e *Engine) Candidate(id string) (Candidate, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.Candidate(id)
}

// Company looks up a company.
func (e *Engine) Company(id string) (Company, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.Company(id)
}

// Offer looks up an offer.
func (e *Engine) Offer(id string) (Offer, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.Offer(id)
}

// Candidates lists candidates in registration order.
func (e *Engine) Candidates() []Candidate {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.Candidates()
}

// Companies lists companies in registration order.
func (e *Engine) Companies() []Company {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.Companies()
}

// SearchOffers queries unexpired offers.
func (e *Engine) SearchOffers(criterion SearchCriterion, value string) ([]Offer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.catalog.Search(criterion, value)
}

// AvailableOffers lists unexpired offers.
func (e *Engine) AvailableOffers() []Offer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.catalog.Available()
}

// CompanyOffers lists a company's offers.
func (e *Engine) CompanyOffers(companyID string) ([]Offer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.catalog.CompanyOffers(companyID)
}

// ActiveOfferCount counts a company's unexpired offers.
func (e *Engine) ActiveOfferCount(companyID string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.catalog.ActiveCount(companyID)
}

// Stats summarizes the offer catalog.
func (e *Engine) Stats() OfferStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.catalog.Stats()
}
