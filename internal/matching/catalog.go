package matching

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// SearchCriterion selects the offer attribute matched by Catalog.Search.
type SearchCriterion string

const (
	SearchTitle   SearchCriterion = "title"
	SearchType    SearchCriterion = "type"
	SearchCompany SearchCriterion = "company"
	SearchDomain  SearchCriterion = "domain"
	SearchAll     SearchCriterion = "all"
)

// ParseSearchCriterion accepts English and French criterion labels.
func ParseSearchCriterion(label string) (SearchCriterion, bool) {
	switch normalizeText(label) {
	case "title", "titre":
		return SearchTitle, true
	case "type":
		return SearchType, true
	case "company", "entreprise":
		return SearchCompany, true
	case "domain", "domaine":
		return SearchDomain, true
	case "all", "toutes":
		return SearchAll, true
	}
	return "", false
}

// PublishOfferParams describes a new offer. ExpiresAt is optional.
type PublishOfferParams struct {
	CompanyID   string
	Title       string
	Description string
	ExpiresAt   *time.Time
	Details     OfferDetails
}

// OfferStats summarizes the catalog.
type OfferStats struct {
	Internships     int `json:"internships"`
	Apprenticeships int `json:"apprenticeships"`
	Theses          int `json:"theses"`
	Active          int `json:"active"`
	Expired         int `json:"expired"`
	Total           int `json:"total"`
}

// Catalog publishes offers and answers catalog queries. Deletion goes through
// Applications.RemoveOffer so that applications cascade.
type Catalog struct {
	registry    *Registry
	now         func() time.Time
	idGenerator func() string
	logger      *slog.Logger
}

// NewCatalog constructs a catalog. A nil idGenerator uses NewToken.
func NewCatalog(registry *Registry, now func() time.Time, idGenerator func() string, logger *slog.Logger) *Catalog {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = NewToken
	}
	return &Catalog{
		registry:    registry,
		now:         now,
		idGenerator: idGenerator,
		logger:      defaultLogger(logger),
	}
}

// Publish creates an offer owned by params.CompanyID, dated now.
func (c *Catalog) Publish(ctx context.Context, params PublishOfferParams) (offer Offer, err error) {
	logger := serviceLogger(ctx, c.logger, "Catalog", "Publish", "company_id", params.CompanyID)
	defer func() {
		if err == nil {
			logger = logger.With("offer_id", offer.ID)
		}
		logOutcome(ctx, logger, "offer publication", err)
	}()

	if _, ok := c.registry.Company(params.CompanyID); !ok {
		return Offer{}, fmt.Errorf("company %s: %w", params.CompanyID, ErrNotFound)
	}

	now := c.now()
	offer = Offer{
		ID:          c.idGenerator(),
		Title:       strings.TrimSpace(params.Title),
		Description: strings.TrimSpace(params.Description),
		PublishedAt: now,
		CompanyID:   params.CompanyID,
		Details:     params.Details,
	}
	vErr := validateOffer(offer)
	if params.ExpiresAt != nil {
		if !calendarDay(*params.ExpiresAt).After(calendarDay(now)) {
			vErr.add("expires_at", "expiration date must be in the future")
		}
		expires := *params.ExpiresAt
		offer.ExpiresAt = &expires
	}
	if vErr.HasErrors() {
		return Offer{}, vErr
	}

	if err := c.registry.AddOffer(offer); err != nil {
		return Offer{}, err
	}
	return offer.clone(), nil
}

// SetExpiration changes the expiration date of an offer. Only the owner may do so and
// the date must be strictly after today.
func (c *Catalog) SetExpiration(ctx context.Context, companyID, offerID string, date time.Time) (err error) {
	logger := serviceLogger(ctx, c.logger, "Catalog", "SetExpiration", "company_id", companyID, "offer_id", offerID)
	defer func() { logOutcome(ctx, logger, "expiration update", err) }()

	if _, ok := c.registry.Company(companyID); !ok {
		return fmt.Errorf("company %s: %w", companyID, ErrNotFound)
	}
	offer, ok := c.registry.Offer(offerID)
	if !ok {
		return fmt.Errorf("offer %s: %w", offerID, ErrNotFound)
	}
	if offer.CompanyID != companyID {
		return fmt.Errorf("offer %s not published by %s: %w", offerID, companyID, ErrNotOwner)
	}
	if !calendarDay(date).After(calendarDay(c.now())) {
		vErr := &ValidationError{}
		vErr.add("expires_at", "expiration date must be in the future")
		return vErr
	}

	c.registry.setOfferExpiration(offerID, &date)
	return nil
}

// Search returns non-expired offers whose selected attribute contains value, ignoring case.
func (c *Catalog) Search(criterion SearchCriterion, value string) ([]Offer, error) {
	needle := normalizeText(value)
	now := c.now()

	var match func(Offer) bool
	switch criterion {
	case SearchTitle:
		match = func(o Offer) bool { return strings.Contains(normalizeText(o.Title), needle) }
	case SearchType:
		match = func(o Offer) bool {
			t, ok := ParseOfferType(needle)
			return ok && o.Type() == t
		}
	case SearchCompany:
		match = func(o Offer) bool { return strings.Contains(normalizeText(c.companyName(o)), needle) }
	case SearchDomain:
		match = func(o Offer) bool {
			d, ok := o.Details.(InternshipDetails)
			return ok && strings.Contains(normalizeText(d.Domain), needle)
		}
	case SearchAll:
		match = func(o Offer) bool {
			return strings.Contains(normalizeText(o.Title), needle) ||
				strings.Contains(string(o.Type()), needle) ||
				strings.Contains(normalizeText(c.companyName(o)), needle) ||
				strings.Contains(normalizeText(o.Description), needle)
		}
	default:
		vErr := &ValidationError{}
		vErr.add("criterion", fmt.Sprintf("unknown search criterion %q", criterion))
		return nil, vErr
	}

	var out []Offer
	for _, o := range c.registry.Offers() {
		if !o.IsExpired(now) && match(o) {
			out = append(out, o)
		}
	}
	return out, nil
}

// Available lists the offers that have not expired, in publication order.
func (c *Catalog) Available() []Offer {
	now := c.now()
	var out []Offer
	for _, o := range c.registry.Offers() {
		if !o.IsExpired(now) {
			out = append(out, o)
		}
	}
	return out
}

// CompanyOffers lists every offer the company published, expired ones included.
func (c *Catalog) CompanyOffers(companyID string) ([]Offer, error) {
	return c.registry.CompanyOffers(companyID)
}

// ActiveCount counts the company's offers that have not expired.
func (c *Catalog) ActiveCount(companyID string) (int, error) {
	offers, err := c.registry.CompanyOffers(companyID)
	if err != nil {
		return 0, err
	}
	now := c.now()
	count := 0
	for _, o := range offers {
		if !o.IsExpired(now) {
			count++
		}
	}
	return count, nil
}

// Stats counts offers per type and per state.
func (c *Catalog) Stats() OfferStats {
	now := c.now()
	var stats OfferStats
	for _, o := range c.registry.Offers() {
		switch o.Type() {
		case OfferInternship:
			stats.Internships++
		case OfferApprenticeship:
			stats.Apprenticeships++
		case OfferThesis:
			stats.Theses++
		}
		if o.IsExpired(now) {
			stats.Expired++
		} else {
			stats.Active++
		}
		stats.Total++
	}
	return stats
}

func (c *Catalog) companyName(o Offer) string {
	company, _ := c.registry.Company(o.CompanyID)
	return company.Name
}
