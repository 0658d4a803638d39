package matching

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// Registry holds the identity-indexed candidate, company, and offer collections shared
// by the managers. It is not safe for concurrent use; Engine serializes access.
type Registry struct {
	candidates     map[string]*Candidate
	candidateOrder *idSet
	candidateEmail map[string]string

	companies    map[string]*Company
	companyOrder *idSet
	companyEmail map[string]string

	offers        map[string]*Offer
	offerOrder    *idSet
	companyOffers map[string]*idSet
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		candidates:     make(map[string]*Candidate),
		candidateOrder: newIDSet(),
		candidateEmail: make(map[string]string),
		companies:      make(map[string]*Company),
		companyOrder:   newIDSet(),
		companyEmail:   make(map[string]string),
		offers:         make(map[string]*Offer),
		offerOrder:     newIDSet(),
		companyOffers:  make(map[string]*idSet),
	}
}

// AddCandidate registers a candidate after checking identifier format and uniqueness of
// both identifier and email.
func (r *Registry) AddCandidate(c Candidate) error {
	c.ID = strings.TrimSpace(c.ID)
	c.Email = strings.TrimSpace(c.Email)

	if vErr := validateCandidate(c); vErr.HasErrors() {
		return vErr
	}
	if _, ok := r.candidates[c.ID]; ok {
		return fmt.Errorf("candidate %s: %w", c.ID, ErrAlreadyExists)
	}
	key := strings.ToLower(c.Email)
	if owner, ok := r.candidateEmail[key]; ok {
		return fmt.Errorf("candidate email %s used by %s: %w", c.Email, owner, ErrAlreadyExists)
	}

	stored := c
	r.candidates[c.ID] = &stored
	r.candidateOrder.add(c.ID)
	r.candidateEmail[key] = c.ID
	return nil
}

// AddCompany registers a company after checking its identifier and email uniqueness.
func (r *Registry) AddCompany(c Company) error {
	c.ID = strings.TrimSpace(c.ID)
	c.Email = strings.TrimSpace(c.Email)

	if vErr := validateCompany(c); vErr.HasErrors() {
		return vErr
	}
	if _, ok := r.companies[c.ID]; ok {
		return fmt.Errorf("company %s: %w", c.ID, ErrAlreadyExists)
	}
	key := strings.ToLower(c.Email)
	if owner, ok := r.companyEmail[key]; ok {
		return fmt.Errorf("company email %s used by %s: %w", c.Email, owner, ErrAlreadyExists)
	}

	stored := c
	r.companies[c.ID] = &stored
	r.companyOrder.add(c.ID)
	r.companyEmail[key] = c.ID
	r.companyOffers[c.ID] = newIDSet()
	return nil
}

// AddOffer registers an offer under its owning company.
func (r *Registry) AddOffer(o Offer) error {
	if vErr := validateOffer(o); vErr.HasErrors() {
		return vErr
	}
	if _, ok := r.companies[o.CompanyID]; !ok {
		return fmt.Errorf("company %s: %w", o.CompanyID, ErrNotFound)
	}
	if _, ok := r.offers[o.ID]; ok {
		return fmt.Errorf("offer %s: %w", o.ID, ErrAlreadyExists)
	}

	stored := o.clone()
	r.offers[o.ID] = &stored
	r.offerOrder.add(o.ID)
	r.companyOffers[o.CompanyID].add(o.ID)
	return nil
}

// Candidate returns a copy of the candidate registered under id.
func (r *Registry) Candidate(id string) (Candidate, bool) {
	c, ok := r.candidates[id]
	if !ok {
		return Candidate{}, false
	}
	return *c, true
}

// Company returns a copy of the company registered under id.
func (r *Registry) Company(id string) (Company, bool) {
	c, ok := r.companies[id]
	if !ok {
		return Company{}, false
	}
	return *c, true
}

// Offer returns a copy of the offer registered under id.
func (r *Registry) Offer(id string) (Offer, bool) {
	o, ok := r.offers[id]
	if !ok {
		return Offer{}, false
	}
	return o.clone(), true
}

// CandidateByEmail finds a candidate by email, ignoring case.
func (r *Registry) CandidateByEmail(email string) (Candidate, bool) {
	id, ok := r.candidateEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return Candidate{}, false
	}
	return r.Candidate(id)
}

// CompanyByEmail finds a company by email, ignoring case.
func (r *Registry) CompanyByEmail(email string) (Company, bool) {
	id, ok := r.companyEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return Company{}, false
	}
	return r.Company(id)
}

// Candidates lists candidates in registration order.
func (r *Registry) Candidates() []Candidate {
	out := make([]Candidate, 0, r.candidateOrder.len())
	for _, id := range r.candidateOrder.order {
		out = append(out, *r.candidates[id])
	}
	return out
}

// Companies lists companies in registration order.
func (r *Registry) Companies() []Company {
	out := make([]Company, 0, r.companyOrder.len())
	for _, id := range r.companyOrder.order {
		out = append(out, *r.companies[id])
	}
	return out
}

// Offers lists every offer in publication order. This is the global offer set the
// Ranker iterates.
func (r *Registry) Offers() []Offer {
	out := make([]Offer, 0, r.offerOrder.len())
	for _, id := range r.offerOrder.order {
		out = append(out, r.offers[id].clone())
	}
	return out
}

// CompanyOffers lists the offers published by a company in publication order.
func (r *Registry) CompanyOffers(companyID string) ([]Offer, error) {
	set, ok := r.companyOffers[companyID]
	if !ok {
		return nil, fmt.Errorf("company %s: %w", companyID, ErrNotFound)
	}
	out := make([]Offer, 0, set.len())
	for _, id := range set.order {
		out = append(out, r.offers[id].clone())
	}
	return out, nil
}

func (r *Registry) setOfferExpiration(offerID string, expiresAt *time.Time) {
	o, ok := r.offers[offerID]
	if !ok {
		return
	}
	if expiresAt == nil {
		o.ExpiresAt = nil
		return
	}
	date := *expiresAt
	o.ExpiresAt = &date
}

func (r *Registry) deleteOffer(offerID string) {
	o, ok := r.offers[offerID]
	if !ok {
		return
	}
	if set, ok := r.companyOffers[o.CompanyID]; ok {
		set.remove(offerID)
	}
	r.offerOrder.remove(offerID)
	delete(r.offers, offerID)
}

func validateCandidate(c Candidate) *ValidationError {
	vErr := &ValidationError{}

	if !isNationalID(c.ID) {
		vErr.add("id", "id must be 8 digits")
	}
	if strings.TrimSpace(c.Name) == "" {
		vErr.add("name", "name is required")
	}
	if strings.TrimSpace(c.Surname) == "" {
		vErr.add("surname", "surname is required")
	}
	validateEmail(vErr, c.Email)

	vErr.merge(validateProfile(c.Profile))

	return vErr
}

func validateProfile(profile CandidateProfile) *ValidationError {
	vErr := &ValidationError{}
	switch p := profile.(type) {
	case StudentProfile:
		if strings.TrimSpace(p.Level) == "" {
			vErr.add("level", "level is required")
		}
		if strings.TrimSpace(p.Field) == "" {
			vErr.add("field", "field is required")
		}
		if strings.TrimSpace(p.Institution) == "" {
			vErr.add("institution", "institution is required")
		}
	case AlumnusProfile:
		if p.GraduationYear <= 0 {
			vErr.add("graduation_year", "graduation year must be positive")
		}
	default:
		vErr.add("profile", "profile is required")
	}

	return vErr
}

func validateCompany(c Company) *ValidationError {
	vErr := &ValidationError{}
	if c.ID == "" {
		vErr.add("id", "id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		vErr.add("name", "name is required")
	}
	validateEmail(vErr, c.Email)
	return vErr
}

func validateOffer(o Offer) *ValidationError {
	vErr := &ValidationError{}
	if o.ID == "" {
		vErr.add("id", "id is required")
	}
	if strings.TrimSpace(o.Title) == "" {
		vErr.add("title", "title is required")
	}
	if strings.TrimSpace(o.Description) == "" {
		vErr.add("description", "description is required")
	}
	if o.PublishedAt.IsZero() {
		vErr.add("published_at", "publication date is required")
	}

	switch d := o.Details.(type) {
	case InternshipDetails:
		if d.DurationMonths <= 0 {
			vErr.add("duration_months", "duration must be positive")
		}
	case ApprenticeshipDetails:
		if d.DurationMonths <= 0 {
			vErr.add("duration_months", "duration must be positive")
		}
	case ThesisDetails:
	default:
		vErr.add("details", "offer type is required")
	}

	return vErr
}

func validateEmail(vErr *ValidationError, email string) {
	if email == "" {
		vErr.add("email", "email is required")
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		vErr.add("email", "email is invalid")
	}
}

func isNationalID(id string) bool {
	if len(id) != 8 {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
