package matching

import (
	"fmt"

	"github.com/example/talent-matching/internal/persistence"
)

// Snapshot captures the engine state as storage records.
func (e *Engine) Snapshot() persistence.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	var snap persistence.Snapshot
	for _, c := range e.registry.Companies() {
		snap.Companies = append(snap.Companies, companyRecord(c))
	}
	for _, c := range e.registry.Candidates() {
		snap.Candidates = append(snap.Candidates, candidateRecord(c))
	}
	for _, o := range e.registry.Offers() {
		snap.Offers = append(snap.Offers, offerRecord(o))
	}
	for _, l := range e.applications.Links() {
		snap.Applications = append(snap.Applications, persistence.Application{CandidateID: l.CandidateID, OfferID: l.OfferID})
	}
	for _, w := range e.wishlists.Entries() {
		snap.Wishlist = append(snap.Wishlist, persistence.WishlistEntry{CompanyID: w.CompanyID, CandidateID: w.CandidateID})
	}
	return snap
}

// RestoreEngine rebuilds an engine from a snapshot. Entities are re-validated; expired
// offers keep their applications.
func RestoreEngine(snap persistence.Snapshot, opts ...Option) (*Engine, error) {
	engine, err := NewEngine(opts...)
	if err != nil {
		return nil, err
	}
	r := engine.registry

	for _, rec := range snap.Companies {
		if err := r.AddCompany(companyFromRecord(rec)); err != nil {
			return nil, fmt.Errorf("restore company %s: %w", rec.ID, err)
		}
	}
	for _, rec := range snap.Candidates {
		c, err := candidateFromRecord(rec)
		if err != nil {
			return nil, err
		}
		if err := r.AddCandidate(c); err != nil {
			return nil, fmt.Errorf("restore candidate %s: %w", rec.ID, err)
		}
	}
	for _, rec := range snap.Offers {
		o, err := offerFromRecord(rec)
		if err != nil {
			return nil, err
		}
		if err := r.AddOffer(o); err != nil {
			return nil, fmt.Errorf("restore offer %s: %w", rec.ID, err)
		}
	}

	links := make([]ApplicationLink, 0, len(snap.Applications))
	for _, a := range snap.Applications {
		links = append(links, ApplicationLink{CandidateID: a.CandidateID, OfferID: a.OfferID})
	}
	if err := engine.applications.Restore(links); err != nil {
		return nil, err
	}

	entries := make([]WishlistEntry, 0, len(snap.Wishlist))
	for _, w := range snap.Wishlist {
		entries = append(entries, WishlistEntry{CompanyID: w.CompanyID, CandidateID: w.CandidateID})
	}
	if err := engine.wishlists.Restore(entries); err != nil {
		return nil, err
	}
	return engine, nil
}

func companyRecord(c Company) persistence.Company {
	return persistence.Company{
		ID:         c.ID,
		Name:       c.Name,
		Sector:     c.Sector,
		Address:    c.Address,
		Email:      c.Email,
		Phone:      c.Phone,
		SecretHash: c.SecretHash,
	}
}

func companyFromRecord(rec persistence.Company) Company {
	return Company{
		ID:         rec.ID,
		Name:       rec.Name,
		Sector:     rec.Sector,
		Address:    rec.Address,
		Email:      rec.Email,
		Phone:      rec.Phone,
		SecretHash: rec.SecretHash,
	}
}

func candidateRecord(c Candidate) persistence.Candidate {
	rec := persistence.Candidate{
		ID:         c.ID,
		Name:       c.Name,
		Surname:    c.Surname,
		Email:      c.Email,
		Phone:      c.Phone,
		SecretHash: c.SecretHash,
		Kind:       string(c.Kind()),
	}
	switch p := c.Profile.(type) {
	case StudentProfile:
		rec.Level = p.Level
		rec.Field = p.Field
		rec.Institution = p.Institution
	case AlumnusProfile:
		rec.GraduationYear = p.GraduationYear
		rec.JobTitle = p.JobTitle
		rec.Employer = p.Employer
	}
	return rec
}

func candidateFromRecord(rec persistence.Candidate) (Candidate, error) {
	c := Candidate{
		ID:         rec.ID,
		Name:       rec.Name,
		Surname:    rec.Surname,
		Email:      rec.Email,
		Phone:      rec.Phone,
		SecretHash: rec.SecretHash,
	}
	switch rec.Kind {
	case persistence.CandidateKindStudent:
		c.Profile = StudentProfile{Level: rec.Level, Field: rec.Field, Institution: rec.Institution}
	case persistence.CandidateKindAlumnus:
		c.Profile = AlumnusProfile{GraduationYear: rec.GraduationYear, JobTitle: rec.JobTitle, Employer: rec.Employer}
	default:
		return Candidate{}, fmt.Errorf("restore candidate %s: unknown kind %q", rec.ID, rec.Kind)
	}
	return c, nil
}

func offerRecord(o Offer) persistence.Offer {
	rec := persistence.Offer{
		ID:          o.ID,
		CompanyID:   o.CompanyID,
		Title:       o.Title,
		Description: o.Description,
		Type:        string(o.Type()),
		PublishedAt: o.PublishedAt,
	}
	if o.ExpiresAt != nil {
		expires := *o.ExpiresAt
		rec.ExpiresAt = &expires
	}
	switch d := o.Details.(type) {
	case InternshipDetails:
		rec.DurationMonths = d.DurationMonths
		rec.Domain = d.Domain
	case ApprenticeshipDetails:
		rec.DurationMonths = d.DurationMonths
		rec.Rhythm = d.Rhythm
	case ThesisDetails:
		rec.Subject = d.Subject
		rec.Technologies = d.Technologies
	}
	return rec
}

func offerFromRecord(rec persistence.Offer) (Offer, error) {
	o := Offer{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		PublishedAt: rec.PublishedAt,
		CompanyID:   rec.CompanyID,
	}
	if rec.ExpiresAt != nil {
		expires := *rec.ExpiresAt
		o.ExpiresAt = &expires
	}
	switch OfferType(rec.Type) {
	case OfferInternship:
		o.Details = InternshipDetails{DurationMonths: rec.DurationMonths, Domain: rec.Domain}
	case OfferApprenticeship:
		o.Details = ApprenticeshipDetails{DurationMonths: rec.DurationMonths, Rhythm: rec.Rhythm}
	case OfferThesis:
		o.Details = ThesisDetails{Subject: rec.Subject, Technologies: rec.Technologies}
	default:
		return Offer{}, fmt.Errorf("restore offer %s: unknown type %q", rec.ID, rec.Type)
	}
	return o, nil
}
