package matching

import "time"

// OfferType tags the variant of an offer.
type OfferType string

const (
	OfferInternship     OfferType = "internship"
	OfferApprenticeship OfferType = "apprenticeship"
	OfferThesis         OfferType = "thesis"
)

// ParseOfferType resolves a case-insensitive type label, accepting the French labels
// used by older data files.
func ParseOfferType(label string) (OfferType, bool) {
	switch normalizeText(label) {
	case "internship", "stage":
		return OfferInternship, true
	case "apprenticeship", "alternance":
		return OfferApprenticeship, true
	case "thesis", "thesis project", "projet fin d'etudes", "projet fin d'études", "pfe":
		return OfferThesis, true
	}
	return "", false
}

// OfferDetails is the closed set of offer variants.
type OfferDetails interface {
	offerType() OfferType
}

// InternshipDetails describes an internship.
type InternshipDetails struct {
	DurationMonths int
	Domain         string
}

func (InternshipDetails) offerType() OfferType { return OfferInternship }

// ApprenticeshipDetails describes an apprenticeship. Rhythm is free text such as "3 days/2 days".
type ApprenticeshipDetails struct {
	DurationMonths int
	Rhythm         string
}

func (ApprenticeshipDetails) offerType() OfferType { return OfferApprenticeship }

// ThesisDetails describes an end-of-studies thesis project.
type ThesisDetails struct {
	Subject      string
	Technologies string
}

func (ThesisDetails) offerType() OfferType { return OfferThesis }

// Offer is an opportunity published by a company. PublishedAt never changes after creation.
type Offer struct {
	ID          string
	Title       string
	Description string
	PublishedAt time.Time
	ExpiresAt   *time.Time
	CompanyID   string
	Details     OfferDetails
}

// Type returns the variant tag, or an empty type when no details are attached.
func (o Offer) Type() OfferType {
	if o.Details == nil {
		return ""
	}
	return o.Details.offerType()
}

// IsExpired reports whether the calendar date of now is strictly after the expiration
// date. Offers without an expiration date never expire.
func (o Offer) IsExpired(now time.Time) bool {
	if o.ExpiresAt == nil {
		return false
	}
	return calendarDay(now).After(calendarDay(*o.ExpiresAt))
}

// variantText returns the type-specific free text that takes part in keyword matching.
func (o Offer) variantText() string {
	switch d := o.Details.(type) {
	case InternshipDetails:
		return d.Domain
	case ThesisDetails:
		return d.Subject + " " + d.Technologies
	case ApprenticeshipDetails:
		return ""
	}
	return ""
}

func (o Offer) clone() Offer {
	if o.ExpiresAt != nil {
		expires := *o.ExpiresAt
		o.ExpiresAt = &expires
	}
	return o
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole calendar days from 'from' to 'to'; negative when 'to' is earlier.
func daysBetween(from, to time.Time) int {
	return int(calendarDay(to).Sub(calendarDay(from)).Hours() / 24)
}
