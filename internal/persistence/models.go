package persistence

import "time"

// Candidate kinds as stored.
const (
	CandidateKindStudent = "student"
	CandidateKindAlumnus = "alumnus"
)

// Offer types as stored.
const (
	OfferTypeInternship     = "internship"
	OfferTypeApprenticeship = "apprenticeship"
	OfferTypeThesis         = "thesis"
)

// Company represents a recruiting company.
type Company struct {
	ID         string
	Name       string
	Sector     string
	Address    string
	Email      string
	Phone      string
	SecretHash string
}

// Candidate represents a student or alumnus. Variant columns not matching Kind are zero.
type Candidate struct {
	ID         string
	Name       string
	Surname    string
	Email      string
	Phone      string
	SecretHash string
	Kind       string

	Level       string
	Field       string
	Institution string

	GraduationYear int
	JobTitle       string
	Employer       string
}

// Offer represents a published offer. Variant columns not matching Type are zero.
type Offer struct {
	ID          string
	CompanyID   string
	Title       string
	Description string
	Type        string
	PublishedAt time.Time
	ExpiresAt   *time.Time

	DurationMonths int
	Domain         string
	Rhythm         string
	Subject        string
	Technologies   string
}

// Application links a candidate to an offer.
type Application struct {
	CandidateID string
	OfferID     string
}

// WishlistEntry is a candidate saved by a company.
type WishlistEntry struct {
	CompanyID   string
	CandidateID string
}

// Snapshot is the complete persisted state. Slices keep insertion order; applicant
// counts derive from Applications.
type Snapshot struct {
	Companies    []Company
	Candidates   []Candidate
	Offers       []Offer
	Applications []Application
	Wishlist     []WishlistEntry
}
