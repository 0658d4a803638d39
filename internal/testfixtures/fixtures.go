package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/talent-matching/internal/matching"
)

var (
	candidateCounter uint64
	companyCounter   uint64
	offerCounter     uint64
)

var referenceTime = time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

// ReferenceTime returns the canonical "now" used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// FastArgon2idParams keeps secret hashing cheap in tests.
var FastArgon2idParams = matching.Argon2idParams{
	Memory:      8 * 1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

// ----------------------------- Candidate fixtures -----------------------------

// CandidateOption configures a generated candidate.
type CandidateOption func(*matching.Candidate)

// NewStudent returns a computing bachelor student with a unique 8-digit ID.
func NewStudent(opts ...CandidateOption) matching.Candidate {
	idx := atomic.AddUint64(&candidateCounter, 1)
	id := fmt.Sprintf("%08d", 10000000+idx)
	c := matching.Candidate{
		ID:      id,
		Name:    "Student",
		Surname: fmt.Sprintf("N%03d", idx),
		Email:   id + "@students.example.com",
		Profile: matching.StudentProfile{Level: "bachelor", Field: "computing", Institution: "Université Paris Cité"},
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// NewAlumnus returns an alumnus who graduated in 2020 with a unique 8-digit ID.
func NewAlumnus(opts ...CandidateOption) matching.Candidate {
	idx := atomic.AddUint64(&candidateCounter, 1)
	id := fmt.Sprintf("%08d", 20000000+idx)
	c := matching.Candidate{
		ID:      id,
		Name:    "Alumnus",
		Surname: fmt.Sprintf("N%03d", idx),
		Email:   id + "@alumni.example.com",
		Profile: matching.AlumnusProfile{GraduationYear: 2020},
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithCandidateID overrides the identifier and derives the email from it.
func WithCandidateID(id string) CandidateOption {
	return func(c *matching.Candidate) {
		c.ID = id
		c.Email = id + "@candidates.example.com"
	}
}

// WithCandidateEmail overrides the email address.
func WithCandidateEmail(email string) CandidateOption {
	return func(c *matching.Candidate) {
		c.Email = email
	}
}

// WithStudy sets the level and field of a student profile.
func WithStudy(level, field string) CandidateOption {
	return func(c *matching.Candidate) {
		p, _ := c.Profile.(matching.StudentProfile)
		p.Level = level
		p.Field = field
		if p.Institution == "" {
			p.Institution = "Université Paris Cité"
		}
		c.Profile = p
	}
}

// WithCareer sets the job title and employer of an alumnus profile.
func WithCareer(jobTitle, employer string) CandidateOption {
	return func(c *matching.Candidate) {
		p, _ := c.Profile.(matching.AlumnusProfile)
		p.JobTitle = jobTitle
		p.Employer = employer
		if p.GraduationYear == 0 {
			p.GraduationYear = 2020
		}
		c.Profile = p
	}
}

// WithCandidateSecret stores a hash of secret computed with FastArgon2idParams.
func WithCandidateSecret(secret string) CandidateOption {
	return func(c *matching.Candidate) {
		c.SecretHash = mustHash(secret)
	}
}

// ----------------------------- Company fixtures -----------------------------

// CompanyOption configures a generated company.
type CompanyOption func(*matching.Company)

// NewCompany returns an IT services company with a unique ID.
func NewCompany(opts ...CompanyOption) matching.Company {
	idx := atomic.AddUint64(&companyCounter, 1)
	id := fmt.Sprintf("company-%03d", idx)
	c := matching.Company{
		ID:      id,
		Name:    fmt.Sprintf("Company %03d", idx),
		Sector:  "IT Services",
		Address: "1 rue de la Paix, Paris",
		Email:   id + "@companies.example.com",
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithCompanyID overrides the identifier and derives the email from it.
func WithCompanyID(id string) CompanyOption {
	return func(c *matching.Company) {
		c.ID = id
		c.Email = id + "@companies.example.com"
	}
}

// WithCompanyName overrides the display name.
func WithCompanyName(name string) CompanyOption {
	return func(c *matching.Company) {
		c.Name = name
	}
}

// WithSector overrides the business sector.
func WithSector(sector string) CompanyOption {
	return func(c *matching.Company) {
		c.Sector = sector
	}
}

// WithCompanySecret stores a hash of secret computed with FastArgon2idParams.
func WithCompanySecret(secret string) CompanyOption {
	return func(c *matching.Company) {
		c.SecretHash = mustHash(secret)
	}
}

// ----------------------------- Offer fixtures -----------------------------

// OfferOption configures generated publication parameters.
type OfferOption func(*matching.PublishOfferParams)

// NewOfferParams returns a six-month web internship for companyID without expiration.
func NewOfferParams(companyID string, opts ...OfferOption) matching.PublishOfferParams {
	idx := atomic.AddUint64(&offerCounter, 1)
	params := matching.PublishOfferParams{
		CompanyID:   companyID,
		Title:       fmt.Sprintf("Web developer internship %03d", idx),
		Description: "Java and web development in an agile team",
		Details:     matching.InternshipDetails{DurationMonths: 6, Domain: "Web Development"},
	}
	for _, opt := range opts {
		opt(&params)
	}
	return params
}

// WithOfferTitle overrides the title.
func WithOfferTitle(title string) OfferOption {
	return func(p *matching.PublishOfferParams) {
		p.Title = title
	}
}

// WithOfferDescription overrides the description.
func WithOfferDescription(description string) OfferOption {
	return func(p *matching.PublishOfferParams) {
		p.Description = description
	}
}

// WithExpiresAt sets the expiration date.
func WithExpiresAt(date time.Time) OfferOption {
	return func(p *matching.PublishOfferParams) {
		p.ExpiresAt = &date
	}
}

// AsApprenticeship turns the offer into an apprenticeship.
func AsApprenticeship(months int, rhythm string) OfferOption {
	return func(p *matching.PublishOfferParams) {
		p.Details = matching.ApprenticeshipDetails{DurationMonths: months, Rhythm: rhythm}
	}
}

// AsThesis turns the offer into an end-of-study thesis.
func AsThesis(subject, technologies string) OfferOption {
	return func(p *matching.PublishOfferParams) {
		p.Details = matching.ThesisDetails{Subject: subject, Technologies: technologies}
	}
}

func mustHash(secret string) string {
	hash, err := matching.HashSecret(secret, FastArgon2idParams)
	if err != nil {
		panic(fmt.Sprintf("testfixtures: hash secret: %v", err))
	}
	return hash
}
