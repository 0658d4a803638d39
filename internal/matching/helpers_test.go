package matching

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"
)

var referenceNow = time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func daysAgo(days int) time.Time {
	return referenceNow.AddDate(0, 0, -days)
}

func datePtr(t time.Time) *time.Time {
	return &t
}

func newStudent(id, field, level string) Candidate {
	return Candidate{
		ID:      id,
		Name:    "Student",
		Surname: id,
		Email:   id + "@students.example.com",
		Profile: StudentProfile{Level: level, Field: field, Institution: "ENSA"},
	}
}

func newAlumnus(id, jobTitle string) Candidate {
	return Candidate{
		ID:      id,
		Name:    "Alumnus",
		Surname: id,
		Email:   id + "@alumni.example.com",
		Profile: AlumnusProfile{GraduationYear: 2019, JobTitle: jobTitle},
	}
}

func newCompany(id, sector string) Company {
	return Company{
		ID:     id,
		Name:   "Company " + id,
		Sector: sector,
		Email:  id + "@companies.example.com",
	}
}

func newInternship(id, companyID, title, description, domain string, published time.Time) Offer {
	return Offer{
		ID:          id,
		Title:       title,
		Description: description,
		PublishedAt: published,
		CompanyID:   companyID,
		Details:     InternshipDetails{DurationMonths: 3, Domain: domain},
	}
}

func newApprenticeship(id, companyID, title, description string, published time.Time) Offer {
	return Offer{
		ID:          id,
		Title:       title,
		Description: description,
		PublishedAt: published,
		CompanyID:   companyID,
		Details:     ApprenticeshipDetails{DurationMonths: 12, Rhythm: "3 days/2 days"},
	}
}

func newThesis(id, companyID, title, description string, published time.Time) Offer {
	return Offer{
		ID:          id,
		Title:       title,
		Description: description,
		PublishedAt: published,
		CompanyID:   companyID,
		Details:     ThesisDetails{Subject: "Graph search", Technologies: "Go, PostgreSQL"},
	}
}

type fixture struct {
	registry     *Registry
	applications *Applications
	wishlists    *Wishlists
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	registry := NewRegistry()
	return &fixture{
		registry:     registry,
		applications: NewApplications(registry, fixedClock(referenceNow), discardLogger()),
		wishlists:    NewWishlists(registry, discardLogger()),
	}
}

func (f *fixture) addCandidate(t *testing.T, c Candidate) {
	t.Helper()
	if err := f.registry.AddCandidate(c); err != nil {
		t.Fatalf("AddCandidate(%s) failed: %v", c.ID, err)
	}
}

func (f *fixture) addCompany(t *testing.T, c Company) {
	t.Helper()
	if err := f.registry.AddCompany(c); err != nil {
		t.Fatalf("AddCompany(%s) failed: %v", c.ID, err)
	}
}

func (f *fixture) addOffer(t *testing.T, o Offer) {
	t.Helper()
	if err := f.registry.AddOffer(o); err != nil {
		t.Fatalf("AddOffer(%s) failed: %v", o.ID, err)
	}
}

// assertLinksConsistent checks that both application indexes describe the same relation.
func (f *fixture) assertLinksConsistent(t *testing.T) {
	t.Helper()
	for candidateID, offers := range f.applications.byCandidate {
		for _, offerID := range offers.ids() {
			if !f.applications.byOffer[offerID].has(candidateID) {
				t.Fatalf("candidate %s lists offer %s but the offer does not list the candidate", candidateID, offerID)
			}
		}
	}
	for offerID, candidates := range f.applications.byOffer {
		for _, candidateID := range candidates.ids() {
			if !f.applications.byCandidate[candidateID].has(offerID) {
				t.Fatalf("offer %s lists candidate %s but the candidate does not list the offer", offerID, candidateID)
			}
		}
	}
}
