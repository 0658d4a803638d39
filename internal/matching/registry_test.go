package matching

import (
	"errors"
	"testing"
)

func TestRegistry_AddCandidate(t *testing.T) {
	t.Run("validates identifier, email, and variant fields", func(t *testing.T) {
		r := NewRegistry()
		err := r.AddCandidate(Candidate{
			ID:      "12AB",
			Name:    " ",
			Email:   "not-an-email",
			Profile: StudentProfile{},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"id", "name", "surname", "email", "level", "field", "institution"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Fatalf("expected %s validation error, got %v", field, vErr.FieldErrors)
			}
		}
	})

	t.Run("requires a profile", func(t *testing.T) {
		r := NewRegistry()
		c := newStudent("12345678", "computing", "bachelor")
		c.Profile = nil

		var vErr *ValidationError
		if err := r.AddCandidate(c); !errors.As(err, &vErr) || vErr.FieldErrors["profile"] == "" {
			t.Fatalf("expected profile validation error, got %v", err)
		}
	})

	t.Run("alumnus needs a positive graduation year", func(t *testing.T) {
		r := NewRegistry()
		c := newAlumnus("12345678", "Analyst")
		c.Profile = AlumnusProfile{GraduationYear: 0}

		var vErr *ValidationError
		if err := r.AddCandidate(c); !errors.As(err, &vErr) || vErr.FieldErrors["graduation_year"] == "" {
			t.Fatalf("expected graduation_year validation error, got %v", err)
		}
	})

	t.Run("rejects duplicate identifier and email", func(t *testing.T) {
		r := NewRegistry()
		if err := r.AddCandidate(newStudent("12345678", "computing", "bachelor")); err != nil {
			t.Fatalf("AddCandidate failed: %v", err)
		}

		if err := r.AddCandidate(newAlumnus("12345678", "")); !errors.Is(err, ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists for identifier, got %v", err)
		}

		other := newStudent("87654321", "computing", "bachelor")
		other.Email = "12345678@STUDENTS.example.com"
		if err := r.AddCandidate(other); !errors.Is(err, ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists for email, got %v", err)
		}

		found, ok := r.CandidateByEmail("12345678@students.EXAMPLE.com")
		if !ok || found.ID != "12345678" {
			t.Fatalf("expected lookup by email to ignore case, got %v", found)
		}
	})
}

func TestRegistry_AddOffer(t *testing.T) {
	r := NewRegistry()
	if err := r.AddCompany(newCompany("acme", "IT Services")); err != nil {
		t.Fatalf("AddCompany failed: %v", err)
	}

	t.Run("owner must exist", func(t *testing.T) {
		err := r.AddOffer(newInternship("o1", "nobody", "Intern", "Tasks", "", referenceNow))
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("duration must be positive", func(t *testing.T) {
		offer := newInternship("o1", "acme", "Intern", "Tasks", "", referenceNow)
		offer.Details = InternshipDetails{DurationMonths: 0}

		var vErr *ValidationError
		if err := r.AddOffer(offer); !errors.As(err, &vErr) || vErr.FieldErrors["duration_months"] == "" {
			t.Fatalf("expected duration validation error, got %v", err)
		}
	})

	t.Run("returns copies", func(t *testing.T) {
		offer := newInternship("o2", "acme", "Intern", "Tasks", "", referenceNow)
		offer.ExpiresAt = datePtr(referenceNow.AddDate(0, 1, 0))
		if err := r.AddOffer(offer); err != nil {
			t.Fatalf("AddOffer failed: %v", err)
		}

		got, _ := r.Offer("o2")
		*got.ExpiresAt = referenceNow.AddDate(-1, 0, 0)

		again, _ := r.Offer("o2")
		if !again.ExpiresAt.Equal(referenceNow.AddDate(0, 1, 0)) {
			t.Fatalf("expected registry state to be isolated from callers")
		}
	})

	t.Run("lists company offers in publication order", func(t *testing.T) {
		if err := r.AddOffer(newThesis("o3", "acme", "Thesis", "Research", referenceNow)); err != nil {
			t.Fatalf("AddOffer failed: %v", err)
		}
		offers, err := r.CompanyOffers("acme")
		if err != nil {
			t.Fatalf("CompanyOffers failed: %v", err)
		}
		if len(offers) != 2 || offers[0].ID != "o2" || offers[1].ID != "o3" {
			t.Fatalf("unexpected company offers: %v", offers)
		}
		if _, err := r.CompanyOffers("nobody"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestOffer_IsExpired(t *testing.T) {
	offer := newInternship("o", "c", "Intern", "Tasks", "", daysAgo(10))
	if offer.IsExpired(referenceNow) {
		t.Fatalf("expected offer without expiration to stay open")
	}

	offer.ExpiresAt = datePtr(calendarDay(referenceNow))
	if offer.IsExpired(referenceNow) {
		t.Fatalf("expected offer to stay open on its expiration day")
	}
	if !offer.IsExpired(referenceNow.AddDate(0, 0, 1)) {
		t.Fatalf("expected offer to expire the day after")
	}
}

func TestParseOfferType(t *testing.T) {
	tests := map[string]OfferType{
		"Internship":          OfferInternship,
		"stage":               OfferInternship,
		"ALTERNANCE":          OfferApprenticeship,
		"thesis":              OfferThesis,
		"Projet fin d'etudes": OfferThesis,
	}
	for label, want := range tests {
		got, ok := ParseOfferType(label)
		if !ok || got != want {
			t.Fatalf("ParseOfferType(%q) = %q, %v; want %q", label, got, ok, want)
		}
	}
	if _, ok := ParseOfferType("job"); ok {
		t.Fatalf("expected unknown label to be rejected")
	}
}
