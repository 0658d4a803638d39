package matching

import (
	"context"
	"errors"
	"testing"
)

func newCatalogFixture(t *testing.T) (*fixture, *Catalog) {
	t.Helper()
	f := newFixture(t)
	f.addCompany(t, Company{ID: "acme", Name: "Acme Software", Sector: "IT Services", Email: "hr@acme.example.com"})
	f.addCompany(t, Company{ID: "globex", Name: "Globex Bank", Sector: "Banking", Email: "hr@globex.example.com"})
	return f, NewCatalog(f.registry, fixedClock(referenceNow), sequentialIDs("offer"), discardLogger())
}

func TestCatalog_Publish(t *testing.T) {
	f, catalog := newCatalogFixture(t)
	ctx := context.Background()

	t.Run("assigns identifier and publication date", func(t *testing.T) {
		offer, err := catalog.Publish(ctx, PublishOfferParams{
			CompanyID:   "acme",
			Title:       "  Backend intern ",
			Description: "Go services",
			Details:     InternshipDetails{DurationMonths: 6, Domain: "Backend"},
		})
		if err != nil {
			t.Fatalf("Publish failed: %v", err)
		}
		if offer.ID != "offer-1" || !offer.PublishedAt.Equal(referenceNow) || offer.Title != "Backend intern" {
			t.Fatalf("unexpected offer: %+v", offer)
		}
		offers, _ := f.registry.CompanyOffers("acme")
		if len(offers) != 1 {
			t.Fatalf("expected offer in the company list, got %d", len(offers))
		}
	})

	t.Run("rejects past expiration", func(t *testing.T) {
		_, err := catalog.Publish(ctx, PublishOfferParams{
			CompanyID:   "acme",
			Title:       "Frontend intern",
			Description: "React",
			ExpiresAt:   datePtr(daysAgo(1)),
			Details:     InternshipDetails{DurationMonths: 6},
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) || vErr.FieldErrors["expires_at"] == "" {
			t.Fatalf("expected expires_at validation error, got %v", err)
		}
	})

	t.Run("unknown company", func(t *testing.T) {
		_, err := catalog.Publish(ctx, PublishOfferParams{
			CompanyID:   "nobody",
			Title:       "Intern",
			Description: "Tasks",
			Details:     InternshipDetails{DurationMonths: 1},
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("validates variant", func(t *testing.T) {
		_, err := catalog.Publish(ctx, PublishOfferParams{
			CompanyID:   "acme",
			Title:       "Apprentice",
			Description: "Tasks",
			Details:     ApprenticeshipDetails{DurationMonths: 0},
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})
}

func TestCatalog_SetExpiration(t *testing.T) {
	f, catalog := newCatalogFixture(t)
	ctx := context.Background()
	f.addOffer(t, newInternship("o1", "acme", "Intern", "Tasks", "", referenceNow))

	if err := catalog.SetExpiration(ctx, "globex", "o1", referenceNow.AddDate(0, 0, 5)); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	var vErr *ValidationError
	if err := catalog.SetExpiration(ctx, "acme", "o1", referenceNow); !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for today, got %v", err)
	}

	tomorrow := referenceNow.AddDate(0, 0, 1)
	if err := catalog.SetExpiration(ctx, "acme", "o1", tomorrow); err != nil {
		t.Fatalf("expected expiration update to succeed, got %v", err)
	}
	offer, _ := f.registry.Offer("o1")
	if offer.ExpiresAt == nil || !offer.ExpiresAt.Equal(tomorrow) {
		t.Fatalf("expected expiration %v, got %v", tomorrow, offer.ExpiresAt)
	}
	if !offer.PublishedAt.Equal(referenceNow) {
		t.Fatalf("expected publication date unchanged")
	}
}

func TestCatalog_Search(t *testing.T) {
	f, catalog := newCatalogFixture(t)
	f.addOffer(t, newInternship("web", "acme", "Web Developer", "Build pages", "Web Development", referenceNow))
	f.addOffer(t, newApprenticeship("teller", "globex", "Bank teller", "Branch work", referenceNow))
	f.addOffer(t, newThesis("risk", "globex", "Risk thesis", "Credit models", referenceNow))
	old := newInternship("old", "acme", "Web Designer", "Mockups", "Web", daysAgo(60))
	old.ExpiresAt = datePtr(daysAgo(3))
	f.addOffer(t, old)

	tests := []struct {
		criterion SearchCriterion
		value     string
		want      []string
	}{
		{SearchTitle, "WEB", []string{"web"}},
		{SearchType, "alternance", []string{"teller"}},
		{SearchCompany, "globex", []string{"teller", "risk"}},
		{SearchDomain, "development", []string{"web"}},
		{SearchAll, "credit", []string{"risk"}},
		{SearchAll, "thesis", []string{"risk"}},
	}
	for _, tt := range tests {
		got, err := catalog.Search(tt.criterion, tt.value)
		if err != nil {
			t.Fatalf("Search(%s, %q) failed: %v", tt.criterion, tt.value, err)
		}
		if len(got) != len(tt.want) {
			t.Fatalf("Search(%s, %q): expected %v, got %d offers", tt.criterion, tt.value, tt.want, len(got))
		}
		for i, id := range tt.want {
			if got[i].ID != id {
				t.Fatalf("Search(%s, %q): expected %v, got %s at %d", tt.criterion, tt.value, tt.want, got[i].ID, i)
			}
		}
	}

	if _, err := catalog.Search("salary", "x"); ResultOf(err) != ResultValidation {
		t.Fatalf("expected validation result for unknown criterion, got %v", err)
	}
}

func TestCatalog_Stats(t *testing.T) {
	f, catalog := newCatalogFixture(t)
	f.addOffer(t, newInternship("a", "acme", "Intern", "Tasks", "", referenceNow))
	f.addOffer(t, newApprenticeship("b", "acme", "Apprentice", "Tasks", referenceNow))
	expired := newThesis("c", "globex", "Thesis", "Research", daysAgo(100))
	expired.ExpiresAt = datePtr(daysAgo(10))
	f.addOffer(t, expired)

	stats := catalog.Stats()
	want := OfferStats{Internships: 1, Apprenticeships: 1, Theses: 1, Active: 2, Expired: 1, Total: 3}
	if stats != want {
		t.Fatalf("expected %+v, got %+v", want, stats)
	}

	if got := len(catalog.Available()); got != 2 {
		t.Fatalf("expected 2 available offers, got %d", got)
	}
	if n, err := catalog.ActiveCount("globex"); err != nil || n != 0 {
		t.Fatalf("expected no active globex offers, got %d (%v)", n, err)
	}
	if n, err := catalog.ActiveCount("acme"); err != nil || n != 2 {
		t.Fatalf("expected 2 active acme offers, got %d (%v)", n, err)
	}
}
