package matching

import (
	"context"
	"errors"
	"testing"
)

func newRankerFixture(t *testing.T) (*fixture, *Ranker) {
	t.Helper()
	f := newFixture(t)
	ranker := NewRanker(f.registry, f.applications, defaultScorer(t), fixedClock(referenceNow), discardLogger())
	return f, ranker
}

func TestRanker_Recommend(t *testing.T) {
	f, ranker := newRankerFixture(t)
	ctx := context.Background()

	f.addCompany(t, newCompany("acme", "IT Services"))
	f.addCandidate(t, newStudent("12345678", "computing", "bachelor"))

	f.addOffer(t, newApprenticeship("bookkeeping", "acme", "Bookkeeping apprentice", "Ledger and invoices.", referenceNow))
	f.addOffer(t, newInternship("web", "acme", "Web Developer Internship", "java, web", "Web Development", referenceNow))
	expired := newInternship("expired", "acme", "Java Developer", "java, web, cloud", "Software", daysAgo(30))
	expired.ExpiresAt = datePtr(daysAgo(1))
	f.addOffer(t, expired)
	f.addOffer(t, newInternship("applied", "acme", "Python Developer", "python, data, cloud", "Software", referenceNow))

	if err := f.applications.Apply(ctx, "12345678", "applied"); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	t.Run("excludes expired and applied offers and sorts by score", func(t *testing.T) {
		recs, err := ranker.Recommend(ctx, "12345678", 10)
		if err != nil {
			t.Fatalf("Recommend failed: %v", err)
		}
		if len(recs) != 2 {
			t.Fatalf("expected 2 recommendations, got %d", len(recs))
		}
		if recs[0].Offer.ID != "web" || recs[1].Offer.ID != "bookkeeping" {
			t.Fatalf("unexpected order: %s, %s", recs[0].Offer.ID, recs[1].Offer.ID)
		}
		if recs[0].Score < recs[1].Score {
			t.Fatalf("expected descending scores, got %.2f then %.2f", recs[0].Score, recs[1].Score)
		}
		for _, r := range recs {
			if r.Offer.ID == "expired" || r.Offer.ID == "applied" {
				t.Fatalf("unexpected offer %s in recommendations", r.Offer.ID)
			}
		}
	})

	t.Run("truncates to n", func(t *testing.T) {
		recs, err := ranker.Recommend(ctx, "12345678", 1)
		if err != nil {
			t.Fatalf("Recommend failed: %v", err)
		}
		if len(recs) != 1 || recs[0].Offer.ID != "web" {
			t.Fatalf("expected only the best offer, got %v", recs)
		}
	})

	t.Run("non positive n yields empty list", func(t *testing.T) {
		for _, n := range []int{0, -3} {
			recs, err := ranker.Recommend(ctx, "12345678", n)
			if err != nil {
				t.Fatalf("Recommend failed: %v", err)
			}
			if recs == nil || len(recs) != 0 {
				t.Fatalf("expected empty non-nil list for n=%d, got %v", n, recs)
			}
		}
	})

	t.Run("does not mutate state", func(t *testing.T) {
		before := f.applications.Links()
		if _, err := ranker.Recommend(ctx, "12345678", 5); err != nil {
			t.Fatalf("Recommend failed: %v", err)
		}
		after := f.applications.Links()
		if len(before) != len(after) {
			t.Fatalf("expected links unchanged, got %v then %v", before, after)
		}
	})

	t.Run("unknown candidate", func(t *testing.T) {
		if _, err := ranker.Recommend(ctx, "00000000", 3); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestRanker_TiesKeepPublicationOrder(t *testing.T) {
	f, ranker := newRankerFixture(t)
	f.addCompany(t, newCompany("acme", "Retail"))
	f.addCandidate(t, newAlumnus("12345678", "Buyer"))
	for _, id := range []string{"first", "second", "third"} {
		f.addOffer(t, newInternship(id, "acme", "Store intern", "Shelves", "Retail", referenceNow))
	}

	recs, err := ranker.Recommend(context.Background(), "12345678", 3)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	got := []string{recs[0].Offer.ID, recs[1].Offer.ID, recs[2].Offer.ID}
	if got[0] != "first" || got[1] != "second" || got[2] != "third" {
		t.Fatalf("expected publication order for equal scores, got %v", got)
	}
}

func TestRanker_RecomputesScores(t *testing.T) {
	f, ranker := newRankerFixture(t)
	ctx := context.Background()
	f.addCompany(t, newCompany("acme", "IT Services"))
	f.addCandidate(t, newStudent("12345678", "computing", "bachelor"))
	f.addCandidate(t, newStudent("87654321", "computing", "bachelor"))
	f.addOffer(t, newInternship("web", "acme", "Web Developer", "java, web", "Web", referenceNow))

	first, err := ranker.Recommend(ctx, "12345678", 1)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if err := f.applications.Apply(ctx, "87654321", "web"); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	second, err := ranker.Recommend(ctx, "12345678", 1)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if second[0].Score <= first[0].Score {
		t.Fatalf("expected the first applicant to raise popularity, got %.2f then %.2f", first[0].Score, second[0].Score)
	}
}

func TestRanker_Explain(t *testing.T) {
	f, ranker := newRankerFixture(t)
	f.addCompany(t, newCompany("acme", "IT Services"))
	f.addCandidate(t, newStudent("12345678", "computing", "bachelor"))
	f.addOffer(t, newInternship("web", "acme", "Web Developer", "java, web", "Web", referenceNow))

	b, err := ranker.Explain("12345678", "web")
	if err != nil {
		t.Fatalf("Explain failed: %v", err)
	}
	if b.Kind != KindStudent || b.Total <= 0 {
		t.Fatalf("unexpected breakdown: %+v", b)
	}
	if _, err := ranker.Explain("12345678", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
