package matching

import (
	"context"
	"errors"
	"testing"
)

func TestWishlists_Add(t *testing.T) {
	t.Run("second add is rejected and size stays one", func(t *testing.T) {
		f := newFixture(t)
		f.addCompany(t, newCompany("acme", "IT Services"))
		f.addCandidate(t, newStudent("12345678", "computing", "bachelor"))
		ctx := context.Background()

		if err := f.wishlists.Add(ctx, "acme", "12345678"); err != nil {
			t.Fatalf("expected first add to succeed, got %v", err)
		}
		err := f.wishlists.Add(ctx, "acme", "12345678")
		if !errors.Is(err, ErrAlreadyWishlisted) {
			t.Fatalf("expected ErrAlreadyWishlisted, got %v", err)
		}

		list, err := f.wishlists.List("acme")
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(list) != 1 {
			t.Fatalf("expected wishlist size 1, got %d", len(list))
		}
	})

	t.Run("unknown company or candidate", func(t *testing.T) {
		f := newFixture(t)
		f.addCompany(t, newCompany("acme", "IT Services"))
		ctx := context.Background()

		if err := f.wishlists.Add(ctx, "nobody", "12345678"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound for company, got %v", err)
		}
		if err := f.wishlists.Add(ctx, "acme", "12345678"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound for candidate, got %v", err)
		}
	})

	t.Run("does not create applications", func(t *testing.T) {
		f := newFixture(t)
		f.addCompany(t, newCompany("acme", "IT Services"))
		f.addCandidate(t, newStudent("12345678", "computing", "bachelor"))
		f.addOffer(t, newInternship("offer-1", "acme", "Intern", "Tasks", "", referenceNow))

		if err := f.wishlists.Add(context.Background(), "acme", "12345678"); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if f.applications.HasApplied("12345678", "offer-1") {
			t.Fatalf("expected wishlist to stay independent of applications")
		}
	})
}

func TestWishlists_RemoveAndOrder(t *testing.T) {
	f := newFixture(t)
	f.addCompany(t, newCompany("acme", "IT Services"))
	ids := []string{"10000003", "10000001", "10000002"}
	ctx := context.Background()
	for _, id := range ids {
		f.addCandidate(t, newStudent(id, "computing", "bachelor"))
		if err := f.wishlists.Add(ctx, "acme", id); err != nil {
			t.Fatalf("Add(%s) failed: %v", id, err)
		}
	}

	list, _ := f.wishlists.List("acme")
	for i, c := range list {
		if c.ID != ids[i] {
			t.Fatalf("expected insertion order %v, got %s at %d", ids, c.ID, i)
		}
	}

	if err := f.wishlists.Remove(ctx, "acme", "10000001"); err != nil {
		t.Fatalf("expected remove to succeed, got %v", err)
	}
	if f.wishlists.Contains("acme", "10000001") {
		t.Fatalf("expected candidate removed")
	}
	if err := f.wishlists.Remove(ctx, "acme", "10000001"); !errors.Is(err, ErrNotWishlisted) {
		t.Fatalf("expected ErrNotWishlisted, got %v", err)
	}

	entries := f.wishlists.Entries()
	if len(entries) != 2 || entries[0].CandidateID != "10000003" || entries[1].CandidateID != "10000002" {
		t.Fatalf("unexpected entries: %v", entries)
	}
}

func TestWishlists_Find(t *testing.T) {
	f := newFixture(t)
	f.addCompany(t, newCompany("acme", "IT Services"))
	f.addCandidate(t, newStudent("12345678", "computing", "bachelor"))

	if _, err := f.wishlists.Find("acme", "12345678"); !errors.Is(err, ErrNotWishlisted) {
		t.Fatalf("expected ErrNotWishlisted, got %v", err)
	}
	if err := f.wishlists.Add(context.Background(), "acme", "12345678"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	c, err := f.wishlists.Find("acme", "12345678")
	if err != nil || c.ID != "12345678" {
		t.Fatalf("expected candidate, got %v (%v)", c, err)
	}
}
