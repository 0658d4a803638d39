package memory

import (
	"context"
	"testing"
	"time"

	"github.com/example/talent-matching/internal/persistence"
)

func TestStore_SaveAndLoad(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	empty, err := store.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if len(empty.Offers) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", empty)
	}

	expires := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	callerExpires := expires
	snap := persistence.Snapshot{
		Companies: []persistence.Company{{ID: "acme", Name: "Acme", Email: "hr@acme.example.com"}},
		Offers:    []persistence.Offer{{ID: "o1", CompanyID: "acme", Type: persistence.OfferTypeInternship, ExpiresAt: &callerExpires}},
	}
	if err := store.SaveSnapshot(ctx, snap); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	snap.Companies[0].Name = "Changed"
	callerExpires = expires.AddDate(1, 0, 0)

	got, err := store.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if got.Companies[0].Name != "Acme" || !got.Offers[0].ExpiresAt.Equal(expires) {
		t.Fatalf("expected stored snapshot isolated from caller, got %+v", got)
	}

	*got.Offers[0].ExpiresAt = expires.AddDate(2, 0, 0)
	again, _ := store.LoadSnapshot(ctx)
	if !again.Offers[0].ExpiresAt.Equal(expires) {
		t.Fatalf("expected loaded snapshot isolated from the store, got %v", again.Offers[0].ExpiresAt)
	}
	if store.Saves() != 1 {
		t.Fatalf("expected 1 save, got %d", store.Saves())
	}
}

func TestStore_CanceledContext(t *testing.T) {
	store := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.SaveSnapshot(ctx, persistence.Snapshot{}); err == nil {
		t.Fatalf("expected error for canceled context")
	}
	if _, err := store.LoadSnapshot(ctx); err == nil {
		t.Fatalf("expected error for canceled context")
	}
}
