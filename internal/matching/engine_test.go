package matching

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(
		WithClock(fixedClock(referenceNow)),
		WithIDGenerator(sequentialIDs("offer")),
		WithLogger(discardLogger()),
	)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return engine
}

func seedEngine(t *testing.T, engine *Engine) (companyID string) {
	t.Helper()
	ctx := context.Background()

	hash, err := HashSecret("s3cret", testArgon2idParams)
	if err != nil {
		t.Fatalf("HashSecret failed: %v", err)
	}
	company, err := engine.RegisterCompany(ctx, Company{
		Name:       "Acme Software",
		Sector:     "IT Services",
		Email:      "jobs@acme.example.com",
		SecretHash: hash,
	})
	if err != nil {
		t.Fatalf("RegisterCompany failed: %v", err)
	}

	student := newStudent("12345678", "computing", "bachelor")
	student.SecretHash = hash
	if err := engine.RegisterCandidate(ctx, student); err != nil {
		t.Fatalf("RegisterCandidate failed: %v", err)
	}
	if err := engine.RegisterCandidate(ctx, newAlumnus("87654321", "Developer")); err != nil {
		t.Fatalf("RegisterCandidate failed: %v", err)
	}

	if _, err := engine.PublishOffer(ctx, PublishOfferParams{
		CompanyID:   company.ID,
		Title:       "Web Developer Internship",
		Description: "java, web",
		ExpiresAt:   datePtr(referenceNow.AddDate(0, 2, 0)),
		Details:     InternshipDetails{DurationMonths: 3, Domain: "Web Development"},
	}); err != nil {
		t.Fatalf("PublishOffer failed: %v", err)
	}
	if _, err := engine.PublishOffer(ctx, PublishOfferParams{
		CompanyID:   company.ID,
		Title:       "Platform apprenticeship",
		Description: "Cloud tooling",
		Details:     ApprenticeshipDetails{DurationMonths: 24, Rhythm: "1 week/1 week"},
	}); err != nil {
		t.Fatalf("PublishOffer failed: %v", err)
	}
	if _, err := engine.PublishOffer(ctx, PublishOfferParams{
		CompanyID:   company.ID,
		Title:       "Search thesis",
		Description: "Ranking",
		Details:     ThesisDetails{Subject: "Learning to rank", Technologies: "Go"},
	}); err != nil {
		t.Fatalf("PublishOffer failed: %v", err)
	}

	if err := engine.Apply(ctx, "12345678", "offer-1"); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if err := engine.Apply(ctx, "87654321", "offer-1"); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if err := engine.Apply(ctx, "87654321", "offer-3"); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if err := engine.AddToWishlist(ctx, company.ID, "87654321"); err != nil {
		t.Fatalf("AddToWishlist failed: %v", err)
	}
	return company.ID
}

func TestEngine_SnapshotRoundTrip(t *testing.T) {
	engine := newTestEngine(t)
	companyID := seedEngine(t, engine)

	snap := engine.Snapshot()
	if len(snap.Companies) != 1 || len(snap.Candidates) != 2 || len(snap.Offers) != 3 {
		t.Fatalf("unexpected snapshot sizes: %d companies, %d candidates, %d offers",
			len(snap.Companies), len(snap.Candidates), len(snap.Offers))
	}
	if len(snap.Applications) != 3 || len(snap.Wishlist) != 1 {
		t.Fatalf("unexpected relation sizes: %d applications, %d wishlist", len(snap.Applications), len(snap.Wishlist))
	}

	restored, err := RestoreEngine(snap, WithClock(fixedClock(referenceNow)), WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("RestoreEngine failed: %v", err)
	}
	if !reflect.DeepEqual(snap, restored.Snapshot()) {
		t.Fatalf("expected lossless round trip")
	}

	initial, _ := engine.Applicants("offer-1")
	reloaded, _ := restored.Applicants("offer-1")
	if len(initial) != len(reloaded) {
		t.Fatalf("expected applicant counts to survive, got %d and %d", len(initial), len(reloaded))
	}

	before, _ := engine.Recommend(context.Background(), "12345678", 5)
	after, _ := restored.Recommend(context.Background(), "12345678", 5)
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("expected identical recommendations after reload, got %v and %v", before, after)
	}

	wishlist, err := restored.Wishlist(companyID)
	if err != nil || len(wishlist) != 1 || wishlist[0].ID != "87654321" {
		t.Fatalf("expected wishlist to survive, got %v (%v)", wishlist, err)
	}
}

func TestEngine_RestoreKeepsApplicationsToExpiredOffers(t *testing.T) {
	engine := newTestEngine(t)
	seedEngine(t, engine)
	snap := engine.Snapshot()

	later := referenceNow.AddDate(1, 0, 0)
	restored, err := RestoreEngine(snap, WithClock(fixedClock(later)), WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("RestoreEngine failed: %v", err)
	}
	offers, err := restored.AppliedOffers("12345678")
	if err != nil || len(offers) != 1 {
		t.Fatalf("expected application to expired offer to survive, got %v (%v)", offers, err)
	}
	active, _ := restored.CountActiveApplications("12345678")
	if active != 0 {
		t.Fatalf("expected expired application not to count as active, got %d", active)
	}
}

func TestEngine_Authenticate(t *testing.T) {
	engine := newTestEngine(t)
	seedEngine(t, engine)

	if _, err := engine.AuthenticateCandidate("12345678@students.example.com", "s3cret"); err != nil {
		t.Fatalf("expected authentication to succeed, got %v", err)
	}
	if _, err := engine.AuthenticateCandidate("12345678@students.example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := engine.AuthenticateCompany("nobody@example.com", "s3cret"); ResultOf(err) != ResultInvalidCredential {
		t.Fatalf("expected invalid_credentials, got %v", err)
	}
	if _, err := engine.AuthenticateCompany("JOBS@acme.example.com", "s3cret"); err != nil {
		t.Fatalf("expected company authentication to succeed, got %v", err)
	}
}

func TestEngine_RemoveOfferCascades(t *testing.T) {
	engine := newTestEngine(t)
	companyID := seedEngine(t, engine)
	ctx := context.Background()

	if err := engine.RemoveOffer(ctx, "offer-1", companyID); err != nil {
		t.Fatalf("RemoveOffer failed: %v", err)
	}
	for _, id := range []string{"12345678", "87654321"} {
		offers, _ := engine.AppliedOffers(id)
		for _, o := range offers {
			if o.ID == "offer-1" {
				t.Fatalf("expected candidate %s to lose offer-1", id)
			}
		}
	}
	if _, err := engine.Applicants("offer-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected removed offer to be unknown, got %v", err)
	}
	if got := engine.Stats().Total; got != 2 {
		t.Fatalf("expected 2 offers left, got %d", got)
	}
}

func TestEngine_ConcurrentApplications(t *testing.T) {
	engine := newTestEngine(t)
	companyID := seedEngine(t, engine)
	ctx := context.Background()

	const workers = 24
	for i := 0; i < workers; i++ {
		if err := engine.RegisterCandidate(ctx, newStudent(fmt.Sprintf("2%07d", i), "computing", "master")); err != nil {
			t.Fatalf("RegisterCandidate failed: %v", err)
		}
	}

	var wg sync.WaitGroup
	errs := make(chan error, workers*3)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			errs <- engine.Apply(ctx, id, "offer-2")
			if _, err := engine.Recommend(ctx, id, 3); err != nil {
				errs <- err
			}
			errs <- engine.AddToWishlist(ctx, companyID, id)
		}(fmt.Sprintf("2%07d", i))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	applicants, err := engine.Applicants("offer-2")
	if err != nil || len(applicants) != workers {
		t.Fatalf("expected %d applicants, got %d (%v)", workers, len(applicants), err)
	}
	for _, c := range applicants {
		offers, _ := engine.AppliedOffers(c.ID)
		if len(offers) != 1 || offers[0].ID != "offer-2" {
			t.Fatalf("expected candidate %s to list offer-2, got %v", c.ID, offers)
		}
	}
}

func TestNewEngine_RejectsInvalidScoring(t *testing.T) {
	config := DefaultScoringConfig()
	config.KeywordSaturation = 0
	if _, err := NewEngine(WithScoringConfig(config)); ResultOf(err) != ResultValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
