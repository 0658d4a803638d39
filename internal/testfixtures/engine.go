package testfixtures

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/example/talent-matching/internal/matching"
)

// EngineFactory builds engines wired to a controllable clock and deterministic offer IDs.
type EngineFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
	Logger      *slog.Logger
}

// EngineFactoryOption configures an EngineFactory.
type EngineFactoryOption func(*EngineFactory)

// NewEngineFactory constructs a factory with a reference clock, "offer" IDs and a
// discarding logger.
func NewEngineFactory(opts ...EngineFactoryOption) *EngineFactory {
	factory := &EngineFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("offer"),
		Logger:      DiscardLogger(),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("offer")
	}
	return factory
}

// WithFactoryClock overrides the clock.
func WithFactoryClock(clock *Clock) EngineFactoryOption {
	return func(f *EngineFactory) {
		f.Clock = clock
	}
}

// WithFactoryLogger overrides the logger.
func WithFactoryLogger(logger *slog.Logger) EngineFactoryOption {
	return func(f *EngineFactory) {
		f.Logger = logger
	}
}

// Options returns the engine options matching the factory settings.
func (f *EngineFactory) Options(extra ...matching.Option) []matching.Option {
	opts := []matching.Option{
		matching.WithClock(f.Clock.NowFunc()),
		matching.WithIDGenerator(f.IDGenerator.NextFunc()),
		matching.WithLogger(f.Logger),
	}
	return append(opts, extra...)
}

// NewEngine builds an empty engine, failing the test on error.
func (f *EngineFactory) NewEngine(tb testing.TB, extra ...matching.Option) *matching.Engine {
	tb.Helper()
	engine, err := matching.NewEngine(f.Options(extra...)...)
	if err != nil {
		tb.Fatalf("failed to build engine: %v", err)
	}
	return engine
}

// Seeded describes the state created by Seed.
type Seeded struct {
	Company        matching.Company
	Student        matching.Candidate
	Alumnus        matching.Candidate
	Internship     matching.Offer
	Apprenticeship matching.Offer
	Thesis         matching.Offer
}

// Seed registers one company, a computing student and an alumnus developer, publishes
// one offer of each type and applies the student to the internship. Both candidates
// and the company use the secret "s3cret".
func (f *EngineFactory) Seed(tb testing.TB, engine *matching.Engine) Seeded {
	tb.Helper()
	ctx := context.Background()

	var s Seeded
	var err error
	s.Company, err = engine.RegisterCompany(ctx, NewCompany(WithCompanyName("Acme Software"), WithCompanySecret("s3cret")))
	if err != nil {
		tb.Fatalf("failed to register company: %v", err)
	}

	s.Student = NewStudent(WithStudy("bachelor", "computing"), WithCandidateSecret("s3cret"))
	if err := engine.RegisterCandidate(ctx, s.Student); err != nil {
		tb.Fatalf("failed to register student: %v", err)
	}
	s.Alumnus = NewAlumnus(WithCareer("Developer", "Initech"), WithCandidateSecret("s3cret"))
	if err := engine.RegisterCandidate(ctx, s.Alumnus); err != nil {
		tb.Fatalf("failed to register alumnus: %v", err)
	}

	publish := func(params matching.PublishOfferParams) matching.Offer {
		offer, err := engine.PublishOffer(ctx, params)
		if err != nil {
			tb.Fatalf("failed to publish offer: %v", err)
		}
		return offer
	}
	s.Internship = publish(NewOfferParams(s.Company.ID, WithExpiresAt(f.Clock.DaysFromNow(30))))
	s.Apprenticeship = publish(NewOfferParams(s.Company.ID,
		WithOfferTitle("Cloud platform apprenticeship"), AsApprenticeship(24, "3 weeks / 1 week")))
	s.Thesis = publish(NewOfferParams(s.Company.ID,
		WithOfferTitle("Search ranking thesis"), AsThesis("Learning to rank", "Go, Python")))

	if err := engine.Apply(ctx, s.Student.ID, s.Internship.ID); err != nil {
		tb.Fatalf("failed to apply: %v", err)
	}
	return s
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
