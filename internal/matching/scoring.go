package matching

import (
	"fmt"
	"math"
	"time"
)

// Bucket maps values up to and including Max onto Value.
type Bucket struct {
	Max   int     `mapstructure:"max"`
	Value float64 `mapstructure:"value"`
}

// Weights are the student-formula coefficients. They sum to 1 in the default configuration.
type Weights struct {
	Field      float64 `mapstructure:"field"`
	Level      float64 `mapstructure:"level"`
	Recency    float64 `mapstructure:"recency"`
	Popularity float64 `mapstructure:"popularity"`
	Sector     float64 `mapstructure:"sector"`
}

func (w Weights) total() float64 {
	return w.Field + w.Level + w.Recency + w.Popularity + w.Sector
}

// LevelFit is the (academic level, offer type) compatibility table.
type LevelFit struct {
	LowerInternship      float64 `mapstructure:"lower_internship"`
	HigherThesis         float64 `mapstructure:"higher_thesis"`
	HigherApprenticeship float64 `mapstructure:"higher_apprenticeship"`
	LowerApprenticeship  float64 `mapstructure:"lower_apprenticeship"`
	Otherwise            float64 `mapstructure:"otherwise"`
}

// SectorFit scores the company sector against the student's field.
type SectorFit struct {
	Match     float64 `mapstructure:"match"`
	Universal float64 `mapstructure:"universal"`
	Mismatch  float64 `mapstructure:"mismatch"`
}

// AlumnusModel is the additive alumnus formula.
type AlumnusModel struct {
	Base                float64 `mapstructure:"base"`
	ApprenticeshipBonus float64 `mapstructure:"apprenticeship_bonus"`
	ThesisBonus         float64 `mapstructure:"thesis_bonus"`
	TitleInSectorBonus  float64 `mapstructure:"title_in_sector_bonus"`
	Max                 float64 `mapstructure:"max"`
}

// ScoringConfig holds every heuristic constant of the scoring engine.
type ScoringConfig struct {
	Weights            Weights      `mapstructure:"weights"`
	KeywordSaturation  int          `mapstructure:"keyword_saturation"`
	RecencyBuckets     []Bucket     `mapstructure:"recency_buckets"`
	RecencyFallback    float64      `mapstructure:"recency_fallback"`
	PopularityBuckets  []Bucket     `mapstructure:"popularity_buckets"`
	PopularityFallback float64      `mapstructure:"popularity_fallback"`
	Level              LevelFit     `mapstructure:"level"`
	Sector             SectorFit    `mapstructure:"sector"`
	Alumnus            AlumnusModel `mapstructure:"alumnus"`
}

// DefaultScoringConfig returns the reference breakpoints and weights.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Weights:           Weights{Field: 0.40, Level: 0.20, Recency: 0.15, Popularity: 0.15, Sector: 0.10},
		KeywordSaturation: 3,
		RecencyBuckets: []Bucket{
			{Max: 7, Value: 1.0},
			{Max: 30, Value: 0.7},
			{Max: 90, Value: 0.4},
		},
		RecencyFallback: 0.2,
		// Inverted U: unvetted and oversubscribed offers both rank low.
		PopularityBuckets: []Bucket{
			{Max: 0, Value: 0.3},
			{Max: 5, Value: 0.8},
			{Max: 15, Value: 0.6},
		},
		PopularityFallback: 0.3,
		Level: LevelFit{
			LowerInternship:      1.0,
			HigherThesis:         1.0,
			HigherApprenticeship: 0.9,
			LowerApprenticeship:  0.7,
			Otherwise:            0.5,
		},
		Sector: SectorFit{Match: 1.0, Universal: 0.6, Mismatch: 0.4},
		Alumnus: AlumnusModel{
			Base:                50,
			ApprenticeshipBonus: 30,
			ThesisBonus:         20,
			TitleInSectorBonus:  20,
			Max:                 100,
		},
	}
}

// Validate reports configuration values the scorer cannot work with.
func (c ScoringConfig) Validate() error {
	vErr := &ValidationError{}

	w := c.Weights
	if w.Field < 0 || w.Level < 0 || w.Recency < 0 || w.Popularity < 0 || w.Sector < 0 {
		vErr.add("weights", "weights must not be negative")
	} else if w.total() == 0 {
		vErr.add("weights", "at least one weight must be positive")
	}
	if c.KeywordSaturation <= 0 {
		vErr.add("keyword_saturation", "keyword saturation must be positive")
	}
	if err := validateBuckets(c.RecencyBuckets); err != "" {
		vErr.add("recency_buckets", err)
	}
	if err := validateBuckets(c.PopularityBuckets); err != "" {
		vErr.add("popularity_buckets", err)
	}
	if c.Alumnus.Max < c.Alumnus.Base {
		vErr.add("alumnus", "maximum must not be below the base score")
	}

	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

func validateBuckets(buckets []Bucket) string {
	if len(buckets) == 0 {
		return "at least one bucket is required"
	}
	for i := 1; i < len(buckets); i++ {
		if buckets[i].Max <= buckets[i-1].Max {
			return fmt.Sprintf("bucket %d must have a larger max than bucket %d", i, i-1)
		}
	}
	return ""
}

func bucketValue(x int, buckets []Bucket, fallback float64) float64 {
	for _, b := range buckets {
		if x <= b.Max {
			return b.Value
		}
	}
	return fallback
}

// ScoreInput gathers everything a score depends on. Applicants is the offer's current
// applicant count and Now the reference date for recency.
type ScoreInput struct {
	Candidate  Candidate
	Offer      Offer
	Company    Company
	Applicants int
	Now        time.Time
}

// Breakdown itemizes a score. Student sub-scores are in [0, 1]; alumnus parts are points.
type Breakdown struct {
	Kind       CandidateKind
	Field      float64
	FieldHits  int
	Level      float64
	Recency    float64
	Popularity float64
	Sector     float64
	Base       float64
	TypeBonus  float64
	TitleBonus float64
	Total      float64
}

// Scorer computes compatibility scores in [0, 100]. It is stateless apart from its
// configuration and safe for concurrent use.
type Scorer struct {
	config ScoringConfig
}

// NewScorer validates the configuration and returns a scorer.
func NewScorer(config ScoringConfig) (*Scorer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("scoring config: %w", err)
	}
	return &Scorer{config: config}, nil
}

// Config returns the configuration in use.
func (s *Scorer) Config() ScoringConfig {
	return s.config
}

// Score returns the compatibility of the candidate with the offer.
func (s *Scorer) Score(in ScoreInput) float64 {
	return s.Explain(in).Total
}

// Explain returns the score with its components.
func (s *Scorer) Explain(in ScoreInput) Breakdown {
	switch p := in.Candidate.Profile.(type) {
	case StudentProfile:
		return s.explainStudent(p, in)
	case AlumnusProfile:
		return s.explainAlumnus(p, in)
	}
	return Breakdown{}
}

func (s *Scorer) explainStudent(p StudentProfile, in ScoreInput) Breakdown {
	cfg := s.config
	b := Breakdown{Kind: KindStudent}

	haystack := normalizeText(in.Offer.Title + " " + in.Offer.Description + " " + in.Offer.variantText())
	b.FieldHits = countHits(haystack, fieldKeywords(p.Field))
	b.Field = math.Min(1, float64(b.FieldHits)/float64(cfg.KeywordSaturation))

	b.Level = s.levelFit(classifyLevel(p.Level), in.Offer.Type())

	age := daysBetween(in.Offer.PublishedAt, in.Now)
	if age < 0 {
		age = 0
	}
	b.Recency = bucketValue(age, cfg.RecencyBuckets, cfg.RecencyFallback)
	b.Popularity = bucketValue(in.Applicants, cfg.PopularityBuckets, cfg.PopularityFallback)
	b.Sector = s.sectorFit(p.Field, in.Company.Sector)

	w := cfg.Weights
	weighted := w.Field*b.Field + w.Level*b.Level + w.Recency*b.Recency + w.Popularity*b.Popularity + w.Sector*b.Sector
	b.Total = clampScore(weighted * 100)
	return b
}

func (s *Scorer) explainAlumnus(p AlumnusProfile, in ScoreInput) Breakdown {
	model := s.config.Alumnus
	b := Breakdown{Kind: KindAlumnus, Base: model.Base}

	switch in.Offer.Type() {
	case OfferApprenticeship:
		b.TypeBonus = model.ApprenticeshipBonus
	case OfferThesis:
		b.TypeBonus = model.ThesisBonus
	}
	if titleInSector(p.JobTitle, in.Company.Sector) {
		b.TitleBonus = model.TitleInSectorBonus
	}

	b.Total = clampScore(math.Min(model.Max, b.Base+b.TypeBonus+b.TitleBonus))
	return b
}

func (s *Scorer) levelFit(level academicLevel, offerType OfferType) float64 {
	table := s.config.Level
	switch {
	case level == levelLower && offerType == OfferInternship:
		return table.LowerInternship
	case level == levelHigher && offerType == OfferThesis:
		return table.HigherThesis
	case level == levelHigher && offerType == OfferApprenticeship:
		return table.HigherApprenticeship
	case level == levelLower && offerType == OfferApprenticeship:
		return table.LowerApprenticeship
	}
	return table.Otherwise
}

func (s *Scorer) sectorFit(field, sector string) float64 {
	fit := s.config.Sector
	normalized := normalizeText(sector)
	if p, ok := lookupField(field); ok && normalized != "" && containsAny(normalized, p.sectors) {
		return fit.Match
	}
	if normalized == "" || containsAny(normalized, universalSectors) {
		return fit.Universal
	}
	return fit.Mismatch
}

func clampScore(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
