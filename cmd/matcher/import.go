package main

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/example/talent-matching/internal/matching"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// seedFile is the layout of an import file. Offers and wishlists are nested under
// their company, applications under the offer they target.
type seedFile struct {
	Companies  []seedCompany   `mapstructure:"companies"`
	Candidates []seedCandidate `mapstructure:"candidates"`
}

type seedCompany struct {
	ID       string      `mapstructure:"id"`
	Name     string      `mapstructure:"name"`
	Sector   string      `mapstructure:"sector"`
	Address  string      `mapstructure:"address"`
	Email    string      `mapstructure:"email"`
	Phone    string      `mapstructure:"phone"`
	Secret   string      `mapstructure:"secret"`
	Offers   []seedOffer `mapstructure:"offers"`
	Wishlist []string    `mapstructure:"wishlist"`
}

type seedOffer struct {
	Type           string   `mapstructure:"type"`
	Title          string   `mapstructure:"title"`
	Description    string   `mapstructure:"description"`
	ExpiresAt      string   `mapstructure:"expires_at"`
	DurationMonths int      `mapstructure:"duration_months"`
	Domain         string   `mapstructure:"domain"`
	Rhythm         string   `mapstructure:"rhythm"`
	Subject        string   `mapstructure:"subject"`
	Technologies   string   `mapstructure:"technologies"`
	Applicants     []string `mapstructure:"applicants"`
}

type seedCandidate struct {
	ID             string `mapstructure:"id"`
	Kind           string `mapstructure:"kind"`
	Name           string `mapstructure:"name"`
	Surname        string `mapstructure:"surname"`
	Email          string `mapstructure:"email"`
	Phone          string `mapstructure:"phone"`
	Secret         string `mapstructure:"secret"`
	Level          string `mapstructure:"level"`
	Field          string `mapstructure:"field"`
	Institution    string `mapstructure:"institution"`
	GraduationYear int    `mapstructure:"graduation_year"`
	JobTitle       string `mapstructure:"job_title"`
	Employer       string `mapstructure:"employer"`
}

type importSummary struct {
	companies, candidates, offers, applications, wishlisted int
}

func newImportCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Load companies, candidates, offers and applications from a yaml, json or toml file",
		Long: "Loads a seed file into the database. Every record goes through the same validation as\n" +
			"the API and nothing is stored unless the whole file imports cleanly.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := readSeedFile(args[0])
			if err != nil {
				return err
			}
			return c.withSession(cmd.Context(), true, func(engine *matching.Engine) error {
				summary, err := c.importSeed(cmd.Context(), engine, seed)
				if err != nil {
					return reportResult(c.out, err)
				}
				printSuccess(c.out, "imported %d companies, %d candidates, %d offers, %d applications, %d wishlist entries",
					summary.companies, summary.candidates, summary.offers, summary.applications, summary.wishlisted)
				return nil
			})
		},
	}
}

func readSeedFile(path string) (seedFile, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return seedFile{}, fmt.Errorf("read seed file %s: %w", path, err)
	}

	var seed seedFile
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(dateToStringHook),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &seed,
	})
	if err != nil {
		return seedFile{}, err
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return seedFile{}, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	return seed, nil
}

// dateToStringHook renders native date values (toml dates) as YYYY-MM-DD.
func dateToStringHook(from, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String {
		return data, nil
	}
	if t, ok := data.(time.Time); ok {
		return t.Format(time.DateOnly), nil
	}
	return data, nil
}

func (c *cli) importSeed(ctx context.Context, engine *matching.Engine, seed seedFile) (importSummary, error) {
	var summary importSummary

	companyIDs := make([]string, len(seed.Companies))
	for i, sc := range seed.Companies {
		hash, err := c.hashSecret(sc.Secret)
		if err != nil {
			return summary, err
		}
		company, err := engine.RegisterCompany(ctx, matching.Company{
			ID:         sc.ID,
			Name:       sc.Name,
			Sector:     sc.Sector,
			Address:    sc.Address,
			Email:      sc.Email,
			Phone:      sc.Phone,
			SecretHash: hash,
		})
		if err != nil {
			return summary, fmt.Errorf("company %q: %w", sc.Name, err)
		}
		companyIDs[i] = company.ID
		summary.companies++
	}

	for _, sc := range seed.Candidates {
		candidate, err := c.candidateFromSeed(sc)
		if err != nil {
			return summary, err
		}
		if err := engine.RegisterCandidate(ctx, candidate); err != nil {
			return summary, fmt.Errorf("candidate %s: %w", sc.ID, err)
		}
		summary.candidates++
	}

	for i, sc := range seed.Companies {
		for _, so := range sc.Offers {
			params, err := offerParamsFromSeed(companyIDs[i], so)
			if err != nil {
				return summary, err
			}
			offer, err := engine.PublishOffer(ctx, params)
			if err != nil {
				return summary, fmt.Errorf("offer %q: %w", so.Title, err)
			}
			summary.offers++

			for _, candidateID := range so.Applicants {
				if err := engine.Apply(ctx, candidateID, offer.ID); err != nil {
					return summary, fmt.Errorf("application of %s to %q: %w", candidateID, so.Title, err)
				}
				summary.applications++
			}
		}
		for _, candidateID := range sc.Wishlist {
			if err := engine.AddToWishlist(ctx, companyIDs[i], candidateID); err != nil {
				return summary, fmt.Errorf("wishlist of %q: %w", sc.Name, err)
			}
			summary.wishlisted++
		}
	}
	return summary, nil
}

func (c *cli) hashSecret(secret string) (string, error) {
	if secret == "" {
		return "", nil
	}
	return matching.HashSecret(secret, c.secretHash)
}

func (c *cli) candidateFromSeed(sc seedCandidate) (matching.Candidate, error) {
	hash, err := c.hashSecret(sc.Secret)
	if err != nil {
		return matching.Candidate{}, err
	}
	candidate := matching.Candidate{
		ID:         sc.ID,
		Name:       sc.Name,
		Surname:    sc.Surname,
		Email:      sc.Email,
		Phone:      sc.Phone,
		SecretHash: hash,
	}
	switch matching.CandidateKind(strings.ToLower(strings.TrimSpace(sc.Kind))) {
	case matching.KindStudent:
		candidate.Profile = matching.StudentProfile{Level: sc.Level, Field: sc.Field, Institution: sc.Institution}
	case matching.KindAlumnus:
		candidate.Profile = matching.AlumnusProfile{GraduationYear: sc.GraduationYear, JobTitle: sc.JobTitle, Employer: sc.Employer}
	default:
		return matching.Candidate{}, fmt.Errorf("candidate %s: unknown kind %q", sc.ID, sc.Kind)
	}
	return candidate, nil
}

func offerParamsFromSeed(companyID string, so seedOffer) (matching.PublishOfferParams, error) {
	params := matching.PublishOfferParams{
		CompanyID:   companyID,
		Title:       so.Title,
		Description: so.Description,
	}
	if so.ExpiresAt != "" {
		date, err := time.Parse(time.DateOnly, so.ExpiresAt)
		if err != nil {
			return params, fmt.Errorf("offer %q: invalid expires_at %q", so.Title, so.ExpiresAt)
		}
		params.ExpiresAt = &date
	}

	offerType, ok := matching.ParseOfferType(so.Type)
	if !ok {
		return params, fmt.Errorf("offer %q: unknown type %q", so.Title, so.Type)
	}
	switch offerType {
	case matching.OfferInternship:
		params.Details = matching.InternshipDetails{DurationMonths: so.DurationMonths, Domain: so.Domain}
	case matching.OfferApprenticeship:
		params.Details = matching.ApprenticeshipDetails{DurationMonths: so.DurationMonths, Rhythm: so.Rhythm}
	case matching.OfferThesis:
		params.Details = matching.ThesisDetails{Subject: so.Subject, Technologies: so.Technologies}
	}
	return params, nil
}
