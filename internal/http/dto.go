package http

import (
	"time"

	"github.com/example/talent-matching/internal/matching"
)

const dateLayout = time.DateOnly

type offerDTO struct {
	ID             string  `json:"id"`
	CompanyID      string  `json:"company_id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Type           string  `json:"type"`
	PublishedAt    string  `json:"published_at"`
	ExpiresAt      *string `json:"expires_at,omitempty"`
	Expired        bool    `json:"expired"`
	DurationMonths int     `json:"duration_months,omitempty"`
	Domain         string  `json:"domain,omitempty"`
	Rhythm         string  `json:"rhythm,omitempty"`
	Subject        string  `json:"subject,omitempty"`
	Technologies   string  `json:"technologies,omitempty"`
}

func toOfferDTO(o matching.Offer, now time.Time) offerDTO {
	dto := offerDTO{
		ID:          o.ID,
		CompanyID:   o.CompanyID,
		Title:       o.Title,
		Description: o.Description,
		Type:        string(o.Type()),
		PublishedAt: o.PublishedAt.UTC().Format(time.RFC3339),
		Expired:     o.IsExpired(now),
	}
	if o.ExpiresAt != nil {
		expires := o.ExpiresAt.Format(dateLayout)
		dto.ExpiresAt = &expires
	}
	switch d := o.Details.(type) {
	case matching.InternshipDetails:
		dto.DurationMonths = d.DurationMonths
		dto.Domain = d.Domain
	case matching.ApprenticeshipDetails:
		dto.DurationMonths = d.DurationMonths
		dto.Rhythm = d.Rhythm
	case matching.ThesisDetails:
		dto.Subject = d.Subject
		dto.Technologies = d.Technologies
	}
	return dto
}

func toOfferDTOs(offers []matching.Offer, now time.Time) []offerDTO {
	out := make([]offerDTO, 0, len(offers))
	for _, o := range offers {
		out = append(out, toOfferDTO(o, now))
	}
	return out
}

type candidateDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Surname        string `json:"surname"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	Kind           string `json:"kind"`
	Level          string `json:"level,omitempty"`
	Field          string `json:"field,omitempty"`
	Institution    string `json:"institution,omitempty"`
	GraduationYear int    `json:"graduation_year,omitempty"`
	JobTitle       string `json:"job_title,omitempty"`
	Employer       string `json:"employer,omitempty"`
}

func toCandidateDTO(c matching.Candidate) candidateDTO {
	dto := candidateDTO{
		ID:      c.ID,
		Name:    c.Name,
		Surname: c.Surname,
		Email:   c.Email,
		Phone:   c.Phone,
		Kind:    string(c.Kind()),
	}
	switch p := c.Profile.(type) {
	case matching.StudentProfile:
		dto.Level = p.Level
		dto.Field = p.Field
		dto.Institution = p.Institution
	case matching.AlumnusProfile:
		dto.GraduationYear = p.GraduationYear
		dto.JobTitle = p.JobTitle
		dto.Employer = p.Employer
	}
	return dto
}

func toCandidateDTOs(candidates []matching.Candidate) []candidateDTO {
	out := make([]candidateDTO, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, toCandidateDTO(c))
	}
	return out
}

type recommendationDTO struct {
	OfferID string  `json:"offer_id"`
	Title   string  `json:"title"`
	Type    string  `json:"type"`
	Company string  `json:"company_id"`
	Score   float64 `json:"score"`
}

func toRecommendationDTOs(recs []matching.Recommendation) []recommendationDTO {
	out := make([]recommendationDTO, 0, len(recs))
	for _, r := range recs {
		out = append(out, recommendationDTO{
			OfferID: r.Offer.ID,
			Title:   r.Offer.Title,
			Type:    string(r.Offer.Type()),
			Company: r.Offer.CompanyID,
			Score:   r.Score,
		})
	}
	return out
}

type breakdownDTO struct {
	Kind       string  `json:"kind"`
	Field      float64 `json:"field"`
	FieldHits  int     `json:"field_hits"`
	Level      float64 `json:"level"`
	Recency    float64 `json:"recency"`
	Popularity float64 `json:"popularity"`
	Sector     float64 `json:"sector"`
	Base       float64 `json:"base"`
	TypeBonus  float64 `json:"type_bonus"`
	TitleBonus float64 `json:"title_bonus"`
	Total      float64 `json:"total"`
}

func toBreakdownDTO(b matching.Breakdown) breakdownDTO {
	return breakdownDTO{
		Kind:       string(b.Kind),
		Field:      b.Field,
		FieldHits:  b.FieldHits,
		Level:      b.Level,
		Recency:    b.Recency,
		Popularity: b.Popularity,
		Sector:     b.Sector,
		Base:       b.Base,
		TypeBonus:  b.TypeBonus,
		TitleBonus: b.TitleBonus,
		Total:      b.Total,
	}
}
