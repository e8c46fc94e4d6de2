// Package scoring computes profile-completeness scores and the readiness gate
// that unlocks job recommendations.
package scoring

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/talentmarket/talent-match/internal/talent"
)

// Full-credit requirements for the partial-credit sub-scores.
const (
	MinHeadlineWords = 5
	MinSkills        = 3
	MinBioLength     = 100
)

// Missing-field labels, surfaced to the talent as outstanding requirements.
const (
	MissingName         = "Full name"
	MissingHeadline     = "Headline (min 5 words)"
	MissingSkills       = "Skills (min 3)"
	MissingExperience   = "Bio (min 100 characters)"
	MissingRate         = "Hourly rate"
	MissingPortfolio    = "Portfolio URL"
	MissingAvailability = "Availability"
)

// Weights holds the maximum value of each sub-score. The defaults sum to 100;
// custom weights should too, since Completion is reported as a percentage.
type Weights struct {
	Name         float64
	Headline     float64
	Skills       float64
	Experience   float64
	Rate         float64
	Portfolio    float64
	Availability float64
}

// DefaultWeights returns the marketplace's standard weighting.
func DefaultWeights() Weights {
	return Weights{
		Name:         10,
		Headline:     15,
		Skills:       20,
		Experience:   20,
		Rate:         15,
		Portfolio:    10,
		Availability: 10,
	}
}

// Breakdown is the result of scoring one profile. Completion is the rounded
// sum of the seven sub-scores; MissingFields lists, in canonical order, every
// sub-score that did not reach full credit, including partially credited ones.
type Breakdown struct {
	Name         float64
	Headline     float64
	Skills       float64
	Experience   float64
	Rate         float64
	Portfolio    float64
	Availability float64

	Completion    float64
	MissingFields []string
}

// Scorer computes completeness breakdowns with a fixed set of weights.
type Scorer struct {
	weights Weights
}

func NewScorer(weights Weights) *Scorer {
	return &Scorer{weights: weights}
}

// Score computes the completeness breakdown for a profile. Absent optional
// fields score zero; the only failure is a rate that is negative or NaN.
func (s *Scorer) Score(profile *talent.Profile) (*Breakdown, error) {
	if profile == nil {
		return nil, fmt.Errorf("profile is required: %w", talent.ErrInvalidArgument)
	}
	if profile.HourlyRate.Set && (math.IsNaN(profile.HourlyRate.Amount) || profile.HourlyRate.Amount < 0) {
		return nil, fmt.Errorf("hourly rate %v is not scorable: %w", profile.HourlyRate.Amount, talent.ErrInvalidArgument)
	}

	b := &Breakdown{}

	if profile.HasFullName() {
		b.Name = s.weights.Name
	}

	if len(strings.Fields(profile.Headline)) >= MinHeadlineWords {
		b.Headline = s.weights.Headline
	}

	skillCount := len(profile.SkillIDs())
	if skillCount >= MinSkills {
		b.Skills = s.weights.Skills
	} else {
		b.Skills = float64(skillCount) / MinSkills * s.weights.Skills
	}

	bioLength := utf8.RuneCountInString(profile.Bio)
	if bioLength >= MinBioLength {
		b.Experience = s.weights.Experience
	} else {
		b.Experience = float64(bioLength) / MinBioLength * s.weights.Experience
	}

	if profile.HourlyRate.Set && profile.HourlyRate.Amount > 0 {
		b.Rate = s.weights.Rate
	}

	if strings.TrimSpace(profile.PortfolioURL) != "" {
		b.Portfolio = s.weights.Portfolio
	}

	// Any declared value counts here, Busy included. Only the match scorer
	// cares whether the talent is currently biddable.
	if profile.Availability != talent.AvailabilityUnset {
		b.Availability = s.weights.Availability
	}

	b.Completion = math.Round(b.Name + b.Headline + b.Skills + b.Experience + b.Rate + b.Portfolio + b.Availability)
	b.MissingFields = s.missingFields(b)

	return b, nil
}

// missingFields reports every sub-score strictly below its weight, in the
// canonical order shown to the talent. Partial credit still counts as missing.
func (s *Scorer) missingFields(b *Breakdown) []string {
	missing := make([]string, 0, 7)
	checks := []struct {
		score  float64
		weight float64
		label  string
	}{
		{b.Name, s.weights.Name, MissingName},
		{b.Headline, s.weights.Headline, MissingHeadline},
		{b.Skills, s.weights.Skills, MissingSkills},
		{b.Experience, s.weights.Experience, MissingExperience},
		{b.Rate, s.weights.Rate, MissingRate},
		{b.Portfolio, s.weights.Portfolio, MissingPortfolio},
		{b.Availability, s.weights.Availability, MissingAvailability},
	}
	for _, check := range checks {
		if check.score < check.weight {
			missing = append(missing, check.label)
		}
	}
	return missing
}
