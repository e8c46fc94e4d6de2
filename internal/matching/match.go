// Package matching scores the fit between one talent profile and one job
// posting.
package matching

import (
	"fmt"
	"math"

	"github.com/talentmarket/talent-match/internal/talent"
)

// Component weights. They sum to 100, so a match score is a percentage.
const (
	WeightSkills          = 60.0
	WeightRate            = 20.0
	WeightAvailability    = 10.0
	WeightCompletionBonus = 10.0

	// Awarded when the profile states a rate but the posting carries no
	// salary range to compare against.
	flatRateScore = 10.0
)

// Result is the outcome of scoring one posting for one profile.
type Result struct {
	JobID           string
	Score           float64
	SkillScore      float64
	RateScore       float64
	Availability    float64
	CompletionBonus float64
	HasApplied      bool
}

// AppliedFunc reports whether the profile being scored has already applied to
// the given posting. Injected so the scorer itself stays pure.
type AppliedFunc func(jobID string) bool

// Scorer computes match results. The zero applied predicate means "never
// applied".
type Scorer struct {
	applied AppliedFunc
}

func NewScorer(applied AppliedFunc) *Scorer {
	return &Scorer{applied: applied}
}

// MatchOne scores a single posting against a profile. Callers are expected to
// pass only PUBLISHED postings; filtering is not this function's job.
func (s *Scorer) MatchOne(profile *talent.Profile, job *talent.JobPosting) (*Result, error) {
	if profile == nil || job == nil {
		return nil, fmt.Errorf("profile and job are required: %w", talent.ErrInvalidArgument)
	}
	if profile.HourlyRate.Set && (math.IsNaN(profile.HourlyRate.Amount) || profile.HourlyRate.Amount < 0) {
		return nil, fmt.Errorf("hourly rate %v is not scorable: %w", profile.HourlyRate.Amount, talent.ErrInvalidArgument)
	}
	if job.Salary.Set && (math.IsNaN(job.Salary.Min) || math.IsNaN(job.Salary.Max) || job.Salary.Min < 0 || job.Salary.Max < 0) {
		return nil, fmt.Errorf("salary range %v-%v of job %s is not scorable: %w",
			job.Salary.Min, job.Salary.Max, job.ID, talent.ErrInvalidArgument)
	}

	result := &Result{
		JobID:           job.ID,
		SkillScore:      skillScore(profile, job),
		RateScore:       rateScore(profile, job),
		CompletionBonus: completionBonus(profile),
	}

	// Only currently-biddable talents get availability credit. Busy and
	// unset are the same here, unlike in the completeness scorer.
	if profile.Availability == talent.AvailabilityOpen {
		result.Availability = WeightAvailability
	}

	if s.applied != nil {
		result.HasApplied = s.applied(job.ID)
	}

	result.Score = result.SkillScore + result.RateScore + result.Availability + result.CompletionBonus
	return result, nil
}

// skillScore normalizes the skill overlap by the larger of the two skill-set
// sizes, so both missing skills and piles of irrelevant extra skills lower the
// score. A posting listing no skills cannot be skill-matched at all.
func skillScore(profile *talent.Profile, job *talent.JobPosting) float64 {
	jobIDs := job.SkillIDs()
	if len(jobIDs) == 0 {
		return 0
	}

	profileIDs := profile.SkillIDs()
	held := make(map[string]struct{}, len(profileIDs))
	for _, id := range profileIDs {
		held[id] = struct{}{}
	}

	matching := 0
	for _, id := range jobIDs {
		if _, ok := held[id]; ok {
			matching++
		}
	}

	denominator := len(jobIDs)
	if len(profileIDs) > denominator {
		denominator = len(profileIDs)
	}
	return float64(matching) / float64(denominator) * WeightSkills
}

func rateScore(profile *talent.Profile, job *talent.JobPosting) float64 {
	if !profile.HourlyRate.Set || profile.HourlyRate.Amount <= 0 {
		return 0
	}

	mid := (job.Salary.Min + job.Salary.Max) / 2
	if !job.Salary.Set || mid <= 0 {
		return flatRateScore
	}

	diff := math.Abs(profile.HourlyRate.Amount-mid) / mid
	return math.Max(0, (1-diff)*WeightRate)
}

// completionBonus rewards well-filled profiles using the cached completion
// value carried on the profile record. Minor staleness is tolerated; the
// alternative is a full completeness recompute per posting.
func completionBonus(profile *talent.Profile) float64 {
	completion := math.Min(math.Max(profile.Completion, 0), 100)
	return completion / 100 * WeightCompletionBonus
}
