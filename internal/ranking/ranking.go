// Package ranking orchestrates match scoring over a set of open postings and
// produces a ranked recommendation list.
package ranking

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/talentmarket/talent-match/internal/matching"
	"github.com/talentmarket/talent-match/internal/scoring"
	"github.com/talentmarket/talent-match/internal/talent"
)

// Step is a single pre-scoring filtering step applied to the posting list.
type Step interface {
	Name() string
	Apply(ctx context.Context, deps Deps, p *talent.Postings) (*talent.Postings, Stat, error)
}

// Deps aggregates dependencies shared across the ranking steps.
type Deps struct {
	Logger  *zap.Logger
	Profile *talent.Profile
}

// Stat describes the result of executing one step.
type Stat struct {
	Initial int
	Dropped int
	Left    int
}

// RankedPosting pairs a posting with its match result.
type RankedPosting struct {
	Posting *talent.JobPosting
	Match   *matching.Result
}

// Outcome is the result of one ranking run. NotReady distinguishes "profile
// below the readiness threshold" from a ready profile with no matches, so
// callers can route the talent to profile completion instead of an empty
// feed.
type Outcome struct {
	NotReady   bool
	Completion float64
	Items      []*RankedPosting
}

// Ranker gates on readiness, runs the filtering steps, scores what is left
// and returns the top matches.
type Ranker struct {
	scorer  *scoring.Scorer
	gate    scoring.Gate
	matcher *matching.Scorer
	steps   []Step
	logger  *zap.Logger

	// IncludeApplied keeps already-applied postings in the result, flagged
	// via the match result, instead of dropping them.
	IncludeApplied bool
}

func New(scorer *scoring.Scorer, gate scoring.Gate, matcher *matching.Scorer, logger *zap.Logger, steps ...Step) *Ranker {
	return &Ranker{
		scorer:  scorer,
		gate:    gate,
		matcher: matcher,
		steps:   steps,
		logger:  logger,
	}
}

// Rank scores every posting that survives the steps, drops postings the
// profile already applied to, sorts by score descending and truncates to
// limit. Ties are broken by posting id ascending so equal scores rank
// deterministically regardless of fetch order.
func (r *Ranker) Rank(ctx context.Context, profile *talent.Profile, postings *talent.Postings, limit int) (*Outcome, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d: %w", limit, talent.ErrInvalidArgument)
	}
	if postings == nil {
		postings = &talent.Postings{}
	}

	// Readiness is recomputed from the raw profile here. The cached
	// completion on the record is a projection, never an authority.
	breakdown, err := r.scorer.Score(profile)
	if err != nil {
		return nil, fmt.Errorf("scoring profile: %w", err)
	}

	if !r.gate.IsReady(breakdown.Completion) {
		if r.logger != nil {
			r.logger.Info("profile below readiness threshold",
				zap.Float64("completion", breakdown.Completion),
				zap.Float64("threshold", r.gate.Threshold),
				zap.Strings("missing_fields", breakdown.MissingFields),
			)
		}
		return &Outcome{NotReady: true, Completion: breakdown.Completion}, nil
	}

	for _, step := range r.steps {
		next, stat, err := step.Apply(ctx, Deps{Logger: r.logger, Profile: profile}, postings)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
		if r.logger != nil {
			r.logger.Info("ranking step",
				zap.String("name", step.Name()),
				zap.Int("initial", stat.Initial),
				zap.Int("dropped", stat.Dropped),
				zap.Int("left", stat.Left),
			)
		}
		postings = next
	}

	ranked := make([]*RankedPosting, 0, postings.Len())
	for _, posting := range postings.Items {
		result, err := r.matcher.MatchOne(profile, posting)
		if err != nil {
			return nil, fmt.Errorf("matching job %s: %w", posting.ID, err)
		}
		if result.HasApplied && !r.IncludeApplied {
			continue
		}
		ranked = append(ranked, &RankedPosting{Posting: posting, Match: result})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Match.Score != ranked[j].Match.Score {
			return ranked[i].Match.Score > ranked[j].Match.Score
		}
		return ranked[i].Posting.ID < ranked[j].Posting.ID
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return &Outcome{Completion: breakdown.Completion, Items: ranked}, nil
}
