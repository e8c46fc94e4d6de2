package ranking

import (
	"context"

	"go.uber.org/zap"

	"github.com/talentmarket/talent-match/internal/talent"
)

type publishedOnlyStep struct{}

// NewPublishedOnly creates a step that removes every posting that is not in
// the PUBLISHED status. Only published postings are eligible for matching.
func NewPublishedOnly() Step {
	return &publishedOnlyStep{}
}

func (s *publishedOnlyStep) Name() string { return "published_only" }

func (s *publishedOnlyStep) Apply(_ context.Context, deps Deps, p *talent.Postings) (*talent.Postings, Stat, error) {
	initial := p.Len()
	excluded := p.ExcludeUnpublished()
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding unpublished postings",
			zap.Strings("excluded_postings", excluded),
			zap.Int("postings_left", p.Len()),
		)
	}
	return p, Stat{Initial: initial, Dropped: len(excluded), Left: p.Len()}, nil
}

type appliedHistoryStep struct {
	appliedIDs []string
	ignore     bool
}

// NewAppliedHistory creates a step that removes postings the talent already
// applied to. With ignore set the step keeps them, which is useful when the
// caller explicitly asked to see applied postings again.
func NewAppliedHistory(appliedIDs []string, ignore bool) Step {
	return &appliedHistoryStep{appliedIDs: appliedIDs, ignore: ignore}
}

func (s *appliedHistoryStep) Name() string { return "applied_history" }

func (s *appliedHistoryStep) Apply(_ context.Context, deps Deps, p *talent.Postings) (*talent.Postings, Stat, error) {
	initial := p.Len()
	if s.ignore {
		if deps.Logger != nil {
			deps.Logger.Info("keeping already applied postings", zap.String("reason", "requested via flag"))
		}
		return p, Stat{Initial: initial, Dropped: 0, Left: p.Len()}, nil
	}

	excluded := p.Exclude(s.appliedIDs)
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding postings based on application history",
			zap.Strings("excluded_postings", excluded),
			zap.Int("postings_left", p.Len()),
		)
	}
	return p, Stat{Initial: initial, Dropped: len(excluded), Left: p.Len()}, nil
}
