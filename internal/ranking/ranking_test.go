package ranking

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/talentmarket/talent-match/internal/matching"
	"github.com/talentmarket/talent-match/internal/scoring"
	"github.com/talentmarket/talent-match/internal/talent"
)

func readyProfile() *talent.Profile {
	return &talent.Profile{
		UserID:    "u1",
		FirstName: "Jane",
		LastName:  "Doe",
		Headline:  "Senior backend engineer building data platforms",
		Bio:       strings.Repeat("x", 120),
		Skills: []talent.SkillRef{
			{ID: "go"}, {ID: "sql"}, {ID: "k8s"},
		},
		HourlyRate:   talent.Rate{Set: true, Amount: 50},
		PortfolioURL: "https://example.com/jane",
		Availability: talent.AvailabilityOpen,
		Completion:   100,
	}
}

func posting(id string, skillIDs ...string) *talent.JobPosting {
	job := &talent.JobPosting{ID: id, Status: talent.StatusPublished}
	for _, skillID := range skillIDs {
		job.RequiredSkills = append(job.RequiredSkills, talent.SkillRef{ID: skillID})
	}
	return job
}

func newTestRanker(appliedIDs []string, includeApplied bool) *Ranker {
	applied := make(map[string]struct{}, len(appliedIDs))
	for _, id := range appliedIDs {
		applied[id] = struct{}{}
	}

	ranker := New(
		scoring.NewScorer(scoring.DefaultWeights()),
		scoring.NewGate(scoring.DefaultThreshold),
		matching.NewScorer(func(jobID string) bool {
			_, ok := applied[jobID]
			return ok
		}),
		zap.NewNop(),
		NewPublishedOnly(),
		NewAppliedHistory(appliedIDs, includeApplied),
	)
	ranker.IncludeApplied = includeApplied
	return ranker
}

func TestRankRejectsInvalidLimit(t *testing.T) {
	ranker := newTestRanker(nil, false)

	for _, limit := range []int{0, -1} {
		_, err := ranker.Rank(context.Background(), readyProfile(), &talent.Postings{}, limit)
		if !errors.Is(err, talent.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument for limit %d, got %v", limit, err)
		}
	}
}

func TestRankNotReadyProfileReturnsNothing(t *testing.T) {
	ranker := newTestRanker(nil, false)

	postings := &talent.Postings{Items: []*talent.JobPosting{posting("j1", "go")}}
	outcome, err := ranker.Rank(context.Background(), &talent.Profile{UserID: "u1"}, postings, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !outcome.NotReady {
		t.Fatalf("expected NotReady for an empty profile")
	}
	if len(outcome.Items) != 0 {
		t.Fatalf("expected no recommendations, got %d", len(outcome.Items))
	}
	if outcome.Completion != 0 {
		t.Fatalf("expected completion 0, got %v", outcome.Completion)
	}
}

func TestRankExcludesAppliedPostings(t *testing.T) {
	ranker := newTestRanker([]string{"j2"}, false)

	postings := &talent.Postings{Items: []*talent.JobPosting{
		posting("j1", "go"),
		posting("j2", "go", "sql"),
		posting("j3", "sql"),
	}}

	outcome, err := ranker.Rank(context.Background(), readyProfile(), postings, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, item := range outcome.Items {
		if item.Posting.ID == "j2" {
			t.Fatalf("applied posting j2 must not be recommended")
		}
	}
	if len(outcome.Items) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(outcome.Items))
	}
}

func TestRankIncludeAppliedKeepsFlaggedPostings(t *testing.T) {
	ranker := newTestRanker([]string{"j1"}, true)

	postings := &talent.Postings{Items: []*talent.JobPosting{posting("j1", "go")}}
	outcome, err := ranker.Rank(context.Background(), readyProfile(), postings, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(outcome.Items) != 1 {
		t.Fatalf("expected the applied posting to be kept, got %d items", len(outcome.Items))
	}
	if !outcome.Items[0].Match.HasApplied {
		t.Fatalf("expected the kept posting to be flagged as applied")
	}
}

func TestRankExcludesUnpublishedPostings(t *testing.T) {
	ranker := newTestRanker(nil, false)

	draft := posting("j1", "go")
	draft.Status = "DRAFT"
	postings := &talent.Postings{Items: []*talent.JobPosting{
		draft,
		posting("j2", "go"),
	}}

	outcome, err := ranker.Rank(context.Background(), readyProfile(), postings, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(outcome.Items) != 1 || outcome.Items[0].Posting.ID != "j2" {
		t.Fatalf("expected only the published posting, got %+v", outcome.Items)
	}
}

func TestRankSortsByScoreDescending(t *testing.T) {
	ranker := newTestRanker(nil, false)

	// j_low shares 1 of 3 profile skills, j_high all 3.
	postings := &talent.Postings{Items: []*talent.JobPosting{
		posting("j_low", "go"),
		posting("j_high", "go", "sql", "k8s"),
	}}

	outcome, err := ranker.Rank(context.Background(), readyProfile(), postings, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if outcome.Items[0].Posting.ID != "j_high" {
		t.Fatalf("expected j_high first, got %s", outcome.Items[0].Posting.ID)
	}
	if outcome.Items[0].Match.Score <= outcome.Items[1].Match.Score {
		t.Fatalf("expected descending scores, got %v then %v",
			outcome.Items[0].Match.Score, outcome.Items[1].Match.Score)
	}
}

func TestRankBreaksTiesByPostingID(t *testing.T) {
	ranker := newTestRanker(nil, false)

	// Identical postings score identically; order must not depend on fetch
	// order.
	postings := &talent.Postings{Items: []*talent.JobPosting{
		posting("j9", "go"),
		posting("j1", "go"),
		posting("j5", "go"),
	}}

	outcome, err := ranker.Rank(context.Background(), readyProfile(), postings, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{"j1", "j5", "j9"}
	for idx, id := range expected {
		if outcome.Items[idx].Posting.ID != id {
			t.Fatalf("expected %s at rank %d, got %s", id, idx, outcome.Items[idx].Posting.ID)
		}
	}
}

func TestRankTruncatesToLimit(t *testing.T) {
	ranker := newTestRanker(nil, false)

	postings := &talent.Postings{Items: []*talent.JobPosting{
		posting("j1", "go"),
		posting("j2", "go"),
		posting("j3", "go"),
		posting("j4", "go"),
	}}

	outcome, err := ranker.Rank(context.Background(), readyProfile(), postings, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(outcome.Items) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(outcome.Items))
	}
}

func TestRankNilPostings(t *testing.T) {
	ranker := newTestRanker(nil, false)

	outcome, err := ranker.Rank(context.Background(), readyProfile(), nil, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.NotReady || len(outcome.Items) != 0 {
		t.Fatalf("expected a ready outcome with no items, got %+v", outcome)
	}
}
