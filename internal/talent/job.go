package talent

import (
	"time"
)

// StatusPublished is the only posting status eligible for matching.
const StatusPublished = "PUBLISHED"

// SalaryRange is an optional salary band on a posting. Set is true only when
// both bounds were provided.
type SalaryRange struct {
	Set bool
	Min float64
	Max float64
}

// JobPosting is a read-only job record from the store.
type JobPosting struct {
	ID             string
	Title          string
	Status         string
	RequiredSkills []SkillRef
	Salary         SalaryRange
	CreatedAt      time.Time
}

// SkillIDs returns the posting's required skill ids, deduplicated.
func (j *JobPosting) SkillIDs() []string {
	seen := make(map[string]struct{}, len(j.RequiredSkills))
	ids := make([]string, 0, len(j.RequiredSkills))
	for _, skill := range j.RequiredSkills {
		if _, ok := seen[skill.ID]; ok {
			continue
		}
		seen[skill.ID] = struct{}{}
		ids = append(ids, skill.ID)
	}
	return ids
}

// Postings is a mutable list of postings flowing through the ranking steps.
type Postings struct {
	Items []*JobPosting
}

func (p *Postings) Len() int {
	return len(p.Items)
}

func (p *Postings) FindByID(id string) *JobPosting {
	for _, posting := range p.Items {
		if posting.ID == id {
			return posting
		}
	}
	return nil
}

// Exclude removes postings whose id is in targets, preserving the order of the
// remaining items. It returns the ids actually removed.
func (p *Postings) Exclude(targets []string) []string {
	if len(targets) == 0 {
		return nil
	}
	drop := make(map[string]struct{}, len(targets))
	for _, id := range targets {
		drop[id] = struct{}{}
	}

	var excluded []string
	kept := p.Items[:0]
	for _, posting := range p.Items {
		if _, ok := drop[posting.ID]; ok {
			excluded = append(excluded, posting.ID)
			continue
		}
		kept = append(kept, posting)
	}
	p.Items = kept
	return excluded
}

// ExcludeUnpublished removes every posting that is not PUBLISHED and returns
// the removed ids.
func (p *Postings) ExcludeUnpublished() []string {
	var excluded []string
	kept := p.Items[:0]
	for _, posting := range p.Items {
		if posting.Status != StatusPublished {
			excluded = append(excluded, posting.ID)
			continue
		}
		kept = append(kept, posting)
	}
	p.Items = kept
	return excluded
}
