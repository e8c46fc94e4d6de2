package talent

import "testing"

func testPostings() *Postings {
	return &Postings{Items: []*JobPosting{
		{ID: "j1", Status: StatusPublished},
		{ID: "j2", Status: "DRAFT"},
		{ID: "j3", Status: StatusPublished},
		{ID: "j4", Status: "CLOSED"},
	}}
}

func TestPostingsExcludePreservesOrder(t *testing.T) {
	postings := testPostings()

	excluded := postings.Exclude([]string{"j2", "missing"})

	if len(excluded) != 1 || excluded[0] != "j2" {
		t.Fatalf("expected only j2 excluded, got %v", excluded)
	}

	expected := []string{"j1", "j3", "j4"}
	if postings.Len() != len(expected) {
		t.Fatalf("expected %d postings left, got %d", len(expected), postings.Len())
	}
	for idx, id := range expected {
		if postings.Items[idx].ID != id {
			t.Fatalf("expected %s at position %d, got %s", id, idx, postings.Items[idx].ID)
		}
	}
}

func TestPostingsExcludeUnpublished(t *testing.T) {
	postings := testPostings()

	excluded := postings.ExcludeUnpublished()

	if len(excluded) != 2 {
		t.Fatalf("expected 2 postings excluded, got %v", excluded)
	}
	for _, item := range postings.Items {
		if item.Status != StatusPublished {
			t.Fatalf("unpublished posting %s survived", item.ID)
		}
	}
}

func TestPostingsFindByID(t *testing.T) {
	postings := testPostings()

	if found := postings.FindByID("j3"); found == nil || found.ID != "j3" {
		t.Fatalf("expected to find j3, got %v", found)
	}
	if found := postings.FindByID("nope"); found != nil {
		t.Fatalf("expected nil for unknown id, got %v", found)
	}
}

func TestProfileSkillIDsDeduplicates(t *testing.T) {
	profile := &Profile{Skills: []SkillRef{
		{ID: "go"}, {ID: "sql"}, {ID: "go"}, {ID: "k8s"}, {ID: "sql"},
	}}

	ids := profile.SkillIDs()
	expected := []string{"go", "sql", "k8s"}
	if len(ids) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, ids)
	}
	for idx, id := range expected {
		if ids[idx] != id {
			t.Fatalf("expected %v, got %v", expected, ids)
		}
	}
}

func TestParseAvailability(t *testing.T) {
	tests := []struct {
		input    string
		expected Availability
	}{
		{"Open", AvailabilityOpen},
		{"Busy", AvailabilityBusy},
		{" Open ", AvailabilityOpen},
		{"", AvailabilityUnset},
		{"whatever", AvailabilityUnset},
	}

	for _, tt := range tests {
		if got := ParseAvailability(tt.input); got != tt.expected {
			t.Fatalf("ParseAvailability(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}
