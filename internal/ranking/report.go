package ranking

import (
	"encoding/json"
	"fmt"
	"os"
)

// Report returns the ranked list as printable rows, keyed by posting.
func (o *Outcome) Report() []map[string]string {
	rows := make([]map[string]string, 0, len(o.Items))
	for _, item := range o.Items {
		row := map[string]string{
			"job_id":           item.Posting.ID,
			"title":            item.Posting.Title,
			"match_score":      fmt.Sprintf("%.2f", item.Match.Score),
			"skill_score":      fmt.Sprintf("%.2f", item.Match.SkillScore),
			"rate_score":       fmt.Sprintf("%.2f", item.Match.RateScore),
			"availability":     fmt.Sprintf("%.2f", item.Match.Availability),
			"completion_bonus": fmt.Sprintf("%.2f", item.Match.CompletionBonus),
		}
		if item.Posting.Salary.Set {
			row["salary"] = fmt.Sprintf("%.0f-%.0f", item.Posting.Salary.Min, item.Posting.Salary.Max)
		}
		if item.Match.HasApplied {
			row["has_applied"] = "true"
		}
		rows = append(rows, row)
	}
	return rows
}

// DumpToTmpFile writes the outcome as indented JSON to a temp file and
// returns its name.
func (o *Outcome) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "recommendations_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(o); err != nil {
		return "", err
	}
	return file.Name(), nil
}
