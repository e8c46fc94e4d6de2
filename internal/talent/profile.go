package talent

import (
	"strings"
	"time"
)

// Availability is the talent's declared availability. Unset means the talent
// never picked a value, which is distinct from being Busy.
type Availability int

const (
	AvailabilityUnset Availability = iota
	AvailabilityOpen
	AvailabilityBusy
)

func (a Availability) String() string {
	switch a {
	case AvailabilityOpen:
		return "Open"
	case AvailabilityBusy:
		return "Busy"
	default:
		return ""
	}
}

// ParseAvailability maps a stored string onto the enum. Unknown or empty
// values become Unset.
func ParseAvailability(s string) Availability {
	switch strings.TrimSpace(s) {
	case "Open":
		return AvailabilityOpen
	case "Busy":
		return AvailabilityBusy
	default:
		return AvailabilityUnset
	}
}

// SkillRef is a reference to a marketplace skill. Skills are unique by ID.
type SkillRef struct {
	ID   string
	Name string
}

// Rate is an optional hourly rate. Set distinguishes "no rate given" from an
// explicit amount.
type Rate struct {
	Set    bool
	Amount float64
}

// Profile is a snapshot of a talent profile as read from the store. Scoring
// treats it as an immutable value.
type Profile struct {
	UserID       string
	FirstName    string
	LastName     string
	Headline     string
	Bio          string
	Skills       []SkillRef
	HourlyRate   Rate
	PortfolioURL string
	Availability Availability

	// Cached readiness projection maintained by the store. Always a derived
	// value; readers must be able to recompute it from the fields above.
	Completion      float64
	Ready           bool
	LastValidatedAt time.Time
}

// HasFullName reports whether both name parts are present.
func (p *Profile) HasFullName() bool {
	return strings.TrimSpace(p.FirstName) != "" && strings.TrimSpace(p.LastName) != ""
}

// SkillIDs returns the profile's skill ids, deduplicated, in declaration order.
func (p *Profile) SkillIDs() []string {
	seen := make(map[string]struct{}, len(p.Skills))
	ids := make([]string, 0, len(p.Skills))
	for _, skill := range p.Skills {
		if _, ok := seen[skill.ID]; ok {
			continue
		}
		seen[skill.ID] = struct{}{}
		ids = append(ids, skill.ID)
	}
	return ids
}
