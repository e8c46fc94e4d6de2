package scoring

// DefaultThreshold is the completion percentage that unlocks recommendations.
const DefaultThreshold = 80.0

// Gate decides whether a profile is ready for matching. Readiness is always
// derived from a completion value; it has no independent state.
type Gate struct {
	Threshold float64
}

// NewGate returns a gate with the given threshold. A non-positive threshold
// falls back to the default.
func NewGate(threshold float64) Gate {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return Gate{Threshold: threshold}
}

// IsReady reports whether completion meets the threshold. Equality is ready.
func (g Gate) IsReady(completion float64) bool {
	return completion >= g.Threshold
}
