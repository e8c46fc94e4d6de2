package scoring

import "testing"

func TestGateBoundaryEqualityIsReady(t *testing.T) {
	gate := NewGate(80)

	if !gate.IsReady(80) {
		t.Fatalf("expected completion equal to threshold to be ready")
	}
	if gate.IsReady(79.9) {
		t.Fatalf("expected completion below threshold to be not ready")
	}
	if !gate.IsReady(100) {
		t.Fatalf("expected full completion to be ready")
	}
}

func TestGateDefaultThreshold(t *testing.T) {
	gate := NewGate(0)

	if gate.Threshold != DefaultThreshold {
		t.Fatalf("expected default threshold %v, got %v", DefaultThreshold, gate.Threshold)
	}
}

func TestGateCustomThreshold(t *testing.T) {
	gate := NewGate(50)

	if !gate.IsReady(50) {
		t.Fatalf("expected 50 to be ready at threshold 50")
	}
	if gate.IsReady(49) {
		t.Fatalf("expected 49 to be not ready at threshold 50")
	}
}
