package simulator

import (
	"testing"

	"github.com/soia-io/doser-sim/internal/model"
)

func TestEvaluateRotationBelowThreshold(t *testing.T) {
	for count := 0; count < 5; count++ {
		pump, newCount, rotated := EvaluateRotation(model.PumpA, count)
		if rotated {
			t.Fatalf("count %d: rotation fired below threshold", count)
		}
		if pump != model.PumpA || newCount != count {
			t.Fatalf("count %d: no-op transition changed state: pump=%s count=%d", count, pump, newCount)
		}
	}
}

func TestEvaluateRotationAtThreshold(t *testing.T) {
	pump, count, rotated := EvaluateRotation(model.PumpA, 5)
	if !rotated || pump != model.PumpB || count != 0 {
		t.Fatalf("expected flip to B with reset, got pump=%s count=%d rotated=%v", pump, count, rotated)
	}

	// overshoot past the threshold rotates the same way
	pump, count, rotated = EvaluateRotation(model.PumpB, 6)
	if !rotated || pump != model.PumpA || count != 0 {
		t.Fatalf("expected flip to A with reset, got pump=%s count=%d rotated=%v", pump, count, rotated)
	}
}

func TestPumpOther(t *testing.T) {
	if model.PumpA.Other() != model.PumpB || model.PumpB.Other() != model.PumpA {
		t.Fatal("Other must flip between the two pumps")
	}
}
