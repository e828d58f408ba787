package simulator

import (
	"math"
	"math/rand"
	"testing"
)

func TestAdvanceSignalStaysInTransducerRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	v := 2.8
	for i := 0; i < 10000; i++ {
		v = AdvanceSignal(v, 0.06, rng)
		if v < 1.0 || v > 5.0 {
			t.Fatalf("step %d: volts %v out of [1,5]", i, v)
		}
	}
}

func TestAdvanceSignalClampsAtBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 100; i++ {
		if v := AdvanceSignal(1.0, 0.5, rng); v < 1.0 {
			t.Fatalf("clamped low bound violated: %v", v)
		}
		if v := AdvanceSignal(5.0, 0.5, rng); v > 5.0 {
			t.Fatalf("clamped high bound violated: %v", v)
		}
	}
}

func TestAdvanceSignalDeterministicWithSeed(t *testing.T) {
	a := rand.New(rand.NewSource(7))
	b := rand.New(rand.NewSource(7))
	va, vb := 3.0, 3.0
	for i := 0; i < 50; i++ {
		va = AdvanceSignal(va, 0.06, a)
		vb = AdvanceSignal(vb, 0.06, b)
		if va != vb {
			t.Fatalf("step %d: same seed diverged: %v vs %v", i, va, vb)
		}
	}
}

func TestToFlowRateMapping(t *testing.T) {
	span := 30.0
	cases := []struct {
		volts, want float64
	}{
		{1.0, 0},
		{5.0, span},
		{3.0, span / 2},
		{0.5, 0}, // below range floors at zero flow
	}
	for _, c := range cases {
		got := ToFlowRate(c.volts, span)
		if math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("ToFlowRate(%v, %v) = %v, want %v", c.volts, span, got, c.want)
		}
	}
}

func TestToFlowRateIsPure(t *testing.T) {
	first := ToFlowRate(2.6, 30)
	for i := 0; i < 10; i++ {
		if got := ToFlowRate(2.6, 30); got != first {
			t.Fatalf("same input gave %v then %v", first, got)
		}
	}
}
