package simulator

import (
	"math"
	"math/rand"
	"time"
)

// Dosing is the outcome of the dosing computation for one tick.
type Dosing struct {
	SpmTeo      float64 // theoretical strokes/min to dose the gas stream
	SpmReal     float64 // achieved strokes/min after noise and ceiling
	UnderLimit  bool    // the mechanical ceiling suppressed the required rate
	MismatchPct float64 // 100*|real-teo|/teo, one decimal, 0 when teo is 0
}

// ComputeDosing derives the stroke rate needed to dose flowRate m3/min of gas
// at the configured concentration, then applies multiplicative noise and the
// mechanical ceiling. A zero displacement yields a zero rate rather than an
// error: a degenerate config must never crash the run.
func ComputeDosing(flowRate, displacementCm3, concMgM3, densityGCm3, noisePct, maxSpm float64, rng *rand.Rand) Dosing {
	var teo float64
	if displacementCm3 > 0 {
		teo = (flowRate * concMgM3) / (1000.0 * densityGCm3 * displacementCm3)
	}

	actual := teo * (1.0 + uniform(rng, -noisePct, noisePct))
	under := false
	if actual > maxSpm {
		actual = maxSpm
		under = true
	}

	mismatch := 0.0
	if teo != 0 {
		mismatch = round1(math.Abs(actual-teo) / teo * 100.0)
	}

	return Dosing{SpmTeo: teo, SpmReal: actual, UnderLimit: under, MismatchPct: mismatch}
}

// PulseCount converts a stroke rate into whole pulses for one tick period.
// Fractional strokes are not meaningful; the count never goes negative.
func PulseCount(spm float64, period time.Duration) int {
	n := int(math.Round(spm * period.Seconds() / 60.0))
	if n < 0 {
		return 0
	}
	return n
}
