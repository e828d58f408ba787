package simulator

import "math/rand"

// AdvanceSignal applies one bounded random-walk step to an analog reading and
// clamps it to the 1–5 V transducer range.
func AdvanceSignal(prevVolts, stepBound float64, rng *rand.Rand) float64 {
	return clamp(prevVolts+uniform(rng, -stepBound, stepBound), 1.0, 5.0)
}

// ToFlowRate maps a 1–5 V reading linearly onto 0..span m3/min. Readings
// below 1 V floor at zero flow.
func ToFlowRate(volts, span float64) float64 {
	q := ((volts - 1.0) / 4.0) * span
	if q < 0 {
		return 0
	}
	return q
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
