package simulator

import "math/rand"

// SampleInjectionSensor rolls the per-tick Bernoulli failure of the liquid
// detection input. Returns true when liquid is detected (DI open / OK).
// Trials are independent across ticks and devices.
func SampleInjectionSensor(failProb float64, rng *rand.Rand) bool {
	return rng.Float64() >= failProb
}

// NextNoDetectCount applies the detection-tracking rule: while the sensor is
// failed or the pump issued no pulses, the counter accumulates this tick's
// pulses (possibly zero, so it can stay flat without resetting). A confirmed
// detection with at least one pulse clears it.
func NextNoDetectCount(count int, detected bool, pulses int) int {
	if !detected || pulses == 0 {
		return count + pulses
	}
	return 0
}
