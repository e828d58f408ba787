package simulator

// ConsumeTank depletes the tank by the chemical volume delivered this tick
// (cm3 → L). The tank floors at empty; it never goes negative.
func ConsumeTank(tankL float64, pulses int, displacementCm3 float64) float64 {
	v := tankL - float64(pulses)*displacementCm3/1000.0
	if v < 0 {
		return 0
	}
	return v
}

// LevelPercent is the tank fill percentage. A zero capacity reads as 0%.
func LevelPercent(tankL, capacityL float64) float64 {
	if capacityL <= 0 {
		return 0
	}
	return 100.0 * tankL / capacityL
}

// LevelVolts maps a fill percentage onto the 1–5 V transducer convention,
// the inverse of the flow mapping.
func LevelVolts(pct float64) float64 {
	return 1.0 + 4.0*clamp(pct, 0, 100)/100.0
}
