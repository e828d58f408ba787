package model

import "time"

// Config holds the engineering constants of a simulation run. Immutable after
// load, shared by every device in the fleet.
type Config struct {
	FlowSpanM3Min     float64 // 1–5 V maps to 0..span m3/min of gas
	ConcentrationMgM3 float64 // chemical concentration required in the gas
	DensityGCm3       float64 // chemical density
	DisplacementACm3  float64 // volume per stroke, pump A
	DisplacementBCm3  float64 // volume per stroke, pump B
	TankLiters        float64 // tank capacity
	MaxStrokesPerMin  float64 // mechanical stroke-rate ceiling
	SensorFailProb    float64 // per-tick probability the DI sensor reads FAIL
	NoisePct          float64 // ± multiplicative dosing noise, e.g. 0.03
	Period            time.Duration
}

// Displacement returns the stroke volume of the given pump.
func (c Config) Displacement(p Pump) float64 {
	if p == PumpA {
		return c.DisplacementACm3
	}
	return c.DisplacementBCm3
}
