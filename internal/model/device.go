package model

import "math/rand"

// Pump identifies one of the two displacement dosing pumps on a device.
type Pump string

const (
	PumpA Pump = "A"
	PumpB Pump = "B"
)

// Other returns the twin pump.
func (p Pump) Other() Pump {
	if p == PumpA {
		return PumpB
	}
	return PumpA
}

// DeviceState is the per-device mutable simulation state. One instance per
// device, owned by the simulation loop, stepped every tick. Nothing here is
// persisted: each run starts fresh.
type DeviceState struct {
	DeviceID      string
	Active        Pump
	NoDetectCount int     // pulses issued without confirmed liquid detection
	PulsesTotalA  int64   // lifetime pulse counters, never decrease
	PulsesTotalB  int64
	TankL         float64 // remaining chemical volume, [0, capacity]
	FlowVolts     float64 // flow transducer, [1.0, 5.0]
	LevelVolts    float64 // level transducer, [1.0, 5.0]
}

// NewDeviceState seeds a fresh device: pump A active, tank full, flow signal
// starting near mid-scale.
func NewDeviceState(deviceID string, cfg Config, rng *rand.Rand) DeviceState {
	return DeviceState{
		DeviceID:   deviceID,
		Active:     PumpA,
		TankL:      cfg.TankLiters,
		FlowVolts:  2.8 + (rng.Float64()*0.4 - 0.2),
		LevelVolts: 4.6,
	}
}
