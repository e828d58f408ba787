package simulator

import (
	"math"
	"math/rand"
	"time"

	"github.com/soia-io/doser-sim/internal/model"
	"github.com/soia-io/doser-sim/internal/model/messages"
)

// flowStepVolts bounds the per-tick random walk of the flow transducer.
const flowStepVolts = 0.06

// TickRecords is the telemetry produced for one device on one tick.
type TickRecords struct {
	Flow   messages.FlowReading
	Sensor messages.InjectionSensorReading
	PulseA messages.PulseReading
	PulseB messages.PulseReading
	QA     messages.DosingCheck
	Level  messages.LevelReading
	Status *messages.ActiveDoserStatus // non-nil only on a rotation tick
}

// Step runs one simulation tick for a single device. The incoming state is
// taken by value and the successor returned, so each stage below is a pure
// transformation over the tick input.
//
// Order matters: rotation is resolved after this tick's pulse count and
// sensor sample are known, but before pulses are attributed and the tank is
// drained, so a failover tick charges its pulses and consumption to the pump
// that is active afterwards.
func Step(st model.DeviceState, cfg model.Config, rng *rand.Rand, now time.Time) (model.DeviceState, TickRecords) {
	ts := now.UTC().Format(time.RFC3339)

	// flow signal and engineering units
	st.FlowVolts = AdvanceSignal(st.FlowVolts, flowStepVolts, rng)
	qM3Min := ToFlowRate(st.FlowVolts, cfg.FlowSpanM3Min)

	// dosing against the pump active right now
	dosing := ComputeDosing(qM3Min, cfg.Displacement(st.Active), cfg.ConcentrationMgM3,
		cfg.DensityGCm3, cfg.NoisePct, cfg.MaxStrokesPerMin, rng)
	pulses := PulseCount(dosing.SpmReal, cfg.Period)

	// injection sensor and no-detection accounting
	detected := SampleInjectionSensor(cfg.SensorFailProb, rng)
	st.NoDetectCount = NextNoDetectCount(st.NoDetectCount, detected, pulses)

	// failover
	var rotated bool
	st.Active, st.NoDetectCount, rotated = EvaluateRotation(st.Active, st.NoDetectCount)

	// attribute pulses to the now-active pump
	if st.Active == model.PumpA {
		st.PulsesTotalA += int64(pulses)
	} else {
		st.PulsesTotalB += int64(pulses)
	}

	// tank depletion and level signal
	st.TankL = ConsumeTank(st.TankL, pulses, cfg.Displacement(st.Active))
	levelPct := LevelPercent(st.TankL, cfg.TankLiters)
	st.LevelVolts = LevelVolts(levelPct)

	rec := TickRecords{
		Flow: messages.FlowReading{
			Ts:     ts,
			Volts:  round3(st.FlowVolts),
			QM3Min: round3(qM3Min),
			QM3H:   round1(qM3Min * 60.0),
		},
		Sensor: messages.InjectionSensorReading{Ts: ts, State: sensorState(detected)},
		PulseA: pulseReading(ts, st.PulsesTotalA, pulses, dosing.SpmReal, cfg.DisplacementACm3, st.Active == model.PumpA),
		PulseB: pulseReading(ts, st.PulsesTotalB, pulses, dosing.SpmReal, cfg.DisplacementBCm3, st.Active == model.PumpB),
		QA: messages.DosingCheck{
			Ts:          ts,
			SpmTeo:      round3(dosing.SpmTeo),
			SpmReal:     round3(dosing.SpmReal),
			MismatchPct: dosing.MismatchPct,
			UnderLimit:  dosing.UnderLimit,
		},
		Level: messages.LevelReading{
			Ts:      ts,
			Volts:   round3(st.LevelVolts),
			Percent: round2(levelPct),
			TankL:   round3(st.TankL),
		},
	}
	if rotated {
		reason := RotationReason
		rec.Status = &messages.ActiveDoserStatus{Ts: ts, Active: string(st.Active), Reason: &reason}
	}
	return st, rec
}

func sensorState(detected bool) string {
	if detected {
		return "open"
	}
	return "closed"
}

// pulseReading builds the per-doser record; the inactive pump reports zero
// period pulses and zero rate so the dashboard can plot both series.
func pulseReading(ts string, total int64, pulses int, spm, emboladaCm3 float64, active bool) messages.PulseReading {
	r := messages.PulseReading{Ts: ts, PulsesTotal: total, EmboladaCm3: emboladaCm3}
	if active {
		r.PulsesPeriod = pulses
		r.RatePerMin = round3(spm)
	}
	return r
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }
func round2(x float64) float64 { return math.Round(x*100) / 100 }
func round3(x float64) float64 { return math.Round(x*1000) / 1000 }
