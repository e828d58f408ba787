package messages

// Telemetry payloads published per device, per tick. Field names are the
// dashboard contract and must not drift.

type FlowReading struct {
	Ts     string  `json:"ts"`
	Volts  float64 `json:"volts"`
	QM3Min float64 `json:"Q_m3min"`
	QM3H   float64 `json:"Q_m3h"`
}

// InjectionSensorReading reports the liquid-detection digital input:
// "open" = OK, "closed" = FAIL.
type InjectionSensorReading struct {
	Ts    string `json:"ts"`
	State string `json:"state"`
}

// PulseReading is emitted for both dosers every tick; the inactive pump
// reports zero period pulses and zero rate.
type PulseReading struct {
	Ts           string  `json:"ts"`
	PulsesTotal  int64   `json:"pulses_total"`
	PulsesPeriod int     `json:"pulses_period"`
	RatePerMin   float64 `json:"rate_per_min"`
	EmboladaCm3  float64 `json:"embolada_cm3"`
}

// DosingCheck is the QA record comparing intended and achieved stroke rates.
type DosingCheck struct {
	Ts          string  `json:"ts"`
	SpmTeo      float64 `json:"spm_teo"`
	SpmReal     float64 `json:"spm_real"`
	MismatchPct float64 `json:"mismatch_pct"`
	UnderLimit  bool    `json:"under_dosing_due_to_limit"`
}

type LevelReading struct {
	Ts      string  `json:"ts"`
	Volts   float64 `json:"volts"`
	Percent float64 `json:"percent"`
	TankL   float64 `json:"tank_l"`
}

// ActiveDoserStatus carries the active pump; Reason is set only on the tick
// a rotation fired, null on periodic refreshes.
type ActiveDoserStatus struct {
	Ts     string  `json:"ts"`
	Active string  `json:"active"`
	Reason *string `json:"reason"`
}
