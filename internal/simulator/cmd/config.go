package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	MQTTHost string
	MQTTPort int
	MQTTUser string
	MQTTPass string
	MQTTTLS  bool
	QoS      int

	Product       string
	Devices       []string
	Period        time.Duration
	RetainStat    bool
	StatusRefresh time.Duration
	RandSeed      int64
	HTTPAddr      string

	// Engineering constants
	FlowSpanM3Min  float64 // 1–5 V → 0..span m3/min
	ConcMgM3       float64
	DensityGCm3    float64
	DispACm3       float64
	DispBCm3       float64
	TankLiters     float64
	MaxSPM         float64
	SensorFailProb float64
	NoisePct       float64

	// Optional Influx mirror (enabled when InfluxURL is set)
	InfluxURL    string
	InfluxToken  string
	InfluxOrg    string
	InfluxBucket string
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getenvFloat(k string, d float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return d
}

func getenvBool(k string, d bool) bool {
	if v := os.Getenv(k); v != "" {
		return v == "1"
	}
	return d
}

func loadConfig() Config {
	var devices []string
	for _, d := range strings.Split(getenv("DEVICES", "dev-001"), ",") {
		if d = strings.TrimSpace(d); d != "" {
			devices = append(devices, d)
		}
	}
	return Config{
		MQTTHost: getenv("MQTT_HOST", "localhost"),
		MQTTPort: getenvInt("MQTT_PORT", 8883),
		MQTTUser: getenv("MQTT_USER", ""),
		MQTTPass: getenv("MQTT_PASS", ""),
		MQTTTLS:  getenvBool("MQTT_TLS", true),
		QoS:      getenvInt("MQTT_QOS", 0),

		Product:       getenv("PRODUCT_CODE", "A1B2C3"),
		Devices:       devices,
		Period:        time.Duration(getenvFloat("PERIOD_S", 30) * float64(time.Second)),
		RetainStat:    getenvBool("RETAIN_STAT", true),
		StatusRefresh: time.Duration(getenvInt("STAT_REFRESH_S", 300)) * time.Second,
		RandSeed:      int64(getenvInt("RAND_SEED", 0)),
		HTTPAddr:      getenv("HTTP_ADDR", ":8080"),

		FlowSpanM3Min:  getenvFloat("Q_SPAN_M3MIN", 30.0),
		ConcMgM3:       getenvFloat("C_MGM3", 250),
		DensityGCm3:    getenvFloat("RHO_G_CM3", 0.815),
		DispACm3:       getenvFloat("E_A_CM3", 0.25),
		DispBCm3:       getenvFloat("E_B_CM3", 0.25),
		TankLiters:     getenvFloat("TANK_LITERS", 200),
		MaxSPM:         getenvFloat("MAX_SPM", 45),
		SensorFailProb: getenvFloat("DI_FAIL_PROB", 0.02),
		NoisePct:       getenvFloat("MISMATCH_NOISE_PCT", 0.03),

		InfluxURL:    getenv("INFLUX_URL", ""),
		InfluxToken:  getenv("INFLUX_TOKEN", ""),
		InfluxOrg:    getenv("INFLUX_ORG", "soia"),
		InfluxBucket: getenv("INFLUX_BUCKET", "telemetry"),
	}
}

// validate enforces the fatal startup preconditions. Degenerate but legal
// values (zero displacement, zero tank capacity) pass: the core defines
// zero/no-op results for them instead of crashing.
func (c Config) validate() error {
	if c.MQTTHost == "" {
		return fmt.Errorf("MQTT_HOST must be set")
	}
	if len(c.Devices) == 0 {
		return fmt.Errorf("DEVICES must name at least one device")
	}
	if c.Period <= 0 {
		return fmt.Errorf("PERIOD_S must be positive, got %s", c.Period)
	}
	if c.SensorFailProb < 0 || c.SensorFailProb > 1 {
		return fmt.Errorf("DI_FAIL_PROB must be in [0,1], got %g", c.SensorFailProb)
	}
	if c.NoisePct < 0 {
		return fmt.Errorf("MISMATCH_NOISE_PCT must be non-negative, got %g", c.NoisePct)
	}
	if c.QoS < 0 || c.QoS > 2 {
		return fmt.Errorf("MQTT_QOS must be 0, 1 or 2, got %d", c.QoS)
	}
	return nil
}
