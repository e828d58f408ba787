package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/soia-io/doser-sim/internal/model"
	"github.com/soia-io/doser-sim/internal/simulator"
	"github.com/soia-io/doser-sim/internal/sink"
	"github.com/soia-io/doser-sim/pkg/mqtt"
)

func main() {
	cfg := loadConfig()
	if err := cfg.validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clientID := fmt.Sprintf("sim-%d-%04d", time.Now().Unix(), rand.Intn(10000))
	client, err := mqtt.NewConn(&mqtt.Config{
		Host:     cfg.MQTTHost,
		Port:     cfg.MQTTPort,
		User:     cfg.MQTTUser,
		Password: cfg.MQTTPass,
		ClientID: clientID,
		TLS:      cfg.MQTTTLS,
	}, ctx)
	if err != nil {
		log.Fatal(err)
	}
	publisher := mqtt.NewPublisher(client, byte(cfg.QoS))

	var (
		simSink    simulator.Sink
		influxSink *sink.InfluxSink
	)
	if cfg.InfluxURL != "" {
		influxClient := influxdb2.NewClient(cfg.InfluxURL, cfg.InfluxToken)
		defer influxClient.Close()
		influxSink = sink.NewInfluxSink(influxClient.WriteAPI(cfg.InfluxOrg, cfg.InfluxBucket), cfg.Product)
		defer influxSink.Flush()
		simSink = influxSink
	}

	reg := prometheus.NewRegistry()
	metrics := simulator.NewMetrics(reg)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.Handle("/healthz", newHealthHandler(client, influxSink))
	go func() {
		if err := http.ListenAndServe(cfg.HTTPAddr, mux); err != nil && err != http.ErrServerClosed {
			log.Printf("http server: %v", err)
		}
	}()

	sim := simulator.New(simulator.Options{
		Product: cfg.Product,
		Devices: cfg.Devices,
		Config: model.Config{
			FlowSpanM3Min:     cfg.FlowSpanM3Min,
			ConcentrationMgM3: cfg.ConcMgM3,
			DensityGCm3:       cfg.DensityGCm3,
			DisplacementACm3:  cfg.DispACm3,
			DisplacementBCm3:  cfg.DispBCm3,
			TankLiters:        cfg.TankLiters,
			MaxStrokesPerMin:  cfg.MaxSPM,
			SensorFailProb:    cfg.SensorFailProb,
			NoisePct:          cfg.NoisePct,
			Period:            cfg.Period,
		},
		RetainStatus:  cfg.RetainStat,
		StatusRefresh: cfg.StatusRefresh,
		Seed:          cfg.RandSeed,
	}, publisher, simSink, metrics)

	sim.Run(ctx)
}

type healthHandler struct {
	mqtt paho.Client
	sink *sink.InfluxSink
}

func newHealthHandler(m paho.Client, s *sink.InfluxSink) http.Handler {
	return &healthHandler{mqtt: m, sink: s}
}

func (h *healthHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	type status struct {
		Status          string  `json:"status"`
		MQTTConnected   bool    `json:"mqtt_connected"`
		InfluxEnabled   bool    `json:"influx_enabled"`
		LastWriteErrorS float64 `json:"last_write_error_age_sec,omitempty"`
	}
	st := status{
		MQTTConnected: h.mqtt != nil && h.mqtt.IsConnectionOpen(),
		InfluxEnabled: h.sink != nil,
	}

	ok := st.MQTTConnected
	if h.sink != nil {
		age := h.sink.LastErrorAge()
		st.LastWriteErrorS = age.Seconds()
		ok = ok && age > 30*time.Second
	}
	switch {
	case ok:
		st.Status = "ok"
	case st.MQTTConnected:
		st.Status = "degraded"
	default:
		st.Status = "down"
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(st)
}
