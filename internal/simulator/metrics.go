package simulator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the simulator's operational instruments.
type Metrics struct {
	RecordsPublished *prometheus.CounterVec
	Rotations        *prometheus.CounterVec
	TankLiters       *prometheus.GaugeVec
	FlowM3Min        *prometheus.GaugeVec
	TickDuration     prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RecordsPublished: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dosersim_records_published_total",
			Help: "Telemetry records published, by record kind.",
		}, []string{"kind"}),
		Rotations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dosersim_doser_rotations_total",
			Help: "Active-doser failovers, by device.",
		}, []string{"device"}),
		TankLiters: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dosersim_tank_liters",
			Help: "Remaining chemical volume, by device.",
		}, []string{"device"}),
		FlowM3Min: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dosersim_flow_m3min",
			Help: "Simulated gas flow, by device.",
		}, []string{"device"}),
		TickDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "dosersim_tick_duration_seconds",
			Help:    "Wall time spent stepping and publishing one fleet tick.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
