package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/soia-io/doser-sim/internal/model"
	"github.com/soia-io/doser-sim/internal/model/messages"
	"github.com/soia-io/doser-sim/pkg/mqtt"
)

// Sink receives a copy of every published telemetry record, for mirroring
// telemetry outside the bus. Implementations must not block the tick loop.
type Sink interface {
	Write(kind, device string, ts time.Time, rec interface{})
}

// Options configures a fleet simulation run.
type Options struct {
	Product       string
	Devices       []string
	Config        model.Config
	RetainStatus  bool          // publish active_doser retained
	StatusRefresh time.Duration // republish status after this much silence
	Seed          int64         // 0 = seed from the wall clock
}

// Simulator owns the fleet state and drives every device off one logical
// clock. Devices are stepped sequentially; there is no shared mutable state
// between them.
type Simulator struct {
	opts      Options
	publisher mqtt.IPublisher
	sink      Sink // optional
	metrics   *Metrics
	rng       *rand.Rand

	states        []model.DeviceState
	lastStatusPub map[string]time.Time
}

func New(opts Options, publisher mqtt.IPublisher, sink Sink, metrics *Metrics) *Simulator {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &Simulator{
		opts:          opts,
		publisher:     publisher,
		sink:          sink,
		metrics:       metrics,
		rng:           rand.New(rand.NewSource(seed)),
		lastStatusPub: make(map[string]time.Time),
	}
	for _, dev := range opts.Devices {
		s.states = append(s.states, model.NewDeviceState(dev, opts.Config, s.rng))
	}
	return s
}

// Run publishes the fleet's telemetry at the configured cadence until ctx is
// cancelled. The sleep is period minus processing time, so publish jitter
// does not accumulate drift across ticks. Termination lands between ticks;
// no partial-tick rollback is ever needed.
func (s *Simulator) Run(ctx context.Context) {
	log.Printf("simulator started: product=%s devices=%v period=%s",
		s.opts.Product, s.opts.Devices, s.opts.Config.Period)

	for {
		t0 := time.Now()
		s.tick(t0)
		elapsed := time.Since(t0)
		if s.metrics != nil {
			s.metrics.TickDuration.Observe(elapsed.Seconds())
		}
		sleep := s.opts.Config.Period - elapsed
		if sleep < 0 {
			sleep = 0
		}
		select {
		case <-ctx.Done():
			s.publisher.Close()
			return
		case <-time.After(sleep):
		}
	}
}

func (s *Simulator) tick(now time.Time) {
	for i := range s.states {
		st, rec := Step(s.states[i], s.opts.Config, s.rng, now)
		s.states[i] = st
		s.publishDevice(st, rec, now)
	}
}

func (s *Simulator) publishDevice(st model.DeviceState, rec TickRecords, now time.Time) {
	dev := st.DeviceID
	base := fmt.Sprintf("soia/%s/%s", s.opts.Product, dev)

	s.emit(base+"/tele/ai/flow", "flow", dev, now, rec.Flow, false)
	s.emit(base+"/tele/di/inj_sensor", "inj_sensor", dev, now, rec.Sensor, false)
	s.emit(base+"/tele/pulse/doserA", "doserA", dev, now, rec.PulseA, false)
	s.emit(base+"/tele/pulse/doserB", "doserB", dev, now, rec.PulseB, false)
	s.emit(base+"/tele/qa/dosing_check", "dosing_check", dev, now, rec.QA, false)
	s.emit(base+"/tele/ai/level", "level", dev, now, rec.Level, false)

	if s.metrics != nil {
		s.metrics.TankLiters.WithLabelValues(dev).Set(st.TankL)
		s.metrics.FlowM3Min.WithLabelValues(dev).Set(rec.Flow.QM3Min)
	}

	status := rec.Status
	if status != nil {
		if s.metrics != nil {
			s.metrics.Rotations.WithLabelValues(dev).Inc()
		}
	} else if now.Sub(s.lastStatusPub[dev]) > s.opts.StatusRefresh {
		// keep the retained value fresh for late subscribers
		status = &messages.ActiveDoserStatus{Ts: now.UTC().Format(time.RFC3339), Active: string(st.Active)}
	}
	if status != nil {
		s.emit(base+"/stat/active_doser", "active_doser", dev, now, status, s.opts.RetainStatus)
		s.lastStatusPub[dev] = now
	}
}

func (s *Simulator) emit(topic, kind, dev string, ts time.Time, rec interface{}, retain bool) {
	payload, err := json.Marshal(rec)
	if err != nil {
		log.Printf("marshal %s: %v", kind, err)
		return
	}
	if err := s.publisher.Publish(topic, payload, retain); err != nil {
		log.Printf("publish %s: %v", topic, err)
	}
	if s.metrics != nil {
		s.metrics.RecordsPublished.WithLabelValues(kind).Inc()
	}
	if s.sink != nil {
		s.sink.Write(kind, dev, ts, rec)
	}
}
