package sink

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/sony/gobreaker"
)

// recentErrWindow: writes inside this window after an async error count as
// failures for the breaker.
const recentErrWindow = 10 * time.Second

// InfluxSink mirrors telemetry records into an InfluxDB bucket so dashboards
// can query history as well as the live bus. Points go through the
// non-blocking WriteAPI; a circuit breaker stops point construction while the
// database keeps failing, and the async error listener feeds both the breaker
// and the health endpoint.
type InfluxSink struct {
	api     api.WriteAPI
	product string
	cb      *gobreaker.CircuitBreaker

	mu      sync.RWMutex
	lastErr time.Time
}

func NewInfluxSink(w api.WriteAPI, product string) *InfluxSink {
	s := &InfluxSink{
		api:     w,
		product: product,
		lastErr: time.Now().Add(-24 * time.Hour),
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:     "influx-sink",
			Interval: 60 * time.Second,
			Timeout:  30 * time.Second,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= 5
			},
		}),
	}
	go func() {
		for err := range w.Errors() {
			if err != nil {
				s.mu.Lock()
				s.lastErr = time.Now()
				s.mu.Unlock()
				log.Printf("influx write error: %v", err)
			}
		}
	}()
	return s
}

// Write implements simulator.Sink.
func (s *InfluxSink) Write(kind, device string, ts time.Time, rec interface{}) {
	_, err := s.cb.Execute(func() (interface{}, error) {
		if age := s.LastErrorAge(); age < recentErrWindow {
			return nil, fmt.Errorf("influx writes failing (last error %s ago)", age.Round(time.Second))
		}
		fields := recordFields(rec)
		if len(fields) == 0 {
			return nil, nil
		}
		p := influxdb2.NewPoint(kind, map[string]string{"product": s.product, "device": device}, fields, ts)
		s.api.WritePoint(p)
		return nil, nil
	})
	if err != nil && !errors.Is(err, gobreaker.ErrOpenState) && !errors.Is(err, gobreaker.ErrTooManyRequests) {
		log.Printf("influx sink: %v", err)
	}
}

// LastErrorAge returns how long ago the last write error was observed.
func (s *InfluxSink) LastErrorAge() time.Duration {
	if s == nil {
		return 99999 * time.Hour
	}
	s.mu.RLock()
	t := s.lastErr
	s.mu.RUnlock()
	return time.Since(t)
}

// Flush drains buffered points, for shutdown.
func (s *InfluxSink) Flush() {
	if s != nil && s.api != nil {
		s.api.Flush()
	}
}

// recordFields flattens a telemetry record into Influx fields. The timestamp
// travels as the point time, not a field; null fields (a status record's
// reason on refresh ticks) are dropped.
func recordFields(rec interface{}) map[string]interface{} {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	delete(m, "ts")
	for k, v := range m {
		if v == nil {
			delete(m, k)
		}
	}
	return m
}
