package simulator

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/soia-io/doser-sim/internal/model/messages"
)

type fakePublisher struct {
	published []publishedMsg
}

type publishedMsg struct {
	topic   string
	payload []byte
	retain  bool
}

func (f *fakePublisher) Publish(topic string, payload []byte, retain bool) error {
	f.published = append(f.published, publishedMsg{topic, payload, retain})
	return nil
}

func (f *fakePublisher) Close() {}

func (f *fakePublisher) onTopic(suffix string) []publishedMsg {
	var out []publishedMsg
	for _, m := range f.published {
		if strings.HasSuffix(m.topic, suffix) {
			out = append(out, m)
		}
	}
	return out
}

func testOptions() Options {
	return Options{
		Product:       "A1B2C3",
		Devices:       []string{"dev-001", "dev-002"},
		Config:        testConfig(),
		RetainStatus:  true,
		StatusRefresh: 5 * time.Minute,
		Seed:          42,
	}
}

func TestTickPublishesAllRecordKinds(t *testing.T) {
	pub := &fakePublisher{}
	s := New(testOptions(), pub, nil, nil)

	s.tick(time.Now())

	for _, dev := range []string{"dev-001", "dev-002"} {
		base := "soia/A1B2C3/" + dev
		for _, suffix := range []string{
			"/tele/ai/flow",
			"/tele/di/inj_sensor",
			"/tele/pulse/doserA",
			"/tele/pulse/doserB",
			"/tele/qa/dosing_check",
			"/tele/ai/level",
			"/stat/active_doser", // first tick always refreshes the status
		} {
			if len(pub.onTopic(base+suffix)) != 1 {
				t.Fatalf("expected exactly one publish on %s%s, got %d",
					base, suffix, len(pub.onTopic(base+suffix)))
			}
		}
	}
}

func TestStatusRefreshInterval(t *testing.T) {
	opts := testOptions()
	opts.Devices = []string{"dev-001"}
	opts.Config.SensorFailProb = 0 // no rotations
	pub := &fakePublisher{}
	s := New(opts, pub, nil, nil)

	now := time.Now()
	s.tick(now) // first tick publishes status (nothing published yet)
	s.tick(now.Add(opts.Config.Period))
	s.tick(now.Add(2 * opts.Config.Period))

	if got := len(pub.onTopic("/stat/active_doser")); got != 1 {
		t.Fatalf("status published %d times inside refresh interval, want 1", got)
	}

	// past the refresh interval it is re-published, retained, with null reason
	s.tick(now.Add(opts.StatusRefresh + time.Second))
	msgs := pub.onTopic("/stat/active_doser")
	if len(msgs) != 2 {
		t.Fatalf("status published %d times after refresh elapsed, want 2", len(msgs))
	}
	last := msgs[len(msgs)-1]
	if !last.retain {
		t.Fatal("status record must be retained")
	}
	var st messages.ActiveDoserStatus
	if err := json.Unmarshal(last.payload, &st); err != nil {
		t.Fatalf("unmarshal status: %v", err)
	}
	if st.Reason != nil {
		t.Fatalf("refresh status carried reason %q, want null", *st.Reason)
	}
	if st.Active != "A" && st.Active != "B" {
		t.Fatalf("invalid active pump %q", st.Active)
	}
}

func TestTelemetryPayloadShape(t *testing.T) {
	opts := testOptions()
	opts.Devices = []string{"dev-001"}
	pub := &fakePublisher{}
	s := New(opts, pub, nil, nil)

	s.tick(time.Now())

	var flow messages.FlowReading
	msg := pub.onTopic("/tele/ai/flow")[0]
	if err := json.Unmarshal(msg.payload, &flow); err != nil {
		t.Fatalf("unmarshal flow: %v", err)
	}
	if flow.Ts == "" {
		t.Fatal("flow record missing timestamp")
	}
	if _, err := time.Parse(time.RFC3339, flow.Ts); err != nil {
		t.Fatalf("timestamp not RFC3339: %v", err)
	}
	if flow.Volts < 1.0 || flow.Volts > 5.0 {
		t.Fatalf("flow volts %v out of transducer range", flow.Volts)
	}
	if diff := flow.QM3H - flow.QM3Min*60; diff > 0.1 || diff < -0.1 {
		t.Fatalf("Q_m3h %v inconsistent with Q_m3min %v", flow.QM3H, flow.QM3Min)
	}

	var di messages.InjectionSensorReading
	if err := json.Unmarshal(pub.onTopic("/tele/di/inj_sensor")[0].payload, &di); err != nil {
		t.Fatalf("unmarshal inj_sensor: %v", err)
	}
	if di.State != "open" && di.State != "closed" {
		t.Fatalf("sensor state %q, want open or closed", di.State)
	}
}

func TestSimulatorDeterministicWithSeed(t *testing.T) {
	run := func() []publishedMsg {
		pub := &fakePublisher{}
		s := New(testOptions(), pub, nil, nil)
		now := time.Unix(1700000000, 0)
		for i := 0; i < 20; i++ {
			s.tick(now.Add(time.Duration(i) * 30 * time.Second))
		}
		return pub.published
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("runs published %d vs %d messages", len(a), len(b))
	}
	for i := range a {
		if a[i].topic != b[i].topic || string(a[i].payload) != string(b[i].payload) {
			t.Fatalf("message %d diverged between seeded runs:\n%s %s\n%s %s",
				i, a[i].topic, a[i].payload, b[i].topic, b[i].payload)
		}
	}
}
