package simulator

import (
	"math/rand"
	"testing"
)

func TestSampleInjectionSensorExtremes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		if !SampleInjectionSensor(0, rng) {
			t.Fatal("failure probability 0 must always detect")
		}
		if SampleInjectionSensor(1, rng) {
			t.Fatal("failure probability 1 must never detect")
		}
	}
}

func TestSampleInjectionSensorRoughRate(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	fails := 0
	n := 100000
	for i := 0; i < n; i++ {
		if !SampleInjectionSensor(0.02, rng) {
			fails++
		}
	}
	rate := float64(fails) / float64(n)
	if rate < 0.015 || rate > 0.025 {
		t.Fatalf("observed failure rate %v, expected near 0.02", rate)
	}
}

func TestNextNoDetectCount(t *testing.T) {
	cases := []struct {
		name     string
		count    int
		detected bool
		pulses   int
		want     int
	}{
		{"fail accumulates pulses", 3, false, 2, 5},
		{"no pulses keeps counter flat even when detected", 3, true, 0, 3},
		{"fail with no pulses keeps counter flat", 3, false, 0, 3},
		{"detection with pulses resets", 4, true, 2, 0},
		{"reset from zero stays zero", 0, true, 1, 0},
	}
	for _, c := range cases {
		if got := NextNoDetectCount(c.count, c.detected, c.pulses); got != c.want {
			t.Fatalf("%s: NextNoDetectCount(%d, %v, %d) = %d, want %d",
				c.name, c.count, c.detected, c.pulses, got, c.want)
		}
	}
}
