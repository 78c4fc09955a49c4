package stats

import (
	"errors"
	"testing"
	"time"

	"github.com/netprobe-io/netprobe/probe"
)

func attempts(rtts ...time.Duration) []probe.Attempt {
	var out []probe.Attempt
	for _, rtt := range rtts {
		if rtt < 0 {
			out = append(out, probe.Attempt{OK: false})
		} else {
			out = append(out, probe.Attempt{OK: true, RTT: rtt})
		}
	}
	return out
}

func TestComputeCounts(t *testing.T) {
	tests := []struct {
		name     string
		attempts []probe.Attempt
		sent     int
		received int
		loss     float64
	}{
		{"all ok", attempts(time.Millisecond, 2*time.Millisecond), 2, 2, 0},
		{"half lost", attempts(time.Millisecond, -1), 2, 1, 50},
		{"quarter lost", attempts(1e6, 1e6, 1e6, -1), 4, 3, 25},
		{"single ok", attempts(5 * time.Millisecond), 1, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Compute(tt.attempts)
			if err != nil {
				t.Fatalf("Compute failed: %v", err)
			}
			if s.Sent != tt.sent || s.Received != tt.received {
				t.Fatalf("sent/received = %d/%d, want %d/%d", s.Sent, s.Received, tt.sent, tt.received)
			}
			if s.Loss != tt.loss {
				t.Fatalf("loss = %f, want %f", s.Loss, tt.loss)
			}
			if s.Sent != s.Received+(tt.sent-tt.received) {
				t.Fatal("sent != received + failed")
			}
			if s.Loss < 0 || s.Loss > 100 {
				t.Fatalf("loss out of range: %f", s.Loss)
			}
		})
	}
}

func TestComputeLatency(t *testing.T) {
	s, err := Compute(attempts(10*time.Millisecond, 30*time.Millisecond, 20*time.Millisecond, -1))
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if s.MinRTT != 10 {
		t.Errorf("min = %f, want 10", s.MinRTT)
	}
	if s.MaxRTT != 30 {
		t.Errorf("max = %f, want 30", s.MaxRTT)
	}
	if s.AvgRTT != 20 {
		t.Errorf("avg = %f, want 20", s.AvgRTT)
	}
	if s.MinRTT > s.AvgRTT || s.AvgRTT > s.MaxRTT {
		t.Error("min <= avg <= max violated")
	}
}

func TestComputeAllFailed(t *testing.T) {
	s, err := Compute(attempts(-1, -1, -1))
	if !errors.Is(err, probe.ErrAllAttemptsFailed) {
		t.Fatalf("expected ErrAllAttemptsFailed, got %v", err)
	}
	// Counters are still meaningful on the failure path
	if s.Sent != 3 || s.Received != 0 || s.Loss != 100 {
		t.Fatalf("unexpected failure stats: %+v", s)
	}
	if s.MinRTT != 0 || s.MaxRTT != 0 || s.AvgRTT != 0 {
		t.Fatal("latency must not be reported without successful attempts")
	}
}

func TestComputeEmpty(t *testing.T) {
	_, err := Compute(nil)
	if !errors.Is(err, probe.ErrAllAttemptsFailed) {
		t.Fatalf("expected ErrAllAttemptsFailed, got %v", err)
	}
}
