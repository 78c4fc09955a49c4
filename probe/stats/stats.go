// Package stats computes per-run loss and latency statistics.
// Every timed probe kind builds its result through Compute.
package stats

import (
	"fmt"
	"time"

	"github.com/netprobe-io/netprobe/probe"
)

// Statistics summarizes one probe run.
// Latency fields cover successful attempts only.
type Statistics struct {
	Sent      int       `json:"packets_sent"`
	Received  int       `json:"packets_received"`
	Loss      float64   `json:"packet_loss"`
	MinRTT    float64   `json:"min_rtt"`
	MaxRTT    float64   `json:"max_rtt"`
	AvgRTT    float64   `json:"avg_rtt"`
	Timestamp time.Time `json:"timestamp"`
}

// Compute aggregates an ordered attempt sequence into Statistics.
// A run with no successful attempts has undefined min/max/avg and is
// reported as probe.ErrAllAttemptsFailed instead of zero-valued fields.
// Timeout and explicit failure count the same: attempt failed.
func Compute(attempts []probe.Attempt) (Statistics, error) {
	s := Statistics{
		Sent:      len(attempts),
		Timestamp: time.Now().UTC(),
	}

	var sum time.Duration
	var min, max time.Duration
	for _, a := range attempts {
		if !a.OK {
			continue
		}
		if s.Received == 0 || a.RTT < min {
			min = a.RTT
		}
		if s.Received == 0 || a.RTT > max {
			max = a.RTT
		}
		sum += a.RTT
		s.Received++
	}

	if s.Sent > 0 {
		s.Loss = float64(s.Sent-s.Received) / float64(s.Sent) * 100
	}

	if s.Received == 0 {
		return s, fmt.Errorf("%w (%d attempts)", probe.ErrAllAttemptsFailed, s.Sent)
	}

	s.MinRTT = probe.Millis(min)
	s.MaxRTT = probe.Millis(max)
	s.AvgRTT = probe.Millis(sum / time.Duration(s.Received))

	return s, nil
}
