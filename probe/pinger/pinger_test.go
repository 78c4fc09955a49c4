package pinger

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/netprobe-io/netprobe/probe"
	"github.com/netprobe-io/netprobe/probe/stats"
)

func TestRunLoopback(t *testing.T) {
	result, err := Run(context.Background(), Config{
		Host:    "127.0.0.1",
		Count:   2,
		Timeout: 2 * time.Second,
		Delay:   10 * time.Millisecond,
	})
	if err != nil {
		// Unprivileged UDP ICMP is often disabled; that environment
		// limitation is not a prober bug.
		if strings.Contains(err.Error(), "permission") || errors.Is(err, probe.ErrAllAttemptsFailed) {
			t.Skipf("ICMP not permitted in this environment: %v", err)
		}
		t.Fatalf("Run failed: %v", err)
	}

	if result.Sent != 2 {
		t.Errorf("sent = %d, want 2", result.Sent)
	}
	if result.Received == 0 {
		t.Error("no replies from loopback")
	}
	if result.IP != "127.0.0.1" {
		t.Errorf("ip = %q, want 127.0.0.1", result.IP)
	}
	if result.MinRTT > result.AvgRTT || result.AvgRTT > result.MaxRTT {
		t.Error("min <= avg <= max violated")
	}
}

func TestResultJSONRoundTrip(t *testing.T) {
	want := Result{
		Host: "example.com",
		IP:   "93.184.216.34",
		Statistics: stats.Statistics{
			Sent:      4,
			Received:  3,
			Loss:      25,
			MinRTT:    10.125,
			MaxRTT:    30.875,
			AvgRTT:    20.333333333,
			Timestamp: time.Date(2026, 8, 23, 12, 0, 0, 123456789, time.UTC),
		},
	}

	raw, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var got Result
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("wire form does not reproduce the result (-want +got):\n%s", diff)
	}
}

func TestRunUnresolvableHost(t *testing.T) {
	_, err := Run(context.Background(), Config{
		Host:    "host.invalid",
		Count:   1,
		Timeout: time.Second,
	})
	if !errors.Is(err, probe.ErrUnresolvable) {
		t.Fatalf("expected ErrUnresolvable, got %v", err)
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Config{
		Host:    "host.invalid",
		Count:   4,
		Timeout: time.Second,
		Delay:   time.Second,
	})
	if err == nil {
		t.Fatal("expected an error from a cancelled run")
	}
}
