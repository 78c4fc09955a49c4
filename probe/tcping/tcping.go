// Package tcping sends timed TCP connection attempts to host:port.
// It also hosts the port scanner built on the same connect primitive.
package tcping

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/netprobe-io/netprobe/internal/logger"
	"github.com/netprobe-io/netprobe/probe"
	"github.com/netprobe-io/netprobe/probe/stats"
)

const pkgName = "Tcping. "

type Config struct {
	Host    string
	Port    uint16
	Count   int
	Timeout time.Duration
	Delay   time.Duration
}

type Result struct {
	Host string `json:"host"`
	Port uint16 `json:"port"`
	IP   string `json:"ip"`
	Open bool   `json:"open"`
	stats.Statistics
}

// Run resolves the target once, then performs Count sequential connection
// attempts, each bounded by the attempt timeout.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	addr, err := probe.ResolveAddr(ctx, cfg.Host)
	if err != nil {
		return nil, err
	}

	target := net.JoinHostPort(addr.String(), strconv.Itoa(int(cfg.Port)))

	attempts := make([]probe.Attempt, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		if i > 0 {
			if err := probe.Sleep(ctx, cfg.Delay); err != nil {
				break
			}
		}
		attempts = append(attempts, connect(ctx, target, cfg.Timeout))
	}

	st, err := stats.Compute(attempts)
	if err != nil {
		return nil, fmt.Errorf("tcp connect %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	return &Result{
		Host:       cfg.Host,
		Port:       cfg.Port,
		IP:         addr.String(),
		Open:       st.Received > 0,
		Statistics: st,
	}, nil
}

// connect performs one timed connection attempt. Transport errors are
// recorded as a failed attempt and never abort the run.
func connect(ctx context.Context, target string, timeout time.Duration) probe.Attempt {
	dialer := net.Dialer{Timeout: timeout}

	start := time.Now()
	conn, err := dialer.DialContext(ctx, "tcp", target)
	if err != nil {
		logger.Debug().Println(pkgName, "connect", target, "failed:", err)
		return probe.Attempt{}
	}
	rtt := time.Since(start)
	conn.Close()

	return probe.Attempt{OK: true, RTT: rtt}
}

// CheckPort reports whether a single TCP connection to host:port succeeds
// within the timeout. Used by the port scanner, one attempt per port.
func CheckPort(ctx context.Context, host string, port uint16, timeout time.Duration) bool {
	target := net.JoinHostPort(host, strconv.Itoa(int(port)))
	return connect(ctx, target, timeout).OK
}
