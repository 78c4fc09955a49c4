// Package pinger sends timed ICMP echo probes to a single target.
package pinger

import (
	"context"
	"fmt"
	"net/netip"
	"time"

	"github.com/go-ping/ping"
	"github.com/netprobe-io/netprobe/internal/logger"
	"github.com/netprobe-io/netprobe/probe"
	"github.com/netprobe-io/netprobe/probe/stats"
)

const pkgName = "Pinger. "

type Config struct {
	Host       string
	Count      int
	Timeout    time.Duration // per attempt, not per run
	Delay      time.Duration // between attempts, none after the last
	PacketSize int
	Privileged bool
}

type Result struct {
	Host string `json:"host"`
	IP   string `json:"ip"`
	stats.Statistics
}

// Run resolves the target once and sends Count echo probes sequentially.
// Failed attempts are swallowed into the statistics; the run itself only
// fails when resolution fails or no attempt succeeds.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	addr, err := probe.ResolveAddr(ctx, cfg.Host)
	if err != nil {
		return nil, err
	}

	attempts := make([]probe.Attempt, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		if i > 0 {
			if err := probe.Sleep(ctx, cfg.Delay); err != nil {
				break
			}
		}
		attempts = append(attempts, echo(addr, cfg))
	}

	st, err := stats.Compute(attempts)
	if err != nil {
		return nil, fmt.Errorf("ping %s: %w", cfg.Host, err)
	}

	return &Result{
		Host:       cfg.Host,
		IP:         addr.String(),
		Statistics: st,
	}, nil
}

// echo performs one timed echo request bounded by the attempt timeout.
func echo(addr netip.Addr, cfg Config) probe.Attempt {
	pg, err := ping.NewPinger(addr.String())
	if err != nil {
		logger.Warning().Println(pkgName, "echo to", addr, "failed:", err)
		return probe.Attempt{}
	}

	pg.SetPrivileged(cfg.Privileged)
	pg.Count = 1
	pg.Timeout = cfg.Timeout
	if cfg.PacketSize > 0 {
		pg.Size = cfg.PacketSize
	}

	if err := pg.Run(); err != nil {
		logger.Warning().Println(pkgName, "echo to", addr, "failed:", err)
		return probe.Attempt{}
	}

	st := pg.Statistics()
	if st.PacketsRecv == 0 {
		// no error, no reply: the attempt timed out
		return probe.Attempt{}
	}

	return probe.Attempt{OK: true, RTT: st.AvgRtt}
}
