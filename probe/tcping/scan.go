package tcping

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/netprobe-io/netprobe/probe"
)

// PortStatus is the scanner verdict for one port.
type PortStatus struct {
	Port uint16 `json:"port"`
	Open bool   `json:"open"`
}

type ScanConfig struct {
	Host    string
	Ports   []uint16
	Timeout time.Duration
	Workers int // concurrent connection cap, minimum 1
}

type ScanResult struct {
	Host      string       `json:"host"`
	Ports     []PortStatus `json:"ports"`
	Open      int          `json:"open_count"`
	Timestamp time.Time    `json:"timestamp"`
}

// ParsePortRange accepts a single port ("80") or an inclusive range
// ("1-1024"). Malformed and inverted ranges are rejected before any
// connection is attempted.
func ParsePortRange(s string) ([]uint16, error) {
	parsePort := func(v string) (uint16, error) {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 1 || n > 65535 {
			return 0, fmt.Errorf("%w: invalid port %q", probe.ErrMalformedConfig, v)
		}
		return uint16(n), nil
	}

	if !strings.Contains(s, "-") {
		port, err := parsePort(s)
		if err != nil {
			return nil, err
		}
		return []uint16{port}, nil
	}

	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: invalid port range %q", probe.ErrMalformedConfig, s)
	}
	start, err := parsePort(parts[0])
	if err != nil {
		return nil, err
	}
	end, err := parsePort(parts[1])
	if err != nil {
		return nil, err
	}
	if start > end {
		return nil, fmt.Errorf("%w: port range start > end in %q", probe.ErrMalformedConfig, s)
	}

	ports := make([]uint16, 0, end-start+1)
	for p := int(start); p <= int(end); p++ {
		ports = append(ports, uint16(p))
	}
	return ports, nil
}

// Scan probes every port with at most one connection attempt each.
// Ports are probed concurrently, but since every goroutine owns a unique
// index there is no collision and input ordering is preserved.
func Scan(ctx context.Context, cfg ScanConfig) (*ScanResult, error) {
	if len(cfg.Ports) == 0 {
		return nil, fmt.Errorf("%w: no ports to scan", probe.ErrMalformedConfig)
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	result := &ScanResult{
		Host:  cfg.Host,
		Ports: make([]PortStatus, len(cfg.Ports)),
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	wg.Add(len(cfg.Ports))
	for i, port := range cfg.Ports {
		sem <- struct{}{}
		go func(i int, port uint16) {
			defer wg.Done()
			defer func() { <-sem }()
			result.Ports[i] = PortStatus{
				Port: port,
				Open: CheckPort(ctx, cfg.Host, port, cfg.Timeout),
			}
		}(i, port)
	}
	wg.Wait()

	for _, p := range result.Ports {
		if p.Open {
			result.Open++
		}
	}
	result.Timestamp = time.Now().UTC()

	return result, nil
}
