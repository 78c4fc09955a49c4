// Package tracer walks the path towards a target hop by hop. The walk
// itself is a pure state machine over a HopProber backend: it numbers
// hops sequentially, records failed steps without aborting, and stops
// when the backend reports the target itself or the hop budget runs out.
package tracer

import (
	"context"
	"fmt"
	"net/netip"
	"time"

	"github.com/go-ping/ping"
	"github.com/netprobe-io/netprobe/internal/logger"
	"github.com/netprobe-io/netprobe/probe"
)

const pkgName = "Tracer. "

// HopProber probes one step of the path. A nil error with a zero Addr
// is invalid; backends return an error for steps that saw no reply.
type HopProber interface {
	Probe(ctx context.Context, target netip.Addr, hop int, timeout time.Duration) (Reply, error)
}

// Reply is a single answer from some node on the path.
type Reply struct {
	Addr netip.Addr
	RTT  time.Duration
}

type Config struct {
	Host    string
	MaxHops int
	Timeout time.Duration // per hop
	Delay   time.Duration // between hops
}

type Hop struct {
	Number   int     `json:"hop_number"`
	IP       string  `json:"ip,omitempty"`
	Hostname string  `json:"hostname,omitempty"`
	RTT      float64 `json:"rtt,omitempty"`
	Success  bool    `json:"success"`
}

type Result struct {
	Host      string    `json:"host"`
	IP        string    `json:"ip"`
	Hops      []Hop     `json:"hops"`
	MaxHops   int       `json:"max_hops"`
	TotalTime float64   `json:"total_time"`
	Timestamp time.Time `json:"timestamp"`
}

type Tracer struct {
	prober HopProber
	names  *ptrCache
}

// New builds a tracer over the default ICMP backend.
func New() *Tracer {
	return NewWithProber(&icmpProber{})
}

// NewWithProber builds a tracer over a caller-supplied backend.
func NewWithProber(p HopProber) *Tracer {
	return &Tracer{
		prober: p,
		names:  newPTRCache(),
	}
}

// Trace resolves the target and walks hops 1..MaxHops. Hop numbers are
// strictly sequential with no gaps. A step the backend cannot answer
// becomes an unsuccessful hop entry and the walk continues; the walk
// terminates early only when a reply comes from the target itself.
func (t *Tracer) Trace(ctx context.Context, cfg Config) (*Result, error) {
	addr, err := probe.ResolveAddr(ctx, cfg.Host)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Host:    cfg.Host,
		IP:      addr.String(),
		MaxHops: cfg.MaxHops,
	}

	start := time.Now()
	for hop := 1; hop <= cfg.MaxHops; hop++ {
		if hop > 1 {
			if err := probe.Sleep(ctx, cfg.Delay); err != nil {
				break
			}
		}

		reply, err := t.prober.Probe(ctx, addr, hop, cfg.Timeout)
		if err != nil {
			logger.Debug().Println(pkgName, "hop", hop, "to", cfg.Host, "no reply:", err)
			result.Hops = append(result.Hops, Hop{Number: hop})
			continue
		}

		result.Hops = append(result.Hops, Hop{
			Number:   hop,
			IP:       reply.Addr.String(),
			Hostname: t.names.lookup(ctx, reply.Addr),
			RTT:      probe.Millis(reply.RTT),
			Success:  true,
		})

		if reply.Addr == addr {
			break
		}
	}

	result.TotalTime = time.Since(start).Seconds()
	result.Timestamp = time.Now().UTC()

	return result, nil
}

// icmpProber is the default backend. It sends one echo request per step
// and observes only the target: intermediate routers are reported as
// unanswered steps. Per-hop TTL control needs raw sockets and is left to
// privileged deployments.
type icmpProber struct{}

func (p *icmpProber) Probe(ctx context.Context, target netip.Addr, hop int, timeout time.Duration) (Reply, error) {
	pg, err := ping.NewPinger(target.String())
	if err != nil {
		return Reply{}, err
	}

	pg.Count = 1
	pg.Timeout = timeout
	pg.TTL = hop

	if err := pg.Run(); err != nil {
		return Reply{}, err
	}

	st := pg.Statistics()
	if st.PacketsRecv == 0 {
		return Reply{}, fmt.Errorf("hop %d: no reply within %s", hop, timeout)
	}

	return Reply{Addr: target, RTT: st.AvgRtt}, nil
}
