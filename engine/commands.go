package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/netprobe-io/netprobe/engine/common"
	"github.com/netprobe-io/netprobe/internal/config"
	"github.com/netprobe-io/netprobe/probe"
	"github.com/netprobe-io/netprobe/probe/dnsquery"
	"github.com/netprobe-io/netprobe/probe/httping"
	"github.com/netprobe-io/netprobe/probe/pinger"
	"github.com/netprobe-io/netprobe/probe/tcping"
	"github.com/netprobe-io/netprobe/probe/tracer"
)

// Request payload shapes. Optional fields fall back to configured
// defaults when absent or zero.

type pingRequest struct {
	Host  string `json:"host"`
	Count int    `json:"count,omitempty"`
}

type tcpingRequest struct {
	Host  string `json:"host"`
	Port  uint16 `json:"port"`
	Count int    `json:"count,omitempty"`
}

type websiteRequest struct {
	URL             string            `json:"url"`
	Method          string            `json:"method,omitempty"`
	FollowRedirects bool              `json:"follow_redirects,omitempty"`
	VerifySSL       bool              `json:"verify_ssl,omitempty"`
	Headers         map[string]string `json:"headers,omitempty"`
}

type tracerouteRequest struct {
	Host    string `json:"host"`
	MaxHops int    `json:"max_hops,omitempty"`
}

type dnsRequest struct {
	Domain    string `json:"domain"`
	QueryType string `json:"query_type,omitempty"`
}

func decode(data json.RawMessage, v interface{}) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: missing request data", probe.ErrMalformedConfig)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", probe.ErrMalformedConfig, err)
	}
	return nil
}

type pingCommand struct{}

func NewPingCommand() common.Command { return &pingCommand{} }

func (c *pingCommand) Name() string { return "Ping" }

func (c *pingCommand) Exec(ctx context.Context, data json.RawMessage) (interface{}, error) {
	var req pingRequest
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	if req.Count <= 0 {
		req.Count = config.ProbeCount()
	}

	return pinger.Run(ctx, pinger.Config{
		Host:       req.Host,
		Count:      req.Count,
		Timeout:    config.PingTimeout(),
		Delay:      config.AttemptDelay(),
		PacketSize: config.PacketSize(),
		Privileged: config.PingPrivileged(),
	})
}

type tcpingCommand struct{}

func NewTcpingCommand() common.Command { return &tcpingCommand{} }

func (c *tcpingCommand) Name() string { return "Tcping" }

func (c *tcpingCommand) Exec(ctx context.Context, data json.RawMessage) (interface{}, error) {
	var req tcpingRequest
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	if req.Count <= 0 {
		req.Count = config.ProbeCount()
	}

	return tcping.Run(ctx, tcping.Config{
		Host:    req.Host,
		Port:    req.Port,
		Count:   req.Count,
		Timeout: config.TCPTimeout(),
		Delay:   config.AttemptDelay(),
	})
}

type websiteCommand struct{}

func NewWebsiteCommand() common.Command { return &websiteCommand{} }

func (c *websiteCommand) Name() string { return "Website" }

func (c *websiteCommand) Exec(ctx context.Context, data json.RawMessage) (interface{}, error) {
	var req websiteRequest
	if err := decode(data, &req); err != nil {
		return nil, err
	}

	return httping.Run(ctx, httping.Config{
		URL:             req.URL,
		Method:          req.Method,
		Timeout:         config.HTTPTimeout(),
		FollowRedirects: req.FollowRedirects,
		VerifyTLS:       req.VerifySSL,
		Headers:         req.Headers,
	})
}

type tracerouteCommand struct {
	tracer *tracer.Tracer
}

func NewTracerouteCommand(t *tracer.Tracer) common.Command {
	return &tracerouteCommand{tracer: t}
}

func (c *tracerouteCommand) Name() string { return "Traceroute" }

func (c *tracerouteCommand) Exec(ctx context.Context, data json.RawMessage) (interface{}, error) {
	var req tracerouteRequest
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	if req.MaxHops <= 0 {
		req.MaxHops = config.MaxHops()
	}

	return c.tracer.Trace(ctx, tracer.Config{
		Host:    req.Host,
		MaxHops: req.MaxHops,
		Timeout: config.PingTimeout(),
		Delay:   config.AttemptDelay(),
	})
}

type dnsCommand struct {
	dns *dnsquery.Service
}

func NewDnsCommand(dns *dnsquery.Service) common.Command {
	return &dnsCommand{dns: dns}
}

func (c *dnsCommand) Name() string { return "Dns" }

func (c *dnsCommand) Exec(ctx context.Context, data json.RawMessage) (interface{}, error) {
	var req dnsRequest
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	if req.QueryType == "" {
		req.QueryType = string(dnsquery.TypeA)
	}
	queryType, err := dnsquery.ParseQueryType(req.QueryType)
	if err != nil {
		return nil, err
	}

	return c.dns.Query(ctx, dnsquery.Config{
		Domain:  req.Domain,
		Type:    queryType,
		Timeout: config.PingTimeout(),
	})
}

// subscriptionCommand acknowledges Subscribe/Unsubscribe requests.
// Every stream session receives all of its own responses, so these are
// plain acknowledgements kept for protocol compatibility.
type subscriptionCommand struct {
	name string
}

func NewSubscribeCommand() common.Command   { return &subscriptionCommand{name: "Subscribe"} }
func NewUnsubscribeCommand() common.Command { return &subscriptionCommand{name: "Unsubscribe"} }

func (c *subscriptionCommand) Name() string { return c.name }

func (c *subscriptionCommand) Exec(ctx context.Context, data json.RawMessage) (interface{}, error) {
	return map[string]string{"status": "ok", "action": c.name}, nil
}
