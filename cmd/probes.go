package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/netprobe-io/netprobe/internal/config"
	"github.com/netprobe-io/netprobe/probe/dnsquery"
	"github.com/netprobe-io/netprobe/probe/httping"
	"github.com/netprobe-io/netprobe/probe/pinger"
	"github.com/netprobe-io/netprobe/probe/tcping"
	"github.com/netprobe-io/netprobe/probe/tracer"
)

func runPing(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("ping", flag.ExitOnError)
	host := fs.String("host", "", "target host or IP")
	count := fs.Int("count", config.ProbeCount(), "number of echo requests")
	fs.Parse(args)
	if *host == "" {
		return fmt.Errorf("ping: -host is required")
	}

	result, err := pinger.Run(ctx, pinger.Config{
		Host:       *host,
		Count:      *count,
		Timeout:    config.PingTimeout(),
		Delay:      config.AttemptDelay(),
		PacketSize: config.PacketSize(),
		Privileged: config.PingPrivileged(),
	})
	if err != nil {
		return err
	}

	fmt.Printf("PING %s (%s): %d sent, %d received, %.1f%% loss\n",
		result.Host, result.IP, result.Sent, result.Received, result.Loss)
	fmt.Printf("rtt min/avg/max = %.3f/%.3f/%.3f ms\n",
		result.MinRTT, result.AvgRTT, result.MaxRTT)
	return nil
}

func runTcping(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tcping", flag.ExitOnError)
	host := fs.String("host", "", "target host or IP")
	port := fs.Uint("port", 80, "target TCP port")
	count := fs.Int("count", config.ProbeCount(), "number of connection attempts")
	fs.Parse(args)
	if *host == "" {
		return fmt.Errorf("tcping: -host is required")
	}
	if *port == 0 || *port > 65535 {
		return fmt.Errorf("tcping: invalid port %d", *port)
	}

	result, err := tcping.Run(ctx, tcping.Config{
		Host:    *host,
		Port:    uint16(*port),
		Count:   *count,
		Timeout: config.TCPTimeout(),
		Delay:   config.AttemptDelay(),
	})
	if err != nil {
		return err
	}

	state := "closed"
	if result.Open {
		state = "open"
	}
	fmt.Printf("TCP %s:%d (%s) is %s: %d/%d connected, %.1f%% loss\n",
		result.Host, result.Port, result.IP, state, result.Received, result.Sent, result.Loss)
	if result.Received > 0 {
		fmt.Printf("connect min/avg/max = %.3f/%.3f/%.3f ms\n",
			result.MinRTT, result.AvgRTT, result.MaxRTT)
	}
	return nil
}

func runWebsite(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("website", flag.ExitOnError)
	url := fs.String("url", "", "URL to check")
	method := fs.String("method", "GET", "HTTP method")
	follow := fs.Bool("follow", false, "follow redirects")
	verify := fs.Bool("verify", false, "verify TLS certificates")
	fs.Parse(args)
	if *url == "" {
		return fmt.Errorf("website: -url is required")
	}

	result, err := httping.Run(ctx, httping.Config{
		URL:             *url,
		Method:          *method,
		Timeout:         config.HTTPTimeout(),
		FollowRedirects: *follow,
		VerifyTLS:       *verify,
	})
	if err != nil {
		return err
	}

	if result.Error != "" {
		fmt.Printf("%s: FAILED (%s) in %.1f ms\n", result.URL, result.Error, result.ResponseTime)
		return nil
	}
	fmt.Printf("%s: HTTP %d in %.1f ms (%d bytes)\n",
		result.URL, result.StatusCode, result.ResponseTime, result.ContentLength)
	return nil
}

func runTraceroute(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("traceroute", flag.ExitOnError)
	host := fs.String("host", "", "target host or IP")
	maxHops := fs.Int("max-hops", config.MaxHops(), "hop budget")
	fs.Parse(args)
	if *host == "" {
		return fmt.Errorf("traceroute: -host is required")
	}

	result, err := tracer.New().Trace(ctx, tracer.Config{
		Host:    *host,
		MaxHops: *maxHops,
		Timeout: config.PingTimeout(),
		Delay:   config.AttemptDelay(),
	})
	if err != nil {
		return err
	}

	fmt.Printf("traceroute to %s (%s), %d hops max\n", result.Host, result.IP, result.MaxHops)
	for _, hop := range result.Hops {
		if !hop.Success {
			fmt.Printf("%3d  *\n", hop.Number)
			continue
		}
		name := hop.IP
		if hop.Hostname != "" {
			name = fmt.Sprintf("%s (%s)", hop.Hostname, hop.IP)
		}
		fmt.Printf("%3d  %s  %.3f ms\n", hop.Number, name, hop.RTT)
	}
	fmt.Printf("completed in %.2f s\n", result.TotalTime)
	return nil
}

func runDns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("dns", flag.ExitOnError)
	domain := fs.String("domain", "", "domain to resolve")
	qtype := fs.String("type", "A", "query type (A AAAA CNAME MX TXT NS SOA PTR ALL)")
	fs.Parse(args)
	if *domain == "" {
		return fmt.Errorf("dns: -domain is required")
	}

	queryType, err := dnsquery.ParseQueryType(*qtype)
	if err != nil {
		return err
	}

	result, err := dnsquery.New().Query(ctx, dnsquery.Config{
		Domain:  *domain,
		Type:    queryType,
		Timeout: config.PingTimeout(),
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s %s query answered in %.1f ms:\n", result.Domain, result.QueryType, result.ResponseTime)
	for _, rec := range result.Records {
		fmt.Printf("  %-5s  %s  (ttl %d)\n", rec.Type, rec.Value, rec.TTL)
	}
	return nil
}

func runPortScan(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("portscan", flag.ExitOnError)
	host := fs.String("host", "", "target host or IP")
	portsArg := fs.String("ports", "1-1024", "port or inclusive range, e.g. 443 or 1-1024")
	openOnly := fs.Bool("open", false, "print only open ports")
	fs.Parse(args)
	if *host == "" {
		return fmt.Errorf("portscan: -host is required")
	}

	ports, err := tcping.ParsePortRange(*portsArg)
	if err != nil {
		return err
	}

	result, err := tcping.Scan(ctx, tcping.ScanConfig{
		Host:    *host,
		Ports:   ports,
		Timeout: config.ScanTimeout(),
		Workers: config.ScanWorkers(),
	})
	if err != nil {
		return err
	}

	fmt.Printf("scanned %d ports on %s, %d open\n", len(result.Ports), result.Host, result.Open)
	for _, p := range result.Ports {
		if p.Open {
			fmt.Printf("%5d/tcp open\n", p.Port)
		} else if !*openOnly {
			fmt.Printf("%5d/tcp closed\n", p.Port)
		}
	}
	return nil
}
