package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/netprobe-io/netprobe/engine"
	"github.com/netprobe-io/netprobe/exporter"
	"github.com/netprobe-io/netprobe/internal/config"
	"github.com/netprobe-io/netprobe/internal/logger"
	"github.com/netprobe-io/netprobe/pkg/pubip"
	"github.com/netprobe-io/netprobe/probe/dnsquery"
	"github.com/netprobe-io/netprobe/probe/tracer"
	"github.com/netprobe-io/netprobe/server/api"
	"github.com/netprobe-io/netprobe/server/stream"
)

const fullAppName = "NetProbe. "

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s <command> [flags]

Commands:
  server       run the diagnostics server (HTTP API + websocket stream)
  ping         ICMP echo probe
  tcping       TCP connect probe
  website      HTTP check
  traceroute   hop discovery
  dns          DNS lookup
  portscan     TCP port scan
  version      print version and exit

Run '%s <command> -h' for command flags.
`, os.Args[0], os.Args[0])
	os.Exit(2)
}

func main() {
	exitCode := 0
	defer func() { os.Exit(exitCode) }()

	if len(os.Args) < 2 {
		usage()
	}

	// .env is optional; environment always wins over it
	godotenv.Load()

	config.Init()
	defer config.Close()
	logger.SetupGlobalLoger(config.DebugLevel(), os.Stdout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var err error
	switch os.Args[1] {
	case "server":
		err = runServer(ctx)
	case "ping":
		err = runPing(ctx, os.Args[2:])
	case "tcping":
		err = runTcping(ctx, os.Args[2:])
	case "website":
		err = runWebsite(ctx, os.Args[2:])
	case "traceroute":
		err = runTraceroute(ctx, os.Args[2:])
	case "dns":
		err = runDns(ctx, os.Args[2:])
	case "portscan":
		err = runPortScan(ctx, os.Args[2:])
	case "version":
		fmt.Printf("%s%s\n", fullAppName, config.FullVersion())
	default:
		usage()
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		exitCode = 1
	}
}

func runServer(ctx context.Context) error {
	pubip.SetUpdatePeriod(config.IPUpdatePeriod())

	e := engine.New(ctx)

	e.AddCommand(engine.NewPingCommand())
	e.AddCommand(engine.NewTcpingCommand())
	e.AddCommand(engine.NewWebsiteCommand())
	e.AddCommand(engine.NewTracerouteCommand(tracer.New()))
	e.AddCommand(engine.NewDnsCommand(dnsquery.New()))
	e.AddCommand(engine.NewSubscribeCommand())
	e.AddCommand(engine.NewUnsubscribeCommand())

	ws := stream.NewServer(e)
	e.AddService(api.New(ctx, config.ListenAddr(), e, ws))

	// forward logs to live stream clients as well
	logger.SetupGlobalLoger(config.DebugLevel(), os.Stdout, logger.NewStreamWriter(ws))

	if port := config.ExporterPort(); port > 0 {
		collector := exporter.NewProbesCollector()
		exp, err := exporter.New(ctx, port, collector)
		if err != nil {
			return err
		}
		e.SetObserver(collector)
		e.AddService(exp)
	}

	if err := e.Start(); err != nil {
		return err
	}
	defer e.Stop()

	logger.Info().Println(fullAppName, config.FullVersion(), "started on", config.ListenAddr())

	terminate := make(chan os.Signal, 1)
	signal.Notify(terminate, os.Interrupt, syscall.SIGTERM)
	select {
	case <-terminate:
		logger.Info().Println(fullAppName, "terminating")
	case <-ctx.Done():
	}

	return nil
}
