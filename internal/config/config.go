package config

import (
	"fmt"
	"time"
)

// This struct is used to cache commonly used configuration.
// All of them are exported shell variables with sane defaults.
// Cache them on startup and use from here.
type configCache struct {
	serverAddr   string
	serverPort   uint16
	exporterPort uint16

	debugLevel int

	probe struct {
		count        int
		pingTimeout  time.Duration
		tcpTimeout   time.Duration
		httpTimeout  time.Duration
		attemptDelay time.Duration
		maxHops      int
		packetSize   int
		privileged   bool
	}
	scan struct {
		timeout time.Duration
		workers int
	}
	ipUpdatePeriod time.Duration
}

var cache configCache

const (
	version = "1.0.3"
	appName = "netprobe"
)

func Version() string {
	return version
}

func FullVersion() string {
	return appName + " " + version
}

func ServerAddr() string {
	return cache.serverAddr
}

func ServerPort() uint16 {
	return cache.serverPort
}

// ExporterPort returns the Prometheus exporter port. Zero means disabled.
func ExporterPort() uint16 {
	return cache.exporterPort
}

func DebugLevel() int {
	return cache.debugLevel
}

func ProbeCount() int {
	return cache.probe.count
}

func PingTimeout() time.Duration {
	return cache.probe.pingTimeout
}

func TCPTimeout() time.Duration {
	return cache.probe.tcpTimeout
}

func HTTPTimeout() time.Duration {
	return cache.probe.httpTimeout
}

func AttemptDelay() time.Duration {
	return cache.probe.attemptDelay
}

func MaxHops() int {
	return cache.probe.maxHops
}

func PacketSize() int {
	return cache.probe.packetSize
}

// PingPrivileged tells whether ICMP probes use raw sockets (requires root)
// or unprivileged UDP datagram sockets.
func PingPrivileged() bool {
	return cache.probe.privileged
}

func ScanTimeout() time.Duration {
	return cache.scan.timeout
}

func ScanWorkers() int {
	return cache.scan.workers
}

func IPUpdatePeriod() time.Duration {
	return cache.ipUpdatePeriod
}

func ListenAddr() string {
	return fmt.Sprintf("%s:%d", cache.serverAddr, cache.serverPort)
}
