package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/netprobe-io/netprobe/internal/env"
	"github.com/netprobe-io/netprobe/internal/logger"
)

const maxPort = 65535

func Init() {
	initString(&cache.serverAddr, "SERVER_ADDR", "127.0.0.1")
	initPort(&cache.serverPort, "SERVER_PORT", 8080)
	initPort(&cache.exporterPort, "EXPORTER_PORT", 0)

	initDebugLevel()

	initInt(&cache.probe.count, "PROBE_COUNT", 4)
	if cache.probe.count < 1 {
		cache.probe.count = 1
	}
	initDuration(&cache.probe.pingTimeout, "PING_TIMEOUT", 2*time.Second)
	initDuration(&cache.probe.tcpTimeout, "TCP_TIMEOUT", 3*time.Second)
	initDuration(&cache.probe.httpTimeout, "HTTP_TIMEOUT", 30*time.Second)
	initDuration(&cache.probe.attemptDelay, "ATTEMPT_DELAY", 100*time.Millisecond)
	initInt(&cache.probe.maxHops, "MAX_HOPS", 30)
	if cache.probe.maxHops < 1 {
		cache.probe.maxHops = 1
	}
	initInt(&cache.probe.packetSize, "PACKET_SIZE", 56)
	initBool(&cache.probe.privileged, "PING_PRIVILEGED", false)

	initDuration(&cache.scan.timeout, "SCAN_TIMEOUT", time.Second)
	initInt(&cache.scan.workers, "SCAN_WORKERS", 128)
	if cache.scan.workers < 1 {
		cache.scan.workers = 1
	}

	initDuration(&cache.ipUpdatePeriod, "IP_UPDATE_PERIOD", time.Minute)
}

func Close() {
	// Anything needed to be closed or destroyed at the end of program, goes here
}

func initPort(variable *uint16, name string, defaultValue uint16) {
	str := os.Getenv(env.ConfigPrefix + name)
	val, err := strconv.Atoi(str)
	if len(str) == 0 || err != nil || val < 0 || val > maxPort {
		*variable = defaultValue
		return
	}
	*variable = uint16(val)
}

func initDebugLevel() {
	switch strings.ToUpper(os.Getenv(env.ConfigPrefix + "LOG_LEVEL")) {
	case "DEBUG":
		cache.debugLevel = logger.DebugLevel
	case "INFO":
		cache.debugLevel = logger.InfoLevel
	case "WARNING":
		cache.debugLevel = logger.WarningLevel
	case "ERROR":
		cache.debugLevel = logger.ErrorLevel
	default:
		cache.debugLevel = logger.InfoLevel
	}
}
