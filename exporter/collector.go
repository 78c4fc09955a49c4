package exporter

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type commandStats struct {
	runs         uint64
	failures     uint64
	lastDuration float64
}

// ProbesCollector counts executed probe commands and remembers the
// latest execution time per command. It plugs into the engine as its
// observer and into the exporter as a prometheus collector.
type ProbesCollector struct {
	sync.Mutex
	entries map[string]*commandStats
}

func NewProbesCollector() *ProbesCollector {
	return &ProbesCollector{
		entries: make(map[string]*commandStats),
	}
}

func (pc *ProbesCollector) Observe(command string, durationSeconds float64, err error) {
	pc.Lock()
	defer pc.Unlock()

	entry, ok := pc.entries[command]
	if !ok {
		entry = &commandStats{}
		pc.entries[command] = entry
	}

	entry.runs++
	if err != nil {
		entry.failures++
	}
	entry.lastDuration = durationSeconds
}

var (
	labels   = []string{"command"}
	descRuns = prometheus.NewDesc(
		"netprobe_probe_runs_total",
		"Executed probe commands",
		labels, nil,
	)
	descFailures = prometheus.NewDesc(
		"netprobe_probe_failures_total",
		"Failed probe commands",
		labels, nil,
	)
	descDuration = prometheus.NewDesc(
		"netprobe_probe_last_duration_seconds",
		"Duration of the most recent probe execution",
		labels, nil,
	)
)

func (pc *ProbesCollector) Describe(ch chan<- *prometheus.Desc) {
	prometheus.DescribeByCollect(pc, ch)
}

func (pc *ProbesCollector) Collect(ch chan<- prometheus.Metric) {
	pc.Lock()
	defer pc.Unlock()

	for command, entry := range pc.entries {
		ch <- prometheus.MustNewConstMetric(
			descRuns, prometheus.CounterValue, float64(entry.runs), command)
		ch <- prometheus.MustNewConstMetric(
			descFailures, prometheus.CounterValue, float64(entry.failures), command)
		ch <- prometheus.MustNewConstMetric(
			descDuration, prometheus.GaugeValue, entry.lastDuration, command)
	}
}
