// Package exporter serves probe execution metrics for Prometheus on a
// dedicated port.
package exporter

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/netprobe-io/netprobe/internal/logger"
	"github.com/netprobe-io/netprobe/pkg/scontext"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	pkgName = "PrometheusExporter. "
	cmd     = "EXPORTER"
)

type Exporter struct {
	port uint16
	reg  *prometheus.Registry
	ctx  scontext.StartStopContext
}

func New(ctx context.Context, port uint16, collector prometheus.Collector) (*Exporter, error) {
	obj := Exporter{
		port: port,
		reg:  prometheus.NewRegistry(),
		ctx:  scontext.New(ctx),
	}

	if err := obj.reg.Register(collector); err != nil {
		return nil, err
	}

	return &obj, nil
}

func (obj *Exporter) Name() string {
	return cmd
}

func (obj *Exporter) Start() error {
	ctx, err := obj.ctx.CreateContext()
	if err != nil {
		return fmt.Errorf("%s is already running", cmd)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(obj.reg, promhttp.HandlerOpts{}))

	logger.Debug().Println(pkgName, "exporter starting on port", obj.port)
	srv := http.Server{
		Addr:         fmt.Sprintf(":%d", obj.port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		err := srv.ListenAndServe()
		if err != http.ErrServerClosed {
			logger.Error().Println(pkgName, err)
		}
	}()

	go func() {
		<-ctx.Done()
		logger.Debug().Println(pkgName, "stopping", cmd)
		srv.Close()
	}()

	return nil
}

func (obj *Exporter) Stop() error {
	return obj.ctx.CancelContext()
}
