// Package metrics exposes optional per-chain Prometheus counters over
// /metrics. Metrics are a read-only observation surface; they never feed
// back into chain construction or tuning.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the per-run Prometheus metric set.
type Collector struct {
	registry *prometheus.Registry

	PacketsDecoded  *prometheus.CounterVec
	PacketsCRCBad   *prometheus.CounterVec
	BytesCorrected  *prometheus.CounterVec
	RSCorrections   *prometheus.HistogramVec

	server *http.Server
}

// NewCollector builds a Collector with its metrics registered.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		PacketsDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pktsdr_packets_decoded_total",
			Help: "Total packets decoded per chain.",
		}, []string{"chain"}),
		PacketsCRCBad: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pktsdr_packets_crc_bad_total",
			Help: "Total CRC-invalid packets decoded per chain.",
		}, []string{"chain"}),
		BytesCorrected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pktsdr_bytes_corrected_total",
			Help: "Total Reed-Solomon corrected bytes per chain.",
		}, []string{"chain"}),
		RSCorrections: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pktsdr_rs_corrections_per_block",
			Help:    "Distribution of Reed-Solomon corrections per decoded block.",
			Buckets: prometheus.LinearBuckets(0, 1, 17),
		}, []string{"chain"}),
	}
	reg.MustRegister(c.PacketsDecoded, c.PacketsCRCBad, c.BytesCorrected, c.RSCorrections)
	return c
}

// Serve starts the /metrics HTTP server on addr in the background. Call
// Shutdown to stop it.
func (c *Collector) Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{}))
	c.server = &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		if err := c.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	select {
	case err := <-errCh:
		return fmt.Errorf("metrics server failed: %w", err)
	default:
		return nil
	}
}

// Shutdown stops the metrics server, if running.
func (c *Collector) Shutdown(ctx context.Context) error {
	if c.server == nil {
		return nil
	}
	return c.server.Shutdown(ctx)
}
