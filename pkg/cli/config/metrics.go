package config

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/secmon-lab/ethiq/pkg/service/metrics"
	"github.com/urfave/cli/v3"
)

// Metrics holds Prometheus exporter configuration
type Metrics struct {
	Enabled bool
}

// Flags returns CLI flags for Metrics configuration
func (m *Metrics) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "metrics",
			Usage:       "Expose Prometheus metrics at /metrics",
			Category:    "Metrics",
			Value:       true,
			Sources:     cli.EnvVars("ETHIQ_METRICS"),
			Destination: &m.Enabled,
		},
	}
}

// Configure creates the metrics collector and its HTTP handler. Both are nil when disabled.
func (m *Metrics) Configure() (*metrics.Collector, http.Handler, error) {
	if !m.Enabled {
		return nil, nil, nil
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	collector, err := metrics.New(reg)
	if err != nil {
		return nil, nil, err
	}

	return collector, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}), nil
}

// LogValue returns structured log value
func (m Metrics) LogValue() slog.Value {
	return slog.GroupValue(slog.Bool("enabled", m.Enabled))
}
