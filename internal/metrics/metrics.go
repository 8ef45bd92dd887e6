// Package metrics counts configuration diagnostics and loaded sources with
// Prometheus counters.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"github.com/dshills/rtdcconfig/internal/config"
)

// Metrics holds the counters of one process.
type Metrics struct {
	registry *prometheus.Registry

	diagnostics *prometheus.CounterVec
	sources     *prometheus.CounterVec
}

// New creates the counters in a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		diagnostics: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rtdcconfig_diagnostics_total",
				Help: "Number of configuration diagnostics by code.",
			},
			[]string{"code"},
		),
		sources: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rtdcconfig_sources_loaded_total",
				Help: "Number of configuration sources loaded by format.",
			},
			[]string{"format"},
		),
	}
}

// Registry returns the registry holding the counters.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// DiagnosticHandler counts every diagnostic and passes it on to next, if
// not nil.
func (m *Metrics) DiagnosticHandler(next config.DiagnosticHandler) config.DiagnosticHandler {
	return func(d config.Diagnostic) {
		m.diagnostics.WithLabelValues(d.Code.String()).Inc()
		if next != nil {
			next(d)
		}
	}
}

// SourceLoaded counts a loaded source of the given format, such as
// "text", "json" or "env".
func (m *Metrics) SourceLoaded(format string) {
	m.sources.WithLabelValues(format).Inc()
}

// WriteText writes all metrics in the Prometheus text exposition format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	return nil
}
