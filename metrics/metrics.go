// Package metrics exposes optional Prometheus instrumentation for the
// compile pipeline (spec §5 expansion), grounded on artpar-apigate's
// adapters/metrics package. Unlike that package's promauto helpers
// (which always register into the global default registry), this
// Collector registers into whatever prometheus.Registerer the caller
// supplies — possibly nil, since compile.Compile's contract is that
// instrumentation is genuinely optional and never part of the
// pipeline's pure data flow.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collector holds every metric the compile pipeline updates at stage
// boundaries.
type Collector struct {
	ExpressionsParsed *prometheus.CounterVec
	MergeConflicts    prometheus.Counter
	FinalizeDuration  prometheus.Histogram
	PixelDensity      prometheus.Gauge
	CompileErrors     *prometheus.CounterVec
}

// New builds a Collector and, when reg is non-nil, registers every
// metric into it. A nil reg yields a fully functional Collector whose
// updates simply go nowhere — compile.Compile never needs a nil check
// on the Collector itself, only on whether to build one with a
// concrete registry.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		ExpressionsParsed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "kllc",
				Name:      "expressions_parsed_total",
				Help:      "Number of expressions parsed, by source role.",
			},
			[]string{"role"},
		),
		MergeConflicts: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "kllc",
				Name:      "merge_conflicts_total",
				Help:      "Number of warnings reported during cross-context merge (rejected isolation overrides, emptied mappings, dropped USB-code triggers).",
			},
		),
		FinalizeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "kllc",
				Name:      "finalize_duration_seconds",
				Help:      "Wall time spent in finalization.",
				Buckets:   prometheus.DefBuckets,
			},
		),
		PixelDensity: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "kllc",
				Name:      "pixel_map_density_ratio",
				Help:      "Fraction of [1, max_pixel] that finalization's pixel map left non-blank.",
			},
		),
		CompileErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "kllc",
				Name:      "compile_errors_total",
				Help:      "Number of compilations that failed, by error kind.",
			},
			[]string{"kind"},
		),
	}

	if reg != nil {
		reg.MustRegister(
			c.ExpressionsParsed,
			c.MergeConflicts,
			c.FinalizeDuration,
			c.PixelDensity,
			c.CompileErrors,
		)
	}
	return c
}
