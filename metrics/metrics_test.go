package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava12/kllc/metrics"
)

func TestNewRegistersIntoGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	col := metrics.New(reg)

	if col.ExpressionsParsed == nil || col.MergeConflicts == nil ||
		col.FinalizeDuration == nil || col.PixelDensity == nil || col.CompileErrors == nil {
		t.Fatal("New left a metric nil")
	}

	col.ExpressionsParsed.WithLabelValues("BaseMap").Add(3)
	col.MergeConflicts.Inc()
	col.CompileErrors.WithLabelValues("error").Inc()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"kllc_expressions_parsed_total",
		"kllc_merge_conflicts_total",
		"kllc_finalize_duration_seconds",
		"kllc_pixel_map_density_ratio",
		"kllc_compile_errors_total",
	} {
		if !names[want] {
			t.Errorf("expected metric %q to be registered, got %v", want, names)
		}
	}
}

func TestNewWithNilRegistererStillWorks(t *testing.T) {
	col := metrics.New(nil)
	col.ExpressionsParsed.WithLabelValues("BaseMap").Inc()
	col.PixelDensity.Set(0.5)
}
