package klog

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewWritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "debug", Out: &buf})
	log.Info().Str("stage", "parse").Msg("hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if line["component"] != "kllc" {
		t.Fatalf("expected component=kllc, got %v", line["component"])
	}
	if line["stage"] != "parse" {
		t.Fatalf("expected stage=parse, got %v", line["stage"])
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "warn", Out: &buf})
	log.Info().Msg("should be dropped")

	if buf.Len() != 0 {
		t.Fatalf("expected info line to be filtered out at warn level, got %q", buf.String())
	}
}

func TestDisabledDropsEverything(t *testing.T) {
	log := Disabled()
	log.Info().Msg("should vanish silently")
}

func TestRunLoggerAttachesRunID(t *testing.T) {
	var buf bytes.Buffer
	base := New(Options{Level: "debug", Out: &buf})
	log := RunLogger(base, "run-123")
	log.Info().Msg("hello")

	if !strings.Contains(buf.String(), "run-123") {
		t.Fatalf("expected run_id in output, got %q", buf.String())
	}
}
