// Package klog is the compiler's structured operational logging,
// backed by zerolog the way artpar-apigate's bootstrap/config packages
// set theirs up. klog is never a substitute for package diag's
// user-visible diagnostics (spec §7): it is for the embedding
// operator — debug traces, stage timings, run identity — not for
// anything spec.md §6/§7 contracts the output of.
package klog

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the logger New builds.
type Options struct {
	// Level is one of zerolog's level names ("debug", "info", "warn",
	// "error", "disabled"); empty defaults to "info".
	Level string
	// Console renders human-readable output via zerolog.ConsoleWriter
	// instead of newline-delimited JSON, mirroring artpar-apigate's
	// APIGATE_LOG_FORMAT=console switch.
	Console bool
	// Out overrides the destination writer; nil defaults to os.Stdout.
	Out io.Writer
}

// New builds a zerolog.Logger per opts. Every log line carries a
// "component":"kllc" field so a compiler embedded in a larger process
// can be filtered out of that process's own log stream.
func New(opts Options) zerolog.Logger {
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	if opts.Console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Str("component", "kllc").Logger()
}

// Disabled returns a logger that drops every line, for callers (tests,
// library embedders) that want the klog call sites to stay live
// without paying for output.
func Disabled() zerolog.Logger {
	return zerolog.Nop()
}

// RunLogger attaches a run identifier to every subsequent field, so
// every log line from one compile.Compile call can be grep'd out of a shared
// log stream by that id alone.
func RunLogger(base zerolog.Logger, runID string) zerolog.Logger {
	return base.With().Str("run_id", runID).Logger()
}
