// Package diag renders the user-visible diagnostic format spec §7
// contracts: "file:line:col: kind: text" with a short source excerpt
// where positions are available. This is a separate channel from
// package klog's structured operational logging — diag is what a
// driver prints to the user, klog is what an operator traces.
package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/ava12/kllc"
	"github.com/ava12/kllc/source"
)

// Sources resolves a diagnostic's file name to the source.Source it
// came from, so an excerpt can be rendered. A driver builds one from
// the same source.File records it fed to the tokenizer.
type Sources map[string]*source.Source

// NewSources indexes files by name for excerpt lookup.
func NewSources(files []*source.File) Sources {
	m := make(Sources, len(files))
	for _, f := range files {
		m[f.Source.Name()] = f.Source
	}
	return m
}

// Format renders one diagnostic exactly as kllc.Error.Error() does,
// then appends a source excerpt line and a caret line when the
// diagnostic carries a position and Sources can resolve its file.
func Format(e *kllc.Error, srcs Sources) string {
	var b strings.Builder
	b.WriteString(e.Error())

	if e.SourceName == "" || e.Line <= 0 {
		return b.String()
	}
	src, ok := srcs[e.SourceName]
	if !ok {
		return b.String()
	}
	line := src.LineText(e.Line)
	if line == "" {
		return b.String()
	}

	b.WriteByte('\n')
	b.WriteString("    ")
	b.WriteString(line)
	b.WriteByte('\n')
	b.WriteString("    ")
	col := e.Col
	if col < 1 {
		col = 1
	}
	b.WriteString(strings.Repeat(" ", col-1))
	b.WriteByte('^')
	return b.String()
}

// FormatAll renders a batch of diagnostics in the order given, one
// per paragraph. Stages accumulate user errors (spec §7) so a single
// pass can report several problems at once.
func FormatAll(errs []*kllc.Error, srcs Sources) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = Format(e, srcs)
	}
	return strings.Join(parts, "\n")
}

// Split partitions a diagnostic batch into hard errors and warnings,
// the distinction spec §7 draws between the two ("Warnings... do not
// fail the build").
func Split(diags []*kllc.Error) (errs, warnings []*kllc.Error) {
	for _, d := range diags {
		if d.Warning {
			warnings = append(warnings, d)
		} else {
			errs = append(errs, d)
		}
	}
	return errs, warnings
}

// Fprint formats and prints every diagnostic to w, one per paragraph
// (excerpts included), used by cmd/kllc to report accumulated errors
// and warnings before exiting.
func Fprint(w io.Writer, diags []*kllc.Error, srcs Sources) {
	for _, d := range diags {
		fmt.Fprintln(w, Format(d, srcs))
	}
}
