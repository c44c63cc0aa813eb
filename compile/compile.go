// Package compile orchestrates the full pipeline spec.md §2 describes —
// file loading, tokenize+parse, per-context organization, cross-context
// merge, and finalization — behind the single entry point a driver
// calls (spec §6). The pipeline itself stays the pure function of
// (files, roles) -> FinalData that spec §5 demands; everything compile
// adds on top (logging, metrics, run identity, cancellation) is ambient
// scaffolding around that pure core, never part of its data flow.
package compile

import (
	"context"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/ava12/kllc/diag"
	"github.com/ava12/kllc/facade"
	"github.com/ava12/kllc/kctx"
	"github.com/ava12/kllc/klog"
	"github.com/ava12/kllc"
	"github.com/ava12/kllc/merge"
	"github.com/ava12/kllc/metrics"

	"github.com/ava12/kllc/final"
)

// Options carries every knob spec.md leaves to the driver rather than
// fixing, plus the expansion's optional instrumentation hooks. A zero
// Options is valid: finalization's pixel pitch defaults to 1.0 in both
// axes, MaxPixel to 0 (the pixel map then runs up to the highest pixel
// index referenced), logging is disabled, and no metrics are collected.
type Options struct {
	PixelPitchX float64
	PixelPitchY float64
	MaxPixel    uint32

	// Logger receives stage-boundary trace lines; nil behaves like
	// klog.Disabled().
	Logger *zerolog.Logger
	// Registerer, if non-nil, receives the run's Prometheus metrics.
	Registerer prometheus.Registerer
}

// Result is everything one compile.Compile call produces: the
// read-only façade a driver hands to package emit, the accumulated
// warnings (which never fail a build per spec §7), and the run's
// identity for cross-referencing a bug report to this specific run.
type Result struct {
	Facade   *facade.Facade
	Warnings []*kllc.Error
	RunID    string
	Sources  diag.Sources
}

// Compile runs the full pipeline against req. ctx is checked
// cooperatively at each stage boundary (spec §5); a cancelled run
// returns kllc.Cancelled with a nil Result. Any other returned error is
// a *kllc.Error (or a slice's worth, reachable by checking whether the
// caller should read diag output from elsewhere) — stages 1 through 4
// accumulate independent errors across files before giving up;
// finalization aborts on its first.
func Compile(ctx context.Context, req *kllc.CompileRequest, opts Options) (*Result, []*kllc.Error, error) {
	runID := uuid.New().String()
	base := klog.Disabled()
	if opts.Logger != nil {
		base = *opts.Logger
	}
	log := klog.RunLogger(base, runID)
	col := metrics.New(opts.Registerer)

	log.Debug().Msg("loading files")
	groups, err := loadFiles(req)
	if err != nil {
		return nil, nil, err
	}
	srcs := diag.NewSources(allFiles(groups))

	if err := ctx.Err(); err != nil {
		return nil, nil, kllc.Cancelled
	}

	log.Debug().Int("groups", len(groups)).Msg("tokenizing and parsing")
	parsedGroups, errs, err := tokenizeAndParse(ctx, groups)
	if err != nil {
		return nil, nil, err
	}
	if len(errs) > 0 {
		recordErrorMetrics(col, errs)
		return &Result{RunID: runID, Sources: srcs}, errs, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, kllc.Cancelled
	}

	log.Debug().Msg("organizing contexts")
	contexts, warnings, orgErrs := organize(parsedGroups, col)
	if len(orgErrs) > 0 {
		recordErrorMetrics(col, orgErrs)
		return &Result{RunID: runID, Sources: srcs}, orgErrs, nil
	}
	if w := checkFileVersions(contexts); w != nil {
		warnings = append(warnings, w)
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, kllc.Cancelled
	}

	log.Debug().Msg("merging contexts")
	mc, mergeWarnings, err := merge.Merge(contexts)
	warnings = append(warnings, mergeWarnings...)
	if err != nil {
		kerr := toKllcError(err)
		recordErrorMetrics(col, []*kllc.Error{kerr})
		return nil, nil, kerr
	}
	col.MergeConflicts.Add(float64(countConflicts(mergeWarnings)))

	if err := ctx.Err(); err != nil {
		return nil, nil, kllc.Cancelled
	}

	log.Debug().Msg("finalizing")
	timer := prometheus.NewTimer(col.FinalizeDuration)
	fd, finalWarnings, err := final.Finalize(mc, final.Config{
		PixelPitchX: defaultPitch(opts.PixelPitchX),
		PixelPitchY: defaultPitch(opts.PixelPitchY),
		MaxPixel:    opts.MaxPixel,
	})
	timer.ObserveDuration()
	warnings = append(warnings, finalWarnings...)
	if err != nil {
		kerr := toKllcError(err)
		recordErrorMetrics(col, []*kllc.Error{kerr})
		return nil, nil, kerr
	}
	recordPixelDensity(col, fd)

	log.Info().Int("warnings", len(warnings)).Msg("compile finished")

	return &Result{
		Facade:   facade.New(fd, mc),
		Warnings: warnings,
		RunID:    runID,
		Sources:  srcs,
	}, nil, nil
}

func defaultPitch(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

// organize builds one kctx.Context per parsed group and feeds its
// expressions through Context.Add in the deterministic order
// tokenizeAndParse already normalized (spec §4.3: "callers must feed
// expressions in deterministic file/load order").
func organize(groups []parsedGroup, col *metrics.Collector) ([]*kctx.Context, []*kllc.Error, []*kllc.Error) {
	var warnings, errs []*kllc.Error
	contexts := make([]*kctx.Context, 0, len(groups))

	for _, g := range groups {
		c := kctx.New(g.role, g.partialIndex)
		col.ExpressionsParsed.WithLabelValues(g.role.String()).Add(float64(len(g.exprs)))
		for _, e := range g.exprs {
			ws, err := c.Add(e)
			warnings = append(warnings, ws...)
			if err != nil {
				errs = append(errs, toKllcError(err))
			}
		}
		contexts = append(contexts, c)
	}

	return contexts, warnings, errs
}

func countConflicts(warnings []*kllc.Error) int {
	n := 0
	for _, w := range warnings {
		if w.Warning {
			n++
		}
	}
	return n
}

func recordErrorMetrics(col *metrics.Collector, errs []*kllc.Error) {
	for _, e := range errs {
		col.CompileErrors.WithLabelValues(e.Kind.String()).Inc()
	}
}

func recordPixelDensity(col *metrics.Collector, fd *final.FinalData) {
	if len(fd.PixelMap) == 0 {
		return
	}
	nonBlank := 0
	for _, p := range fd.PixelMap {
		if !p.Blank {
			nonBlank++
		}
	}
	col.PixelDensity.Set(float64(nonBlank) / float64(len(fd.PixelMap)))
}
