package compile

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/ava12/kllc/ast"
	"github.com/ava12/kllc"
	"github.com/ava12/kllc/parse"
	"github.com/ava12/kllc/source"
	"github.com/ava12/kllc/token"
)

// parsedGroup is one group's files, each already tokenized and parsed,
// in file-load order, with every file's expressions rebased onto one
// role-wide monotonic LoadOrder so finalization's deterministic
// traversal (spec §4.5) can tell apart two expressions from different
// files of the same role.
type parsedGroup struct {
	role         source.Role
	partialIndex int
	exprs        []ast.Expression
}

// tokenizeAndParse fans out tokenize+parse across every file in every
// group (spec §5: "the driver may parallelize parsing of independent
// files ... stages 1-3 are per-file pure and commutative"), joins, and
// rebases each group's expressions into one deterministic sequence.
// Errors from every file are accumulated (spec §7: "accumulated where
// safe"); a non-empty error slice means no parsedGroup is trustworthy
// and the caller must not proceed to organization.
func tokenizeAndParse(ctx context.Context, groups []group) ([]parsedGroup, []*kllc.Error, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, kllc.Cancelled
	}

	type fileExprs struct {
		exprs []ast.Expression
		err   *kllc.Error
	}

	results := make([]fileExprs, 0)
	index := make(map[*source.File]int)
	for _, g := range groups {
		for _, f := range g.files {
			index[f] = len(results)
			results = append(results, fileExprs{})
		}
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.NumCPU())

	for _, g := range groups {
		for _, f := range g.files {
			f, role, partialIdx := f, g.role, g.partialIndex
			i := index[f]
			eg.Go(func() error {
				if egCtx.Err() != nil {
					return nil
				}
				toks, err := token.Tokenize(f)
				if err != nil {
					results[i].err = toKllcError(err)
					return nil
				}
				exprs, err := parse.Parse(f, toks, role, partialIdx)
				if err != nil {
					results[i].err = toKllcError(err)
					return nil
				}
				results[i].exprs = exprs
				return nil
			})
		}
	}
	_ = eg.Wait() // per-file results collect into `results`; the group itself never errors.

	var errs []*kllc.Error
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
		}
	}
	if len(errs) > 0 {
		return nil, errs, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, kllc.Cancelled
	}

	parsedGroups := make([]parsedGroup, 0, len(groups))
	for _, g := range groups {
		sortedFiles := append([]*source.File(nil), g.files...)
		sort.SliceStable(sortedFiles, func(i, j int) bool { return sortedFiles[i].Less(sortedFiles[j]) })

		pg := parsedGroup{role: g.role, partialIndex: g.partialIndex}
		base := 0
		for _, f := range sortedFiles {
			exprs := results[index[f]].exprs
			for _, e := range exprs {
				pg.exprs = append(pg.exprs, ast.Rebase(e, base))
			}
			base += len(exprs)
		}
		parsedGroups = append(parsedGroups, pg)
	}

	return parsedGroups, nil, nil
}

func toKllcError(err error) *kllc.Error {
	if ke, ok := err.(*kllc.Error); ok {
		return ke
	}
	return kllc.FormatError(kllc.KindInternal, kllc.InternalErrors, "%v", err)
}
