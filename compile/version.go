package compile

import (
	"strconv"
	"strings"

	"github.com/ava12/kllc/ast"
	"github.com/ava12/kllc/emit"
	"github.com/ava12/kllc/kctx"
	"github.com/ava12/kllc"
)

// versionCheckWarning fires once when some loaded file declares a
// Version variable newer than this compiler's own emit.KLLVersion,
// mirroring the trigger condition of the original compiler's
// Suggestions.show() (kll/common/suggestions.py) without carrying over
// its backend-specific changelog content — there is nothing this
// module's own output formats need warn about version-by-version, only
// the fact that a file was authored against a newer language revision
// than this compiler understands.
const warnNewerFileVersion = kllc.SemanticErrors + 11

func newerFileVersionWarning(declared, running string) *kllc.Error {
	return kllc.FormatWarning(kllc.KindSemantic, warnNewerFileVersion,
		"file declares Version %q, newer than this compiler's %q; some statements may not be understood", declared, running)
}

// checkFileVersions scans every context's Version variable (if any)
// and returns a warning when the highest declared version outranks
// the compiler's own. Contexts that never assign Version are silently
// skipped, matching KLL files that predate the Version statement.
func checkFileVersions(contexts []*kctx.Context) *kllc.Error {
	highest := ""
	for _, c := range contexts {
		v, ok := c.Variables.Scalar("Version")
		if !ok || v.Kind != ast.ValueString {
			continue
		}
		if compareVersions(v.Str, highest) > 0 {
			highest = v.Str
		}
	}
	if highest == "" || compareVersions(highest, emit.KLLVersion) <= 0 {
		return nil
	}
	return newerFileVersionWarning(highest, emit.KLLVersion)
}

// compareVersions compares two dot-separated numeric version strings
// component-wise, treating a missing or non-numeric component as 0.
// An empty string compares below any non-empty version.
func compareVersions(a, b string) int {
	if a == "" && b == "" {
		return 0
	}
	if a == "" {
		return -1
	}
	if b == "" {
		return 1
	}
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		an, bn := 0, 0
		if i < len(as) {
			an, _ = strconv.Atoi(as[i])
		}
		if i < len(bs) {
			bn, _ = strconv.Atoi(bs[i])
		}
		if an != bn {
			if an < bn {
				return -1
			}
			return 1
		}
	}
	return 0
}
