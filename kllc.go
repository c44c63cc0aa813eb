/*
Package kllc is a compiler for the Keyboard Layout Language (KLL).

Consists of subpackages:
  - source: source files and multi-file queues, role-tagged and position-aware;
  - token: lexical analyzer producing a flat token stream;
  - ast: expression and id value types, the parser's output shape;
  - parse: PEG-combinator grammar turning tokens into ast.Expression values;
  - rangeset: dense integer sets used to expand and validate id ranges;
  - kctx: per-context stores and intra-context override resolution;
  - merge: cross-context folding into a single MergeContext;
  - final: finalization into layer-indexed, emitter-ready tables;
  - facade: read-only view of finalized data for back-end emitters;
  - emit: the two output contracts owned by the core (JSON, canonical KLL);
  - diag: user-visible diagnostic formatting;
  - klog: structured operational logging;
  - metrics: optional pipeline instrumentation;
  - compile: orchestrates the full pipeline from a CompileRequest.

Typical usage is:

 1. Build a CompileRequest grouping source paths by role.
 2. Call compile.Compile with the request and an optional context for
    cancellation.
 3. Read the result through the facade package, or hand it to emit.JSON
    or emit.KLL for the two output formats the core contract owns.
*/
package kllc

import "fmt"

// Error classes used by subpackages, each spanning up to 999 codes.
const (
	TokenizerErrors   = 1000
	ParseErrors       = 2000
	SemanticErrors    = 3000
	MergeErrors       = 4000
	FinalizationErrors = 5000
	InternalErrors    = 9000
)

// SourcePos is implemented by anything that can identify where in a
// source file a diagnostic applies. source.Pos and token.Token satisfy it.
type SourcePos interface {
	SourceName() string
	Line() int
	Col() int
}

// Kind discriminates the error taxonomy from spec §7.
type Kind int

const (
	KindTokenizer Kind = iota
	KindParse
	KindSemantic
	KindMerge
	KindFinalization
	KindCancelled
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindTokenizer:
		return "error"
	case KindParse:
		return "error"
	case KindSemantic:
		return "error"
	case KindMerge:
		return "error"
	case KindFinalization:
		return "error"
	case KindCancelled:
		return "cancelled"
	case KindInternal:
		return "internal error"
	default:
		return "error"
	}
}

// Error is the error type used throughout the compiler. Every stage
// that can fail with a user-visible problem returns one of these
// (or a slice of them, when a stage accumulates several at once).
type Error struct {
	Kind       Kind
	Code       int
	Message    string
	SourceName string
	Line, Col  int
	// Warning marks a diagnostic that is reported but never fails the
	// build (spec §7: isolation overrides, shadowed assignments).
	Warning bool
}

func (e *Error) Error() string {
	label := e.Kind.String()
	if e.Warning {
		label = "warning"
	}
	if e.SourceName != "" && e.Line != 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.SourceName, e.Line, e.Col, label, e.Message)
	}
	return fmt.Sprintf("%s: %s", label, e.Message)
}

// FormatWarningPos creates a non-fatal Error carrying source/position
// information, rendered with the "warning:" label (spec §7).
func FormatWarningPos(pos SourcePos, kind Kind, code int, msg string, params ...any) *Error {
	e := FormatErrorPos(pos, kind, code, msg, params...)
	e.Warning = true
	return e
}

// NewError creates a new Error. name, line, and col are attached only
// when non-zero/non-empty, matching the teacher's NewError contract.
func NewError(kind Kind, code int, msg, name string, line, col int) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, SourceName: name, Line: line, Col: col}
}

// FormatError creates an Error with no source/position information.
func FormatError(kind Kind, code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(kind, code, msg, "", 0, 0)
}

// FormatWarning creates a non-fatal Error with no source/position
// information, rendered with the "warning:" label (spec §7). Used for
// diagnostics that apply to a whole compile run rather than one file
// position, such as a file declaring a newer KLL Version than this
// compiler implements.
func FormatWarning(kind Kind, code int, msg string, params ...any) *Error {
	e := FormatError(kind, code, msg, params...)
	e.Warning = true
	return e
}

// FormatErrorPos creates an Error carrying source/position information.
func FormatErrorPos(pos SourcePos, kind Kind, code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(kind, code, msg, pos.SourceName(), pos.Line(), pos.Col())
}

// Cancelled is returned by a stage that observed a cancelled context
// at its boundary; no partial output is produced alongside it.
var Cancelled = &Error{Kind: KindCancelled, Message: "compilation cancelled"}

// InternalError wraps a violated invariant — a compiler bug, not a
// user error. runID ties the failure to a specific compile.Compile call.
func InternalError(runID string, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	if runID != "" {
		msg = fmt.Sprintf("%s (run %s)", msg, runID)
	}
	return &Error{Kind: KindInternal, Code: InternalErrors, Message: msg}
}

// ExitCode classifies an error the way the driver is expected to per
// spec §6: 0 success, 1 user error, 2 internal error.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var e *Error
	if kerr, ok := err.(*Error); ok {
		e = kerr
	} else {
		return 2
	}
	switch e.Kind {
	case KindInternal:
		return 2
	case KindCancelled:
		return 1
	default:
		return 1
	}
}

// CompileRequest is the structured input the driver hands to the core,
// exactly as specified in spec §6.
type CompileRequest struct {
	GenericFiles   []string
	ConfigFiles    []string
	BaseFiles      []string
	DefaultFiles   []string
	PartialGroups  [][]string
	MergeFiles     []string

	EmitterName    string
	EmitterOptions map[string]string

	TargetDir  string
	JSONOutput string
}
