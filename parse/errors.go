package parse

import (
	"fmt"

	"github.com/ava12/kllc"
	"github.com/ava12/kllc/token"
)

// Error codes within kllc.ParseErrors, matching the teacher's
// err.FormatPos convention of one small int per distinct failure shape
// (ava12-llx/parser/errors.go).
const (
	errUnexpectedEOF = kllc.ParseErrors + 1
	errUnexpectedToken = kllc.ParseErrors + 2
	errTrailingComma  = kllc.ParseErrors + 3
	errBadNumber      = kllc.ParseErrors + 4
	errBadSchedule    = kllc.ParseErrors + 5
	errUnknownNamespace = kllc.ParseErrors + 6
	errDuplicateScheduleState = kllc.ParseErrors + 7
)

func unexpectedEOFError(last token.Token, expected string) *kllc.Error {
	return kllc.FormatErrorPos(last, kllc.KindParse, errUnexpectedEOF, "unexpected end of file, expecting %s", expected)
}

func unexpectedTokenError(t token.Token, expected string) *kllc.Error {
	got := t.Kind.String()
	if t.Kind == token.NAMESPACED {
		got = fmt.Sprintf("%s%q", t.Namespace, t.Text)
	} else if t.Text != "" {
		got = fmt.Sprintf("%s %q", t.Kind, t.Text)
	}
	return kllc.FormatErrorPos(t, kllc.KindParse, errUnexpectedToken, "unexpected %s, expecting %s", got, expected)
}

func trailingCommaError(t token.Token) *kllc.Error {
	return kllc.FormatErrorPos(t, kllc.KindParse, errTrailingComma, "trailing comma is not allowed here")
}

func badNumberError(t token.Token) *kllc.Error {
	return kllc.FormatErrorPos(t, kllc.KindParse, errBadNumber, "invalid numeric literal %q", t.Text)
}

func badScheduleError(t token.Token, reason string) *kllc.Error {
	return kllc.FormatErrorPos(t, kllc.KindParse, errBadSchedule, "invalid schedule: %s", reason)
}

func unknownNamespaceError(t token.Token) *kllc.Error {
	return kllc.FormatErrorPos(t, kllc.KindParse, errUnknownNamespace, "unrecognized namespace %q", t.Namespace)
}

func duplicateScheduleStateError(t token.Token, state string) *kllc.Error {
	return kllc.FormatErrorPos(t, kllc.KindParse, errDuplicateScheduleState, "state %s is bound more than once in this schedule", state)
}
