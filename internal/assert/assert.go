// Package assert holds small test assertion helpers shared across the
// module's test files.
package assert

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/ava12/kllc"
)

func fatalf(t *testing.T, message string, params ...any) {
	if len(params) > 0 {
		message = fmt.Sprintf(message, params...)
	}
	_, thisFile, _, _ := runtime.Caller(0)
	file := thisFile
	line := 0
	for i := 2; file == thisFile; i++ {
		_, file, line, _ = runtime.Caller(i)
	}
	t.Fatalf("%s at %s:%d", message, file, line)
}

func That(t *testing.T, cond bool, message string, params ...any) {
	if !cond {
		fatalf(t, message, params...)
	}
}

func Equal(t *testing.T, expected, got any) {
	if expected != got {
		fatalf(t, "expecting %v, got %v", expected, got)
	}
}

func ErrorCode(t *testing.T, expected int, e error) {
	if e != nil {
		ee, valid := e.(*kllc.Error)
		if valid && ee.Code == expected {
			return
		}
	}
	fatalf(t, "expecting error code %d, got %v", expected, e)
}
