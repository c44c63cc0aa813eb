package final

import (
	"github.com/ava12/kllc/ast"
	"github.com/ava12/kllc"
)

const (
	errRangeCollision = kllc.FinalizationErrors + 1
)

func rangeCollisionError(m ast.Meta, key string) *kllc.Error {
	return kllc.FormatErrorPos(metaPos{m}, kllc.KindFinalization, errRangeCollision,
		"two id ranges both expand onto trigger %q", key)
}

// metaPos adapts ast.Meta to kllc.SourcePos.
type metaPos struct{ m ast.Meta }

func (p metaPos) SourceName() string { return p.m.File }
func (p metaPos) Line() int          { return p.m.Line }
func (p metaPos) Col() int           { return p.m.Col }
