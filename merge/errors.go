package merge

import (
	"github.com/ava12/kllc/ast"
	"github.com/ava12/kllc"
)

const (
	errDuplicateCapabilitySignature = kllc.MergeErrors + 1
	warnIsolationOverrideRejected   = kllc.MergeErrors + 2
	warnMergedMappingEmptied        = kllc.MergeErrors + 3
	warnUsbTriggerDropped           = kllc.MergeErrors + 4
)

func duplicateCapabilitySignatureError(m ast.Meta, name string) *kllc.Error {
	return kllc.FormatErrorPos(metaPos{m}, kllc.KindMerge, errDuplicateCapabilitySignature,
		"capability %q declared with conflicting signatures across contexts", name)
}

func isolationOverrideRejectedWarning(m ast.Meta, key string) *kllc.Error {
	return kllc.FormatWarningPos(metaPos{m}, kllc.KindMerge, warnIsolationOverrideRejected,
		"override of isolated mapping %q rejected; lower-precedence value retained", key)
}

func mergedMappingEmptiedWarning(m ast.Meta, key string) *kllc.Error {
	return kllc.FormatWarningPos(metaPos{m}, kllc.KindMerge, warnMergedMappingEmptied,
		"mapping %q has no results left after a cross-context ':-'; the key is kept with an empty result set", key)
}

func usbTriggerDroppedWarning(m ast.Meta, key string) *kllc.Error {
	return kllc.FormatWarningPos(metaPos{m}, kllc.KindMerge, warnUsbTriggerDropped,
		"mapping %q triggers on a USBCode/SysCode/ConsCode with no matching ScanCode mapping in this layer; dropped", key)
}

// metaPos adapts ast.Meta to kllc.SourcePos.
type metaPos struct{ m ast.Meta }

func (p metaPos) SourceName() string { return p.m.File }
func (p metaPos) Line() int          { return p.m.Line }
func (p metaPos) Col() int           { return p.m.Col }
