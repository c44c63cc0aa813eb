package compile

import (
	"os"

	"github.com/ava12/kllc"
	"github.com/ava12/kllc/source"
)

// Error code for a file the driver named but compile could not read.
// Not one of spec §7's taxonomy proper (it covers grammar/semantics,
// not I/O), so it is filed as a semantic error: a bad path is a user
// mistake the same way a bad trigger range is.
const errFileRead = kllc.SemanticErrors + 900

func fileReadError(path string, err error) *kllc.Error {
	return kllc.FormatError(kllc.KindSemantic, errFileRead, "cannot read %q: %v", path, err)
}

// group is one (role, partialIndex) bucket of files in load order.
type group struct {
	role         source.Role
	partialIndex int
	files        []*source.File
}

// loadFiles reads every path named in req into role-tagged groups in
// the fixed precedence order spec §6 describes: Generic, Configuration,
// BaseMap, DefaultMap, PartialMaps (in slice order), Merge.
func loadFiles(req *kllc.CompileRequest) ([]group, error) {
	var groups []group

	add := func(role source.Role, partialIndex int, paths []string) error {
		if len(paths) == 0 {
			return nil
		}
		g := group{role: role, partialIndex: partialIndex}
		for i, path := range paths {
			content, err := os.ReadFile(path)
			if err != nil {
				return fileReadError(path, err)
			}
			g.files = append(g.files, source.NewFile(path, content, role, partialIndex, i))
		}
		groups = append(groups, g)
		return nil
	}

	if err := add(source.Generic, 0, req.GenericFiles); err != nil {
		return nil, err
	}
	if err := add(source.Configuration, 0, req.ConfigFiles); err != nil {
		return nil, err
	}
	if err := add(source.BaseMap, 0, req.BaseFiles); err != nil {
		return nil, err
	}
	if err := add(source.DefaultMap, 0, req.DefaultFiles); err != nil {
		return nil, err
	}
	for i, paths := range req.PartialGroups {
		if err := add(source.PartialMap, i, paths); err != nil {
			return nil, err
		}
	}
	if err := add(source.Merge, 0, req.MergeFiles); err != nil {
		return nil, err
	}

	return groups, nil
}

// allFiles flattens every group's files, used by package diag to build
// its Sources index for excerpt rendering.
func allFiles(groups []group) []*source.File {
	var files []*source.File
	for _, g := range groups {
		files = append(files, g.files...)
	}
	return files
}
