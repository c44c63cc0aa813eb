package final

import (
	"sort"

	"github.com/ava12/kllc/ast"
	"github.com/ava12/kllc/merge"
)

func finalizePixelPositions(m map[uint32]ast.Position) []PixelPosition {
	indices := make([]uint32, 0, len(m))
	for idx := range m {
		indices = append(indices, idx)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	out := make([]PixelPosition, 0, len(indices))
	for _, idx := range indices {
		out = append(out, PixelPosition{Index: idx, Position: m[idx]})
	}
	return out
}

func finalizeScanCodePositions(m map[uint16]ast.Position) []ScanCodePosition {
	codes := make([]uint16, 0, len(m))
	for code := range m {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	out := make([]ScanCodePosition, 0, len(codes))
	for _, code := range codes {
		out = append(out, ScanCodePosition{Code: code, Position: m[code]})
	}
	return out
}

// finalizePixelMap builds the dense pixel -> channel-tuple table
// (spec §8: "pixel_map has no gaps between index 1 and max_pixel;
// unused slots carry an explicit Blank tag"). Channel tuples come
// from every PixelId a result macro or animation frame ever
// referenced; a pixel that only ever appears in a DataAssociation
// (position only, no channel data) is still present in the table,
// Blank, so that pixel_display_map can still place it.
func finalizePixelMap(mc *merge.MergeContext, maxPixel uint32) []PixelMapping {
	channels := map[uint32][]ast.PixelChannel{}
	collectFromFrames := func(frames map[int][]ast.PixelId) {
		for _, pixels := range frames {
			for _, p := range pixels {
				if len(p.Channels) > 0 {
					channels[p.Index] = p.Channels
				}
			}
		}
	}
	for _, layer := range mc.Layers {
		for _, m := range layer.Mappings {
			for _, combo := range m.Result.Combos {
				for _, el := range combo.Elements {
					if p, ok := el.Id.(ast.PixelId); ok && len(p.Channels) > 0 {
						channels[p.Index] = p.Channels
					}
				}
			}
		}
	}
	for _, st := range mc.Animations {
		collectFromFrames(st.Frames)
	}

	if maxPixel == 0 {
		for idx := range mc.PixelPos {
			if idx > maxPixel {
				maxPixel = idx
			}
		}
		for idx := range channels {
			if idx > maxPixel {
				maxPixel = idx
			}
		}
	}

	out := make([]PixelMapping, 0, maxPixel)
	for idx := uint32(1); idx <= maxPixel; idx++ {
		if ch, ok := channels[idx]; ok {
			out = append(out, PixelMapping{Index: idx, Channels: ch})
		} else {
			out = append(out, PixelMapping{Index: idx, Blank: true})
		}
	}
	return out
}

// finalizePixelDisplayMap buckets every positioned pixel into a 2-D
// grid by its physical x/y position, column/row pitch given by cfg
// (spec §4.5: "derived by bucketing x into columns by a configurable
// pitch and y into rows"). Missing positions (pixels never associated
// with a physical position) are simply absent from the grid, leaving
// those cells at their zero value (unmapped).
func finalizePixelDisplayMap(positions []PixelPosition, cfg Config) [][]uint32 {
	if len(positions) == 0 {
		return nil
	}
	pitchX, pitchY := cfg.PixelPitchX, cfg.PixelPitchY
	if pitchX <= 0 {
		pitchX = 1
	}
	if pitchY <= 0 {
		pitchY = 1
	}

	type cell struct{ col, row int }
	cells := make(map[cell]uint32, len(positions))
	maxCol, maxRow := 0, 0
	for _, p := range positions {
		x, y := axisOrZero(p.Position.X), axisOrZero(p.Position.Y)
		col := int(x / pitchX)
		row := int(y / pitchY)
		if col < 0 {
			col = 0
		}
		if row < 0 {
			row = 0
		}
		cells[cell{col, row}] = p.Index
		if col > maxCol {
			maxCol = col
		}
		if row > maxRow {
			maxRow = row
		}
	}

	grid := make([][]uint32, maxRow+1)
	for r := range grid {
		grid[r] = make([]uint32, maxCol+1)
	}
	for c, idx := range cells {
		grid[c.row][c.col] = idx
	}
	return grid
}

func axisOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
