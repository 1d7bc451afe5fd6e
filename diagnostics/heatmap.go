package diagnostics

import (
	"encoding/gob"
	"io"

	"github.com/ctessum/sparse"

	"github.com/CWRUChielLab/metabolism-sub000/engine"
)

// Occupancy snapshots the world as a dense [height][width] array of element
// keys (0 = empty/solvent cell), row-major [y][x].
func Occupancy(e *engine.Engine) *sparse.DenseArray {
	w, h := e.WorldSize()
	grid := sparse.ZerosDense(h, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if a := e.WorldAt(x, y); a != nil {
				grid.Set(float64(a.Type.Key), y, x)
			}
		}
	}
	return grid
}

// WriteHeatmapSnapshot gob-encodes one Occupancy snapshot to w, best-effort.
func WriteHeatmapSnapshot(w io.Writer, e *engine.Engine) {
	bestEffort(e.Logger(), "heatmap snapshot", func() error {
		return gob.NewEncoder(w).Encode(Occupancy(e))
	})
}
