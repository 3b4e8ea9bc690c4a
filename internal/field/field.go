// Package field implements the final per-mode bitfield reinterpretation
// that leaves ISDONE as the single source of truth for "inside" before
// extraction.
package field

import (
	"github.com/molsurf/molsurf/internal/atom"
	"github.com/molsurf/molsurf/internal/grid"
	"github.com/molsurf/molsurf/internal/profiling"
)

// Finalize reinterprets g.Bits per kind's mode table so that, on return,
// ISDONE alone tags "inside" and INOUT/ISBOUND carry no further meaning.
func Finalize(g *grid.Grid, kind atom.Kind) {
	defer profiling.Track("field.Finalize")()

	switch kind {
	case atom.VDW, atom.SAS:
		for i, b := range g.Bits {
			g.Bits[i] = b.Clear(grid.ISBOUND)
		}
	case atom.SES:
		for i, b := range g.Bits {
			b = b.Clear(grid.ISDONE)
			if g.Bits[i].Has(grid.ISBOUND) {
				b = b.Set(grid.ISDONE)
			}
			g.Bits[i] = b.Clear(grid.ISBOUND)
		}
	case atom.MS:
		for i, b := range g.Bits {
			switch {
			case b.Has(grid.ISBOUND) && b.Has(grid.ISDONE):
				g.Bits[i] = b.Clear(grid.ISBOUND)
			case b.Has(grid.ISBOUND):
				g.Bits[i] = b.Set(grid.ISDONE)
			}
		}
	}
}
