// Package boundary marks ISBOUND on every INOUT voxel that has at least
// one non-INOUT 26-neighbor. SES/MS only.
package boundary

import (
	"github.com/molsurf/molsurf/internal/grid"
	"github.com/molsurf/molsurf/internal/profiling"
)

// neighborhood26Permuted offsets are generated as (di, dk, dj) against
// grid axes (i, k, j) rather than (i, j, k). The visited neighbor set is
// identical to grid.Neighborhood26 (26-neighborhood is symmetric under
// axis relabeling); only iteration order differs, which matters here
// only for bit-for-bit reproducibility of timing/early-exit behavior
// across implementations, not for the resulting flags.
var neighborhood26Permuted = permuteJK(grid.Neighborhood26)

func permuteJK(src []grid.Offset3) []grid.Offset3 {
	out := make([]grid.Offset3, len(src))
	for i, o := range src {
		out[i] = grid.Offset3{DI: o.DI, DJ: o.DK, DK: o.DJ}
	}
	return out
}

// Build marks ISBOUND on every INOUT voxel with a non-INOUT 26-neighbor.
func Build(g *grid.Grid) {
	defer profiling.Track("boundary.Build")()
	for i := 0; i < g.PL; i++ {
		for j := 0; j < g.PW; j++ {
			for k := 0; k < g.PH; k++ {
				idx := g.Index(i, j, k)
				if !g.Bits[idx].Has(grid.INOUT) {
					continue
				}
				if hasNonInoutNeighbor(g, i, j, k) {
					g.Bits[idx] = g.Bits[idx].Set(grid.ISBOUND)
				}
			}
		}
	}
}

func hasNonInoutNeighbor(g *grid.Grid, i, j, k int) bool {
	for _, o := range neighborhood26Permuted {
		ni, nj, nk := i+o.DI, j+o.DJ, k+o.DK
		if !g.InBounds(ni, nj, nk) {
			return true
		}
		if !g.Bits[g.Index(ni, nj, nk)].Has(grid.INOUT) {
			return true
		}
	}
	return false
}
