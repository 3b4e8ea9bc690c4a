// Package edt implements the multi-source Euclidean Distance Transform
// that propagates from the ISBOUND seeds (built by internal/boundary)
// inward by breadth-first shells, carving the SES/MS surface band once
// propagation settles.
package edt

import (
	"math"

	"github.com/molsurf/molsurf/internal/grid"
	"github.com/molsurf/molsurf/internal/profiling"
)

type voxel struct{ I, J, K int }

// Propagate runs the shell-expansion EDT and carves the surface band
// into ISBOUND. probe is the resolved probe radius in world units.
func Propagate(g *grid.Grid, probe float64) {
	defer profiling.Track("edt.Propagate")()

	s := float64(g.Scale)
	shellCutoff := 1.0404 * (s * probe) * (s * probe)

	frontier := seed(g)
	for len(frontier) > 0 {
		var next []voxel
		for _, v := range frontier {
			next = expand(g, v, next)
		}
		next = cullShell(g, next, shellCutoff)
		frontier = next
	}

	carveBand(g, s, probe)
}

// seed clears ISDONE on every voxel, then marks boundPoint=self, dist=0,
// ISDONE, clears ISBOUND for every INOUT∧ISBOUND voxel, visited in
// row-major order for deterministic downstream propagation.
func seed(g *grid.Grid) []voxel {
	var frontier []voxel
	for i := 0; i < g.PL; i++ {
		for j := 0; j < g.PW; j++ {
			for k := 0; k < g.PH; k++ {
				idx := g.Index(i, j, k)
				b := g.Bits[idx].Clear(grid.ISDONE)
				g.Bits[idx] = b
				if !(b.Has(grid.INOUT) && b.Has(grid.ISBOUND)) {
					continue
				}
				g.BoundPoint[idx] = [3]int32{int32(i), int32(j), int32(k)}
				g.Dist[idx] = 0
				g.Bits[idx] = b.Set(grid.ISDONE).Clear(grid.ISBOUND)
				frontier = append(frontier, voxel{i, j, k})
			}
		}
	}
	return frontier
}

// expand visits v's 26 neighbors in the canonical order and appends any
// that newly became part of the active frontier to next.
func expand(g *grid.Grid, v voxel, next []voxel) []voxel {
	vIdx := g.Index(v.I, v.J, v.K)
	src := g.BoundPoint[vIdx]

	for _, o := range grid.Neighborhood26 {
		ni, nj, nk := v.I+o.DI, v.J+o.DJ, v.K+o.DK
		if !g.InBounds(ni, nj, nk) {
			continue
		}
		nIdx := g.Index(ni, nj, nk)
		nBits := g.Bits[nIdx]
		if !nBits.Has(grid.INOUT) {
			continue
		}

		d2 := squaredDist(src, ni, nj, nk)

		if !nBits.Has(grid.ISDONE) {
			g.BoundPoint[nIdx] = src
			g.Dist[nIdx] = d2
			g.Bits[nIdx] = nBits.Set(grid.ISDONE).Set(grid.ISBOUND)
			next = append(next, voxel{ni, nj, nk})
			continue
		}

		if d2 < g.Dist[nIdx] {
			g.BoundPoint[nIdx] = src
			g.Dist[nIdx] = d2
			if !nBits.Has(grid.ISBOUND) {
				g.Bits[nIdx] = nBits.Set(grid.ISBOUND)
				next = append(next, voxel{ni, nj, nk})
			}
		}
	}
	return next
}

func squaredDist(src [3]int32, i, j, k int) float64 {
	dx := float64(i) - float64(src[0])
	dy := float64(j) - float64(src[1])
	dz := float64(k) - float64(src[2])
	return dx*dx + dy*dy + dz*dz
}

// cullShell clears ISBOUND on voxels whose distance already exceeds the
// per-shell cutoff, dropping them from the next active frontier.
func cullShell(g *grid.Grid, shell []voxel, cutoff float64) []voxel {
	kept := shell[:0]
	for _, v := range shell {
		idx := g.Index(v.I, v.J, v.K)
		if g.Dist[idx] > cutoff {
			g.Bits[idx] = g.Bits[idx].Clear(grid.ISBOUND)
			continue
		}
		kept = append(kept, v)
	}
	return kept
}

// carveBand marks, for every INOUT voxel, ISBOUND if ISDONE is unset or
// dist >= cutoff, turning the grid into "SES interior union boundary
// band".
func carveBand(g *grid.Grid, s, probe float64) {
	sp := s * probe
	cutoff := sp*sp - 0.5/(0.1+math.Max(0, s-0.5))

	for idx, b := range g.Bits {
		if !b.Has(grid.INOUT) {
			continue
		}
		if !b.Has(grid.ISDONE) || g.Dist[idx] >= cutoff {
			g.Bits[idx] = b.Set(grid.ISBOUND)
		}
	}
}
