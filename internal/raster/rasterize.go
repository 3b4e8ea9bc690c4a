package raster

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/molsurf/molsurf/internal/atom"
	"github.com/molsurf/molsurf/internal/grid"
	"github.com/molsurf/molsurf/internal/profiling"
)

// octants enumerates the eight strict-corner octants (ii, jj, kk) in
// {-1,+1}^3, equivalent to looping ii,jj,kk in {-1,0,+1} and guarding on
// ii!=0 && jj!=0 && kk!=0, written out as a table instead of that
// guarded loop. This set must stay exactly as given (axis-aligned and
// face-aligned octants are excluded); altering it changes the
// rasterized shape measurably.
var octants = [8][3]int{
	{-1, -1, -1}, {-1, -1, 1}, {-1, 1, -1}, {-1, 1, 1},
	{1, -1, -1}, {1, -1, 1}, {1, 1, -1}, {1, 1, 1},
}

// rasterState carries the per-pass claim distances so atomID tie-breaks
// (smaller squared offset wins; insertion order breaks exact ties) don't
// require re-deriving a previous claimant's center each time.
type rasterState struct {
	grid      *grid.Grid
	bestDist2 []float64
	cache     *Cache
}

// Inflated rasterizes every atom's probe-inflated sphere (radius+probe)
// into g, marking INOUT, then copies INOUT into ISDONE for every voxel
// ("post pass", used by SAS/SES/MS).
func Inflated(g *grid.Grid, atoms []atom.Atom, probe float64) {
	defer profiling.Track("raster.Inflated")()
	st := newRasterState(g)
	for id, a := range atoms {
		st.rasterizeAtom(id, a, a.Radius+probe, grid.INOUT)
	}
	for i, b := range g.Bits {
		if b.Has(grid.INOUT) {
			g.Bits[i] = b.Set(grid.ISDONE)
		}
	}
}

// VDW rasterizes every atom's bare sphere (radius, no probe) into g,
// marking ISDONE directly ("VDW pass").
func VDW(g *grid.Grid, atoms []atom.Atom) {
	defer profiling.Track("raster.VDW")()
	st := newRasterState(g)
	for id, a := range atoms {
		st.rasterizeAtom(id, a, a.Radius, grid.ISDONE)
	}
}

func newRasterState(g *grid.Grid) *rasterState {
	best := make([]float64, len(g.Bits))
	for i := range best {
		best[i] = math.Inf(1)
	}
	return &rasterState{grid: g, bestDist2: best, cache: NewCache()}
}

func (st *rasterState) rasterizeAtom(id int, a atom.Atom, rEff float64, bit grid.Flags) {
	g := st.grid
	scale := float64(g.Scale)
	tmpl := st.cache.Get(rEff, scale)
	w := tmpl.W

	centerG := g.WorldToGrid(a.Center)
	cx := int(0.5 + centerG.X())
	cy := int(0.5 + centerG.Y())
	cz := int(0.5 + centerG.Z())

	for j := 0; j < w; j++ {
		for k := 0; k < w; k++ {
			maxI := tmpl.Depty[j*w+k]
			if maxI < 0 {
				continue
			}
			for _, oct := range octants {
				ii, jj, kk := oct[0], oct[1], oct[2]
				for i := 0; i <= maxI; i++ {
					// Axis permutation: the template's j parameter offsets
					// the first grid axis, the sweep variable i offsets the
					// second, and k offsets the third.
					vi := cx + ii*j
					vj := cy + i*jj
					vk := cz + kk*k
					if !g.InBounds(vi, vj, vk) {
						continue
					}
					st.claimVoxel(id, centerG, vi, vj, vk, bit)
				}
			}
		}
	}
}

func (st *rasterState) claimVoxel(id int, centerG mgl64.Vec3, vi, vj, vk int, bit grid.Flags) {
	g := st.grid
	idx := g.Index(vi, vj, vk)
	g.Bits[idx] = g.Bits[idx].Set(bit)

	dx := float64(vi) - centerG.X()
	dy := float64(vj) - centerG.Y()
	dz := float64(vk) - centerG.Z()
	d2 := dx*dx + dy*dy + dz*dz

	if d2 < st.bestDist2[idx] {
		st.bestDist2[idx] = d2
		g.AtomID[idx] = int32(id)
	}
}
