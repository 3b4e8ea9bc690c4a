package edt

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/molsurf/molsurf/internal/atom"
	"github.com/molsurf/molsurf/internal/boundary"
	"github.com/molsurf/molsurf/internal/grid"
	"github.com/molsurf/molsurf/internal/raster"
)

func buildSESGrid(t *testing.T, radius, voxel, probe float64) *grid.Grid {
	t.Helper()
	atoms := []atom.Atom{{Center: mgl64.Vec3{0, 0, 0}, Radius: radius}}
	g, err := grid.Setup(atoms, atom.SES, atom.Options{VoxelSize: voxel, ProbeRadius: probe})
	if err != nil {
		t.Fatalf("grid.Setup: %v", err)
	}
	raster.Inflated(g, atoms, probe)
	boundary.Build(g)
	return g
}

func TestPropagateAssignsDistanceToEveryReachedVoxel(t *testing.T) {
	// Shells stop just past the probe cutoff, so voxels deeper than that
	// are never reached: they keep Dist -1 and ISDONE unset, while every
	// reached voxel (ISDONE) carries a distance.
	g := buildSESGrid(t, 2.0, 0.5, 1.4)
	Propagate(g, 1.4)

	for idx, b := range g.Bits {
		if !b.Has(grid.INOUT) {
			continue
		}
		if b.Has(grid.ISDONE) != (g.Dist[idx] >= 0) {
			t.Fatalf("voxel %d: ISDONE=%v but Dist=%v", idx, b.Has(grid.ISDONE), g.Dist[idx])
		}
	}
}

func TestPropagateTagsEveryInoutVoxel(t *testing.T) {
	// After seed(), every originally-ISBOUND voxel had ISBOUND cleared and
	// ISDONE set; shells mark the voxels they reach ISDONE, and carveBand
	// flags every voxel no shell reached as ISBOUND, so post-Propagate
	// every INOUT voxel is ISDONE or ISBOUND.
	g := buildSESGrid(t, 2.0, 0.5, 1.4)
	Propagate(g, 1.4)

	for idx, b := range g.Bits {
		if b.Has(grid.INOUT) && !b.Has(grid.ISDONE) && !b.Has(grid.ISBOUND) {
			t.Fatalf("voxel %d: INOUT voxel neither reached by propagation nor carved into the band", idx)
		}
	}
}

func TestPropagateCarvesNonEmptyBand(t *testing.T) {
	g := buildSESGrid(t, 2.0, 0.4, 1.4)
	Propagate(g, 1.4)

	sawBand := false
	for _, b := range g.Bits {
		if b.Has(grid.INOUT) && b.Has(grid.ISBOUND) {
			sawBand = true
			break
		}
	}
	if !sawBand {
		t.Fatalf("expected carveBand to flag at least one voxel as ISBOUND")
	}
}
