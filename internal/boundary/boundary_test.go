package boundary

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/molsurf/molsurf/internal/atom"
	"github.com/molsurf/molsurf/internal/grid"
	"github.com/molsurf/molsurf/internal/raster"
)

func TestBuildMarksOnlySurfaceVoxels(t *testing.T) {
	atoms := []atom.Atom{{Center: mgl64.Vec3{0, 0, 0}, Radius: 2.0}}
	g, err := grid.Setup(atoms, atom.SES, atom.Options{VoxelSize: 0.5, ProbeRadius: 1.4})
	if err != nil {
		t.Fatal(err)
	}
	raster.Inflated(g, atoms, 1.4)

	Build(g)

	sawBoundary := false
	sawInterior := false
	for idx, b := range g.Bits {
		if !b.Has(grid.INOUT) {
			if b.Has(grid.ISBOUND) {
				t.Fatalf("voxel %d: ISBOUND set on a non-INOUT voxel", idx)
			}
			continue
		}
		if b.Has(grid.ISBOUND) {
			sawBoundary = true
		} else {
			sawInterior = true
		}
	}
	if !sawBoundary {
		t.Fatalf("expected some INOUT voxels to be flagged ISBOUND")
	}
	if !sawInterior {
		t.Fatalf("expected some INOUT voxels to remain interior (non-boundary)")
	}
}

func TestBuildOutOfBoundsCountsAsNonInout(t *testing.T) {
	// A single-voxel-thick grid: every INOUT voxel is adjacent to the grid
	// edge, which must count as "not INOUT" and therefore a boundary.
	g := grid.NewGrid(grid.Geometry{Scale: 1, PL: 1, PW: 1, PH: 1})
	g.Bits[0] = g.Bits[0].Set(grid.INOUT)
	Build(g)
	if !g.Bits[0].Has(grid.ISBOUND) {
		t.Fatalf("single-voxel grid should be entirely boundary")
	}
}
