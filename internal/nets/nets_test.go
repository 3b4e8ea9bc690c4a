package nets

import (
	"testing"

	"github.com/molsurf/molsurf/internal/grid"
)

func TestExtractTooSmallGridReturnsEmpty(t *testing.T) {
	g := grid.NewGrid(grid.Geometry{Scale: 1, PL: 1, PW: 2, PH: 2})
	m := Extract(g)
	if len(m.Vertices) != 0 || len(m.Indices) != 0 {
		t.Fatalf("expected empty mesh for a grid with no full cell")
	}
}

func TestExtractSingleCellOneCornerInsideProducesOneVertexNoQuads(t *testing.T) {
	g := grid.NewGrid(grid.Geometry{Scale: 1, PL: 2, PW: 2, PH: 2})
	g.Bits[g.Index(0, 0, 0)] = g.Bits[g.Index(0, 0, 0)].Set(grid.ISDONE)

	m := Extract(g)
	if len(m.Vertices) != 1 {
		t.Fatalf("expected exactly one vertex, got %d", len(m.Vertices))
	}
	if len(m.Indices) != 0 {
		t.Fatalf("a single cell has no neighbor to stitch a quad with, got %d indices", len(m.Indices))
	}
}

func TestExtractAdjacentCellsStitchAQuad(t *testing.T) {
	// A 3x2x3 grid of corners gives a 2x1x2 block of cells in the X/Z
	// plane. Marking the i=1 corner plane ISDONE (for every j,k) puts a
	// sign change in all four cells, so the four cell vertices sharing
	// the (i=1,k=1) edge should be stitched into one quad.
	g := grid.NewGrid(grid.Geometry{Scale: 1, PL: 3, PW: 2, PH: 3})
	for j := 0; j < 2; j++ {
		for k := 0; k < 3; k++ {
			g.Bits[g.Index(1, j, k)] = g.Bits[g.Index(1, j, k)].Set(grid.ISDONE)
		}
	}

	m := Extract(g)
	if len(m.Vertices) != 4 {
		t.Fatalf("expected four cell vertices, got %d", len(m.Vertices))
	}
	if len(m.Indices) != 6 {
		t.Fatalf("expected exactly one stitched quad (6 indices), got %d", len(m.Indices))
	}
}
