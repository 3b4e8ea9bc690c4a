// Package nets implements the surface-nets isosurface extractor. It
// walks cells of the finalized inside/outside grid, places one vertex
// per sign-changing cell, and stitches quads between neighboring cells
// along each cell's -X/-Y/-Z faces.
//
// Each cell's visibility is decided against a dense cellVertex lookup
// rather than a per-layer mask; the shape is "scan cells, decide
// visibility, emit a quad of two triangles" per direction.
package nets

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/molsurf/molsurf/internal/grid"
	"github.com/molsurf/molsurf/internal/profiling"
)

// Mesh is the raw, unoriented triangle soup produced by extraction.
// Vertices are in grid coordinates; Indices is already split into
// triangles ("(a,b,c),(a,c,d)") but winding has not yet been corrected;
// that's internal/orient's job.
type Mesh struct {
	Vertices []mgl64.Vec3
	Indices  []uint32
}

// corners lists the 8 cell-corner offsets in a fixed order; edges lists
// the 12 corner-index pairs that differ in exactly one coordinate.
var corners = [8][3]int{
	{0, 0, 0}, {0, 0, 1}, {0, 1, 0}, {0, 1, 1},
	{1, 0, 0}, {1, 0, 1}, {1, 1, 0}, {1, 1, 1},
}

var edges = [12][2]int{
	{0, 1}, {0, 2}, {0, 4},
	{1, 3}, {1, 5},
	{2, 3}, {2, 6},
	{3, 7},
	{4, 5}, {4, 6},
	{5, 7},
	{6, 7},
}

// Extract runs the surface-nets pass over g's finalized ISDONE field.
func Extract(g *grid.Grid) Mesh {
	defer profiling.Track("nets.Extract")()

	cl, cw, ch := g.PL-1, g.PW-1, g.PH-1
	if cl <= 0 || cw <= 0 || ch <= 0 {
		return Mesh{}
	}

	cellVertex := make([]int32, cl*cw*ch)
	for i := range cellVertex {
		cellVertex[i] = -1
	}
	cellIndex := func(i, j, k int) int { return i*cw*ch + j*ch + k }

	var m Mesh
	for i := 0; i < cl; i++ {
		for j := 0; j < cw; j++ {
			for k := 0; k < ch; k++ {
				v, ok := cellVertexPosition(g, i, j, k)
				if !ok {
					continue
				}
				idx := int32(len(m.Vertices))
				m.Vertices = append(m.Vertices, v)
				cellVertex[cellIndex(i, j, k)] = idx
			}
		}
	}

	has := func(i, j, k int) (int32, bool) {
		if i < 0 || i >= cl || j < 0 || j >= cw || k < 0 || k >= ch {
			return 0, false
		}
		v := cellVertex[cellIndex(i, j, k)]
		if v < 0 {
			return 0, false
		}
		return v, true
	}

	for i := 0; i < cl; i++ {
		for j := 0; j < cw; j++ {
			for k := 0; k < ch; k++ {
				c, ok := has(i, j, k)
				if !ok {
					continue
				}
				if i > 0 && k > 0 {
					if a, ok1 := has(i-1, j, k); ok1 {
						if b, ok2 := has(i-1, j, k-1); ok2 {
							if d, ok3 := has(i, j, k-1); ok3 {
								emitQuad(&m, c, a, b, d)
							}
						}
					}
				}
				if j > 0 && k > 0 {
					if a, ok1 := has(i, j-1, k); ok1 {
						if b, ok2 := has(i, j-1, k-1); ok2 {
							if d, ok3 := has(i, j, k-1); ok3 {
								emitQuad(&m, c, a, b, d)
							}
						}
					}
				}
				if i > 0 && j > 0 {
					if a, ok1 := has(i-1, j, k); ok1 {
						if b, ok2 := has(i-1, j-1, k); ok2 {
							if d, ok3 := has(i, j-1, k); ok3 {
								emitQuad(&m, c, a, b, d)
							}
						}
					}
				}
			}
		}
	}

	return m
}

// cellVertexPosition computes the average edge-crossing position for
// cell (i,j,k), reporting ok=false when no edge of the cell crosses the
// inside/outside boundary.
func cellVertexPosition(g *grid.Grid, i, j, k int) (mgl64.Vec3, bool) {
	var inside [8]bool
	for c, off := range corners {
		inside[c] = g.Bits[g.Index(i+off[0], j+off[1], k+off[2])].Has(grid.ISDONE)
	}

	var sum mgl64.Vec3
	n := 0
	for _, e := range edges {
		a, b := inside[e[0]], inside[e[1]]
		if a == b {
			continue
		}
		ca, cb := corners[e[0]], corners[e[1]]
		mid := mgl64.Vec3{
			float64(i) + float64(ca[0]+cb[0])/2,
			float64(j) + float64(ca[1]+cb[1])/2,
			float64(k) + float64(ca[2]+cb[2])/2,
		}
		sum = sum.Add(mid)
		n++
	}
	if n == 0 {
		return mgl64.Vec3{}, false
	}
	return sum.Mul(1.0 / float64(n)), true
}

// emitQuad appends the two triangles (a,b,c),(a,c,d) for quad (a,b,c,d);
// winding is corrected downstream by internal/orient.
func emitQuad(m *Mesh, a, b, c, d int32) {
	m.Indices = append(m.Indices,
		uint32(a), uint32(b), uint32(c),
		uint32(a), uint32(c), uint32(d),
	)
}
