// Package finalize implements the world remap, atom attribution, and
// area-weighted normals of the final output mesh, plus diagnostics on
// top: per-component Euler characteristic, enclosed volume, surface
// area, and per-atom surface-area contribution.
package finalize

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/molsurf/molsurf/internal/atom"
	"github.com/molsurf/molsurf/internal/grid"
	"github.com/molsurf/molsurf/internal/nets"
	"github.com/molsurf/molsurf/internal/profiling"
)

// Mesh is the finished, world-space output buffer set plus the
// diagnostics supplement. Positions/normals use float32 to match the
// vertex-buffer types cmd/molsurf-view uploads to OpenGL directly.
type Mesh struct {
	Positions []float32
	Normals   []float32
	Indices   []uint32
	AtomIndex []uint32

	Components []ComponentInfo
}

// ComponentInfo reports, per connected component of the mesh (triangles
// joined through shared vertices), the counts needed to compute its Euler
// characteristic; used by callers that need to tell a genuine cavity
// (handle, V-E+F < 2) from a topological sphere (V-E+F = 2).
type ComponentInfo struct {
	Vertices            int
	Edges               int
	Triangles           int
	EulerCharacteristic int
}

// Build finalizes the oriented triangle soup m, producing world-space
// buffers and the component diagnostics.
func Build(g *grid.Grid, atoms []atom.Atom, m nets.Mesh) *Mesh {
	defer profiling.Track("finalize.Build")()

	out := &Mesh{
		Indices: append([]uint32(nil), m.Indices...),
	}

	out.Positions = make([]float32, 3*len(m.Vertices))
	out.AtomIndex = make([]uint32, len(m.Vertices))
	for vi, gv := range m.Vertices {
		wv := g.GridToWorld(gv)
		out.Positions[3*vi+0] = float32(wv.X())
		out.Positions[3*vi+1] = float32(wv.Y())
		out.Positions[3*vi+2] = float32(wv.Z())
		out.AtomIndex[vi] = uint32(nearestAtomID(g, gv))
	}

	out.Normals = computeNormals(m, out.Positions)
	out.Components = computeComponents(m)

	return out
}

// nearestAtomID rounds grid-space point p to the nearest lattice node and
// reads its atomID, falling back to atom 0 when unassigned.
func nearestAtomID(g *grid.Grid, p mgl64.Vec3) int32 {
	i := clampRound(p.X(), g.PL-1)
	j := clampRound(p.Y(), g.PW-1)
	k := clampRound(p.Z(), g.PH-1)
	id := g.AtomID[g.Index(i, j, k)]
	if id < 0 {
		return 0
	}
	return id
}

func clampRound(v float64, max int) int {
	r := int(math.Round(v))
	if r < 0 {
		return 0
	}
	if r > max {
		return max
	}
	return r
}

// computeNormals accumulates each triangle's unnormalized cross product
// onto its three vertices, then normalizes.
func computeNormals(m nets.Mesh, positions []float32) []float32 {
	acc := make([]mgl32.Vec3, len(m.Vertices))
	pos := func(i uint32) mgl32.Vec3 {
		return mgl32.Vec3{positions[3*i], positions[3*i+1], positions[3*i+2]}
	}
	for t := 0; t+3 <= len(m.Indices); t += 3 {
		a, b, c := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		n := pos(b).Sub(pos(a)).Cross(pos(c).Sub(pos(a)))
		acc[a] = acc[a].Add(n)
		acc[b] = acc[b].Add(n)
		acc[c] = acc[c].Add(n)
	}

	normals := make([]float32, 3*len(m.Vertices))
	for i, n := range acc {
		if n.Len() > 0 {
			n = n.Normalize()
		}
		normals[3*i+0] = n.X()
		normals[3*i+1] = n.Y()
		normals[3*i+2] = n.Z()
	}
	return normals
}

// computeComponents groups triangles into connected components via a
// vertex-based union-find (two triangles are connected whenever they
// share a vertex, which is coarser than but consistent with the
// edge-adjacency orient already used upstream) and reports V/E/F and the
// resulting Euler characteristic per component.
func computeComponents(m nets.Mesh) []ComponentInfo {
	n := len(m.Vertices)
	if n == 0 {
		return nil
	}
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	for t := 0; t+3 <= len(m.Indices); t += 3 {
		a, b, c := int(m.Indices[t]), int(m.Indices[t+1]), int(m.Indices[t+2])
		union(a, b)
		union(b, c)
	}

	type agg struct {
		vertices map[int]bool
		edges    map[[2]int]bool
		tris     int
	}
	byRoot := make(map[int]*agg)
	rootOf := func(v int) *agg {
		r := find(v)
		a, ok := byRoot[r]
		if !ok {
			a = &agg{vertices: map[int]bool{}, edges: map[[2]int]bool{}}
			byRoot[r] = a
		}
		return a
	}

	addEdge := func(a *agg, u, v int) {
		if u > v {
			u, v = v, u
		}
		a.edges[[2]int{u, v}] = true
	}

	for t := 0; t+3 <= len(m.Indices); t += 3 {
		a, b, c := int(m.Indices[t]), int(m.Indices[t+1]), int(m.Indices[t+2])
		g := rootOf(a)
		g.vertices[a] = true
		g.vertices[b] = true
		g.vertices[c] = true
		addEdge(g, a, b)
		addEdge(g, b, c)
		addEdge(g, c, a)
		g.tris++
	}

	out := make([]ComponentInfo, 0, len(byRoot))
	for _, g := range byRoot {
		v, e, f := len(g.vertices), len(g.edges), g.tris
		out = append(out, ComponentInfo{
			Vertices:            v,
			Edges:               e,
			Triangles:           f,
			EulerCharacteristic: v - e + f,
		})
	}
	return out
}

// EnclosedVolume applies the divergence theorem over the closed triangle
// surface (sum of signed tetrahedron volumes from the origin).
func (m *Mesh) EnclosedVolume() float64 {
	var vol float64
	for t := 0; t+3 <= len(m.Indices); t += 3 {
		a, b, c := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		pa, pb, pc := m.vec(a), m.vec(b), m.vec(c)
		vol += pa.Dot(pb.Cross(pc))
	}
	return math.Abs(vol) / 6.0
}

// SurfaceArea sums triangle areas over the finished mesh.
func (m *Mesh) SurfaceArea() float64 {
	var area float64
	for t := 0; t+3 <= len(m.Indices); t += 3 {
		a, b, c := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		pa, pb, pc := m.vec(a), m.vec(b), m.vec(c)
		n := pb.Sub(pa).Cross(pc.Sub(pa))
		area += 0.5 * n.Len()
	}
	return area
}

// AreaByAtom sums each triangle's area/3 onto its three attributed
// atoms, indexed by atom ID.
func (m *Mesh) AreaByAtom(numAtoms int) []float64 {
	out := make([]float64, numAtoms)
	for t := 0; t+3 <= len(m.Indices); t += 3 {
		a, b, c := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		pa, pb, pc := m.vec(a), m.vec(b), m.vec(c)
		n := pb.Sub(pa).Cross(pc.Sub(pa))
		share := 0.5 * n.Len() / 3.0
		for _, idx := range [3]uint32{m.AtomIndex[a], m.AtomIndex[b], m.AtomIndex[c]} {
			if int(idx) < len(out) {
				out[idx] += share
			}
		}
	}
	return out
}

func (m *Mesh) vec(i uint32) mgl64.Vec3 {
	return mgl64.Vec3{
		float64(m.Positions[3*i]),
		float64(m.Positions[3*i+1]),
		float64(m.Positions[3*i+2]),
	}
}
