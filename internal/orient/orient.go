// Package orient implements quad-grid orientation against the
// inside-field gradient, degenerate-triangle filtering, and
// per-connected-component winding consistency with an outward-normal
// probe.
package orient

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/molsurf/molsurf/internal/grid"
	"github.com/molsurf/molsurf/internal/nets"
	"github.com/molsurf/molsurf/internal/profiling"
)

// gradientStep is the central-difference half-step (grid units) used to
// estimate the inside field's gradient; half a voxel keeps the sample
// pair local to the cell whose quad is being oriented.
const gradientStep = 0.5

// probeEpsilon is the outward-probe offset: small enough to stay within
// the extractor's convergence radius, large enough to avoid numerical
// noise at the surface itself.
const probeEpsilon = 0.25

// degenerateEpsilon is the squared-area cutoff below which a triangle is
// treated as degenerate.
const degenerateEpsilon = 1e-10

// Clean applies the full orientation and cleanup sequence in place and
// returns the cleaned mesh (vertices are shared with m; indices are a
// new, filtered slice).
func Clean(g *grid.Grid, m nets.Mesh) nets.Mesh {
	defer profiling.Track("orient.Clean")()

	orientQuads(g, m)
	m.Indices = filterDegenerate(m)
	orientComponents(g, m)
	return m
}

// orientQuads compares, for each emitted quad (a pair of two triangles
// sharing 6 consecutive indices), the triangle's geometric normal
// against the inside-field gradient at the quad centroid, and flips the
// pair if they disagree.
func orientQuads(g *grid.Grid, m nets.Mesh) {
	for q := 0; q+6 <= len(m.Indices); q += 6 {
		a, b, c := m.Indices[q], m.Indices[q+1], m.Indices[q+2]
		pa, pb, pc := m.Vertices[a], m.Vertices[b], m.Vertices[c]

		n := pb.Sub(pa).Cross(pc.Sub(pa))
		centroid := pa.Add(pb).Add(pc).Mul(1.0 / 3.0)
		grad := gradient(g, centroid)

		if n.Dot(grad) < 0 {
			m.Indices[q+1], m.Indices[q+2] = m.Indices[q+2], m.Indices[q+1]
			m.Indices[q+4], m.Indices[q+5] = m.Indices[q+5], m.Indices[q+4]
		}
	}
}

// filterDegenerate drops triangles with repeated indices or near-zero
// area.
func filterDegenerate(m nets.Mesh) []uint32 {
	out := make([]uint32, 0, len(m.Indices))
	for t := 0; t+3 <= len(m.Indices); t += 3 {
		a, b, c := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		if a == b || b == c || a == c {
			continue
		}
		n := m.Vertices[b].Sub(m.Vertices[a]).Cross(m.Vertices[c].Sub(m.Vertices[a]))
		if n.Dot(n) <= degenerateEpsilon {
			continue
		}
		out = append(out, a, b, c)
	}
	return out
}

// orientComponents builds edge adjacency, BFS's each connected component
// to a mutually consistent winding, then probes outward at the seed
// triangle and XORs a component-wide flip if the probe finds the winding
// backwards.
func orientComponents(g *grid.Grid, m nets.Mesh) {
	numTris := len(m.Indices) / 3
	if numTris == 0 {
		return
	}

	type edgeOcc struct {
		tri      int
		directed bool // true if this triangle's edge runs low->high index
	}
	edges := make(map[[2]uint32][]edgeOcc, numTris*3)
	addEdge := func(tri int, u, v uint32) {
		key := [2]uint32{u, v}
		directed := true
		if u > v {
			key[0], key[1] = v, u
			directed = false
		}
		edges[key] = append(edges[key], edgeOcc{tri: tri, directed: directed})
	}
	for t := 0; t < numTris; t++ {
		a, b, c := m.Indices[3*t], m.Indices[3*t+1], m.Indices[3*t+2]
		addEdge(t, a, b)
		addEdge(t, b, c)
		addEdge(t, c, a)
	}

	flip := make([]bool, numTris)
	visited := make([]bool, numTris)

	for seed := 0; seed < numTris; seed++ {
		if visited[seed] {
			continue
		}
		visited[seed] = true
		flip[seed] = false
		queue := []int{seed}
		component := []int{seed}

		for len(queue) > 0 {
			t := queue[0]
			queue = queue[1:]
			a, b, c := m.Indices[3*t], m.Indices[3*t+1], m.Indices[3*t+2]
			for _, pair := range [][2]uint32{{a, b}, {b, c}, {c, a}} {
				u, v := pair[0], pair[1]
				key := [2]uint32{u, v}
				thisDirected := true
				if u > v {
					key[0], key[1] = v, u
					thisDirected = false
				}
				for _, occ := range edges[key] {
					if occ.tri == t || visited[occ.tri] {
						continue
					}
					// Consistent orientation requires opposite directed
					// flags across the shared edge once both triangles'
					// flips are applied.
					effThis := thisDirected != flip[t]
					neighborFlip := occ.directed != !effThis
					flip[occ.tri] = neighborFlip
					visited[occ.tri] = true
					queue = append(queue, occ.tri)
					component = append(component, occ.tri)
				}
			}
		}

		if probeWantsFlip(g, m, seed, flip[seed]) {
			for _, t := range component {
				flip[t] = !flip[t]
			}
		}
	}

	for t := 0; t < numTris; t++ {
		if flip[t] {
			m.Indices[3*t+1], m.Indices[3*t+2] = m.Indices[3*t+2], m.Indices[3*t+1]
		}
	}
}

// probeWantsFlip samples the inside field at seed's centroid ±ε along
// its (flip-adjusted) normal and reports whether the winding is
// backwards.
func probeWantsFlip(g *grid.Grid, m nets.Mesh, seed int, seedFlip bool) bool {
	a, b, c := m.Indices[3*seed], m.Indices[3*seed+1], m.Indices[3*seed+2]
	if seedFlip {
		b, c = c, b
	}
	pa, pb, pc := m.Vertices[a], m.Vertices[b], m.Vertices[c]
	n := pb.Sub(pa).Cross(pc.Sub(pa))
	if n.Dot(n) == 0 {
		return false
	}
	n = n.Normalize()
	centroid := pa.Add(pb).Add(pc).Mul(1.0 / 3.0)

	plus := sampleInside(g, centroid.Add(n.Mul(probeEpsilon)))
	minus := sampleInside(g, centroid.Sub(n.Mul(probeEpsilon)))
	return plus > 0.5 && minus <= 0.5
}

// gradient estimates the central-difference gradient of the
// trilinearly-interpolated inside field at grid-space point p.
func gradient(g *grid.Grid, p mgl64.Vec3) mgl64.Vec3 {
	h := gradientStep
	dx := sampleInside(g, p.Add(mgl64.Vec3{h, 0, 0})) - sampleInside(g, p.Sub(mgl64.Vec3{h, 0, 0}))
	dy := sampleInside(g, p.Add(mgl64.Vec3{0, h, 0})) - sampleInside(g, p.Sub(mgl64.Vec3{0, h, 0}))
	dz := sampleInside(g, p.Add(mgl64.Vec3{0, 0, h})) - sampleInside(g, p.Sub(mgl64.Vec3{0, 0, h}))
	return mgl64.Vec3{dx / (2 * h), dy / (2 * h), dz / (2 * h)}
}

// sampleInside trilinearly interpolates the binary ISDONE field at
// continuous grid-space point p, treating out-of-range lattice reads as
// outside (0).
func sampleInside(g *grid.Grid, p mgl64.Vec3) float64 {
	x, y, z := p.X(), p.Y(), p.Z()
	i0, j0, k0 := int(math.Floor(x)), int(math.Floor(y)), int(math.Floor(z))
	fx, fy, fz := x-float64(i0), y-float64(j0), z-float64(k0)

	at := func(i, j, k int) float64 {
		if !g.InBounds(i, j, k) {
			return 0
		}
		if g.Bits[g.Index(i, j, k)].Has(grid.ISDONE) {
			return 1
		}
		return 0
	}

	c000 := at(i0, j0, k0)
	c100 := at(i0+1, j0, k0)
	c010 := at(i0, j0+1, k0)
	c110 := at(i0+1, j0+1, k0)
	c001 := at(i0, j0, k0+1)
	c101 := at(i0+1, j0, k0+1)
	c011 := at(i0, j0+1, k0+1)
	c111 := at(i0+1, j0+1, k0+1)

	c00 := c000*(1-fx) + c100*fx
	c10 := c010*(1-fx) + c110*fx
	c01 := c001*(1-fx) + c101*fx
	c11 := c011*(1-fx) + c111*fx

	c0 := c00*(1-fy) + c10*fy
	c1 := c01*(1-fy) + c11*fy

	return c0*(1-fz) + c1*fz
}
