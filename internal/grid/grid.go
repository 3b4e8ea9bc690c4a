// Package grid computes the scaled-integer voxel grid geometry from an
// atom set and allocates the three backing arrays (flags,
// squared-distance, atom ownership) that every later stage mutates in
// place.
//
// The grid is a flat slice addressed by a linear index computed from 3D
// coordinates, rather than a slice of slices, for cache locality and to
// avoid per-row allocations.
package grid

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/molsurf/molsurf/internal/atom"
	"github.com/molsurf/molsurf/internal/config"
)

// ErrEmptyInput is returned by Setup when given zero atoms. This is not
// a fault; internal/engine's Compute returns an empty mesh for zero atoms
// before calling Setup, so callers of the public API never see it.
var ErrEmptyInput = errors.New("molsurf: empty atom input")

// Geometry is the immutable grid geometry derived from the atom extent.
// Fields are exported for read-only use by later stages.
type Geometry struct {
	Scale       int        // voxels per world unit
	Translation mgl64.Vec3 // world->grid translation: grid = Scale*(world + Translation)
	PL, PW, PH  int        // dimensions along grid axes i (X), j (Y), k (Z)
}

// Index returns the linear index of grid coordinate (i, j, k).
func (g Geometry) Index(i, j, k int) int {
	return i*g.PW*g.PH + j*g.PH + k
}

// InBounds reports whether (i, j, k) lies within [0, PL)x[0, PW)x[0, PH).
func (g Geometry) InBounds(i, j, k int) bool {
	return i >= 0 && i < g.PL && j >= 0 && j < g.PW && k >= 0 && k < g.PH
}

// WorldToGrid maps a world-space point to fractional grid coordinates.
func (g Geometry) WorldToGrid(p mgl64.Vec3) mgl64.Vec3 {
	return p.Add(g.Translation).Mul(float64(g.Scale))
}

// GridToWorld maps a grid-space point back to world coordinates.
func (g Geometry) GridToWorld(p mgl64.Vec3) mgl64.Vec3 {
	return p.Mul(1.0 / float64(g.Scale)).Sub(g.Translation)
}

// Grid bundles the geometry with its three backing arrays.
type Grid struct {
	Geometry
	Bits   []Flags
	Dist   []float64 // squared EDT distance; -1 means "unset"
	AtomID []int32   // owning atom index; -1 means "unassigned"

	// BoundPoint holds the EDT seed coordinate that produced Dist[idx],
	// one triple per voxel, flattened as [i, j, k]. Only meaningful for
	// SES/MS once internal/edt has run.
	BoundPoint [][3]int32
}

// NewGrid allocates zeroed Bits, Dist=-1, AtomID=-1 for the given
// geometry.
func NewGrid(geo Geometry) *Grid {
	n := geo.PL * geo.PW * geo.PH
	g := &Grid{
		Geometry:   geo,
		Bits:       make([]Flags, n),
		Dist:       make([]float64, n),
		AtomID:     make([]int32, n),
		BoundPoint: make([][3]int32, n),
	}
	for i := range g.Dist {
		g.Dist[i] = -1
		g.AtomID[i] = -1
	}
	return g
}

// Setup computes the grid geometry for the given atoms, kind and options,
// validates allocation against the configured cap, and returns a freshly
// allocated Grid. Returns ErrEmptyInput for zero atoms without touching
// allocation.
func Setup(atoms []atom.Atom, kind atom.Kind, opts atom.Options) (*Grid, error) {
	if len(atoms) == 0 {
		return nil, ErrEmptyInput
	}

	scale := config.DefaultScale()
	if opts.VoxelSize > 0 {
		scale = int(math.Max(1, math.Round(1/opts.VoxelSize)))
	}

	probe := opts.ResolvedProbeRadius(kind)

	// Per-atom inflated extent: radius for VDW, radius+probe for
	// SAS/SES/MS.
	min := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	max := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, a := range atoms {
		r := a.Radius
		if kind.NeedsProbe() {
			r += probe
		}
		lo := a.Center.Sub(mgl64.Vec3{r, r, r})
		hi := a.Center.Add(mgl64.Vec3{r, r, r})
		min = componentMin(min, lo)
		max = componentMax(max, hi)
	}

	margin := 5.5 / float64(scale)
	min = min.Sub(mgl64.Vec3{margin, margin, margin})
	max = max.Add(mgl64.Vec3{margin, margin, margin})
	if kind.NeedsProbe() {
		min = min.Sub(mgl64.Vec3{probe, probe, probe})
		max = max.Add(mgl64.Vec3{probe, probe, probe})
	}

	// Snap min down / max up to multiples of 1/scale.
	step := 1.0 / float64(scale)
	min = mgl64.Vec3{
		math.Floor(min.X()/step) * step,
		math.Floor(min.Y()/step) * step,
		math.Floor(min.Z()/step) * step,
	}
	max = mgl64.Vec3{
		math.Ceil(max.X()/step) * step,
		math.Ceil(max.Y()/step) * step,
		math.Ceil(max.Z()/step) * step,
	}

	extent := max.Sub(min)
	if extent.X()*extent.Y()*extent.Z() > 1e6 {
		// Large extents get a coarser grid regardless of how scale was
		// derived above (default or an explicit VoxelSize), capping
		// memory for big inputs at the cost of resolution.
		scale = config.LargeVolumeScale()
	}

	pL := int(math.Ceil(extent.X()*float64(scale))) + 1
	pW := int(math.Ceil(extent.Y()*float64(scale))) + 1
	pH := int(math.Ceil(extent.Z()*float64(scale))) + 1

	voxelCap := opts.ResolvedMaxVoxels()
	total := int64(pL) * int64(pW) * int64(pH)
	if total > voxelCap {
		return nil, fmt.Errorf("%w: %d voxels (%dx%dx%d) exceeds cap %d",
			atom.ErrAllocationFailure, total, pL, pW, pH, voxelCap)
	}

	geo := Geometry{
		Scale:       scale,
		Translation: min.Mul(-1),
		PL:          pL,
		PW:          pW,
		PH:          pH,
	}
	return NewGrid(geo), nil
}

func componentMin(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Min(a.X(), b.X()), math.Min(a.Y(), b.Y()), math.Min(a.Z(), b.Z())}
}

func componentMax(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Max(a.X(), b.X()), math.Max(a.Y(), b.Y()), math.Max(a.Z(), b.Z())}
}
