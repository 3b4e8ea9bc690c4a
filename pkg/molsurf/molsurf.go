// Package molsurf is the public entry point for the molecular surface
// engine: given a set of atoms and a probe radius, compute a closed,
// oriented triangle mesh approximating the van der Waals, solvent
// accessible, solvent excluded, or molecular surface.
//
// VDW/SAS/SES/MS are the only exported functions a caller needs; Options
// and Mesh carry everything else. The engine is a synchronous, pure
// function of its inputs (see pkg/engineservice for an async wrapper).
package molsurf

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/molsurf/molsurf/internal/atom"
	"github.com/molsurf/molsurf/internal/engine"
	"github.com/molsurf/molsurf/internal/finalize"
)

// Atom is one input sphere: a center and a strictly positive radius, in
// whatever world units the caller's geometry is expressed in.
type Atom struct {
	X, Y, Z float64
	Radius  float64
}

// Signal is a cooperative cancellation token polled between the engine's
// coarse stages (after grid setup, after rasterization, after EDT, after
// extraction). Mid-stage cancellation is not offered.
type Signal interface {
	Cancelled() bool
}

// Options carries the recognized per-invocation knobs.
type Options struct {
	// ProbeRadius is the solvent probe radius in world units. Ignored for
	// VDW. Zero means the default of 1.4.
	ProbeRadius float64
	// VoxelSize is the target voxel edge length in world units. Zero
	// derives a scale from the atom extent.
	VoxelSize float64
	// MaxVoxels caps the allocated grid's voxel count. Zero means the
	// configured default (see internal/config).
	MaxVoxels int64
	// Signal, if non-nil, is polled for cancellation between stages.
	Signal Signal
}

// ProbeDefault is the standard water-probe radius (world units) used by
// SAS/SES/MS when Options.ProbeRadius is left at zero.
const ProbeDefault = atom.DefaultProbeRadius

// Mesh is the produced geometry: positions/normals/indices/atomIndex,
// plus component diagnostics (cavity/genus detection, enclosed volume,
// surface area, per-atom area).
type Mesh = finalize.Mesh

// ComponentInfo reports one connected component's vertex/edge/triangle
// counts and Euler characteristic.
type ComponentInfo = finalize.ComponentInfo

// Error sentinels. Check with errors.Is.
var (
	ErrInvalidOption     = atom.ErrInvalidOption
	ErrAllocationFailure = atom.ErrAllocationFailure
	ErrAborted           = atom.ErrAborted
)

// VDW computes the van der Waals surface: the union of atom spheres at
// their bare radii.
func VDW(atoms []Atom, opts Options) (*Mesh, error) {
	return run(atoms, atom.VDW, opts)
}

// SAS computes the solvent-accessible surface: the union of spheres
// inflated by the probe radius.
func SAS(atoms []Atom, opts Options) (*Mesh, error) {
	return run(atoms, atom.SAS, opts)
}

// SES computes the solvent-excluded surface via boundary build + EDT
// band carving.
func SES(atoms []Atom, opts Options) (*Mesh, error) {
	return run(atoms, atom.SES, opts)
}

// MS computes an alternate molecular-surface finalization, exposed as
// its own entry point per the open-question decision recorded in
// DESIGN.md. It shares the SES pipeline through EDT and diverges only at
// the field finalizer.
func MS(atoms []Atom, opts Options) (*Mesh, error) {
	return run(atoms, atom.MS, opts)
}

func run(atoms []Atom, kind atom.Kind, opts Options) (*Mesh, error) {
	internalAtoms := make([]atom.Atom, len(atoms))
	for i, a := range atoms {
		internalAtoms[i] = atom.Atom{
			Center: mgl64.Vec3{a.X, a.Y, a.Z},
			Radius: a.Radius,
		}
	}
	internalOpts := atom.Options{
		ProbeRadius: opts.ProbeRadius,
		VoxelSize:   opts.VoxelSize,
		MaxVoxels:   opts.MaxVoxels,
	}
	if opts.Signal != nil {
		internalOpts.Signal = opts.Signal
	}
	return engine.Compute(internalAtoms, kind, internalOpts)
}
