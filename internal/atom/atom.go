// Package atom defines the input data model for the molecular surface
// engine: atom centers/radii, the surface kind being extracted, and the
// per-invocation options that control grid resolution and cancellation.
package atom

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/molsurf/molsurf/internal/config"
)

// Atom is one input sphere. Radius must be strictly positive; Center
// coordinates must be finite. The slice index a caller passes an Atom at
// is preserved as its atom ID all the way through to Mesh.AtomIndex.
type Atom struct {
	Center mgl64.Vec3
	Radius float64
}

// Kind selects which of the three (or four, see MS) molecular surfaces to
// extract. The zero value is intentionally invalid so a caller must pick
// one explicitly.
type Kind int

const (
	_ Kind = iota
	VDW
	SAS
	SES
	// MS is an alternate molecular-surface finalization. It shares the
	// SES pipeline (boundary build + EDT) and diverges only at the field
	// finalizer; see DESIGN.md "Open Question decisions".
	MS
)

func (k Kind) String() string {
	switch k {
	case VDW:
		return "vdw"
	case SAS:
		return "sas"
	case SES:
		return "ses"
	case MS:
		return "ms"
	default:
		return "unknown"
	}
}

// NeedsProbe reports whether the kind inflates atom radii by the probe
// radius during rasterization (SAS/SES/MS), as opposed to VDW which uses
// the bare atom radius.
func (k Kind) NeedsProbe() bool {
	return k == SAS || k == SES || k == MS
}

// NeedsBoundaryEDT reports whether the kind requires the boundary-builder
// and EDT propagator stages (SES/MS), as opposed to VDW/SAS which read
// the rasterizer's occupancy flag directly.
func (k Kind) NeedsBoundaryEDT() bool {
	return k == SES || k == MS
}

// DefaultProbeRadius is the standard water-probe radius in world units,
// used by SAS/SES/MS when Options.ProbeRadius is zero-valued (not set).
const DefaultProbeRadius = 1.4

// Signal is a cooperative cancellation token checked between the coarse
// engine stages (after grid setup, after rasterization, after EDT, after
// extraction). Cancellation is only honored at these stage boundaries;
// mid-stage cancellation is not offered.
type Signal interface {
	// Cancelled reports whether cancellation has been requested.
	Cancelled() bool
}

// Options carries the recognized per-invocation knobs.
type Options struct {
	// ProbeRadius is the solvent probe radius in world units. Ignored for
	// VDW. Zero means DefaultProbeRadius.
	ProbeRadius float64
	// VoxelSize is the target voxel edge length in world units. Zero
	// means "derive from extent". When set, the scale factor is
	// max(1, round(1/VoxelSize)).
	VoxelSize float64
	// MaxVoxels caps pL*pW*pH; exceeding it is an AllocationFailure.
	// Zero means DefaultMaxVoxels.
	MaxVoxels int64
	// Signal, if non-nil, is polled between stages for cancellation.
	Signal Signal
}

// ResolvedProbeRadius returns the effective probe radius for kind k.
func (o Options) ResolvedProbeRadius(k Kind) float64 {
	if !k.NeedsProbe() {
		return 0
	}
	if o.ProbeRadius > 0 {
		return o.ProbeRadius
	}
	return DefaultProbeRadius
}

// ResolvedMaxVoxels returns the effective allocation cap.
func (o Options) ResolvedMaxVoxels() int64 {
	if o.MaxVoxels > 0 {
		return o.MaxVoxels
	}
	return config.DefaultMaxVoxels()
}

// Errors surfaced by the engine. Exact Go error values are implementation
// detail; callers should use errors.Is against these sentinels rather
// than matching on the wrapped message text.
var (
	ErrInvalidOption     = errors.New("molsurf: invalid option")
	ErrAllocationFailure = errors.New("molsurf: grid allocation exceeds cap")
	ErrAborted           = errors.New("molsurf: aborted")
)

// Validate checks atoms and options before any grid allocation happens.
// An empty atom slice is not an error here; EmptyInput is a non-fault
// empty mesh, handled by the caller (internal/engine's Compute) rather
// than this validator.
func Validate(atoms []Atom, opts Options) error {
	for i, a := range atoms {
		if a.Radius <= 0 || math.IsNaN(a.Radius) || math.IsInf(a.Radius, 0) {
			return wrapf(ErrInvalidOption, "atom %d: radius %g must be positive and finite", i, a.Radius)
		}
		if !finite3(a.Center) {
			return wrapf(ErrInvalidOption, "atom %d: non-finite coordinate", i)
		}
	}
	if opts.VoxelSize < 0 {
		return wrapf(ErrInvalidOption, "voxelSize %g must be positive", opts.VoxelSize)
	}
	if opts.VoxelSize > 0 && math.IsInf(opts.VoxelSize, 0) {
		return wrapf(ErrInvalidOption, "voxelSize must be finite")
	}
	if opts.ProbeRadius < 0 {
		return wrapf(ErrInvalidOption, "probeRadius %g must be non-negative", opts.ProbeRadius)
	}
	return nil
}

func wrapf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...)
}

func finite3(v mgl64.Vec3) bool {
	return !math.IsInf(v.X(), 0) && !math.IsNaN(v.X()) &&
		!math.IsInf(v.Y(), 0) && !math.IsNaN(v.Y()) &&
		!math.IsInf(v.Z(), 0) && !math.IsNaN(v.Z())
}
