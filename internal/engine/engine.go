// Package engine wires grid -> raster -> boundary -> edt -> field -> nets
// -> orient -> finalize into a single synchronous Compute call.
package engine

import (
	"fmt"

	"github.com/molsurf/molsurf/internal/atom"
	"github.com/molsurf/molsurf/internal/boundary"
	"github.com/molsurf/molsurf/internal/edt"
	"github.com/molsurf/molsurf/internal/field"
	"github.com/molsurf/molsurf/internal/finalize"
	"github.com/molsurf/molsurf/internal/grid"
	"github.com/molsurf/molsurf/internal/nets"
	"github.com/molsurf/molsurf/internal/orient"
	"github.com/molsurf/molsurf/internal/raster"
)

// Compute runs the full pipeline for the given atoms, surface kind and
// options. It is a pure function of its inputs, with no shared mutable
// state across invocations, save for logging/profiling side-effects. An
// empty atom slice yields an empty mesh, not an error.
func Compute(atoms []atom.Atom, kind atom.Kind, opts atom.Options) (*finalize.Mesh, error) {
	if err := atom.Validate(atoms, opts); err != nil {
		return nil, err
	}
	if len(atoms) == 0 {
		return &finalize.Mesh{}, nil
	}

	g, err := grid.Setup(atoms, kind, opts)
	if err != nil {
		return nil, err
	}
	if aborted(opts) {
		return nil, atom.ErrAborted
	}

	probe := opts.ResolvedProbeRadius(kind)
	if kind == atom.VDW {
		raster.VDW(g, atoms)
	} else {
		raster.Inflated(g, atoms, probe)
	}
	if aborted(opts) {
		return nil, atom.ErrAborted
	}

	if kind.NeedsBoundaryEDT() {
		boundary.Build(g)
		edt.Propagate(g, probe)
	}
	if aborted(opts) {
		return nil, atom.ErrAborted
	}

	field.Finalize(g, kind)

	raw := nets.Extract(g)
	cleaned := orient.Clean(g, raw)
	if aborted(opts) {
		return nil, atom.ErrAborted
	}

	mesh := finalize.Build(g, atoms, cleaned)
	checkInvariants(mesh, len(atoms))
	return mesh, nil
}

func aborted(opts atom.Options) bool {
	return opts.Signal != nil && opts.Signal.Cancelled()
}

// checkInvariants defensively verifies the post-extraction invariants
// that must always hold in a healthy run. A violation means the pipeline
// itself is broken, so it panics rather than returning a masked error.
func checkInvariants(m *finalize.Mesh, numAtoms int) {
	v := len(m.Positions) / 3
	if len(m.Indices)%3 != 0 {
		panic(fmt.Sprintf("molsurf: internal invariant violated: index count %d not a multiple of 3", len(m.Indices)))
	}
	for t := 0; t+3 <= len(m.Indices); t += 3 {
		a, b, c := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		if int(a) >= v || int(b) >= v || int(c) >= v {
			panic(fmt.Sprintf("molsurf: internal invariant violated: triangle %d references out-of-range vertex", t/3))
		}
		if a == b || b == c || a == c {
			panic(fmt.Sprintf("molsurf: internal invariant violated: degenerate triangle %d survived cleanup", t/3))
		}
	}
	for _, id := range m.AtomIndex {
		if int(id) >= numAtoms {
			panic(fmt.Sprintf("molsurf: internal invariant violated: atomIndex %d out of range", id))
		}
	}
}
