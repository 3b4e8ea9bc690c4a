package grid

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/molsurf/molsurf/internal/atom"
)

func TestSetupEmptyInput(t *testing.T) {
	_, err := Setup(nil, atom.VDW, atom.Options{})
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestSetupSingleAtomDimensionsPositive(t *testing.T) {
	atoms := []atom.Atom{{Center: mgl64.Vec3{0, 0, 0}, Radius: 1.7}}
	g, err := Setup(atoms, atom.VDW, atom.Options{VoxelSize: 0.5})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if g.PL <= 0 || g.PW <= 0 || g.PH <= 0 {
		t.Fatalf("expected positive dims, got %d %d %d", g.PL, g.PW, g.PH)
	}
	if g.Scale != 2 {
		t.Fatalf("voxelSize 0.5 should resolve scale 2, got %d", g.Scale)
	}
}

func TestSetupSASvsVDWExtentLarger(t *testing.T) {
	atoms := []atom.Atom{{Center: mgl64.Vec3{0, 0, 0}, Radius: 1.7}}
	vdw, err := Setup(atoms, atom.VDW, atom.Options{VoxelSize: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	sas, err := Setup(atoms, atom.SAS, atom.Options{VoxelSize: 0.5, ProbeRadius: 1.4})
	if err != nil {
		t.Fatal(err)
	}
	if sas.PL <= vdw.PL {
		t.Errorf("SAS grid (%d) should be larger than VDW grid (%d) along X", sas.PL, vdw.PL)
	}
}

func TestSetupAllocationFailure(t *testing.T) {
	atoms := []atom.Atom{{Center: mgl64.Vec3{0, 0, 0}, Radius: 500}}
	_, err := Setup(atoms, atom.VDW, atom.Options{VoxelSize: 0.01, MaxVoxels: 1000})
	if !errors.Is(err, atom.ErrAllocationFailure) {
		t.Fatalf("expected ErrAllocationFailure, got %v", err)
	}
}

func TestGeometryIndexRoundTrip(t *testing.T) {
	geo := Geometry{Scale: 2, PL: 4, PW: 5, PH: 6}
	idx := geo.Index(1, 2, 3)
	if idx != 1*5*6+2*6+3 {
		t.Fatalf("unexpected index %d", idx)
	}
	if !geo.InBounds(0, 0, 0) || geo.InBounds(4, 0, 0) || geo.InBounds(-1, 0, 0) {
		t.Fatalf("InBounds behaving incorrectly")
	}
}

func TestWorldGridRoundTrip(t *testing.T) {
	geo := Geometry{Scale: 2, Translation: mgl64.Vec3{5, 5, 5}, PL: 10, PW: 10, PH: 10}
	p := mgl64.Vec3{1.25, -2.5, 0}
	gp := geo.WorldToGrid(p)
	wp := geo.GridToWorld(gp)
	for i := 0; i < 3; i++ {
		if diff := wp[i] - p[i]; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("round trip mismatch at axis %d: got %v want %v", i, wp[i], p[i])
		}
	}
}

func TestNewGridInitialState(t *testing.T) {
	g := NewGrid(Geometry{Scale: 2, PL: 2, PW: 2, PH: 2})
	for i, d := range g.Dist {
		if d != -1 {
			t.Fatalf("Dist[%d] = %v, want -1", i, d)
		}
	}
	for i, a := range g.AtomID {
		if a != -1 {
			t.Fatalf("AtomID[%d] = %v, want -1", i, a)
		}
	}
	for i, b := range g.Bits {
		if b != 0 {
			t.Fatalf("Bits[%d] = %v, want 0", i, b)
		}
	}
}
