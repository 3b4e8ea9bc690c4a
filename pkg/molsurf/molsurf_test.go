package molsurf

import (
	"errors"
	"testing"
)

func TestVDWSingleAtomProducesClosedSphere(t *testing.T) {
	atoms := []Atom{{X: 0, Y: 0, Z: 0, Radius: 1.5}}
	mesh, err := VDW(atoms, Options{VoxelSize: 0.3})
	if err != nil {
		t.Fatalf("VDW failed: %v", err)
	}
	if len(mesh.Positions) == 0 {
		t.Fatalf("expected a non-empty mesh")
	}
	if len(mesh.Components) != 1 || mesh.Components[0].EulerCharacteristic != 2 {
		t.Fatalf("expected a single topological sphere, got %+v", mesh.Components)
	}
}

func TestSESDefaultsProbeRadiusWhenUnset(t *testing.T) {
	atoms := []Atom{{X: 0, Y: 0, Z: 0, Radius: 1.5}}
	withDefault, err := SES(atoms, Options{VoxelSize: 0.3})
	if err != nil {
		t.Fatalf("SES with default probe failed: %v", err)
	}
	withExplicit, err := SES(atoms, Options{VoxelSize: 0.3, ProbeRadius: ProbeDefault})
	if err != nil {
		t.Fatalf("SES with explicit default probe failed: %v", err)
	}
	if len(withDefault.Positions) != len(withExplicit.Positions) {
		t.Fatalf("zero ProbeRadius should resolve to ProbeDefault")
	}
}

func TestMSRunsTheSESPipelineWithoutError(t *testing.T) {
	atoms := []Atom{{X: 0, Y: 0, Z: 0, Radius: 1.7}, {X: 2.2, Y: 0, Z: 0, Radius: 1.7}}
	mesh, err := MS(atoms, Options{VoxelSize: 0.4})
	if err != nil {
		t.Fatalf("MS failed: %v", err)
	}
	if len(mesh.Indices) == 0 {
		t.Fatalf("expected a non-empty MS mesh for two overlapping atoms")
	}
}

func TestInvalidRadiusReturnsErrInvalidOption(t *testing.T) {
	atoms := []Atom{{X: 0, Y: 0, Z: 0, Radius: 0}}
	_, err := VDW(atoms, Options{})
	if !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption, got %v", err)
	}
}

type alwaysCancelled struct{}

func (alwaysCancelled) Cancelled() bool { return true }

func TestSignalCancelledBeforeFirstCheckAborts(t *testing.T) {
	atoms := []Atom{{X: 0, Y: 0, Z: 0, Radius: 1.5}}
	_, err := VDW(atoms, Options{VoxelSize: 0.3, Signal: alwaysCancelled{}})
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestEmptyAtomSliceProducesEmptyMeshNoError(t *testing.T) {
	mesh, err := VDW(nil, Options{})
	if err != nil {
		t.Fatalf("unexpected error for empty input: %v", err)
	}
	if len(mesh.Positions) != 0 {
		t.Fatalf("expected an empty mesh")
	}
}
