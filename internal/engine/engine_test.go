package engine

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/molsurf/molsurf/internal/atom"
)

func TestComputeEmptyInputReturnsEmptyMesh(t *testing.T) {
	mesh, err := Compute(nil, atom.VDW, atom.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mesh.Positions) != 0 || len(mesh.Indices) != 0 {
		t.Fatalf("expected an empty mesh for empty input")
	}
}

func TestComputeRejectsInvalidOptions(t *testing.T) {
	atoms := []atom.Atom{{Center: mgl64.Vec3{0, 0, 0}, Radius: -1}}
	_, err := Compute(atoms, atom.VDW, atom.Options{})
	if !errors.Is(err, atom.ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption, got %v", err)
	}
}

func TestComputeSingleAtomVDWIsOneSphere(t *testing.T) {
	atoms := []atom.Atom{{Center: mgl64.Vec3{0, 0, 0}, Radius: 1.5}}
	mesh, err := Compute(atoms, atom.VDW, atom.Options{VoxelSize: 0.3})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if len(mesh.Components) != 1 {
		t.Fatalf("expected a single watertight component, got %d", len(mesh.Components))
	}
	if mesh.Components[0].EulerCharacteristic != 2 {
		t.Fatalf("expected topological sphere, got Euler char %d", mesh.Components[0].EulerCharacteristic)
	}
}

func TestComputeSASVolumeExceedsVDWVolume(t *testing.T) {
	atoms := []atom.Atom{{Center: mgl64.Vec3{0, 0, 0}, Radius: 1.5}}
	vdw, err := Compute(atoms, atom.VDW, atom.Options{VoxelSize: 0.3})
	if err != nil {
		t.Fatalf("vdw Compute failed: %v", err)
	}
	sas, err := Compute(atoms, atom.SAS, atom.Options{VoxelSize: 0.3, ProbeRadius: 1.4})
	if err != nil {
		t.Fatalf("sas Compute failed: %v", err)
	}
	if sas.EnclosedVolume() <= vdw.EnclosedVolume() {
		t.Fatalf("SAS volume (%v) should exceed VDW volume (%v)", sas.EnclosedVolume(), vdw.EnclosedVolume())
	}
}

func TestComputeSESClosesProbeInaccessibleCavity(t *testing.T) {
	// Three atoms arranged so the 1.4A probe can't fit between them: the
	// SES should close over the crevice, while SAS leaves it open enough
	// that SES volume is less than SAS volume for the same cluster.
	atoms := []atom.Atom{
		{Center: mgl64.Vec3{0, 0, 0}, Radius: 1.7},
		{Center: mgl64.Vec3{1.8, 1.2, 0}, Radius: 1.7},
		{Center: mgl64.Vec3{1.8, -1.2, 0}, Radius: 1.7},
	}
	opts := atom.Options{VoxelSize: 0.35, ProbeRadius: 1.4}
	sas, err := Compute(atoms, atom.SAS, opts)
	if err != nil {
		t.Fatalf("sas Compute failed: %v", err)
	}
	ses, err := Compute(atoms, atom.SES, opts)
	if err != nil {
		t.Fatalf("ses Compute failed: %v", err)
	}
	if ses.EnclosedVolume() >= sas.EnclosedVolume() {
		t.Fatalf("SES volume (%v) should be smaller than SAS volume (%v)", ses.EnclosedVolume(), sas.EnclosedVolume())
	}
}

type abortAfterFirstCheck struct{ calls int }

func (a *abortAfterFirstCheck) Cancelled() bool {
	a.calls++
	return a.calls > 1
}

func TestComputeHonorsCancellationSignal(t *testing.T) {
	atoms := []atom.Atom{{Center: mgl64.Vec3{0, 0, 0}, Radius: 1.5}}
	sig := &abortAfterFirstCheck{}
	_, err := Compute(atoms, atom.SES, atom.Options{VoxelSize: 0.3, Signal: sig})
	if !errors.Is(err, atom.ErrAborted) {
		t.Fatalf("expected ErrAborted once the signal trips, got %v", err)
	}
}

func TestComputeTwoDistantAtomsTwoComponents(t *testing.T) {
	atoms := []atom.Atom{
		{Center: mgl64.Vec3{0, 0, 0}, Radius: 1.5},
		{Center: mgl64.Vec3{30, 0, 0}, Radius: 1.5},
	}
	mesh, err := Compute(atoms, atom.VDW, atom.Options{VoxelSize: 0.5})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if len(mesh.Components) != 2 {
		t.Fatalf("expected two disjoint components, got %d", len(mesh.Components))
	}
}
