package atom

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestKindString(t *testing.T) {
	cases := map[Kind]string{VDW: "vdw", SAS: "sas", SES: "ses", MS: "ms", Kind(99): "unknown"}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestNeedsProbeAndBoundaryEDT(t *testing.T) {
	if VDW.NeedsProbe() {
		t.Error("VDW should not need a probe")
	}
	for _, k := range []Kind{SAS, SES, MS} {
		if !k.NeedsProbe() {
			t.Errorf("%v should need a probe", k)
		}
	}
	for _, k := range []Kind{VDW, SAS} {
		if k.NeedsBoundaryEDT() {
			t.Errorf("%v should not need boundary/EDT", k)
		}
	}
	for _, k := range []Kind{SES, MS} {
		if !k.NeedsBoundaryEDT() {
			t.Errorf("%v should need boundary/EDT", k)
		}
	}
}

func TestResolvedProbeRadius(t *testing.T) {
	o := Options{}
	if got := o.ResolvedProbeRadius(VDW); got != 0 {
		t.Errorf("VDW probe = %v, want 0", got)
	}
	if got := o.ResolvedProbeRadius(SES); got != DefaultProbeRadius {
		t.Errorf("default SES probe = %v, want %v", got, DefaultProbeRadius)
	}
	o.ProbeRadius = 2.0
	if got := o.ResolvedProbeRadius(SAS); got != 2.0 {
		t.Errorf("overridden probe = %v, want 2.0", got)
	}
}

func TestValidateRejectsNonPositiveRadius(t *testing.T) {
	atoms := []Atom{{Center: mgl64.Vec3{0, 0, 0}, Radius: 0}}
	err := Validate(atoms, Options{})
	if !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption, got %v", err)
	}
}

func TestValidateRejectsNonFiniteCoordinate(t *testing.T) {
	atoms := []Atom{{Center: mgl64.Vec3{math.Inf(1), 0, 0}, Radius: 1}}
	if err := Validate(atoms, Options{}); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption for non-finite coordinate, got %v", err)
	}
}

func TestValidateRejectsBadOptions(t *testing.T) {
	atoms := []Atom{{Center: mgl64.Vec3{0, 0, 0}, Radius: 1}}
	if err := Validate(atoms, Options{VoxelSize: -1}); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("expected ErrInvalidOption for negative voxelSize")
	}
	if err := Validate(atoms, Options{ProbeRadius: -1}); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("expected ErrInvalidOption for negative probeRadius")
	}
}

func TestValidateAcceptsEmptyInput(t *testing.T) {
	if err := Validate(nil, Options{}); err != nil {
		t.Errorf("empty atom slice should validate cleanly, got %v", err)
	}
}

func TestValidateAcceptsWellFormedInput(t *testing.T) {
	atoms := []Atom{{Center: mgl64.Vec3{1, 2, 3}, Radius: 1.7}}
	if err := Validate(atoms, Options{ProbeRadius: 1.4, VoxelSize: 0.5}); err != nil {
		t.Errorf("well-formed input rejected: %v", err)
	}
}
