package atomio

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	return path
}

func TestLoadTextWhitespaceSeparated(t *testing.T) {
	path := writeTemp(t, "atoms.txt", "# comment\n0 0 0 1.5\n\n1.2 3.4 5.6 1.7\n")
	atoms, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(atoms) != 2 {
		t.Fatalf("expected 2 atoms, got %d", len(atoms))
	}
	if atoms[1].X != 1.2 || atoms[1].Radius != 1.7 {
		t.Fatalf("unexpected parsed atom: %+v", atoms[1])
	}
}

func TestLoadTextCSVSeparated(t *testing.T) {
	path := writeTemp(t, "atoms.csv", "0,0,0,1.5\n1,2,3,2.0\n")
	atoms, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(atoms) != 2 {
		t.Fatalf("expected 2 atoms, got %d", len(atoms))
	}
}

func TestLoadTextRejectsWrongFieldCount(t *testing.T) {
	path := writeTemp(t, "bad.txt", "0 0 0\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected an error for a malformed line")
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeTemp(t, "atoms.json", `[{"x":0,"y":0,"z":0,"radius":1.5},{"x":1,"y":1,"z":1,"radius":2.0}]`)
	atoms, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(atoms) != 2 || atoms[1].Radius != 2.0 {
		t.Fatalf("unexpected atoms: %+v", atoms)
	}
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
