// Package atomio is the file-parsing boundary kept deliberately outside
// the core engine's scope. It reads atom records from a whitespace/CSV
// text format or a JSON array and hands back plain []molsurf.Atom; the
// engine never imports this package.
//
// The read-unmarshal-wrap error style follows pkg/blockmodel's loader.
package atomio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/molsurf/molsurf/pkg/molsurf"
)

// jsonAtom is the on-disk JSON shape: {"x":.., "y":.., "z":.., "radius":..}.
type jsonAtom struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	Radius float64 `json:"radius"`
}

// Load reads atoms from path, dispatching on extension: ".json" for a
// JSON array of {x,y,z,radius} objects, anything else for the
// whitespace/CSV text format (one atom per line: "x y z radius" or
// "x,y,z,radius", blank lines and "#" comments ignored).
func Load(path string) ([]molsurf.Atom, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return LoadJSON(path)
	}
	return LoadText(path)
}

// LoadJSON reads a JSON array of atom records from path.
func LoadJSON(path string) ([]molsurf.Atom, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("atomio: could not read %q: %w", path, err)
	}

	var records []jsonAtom
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("atomio: could not unmarshal %q: %w", path, err)
	}

	atoms := make([]molsurf.Atom, len(records))
	for i, r := range records {
		atoms[i] = molsurf.Atom{X: r.X, Y: r.Y, Z: r.Z, Radius: r.Radius}
	}
	return atoms, nil
}

// LoadText reads one atom per line ("x y z radius" or "x,y,z,radius")
// from path. Blank lines and lines starting with "#" are skipped.
func LoadText(path string) ([]molsurf.Atom, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("atomio: could not open %q: %w", path, err)
	}
	defer f.Close()

	var atoms []molsurf.Atom
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		if len(fields) != 4 {
			return nil, fmt.Errorf("atomio: %s:%d: expected 4 fields, got %d", path, lineNo, len(fields))
		}
		vals := make([]float64, 4)
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("atomio: %s:%d: field %d: %w", path, lineNo, i, err)
			}
			vals[i] = v
		}
		atoms = append(atoms, molsurf.Atom{X: vals[0], Y: vals[1], Z: vals[2], Radius: vals[3]})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("atomio: %s: %w", path, err)
	}
	return atoms, nil
}
