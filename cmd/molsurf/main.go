// Command molsurf is the CLI entry point: load an atom list, compute one of
// the four surface kinds, and write the resulting mesh to disk. Graceful
// shutdown on SIGINT/SIGTERM uses xlab/closer, tripping the engine's
// cancellation signal between stages instead of killing the process
// mid-write.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/xlab/closer"

	"github.com/molsurf/molsurf/pkg/atomio"
	"github.com/molsurf/molsurf/pkg/molsurf"
)

// cancelFlag adapts an atomic bool to molsurf.Signal.
type cancelFlag struct{ v atomic.Bool }

func (c *cancelFlag) Cancelled() bool { return c.v.Load() }
func (c *cancelFlag) Trip()           { c.v.Store(true) }

func main() {
	in := flag.String("atoms", "", "path to an atom list (.json or whitespace/CSV text)")
	out := flag.String("out", "surface.obj", "output mesh path (.obj or .json)")
	kind := flag.String("kind", "ses", "surface kind: vdw|sas|ses|ms")
	probe := flag.Float64("probe", molsurf.ProbeDefault, "probe radius (world units)")
	voxel := flag.Float64("voxel", 0, "voxel edge length (world units); 0 derives from extent")
	maxVoxels := flag.Int64("max-voxels", 0, "grid allocation cap; 0 uses the engine default")
	flag.Parse()

	if *in == "" {
		log.Fatal("molsurf: -atoms is required")
	}

	signal := &cancelFlag{}
	defer closer.Close()
	closer.Bind(func() {
		signal.Trip()
		log.Println("molsurf: interrupted, cancelling at next stage boundary")
	})

	atoms, err := atomio.Load(*in)
	if err != nil {
		log.Fatalf("molsurf: %v", err)
	}
	log.Printf("molsurf: loaded %d atoms from %s", len(atoms), *in)

	opts := molsurf.Options{
		ProbeRadius: *probe,
		VoxelSize:   *voxel,
		MaxVoxels:   *maxVoxels,
		Signal:      signal,
	}

	mesh, err := compute(atoms, *kind, opts)
	if err != nil {
		log.Fatalf("molsurf: %v", err)
	}
	log.Printf("molsurf: %s surface: %d vertices, %d triangles, %d components, area=%.3f volume=%.3f",
		*kind, len(mesh.Positions)/3, len(mesh.Indices)/3, len(mesh.Components),
		mesh.SurfaceArea(), mesh.EnclosedVolume())

	if err := writeMesh(*out, mesh); err != nil {
		log.Fatalf("molsurf: %v", err)
	}
	log.Printf("molsurf: wrote %s", *out)
}

func compute(atoms []molsurf.Atom, kind string, opts molsurf.Options) (*molsurf.Mesh, error) {
	switch kind {
	case "vdw":
		return molsurf.VDW(atoms, opts)
	case "sas":
		return molsurf.SAS(atoms, opts)
	case "ses":
		return molsurf.SES(atoms, opts)
	case "ms":
		return molsurf.MS(atoms, opts)
	default:
		return nil, fmt.Errorf("unknown surface kind %q (want vdw|sas|ses|ms)", kind)
	}
}

func writeMesh(path string, mesh *molsurf.Mesh) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return writeJSON(path, mesh)
	default:
		return writeOBJ(path, mesh)
	}
}

type jsonMesh struct {
	Positions []float32 `json:"positions"`
	Normals   []float32 `json:"normals"`
	Indices   []uint32  `json:"indices"`
	AtomIndex []uint32  `json:"atomIndex"`
}

func writeJSON(path string, mesh *molsurf.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("molsurf: create %q: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	return enc.Encode(jsonMesh{
		Positions: mesh.Positions,
		Normals:   mesh.Normals,
		Indices:   mesh.Indices,
		AtomIndex: mesh.AtomIndex,
	})
}

func writeOBJ(path string, mesh *molsurf.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("molsurf: create %q: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	n := len(mesh.Positions) / 3
	for i := 0; i < n; i++ {
		fmt.Fprintf(w, "v %g %g %g\n", mesh.Positions[3*i], mesh.Positions[3*i+1], mesh.Positions[3*i+2])
	}
	for i := 0; i < n; i++ {
		fmt.Fprintf(w, "vn %g %g %g\n", mesh.Normals[3*i], mesh.Normals[3*i+1], mesh.Normals[3*i+2])
	}
	for t := 0; t+3 <= len(mesh.Indices); t += 3 {
		a, b, c := mesh.Indices[t]+1, mesh.Indices[t+1]+1, mesh.Indices[t+2]+1
		fmt.Fprintf(w, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c)
	}
	return w.Flush()
}
