package grid

// Flags is a tagged-union-as-bitfield: each voxel's single byte carries
// up to three bits that are re-tagged across pipeline stages. Keeping it
// a byte bitfield, rather than an enum plus side tables, keeps per-voxel
// state compact and cache-friendly across a grid that can run into the
// tens of millions of voxels.
type Flags byte

const (
	// INOUT marks a voxel inside some inflated sphere (initial occupancy
	// pass).
	INOUT Flags = 1 << iota
	// ISDONE marks a voxel "inside" for the current surface mode; the
	// single source of truth for inside/outside after field finalization.
	ISDONE
	// ISBOUND marks a voxel on the active boundary; transient during
	// boundary building and EDT.
	ISBOUND
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

func (f Flags) Set(bit Flags) Flags   { return f | bit }
func (f Flags) Clear(bit Flags) Flags { return f &^ bit }
