// Package raster implements the per-radius depth-column template builder
// and the sphere rasterizer that marks voxels inside each atom's
// (possibly probe-inflated) sphere, tracking the nearest atom per voxel
// as it goes.
package raster

import "math"

// Template is the memoized per-radius lookup: W is the half-width of the
// bounding column grid, and Depty[j*W+k] is either -1 or the maximum |i|
// such that (i, j, k) lies inside the sphere along the first axis.
// Rasterization walks O(w^2) columns instead of O(w^3) cells.
type Template struct {
	W     int
	Depty []int
}

// Cache memoizes Template by quantized radius key, scoped to a single
// engine invocation; no cross-invocation sharing is required. The zero
// value is ready to use.
type Cache struct {
	byKey map[int]Template
}

// NewCache returns an empty, invocation-scoped template cache.
func NewCache() *Cache {
	return &Cache{byKey: make(map[int]Template)}
}

// Get returns the template for effective radius rEff at the given grid
// scale, building and memoizing it on first use.
//
// key = round(rEff*scale + 0.5); w = floor(rEff*scale + 0.5) + 1.
func (c *Cache) Get(rEff float64, scale int) Template {
	scaled := rEff * float64(scale)
	key := int(math.Round(scaled + 0.5))
	if t, ok := c.byKey[key]; ok {
		return t
	}
	if c.byKey == nil {
		c.byKey = make(map[int]Template)
	}
	t := build(scaled)
	c.byKey[key] = t
	return t
}

func build(scaledRadius float64) Template {
	w := int(math.Floor(scaledRadius+0.5)) + 1
	sr2 := scaledRadius * scaledRadius

	depty := make([]int, w*w)
	for j := 0; j < w; j++ {
		for k := 0; k < w; k++ {
			sum := float64(j*j + k*k)
			if sum <= sr2 {
				depty[j*w+k] = int(math.Floor(math.Sqrt(sr2 - sum)))
			} else {
				depty[j*w+k] = -1
			}
		}
	}
	return Template{W: w, Depty: depty}
}
