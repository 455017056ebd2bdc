package terrain

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// recenterFraction is the fraction of the grid extent the observer must move
// before UpdateCenter rebuilds the grid. Bounds cache staleness to roughly
// 10% of the extent in any direction without rebuilding every frame.
const recenterFraction = 0.1

// HeightField caches the elevation function over an N x N grid centered on
// the observer and answers point queries by bilinear interpolation.
//
// Not safe for concurrent use: sampleDirect recenters the grid and restores
// it, so the whole field must be owned by a single call stack at a time.
type HeightField struct {
	n      int     // samples per side, >= 2
	extent float32 // world size of the cached window, > 0

	cx, cz  float32 // center of the last rebuilt window
	samples []float32
	dirty   bool

	scale     float32
	amplitude float32

	eval Evaluator
}

// NewHeightField builds a height field over the given evaluator and performs
// the initial grid fill at the origin. n must be at least 2 and extent
// positive; malformed parameters are a construction error, not a runtime
// condition, so they fail immediately.
func NewHeightField(eval Evaluator, n int, extent, scale, amplitude float32) (*HeightField, error) {
	if n < 2 {
		return nil, fmt.Errorf("heightfield: grid size %d, need at least 2", n)
	}
	if extent <= 0 {
		return nil, fmt.Errorf("heightfield: extent %f, need > 0", extent)
	}
	hf := &HeightField{
		n:         n,
		extent:    extent,
		samples:   make([]float32, n*n),
		scale:     scale,
		amplitude: amplitude,
		eval:      eval,
	}
	hf.rebuild(0, 0)
	return hf, nil
}

// rebuild evaluates the grid for a window centered at (cx, cz) and records
// that center as current.
func (hf *HeightField) rebuild(cx, cz float32) {
	hf.eval.FillGrid(hf.samples, hf.n, cx, cz, hf.extent, hf.scale, hf.amplitude)
	hf.cx = cx
	hf.cz = cz
	hf.dirty = false
}

// UpdateCenter recenters the cached grid on the observer. The grid is only
// rebuilt when the observer has moved more than 10% of the extent since the
// last rebuild, or when the cache was marked dirty. Call once per frame
// before any HeightAt queries that should see the current position.
func (hf *HeightField) UpdateCenter(x, z float32) {
	if !hf.dirty {
		dx := float64(x - hf.cx)
		dz := float64(z - hf.cz)
		if math.Hypot(dx, dz) <= recenterFraction*float64(hf.extent) {
			return
		}
	}
	hf.rebuild(x, z)
}

// SyncParams adopts new elevation parameters. When either changes the cache
// is marked dirty so the next UpdateCenter rebuilds regardless of movement.
func (hf *HeightField) SyncParams(scale, amplitude float32) {
	if scale != hf.scale || amplitude != hf.amplitude {
		hf.scale = scale
		hf.amplitude = amplitude
		hf.dirty = true
	}
}

// HeightAt returns the ground elevation at world (x, z). Points inside the
// cached window cost a bilinear interpolation; points outside fall back to a
// direct sample, which is exact but pays for a full grid rebuild.
func (hf *HeightField) HeightAt(x, z float32) float32 {
	half := hf.extent / 2
	nx := (x - hf.cx + half) / hf.extent
	nz := (z - hf.cz + half) / hf.extent
	if nx < 0 || nx > 1 || nz < 0 || nz > 1 {
		return hf.sampleDirect(x, z)
	}

	// Continuous grid coordinates.
	px := float64(nx) * float64(hf.n-1)
	pz := float64(nz) * float64(hf.n-1)
	x0 := int(math.Floor(px))
	z0 := int(math.Floor(pz))
	fx := float32(px - math.Floor(px))
	fz := float32(pz - math.Floor(pz))

	// Clamp neighbors to the grid edge; the grid does not wrap.
	x1 := x0 + 1
	z1 := z0 + 1
	if x1 > hf.n-1 {
		x1 = hf.n - 1
	}
	if z1 > hf.n-1 {
		z1 = hf.n - 1
	}

	h00 := hf.samples[z0*hf.n+x0]
	h10 := hf.samples[z0*hf.n+x1]
	h01 := hf.samples[z1*hf.n+x0]
	h11 := hf.samples[z1*hf.n+x1]

	top := h00 + (h10-h00)*fx
	bot := h01 + (h11-h01)*fx
	return top + (bot-top)*fz
}

// Heights answers a batch of (x, z) queries. Purely a convenience over
// HeightAt; out-of-window points each pay their own fallback rebuild.
func (hf *HeightField) Heights(points []mgl32.Vec2) []float32 {
	out := make([]float32, len(points))
	for i, p := range points {
		out[i] = hf.HeightAt(p.X(), p.Y())
	}
	return out
}

// sampleDirect answers an out-of-window query exactly: recenter the grid on
// the query point, rebuild, read the center sample, then restore the old
// center and mark the cache dirty so the next UpdateCenter refills it at the
// real observer position. Non-reentrant: a nested call while a rebuild is in
// flight corrupts the restored center.
func (hf *HeightField) sampleDirect(x, z float32) float32 {
	prevX, prevZ := hf.cx, hf.cz

	hf.rebuild(x, z)
	center := (hf.n/2)*hf.n + hf.n/2
	h := hf.samples[center]

	hf.cx = prevX
	hf.cz = prevZ
	hf.dirty = true
	return h
}

// Center returns the center of the last rebuilt window.
func (hf *HeightField) Center() (float32, float32) {
	return hf.cx, hf.cz
}

// Samples exposes the raw sample grid for bulk consumers (mesh building).
// Read-only by convention; valid until the next rebuild.
func (hf *HeightField) Samples() []float32 {
	return hf.samples
}

// GridSize returns the number of samples per side.
func (hf *HeightField) GridSize() int {
	return hf.n
}

// Extent returns the world size of the cached window.
func (hf *HeightField) Extent() float32 {
	return hf.extent
}

// Dispose releases the evaluator's device resources. The field must not be
// used afterwards.
func (hf *HeightField) Dispose() {
	hf.eval.Release()
}
