package spatial

import (
	"math"
)

// Observer-relative coordinate wrapping. The world is unbounded; everything
// drawn lives inside a periodic window [-range/2, range/2) centered on the
// observer. All functions here are pure and stateless.

// wrapJumpFactor is the fraction of the half-window a screen coordinate must
// jump between two consecutive frames before we treat it as a wrap
// discontinuity rather than fast motion.
const wrapJumpFactor = 0.8

// Wrap folds a world-space Z coordinate into the observer's periodic window,
// returning its representative in [-rng/2, rng/2).
//
// Go's math.Mod keeps the sign of the dividend, so the relative coordinate is
// shifted by a full period plus half a window before the second mod. Skipping
// that step produces wrong results whenever the entity is behind the observer.
func Wrap(worldZ, observerZ, rng float32) float32 {
	rel := float64(worldZ) - float64(observerZ)
	r := float64(rng)
	m := math.Mod(rel, r)
	return float32(math.Mod(m+r+r/2, r) - r/2)
}

// WrapX folds a world-space X coordinate into the observer's lateral window.
// Same arithmetic as Wrap; kept separate so call sites read as the axis they
// operate on.
func WrapX(worldX, observerX, rng float32) float32 {
	return Wrap(worldX, observerX, rng)
}

// ScreenToWorld maps a window-relative coordinate back to world space for the
// current observer position. This is not a true inverse of Wrap: it recovers
// a world coordinate congruent to the original modulo the window range, which
// is only the original value if the entity never left the window.
func ScreenToWorld(screenZ, observerZ float32) float32 {
	return screenZ + observerZ
}

// DidWrap reports whether an entity's screen coordinate jumped across the
// window boundary between two consecutive frames. Callers use this to drop
// per-entity caches keyed on absolute position (a wrapped entity is suddenly
// standing on completely different ground).
func DidWrap(currentScreen, previousScreen, rng float32) bool {
	jump := currentScreen - previousScreen
	if jump < 0 {
		jump = -jump
	}
	return jump > wrapJumpFactor*rng/2
}

// DistSqWrapped returns the squared distance between two points after each
// point's axes are independently folded into the observer's window. Near the
// window boundary this is the distance that matters for culling, not the
// absolute one. Passing the observer itself as the second point yields the
// point-to-observer distance.
func DistSqWrapped(x1, z1, x2, z2, observerX, observerZ, rangeX, rangeZ float32) float32 {
	dx := WrapX(x1, observerX, rangeX) - WrapX(x2, observerX, rangeX)
	dz := Wrap(z1, observerZ, rangeZ) - Wrap(z2, observerZ, rangeZ)
	return dx*dx + dz*dz
}

// InView reports whether two points lie within maxDist of each other under
// wrapped distance. Cheap visibility test, correct across the wrap seam.
func InView(x1, z1, x2, z2, observerX, observerZ, rangeX, rangeZ, maxDist float32) bool {
	return DistSqWrapped(x1, z1, x2, z2, observerX, observerZ, rangeX, rangeZ) <= maxDist*maxDist
}
