package terrain

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// planeEvaluator samples the plane h = x + 2z. Bilinear interpolation is
// exact on a plane, which makes cache correctness checks tight.
type planeEvaluator struct {
	fills int
}

func (p *planeEvaluator) FillGrid(dst []float32, n int, cx, cz, extent, scale, amplitude float32) {
	p.fills++
	half := extent / 2
	step := extent / float32(n-1)
	for iz := 0; iz < n; iz++ {
		z := cz - half + float32(iz)*step
		for ix := 0; ix < n; ix++ {
			x := cx - half + float32(ix)*step
			dst[iz*n+ix] = x + 2*z
		}
	}
}

func (p *planeEvaluator) Release() {}

// releaseTracker records whether Release was called.
type releaseTracker struct {
	planeEvaluator
	released bool
}

func (r *releaseTracker) Release() { r.released = true }

func newPlaneField(t *testing.T, n int, extent float32) (*HeightField, *planeEvaluator) {
	t.Helper()
	eval := &planeEvaluator{}
	hf, err := NewHeightField(eval, n, extent, 0.01, 10)
	if err != nil {
		t.Fatalf("NewHeightField: %v", err)
	}
	return hf, eval
}

// TestNewHeightFieldValidation verifies malformed grid parameters fail fast.
func TestNewHeightFieldValidation(t *testing.T) {
	if _, err := NewHeightField(&planeEvaluator{}, 1, 100, 0.01, 10); err == nil {
		t.Errorf("NewHeightField with n=1 should fail")
	}
	if _, err := NewHeightField(&planeEvaluator{}, 64, 0, 0.01, 10); err == nil {
		t.Errorf("NewHeightField with extent=0 should fail")
	}
	if _, err := NewHeightField(&planeEvaluator{}, 64, -5, 0.01, 10); err == nil {
		t.Errorf("NewHeightField with negative extent should fail")
	}
}

// TestHeightAtExactOnPlane verifies interior queries reproduce a plane
// exactly (bilinear interpolation is exact for affine functions).
func TestHeightAtExactOnPlane(t *testing.T) {
	hf, _ := newPlaneField(t, 65, 200)
	rng := rand.New(rand.NewSource(12345))

	for i := 0; i < 1000; i++ {
		x := float32(rng.Float64()*180 - 90) // strictly inside the window
		z := float32(rng.Float64()*180 - 90)

		got := hf.HeightAt(x, z)
		want := x + 2*z
		if math.Abs(float64(got-want)) > 1e-3 {
			t.Errorf("HeightAt(%f, %f) = %f, want %f", x, z, got, want)
		}
	}
}

// TestHeightAtFallbackOutsideWindow verifies out-of-window queries still
// return correct heights via the direct-sample path, and that the path
// restores the original center and marks the cache dirty.
func TestHeightAtFallbackOutsideWindow(t *testing.T) {
	hf, eval := newPlaneField(t, 65, 200)
	fillsBefore := eval.fills

	got := hf.HeightAt(500, -700) // far outside [-100,100]^2
	want := float32(500 + 2*(-700))
	if math.Abs(float64(got-want)) > 1e-2 {
		t.Errorf("fallback HeightAt(500, -700) = %f, want %f", got, want)
	}
	if eval.fills != fillsBefore+1 {
		t.Errorf("fallback performed %d rebuilds, want 1", eval.fills-fillsBefore)
	}

	cx, cz := hf.Center()
	if cx != 0 || cz != 0 {
		t.Errorf("fallback did not restore center: got (%f, %f), want (0, 0)", cx, cz)
	}

	// Cache is now dirty: the next UpdateCenter must rebuild even without
	// observer movement.
	fillsBefore = eval.fills
	hf.UpdateCenter(0, 0)
	if eval.fills != fillsBefore+1 {
		t.Errorf("UpdateCenter after fallback did not rebuild the stale grid")
	}
}

// TestHeightFieldMatchesElevation verifies the cache approximates the real
// elevation function inside the window within a small epsilon.
func TestHeightFieldMatchesElevation(t *testing.T) {
	f := NewElevation(42)
	hf, err := NewHeightField(NewFuncEvaluator(f), 129, 200, 0.01, 10)
	if err != nil {
		t.Fatalf("NewHeightField: %v", err)
	}

	rng := rand.New(rand.NewSource(777))
	for i := 0; i < 500; i++ {
		x := float32(rng.Float64()*180 - 90)
		z := float32(rng.Float64()*180 - 90)

		got := hf.HeightAt(x, z)
		want := f.At(x, z, 0.01, 10)
		if math.Abs(float64(got-want)) > 0.5 {
			t.Errorf("HeightAt(%f, %f) = %f, elevation = %f, diff too large", x, z, got, want)
		}
	}
}

// TestUpdateCenterHysteresis verifies recentering only rebuilds after the
// observer has moved more than 10% of the extent (property: idempotent under
// no movement).
func TestUpdateCenterHysteresis(t *testing.T) {
	hf, eval := newPlaneField(t, 65, 200)
	base := eval.fills // 1 from construction

	for i := 0; i < 10; i++ {
		hf.UpdateCenter(0, 0)
	}
	if eval.fills != base {
		t.Errorf("UpdateCenter with no movement rebuilt %d times", eval.fills-base)
	}

	hf.UpdateCenter(15, 0) // 7.5% of extent, inside hysteresis
	if eval.fills != base {
		t.Errorf("UpdateCenter within hysteresis radius rebuilt the grid")
	}

	hf.UpdateCenter(30, 0) // 15% of extent, must rebuild
	if eval.fills != base+1 {
		t.Errorf("UpdateCenter beyond hysteresis radius did not rebuild")
	}

	cx, cz := hf.Center()
	if cx != 30 || cz != 0 {
		t.Errorf("center after rebuild = (%f, %f), want (30, 0)", cx, cz)
	}
}

// TestSyncParams verifies parameter changes dirty the cache and identical
// parameters do not.
func TestSyncParams(t *testing.T) {
	hf, eval := newPlaneField(t, 65, 200)
	base := eval.fills

	hf.SyncParams(0.01, 10) // unchanged
	hf.UpdateCenter(0, 0)
	if eval.fills != base {
		t.Errorf("SyncParams with identical values caused a rebuild")
	}

	hf.SyncParams(0.02, 10)
	hf.UpdateCenter(0, 0)
	if eval.fills != base+1 {
		t.Errorf("SyncParams with a new scale did not force a rebuild")
	}
}

// TestHeightsBatch verifies the batch API agrees with per-point queries.
func TestHeightsBatch(t *testing.T) {
	hf, _ := newPlaneField(t, 65, 200)

	points := []mgl32.Vec2{{0, 0}, {10, -20}, {-50, 50}}
	heights := hf.Heights(points)
	if len(heights) != len(points) {
		t.Fatalf("Heights returned %d values for %d points", len(heights), len(points))
	}
	for i, p := range points {
		if heights[i] != hf.HeightAt(p.X(), p.Y()) {
			t.Errorf("Heights[%d] = %f disagrees with HeightAt(%f, %f)", i, heights[i], p.X(), p.Y())
		}
	}
}

// TestDisposeReleasesEvaluator verifies Dispose reaches the evaluator.
func TestDisposeReleasesEvaluator(t *testing.T) {
	eval := &releaseTracker{}
	hf, err := NewHeightField(eval, 65, 200, 0.01, 10)
	if err != nil {
		t.Fatalf("NewHeightField: %v", err)
	}
	hf.Dispose()
	if !eval.released {
		t.Errorf("Dispose did not release the evaluator")
	}
}
