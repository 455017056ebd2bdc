package spatial

import (
	"math"
	"math/rand"
	"testing"
)

// TestWrapStaysInWindow verifies Wrap output is always in [-rng/2, rng/2).
func TestWrapStaysInWindow(t *testing.T) {
	rng := rand.New(rand.NewSource(12345)) // deterministic test RNG

	ranges := []float32{1, 50, 200, 1000}
	for _, r := range ranges {
		for i := 0; i < 1000; i++ {
			worldZ := float32(rng.Float64()*20000 - 10000)
			observerZ := float32(rng.Float64()*20000 - 10000)

			s := Wrap(worldZ, observerZ, r)
			if s < -r/2 || s >= r/2 {
				t.Errorf("Wrap(%f, %f, %f) = %f, expected in [%f, %f)",
					worldZ, observerZ, r, s, -r/2, r/2)
			}
		}
	}
}

// TestWrapKnownValues checks hand-computed wrap results, including negative
// relative coordinates where a naive modulo goes wrong.
func TestWrapKnownValues(t *testing.T) {
	cases := []struct {
		worldZ, observerZ, rng, want float32
	}{
		{160, 50, 200, -90},    // rel 110 folds backward across the seam
		{50, 50, 200, 0},       // entity at the observer
		{55, 50, 200, 5},       // small positive offset unchanged
		{45, 50, 200, -5},      // small negative offset unchanged
		{-60, 50, 200, 90},     // rel -110 folds forward
		{50 + 400, 50, 200, 0}, // two full periods ahead
		{150, 50, 200, -100},   // rel exactly +rng/2 lands on the closed end
	}

	for _, c := range cases {
		got := Wrap(c.worldZ, c.observerZ, c.rng)
		if math.Abs(float64(got-c.want)) > 1e-4 {
			t.Errorf("Wrap(%f, %f, %f) = %f, want %f",
				c.worldZ, c.observerZ, c.rng, got, c.want)
		}
	}
}

// TestWrapXMatchesWrap verifies the two axes use identical arithmetic.
func TestWrapXMatchesWrap(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 200; i++ {
		w := float32(rng.Float64()*2000 - 1000)
		o := float32(rng.Float64()*2000 - 1000)
		if Wrap(w, o, 300) != WrapX(w, o, 300) {
			t.Fatalf("Wrap and WrapX disagree for (%f, %f)", w, o)
		}
	}
}

// TestScreenToWorldCongruence verifies ScreenToWorld(Wrap(z)) is congruent to
// z modulo the range, for arbitrary inputs.
func TestScreenToWorldCongruence(t *testing.T) {
	rng := rand.New(rand.NewSource(4242))

	for i := 0; i < 1000; i++ {
		z := float32(rng.Float64()*20000 - 10000)
		observer := float32(rng.Float64()*20000 - 10000)
		r := float32(rng.Float64()*900 + 100)

		recovered := ScreenToWorld(Wrap(z, observer, r), observer)

		// (recovered - z) must be an integer multiple of r.
		diff := float64(recovered) - float64(z)
		k := diff / float64(r)
		if math.Abs(k-math.Round(k)) > 1e-3 {
			t.Errorf("ScreenToWorld(Wrap(%f, %f, %f), %f) = %f, not congruent (k=%f)",
				z, observer, r, observer, recovered, k)
		}
	}
}

// TestDidWrap verifies the discontinuity detector fires on wrap-sized jumps
// and stays quiet for ordinary per-frame motion.
func TestDidWrap(t *testing.T) {
	const r = 200

	if DidWrap(5, 0, r) {
		t.Errorf("DidWrap(5, 0, %d) = true, small motion must not register as a wrap", r)
	}
	if DidWrap(-40, 35, r) {
		t.Errorf("DidWrap(-40, 35, %d) = true, 75 apart is under the threshold", r)
	}
	if !DidWrap(95, 0, r) {
		t.Errorf("DidWrap(95, 0, %d) = false, 95 apart must register as a wrap", r)
	}
	if !DidWrap(-99, 99, r) {
		t.Errorf("DidWrap(-99, 99, %d) = false, a seam crossing must register", r)
	}
}

// TestDistSqWrappedAcrossSeam verifies wrapped distance treats points on
// opposite sides of the seam as neighbors.
func TestDistSqWrappedAcrossSeam(t *testing.T) {
	const r = 200

	// Observer at origin; one point just inside the far edge, one just past
	// it. In absolute terms they are 198 apart in Z, wrapped they are 2.
	d := DistSqWrapped(0, 99, 0, -99, 0, 0, r, r)
	if d > 25 {
		t.Errorf("DistSqWrapped across seam = %f, expected a small value", d)
	}

	if !InView(0, 99, 0, -99, 0, 0, r, r, 5) {
		t.Errorf("InView should see two points 2 units apart across the seam")
	}
	if InView(0, 80, 0, 0, 0, 0, r, r, 50) {
		t.Errorf("InView should cull points 80 units apart with maxDist 50")
	}
}

// TestDistSqWrappedTwoPoints verifies both points are wrapped independently
// relative to the observer, so two entities many periods apart in absolute
// coordinates still measure by their in-window separation.
func TestDistSqWrappedTwoPoints(t *testing.T) {
	const r = 200

	// Entities at z=1030 and z=-964 with the observer at z=1000: wrapped
	// they sit at z=30 and z=36, i.e. 6 apart.
	d := DistSqWrapped(0, 1030, 0, -964, 0, 1000, r, r)
	if math.Abs(float64(d)-36) > 1e-2 {
		t.Errorf("DistSqWrapped(0,1030, 0,-964, observer z=1000) = %f, want 36", d)
	}

	// X axis wraps independently of Z.
	d = DistSqWrapped(1030, 0, -964, 0, 1000, 0, r, r)
	if math.Abs(float64(d)-36) > 1e-2 {
		t.Errorf("DistSqWrapped(1030,0, -964,0, observer x=1000) = %f, want 36", d)
	}

	// Passing the observer as the second point reduces to the
	// point-to-observer distance.
	d = DistSqWrapped(3, 4, 0, 0, 0, 0, r, r)
	if math.Abs(float64(d)-25) > 1e-3 {
		t.Errorf("DistSqWrapped(3,4, observer,observer) = %f, want 25", d)
	}
}
