package terrain

import (
	"math"
)

// Hashed octave value noise used as the ground elevation function.
// Deterministic for a given seed, no external deps.

// fade is the smoothstep-like 6t^5 - 15t^4 + 10t^3 curve applied to
// interpolation weights.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func hash2(x int64, z int64, seed int64) uint64 {
	// SplitMix64 style integer hash, stable across runs for same inputs
	v := uint64(x) + (uint64(z) << 1) + uint64(seed)*0x9E3779B97F4A7C15
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	v = v ^ (v >> 31)
	return v
}

func latticeValue(x int64, z int64, seed int64) float64 {
	// Map to [0,1]
	h := hash2(x, z, seed)
	return float64(h&0xFFFFFFFF) / float64(0xFFFFFFFF)
}

func valueNoise2D(x float64, z float64, seed int64) float64 {
	x0 := math.Floor(x)
	z0 := math.Floor(z)
	x1 := x0 + 1
	z1 := z0 + 1

	fx := fade(x - x0)
	fz := fade(z - z0)

	v00 := latticeValue(int64(x0), int64(z0), seed)
	v10 := latticeValue(int64(x1), int64(z0), seed)
	v01 := latticeValue(int64(x0), int64(z1), seed)
	v11 := latticeValue(int64(x1), int64(z1), seed)

	i0 := lerp(v00, v10, fx)
	i1 := lerp(v01, v11, fx)
	return lerp(i0, i1, fz) // [0,1]
}

func octaveNoise2D(x float64, z float64, seed int64, octaves int, persistence, lacunarity float64) float64 {
	amplitude := 1.0
	frequency := 1.0
	sum := 0.0
	norm := 0.0
	for i := 0; i < octaves; i++ {
		v := valueNoise2D(x*frequency, z*frequency, seed+int64(i*131))
		sum += v * amplitude
		norm += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm // [0,1]
}

// Elevation is the pure ground elevation function f(x, z; scale, amplitude).
// Scale and amplitude are per-call so the caller (the height field) stays the
// single owner of the current terrain parameters.
type Elevation struct {
	seed        int64
	octaves     int
	persistence float64
	lacunarity  float64
}

// NewElevation creates an elevation function with default octave settings.
func NewElevation(seed int64) *Elevation {
	return &Elevation{
		seed:        seed,
		octaves:     4,
		persistence: 0.5,
		lacunarity:  2.0,
	}
}

// At computes the ground elevation at world (x, z). Scale is spatial
// frequency, amplitude the height of the tallest hills; output is in
// [-amplitude, amplitude].
func (e *Elevation) At(x, z, scale, amplitude float32) float32 {
	n := octaveNoise2D(float64(x)*float64(scale), float64(z)*float64(scale),
		e.seed, e.octaves, e.persistence, e.lacunarity)
	return float32((n*2 - 1) * float64(amplitude))
}
