package sim

import (
	"math"
	"math/rand"

	"driftscape/internal/effects"
	"driftscape/internal/spatial"
)

// light is one drifting point light. Phase staggers the flicker so lights
// do not pulse in unison.
type light struct {
	worldX, worldZ float32
	baseScale      float32
	phase          float64
	driftX, driftZ float32
}

// PointLights publishes a bounded set of drifting, audio-reactive light
// sources around the observer each frame.
type PointLights struct {
	Base

	registry  *effects.Registry
	wrapRange float32
	viewDist  float32

	lights []light
}

// NewPointLights scatters count lights over one wrap period.
func NewPointLights(registry *effects.Registry, wrapRange, viewDist float32, count int, seed int64) *PointLights {
	rng := rand.New(rand.NewSource(seed))

	ls := make([]light, count)
	for i := range ls {
		ls[i] = light{
			worldX:    float32(rng.Float64()-0.5) * wrapRange,
			worldZ:    float32(rng.Float64()-0.5) * wrapRange,
			baseScale: 0.5 + float32(rng.Float64()),
			phase:     rng.Float64() * 2 * math.Pi,
			driftX:    float32(rng.Float64()-0.5) * 2,
			driftZ:    float32(rng.Float64()-0.5) * 2,
		}
	}

	return &PointLights{
		registry:  registry,
		wrapRange: wrapRange,
		viewDist:  viewDist,
		lights:    ls,
	}
}

// Registry returns the registry this subsystem populates.
func (pl *PointLights) Registry() *effects.Registry {
	return pl.registry
}

// Update drifts each light, wraps it around the observer and registers the
// visible ones with an intensity scale driven by the frame's bass level.
func (pl *PointLights) Update(f *Frame) {
	ox := f.Observer.X()
	oz := f.Observer.Z()
	pulse := 1 + 0.5*f.Audio.Bass

	pl.registry.Clear()

	for i := range pl.lights {
		l := &pl.lights[i]
		l.worldX += l.driftX * float32(f.Delta)
		l.worldZ += l.driftZ * float32(f.Delta)

		if !spatial.InView(l.worldX, l.worldZ, ox, oz, ox, oz, pl.wrapRange, pl.wrapRange, pl.viewDist) {
			continue
		}

		sx := spatial.WrapX(l.worldX, ox, pl.wrapRange)
		sz := spatial.Wrap(l.worldZ, oz, pl.wrapRange)

		flicker := 1 + 0.15*float32(math.Sin(f.Elapsed*3+l.phase))
		pl.registry.Register(sx, sz, l.baseScale*pulse*flicker, effects.CategoryDefault)
	}

	pl.registry.MarkForUpload()
}
