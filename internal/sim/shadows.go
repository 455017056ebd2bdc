package sim

import (
	"math/rand"

	"driftscape/internal/effects"
	"driftscape/internal/spatial"
	"driftscape/internal/terrain"
)

// caster is one shadow-producing entity. Screen coordinates and the cached
// ground height are per-frame derived state; world position is fixed at
// spawn (the world repeats, so one period's worth of entities covers the
// whole axis).
type caster struct {
	worldX, worldZ float32
	size           float32
	category       effects.Category
	overrideScale  float32 // 0 means derive from the classification table

	prevScreenX float32
	prevScreenZ float32
	ground      float32
	groundValid bool
}

// ShadowCasters wraps a population of entities around the observer each
// frame and publishes the visible ones into a bounded registry for the
// shadow render pass.
type ShadowCasters struct {
	Base

	registry  *effects.Registry
	heights   *terrain.HeightField
	wrapRange float32
	viewDist  float32

	casters []caster
}

// NewShadowCasters scatters count entities over one wrap period.
func NewShadowCasters(registry *effects.Registry, heights *terrain.HeightField, wrapRange, viewDist float32, count int, seed int64) *ShadowCasters {
	rng := rand.New(rand.NewSource(seed))
	categories := []effects.Category{
		effects.CategoryBroadleaf,
		effects.CategoryConifer,
		effects.CategoryPalm,
		effects.CategoryRock,
	}

	cs := make([]caster, count)
	for i := range cs {
		cs[i] = caster{
			worldX:   float32(rng.Float64()-0.5) * wrapRange,
			worldZ:   float32(rng.Float64()-0.5) * wrapRange,
			size:     0.5 + float32(rng.Float64())*1.5,
			category: categories[rng.Intn(len(categories))],
		}
	}

	return &ShadowCasters{
		registry:  registry,
		heights:   heights,
		wrapRange: wrapRange,
		viewDist:  viewDist,
		casters:   cs,
	}
}

// Registry returns the registry this subsystem populates, for the render
// pass to read after Update.
func (sc *ShadowCasters) Registry() *effects.Registry {
	return sc.registry
}

// Update rebuilds the registry population for this frame: wrap every caster
// around the observer, drop the ones out of view, refresh ground heights
// where the wrap seam was crossed, and register the rest.
func (sc *ShadowCasters) Update(f *Frame) {
	ox := f.Observer.X()
	oz := f.Observer.Z()

	sc.registry.Clear()

	for i := range sc.casters {
		c := &sc.casters[i]

		sx := spatial.WrapX(c.worldX, ox, sc.wrapRange)
		sz := spatial.Wrap(c.worldZ, oz, sc.wrapRange)

		// A wrap jump means the entity now stands on different ground; the
		// cached height lookup is for the old position.
		if spatial.DidWrap(sx, c.prevScreenX, sc.wrapRange) ||
			spatial.DidWrap(sz, c.prevScreenZ, sc.wrapRange) {
			c.groundValid = false
		}
		c.prevScreenX = sx
		c.prevScreenZ = sz

		if sx*sx+sz*sz > sc.viewDist*sc.viewDist {
			continue
		}

		if !c.groundValid {
			c.ground = sc.heights.HeightAt(
				spatial.ScreenToWorld(sx, ox),
				spatial.ScreenToWorld(sz, oz),
			)
			c.groundValid = true
		}

		scale := effects.EffectiveScale(c.category, c.size, c.overrideScale)
		sc.registry.RegisterAt(sx, c.ground, sz, scale, c.category)
	}

	sc.registry.MarkForUpload()
}
