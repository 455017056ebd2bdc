package effects

// Category tags an effect instance with the kind of entity that produced it.
// The renderer uses it to pick texture variants; the classification table
// below derives per-category footprint parameters.
type Category int32

const (
	CategoryDefault Category = iota
	CategoryBroadleaf
	CategoryConifer
	CategoryPalm
	CategoryRock
	CategoryCreature
)

// Profile holds the footprint parameters for one category. Effective scale
// for an instance is BaseScale + size*SizeMult unless the caller supplies an
// explicit override. Dappled marks categories whose shadow is broken up
// (foliage) rather than solid.
type Profile struct {
	BaseScale float32
	SizeMult  float32
	Dappled   bool
}

// profiles is the closed classification table. CategoryDefault doubles as
// the fallback for unrecognized values.
var profiles = map[Category]Profile{
	CategoryDefault:   {BaseScale: 1.0, SizeMult: 0.5, Dappled: false},
	CategoryBroadleaf: {BaseScale: 2.5, SizeMult: 1.2, Dappled: true},
	CategoryConifer:   {BaseScale: 1.5, SizeMult: 0.8, Dappled: true},
	CategoryPalm:      {BaseScale: 2.0, SizeMult: 1.0, Dappled: true},
	CategoryRock:      {BaseScale: 1.2, SizeMult: 0.9, Dappled: false},
	CategoryCreature:  {BaseScale: 0.8, SizeMult: 0.6, Dappled: false},
}

// ProfileFor looks up the classification entry for a category, falling back
// to the default profile for values outside the table.
func ProfileFor(c Category) Profile {
	if p, ok := profiles[c]; ok {
		return p
	}
	return profiles[CategoryDefault]
}

// EffectiveScale derives the footprint scale for one instance. A positive
// override (an explicit cap radius for a specific entity) wins over the
// table-derived value.
func EffectiveScale(c Category, size, override float32) float32 {
	if override > 0 {
		return override
	}
	p := ProfileFor(c)
	return p.BaseScale + size*p.SizeMult
}
