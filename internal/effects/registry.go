package effects

// Registry is a fixed-capacity table of per-frame spatial effect descriptors
// (shadow casters, point lights) kept in parallel buffers so they can be
// handed to the GPU in one upload per buffer. Slots are rebuilt from scratch
// every frame: there is no per-slot identity across frames, only the dense
// prefix [0, count).
//
// Layout is struct-of-arrays: positions packs (x, y, z) triplets so the
// buffer binds directly as a vec3 instance attribute.
type Registry struct {
	capacity int
	count    int

	positions  []float32 // 3 * capacity
	scales     []float32 // capacity
	categories []int32   // capacity

	needsUpload bool
}

// NewRegistry allocates a registry with the given fixed capacity. Capacity
// must be positive; this is a construction error, not a runtime condition.
func NewRegistry(capacity int) *Registry {
	if capacity <= 0 {
		panic("effects: registry capacity must be positive")
	}
	return &Registry{
		capacity:   capacity,
		positions:  make([]float32, 3*capacity),
		scales:     make([]float32, capacity),
		categories: make([]int32, capacity),
	}
}

// Register appends one descriptor at ground level zero and returns its slot
// index, or -1 when the registry is full. Saturation is expected behavior,
// not an error: callers that need to know whether everything fit compare
// Count against what they attempted.
func (r *Registry) Register(x, z, scale float32, category Category) int {
	return r.RegisterAt(x, 0, z, scale, category)
}

// RegisterAt is Register with an explicit height for the instance, for
// producers that place effects on the terrain surface.
func (r *Registry) RegisterAt(x, y, z, scale float32, category Category) int {
	if r.count == r.capacity {
		return -1
	}
	i := r.count
	r.positions[3*i] = x
	r.positions[3*i+1] = y
	r.positions[3*i+2] = z
	r.scales[i] = scale
	r.categories[i] = int32(category)
	r.count++
	return i
}

// Descriptor is one effect instance for batch registration.
type Descriptor struct {
	X, Z     float32
	Scale    float32
	Category Category
}

// RegisterBatch registers each descriptor in order and flags the buffers for
// upload. Descriptors beyond capacity are silently dropped.
func (r *Registry) RegisterBatch(descs []Descriptor) {
	for _, d := range descs {
		r.Register(d.X, d.Z, d.Scale, d.Category)
	}
	r.MarkForUpload()
}

// Clear resets the population to empty. Buffer contents are left in place:
// anything past the new count is never read.
func (r *Registry) Clear() {
	r.count = 0
}

// MarkForUpload flags the populated buffers as changed since the last device
// upload.
func (r *Registry) MarkForUpload() {
	r.needsUpload = true
}

// NeedsUpload reports whether the buffers changed since ClearUploadFlag.
func (r *Registry) NeedsUpload() bool {
	return r.needsUpload
}

// ClearUploadFlag is called by the renderer once the buffers are on the
// device.
func (r *Registry) ClearUploadFlag() {
	r.needsUpload = false
}

// Count returns the number of populated slots.
func (r *Registry) Count() int {
	return r.count
}

// Capacity returns the fixed slot capacity.
func (r *Registry) Capacity() int {
	return r.capacity
}

// Positions returns the populated prefix of the position buffer, packed as
// (x, 0, z) triplets. Read-only; valid until the next Register or Clear.
func (r *Registry) Positions() []float32 {
	return r.positions[:3*r.count]
}

// Scales returns the populated prefix of the scale buffer.
func (r *Registry) Scales() []float32 {
	return r.scales[:r.count]
}

// Categories returns the populated prefix of the category buffer.
func (r *Registry) Categories() []int32 {
	return r.categories[:r.count]
}
