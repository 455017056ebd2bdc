package sim

// Subsystem is the lifecycle every scene participant implements. Concrete
// subsystems embed Base and override only the phases they need; the scene
// can then drive all of them uniformly without checking what each one
// happens to implement.
type Subsystem interface {
	// Init acquires resources after construction. Called once, before the
	// first Update.
	Init() error

	// Update advances the subsystem for one frame. The snapshot is shared
	// and must not be retained past the call.
	Update(f *Frame)

	// Dispose releases resources. Called once, after the last Update.
	Dispose()
}

// Base provides safe no-op defaults for every Subsystem phase.
type Base struct{}

func (Base) Init() error     { return nil }
func (Base) Update(f *Frame) {}
func (Base) Dispose()        {}
