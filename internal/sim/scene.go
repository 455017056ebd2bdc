package sim

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"driftscape/internal/profiling"
	"driftscape/internal/terrain"
)

// Scene owns the height field and the ordered list of subsystems, and
// enforces the per-frame sequence the core depends on: snapshot first, then
// one height-field recenter, then subsystem updates. Subsystems may query
// the height field during Update and always see the current window.
type Scene struct {
	heights    *terrain.HeightField
	subsystems []Subsystem

	observer mgl32.Vec3
	elapsed  float64
	audio    AudioLevels
}

// NewScene creates a scene over an already constructed height field.
func NewScene(heights *terrain.HeightField) *Scene {
	return &Scene{heights: heights}
}

// Attach appends a subsystem and runs its Init phase. Update order follows
// attachment order.
func (s *Scene) Attach(sub Subsystem) error {
	if err := sub.Init(); err != nil {
		return fmt.Errorf("scene: subsystem init: %w", err)
	}
	s.subsystems = append(s.subsystems, sub)
	return nil
}

// Heights returns the scene's height field.
func (s *Scene) Heights() *terrain.HeightField {
	return s.heights
}

// MoveObserver sets the observer position used by the next Step.
func (s *Scene) MoveObserver(pos mgl32.Vec3) {
	s.observer = pos
}

// Observer returns the current observer position.
func (s *Scene) Observer() mgl32.Vec3 {
	return s.observer
}

// SetAudioLevels stores the levels an external analyzer measured for the
// upcoming frame.
func (s *Scene) SetAudioLevels(a AudioLevels) {
	s.audio = a
}

// Step advances the scene by dt seconds: builds the frame snapshot,
// recenters the height field on the observer, then updates every subsystem
// in attachment order.
func (s *Scene) Step(dt float64) {
	defer profiling.Track("sim.Step")()

	s.elapsed += dt
	frame := Frame{
		Observer: s.observer,
		Elapsed:  s.elapsed,
		Delta:    dt,
		Audio:    s.audio,
	}

	s.heights.UpdateCenter(s.observer.X(), s.observer.Z())

	for _, sub := range s.subsystems {
		sub.Update(&frame)
	}
}

// Dispose tears down subsystems in reverse attachment order, then the
// height field.
func (s *Scene) Dispose() {
	for i := len(s.subsystems) - 1; i >= 0; i-- {
		s.subsystems[i].Dispose()
	}
	s.subsystems = nil
	s.heights.Dispose()
}
