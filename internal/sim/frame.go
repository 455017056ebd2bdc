package sim

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Frame is the per-frame snapshot handed to every subsystem update. It is
// built once at the top of Scene.Step and never mutated afterwards, so all
// subsystems observe the same observer position and timing for the frame.
type Frame struct {
	// Observer is the viewpoint everything wraps and recenters around.
	Observer mgl32.Vec3

	// Elapsed is seconds since the scene started; Delta since the last step.
	Elapsed float64
	Delta   float64

	// Audio holds the externally measured levels driving reactive effects.
	Audio AudioLevels
}

// AudioLevels are normalized [0,1] band intensities sampled by an external
// collaborator before the frame starts.
type AudioLevels struct {
	Overall float32
	Bass    float32
	Treble  float32
}
