package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"driftscape/internal/config"
	"driftscape/internal/effects"
	"driftscape/internal/graphics"
	"driftscape/internal/profiling"
	"driftscape/internal/sim"
	"driftscape/internal/terrain"
)

func init() {
	runtime.LockOSThread()
}

var logger = log.New(os.Stdout, "[driftscape] ", log.LstdFlags|log.Lmicroseconds)

func main() {
	configPath := flag.String("config", "", "path to a yaml config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	window, err := setupWindow(cfg.Window)
	if err != nil {
		panic(err)
	}

	logger.Printf("GL %s on %s", gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.RENDERER)))

	scene, meshes, err := setupScene(cfg)
	if err != nil {
		logger.Fatalf("setup: %v", err)
	}
	defer scene.Dispose()
	defer meshes.Dispose()

	runLoop(window, cfg, scene, meshes)
}

func setupWindow(wc config.WindowConfig) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(wc.Width, wc.Height, wc.Title, nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		return nil, err
	}

	// Disable V-Sync; the FPS limiter paces the loop.
	glfw.SwapInterval(0)

	return window, nil
}

// Meshes bundles the render-side consumers of the core's buffers.
type Meshes struct {
	Terrain *graphics.TerrainMesh
	Shadows *graphics.EffectMesh
	Lights  *graphics.EffectMesh

	shadowReg *effects.Registry
	lightReg  *effects.Registry
}

func (m *Meshes) Dispose() {
	m.Terrain.Dispose()
	m.Shadows.Dispose()
	m.Lights.Dispose()
}

func setupScene(cfg config.Config) (*sim.Scene, *Meshes, error) {
	w := cfg.World

	pass, err := graphics.NewHeightPass(w.Seed)
	if err != nil {
		return nil, nil, err
	}

	heights, err := terrain.NewHeightField(pass, w.GridSize, w.GridExtent, w.Scale, w.Amplitude)
	if err != nil {
		return nil, nil, err
	}

	scene := sim.NewScene(heights)

	shadowReg := effects.NewRegistry(cfg.Effects.ShadowCapacity)
	lightReg := effects.NewRegistry(cfg.Effects.LightCapacity)

	shadows := sim.NewShadowCasters(shadowReg, heights, w.WrapRange, w.ViewDist, cfg.Effects.ShadowCount, w.Seed)
	lights := sim.NewPointLights(lightReg, w.WrapRange, w.ViewDist, cfg.Effects.LightCount, w.Seed+1)

	if err := scene.Attach(shadows); err != nil {
		return nil, nil, err
	}
	if err := scene.Attach(lights); err != nil {
		return nil, nil, err
	}

	terrainMesh, err := graphics.NewTerrainMesh(w.GridSize)
	if err != nil {
		return nil, nil, err
	}
	shadowMesh, err := graphics.NewEffectMesh(cfg.Effects.ShadowCapacity, mgl32.Vec3{0.05, 0.05, 0.08})
	if err != nil {
		return nil, nil, err
	}
	lightMesh, err := graphics.NewEffectMesh(cfg.Effects.LightCapacity, mgl32.Vec3{1.0, 0.85, 0.4})
	if err != nil {
		return nil, nil, err
	}

	meshes := &Meshes{
		Terrain:   terrainMesh,
		Shadows:   shadowMesh,
		Lights:    lightMesh,
		shadowReg: shadowReg,
		lightReg:  lightReg,
	}
	return scene, meshes, nil
}

func runLoop(window *glfw.Window, cfg config.Config, scene *sim.Scene, meshes *Meshes) {
	limiter := NewFPSLimiter(cfg.FPSCap)

	lastTime := time.Now()
	lastFPSCheck := time.Now()
	frames := 0
	elapsed := 0.0

	gl.Enable(gl.DEPTH_TEST)
	gl.ClearColor(0.45, 0.65, 0.85, 1.0)

	for !window.ShouldClose() {
		profiling.ResetFrame()
		glfw.PollEvents()

		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now
		elapsed += dt

		// The observer drifts forward forever; the wrap window keeps the
		// world in reach.
		speed := 12.0
		scene.MoveObserver(mgl32.Vec3{
			float32(30 * math.Sin(elapsed*0.05)),
			0,
			float32(elapsed * speed),
		})

		scene.Step(dt)

		// Render phase reads only after the update phase populated the
		// registries for this frame.
		render(window, cfg, scene, meshes)

		frames++
		if time.Since(lastFPSCheck) >= time.Second {
			window.SetTitle(fmt.Sprintf("%s (%d fps)", cfg.Window.Title, frames))
			logger.Printf("fps=%d shadows=%d lights=%d | %s",
				frames, meshes.shadowReg.Count(), meshes.lightReg.Count(), profiling.Report(4))
			frames = 0
			lastFPSCheck = time.Now()
		}

		limiter.Wait()
	}
}

func render(window *glfw.Window, cfg config.Config, scene *sim.Scene, meshes *Meshes) {
	defer profiling.Track("render")()

	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	width, height := window.GetFramebufferSize()
	gl.Viewport(0, 0, int32(width), int32(height))

	obs := scene.Observer()
	ground := scene.Heights().HeightAt(obs.X(), obs.Z())
	eye := mgl32.Vec3{obs.X(), ground + 25, obs.Z() - 45}
	target := mgl32.Vec3{obs.X(), ground, obs.Z() + 30}

	view := mgl32.LookAtV(eye, target, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(60), float32(width)/float32(height), 0.1, 1200)

	meshes.Terrain.Sync(scene.Heights())
	meshes.Terrain.Draw(view, proj, cfg.World.Amplitude)

	// Effect instances are in observer-relative coordinates; lift them back
	// into world space around the observer for this frame. Shadows carry
	// their own terrain height per instance, lights hover at a fixed offset
	// above the observer's ground.
	meshes.Shadows.Upload(meshes.shadowReg)
	meshes.Lights.Upload(meshes.lightReg)

	shadowView := view.Mul4(mgl32.Translate3D(obs.X(), 0, obs.Z()))
	lightView := view.Mul4(mgl32.Translate3D(obs.X(), ground+3, obs.Z()))
	meshes.Shadows.Draw(shadowView, proj)
	meshes.Lights.Draw(lightView, proj)

	window.SwapBuffers()
}
