package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration, loaded from an optional YAML
// file over built-in defaults. Validation is fail-fast: a degenerate wrap
// range or grid is a startup error, never silent NaN arithmetic at runtime.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	World   WorldConfig   `yaml:"world"`
	Effects EffectsConfig `yaml:"effects"`
	FPSCap  int           `yaml:"fps_cap"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type WorldConfig struct {
	// WrapRange is the period of the observer-relative window on both axes.
	WrapRange float32 `yaml:"wrap_range"`
	// ViewDist is the culling radius for effect producers.
	ViewDist  float32 `yaml:"view_dist"`

	// GridSize and GridExtent shape the cached height grid.
	GridSize   int     `yaml:"grid_size"`
	GridExtent float32 `yaml:"grid_extent"`

	Seed      int64   `yaml:"seed"`
	Scale     float32 `yaml:"scale"`
	Amplitude float32 `yaml:"amplitude"`
}

type EffectsConfig struct {
	ShadowCapacity int `yaml:"shadow_capacity"`
	LightCapacity  int `yaml:"light_capacity"`
	ShadowCount    int `yaml:"shadow_count"`
	LightCount     int `yaml:"light_count"`
}

// Load reads the config at path, or just the defaults when path is empty.
// The file is unmarshaled into a zero Config so Normalize can tell which
// fields the file actually set; defaults only fill the rest.
func Load(path string) (Config, error) {
	var cfg Config
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("config: %w", err)
		}
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		Window: WindowConfig{Width: 1280, Height: 720, Title: "driftscape"},
		World: WorldConfig{
			WrapRange:  400,
			ViewDist:   180,
			GridSize:   129,
			GridExtent: 400,
			Seed:       1,
			Scale:      0.008,
			Amplitude:  14,
		},
		Effects: EffectsConfig{
			ShadowCapacity: 512,
			LightCapacity:  128,
			ShadowCount:    400,
			LightCount:     96,
		},
		FPSCap: 120,
	}
}

// Normalize fills every field a partial file left at zero with its default
// and clamps soft limits. ViewDist is derived from the (possibly overridden)
// wrap range when the file did not set it.
func (c *Config) Normalize() {
	d := defaults()
	if c.Window.Width == 0 {
		c.Window.Width = d.Window.Width
	}
	if c.Window.Height == 0 {
		c.Window.Height = d.Window.Height
	}
	if c.Window.Title == "" {
		c.Window.Title = d.Window.Title
	}

	if c.World.WrapRange == 0 {
		c.World.WrapRange = d.World.WrapRange
	}
	if c.World.GridSize == 0 {
		c.World.GridSize = d.World.GridSize
	}
	if c.World.GridExtent == 0 {
		c.World.GridExtent = d.World.GridExtent
	}
	if c.World.Seed == 0 {
		c.World.Seed = d.World.Seed
	}
	if c.World.Scale == 0 {
		c.World.Scale = d.World.Scale
	}
	if c.World.Amplitude == 0 {
		c.World.Amplitude = d.World.Amplitude
	}
	if c.World.ViewDist == 0 {
		c.World.ViewDist = c.World.WrapRange * 0.45
	}

	if c.Effects.ShadowCapacity == 0 {
		c.Effects.ShadowCapacity = d.Effects.ShadowCapacity
	}
	if c.Effects.LightCapacity == 0 {
		c.Effects.LightCapacity = d.Effects.LightCapacity
	}
	if c.Effects.ShadowCount == 0 {
		c.Effects.ShadowCount = d.Effects.ShadowCount
	}
	if c.Effects.LightCount == 0 {
		c.Effects.LightCount = d.Effects.LightCount
	}
	if c.Effects.ShadowCount > c.Effects.ShadowCapacity*4 {
		c.Effects.ShadowCount = c.Effects.ShadowCapacity * 4
	}
	if c.Effects.LightCount > c.Effects.LightCapacity*4 {
		c.Effects.LightCount = c.Effects.LightCapacity * 4
	}

	if c.FPSCap == 0 {
		c.FPSCap = d.FPSCap
	}
}

// Validate rejects configurations the spatial core cannot run on.
func (c *Config) Validate() error {
	if c.World.WrapRange <= 0 {
		return fmt.Errorf("world.wrap_range must be > 0, got %f", c.World.WrapRange)
	}
	if c.World.GridSize < 2 {
		return fmt.Errorf("world.grid_size must be >= 2, got %d", c.World.GridSize)
	}
	if c.World.GridExtent <= 0 {
		return fmt.Errorf("world.grid_extent must be > 0, got %f", c.World.GridExtent)
	}
	if c.World.ViewDist <= 0 {
		return fmt.Errorf("world.view_dist must be > 0, got %f", c.World.ViewDist)
	}
	if c.Effects.ShadowCapacity <= 0 || c.Effects.LightCapacity <= 0 {
		return fmt.Errorf("effect registry capacities must be > 0, got shadow=%d light=%d",
			c.Effects.ShadowCapacity, c.Effects.LightCapacity)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	return nil
}
