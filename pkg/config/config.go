// Package config loads archipelago settings from a TOML file layered over
// built-in defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"

	"github.com/taigrr/archipelago/pkg/island"
	"github.com/taigrr/archipelago/pkg/terrain"
)

// DefaultPath is the file looked up when no path is given.
const DefaultPath = "archipelago.toml"

// Config is the whole settings file.
type Config struct {
	Log     LogConfig     `toml:"log"`
	World   WorldConfig   `toml:"world"`
	Terrain TerrainConfig `toml:"terrain"`
	Play    PlayConfig    `toml:"play"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// WorldConfig places the islands.
type WorldConfig struct {
	Seed              uint64  `toml:"seed"` // 0 picks a wall-clock seed
	Islands           int     `toml:"islands"`
	MaxIslands        int     `toml:"max_islands"`
	PlayArea          float64 `toml:"play_area"`
	MinRadius         float64 `toml:"min_radius"`
	MaxRadius         float64 `toml:"max_radius"`
	Separation        float64 `toml:"separation"`
	PlacementAttempts int     `toml:"placement_attempts"`
	BaseY             float64 `toml:"base_y"`
}

// TerrainConfig shapes each island.
type TerrainConfig struct {
	ControlPoints  int     `toml:"control_points"`
	Segments       int     `toml:"segments"`
	MaxHeight      float64 `toml:"max_height"`
	MinRadiusScale float64 `toml:"min_radius_scale"`
	MaxRadiusScale float64 `toml:"max_radius_scale"`
	RidgeOctaves   int     `toml:"ridge_octaves"`
	RidgeFrequency float64 `toml:"ridge_frequency"`
	Jitter         float64 `toml:"jitter"`
	GroundSamples  int     `toml:"ground_samples"`
}

// PlayConfig tunes the interactive front-end.
type PlayConfig struct {
	FPS             int     `toml:"fps"`
	WaterSize       int     `toml:"water_size"`
	WaterLevel      float64 `toml:"water_level"`
	Bodies          int     `toml:"bodies"`
	BodiesPerIsland int     `toml:"bodies_per_island"`
	MapSize         int     `toml:"map_size"` // minimap side in cells, 0 hides it
	Debug           bool    `toml:"debug"`    // draw bounds, sight line and markers
}

// Default returns the built-in settings.
func Default() Config {
	opts := island.DefaultOptions()
	tp := opts.Island.Terrain
	return Config{
		Log: LogConfig{Level: "info"},
		World: WorldConfig{
			Islands:           opts.IslandCount,
			MaxIslands:        opts.MaxIslands,
			PlayArea:          opts.PlayArea,
			MinRadius:         opts.MinRadius,
			MaxRadius:         opts.MaxRadius,
			Separation:        opts.Separation,
			PlacementAttempts: opts.PlacementAttempts,
			BaseY:             opts.BaseY,
		},
		Terrain: TerrainConfig{
			ControlPoints:  tp.ControlPoints,
			Segments:       tp.Segments,
			MaxHeight:      tp.MaxHeight,
			MinRadiusScale: tp.MinRadiusScale,
			MaxRadiusScale: tp.MaxRadiusScale,
			RidgeOctaves:   tp.RidgeOctaves,
			RidgeFrequency: tp.RidgeFrequency,
			Jitter:         tp.Jitter,
			GroundSamples:  opts.Island.GroundSamples,
		},
		Play: PlayConfig{
			FPS:             30,
			WaterSize:       100,
			WaterLevel:      -1,
			Bodies:          64,
			BodiesPerIsland: 10,
			MapSize:         16,
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse overlays TOML data onto cfg and validates the result. Keys that
// are absent keep cfg's values; unknown keys are rejected.
func Parse(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("unknown keys: %s", strict.String())
		}
		return fmt.Errorf("parse config: %w", err)
	}
	return cfg.Validate()
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	w := c.World
	switch {
	case w.MaxIslands < 1:
		return fmt.Errorf("world.max_islands %d must be at least 1", w.MaxIslands)
	case w.Islands < 0 || w.Islands > w.MaxIslands:
		return fmt.Errorf("world.islands %d outside [0, %d]", w.Islands, w.MaxIslands)
	case w.PlayArea <= 0:
		return fmt.Errorf("world.play_area %g must be positive", w.PlayArea)
	case w.MinRadius <= 0 || w.MaxRadius < w.MinRadius:
		return fmt.Errorf("world radius range [%g, %g] is invalid", w.MinRadius, w.MaxRadius)
	case w.Separation < 0:
		return fmt.Errorf("world.separation %g must not be negative", w.Separation)
	case w.PlacementAttempts < 1:
		return fmt.Errorf("world.placement_attempts %d must be at least 1", w.PlacementAttempts)
	case c.Terrain.GroundSamples < 1:
		return fmt.Errorf("terrain.ground_samples %d must be at least 1", c.Terrain.GroundSamples)
	case c.Play.FPS < 1 || c.Play.FPS > 240:
		return fmt.Errorf("play.fps %d outside [1, 240]", c.Play.FPS)
	case c.Play.WaterSize < 1:
		return fmt.Errorf("play.water_size %d must be at least 1", c.Play.WaterSize)
	case c.Play.Bodies < 0 || c.Play.BodiesPerIsland < 0:
		return errors.New("play body counts must not be negative")
	case c.Play.MapSize < 0:
		return fmt.Errorf("play.map_size %d must not be negative", c.Play.MapSize)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if err := c.TerrainParams().Validate(); err != nil {
		return fmt.Errorf("terrain: %w", err)
	}
	return nil
}

// TerrainParams converts the terrain section.
func (c Config) TerrainParams() terrain.Params {
	t := c.Terrain
	return terrain.Params{
		ControlPoints:  t.ControlPoints,
		Segments:       t.Segments,
		MaxHeight:      t.MaxHeight,
		MinRadiusScale: t.MinRadiusScale,
		MaxRadiusScale: t.MaxRadiusScale,
		RidgeOctaves:   t.RidgeOctaves,
		RidgeFrequency: t.RidgeFrequency,
		Jitter:         t.Jitter,
	}
}

// IslandOptions converts the world and terrain sections into manager
// options.
func (c Config) IslandOptions() island.Options {
	w := c.World
	return island.Options{
		MaxIslands:        w.MaxIslands,
		IslandCount:       w.Islands,
		PlayArea:          w.PlayArea,
		MinRadius:         w.MinRadius,
		MaxRadius:         w.MaxRadius,
		Separation:        w.Separation,
		PlacementAttempts: w.PlacementAttempts,
		BaseY:             w.BaseY,
		Seed:              w.Seed,
		Island: island.Params{
			Terrain:       c.TerrainParams(),
			GroundSamples: c.Terrain.GroundSamples,
		},
	}
}

// Encode renders cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}
