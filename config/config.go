// Package config holds the world constants and the wiring options of a
// geocache session, read from GEOCACHE_* environment variables.
package config

import (
	"fmt"

	"github.com/bitmark-inc/logger"
	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-geocache/board"
	"github.com/goliatone/go-geocache/cache"
	"github.com/goliatone/go-geocache/geocache"
	"github.com/goliatone/go-geocache/internal/kvstore"
)

// Prefix is prepended to every environment variable name.
const Prefix = "GEOCACHE_"

// Config is the full set of world and wiring options.
type Config struct {
	// TileWidth is the cell edge length in degrees.
	TileWidth float64 `env:"TILE_WIDTH"`
	// VisibilityRadius is the neighborhood radius in cells.
	VisibilityRadius int `env:"VISIBILITY_RADIUS"`
	// SpawnProbability is the chance that a cell hosts a cache.
	SpawnProbability float64 `env:"SPAWN_PROBABILITY"`
	// MaxCoins bounds the generated coin count of a cache (exclusive).
	MaxCoins int `env:"MAX_COINS"`
	// MementoCodec names the codec used for new mementos.
	MementoCodec string `env:"MEMENTO_CODEC"`

	// StartLat and StartLng place the player before any location fix.
	StartLat float64 `env:"START_LAT"`
	StartLng float64 `env:"START_LNG"`
	// MoveIncrement is the step of a single move. Zero means one tile.
	MoveIncrement float64 `env:"MOVE_INCREMENT"`

	Baseline cache.Config   `envPrefix:"BASELINE_"`
	Storage  kvstore.Config `envPrefix:"STORAGE_"`
	Log      LogConfig      `envPrefix:"LOG_"`
}

// LogConfig configures the bitmark logger.
type LogConfig struct {
	Directory string `env:"DIR"`
	File      string `env:"FILE"`
	Size      int    `env:"SIZE"`
	Count     int    `env:"COUNT"`
	Console   bool   `env:"CONSOLE"`
	Level     string `env:"LEVEL"`
}

// DefaultConfig returns the classic world: 1e-4 degree tiles
// around the Santa Cruz campus, radius 8, one cache in ten cells.
func DefaultConfig() Config {
	return Config{
		TileWidth:        1e-4,
		VisibilityRadius: 8,
		SpawnProbability: 0.1,
		MaxCoins:         10,
		MementoCodec:     geocache.CodecJSON,
		StartLat:         36.9995,
		StartLng:         -122.0533,
		Baseline:         cache.DefaultConfig(),
		Storage:          kvstore.Config{Driver: kvstore.DriverMemory},
		Log: LogConfig{
			Directory: "log",
			File:      "geocache.log",
			Size:      1048576,
			Count:     10,
			Console:   false,
			Level:     "info",
		},
	}
}

// FromEnv overlays the process environment on DefaultConfig and validates
// the result.
func FromEnv() (Config, error) {
	return parse(env.Options{Prefix: Prefix})
}

// FromMap is FromEnv over an explicit variable set.
func FromMap(vars map[string]string) (Config, error) {
	return parse(env.Options{Prefix: Prefix, Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	cfg := DefaultConfig()
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks every option.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.TileWidth, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&c.VisibilityRadius, validation.Min(0)),
		validation.Field(&c.SpawnProbability, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&c.MaxCoins, validation.Min(0)),
		validation.Field(&c.MementoCodec, validation.Required, validation.In(geocache.CodecJSON, geocache.CodecMsgpack)),
		validation.Field(&c.StartLat, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&c.StartLng, validation.Min(-180.0), validation.Max(180.0)),
		validation.Field(&c.MoveIncrement, validation.Min(0.0)),
		validation.Field(&c.Baseline),
		validation.Field(&c.Storage),
		validation.Field(&c.Log),
	)
}

// Start returns the starting player location.
func (c Config) Start() board.Point {
	return board.Point{Lat: c.StartLat, Lng: c.StartLng}
}

// Step returns the distance covered by one move.
func (c Config) Step() float64 {
	if c.MoveIncrement > 0 {
		return c.MoveIncrement
	}
	return c.TileWidth
}

// Validate checks the logger options.
func (l LogConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Directory, validation.Required),
		validation.Field(&l.File, validation.Required),
		validation.Field(&l.Size, validation.Min(20000)),
		validation.Field(&l.Count, validation.Min(2)),
		validation.Field(&l.Level, validation.In("trace", "debug", "info", "warn", "error", "critical")),
	)
}

// Logger converts l to the bitmark logger configuration.
func (l LogConfig) Logger() logger.Configuration {
	return logger.Configuration{
		Directory: l.Directory,
		File:      l.File,
		Size:      l.Size,
		Count:     l.Count,
		Console:   l.Console,
		Levels: map[string]string{
			logger.DefaultTag: l.Level,
		},
	}
}
