package di

import (
	"context"
	"fmt"
	"os"

	"github.com/bitmark-inc/logger"
	"github.com/google/uuid"

	"github.com/goliatone/go-geocache/board"
	"github.com/goliatone/go-geocache/cache"
	"github.com/goliatone/go-geocache/config"
	"github.com/goliatone/go-geocache/geocache"
	"github.com/goliatone/go-geocache/internal/kvstore"
	"github.com/goliatone/go-geocache/overrides"
	"github.com/goliatone/go-geocache/session"
)

// Container wires one geocache world: the baseline cache, the cell
// registry, the generator, the override store, the durable medium and the
// session that owns them.
type Container struct {
	config       config.Config
	cacheService cache.CacheService
	board        *board.Board
	generator    *geocache.Generator
	store        *overrides.Store
	medium       kvstore.Medium
	session      *session.Session
}

type options struct {
	logging bool
}

// Option configures a Container.
type Option func(*options)

// WithLogging gives every component a tagged logger. The global logger
// must be initialised first (see InitLogger). Without it nothing logs.
func WithLogging() Option {
	return func(o *options) {
		o.logging = true
	}
}

// NewContainer validates cfg and builds every component.
func NewContainer(ctx context.Context, cfg config.Config, opts ...Option) (*Container, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	loggerFor := func(tag string) *logger.L {
		if !o.logging {
			return nil
		}
		return logger.New(tag)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("di: %w", err)
	}

	codec, err := geocache.CodecByName(cfg.MementoCodec)
	if err != nil {
		return nil, fmt.Errorf("di: %w", err)
	}

	cacheService, err := cache.NewCacheService(cfg.Baseline)
	if err != nil {
		return nil, fmt.Errorf("di: baseline cache: %w", err)
	}

	id := uuid.New()
	mediumLog := kvstore.WithLogger(loggerFor("kvstore"))
	medium, err := kvstore.Open(ctx, cfg.Storage, id, mediumLog)
	if err != nil {
		return nil, fmt.Errorf("di: storage: %w", err)
	}
	if d := cfg.Storage.Driver; d != kvstore.DriverMemory && d != "" {
		medium = kvstore.NewCached(medium, cacheService, mediumLog)
	}

	b := board.New(cfg.TileWidth, cfg.VisibilityRadius)
	generator := geocache.NewGenerator(cfg.MaxCoins, cfg.SpawnProbability,
		geocache.WithBaselineCache(cacheService))
	store := overrides.New(generator,
		overrides.WithCodec(codec),
		overrides.WithLogger(loggerFor("overrides")),
	)

	s := session.New(b, generator, store,
		session.WithID(id),
		session.WithMedium(medium),
		session.WithLocation(cfg.Start()),
		session.WithStep(cfg.Step()),
		session.WithLogger(loggerFor("session")),
	)

	if log := loggerFor("di"); log != nil {
		log.Infof("session %s ready: storage %s, codec %s", id, cfg.Storage.Driver, codec.Name())
	}

	return &Container{
		config:       cfg,
		cacheService: cacheService,
		board:        b,
		generator:    generator,
		store:        store,
		medium:       medium,
		session:      s,
	}, nil
}

// NewContainerWithDefaults builds a container over config.DefaultConfig.
func NewContainerWithDefaults(ctx context.Context, opts ...Option) (*Container, error) {
	return NewContainer(ctx, config.DefaultConfig(), opts...)
}

// NewContainerFromEnv builds a container over config.FromEnv.
func NewContainerFromEnv(ctx context.Context, opts ...Option) (*Container, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	return NewContainer(ctx, cfg, opts...)
}

// InitLogger creates the log directory and initialises the global logger.
// The returned function flushes and closes it.
func InitLogger(cfg config.LogConfig) (func(), error) {
	if err := os.MkdirAll(cfg.Directory, 0o755); err != nil {
		return nil, fmt.Errorf("di: log directory: %w", err)
	}
	if err := logger.Initialise(cfg.Logger()); err != nil {
		return nil, fmt.Errorf("di: logger: %w", err)
	}
	return logger.Finalise, nil
}

// Config returns a copy of the configuration used by this container.
func (c *Container) Config() config.Config {
	return c.config
}

// CacheService returns the baseline cache.
func (c *Container) CacheService() cache.CacheService {
	return c.cacheService
}

func (c *Container) Board() *board.Board {
	return c.board
}

func (c *Container) Generator() *geocache.Generator {
	return c.generator
}

func (c *Container) Store() *overrides.Store {
	return c.store
}

// Session returns the session owning this world's mutable state.
func (c *Container) Session() *session.Session {
	return c.session
}

// Close releases the durable medium. It does not save.
func (c *Container) Close() error {
	return c.medium.Close()
}
