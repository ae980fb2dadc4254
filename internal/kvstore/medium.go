// Package kvstore holds the durable key-value media session blobs are
// saved to.
package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/bitmark-inc/logger"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Driver names.
const (
	DriverMemory  = "memory"
	DriverSQLite  = "sqlite"
	DriverLevelDB = "leveldb"
)

// ErrUnknownDriver is returned by Open for unsupported drivers.
var ErrUnknownDriver = errors.New("kvstore: unknown driver")

// Medium is a durable string key-value store.
type Medium interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

type options struct {
	log *logger.L
}

// Option configures a medium.
type Option func(*options)

// WithLogger sets the logger. Without one the medium does not log.
func WithLogger(log *logger.L) Option {
	return func(o *options) {
		o.log = log
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Config selects and locates a medium.
type Config struct {
	Driver string `env:"DRIVER" envDefault:"memory"`
	// DSN is the sqlite data source name or the leveldb directory.
	DSN string `env:"DSN"`
}

// Validate checks the driver name and that durable drivers have a DSN.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Driver, validation.In(DriverMemory, DriverSQLite, DriverLevelDB)),
		validation.Field(&c.DSN, validation.When(c.Driver == DriverSQLite || c.Driver == DriverLevelDB, validation.Required)),
	)
}

// Open builds the medium described by cfg. owner is recorded by media that
// keep writer metadata.
func Open(ctx context.Context, cfg Config, owner uuid.UUID, opts ...Option) (Medium, error) {
	switch cfg.Driver {
	case DriverMemory, "":
		return NewMemory(), nil
	case DriverSQLite:
		return OpenSQLite(ctx, cfg.DSN, owner, opts...)
	case DriverLevelDB:
		return OpenLevelDB(cfg.DSN, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
