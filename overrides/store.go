// Package overrides records every cache that has been observed or changed.
//
// The world is regenerated from coordinates on demand; the Store only holds
// mementos for cells whose cache was materialized. A stored memento always
// wins over generation, so once a cache has been seen its contents are
// pinned even if the generation constants later change.
//
// A Store is not safe for concurrent use. session.Session owns one and
// serializes access to it.
package overrides

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/bitmark-inc/logger"

	"github.com/goliatone/go-geocache/board"
	"github.com/goliatone/go-geocache/geocache"
)

// Store is the sparse cell key -> memento mapping.
type Store struct {
	generator *geocache.Generator
	codec     geocache.Codec
	entries   map[string]geocache.Memento
	log       *logger.L
}

// Option configures a Store.
type Option func(*Store)

// WithCodec sets the codec used to encode mementos. Decoding always
// autodetects, so existing entries stay readable after a switch.
func WithCodec(codec geocache.Codec) Option {
	return func(s *Store) {
		if codec != nil {
			s.codec = codec
		}
	}
}

// WithLogger sets the logger. Without one the Store does not log.
func WithLogger(log *logger.L) Option {
	return func(s *Store) {
		s.log = log
	}
}

// New creates an empty Store backed by generator for cells it has not seen.
func New(generator *geocache.Generator, opts ...Option) *Store {
	s := &Store{
		generator: generator,
		codec:     geocache.JSON,
		entries:   make(map[string]geocache.Memento),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Codec returns the codec used for new mementos.
func (s *Store) Codec() geocache.Codec {
	return s.codec
}

// Get returns the memento stored for cell.
func (s *Store) Get(cell board.Cell) (geocache.Memento, bool) {
	m, ok := s.entries[cell.Key()]
	return m, ok
}

// Put stores m for cell, replacing any previous memento.
func (s *Store) Put(cell board.Cell, m geocache.Memento) {
	s.entries[cell.Key()] = m
}

// Peek resolves the current cache for cell without pinning it.
//
// A stored memento that fails to decode is replaced by the generated
// baseline; the returned cache is then usable and the error is a
// *geocache.CorruptMementoError.
func (s *Store) Peek(ctx context.Context, cell board.Cell) (*geocache.Geocache, error) {
	m, ok := s.Get(cell)
	if ok {
		coins, err := geocache.DecodeMemento(m)
		if err == nil {
			return geocache.New(cell, coins), nil
		}

		if s.log != nil {
			s.log.Warnf("cell %s: %s, falling back to generated baseline", cell.Key(), err)
		}
		baseline, berr := s.generator.Baseline(ctx, cell)
		if berr != nil {
			return nil, fmt.Errorf("overrides: baseline for %s: %w", cell.Key(), berr)
		}
		return geocache.New(cell, baseline), err
	}

	baseline, err := s.generator.Baseline(ctx, cell)
	if err != nil {
		return nil, fmt.Errorf("overrides: baseline for %s: %w", cell.Key(), err)
	}
	return geocache.New(cell, baseline), nil
}

// Materialize resolves the current cache for cell and pins it by writing
// its encoding back. Like Peek, it returns a usable cache together with a
// *geocache.CorruptMementoError when the stored memento was unreadable.
func (s *Store) Materialize(ctx context.Context, cell board.Cell) (*geocache.Geocache, error) {
	gc, err := s.Peek(ctx, cell)

	var corrupt *geocache.CorruptMementoError
	if err != nil && !errors.As(err, &corrupt) {
		return nil, err
	}

	if _, pinned := s.entries[cell.Key()]; !pinned && s.log != nil {
		s.log.Debugf("pinning cell %s with %d coins", cell.Key(), gc.Len())
	}

	if cerr := s.Commit(gc); cerr != nil {
		return nil, cerr
	}
	return gc, err
}

// Commit encodes gc and stores it under its cell.
func (s *Store) Commit(gc *geocache.Geocache) error {
	m, err := s.codec.Encode(gc.Coins)
	if err != nil {
		return fmt.Errorf("overrides: commit %s: %w", gc.Cell.Key(), err)
	}
	s.Put(gc.Cell, m)
	return nil
}

// Len returns the number of pinned cells.
func (s *Store) Len() int {
	return len(s.entries)
}

// Keys returns the pinned cell keys in sorted order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of the full mapping.
func (s *Store) Snapshot() map[string]geocache.Memento {
	out := make(map[string]geocache.Memento, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

// Restore replaces the mapping with a copy of entries.
func (s *Store) Restore(entries map[string]geocache.Memento) {
	s.entries = make(map[string]geocache.Memento, len(entries))
	for k, v := range entries {
		s.entries[k] = v
	}
	if s.log != nil {
		s.log.Infof("restored %d pinned cells", len(s.entries))
	}
}

// Reset drops every entry.
func (s *Store) Reset() {
	s.entries = make(map[string]geocache.Memento)
}
