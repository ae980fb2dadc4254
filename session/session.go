// Package session owns the mutable state of one player's world: the
// override store, the coins the player carries, the score and the
// player's position. Every exported method is atomic; a call that returns
// an error leaves the state as it was, except for a
// *geocache.CorruptMementoError, which reports an unreadable stored cache
// alongside a result computed from the generated fallback.
package session

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/bitmark-inc/logger"
	"github.com/google/uuid"

	"github.com/goliatone/go-geocache/board"
	"github.com/goliatone/go-geocache/geocache"
	"github.com/goliatone/go-geocache/internal/kvstore"
	"github.com/goliatone/go-geocache/overrides"
)

// Direction is a one-step player move.
type Direction int

const (
	North Direction = iota
	South
	East
	West
)

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	default:
		return "unknown"
	}
}

// Pit is a visible cell hosting a cache.
type Pit struct {
	Cell   board.Cell
	Bounds board.Bounds
}

// Session is the single owner of a world's mutable state.
type Session struct {
	mu sync.Mutex

	id        uuid.UUID
	board     *board.Board
	generator *geocache.Generator
	store     *overrides.Store
	medium    kvstore.Medium

	inventory []geocache.Coin
	score     int
	location  board.Point
	step      float64

	log *logger.L
}

// Option configures a Session.
type Option func(*Session)

// WithID sets the session id recorded by media that track writers.
func WithID(id uuid.UUID) Option {
	return func(s *Session) {
		s.id = id
	}
}

// WithMedium sets the durable medium used by Load, Save and Clear.
func WithMedium(medium kvstore.Medium) Option {
	return func(s *Session) {
		if medium != nil {
			s.medium = medium
		}
	}
}

// WithLocation sets the starting player location.
func WithLocation(p board.Point) Option {
	return func(s *Session) {
		s.location = p
	}
}

// WithLogger sets the logger. Without one the Session does not log.
func WithLogger(log *logger.L) Option {
	return func(s *Session) {
		s.log = log
	}
}

// WithStep sets the distance covered by Move. Defaults to one tile.
func WithStep(step float64) Option {
	return func(s *Session) {
		if step > 0 {
			s.step = step
		}
	}
}

// New creates a Session with an empty inventory and zero score.
func New(b *board.Board, generator *geocache.Generator, store *overrides.Store, opts ...Option) *Session {
	s := &Session{
		id:        uuid.New(),
		board:     b,
		generator: generator,
		store:     store,
		medium:    kvstore.NewMemory(),
		inventory: []geocache.Coin{},
		step:      b.TileWidth(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session id.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Inventory returns a copy of the coins the player carries, oldest first.
func (s *Session) Inventory() []geocache.Coin {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.inventory)
}

// Score returns the net number of coins moved from caches to the player
// since the last reset. It is not clamped and can go negative.
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// Location returns the player's position.
func (s *Session) Location() board.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.location
}

// MoveTo places the player at p, as a location sensor would.
func (s *Session) MoveTo(p board.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.location = p
}

// Move shifts the player one step in d and returns the new location.
func (s *Session) Move(d Direction) board.Point {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch d {
	case North:
		s.location.Lat += s.step
	case South:
		s.location.Lat -= s.step
	case East:
		s.location.Lng += s.step
	case West:
		s.location.Lng -= s.step
	}
	return s.location
}

// Visible returns the caches around p that a map should draw, each cell
// once, in neighborhood order.
func (s *Session) Visible(p board.Point) []Pit {
	cells := s.board.Neighborhood(p)

	seen := make(map[*board.Cell]struct{}, len(cells))
	pits := make([]Pit, 0, len(cells))
	for _, c := range cells {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}

		if !s.generator.HasCache(*c) {
			continue
		}
		pits = append(pits, Pit{Cell: *c, Bounds: s.board.CellBounds(*c)})
	}
	return pits
}

// Coins returns the current coins of cell's cache, pinning it. When the
// stored memento was corrupt the generated fallback is returned together
// with a *geocache.CorruptMementoError.
func (s *Session) Coins(ctx context.Context, cell board.Cell) ([]geocache.Coin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gc, err := s.store.Materialize(ctx, cell)
	if gc == nil {
		return nil, err
	}
	return slices.Clone(gc.Coins), err
}

// PickUp moves the last coin of cell's cache into the inventory and adds
// one to the score. It returns geocache.ErrEmptyCache, changing nothing,
// when the cache has no coins. When the stored memento was corrupt the coin
// comes from the generated fallback and is returned together with a
// *geocache.CorruptMementoError.
func (s *Session) PickUp(ctx context.Context, cell board.Cell) (geocache.Coin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gc, corrupt, err := s.resolve(ctx, cell)
	if err != nil {
		return geocache.Coin{}, err
	}

	coin, err := gc.RemoveCoin()
	if err != nil {
		return geocache.Coin{}, err
	}

	if err := s.store.Commit(gc); err != nil {
		return geocache.Coin{}, err
	}

	s.inventory = append(s.inventory, coin)
	s.score++
	s.debugf("picked up %s at %s, score %d", coin, cell.Key(), s.score)

	return coin, corrupt
}

// Deposit moves the last inventory coin into cell's cache and subtracts
// one from the score. It returns ErrInsufficientFunds, changing nothing,
// when the inventory is empty. A corrupt stored memento is reported as in
// PickUp, after the coin was added to the generated fallback.
func (s *Session) Deposit(ctx context.Context, cell board.Cell) (geocache.Coin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.inventory)
	if n == 0 {
		return geocache.Coin{}, ErrInsufficientFunds
	}

	gc, corrupt, err := s.resolve(ctx, cell)
	if err != nil {
		return geocache.Coin{}, err
	}

	coin := s.inventory[n-1]
	gc.AddCoin(coin)

	if err := s.store.Commit(gc); err != nil {
		return geocache.Coin{}, err
	}

	s.inventory = s.inventory[:n-1]
	s.score--
	s.debugf("deposited %s at %s, score %d", coin, cell.Key(), s.score)

	return coin, corrupt
}

// resolve returns the current cache for cell without pinning it. A corrupt
// memento is returned separately from fatal errors: the transfer goes on
// with the generated fallback, which the following commit pins.
func (s *Session) resolve(ctx context.Context, cell board.Cell) (gc *geocache.Geocache, corrupt, err error) {
	gc, err = s.store.Peek(ctx, cell)

	var cerr *geocache.CorruptMementoError
	if errors.As(err, &cerr) {
		return gc, err, nil
	}
	return gc, nil, err
}

func (s *Session) debugf(format string, args ...interface{}) {
	if s.log != nil {
		s.log.Debugf(format, args...)
	}
}
