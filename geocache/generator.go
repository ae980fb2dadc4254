package geocache

import (
	"context"
	"math"
	"slices"

	"github.com/goliatone/go-geocache/board"
	"github.com/goliatone/go-geocache/cache"
	"github.com/goliatone/go-geocache/luck"
)

// ValueSuffix is appended to a cell seed to derive its coin count.
const ValueSuffix = ":initialValue"

const baselineKeyPrefix = "baseline::"

// Generator derives cache presence and initial coins from cell coordinates.
type Generator struct {
	luck             luck.Func
	maxCoins         int
	spawnProbability float64
	baseline         cache.CacheService
}

// Option configures a Generator.
type Option func(*Generator)

// WithLuck replaces the hash function.
func WithLuck(fn luck.Func) Option {
	return func(g *Generator) {
		if fn != nil {
			g.luck = fn
		}
	}
}

// WithBaselineCache routes Baseline through service.
func WithBaselineCache(service cache.CacheService) Option {
	return func(g *Generator) {
		g.baseline = service
	}
}

// NewGenerator creates a Generator minting at most maxCoins-1 coins per cell
// and spawning caches with probability spawnProbability.
func NewGenerator(maxCoins int, spawnProbability float64, opts ...Option) *Generator {
	g := &Generator{
		luck:             luck.Luck,
		maxCoins:         maxCoins,
		spawnProbability: spawnProbability,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// HasCache reports whether cell hosts a cache.
func (g *Generator) HasCache(cell board.Cell) bool {
	return g.luck(cell.Seed()) < g.spawnProbability
}

// CoinCount returns the number of coins cell starts with.
func (g *Generator) CoinCount(cell board.Cell) int {
	return int(math.Floor(g.luck(cell.Seed()+ValueSuffix) * float64(g.maxCoins)))
}

// Generate builds the default cache for cell: coins with serials 0..n-1,
// all homed at cell.
func (g *Generator) Generate(cell board.Cell) *Geocache {
	n := g.CoinCount(cell)

	coins := make([]Coin, 0, n)
	for s := 0; s < n; s++ {
		coins = append(coins, Coin{HomeI: cell.I, HomeJ: cell.J, Serial: s})
	}

	return New(cell, coins)
}

// Baseline returns the generated coins for cell, through the baseline cache
// when one is configured. The returned slice is always a private copy.
func (g *Generator) Baseline(ctx context.Context, cell board.Cell) ([]Coin, error) {
	if g.baseline == nil {
		return g.Generate(cell).Coins, nil
	}

	coins, err := cache.GetOrFetch(ctx, g.baseline, baselineKeyPrefix+cell.Key(), func(ctx context.Context) ([]Coin, error) {
		return g.Generate(cell).Coins, nil
	})
	if err != nil {
		return nil, err
	}

	if coins == nil {
		return []Coin{}, nil
	}
	return slices.Clone(coins), nil
}
