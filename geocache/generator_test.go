package geocache

import (
	"context"
	"slices"
	"testing"

	"github.com/goliatone/go-geocache/board"
	"github.com/goliatone/go-geocache/cache"
	"github.com/goliatone/go-geocache/luck"
)

func TestGenerator_ScenarioThreeCoins(t *testing.T) {
	gen := NewGenerator(10, 0.1, WithLuck(luck.Fixed(map[string]float64{
		"0,0:initialValue": 0.35,
	})))

	generated := gen.Generate(board.Cell{I: 0, J: 0})

	want := []Coin{{0, 0, 0}, {0, 0, 1}, {0, 0, 2}}
	if !slices.Equal(generated.Coins, want) {
		t.Errorf("Generate() = %v, want %v", generated.Coins, want)
	}
}

func TestGenerator_CoinCount(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  int
	}{
		{name: "zero", value: 0, want: 0},
		{name: "just below one coin", value: 0.0999, want: 0},
		{name: "one coin", value: 0.1, want: 1},
		{name: "max", value: 0.9999, want: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := NewGenerator(10, 0.1, WithLuck(func(string) float64 { return tt.value }))

			if got := gen.CoinCount(board.Cell{I: 3, J: 4}); got != tt.want {
				t.Errorf("CoinCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGenerator_HasCache(t *testing.T) {
	gen := NewGenerator(10, 0.1, WithLuck(luck.Fixed(map[string]float64{
		"1,1": 0.05,
		"2,2": 0.1,
		"3,3": 0.7,
	})))

	tests := []struct {
		cell board.Cell
		want bool
	}{
		{board.Cell{I: 1, J: 1}, true},
		{board.Cell{I: 2, J: 2}, false},
		{board.Cell{I: 3, J: 3}, false},
	}

	for _, tt := range tests {
		if got := gen.HasCache(tt.cell); got != tt.want {
			t.Errorf("HasCache(%v) = %v, want %v", tt.cell, got, tt.want)
		}
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	gen := NewGenerator(10, 0.1)
	cells := []board.Cell{{I: 0, J: 0}, {I: 369995, J: -1220533}, {I: -1, J: 5}}

	first := make([][]Coin, len(cells))
	for i, c := range cells {
		first[i] = gen.Generate(c).Coins
	}

	// Reverse order must not change anything.
	for i := len(cells) - 1; i >= 0; i-- {
		again := gen.Generate(cells[i]).Coins
		if !slices.Equal(first[i], again) {
			t.Errorf("Generate(%v) not deterministic: %v != %v", cells[i], first[i], again)
		}
	}

	for i, c := range cells {
		for s, coin := range first[i] {
			if coin.HomeI != c.I || coin.HomeJ != c.J || coin.Serial != s {
				t.Errorf("unexpected coin %v at position %d for %v", coin, s, c)
			}
		}
	}
}

func TestGenerator_BaselineWithoutCache(t *testing.T) {
	gen := NewGenerator(10, 0.1, WithLuck(func(string) float64 { return 0.5 }))
	cell := board.Cell{I: 2, J: 3}

	coins, err := gen.Baseline(context.Background(), cell)
	if err != nil {
		t.Fatalf("Baseline: %v", err)
	}
	if !slices.Equal(coins, gen.Generate(cell).Coins) {
		t.Errorf("Baseline() = %v, want generated coins", coins)
	}
}

func TestGenerator_BaselineCachedCopies(t *testing.T) {
	service, err := cache.NewCacheService(cache.DefaultConfig())
	if err != nil {
		t.Fatalf("NewCacheService: %v", err)
	}

	calls := 0
	gen := NewGenerator(10, 0.1,
		WithBaselineCache(service),
		WithLuck(func(seed string) float64 {
			calls++
			return 0.42
		}),
	)

	ctx := context.Background()
	cell := board.Cell{I: 9, J: -9}

	first, err := gen.Baseline(ctx, cell)
	if err != nil {
		t.Fatalf("Baseline: %v", err)
	}
	if len(first) != 4 {
		t.Fatalf("expected 4 coins, got %v", first)
	}

	// Mutating the returned slice must not leak into the cache.
	first[0] = Coin{HomeI: 100, HomeJ: 100, Serial: 100}
	first = first[:1]

	second, err := gen.Baseline(ctx, cell)
	if err != nil {
		t.Fatalf("Baseline: %v", err)
	}
	want := []Coin{{9, -9, 0}, {9, -9, 1}, {9, -9, 2}, {9, -9, 3}}
	if !slices.Equal(second, want) {
		t.Errorf("Baseline() after mutation = %v, want %v", second, want)
	}

	if calls != 1 {
		t.Errorf("expected one luck call through the cache, got %d", calls)
	}
}
