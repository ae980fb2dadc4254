package geocache

import (
	"errors"
	"slices"
	"testing"

	"github.com/goliatone/go-geocache/board"
)

func TestGeocache_RemoveCoin(t *testing.T) {
	cache := New(board.Cell{I: 0, J: 0}, []Coin{
		{HomeI: 0, HomeJ: 0, Serial: 0},
		{HomeI: 0, HomeJ: 0, Serial: 1},
		{HomeI: 0, HomeJ: 0, Serial: 2},
	})

	coin, err := cache.RemoveCoin()
	if err != nil {
		t.Fatalf("RemoveCoin: %v", err)
	}

	if coin != (Coin{HomeI: 0, HomeJ: 0, Serial: 2}) {
		t.Errorf("expected last coin to leave first, got %v", coin)
	}

	want := []Coin{{0, 0, 0}, {0, 0, 1}}
	if !slices.Equal(cache.Coins, want) {
		t.Errorf("remaining coins = %v, want %v", cache.Coins, want)
	}
}

func TestGeocache_RemoveCoinEmpty(t *testing.T) {
	cache := New(board.Cell{I: 4, J: 2}, []Coin{})

	coin, err := cache.RemoveCoin()
	if !errors.Is(err, ErrEmptyCache) {
		t.Fatalf("expected ErrEmptyCache, got %v", err)
	}
	if coin != (Coin{}) {
		t.Errorf("expected zero coin, got %v", coin)
	}
	if cache.Len() != 0 {
		t.Errorf("expected cache to stay empty, got %d coins", cache.Len())
	}
}

func TestGeocache_AddCoinAcceptsForeignCoins(t *testing.T) {
	cache := New(board.Cell{I: 1, J: 1}, []Coin{{1, 1, 0}})

	foreign := Coin{HomeI: -7, HomeJ: 99, Serial: 3}
	cache.AddCoin(foreign)

	if cache.Len() != 2 {
		t.Fatalf("expected 2 coins, got %d", cache.Len())
	}
	if cache.Coins[1] != foreign {
		t.Errorf("expected foreign coin appended, got %v", cache.Coins[1])
	}

	coin, err := cache.RemoveCoin()
	if err != nil || coin != foreign {
		t.Errorf("expected foreign coin to leave first, got %v (%v)", coin, err)
	}
}

func TestCoin_String(t *testing.T) {
	coins := []Coin{{369995, -1220533, 0}, {0, 0, 7}}

	if got := coins[0].String(); got != "369995:-1220533#0" {
		t.Errorf("String() = %q", got)
	}
	if got := FormatCoins(coins); got != "369995:-1220533#0, 0:0#7" {
		t.Errorf("FormatCoins() = %q", got)
	}
	if got := FormatCoins(nil); got != "" {
		t.Errorf("FormatCoins(nil) = %q, want empty", got)
	}
}
