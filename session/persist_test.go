package session

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/goliatone/go-geocache/geocache"
	"github.com/goliatone/go-geocache/internal/kvstore"
)

func TestSession_SaveLoad(t *testing.T) {
	ctx := context.Background()
	medium := kvstore.NewMemory()

	first := newSession(t, medium)
	if _, err := first.PickUp(ctx, threeCoins); err != nil {
		t.Fatalf("PickUp: %v", err)
	}
	if _, err := first.Coins(ctx, fiveCoins); err != nil {
		t.Fatalf("Coins: %v", err)
	}
	if err := first.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}

	second := newSession(t, medium)
	if err := second.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !slices.Equal(second.Inventory(), first.Inventory()) {
		t.Errorf("inventory = %v, want %v", second.Inventory(), first.Inventory())
	}
	if !slices.Equal(second.store.Keys(), first.store.Keys()) {
		t.Errorf("pinned = %v, want %v", second.store.Keys(), first.store.Keys())
	}
	if second.Score() != 0 {
		t.Errorf("score = %d, want 0 after load", second.Score())
	}

	coins, _ := second.Coins(ctx, threeCoins)
	if len(coins) != 2 {
		t.Errorf("reloaded cache has %d coins, want 2", len(coins))
	}
}

func TestSession_SaveFormat(t *testing.T) {
	ctx := context.Background()
	medium := kvstore.NewMemory()

	s := newSession(t, medium)
	if _, err := s.PickUp(ctx, threeCoins); err != nil {
		t.Fatalf("PickUp: %v", err)
	}
	if err := s.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}

	caches, _, _ := medium.Get(ctx, BlobGeocaches)
	wantCaches := `{"0_0":"[{\"i\":0,\"j\":0,\"serial\":0},{\"i\":0,\"j\":0,\"serial\":1}]"}`
	if caches != wantCaches {
		t.Errorf("%s blob = %s, want %s", BlobGeocaches, caches, wantCaches)
	}

	inventory, _, _ := medium.Get(ctx, BlobInventory)
	if want := `[{"i":0,"j":0,"serial":2}]`; inventory != want {
		t.Errorf("%s blob = %s, want %s", BlobInventory, inventory, want)
	}
}

func TestSession_LoadAbsentBlobs(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, kvstore.NewMemory())

	if _, err := s.PickUp(ctx, threeCoins); err != nil {
		t.Fatalf("PickUp: %v", err)
	}
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if s.store.Len() != 0 || len(s.Inventory()) != 0 || s.Score() != 0 {
		t.Errorf("expected empty state, got pinned %v inventory %v score %d",
			s.store.Keys(), s.Inventory(), s.Score())
	}
}

func TestSession_LoadCorruptBlob(t *testing.T) {
	tests := []struct {
		name          string
		caches        string
		inventory     string
		corrupt       string
		wantPinned    int
		wantInventory int
	}{
		{
			name:          "geocaches not json",
			caches:        "{oops",
			inventory:     `[{"i":0,"j":0,"serial":2}]`,
			corrupt:       BlobGeocaches,
			wantPinned:    0,
			wantInventory: 1,
		},
		{
			name:          "geocaches null",
			caches:        "null",
			inventory:     `[]`,
			corrupt:       BlobGeocaches,
			wantPinned:    0,
			wantInventory: 0,
		},
		{
			name:          "geocaches bad key",
			caches:        `{"zero":"[]"}`,
			inventory:     `[]`,
			corrupt:       BlobGeocaches,
			wantPinned:    0,
			wantInventory: 0,
		},
		{
			name:          "geocaches non-canonical key",
			caches:        `{"+0_00":"[]"}`,
			inventory:     `[]`,
			corrupt:       BlobGeocaches,
			wantPinned:    0,
			wantInventory: 0,
		},
		{
			name:          "inventory not a coin list",
			caches:        `{"0_0":"[]","1_1":"[]"}`,
			inventory:     `{"i":0}`,
			corrupt:       BlobInventory,
			wantPinned:    2,
			wantInventory: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			medium := kvstore.NewMemory()
			_ = medium.Set(ctx, BlobGeocaches, tt.caches)
			_ = medium.Set(ctx, BlobInventory, tt.inventory)

			s := newSession(t, medium)
			err := s.Load(ctx)

			var corrupt *CorruptBlobError
			if !errors.As(err, &corrupt) {
				t.Fatalf("expected CorruptBlobError, got %v", err)
			}
			if corrupt.Blob != tt.corrupt {
				t.Errorf("corrupt blob = %q, want %q", corrupt.Blob, tt.corrupt)
			}
			if s.store.Len() != tt.wantPinned {
				t.Errorf("pinned = %d, want %d", s.store.Len(), tt.wantPinned)
			}
			if got := len(s.Inventory()); got != tt.wantInventory {
				t.Errorf("inventory = %d, want %d", got, tt.wantInventory)
			}
		})
	}
}

func TestSession_ScoreGoesNegativeAfterLoad(t *testing.T) {
	ctx := context.Background()
	medium := kvstore.NewMemory()
	_ = medium.Set(ctx, BlobInventory, `[{"i":4,"j":4,"serial":0},{"i":4,"j":4,"serial":1}]`)

	s := newSession(t, medium)
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	for range 2 {
		if _, err := s.Deposit(ctx, noCoins); err != nil {
			t.Fatalf("Deposit: %v", err)
		}
	}
	if s.Score() != -2 {
		t.Errorf("score = %d, want -2", s.Score())
	}

	coins, _ := s.Coins(ctx, noCoins)
	want := []geocache.Coin{{HomeI: 4, HomeJ: 4, Serial: 1}, {HomeI: 4, HomeJ: 4, Serial: 0}}
	if !slices.Equal(coins, want) {
		t.Errorf("cache = %v, want %v", coins, want)
	}
}

func TestSession_Clear(t *testing.T) {
	ctx := context.Background()
	medium := kvstore.NewMemory()

	s := newSession(t, medium)
	if _, err := s.PickUp(ctx, threeCoins); err != nil {
		t.Fatalf("PickUp: %v", err)
	}
	if err := s.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	if s.store.Len() != 0 || len(s.Inventory()) != 0 || s.Score() != 0 {
		t.Errorf("state not cleared")
	}
	for _, blob := range []string{BlobGeocaches, BlobInventory} {
		if _, ok, _ := medium.Get(ctx, blob); ok {
			t.Errorf("blob %s survived Clear", blob)
		}
	}

	coins, _ := s.Coins(ctx, threeCoins)
	if len(coins) != 3 {
		t.Errorf("cache after clear has %d coins, want generated 3", len(coins))
	}
}
