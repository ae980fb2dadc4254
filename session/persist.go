package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goliatone/go-geocache/board"
	"github.com/goliatone/go-geocache/geocache"
)

// Blob names in the durable medium.
const (
	BlobGeocaches = "geocaches"
	BlobInventory = "inventory"
)

// Save writes the override store and the inventory to the medium.
// The score is not saved.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	caches, err := json.Marshal(s.store.Snapshot())
	if err != nil {
		return fmt.Errorf("session: encode %s: %w", BlobGeocaches, err)
	}

	inventory, err := geocache.JSON.Encode(s.inventory)
	if err != nil {
		return fmt.Errorf("session: encode %s: %w", BlobInventory, err)
	}

	if err := s.medium.Set(ctx, BlobGeocaches, string(caches)); err != nil {
		return fmt.Errorf("session: save %s: %w", BlobGeocaches, err)
	}
	if err := s.medium.Set(ctx, BlobInventory, string(inventory)); err != nil {
		return fmt.Errorf("session: save %s: %w", BlobInventory, err)
	}

	if s.log != nil {
		s.log.Infof("saved %d pinned cells and %d coins", s.store.Len(), len(s.inventory))
	}
	return nil
}

// Load replaces the override store and the inventory with the saved
// blobs. A missing blob leaves its structure empty. A blob that cannot be
// parsed also leaves its structure empty and is reported as a
// *CorruptBlobError; the other blob still loads. The score is reset to
// zero either way.
//
// Medium failures abort the load before any state changes.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rawCaches, hasCaches, err := s.medium.Get(ctx, BlobGeocaches)
	if err != nil {
		return fmt.Errorf("session: load %s: %w", BlobGeocaches, err)
	}
	rawInventory, hasInventory, err := s.medium.Get(ctx, BlobInventory)
	if err != nil {
		return fmt.Errorf("session: load %s: %w", BlobInventory, err)
	}

	var errs []error

	s.store.Reset()
	if hasCaches {
		entries, err := decodeGeocaches(rawCaches)
		if err != nil {
			errs = append(errs, &CorruptBlobError{Blob: BlobGeocaches, Err: err})
		} else {
			s.store.Restore(entries)
		}
	}

	s.inventory = []geocache.Coin{}
	if hasInventory {
		coins, err := geocache.JSON.Decode(geocache.Memento(rawInventory))
		if err != nil {
			errs = append(errs, &CorruptBlobError{Blob: BlobInventory, Err: err})
		} else {
			s.inventory = coins
		}
	}

	s.score = 0

	if s.log != nil {
		for _, err := range errs {
			s.log.Warnf("%s, starting empty", err)
		}
		s.log.Infof("loaded %d pinned cells and %d coins", s.store.Len(), len(s.inventory))
	}

	return errors.Join(errs...)
}

// Clear wipes the override store, the inventory, the score and both blobs.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Reset()
	s.inventory = []geocache.Coin{}
	s.score = 0

	var errs []error
	for _, blob := range []string{BlobGeocaches, BlobInventory} {
		if err := s.medium.Delete(ctx, blob); err != nil {
			errs = append(errs, fmt.Errorf("session: clear %s: %w", blob, err))
		}
	}

	if s.log != nil {
		s.log.Info("session cleared")
	}
	return errors.Join(errs...)
}

func decodeGeocaches(raw string) (map[string]geocache.Memento, error) {
	var entries map[string]geocache.Memento
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		return nil, errors.New("not an object")
	}

	for key := range entries {
		if _, err := board.ParseKey(key); err != nil {
			return nil, err
		}
	}
	return entries, nil
}
