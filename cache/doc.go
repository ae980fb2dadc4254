// Package cache provides the read-through cache that sits in front of
// geocache generation.
//
// # Overview
//
// Generated baselines are a pure function of a cell and the world
// configuration, so they can be cached freely and recomputed at any time.
// The package exports:
//
//   - CacheService: a minimal read-through interface
//   - GetOrFetch: a type-safe wrapper over CacheService
//   - Config / NewCacheService: the sturdyc-backed default implementation
//
// # Basic Usage
//
//	service, err := cache.NewCacheService(cache.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	coins, err := cache.GetOrFetch(ctx, service, "baseline::0_0", func(ctx context.Context) ([]geocache.Coin, error) {
//		return generator.Generate(cell).Coins, nil
//	})
//
// Cached values are shared between callers. Callers that hand values out
// for mutation must copy them first; the geocache generator does.
//
// # What not to cache
//
// Mementos from the override store are never cached here. Once a cell is
// materialized its stored memento is the source of truth and changes on
// every transfer.
package cache
