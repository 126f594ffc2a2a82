// Package cache provides the Redis-backed store for assembled menus.
//
// Each shop's assembled menu is stored as its serialized JSON under
// "menu:<shopGuid>". Entries are written with a single SET ... EX command so
// the expiry is applied atomically with the value. There is no invalidation:
// an entry lives until its TTL runs out.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	manager := cache.NewManager(redisClient)
//	key := cache.MenuKey("ABC")
//
//	data, err := manager.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch, assemble, then:
//		err = manager.Set(ctx, key, payload, time.Hour)
//	}
//
// # Metrics
//
// The manager exports Prometheus metrics:
//
//   - menu_cache_hits_total - Cache hits
//   - menu_cache_misses_total - Cache misses
//   - menu_cache_written_bytes_total - Bytes written to Redis
//   - menu_cache_errors_total{operation} - Cache operation errors
package cache
