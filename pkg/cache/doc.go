// Package cache provides a thread-safe, bounded in-memory key/value store
// with per-entry expiry. It is the default identity-scoped backend of
// hybridshare's cache driver and a drop-in replacement for the Redis store in
// single-process deployments and tests.
//
// Capacity is enforced with LRU eviction: when a Set would exceed the
// configured number of entries the least recently used one is dropped.
// Expired entries are removed lazily on access.
//
//	store := cache.New(10_000)
//	_ = store.Set(ctx, "hybridly_container__42", payload, time.Minute)
//	payload, _ = store.Get(ctx, "hybridly_container__42") // nil once expired
//
// Values are copied on the way in and out, so callers may reuse buffers.
package cache
