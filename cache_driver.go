package hybridshare

import (
	"context"
	"time"
)

// CacheStore keeps raw values under global keys with a TTL. *cache.Store and
// *redis.Storage implement it.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CacheDriver stores the container in a cache keyed by identity, typically
// the authenticated user's primary key. Every write refreshes the TTL.
type CacheDriver struct {
	keyring
	store CacheStore
	ttl   time.Duration
}

// NewCacheDriver returns a cache driver writing keys with prefix and ttl.
func NewCacheDriver(store CacheStore, prefix string, ttl time.Duration) *CacheDriver {
	return &CacheDriver{keyring: keyring{prefix: prefix}, store: store, ttl: ttl}
}

func (d *CacheDriver) Kind() DriverKind {
	return DriverCache
}

func (d *CacheDriver) Get(ctx context.Context) (*Container, error) {
	key, err := d.Key()
	if err != nil {
		return nil, err
	}
	raw, err := d.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return decodeState(raw)
}

func (d *CacheDriver) Put(ctx context.Context, c *Container) error {
	key, err := d.Key()
	if err != nil {
		return err
	}
	raw, err := encodeState(c)
	if err != nil {
		return err
	}
	return d.store.Set(ctx, key, raw, d.ttl)
}

func (d *CacheDriver) Flush(ctx context.Context) error {
	key, err := d.Key()
	if err != nil {
		return err
	}
	return d.store.Delete(ctx, key)
}
