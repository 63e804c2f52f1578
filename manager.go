package hybridshare

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"slices"

	"github.com/dmitrymomot/hybridshare/pkg/cache"
	"github.com/dmitrymomot/hybridshare/pkg/logger"
	"github.com/dmitrymomot/hybridshare/pkg/session"
)

const defaultCacheCapacity = 10000

type persistentKey struct {
	key   string
	value any
}

type namedResolver struct {
	name     string
	resolver Resolver
}

// Manager holds process wide settings and builds one Share per request.
// It is safe for concurrent use.
type Manager struct {
	cfg          Config
	codec        *Codec
	ignore       *IgnoreList
	sessionStore SessionStore
	cacheStore   CacheStore
	identity     IdentityFunc
	logger       *slog.Logger
	metrics      *Metrics

	resolvers       []namedResolver
	extraPersistent []persistentKey
	persistent      []persistentKey
}

// NewManager creates a manager from cfg. The cache driver falls back to an
// in-memory store sized by cfg.CacheCapacity when no cache store is given.
// A non-positive capacity uses the default of 10000 entries.
func NewManager(cfg Config, opts ...Option) *Manager {
	m := &Manager{
		cfg:    cfg,
		codec:  NewCodec(),
		ignore: NewIgnoreList(cfg.IgnoreURLs...),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}

	for _, r := range m.resolvers {
		m.codec.Register(r.name, r.resolver)
	}
	if m.cacheStore == nil {
		capacity := cfg.CacheCapacity
		if capacity <= 0 {
			capacity = defaultCacheCapacity
		}
		m.cacheStore = cache.New(capacity)
	}
	m.persistent = buildPersistentKeys(cfg, m.extraPersistent)
	m.logger = m.logger.With(logger.Component("hybridshare"))

	return m
}

// Config returns the configuration the manager was built with.
func (m *Manager) Config() Config {
	return m.cfg
}

// Codec returns the codec used to encode shared values.
func (m *Manager) Codec() *Codec {
	return m.codec
}

// ShouldIgnore reports whether r is excluded from sharing.
func (m *Manager) ShouldIgnore(r *http.Request) bool {
	if r == nil || r.URL == nil {
		return false
	}
	return m.ignore.Match(r.URL.Path)
}

// New boots a Share for r: it resolves the driver, binds the request identity,
// loads the state left by a previous request and flushes it from the driver.
func (m *Manager) New(ctx context.Context, r *http.Request) (*Share, error) {
	s := &Share{m: m, request: r, container: NewContainer()}

	driver, err := s.getDriver(ctx)
	if err != nil {
		return nil, err
	}

	loaded, err := driver.Get(ctx)
	if err != nil {
		m.metrics.driverError(driver.Kind(), "get")
		return nil, err
	}
	s.container = loaded

	if err := s.flushDriver(ctx); err != nil {
		return nil, err
	}

	key, _ := driver.Key()
	m.logger.DebugContext(ctx, "share booted",
		logger.Driver(driver.Kind().String()),
		logger.StorageKey(key),
		logger.Keys(loaded.Keys()),
	)
	return s, nil
}

func (m *Manager) newDriver(kind DriverKind) (Driver, error) {
	switch kind {
	case DriverSession:
		if m.sessionStore == nil {
			return nil, fmt.Errorf("%w: session driver", ErrNoStore)
		}
		return NewSessionDriver(m.sessionStore, m.cfg.PrefixKey), nil
	case DriverCache:
		if m.cacheStore == nil {
			return nil, fmt.Errorf("%w: cache driver", ErrNoStore)
		}
		return NewCacheDriver(m.cacheStore, m.cfg.PrefixKey, m.cfg.CacheTTL), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrDriverNotSupported, kind)
	}
}

// defaultIdentity binds the session driver to the session id and the cache
// driver to the authenticated user, falling back to the session id for
// guests. The session id survives token rotation on sign-in.
func defaultIdentity(kind DriverKind) IdentityFunc {
	return func(ctx context.Context, _ *http.Request) (string, bool) {
		if kind == DriverCache {
			if id, ok := session.UserIDFromContext(ctx); ok {
				return id, true
			}
		}
		return session.IDFromContext(ctx)
	}
}

func buildPersistentKeys(cfg Config, extra []persistentKey) []persistentKey {
	var out []persistentKey
	seen := make(map[string]int)
	add := func(pk persistentKey) {
		if pk.key == "" {
			return
		}
		if i, ok := seen[pk.key]; ok {
			out[i] = pk
			return
		}
		seen[pk.key] = len(out)
		out = append(out, pk)
	}

	for _, key := range cfg.PersistentKeys {
		add(persistentKey{key: key})
	}
	for _, key := range slices.Sorted(maps.Keys(cfg.PersistentKeyDefaults)) {
		add(persistentKey{key: key, value: cfg.PersistentKeyDefaults[key]})
	}
	for _, pk := range extra {
		add(pk)
	}
	return out
}
