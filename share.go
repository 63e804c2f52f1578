package hybridshare

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/hybridshare/pkg/logger"
	"github.com/dmitrymomot/hybridshare/pkg/merge"
)

// State is the lifecycle stage of a Share.
type State int

const (
	// StateBooted means prior state was loaded and nothing was staged since.
	StateBooted State = iota
	// StateAccumulating means values were staged during this request.
	StateAccumulating
	// StateSyncing is held while values are handed to the renderer.
	StateSyncing
)

func (s State) String() string {
	switch s {
	case StateBooted:
		return "booted"
	case StateAccumulating:
		return "accumulating"
	case StateSyncing:
		return "syncing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Renderer receives synced values. *view.Props implements it.
type Renderer interface {
	Share(key string, value any)
	Shared(key string) (any, bool)
}

// Principal is an authenticated entity the cache driver can bind to.
type Principal interface {
	PrimaryKey() string
}

// Identity is a Principal backed by a plain id.
type Identity string

func (i Identity) PrimaryKey() string {
	return string(i)
}

// Share stages values during one request. Each mutation is written through
// to the driver, so staged values survive a redirect even when the request
// never renders.
//
// A Share belongs to a single request and is not safe for concurrent use.
type Share struct {
	m         *Manager
	request   *http.Request
	driver    Driver
	container *Container
	state     State
}

// State returns the lifecycle stage.
func (s *Share) State() State {
	return s.state
}

// Share stages value under key, replacing any previous value.
func (s *Share) Share(ctx context.Context, key string, value any) error {
	return s.put(ctx, "share", key, value, false)
}

// Append merges value into the list staged under key. Lists are merged
// recursively, so appending two lists yields a list of both lists.
func (s *Share) Append(ctx context.Context, key string, value any) error {
	return s.put(ctx, "append", key, value, true)
}

// ShareIf calls Share when cond is true.
func (s *Share) ShareIf(ctx context.Context, cond bool, key string, value any) error {
	if !cond {
		return nil
	}
	return s.Share(ctx, key, value)
}

// ShareUnless calls Share when cond is false.
func (s *Share) ShareUnless(ctx context.Context, cond bool, key string, value any) error {
	return s.ShareIf(ctx, !cond, key, value)
}

// AppendIf calls Append when cond is true.
func (s *Share) AppendIf(ctx context.Context, cond bool, key string, value any) error {
	if !cond {
		return nil
	}
	return s.Append(ctx, key, value)
}

// AppendUnless calls Append when cond is false.
func (s *Share) AppendUnless(ctx context.Context, cond bool, key string, value any) error {
	return s.AppendIf(ctx, !cond, key, value)
}

// Forget removes keys and persists the reduced container.
func (s *Share) Forget(ctx context.Context, keys ...string) error {
	s.container.Forget(keys...)
	s.state = StateAccumulating
	s.m.metrics.operation("forget")
	return s.persist(ctx)
}

// Flush empties the container and removes the stored copy.
func (s *Share) Flush(ctx context.Context) error {
	s.container.Reset()
	s.state = StateBooted
	s.m.metrics.operation("flush")
	return s.flushDriver(ctx)
}

// Sync hands every staged value to r, preceded by the persistent keys with
// their defaults. A default never replaces a value r already holds; staged
// values always do. With flush set, and flushing enabled in the config, the
// driver and the container are emptied afterwards. Ignored requests are left
// untouched.
func (s *Share) Sync(ctx context.Context, r Renderer, flush bool) error {
	if s.ShouldIgnore(s.request) {
		s.m.metrics.sync("ignored")
		s.m.logger.DebugContext(ctx, "share sync skipped", logger.Path(s.path()))
		return nil
	}

	s.state = StateSyncing
	if err := s.container.transform(s.m.codec.Decode); err != nil {
		s.state = StateAccumulating
		s.m.metrics.sync("error")
		return err
	}

	for _, pk := range s.m.persistent {
		if _, ok := r.Shared(pk.key); !ok {
			r.Share(pk.key, pk.value)
		}
	}
	keys := s.container.Keys()
	for _, key := range keys {
		v, _ := s.container.Get(key)
		r.Share(key, v)
	}

	s.state = StateAccumulating
	if flush && s.m.cfg.Flush {
		if err := s.flushDriver(ctx); err != nil {
			s.m.metrics.sync("error")
			return err
		}
		s.container.Reset()
		s.state = StateBooted
	}

	s.m.metrics.sync("ok")
	s.m.logger.DebugContext(ctx, "share synced", logger.Keys(keys), logger.Path(s.path()))
	return nil
}

// Shared returns a snapshot of the staged values without decoding them. It
// is empty for ignored requests and flushes like Sync.
func (s *Share) Shared(ctx context.Context, flush bool) (map[string]any, error) {
	if s.ShouldIgnore(s.request) {
		return map[string]any{}, nil
	}

	snapshot := s.container.All()
	if flush && s.m.cfg.Flush {
		if err := s.flushDriver(ctx); err != nil {
			return nil, err
		}
		s.container.Reset()
		s.state = StateBooted
	}
	return snapshot, nil
}

// ShouldIgnore reports whether r, or the request the share was built for
// when r is nil, matches the ignore list.
func (s *Share) ShouldIgnore(r *http.Request) bool {
	if r == nil {
		r = s.request
	}
	return s.m.ShouldIgnore(r)
}

// ForUser rebinds the cache driver to p. Later writes go to p's key. With the
// session driver it fails with ErrPrimaryKeyNotFound.
func (s *Share) ForUser(p Principal) error {
	if s.driver == nil || s.driver.Kind() != DriverCache {
		return fmt.Errorf("%w: ForUser requires the cache driver", ErrPrimaryKeyNotFound)
	}
	id := p.PrimaryKey()
	if id == "" {
		return ErrPrimaryKeyNotFound
	}
	s.driver.SetPrimaryKey(id)
	return nil
}

// Driver returns the resolved driver.
func (s *Share) Driver() Driver {
	return s.driver
}

func (s *Share) put(ctx context.Context, op, key string, value any, appendMode bool) error {
	encoded, err := s.m.codec.Encode(value)
	if err != nil {
		return err
	}
	if appendMode {
		current, _ := s.container.Get(key)
		encoded = merge.Append(current, encoded)
	}
	// Reject before staging: a value that cannot be marshalled would break
	// every later write of this container.
	if _, err := json.Marshal(encoded); err != nil {
		return fmt.Errorf("%w: cannot persist %q: %w", ErrUnsupportedRuntime, key, err)
	}

	s.container.Put(key, encoded)
	s.state = StateAccumulating
	s.m.metrics.operation(op)
	return s.persist(ctx)
}

// persist writes the whole container through to the driver.
func (s *Share) persist(ctx context.Context) error {
	driver, err := s.getDriver(ctx)
	if err != nil {
		return err
	}
	if err := s.container.transform(s.m.codec.Encode); err != nil {
		return err
	}
	if err := driver.Put(ctx, s.container); err != nil {
		s.m.metrics.driverError(driver.Kind(), "put")
		s.m.logger.ErrorContext(ctx, "share persist failed",
			logger.Driver(driver.Kind().String()),
			logger.Error(err),
		)
		return err
	}
	return nil
}

func (s *Share) flushDriver(ctx context.Context) error {
	driver, err := s.getDriver(ctx)
	if err != nil {
		return err
	}
	if err := driver.Flush(ctx); err != nil {
		s.m.metrics.driverError(driver.Kind(), "flush")
		return err
	}
	return nil
}

// getDriver resolves the configured driver once and binds the request
// identity to it.
func (s *Share) getDriver(ctx context.Context) (Driver, error) {
	if s.driver != nil {
		return s.driver, nil
	}

	kind, err := ParseDriverKind(string(s.m.cfg.Driver))
	if err != nil {
		return nil, err
	}
	driver, err := s.m.newDriver(kind)
	if err != nil {
		return nil, err
	}

	identify := s.m.identity
	if identify == nil {
		identify = defaultIdentity(kind)
	}
	id, ok := identify(ctx, s.request)
	if !ok || id == "" {
		return nil, fmt.Errorf("%w: no identity for the %s driver", ErrPrimaryKeyNotFound, kind)
	}
	driver.SetPrimaryKey(id)

	s.driver = driver
	return driver, nil
}

func (s *Share) path() string {
	if s.request == nil || s.request.URL == nil {
		return ""
	}
	return s.request.URL.Path
}
