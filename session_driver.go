package hybridshare

import "context"

// SessionStore keeps raw values per client session. *session.Manager
// implements it.
type SessionStore interface {
	Get(ctx context.Context, sessionID, key string) ([]byte, error)
	Put(ctx context.Context, sessionID, key string, value []byte) error
	Forget(ctx context.Context, sessionID, key string) error
}

// SessionDriver stores the container inside the client session. The bound
// identity is the session id. No TTL is applied; the session lifetime rules.
type SessionDriver struct {
	keyring
	store SessionStore
}

// NewSessionDriver returns a session driver writing keys with prefix.
func NewSessionDriver(store SessionStore, prefix string) *SessionDriver {
	return &SessionDriver{keyring: keyring{prefix: prefix}, store: store}
}

func (d *SessionDriver) Kind() DriverKind {
	return DriverSession
}

func (d *SessionDriver) Get(ctx context.Context) (*Container, error) {
	key, err := d.Key()
	if err != nil {
		return nil, err
	}
	raw, err := d.store.Get(ctx, d.id, key)
	if err != nil {
		return nil, err
	}
	return decodeState(raw)
}

func (d *SessionDriver) Put(ctx context.Context, c *Container) error {
	key, err := d.Key()
	if err != nil {
		return err
	}
	raw, err := encodeState(c)
	if err != nil {
		return err
	}
	return d.store.Put(ctx, d.id, key, raw)
}

func (d *SessionDriver) Flush(ctx context.Context) error {
	key, err := d.Key()
	if err != nil {
		return err
	}
	return d.store.Forget(ctx, d.id, key)
}
