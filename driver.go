package hybridshare

import (
	"context"
	"encoding/json"
	"fmt"
)

// DriverKind selects the backend that persists a container between requests.
type DriverKind string

const (
	// DriverSession scopes state to the client session.
	DriverSession DriverKind = "session"
	// DriverCache scopes state to an identity, usually the authenticated user.
	DriverCache DriverKind = "cache"
)

// ParseDriverKind validates a driver name. Only the exact names "session"
// and "cache" are accepted.
func ParseDriverKind(name string) (DriverKind, error) {
	switch kind := DriverKind(name); kind {
	case DriverSession, DriverCache:
		return kind, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrDriverNotSupported, name)
	}
}

func (k DriverKind) String() string {
	return string(k)
}

// Driver persists one container per identity.
type Driver interface {
	// Kind reports which backend the driver uses.
	Kind() DriverKind
	// Get loads the stored container. Nothing stored yields an empty container.
	Get(ctx context.Context) (*Container, error)
	// Put overwrites the stored container.
	Put(ctx context.Context, c *Container) error
	// Flush removes the stored container. Flushing twice is a no-op.
	Flush(ctx context.Context) error
	// SetPrimaryKey binds the identity used to derive the storage key.
	SetPrimaryKey(id string)
	// Key returns prefix + "_" + identity, or ErrPrimaryKeyNotFound when no
	// identity is bound.
	Key() (string, error)
}

// keyring derives storage keys from a prefix and the bound identity.
type keyring struct {
	prefix string
	id     string
}

func (k *keyring) SetPrimaryKey(id string) {
	k.id = id
}

func (k *keyring) Key() (string, error) {
	if k.id == "" {
		return "", ErrPrimaryKeyNotFound
	}
	return k.prefix + "_" + k.id, nil
}

func decodeState(raw []byte) (*Container, error) {
	c := NewContainer()
	if len(raw) == 0 {
		return c, nil
	}
	if err := json.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("hybridshare: decode stored container: %w", err)
	}
	return c, nil
}

func encodeState(c *Container) ([]byte, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("hybridshare: encode container: %w", err)
	}
	return raw, nil
}
