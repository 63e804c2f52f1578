package hybridshare

import (
	"bytes"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Container is an ordered key/value buffer. Keys keep the position of their
// first insertion; overwriting a key does not move it.
//
// A Container is not safe for concurrent use.
type Container struct {
	values *orderedmap.OrderedMap[string, any]
}

// NewContainer returns an empty container.
func NewContainer() *Container {
	return &Container{values: orderedmap.New[string, any]()}
}

func (c *Container) m() *orderedmap.OrderedMap[string, any] {
	if c.values == nil {
		c.values = orderedmap.New[string, any]()
	}
	return c.values
}

// Len returns the number of keys.
func (c *Container) Len() int {
	return c.m().Len()
}

// Keys returns the keys in insertion order.
func (c *Container) Keys() []string {
	keys := make([]string, 0, c.Len())
	for pair := c.m().Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Get returns the value stored under key.
func (c *Container) Get(key string) (any, bool) {
	return c.m().Get(key)
}

// Has reports whether key is present.
func (c *Container) Has(key string) bool {
	_, ok := c.m().Get(key)
	return ok
}

// Put stores value under key.
func (c *Container) Put(key string, value any) {
	c.m().Set(key, value)
}

// Forget removes keys. Missing keys are ignored.
func (c *Container) Forget(keys ...string) {
	for _, key := range keys {
		c.m().Delete(key)
	}
}

// Reset empties the container.
func (c *Container) Reset() {
	c.values = orderedmap.New[string, any]()
}

// Clone returns a shallow copy.
func (c *Container) Clone() *Container {
	out := NewContainer()
	for pair := c.m().Oldest(); pair != nil; pair = pair.Next() {
		out.values.Set(pair.Key, pair.Value)
	}
	return out
}

// All returns a shallow copy of the values as a plain map.
func (c *Container) All() map[string]any {
	out := make(map[string]any, c.Len())
	for pair := c.m().Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = pair.Value
	}
	return out
}

// transform replaces every value with fn(value), stopping at the first error.
func (c *Container) transform(fn func(any) (any, error)) error {
	for pair := c.m().Oldest(); pair != nil; pair = pair.Next() {
		v, err := fn(pair.Value)
		if err != nil {
			return fmt.Errorf("key %q: %w", pair.Key, err)
		}
		pair.Value = v
	}
	return nil
}

// MarshalJSON encodes the container as a JSON object in insertion order.
func (c *Container) MarshalJSON() ([]byte, error) {
	return c.m().MarshalJSON()
}

// UnmarshalJSON replaces the content with a JSON object, keeping key order.
// A JSON null yields an empty container.
func (c *Container) UnmarshalJSON(data []byte) error {
	c.Reset()
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("hybridshare: container must be a JSON object, got %.20q", trimmed)
	}
	return c.values.UnmarshalJSON(trimmed)
}
