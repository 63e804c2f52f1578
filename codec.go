package hybridshare

import (
	"context"
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
)

// deferredTag is the JSON object key marking a deferred value.
const deferredTag = "$deferred"

// Resolver computes the value of a deferred computation from its arguments.
type Resolver func(ctx context.Context, args json.RawMessage) (any, error)

// Deferred is the portable form of a computation: the name of a resolver
// registered on a Codec plus its JSON encoded arguments.
type Deferred struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args,omitempty"`
}

// NewDeferred builds a Deferred for the named resolver, encoding args as JSON.
// A nil args value produces a deferred without arguments.
func NewDeferred(name string, args any) (Deferred, error) {
	d := Deferred{Name: name}
	if args == nil {
		return d, nil
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return Deferred{}, fmt.Errorf("%w: encode args of %q: %w", ErrUnsupportedRuntime, name, err)
	}
	d.Args = raw
	return d, nil
}

type plainDeferred Deferred

// MarshalJSON wraps the deferred under the "$deferred" tag.
func (d Deferred) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]plainDeferred{deferredTag: plainDeferred(d)})
}

// Lazy is the decoded, invokable form of a Deferred.
type Lazy struct {
	deferred Deferred
	resolve  Resolver
}

// Deferred returns the portable form the value was decoded from.
func (l *Lazy) Deferred() Deferred {
	return l.deferred
}

// Resolve runs the resolver with the stored arguments.
func (l *Lazy) Resolve(ctx context.Context) (any, error) {
	return l.resolve(ctx, l.deferred.Args)
}

// MarshalJSON encodes the lazy value back to its deferred form.
func (l *Lazy) MarshalJSON() ([]byte, error) {
	return l.deferred.MarshalJSON()
}

// Codec converts values between their in-memory form and the plain form a
// driver can persist. Deferred computations are kept as named resolver
// references since Go funcs cannot be serialized.
//
// A Codec is safe for concurrent use.
type Codec struct {
	mu        sync.RWMutex
	resolvers map[string]Resolver
}

// NewCodec returns a codec without resolvers.
func NewCodec() *Codec {
	return &Codec{resolvers: make(map[string]Resolver)}
}

// Register binds name to resolver, replacing any previous binding.
func (c *Codec) Register(name string, resolver Resolver) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resolvers[name] = resolver
}

// Defer builds a Deferred for a registered resolver.
func (c *Codec) Defer(name string, args any) (Deferred, error) {
	if _, ok := c.resolver(name); !ok {
		return Deferred{}, fmt.Errorf("%w: no resolver registered for %q", ErrUnsupportedRuntime, name)
	}
	return NewDeferred(name, args)
}

func (c *Codec) resolver(name string) (Resolver, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.resolvers[name]
	return r, ok
}

// Encode returns the portable form of v. Lazy values turn back into their
// Deferred, lists and maps are walked recursively and plain data passes
// through unchanged. Funcs, channels and deferred values whose resolver is
// unknown fail with ErrUnsupportedRuntime, also when nested inside typed
// slices, maps or structs.
func (c *Codec) Encode(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case Deferred:
		if _, ok := c.resolver(t.Name); !ok {
			return nil, fmt.Errorf("%w: no resolver registered for %q", ErrUnsupportedRuntime, t.Name)
		}
		return t, nil
	case *Deferred:
		if t == nil {
			return nil, nil
		}
		return c.Encode(*t)
	case *Lazy:
		return t.deferred, nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			enc, err := c.Encode(item)
			if err != nil {
				return nil, err
			}
			out[k] = enc
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			enc, err := c.Encode(item)
			if err != nil {
				return nil, err
			}
			out[i] = enc
		}
		return out, nil
	}

	if err := c.checkPortable(reflect.ValueOf(v), make(map[uintptr]bool)); err != nil {
		return nil, fmt.Errorf("%w: cannot encode %T: %w", ErrUnsupportedRuntime, v, err)
	}
	return v, nil
}

var (
	jsonMarshaler = reflect.TypeFor[json.Marshaler]()
	textMarshaler = reflect.TypeFor[encoding.TextMarshaler]()
	deferredType  = reflect.TypeFor[Deferred]()
)

// checkPortable walks typed values the way encoding/json would and rejects
// funcs, channels and other kinds that have no portable form. Deferred values
// found along the way must name a registered resolver.
func (c *Codec) checkPortable(v reflect.Value, seen map[uintptr]bool) error {
	if !v.IsValid() {
		return nil
	}
	if v.Type() == deferredType {
		name := v.FieldByName("Name").String()
		if _, ok := c.resolver(name); !ok {
			return fmt.Errorf("no resolver registered for %q", name)
		}
		return nil
	}
	if v.Type().Implements(jsonMarshaler) || v.Type().Implements(textMarshaler) {
		return nil
	}

	switch v.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Complex64, reflect.Complex128:
		return fmt.Errorf("%s has no portable form, register a resolver and share a Deferred", v.Type())
	case reflect.Pointer:
		if v.IsNil() || seen[v.Pointer()] {
			return nil
		}
		seen[v.Pointer()] = true
		return c.checkPortable(v.Elem(), seen)
	case reflect.Interface:
		return c.checkPortable(v.Elem(), seen)
	case reflect.Slice, reflect.Array:
		for i := range v.Len() {
			if err := c.checkPortable(v.Index(i), seen); err != nil {
				return err
			}
		}
	case reflect.Map:
		if !portableKey(v.Type().Key()) {
			return fmt.Errorf("%s keys have no portable form", v.Type().Key())
		}
		iter := v.MapRange()
		for iter.Next() {
			if err := c.checkPortable(iter.Value(), seen); err != nil {
				return err
			}
		}
	case reflect.Struct:
		t := v.Type()
		for i := range t.NumField() {
			f := t.Field(i)
			embedded := f.Anonymous && f.Type.Kind() == reflect.Struct
			if (!f.IsExported() && !embedded) || f.Tag.Get("json") == "-" {
				continue
			}
			if err := c.checkPortable(v.Field(i), seen); err != nil {
				return fmt.Errorf("field %s: %w", f.Name, err)
			}
		}
	}
	return nil
}

func portableKey(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return t.Implements(textMarshaler)
}

// Decode is the inverse of Encode: deferred values, either as Deferred or in
// their JSON object form, become *Lazy. Decoding plain data or an already
// decoded value is a no-op.
func (c *Codec) Decode(v any) (any, error) {
	switch t := v.(type) {
	case *Lazy:
		return t, nil
	case Deferred:
		return c.lazy(t)
	case *Deferred:
		if t == nil {
			return nil, nil
		}
		return c.lazy(*t)
	case map[string]any:
		if d, ok, err := deferredFromMap(t); ok || err != nil {
			if err != nil {
				return nil, err
			}
			return c.lazy(d)
		}
		out := make(map[string]any, len(t))
		for k, item := range t {
			dec, err := c.Decode(item)
			if err != nil {
				return nil, err
			}
			out[k] = dec
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			dec, err := c.Decode(item)
			if err != nil {
				return nil, err
			}
			out[i] = dec
		}
		return out, nil
	default:
		return v, nil
	}
}

func (c *Codec) lazy(d Deferred) (*Lazy, error) {
	r, ok := c.resolver(d.Name)
	if !ok {
		return nil, fmt.Errorf("%w: no resolver registered for %q", ErrUnsupportedRuntime, d.Name)
	}
	return &Lazy{deferred: d, resolve: r}, nil
}

// deferredFromMap recognizes {"$deferred": {"name": ..., "args": ...}}.
func deferredFromMap(m map[string]any) (Deferred, bool, error) {
	if len(m) != 1 {
		return Deferred{}, false, nil
	}
	inner, ok := m[deferredTag].(map[string]any)
	if !ok {
		return Deferred{}, false, nil
	}
	if _, ok := inner["name"].(string); !ok {
		return Deferred{}, false, nil
	}

	raw, err := json.Marshal(inner)
	if err != nil {
		return Deferred{}, true, err
	}
	var d plainDeferred
	if err := json.Unmarshal(raw, &d); err != nil {
		return Deferred{}, true, err
	}
	return Deferred(d), true, nil
}
