package view

import (
	"context"
	"maps"
	"slices"

	"github.com/dmitrymomot/hybridshare/pkg/merge"
)

// Hook runs right before a page is rendered.
type Hook func(ctx context.Context, p *Props) error

// Resolvable is a prop value computed on demand at render time.
type Resolvable interface {
	Resolve(ctx context.Context) (any, error)
}

// Props holds the values shared with every page rendered during one request.
// It is not safe for concurrent use; a request owns its Props.
type Props struct {
	keys   []string
	values map[string]any
	hooks  []Hook
	ran    bool
}

// NewProps returns an empty props bag.
func NewProps() *Props {
	return &Props{values: make(map[string]any)}
}

// Share sets key to value, replacing any previous value.
func (p *Props) Share(key string, value any) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Shared returns the value shared under key.
func (p *Props) Shared(key string) (any, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Append merges value into whatever is shared under key as one more list
// entry. A lazy current value is resolved first so the merge sees real data.
func (p *Props) Append(ctx context.Context, key string, value any) error {
	current, ok := p.values[key]
	if ok {
		if r, lazy := current.(Resolvable); lazy {
			resolved, err := r.Resolve(ctx)
			if err != nil {
				return err
			}
			current = resolved
		}
	}
	p.Share(key, merge.Append(current, value))
	return nil
}

// Forget removes keys from the shared props.
func (p *Props) Forget(keys ...string) {
	for _, key := range keys {
		if _, ok := p.values[key]; !ok {
			continue
		}
		delete(p.values, key)
		p.keys = slices.DeleteFunc(p.keys, func(k string) bool { return k == key })
	}
}

// Keys returns shared keys in the order they were first shared.
func (p *Props) Keys() []string {
	return slices.Clone(p.keys)
}

// All returns a shallow copy of the shared props.
func (p *Props) All() map[string]any {
	return maps.Clone(p.values)
}

// OnRender registers a hook executed before the first page render.
func (p *Props) OnRender(h Hook) {
	if h != nil {
		p.hooks = append(p.hooks, h)
	}
}

// RunHooks executes registered hooks once. Later calls are no-ops, even when
// the first run failed.
func (p *Props) RunHooks(ctx context.Context) error {
	if p.ran {
		return nil
	}
	p.ran = true
	for _, h := range p.hooks {
		if err := h(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Resolve walks v and replaces every Resolvable with its resolved value.
func Resolve(ctx context.Context, v any) (any, error) {
	switch t := v.(type) {
	case Resolvable:
		resolved, err := t.Resolve(ctx)
		if err != nil {
			return nil, err
		}
		return Resolve(ctx, resolved)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			r, err := Resolve(ctx, item)
			if err != nil {
				return nil, err
			}
			out[k] = r
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			r, err := Resolve(ctx, item)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	default:
		return v, nil
	}
}
