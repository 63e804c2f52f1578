package merge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/hybridshare/pkg/merge"
)

func TestRecursive(t *testing.T) {
	t.Run("lists are concatenated", func(t *testing.T) {
		got := merge.Recursive([]any{"a", "b"}, []any{"c"})
		assert.Equal(t, []any{"a", "b", "c"}, got)
	})

	t.Run("nil destination behaves like empty list", func(t *testing.T) {
		got := merge.Recursive(nil, []any{"x"})
		assert.Equal(t, []any{"x"}, got)
	})

	t.Run("scalar destination is wrapped", func(t *testing.T) {
		got := merge.Recursive("first", []any{"second"})
		assert.Equal(t, []any{"first", "second"}, got)
	})

	t.Run("maps merge shared keys recursively", func(t *testing.T) {
		dst := map[string]any{
			"errors": map[string]any{"name": "required"},
			"title":  "old",
		}
		src := map[string]any{
			"errors": map[string]any{"email": "invalid"},
			"title":  "new",
			"extra":  true,
		}

		got := merge.Recursive(dst, src)
		assert.Equal(t, map[string]any{
			"errors": map[string]any{"name": "required", "email": "invalid"},
			"title":  []any{"old", "new"},
			"extra":  true,
		}, got)
	})

	t.Run("list items go under next numeric key of a map", func(t *testing.T) {
		dst := map[string]any{"0": "a", "name": "x"}
		got := merge.Recursive(dst, []any{"b", "c"})
		assert.Equal(t, map[string]any{"0": "a", "1": "b", "2": "c", "name": "x"}, got)
	})

	t.Run("list promoted when merged with a map", func(t *testing.T) {
		got := merge.Recursive([]any{"a"}, map[string]any{"k": "v"})
		assert.Equal(t, map[string]any{"0": "a", "k": "v"}, got)
	})

	t.Run("typed slices and maps are treated as loose values", func(t *testing.T) {
		got := merge.Recursive([]string{"a"}, []int{1})
		assert.Equal(t, []any{"a", 1}, got)

		got = merge.Recursive(map[string]string{"k": "v"}, map[string]int{"n": 1})
		assert.Equal(t, map[string]any{"k": "v", "n": 1}, got)
	})

	t.Run("inputs are not mutated", func(t *testing.T) {
		dst := map[string]any{"k": "v"}
		_ = merge.Recursive(dst, map[string]any{"other": 1})
		assert.Equal(t, map[string]any{"k": "v"}, dst)
	})
}

func TestAppend(t *testing.T) {
	t.Run("appending lists nests them", func(t *testing.T) {
		var v any
		v = merge.Append(v, []any{1, 2})
		v = merge.Append(v, []any{3})
		assert.Equal(t, []any{[]any{1, 2}, []any{3}}, v)
	})

	t.Run("appending scalars accumulates a flat list", func(t *testing.T) {
		var v any
		v = merge.Append(v, "one")
		v = merge.Append(v, "two")
		assert.Equal(t, []any{"one", "two"}, v)
	})
}
