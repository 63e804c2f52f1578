// Package merge implements recursive merging of loosely typed values as they
// appear after JSON decoding: lists ([]any), maps (map[string]any) and scalars.
//
// The rules follow the classic "merge recursive" array semantics used by many
// server-side view layers:
//
//   - list + list: the second list is appended to the first.
//   - map + map: keys missing from the first map are copied; keys present in
//     both are merged recursively, scalars on either side being wrapped into a
//     single element list first, so two scalars under the same key become a
//     two element list.
//   - map + list: list items are added under the next free numeric key.
//   - list + map: the list is promoted to a map keyed by index, then merged.
//   - nil destination behaves like an empty list; a scalar destination is
//     wrapped into a single element list.
//   - typed slices and maps with string keys count as lists and maps.
//
// Inputs are never mutated.
package merge

import (
	"maps"
	"reflect"
	"slices"
	"strconv"
)

// Recursive merges src into dst and returns the result.
func Recursive(dst, src any) any {
	switch d := wrap(dst).(type) {
	case []any:
		switch s := wrap(src).(type) {
		case []any:
			return append(slices.Clone(d), s...)
		case map[string]any:
			return mergeMaps(listToMap(d), s)
		}
	case map[string]any:
		switch s := wrap(src).(type) {
		case []any:
			return appendNumeric(maps.Clone(d), s)
		case map[string]any:
			return mergeMaps(d, s)
		}
	}
	return dst
}

// Append merges a single value the way an "append to key" operation does:
// Recursive(dst, []any{value}).
func Append(dst, value any) any {
	return Recursive(dst, []any{value})
}

func mergeMaps(a, b map[string]any) map[string]any {
	out := maps.Clone(a)
	if out == nil {
		out = make(map[string]any, len(b))
	}
	// Sorted iteration keeps numeric key allocation deterministic.
	for _, k := range slices.Sorted(maps.Keys(b)) {
		v := b[k]
		if _, numeric := strconv.Atoi(k); numeric == nil {
			out = appendNumeric(out, []any{v})
			continue
		}
		existing, ok := out[k]
		if !ok {
			out[k] = v
			continue
		}
		out[k] = Recursive(existing, v)
	}
	return out
}

func appendNumeric(m map[string]any, items []any) map[string]any {
	next := 0
	for k := range m {
		if i, err := strconv.Atoi(k); err == nil && i >= next {
			next = i + 1
		}
	}
	for _, item := range items {
		m[strconv.Itoa(next)] = item
		next++
	}
	return m
}

func listToMap(l []any) map[string]any {
	m := make(map[string]any, len(l))
	for i, v := range l {
		m[strconv.Itoa(i)] = v
	}
	return m
}

// wrap turns nil into an empty list and scalars into a single element list.
// Typed slices and string keyed maps are converted to their loose form.
func wrap(v any) any {
	switch t := v.(type) {
	case nil:
		return []any{}
	case []any, map[string]any:
		return t
	case []byte:
		return []any{t}
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
		return out
	}
	return []any{v}
}
