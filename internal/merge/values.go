package merge

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/MKhiriev/go-sync-keeper/models"
)

// isEmpty reports whether v carries no data: nil, "", or an empty
// collection. Zero numbers and false are data.
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// asMap returns v as a string-keyed map when it is one.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case models.Payload:
		return m, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// asSlice returns v as a generic sequence when it is one. Byte slices are
// treated as scalars.
func asSlice(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	if _, ok := v.([]byte); ok {
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// identity returns a canonical key for v so that values decoded from JSON
// and values built in Go compare the same way (e.g. 2 and 2.0).
func identity(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%#v", v)
	}
	return string(b)
}

// equal reports whether two payload values hold the same data.
func equal(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	return identity(a) == identity(b)
}

// shallowMerge returns a new map holding base overlaid with top.
func shallowMerge(base, top map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(top))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range top {
		out[k] = v
	}
	return out
}

// union returns the ordered de-duplicated concatenation of base and top.
func union(base, top []any) []any {
	seen := make(map[string]struct{}, len(base)+len(top))
	out := make([]any, 0, len(base)+len(top))
	for _, list := range [][]any{base, top} {
		for _, v := range list {
			key := identity(v)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}
