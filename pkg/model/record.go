package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Record is one row of a dataset: a decoded JSON object or a database row
// keyed by column name.
type Record map[string]any

// Field returns the value at key. Dotted keys walk nested objects, so
// "owner.name" reads r["owner"]["name"]. An exact key match wins over a
// nested lookup.
func (r Record) Field(key string) (any, bool) {
	if r == nil || key == "" {
		return nil, false
	}
	if v, ok := r[key]; ok {
		return v, v != nil
	}
	head, rest, found := strings.Cut(key, ".")
	if !found {
		return nil, false
	}
	switch next := r[head].(type) {
	case map[string]any:
		return Record(next).Field(rest)
	case Record:
		return next.Field(rest)
	}
	return nil, false
}

// String returns the value at key formatted as text, or "" when missing.
func (r Record) String(key string) string {
	v, ok := r.Field(key)
	if !ok {
		return ""
	}
	return Stringify(v)
}

// Float returns the value at key as a number.
func (r Record) Float(key string) (float64, bool) {
	v, ok := r.Field(key)
	if !ok {
		return 0, false
	}
	return ToFloat(v)
}

// Records is a dataset.
type Records []Record

// Keys returns the union of top-level keys, sorted.
func (rs Records) Keys() []string {
	seen := make(map[string]struct{})
	for _, r := range rs {
		for k := range r {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Stringify formats a field value for display.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case json.Number:
		return x.String()
	case fmt.Stringer:
		return x.String()
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = Stringify(e)
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	default:
		return fmt.Sprint(x)
	}
}

// ToFloat converts numeric values (and numeric strings) to float64.
func ToFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	case []byte:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(x)), 64)
		return f, err == nil
	}
	return 0, false
}
