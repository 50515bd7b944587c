package coerce

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// FormatScalar renders v as the text form of base type b. Strings are
// wrapped in double quotes and objects are rendered as compact JSON.
func FormatScalar(v any, b BaseType) (string, error) {
	switch b {
	case Integer:
		n, ok := toInt64(v)
		if !ok {
			return "", mismatch(v, b)
		}
		return strconv.FormatInt(n, 10), nil
	case Float:
		f, ok := toFloat64(v)
		if !ok {
			return "", mismatch(v, b)
		}
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	case Boolean:
		bv, ok := v.(bool)
		if !ok {
			return "", mismatch(v, b)
		}
		return strconv.FormatBool(bv), nil
	case String:
		s, ok := v.(string)
		if !ok {
			return "", mismatch(v, b)
		}
		return `"` + s + `"`, nil
	case Object:
		data, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidObject, err)
		}
		return string(data), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidType, b)
}

// FormatArray renders a slice (depth 1) or a slice of slices (depth 2).
// Elements are joined with "," and rows with ";".
func FormatArray(v any, b BaseType, depth int) (string, error) {
	if depth < 1 || depth > MaxDepth {
		return "", fmt.Errorf("%w: array depth %d", ErrInvalidType, depth)
	}
	items, ok := sliceOf(v)
	if !ok {
		return "", mismatch(v, Type{Base: b, Depth: depth})
	}

	sep := string(rune(elemSep))
	if depth == 2 {
		sep = string(rune(rowSep))
	}
	parts := make([]string, len(items))
	for i, item := range items {
		var (
			s   string
			err error
		)
		if depth == 2 {
			s, err = FormatArray(item, b, 1)
		} else {
			s, err = FormatScalar(item, b)
		}
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return strings.Join(parts, sep), nil
}

// Format renders v according to t.
func Format(v any, t Type) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	if t.Depth == 0 {
		return FormatScalar(v, t.Base)
	}
	return FormatArray(v, t.Base, t.Depth)
}

func sliceOf(v any) ([]any, bool) {
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), n == float64(int64(n))
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	}
	return 0, false
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func mismatch(v any, t fmt.Stringer) error {
	return fmt.Errorf("%w: %T is not %s", ErrTypeMismatch, v, t)
}

func (b BaseType) String() string { return string(b) }
