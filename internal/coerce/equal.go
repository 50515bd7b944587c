package coerce

import (
	"fmt"
	"reflect"
)

// Equal reports whether two parsed values are structurally equal. Arrays are
// compared element by element in order and an empty array equals a nil one.
func Equal(a, b any) bool {
	as, aIsSlice := a.([]any)
	bs, bIsSlice := b.([]any)
	if aIsSlice || bIsSlice {
		if !aIsSlice && a != nil || !bIsSlice && b != nil {
			return false
		}
		if len(as) != len(bs) {
			return false
		}
		for i := range as {
			if !Equal(as[i], bs[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

// Match parses the expected text and the captured output with t and compares
// them structurally. A parse failure on either side is returned as an error.
func Match(expected, actual string, t Type) (bool, error) {
	want, err := Parse(expected, t)
	if err != nil {
		return false, fmt.Errorf("expected output: %w", err)
	}
	got, err := ParseOutput(actual, t)
	if err != nil {
		return false, fmt.Errorf("actual output: %w", err)
	}
	return Equal(want, got), nil
}
