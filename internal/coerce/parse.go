package coerce

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	elemSep = ','
	rowSep  = ';'
)

// ParseScalar parses text as a single value of base type b.
//
// Numbers are lenient: text that is not a number becomes 0. Only objects
// report malformed input as an error.
func ParseScalar(text string, b BaseType) (any, error) {
	switch b {
	case Integer:
		return parseInteger(text), nil
	case Float:
		return parseFloat(text), nil
	case Boolean:
		return strings.EqualFold(strings.TrimSpace(text), "true"), nil
	case String:
		return unquote(strings.TrimSpace(text)), nil
	case Object:
		return parseObject(text)
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidType, b)
}

// ParseArray parses one (depth 1, "a,b,c") or two (depth 2, "a,b;c,d")
// levels of array text into []any. Rows of a depth 2 array are []any too.
func ParseArray(text string, b BaseType, depth int) ([]any, error) {
	switch depth {
	case 1:
		return parseRow(text, b)
	case 2:
		rows := splitTop(text, rowSep)
		out := make([]any, 0, len(rows))
		for i, row := range rows {
			values, err := parseRow(row, b)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			out = append(out, values)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: array depth %d", ErrInvalidType, depth)
}

// Parse parses text according to t.
func Parse(text string, t Type) (any, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if t.Depth == 0 {
		return ParseScalar(text, t.Base)
	}
	return ParseArray(text, t.Base, t.Depth)
}

// ParseOutput parses the captured standard output of a program.
func ParseOutput(stdout string, t Type) (any, error) {
	return Parse(strings.TrimSpace(stdout), t)
}

func parseRow(text string, b BaseType) ([]any, error) {
	tokens := splitTop(text, elemSep)
	out := make([]any, 0, len(tokens))
	for i, tok := range tokens {
		v, err := ParseScalar(tok, b)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// parseInteger reads an optional sign followed by leading decimal digits,
// so "12abc" is 12 and "6.0" is 6. Anything else is 0.
func parseInteger(text string) int64 {
	s := strings.TrimSpace(text)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func parseFloat(text string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0
	}
	return f
}

func parseObject(text string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidObject, err)
	}
	return v, nil
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
