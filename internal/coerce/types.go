// Package coerce converts test-case values between the text authors and
// programs exchange and typed Go values.
//
// Values are kept as text everywhere else in the system. Typed semantics only
// apply when generating harness code and when comparing program output with
// the expected output of a test case.
package coerce

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidType   = errors.New("invalid variable type")
	ErrInvalidObject = errors.New("invalid object literal")
	ErrTypeMismatch  = errors.New("value does not match type")
)

type BaseType string

const (
	Integer BaseType = "integer"
	Float   BaseType = "float"
	String  BaseType = "string"
	Boolean BaseType = "boolean"
	Object  BaseType = "object"
)

// BaseTypes lists every base type in declaration order.
var BaseTypes = []BaseType{Integer, Float, String, Boolean, Object}

func (b BaseType) Valid() bool {
	switch b {
	case Integer, Float, String, Boolean, Object:
		return true
	}
	return false
}

// MaxDepth is the deepest array nesting a type may declare.
const MaxDepth = 2

// Type is a base type with an array nesting depth of 0, 1 or 2.
// Its text form is the base name followed by one "[]" per level,
// e.g. "integer", "string[]", "float[][]".
type Type struct {
	Base  BaseType
	Depth int
}

func Scalar(b BaseType) Type  { return Type{Base: b} }
func ArrayOf(b BaseType) Type { return Type{Base: b, Depth: 1} }
func GridOf(b BaseType) Type  { return Type{Base: b, Depth: 2} }

// ParseType parses the text form of a type.
func ParseType(s string) (Type, error) {
	name := strings.TrimSpace(s)
	depth := 0
	for strings.HasSuffix(name, "[]") {
		name = strings.TrimSuffix(name, "[]")
		depth++
	}
	t := Type{Base: BaseType(name), Depth: depth}
	if err := t.Validate(); err != nil {
		return Type{}, fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
	return t, nil
}

func (t Type) Validate() error {
	if !t.Base.Valid() || t.Depth < 0 || t.Depth > MaxDepth {
		return fmt.Errorf("%w: %s", ErrInvalidType, t)
	}
	return nil
}

func (t Type) String() string {
	return string(t.Base) + strings.Repeat("[]", t.Depth)
}

func (t Type) IsArray() bool { return t.Depth > 0 }

// Elem returns the type of the elements of an array type.
func (t Type) Elem() Type {
	if t.Depth == 0 {
		return t
	}
	return Type{Base: t.Base, Depth: t.Depth - 1}
}

func (t Type) MarshalText() ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// AllTypes returns the 15 declarable output types.
func AllTypes() []Type {
	out := make([]Type, 0, len(BaseTypes)*(MaxDepth+1))
	for depth := 0; depth <= MaxDepth; depth++ {
		for _, b := range BaseTypes {
			out = append(out, Type{Base: b, Depth: depth})
		}
	}
	return out
}
