package coerce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	for _, want := range AllTypes() {
		got, err := ParseType(want.String())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Len(t, AllTypes(), 15)

	for _, bad := range []string{"", "int", "integer[][][]", "[]integer", "object[]x"} {
		_, err := ParseType(bad)
		assert.ErrorIs(t, err, ErrInvalidType, bad)
	}
}

func TestTypeText(t *testing.T) {
	var typ Type
	require.NoError(t, typ.UnmarshalText([]byte("string[][]")))
	assert.Equal(t, GridOf(String), typ)
	assert.Equal(t, ArrayOf(String), typ.Elem())

	text, err := typ.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "string[][]", string(text))

	assert.Error(t, typ.UnmarshalText([]byte("char")))
}

func TestParseScalarLeniency(t *testing.T) {
	cases := []struct {
		text string
		base BaseType
		want any
	}{
		{"42", Integer, int64(42)},
		{" -7 ", Integer, int64(-7)},
		{"abc", Integer, int64(0)},
		{"", Integer, int64(0)},
		{"12abc", Integer, int64(12)},
		{"6.0", Integer, int64(6)},
		{"3.14", Float, 3.14},
		{"x1.5", Float, 0.0},
		{"TRUE", Boolean, true},
		{"yes", Boolean, false},
		{`"hello"`, String, "hello"},
		{`hello`, String, "hello"},
		{`"half`, String, `"half`},
		{`""quoted""`, String, `"quoted"`},
	}
	for _, tc := range cases {
		got, err := ParseScalar(tc.text, tc.base)
		require.NoError(t, err, tc.text)
		assert.Equal(t, tc.want, got, "%s as %s", tc.text, tc.base)
	}
}

func TestParseObjectFailsLoudly(t *testing.T) {
	v, err := ParseScalar(`{"key": "value", "n": [1, 2]}`, Object)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"key": "value", "n": []any{1.0, 2.0}}, v)

	_, err = ParseScalar(`{"key": `, Object)
	assert.ErrorIs(t, err, ErrInvalidObject)

	_, err = ParseArray(`{"a":1}, {oops}`, Object, 1)
	assert.ErrorIs(t, err, ErrInvalidObject)
}

func TestScalarRoundTrip(t *testing.T) {
	values := []struct {
		v    any
		base BaseType
	}{
		{int64(0), Integer},
		{int64(-123456789), Integer},
		{2.5, Float},
		{-0.001, Float},
		{1e21, Float},
		{true, Boolean},
		{false, Boolean},
		{"", String},
		{"a, b; c", String},
		{`"already quoted"`, String},
		{map[string]any{"id": 1.0, "tags": []any{"x", "y"}}, Object},
		{[]any{1.0, "two"}, Object},
	}
	for _, tc := range values {
		text, err := FormatScalar(tc.v, tc.base)
		require.NoError(t, err)
		got, err := ParseScalar(text, tc.base)
		require.NoError(t, err)
		assert.True(t, Equal(tc.v, got), "%v via %q", tc.v, text)
	}
}

func TestFormatScalar(t *testing.T) {
	s, err := FormatScalar("hi", String)
	require.NoError(t, err)
	assert.Equal(t, `"hi"`, s)

	s, err = FormatScalar(1.0, Float)
	require.NoError(t, err)
	assert.Equal(t, "1", s)

	s, err = FormatScalar(map[string]any{"k": "v"}, Object)
	require.NoError(t, err)
	assert.Equal(t, `{"k":"v"}`, s)

	_, err = FormatScalar("7", Integer)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestParseArray(t *testing.T) {
	got, err := ParseArray("1, 2, 3", Integer, 1)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(2), int64(3)}, got)

	got, err = ParseArray("1,2;3,4", Integer, 2)
	require.NoError(t, err)
	assert.Equal(t, []any{[]any{int64(1), int64(2)}, []any{int64(3), int64(4)}}, got)

	got, err = ParseArray(`"apple", "banana, split", "cherry"`, String, 1)
	require.NoError(t, err)
	assert.Equal(t, []any{"apple", "banana, split", "cherry"}, got)

	got, err = ParseArray(`{"key": "value"}, {"id": 1}`, Object, 1)
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"key": "value"}, map[string]any{"id": 1.0}}, got)

	got, err = ParseArray("   ", Float, 1)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestArrayRoundTrip(t *testing.T) {
	cases := []struct {
		v    any
		typ  Type
		want []any
	}{
		{[]any{int64(1), int64(-2), int64(3)}, ArrayOf(Integer), nil},
		{[]int64{4, 5}, ArrayOf(Integer), []any{int64(4), int64(5)}},
		{[]any{0.5, 1.25}, ArrayOf(Float), nil},
		{[]any{true, false, true}, ArrayOf(Boolean), nil},
		{[]any{"a", "b,c", ""}, ArrayOf(String), nil},
		{[]any{map[string]any{"k": "v"}, map[string]any{"id": 2.0}}, ArrayOf(Object), nil},
		{[]any{[]any{int64(1), int64(2)}, []any{int64(3)}}, GridOf(Integer), nil},
		{[][]string{{"x", "y"}, {"z"}}, GridOf(String), []any{[]any{"x", "y"}, []any{"z"}}},
		{[]any{[]any{true}, []any{false, false}}, GridOf(Boolean), nil},
	}
	for _, tc := range cases {
		want := tc.want
		if want == nil {
			want = tc.v.([]any)
		}

		text, err := Format(tc.v, tc.typ)
		require.NoError(t, err)
		got, err := ParseOutput(text+"\n", tc.typ)
		require.NoError(t, err)
		assert.True(t, Equal(want, got), "%s: %q", tc.typ, text)
	}
}

func TestFormatArraySeparators(t *testing.T) {
	s, err := FormatArray([]any{int64(1), int64(2), int64(3)}, Integer, 1)
	require.NoError(t, err)
	assert.Equal(t, "1,2,3", s)

	s, err = FormatArray([][]int64{{1, 2}, {3, 4}}, Integer, 2)
	require.NoError(t, err)
	assert.Equal(t, "1,2;3,4", s)

	_, err = FormatArray(7, Integer, 1)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestMatch(t *testing.T) {
	ok, err := Match("6", "6\n", Scalar(Integer))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Match("6", "6.0", Scalar(Float))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Match("1, 2, 3", "1,2,3", ArrayOf(Integer))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Match("1,2,3", "3,2,1", ArrayOf(Integer))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Match(`"hello"`, "hello", Scalar(String))
	require.NoError(t, err)
	assert.True(t, ok)

	// Integers keep their leading digits only, so a fractional answer passes.
	ok, err = Match("6", "6.5", Scalar(Integer))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Match(`"a,b", c, "[x"`, `"a,b","c","[x"`, ArrayOf(String))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Match("", "", ArrayOf(Integer))
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = Match(`{"a":1}`, "not json", Scalar(Object))
	assert.ErrorIs(t, err, ErrInvalidObject)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal([]any{}, nil))
	assert.False(t, Equal([]any{int64(1)}, int64(1)))
	assert.False(t, Equal(int64(1), 1.0))
	assert.True(t, Equal(map[string]any{"a": []any{1.0}}, map[string]any{"a": []any{1.0}}))
}
