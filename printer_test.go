package tson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Printer_Minified(t *testing.T) {
	o := obj("a", 1.0, "b", []any{true, nil, "x"})
	got, err := renderTree(o, StringifyOptions{})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":[true,null,"x"]}`, got)
}

func Test_Printer_IndentSpaces(t *testing.T) {
	o := obj("a", 1.0, "b", []any{2.0})
	got, err := renderTree(o, StringifyOptions{Indent: Spaces(2)})
	require.NoError(t, err)
	want := `{
  "a": 1,
  "b": [
    2
  ]
}`
	assert.Equal(t, want, got)
}

func Test_Printer_IndentLiteralString(t *testing.T) {
	o := obj("a", 1.0)
	got, err := renderTree(o, StringifyOptions{Indent: "\t"})
	require.NoError(t, err)
	assert.Equal(t, "{\n\t\"a\": 1\n}", got)
}

func Test_Printer_EmptyContainers(t *testing.T) {
	got, err := renderTree(obj("a", []any{}, "b", NewObject()), StringifyOptions{Indent: Spaces(2)})
	require.NoError(t, err)
	want := `{
  "a": [],
  "b": {}
}`
	assert.Equal(t, want, got)
}

func Test_Printer_SortedKeys(t *testing.T) {
	o := obj("c", 1.0, "a", 2.0, "b", 3.0)
	got, err := renderTree(o, StringifyOptions{SortKeys: true})
	require.NoError(t, err)
	assert.Equal(t, `{"a":2,"b":3,"c":1}`, got)

	// Sorting does not mutate the tree.
	assert.Equal(t, []string{"c", "a", "b"}, o.Keys())
}

func Test_Printer_SortedIsRecursive_ArraysUntouched(t *testing.T) {
	o := obj("z", obj("y", 1.0, "x", 2.0), "a", []any{3.0, 1.0, 2.0})
	got, err := renderTree(o, StringifyOptions{SortKeys: true})
	require.NoError(t, err)
	assert.Equal(t, `{"a":[3,1,2],"z":{"x":2,"y":1}}`, got)
}

func Test_Printer_StringEscapes(t *testing.T) {
	got, err := renderTree("a\"b\\c\nd\te", StringifyOptions{})
	require.NoError(t, err)
	assert.Equal(t, `"a\"b\\c\nd\te"`, got)
}

func Test_Printer_UnicodePassesThrough(t *testing.T) {
	got, err := renderTree("héllo 😀", StringifyOptions{})
	require.NoError(t, err)
	assert.Equal(t, `"héllo 😀"`, got)
}

func Test_Printer_Numbers(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{1, "1"},
		{-1, "-1"},
		{1.5, "1.5"},
		{100, "100"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{5e-7, "5e-7"},
		{0.000001, "0.000001"},
	}
	for _, c := range cases {
		got, err := renderTree(c.in, StringifyOptions{})
		require.NoError(t, err)
		assert.Equal(t, c.want, got, "input %v", c.in)
	}
}

func Test_Printer_RejectsNonJSONSafeTree(t *testing.T) {
	_, err := renderTree(obj("bad", make(chan int)), StringifyOptions{})
	require.Error(t, err)
	var ce *ConvertError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, KindHandler, ce.Kind)
}

func Test_Spaces(t *testing.T) {
	assert.Equal(t, "", Spaces(0))
	assert.Equal(t, "", Spaces(-1))
	assert.Equal(t, "    ", Spaces(4))
}
