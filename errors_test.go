package tson

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Errors_SnippetFormat(t *testing.T) {
	src := "{\n  \"a\": @\n}"
	_, err := ParseRaw(src)
	require.Error(t, err)

	var se *SyntaxError
	require.ErrorAs(t, err, &se)
	msg := se.Error()

	assert.Contains(t, msg, "LEXICAL ERROR at 2:8:")
	assert.Contains(t, msg, `   1 | {`)
	assert.Contains(t, msg, `   2 |   "a": @`)
	assert.Contains(t, msg, "   3 | }")

	// The caret lines up under column 8 of the offending line.
	var caretLine string
	for _, line := range strings.Split(msg, "\n") {
		if strings.HasSuffix(line, "^") {
			caretLine = line
			break
		}
	}
	require.NotEmpty(t, caretLine, "snippet must contain a caret line")
	assert.Equal(t, "     | "+strings.Repeat(" ", 7)+"^", caretLine)
}

func Test_Errors_SnippetFirstAndLastLine(t *testing.T) {
	// No context line before line 1 or after the last line.
	_, err := ParseRaw("@")
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "   1 | @")
	assert.NotContains(t, msg, "   0 |")
	assert.NotContains(t, msg, "   2 |")
}

func Test_Errors_SnippetClampsOutOfRange(t *testing.T) {
	got := renderSnippet("x", "GRAMMAR ERROR", 99, 99, "boom")
	assert.Contains(t, got, "GRAMMAR ERROR at 1:2: boom")
	assert.Contains(t, got, "   1 | x")
}

func Test_Errors_ConvertErrorPath(t *testing.T) {
	e := &ConvertError{Kind: KindCycle, Msg: "circular reference detected", Path: "$.a[2]"}
	assert.Equal(t, "circular reference detected at $.a[2]", e.Error())

	e = &ConvertError{Kind: KindStrict, Msg: "nope"}
	assert.Equal(t, "nope", e.Error())
}

func Test_Errors_UnwrapHandlerError(t *testing.T) {
	inner := assert.AnError
	e := &ConvertError{Kind: KindHandler, Msg: "handler \"X\": boom", err: inner}
	assert.ErrorIs(t, e, inner)
}
