// errors.go — error types and caret-snippet rendering.
//
// Two error families cover the whole pipeline:
//
//   - *SyntaxError: lexical or grammar failures from the tokenizer/parser.
//     Always carries 1-based line/column, the byte offset, and a rendered
//     snippet of the offending source line with a caret under the column:
//
//     GRAMMAR ERROR at 3:12: unexpected token ')'
//
//        2 | {
//        3 |   "a": [1,]
//            |          ^
//        4 | }
//
//   - *ConvertError: failures of the conversion/revival engines (circular
//     reference, strict-mode rejection, unknown or malformed tag, handler
//     payload violation). Carries the path inside the value graph instead of
//     a source position.
//
// Both abort the call that raised them; there are no partial results.
package tson

import (
	"fmt"
	"strings"
)

// SyntaxKind distinguishes the two sources of syntax errors.
type SyntaxKind int

const (
	// KindLexical marks errors raised while scanning tokens.
	KindLexical SyntaxKind = iota
	// KindGrammar marks errors raised while parsing the token stream.
	KindGrammar
)

func (k SyntaxKind) String() string {
	if k == KindLexical {
		return "LEXICAL ERROR"
	}
	return "GRAMMAR ERROR"
}

// SyntaxError reports a malformed input at an exact source position.
type SyntaxError struct {
	Kind    SyntaxKind
	Msg     string
	Line    int // 1-based
	Col     int // 1-based
	Byte    int // 0-based byte offset
	Snippet string
}

func (e *SyntaxError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("%s at %d:%d: %s", e.Kind, e.Line, e.Col, e.Msg)
	}
	return e.Snippet
}

// newSyntaxError builds a SyntaxError with its snippet rendered from src.
func newSyntaxError(kind SyntaxKind, src, msg string, line, col, byteOff int) *SyntaxError {
	return &SyntaxError{
		Kind:    kind,
		Msg:     msg,
		Line:    line,
		Col:     col,
		Byte:    byteOff,
		Snippet: renderSnippet(src, kind.String(), line, col, msg),
	}
}

// ConvertKind distinguishes conversion/revival failures.
type ConvertKind int

const (
	// KindCycle marks a circular reference detected during conversion.
	KindCycle ConvertKind = iota
	// KindStrict marks a strict-mode rejection of a non-representable value.
	KindStrict
	// KindUnknownTag marks a $type naming no registered handler.
	KindUnknownTag
	// KindMalformedTag marks an object carrying $type with the wrong key set.
	KindMalformedTag
	// KindHandler marks a failure inside a handler's serialize/deserialize.
	KindHandler
	// KindRegister marks an invalid handler registration, such as a
	// duplicate name or a handler missing one of its functions.
	KindRegister
)

// ConvertError reports a conversion or revival failure. Path locates the
// failing value within the graph, e.g. "$.items[2].when".
type ConvertError struct {
	Kind ConvertKind
	Msg  string
	Path string
	err  error // wrapped handler error, if any
}

func (e *ConvertError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s at %s", e.Msg, e.Path)
	}
	return e.Msg
}

func (e *ConvertError) Unwrap() error { return e.err }

// renderSnippet builds the caret-annotated context block: the offending line,
// up to one line before and after, numbered gutters, and a caret under the
// 1-based column. Out-of-range coordinates are clamped so rendering never
// fails on truncated or empty sources.
func renderSnippet(src, header string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	cur := lines[line-1]
	if col > len(cur)+1 {
		col = len(cur) + 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, cur)
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return strings.TrimSuffix(b.String(), "\n")
}
