// lexer.go — strict JSON tokenizer.
//
// The lexer walks the source byte by byte, tracking 1-based line/column and
// the byte offset, and is the sole source of lexical errors. It enforces the
// RFC 8259 token grammar: double-quoted strings with the eight escapes and
// \uXXXX (UTF-16 surrogate pairs combined), numbers without leading zeros,
// and the bare keywords true/false/null. Anything else fails with a
// *SyntaxError carrying the exact position and a caret snippet.
package tson

import (
	"fmt"
	"math"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// EOF terminates every token stream.
	EOF TokenType = iota

	// Structural characters.
	LCURLY  // "{"
	RCURLY  // "}"
	LSQUARE // "["
	RSQUARE // "]"
	COLON   // ":"
	COMMA   // ","

	// Literals.
	STRING
	NUMBER
	BOOLEAN
	NULL
)

func (t TokenType) String() string {
	switch t {
	case EOF:
		return "end of input"
	case LCURLY:
		return "'{'"
	case RCURLY:
		return "'}'"
	case LSQUARE:
		return "'['"
	case RSQUARE:
		return "']'"
	case COLON:
		return "':'"
	case COMMA:
		return "','"
	case STRING:
		return "string"
	case NUMBER:
		return "number"
	case BOOLEAN:
		return "boolean"
	case NULL:
		return "null"
	}
	return "unknown token"
}

// Token is a lexical token with optional literal value. Line and Col are
// 1-based; Byte is the 0-based byte offset of the token's first character.
type Token struct {
	Type    TokenType
	Lexeme  string // raw text slice
	Literal any    // decoded value for STRING/NUMBER/BOOLEAN tokens
	Line    int
	Col     int
	Byte    int
}

// Lexer scans a JSON source string into tokens.
type Lexer struct {
	src   string
	start int // start index of current token
	cur   int // current index
	line  int // 1-based
	col   int // 1-based column of the next unread byte

	// position of the current token's first byte
	tokLine int
	tokCol  int
}

// NewLexer creates a lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch, true
}

func (l *Lexer) make(tt TokenType, lit any) Token {
	return Token{
		Type:    tt,
		Lexeme:  l.src[l.start:l.cur],
		Literal: lit,
		Line:    l.tokLine,
		Col:     l.tokCol,
		Byte:    l.start,
	}
}

// errHere raises a lexical error at the next unread byte.
func (l *Lexer) errHere(msg string) error {
	return newSyntaxError(KindLexical, l.src, msg, l.line, l.col, l.cur)
}

// errStart raises a lexical error at the current token's first byte.
func (l *Lexer) errStart(msg string) error {
	return newSyntaxError(KindLexical, l.src, msg, l.tokLine, l.tokCol, l.start)
}

func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() {
		switch l.src[l.cur] {
		case ' ', '\t', '\r', '\n':
			l.advance()
		default:
			return
		}
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isHex(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
func isIdentChar(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || isDigit(b) || b == '_'
}

// scanString decodes a double-quoted string literal. The opening quote has
// already been consumed. Raw control characters (including newlines) are
// lexical errors; escapes follow the JSON table plus \uXXXX with exactly
// four hex digits.
func (l *Lexer) scanString() (string, error) {
	var out []rune
	for {
		b, ok := l.peek()
		if !ok {
			return "", l.errStart("string was not terminated")
		}
		if b == '\n' || b == '\r' {
			return "", l.errHere("string cannot contain a raw line break")
		}
		if b < 0x20 {
			return "", l.errHere(fmt.Sprintf("string cannot contain control character %#02x", b))
		}
		l.advance()
		if b == '"' {
			return string(out), nil
		}
		if b == '\\' {
			r, err := l.scanEscape()
			if err != nil {
				return "", err
			}
			out = append(out, r)
			continue
		}
		if b < utf8.RuneSelf {
			out = append(out, rune(b))
			continue
		}
		// Non-ASCII lead byte: step back and decode the full rune.
		l.cur--
		r, size := utf8.DecodeRuneInString(l.src[l.cur:])
		if r == utf8.RuneError && size == 1 {
			return "", l.errHere("invalid UTF-8 in string")
		}
		l.cur += size
		l.col += size - 1
		out = append(out, r)
	}
}

// scanEscape decodes one escape sequence; the backslash has been consumed.
func (l *Lexer) scanEscape() (rune, error) {
	esc, ok := l.advance()
	if !ok {
		return 0, l.errHere("unfinished escape sequence")
	}
	switch esc {
	case '"':
		return '"', nil
	case '\\':
		return '\\', nil
	case '/':
		return '/', nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'u':
		r, err := l.scanHex4()
		if err != nil {
			return 0, err
		}
		// Combine a UTF-16 surrogate pair when a low half follows.
		if 0xD800 <= r && r <= 0xDBFF {
			saveCur, saveLine, saveCol := l.cur, l.line, l.col
			if b1, ok := l.peek(); ok && b1 == '\\' {
				l.advance()
				if b2, ok := l.peek(); ok && b2 == 'u' {
					l.advance()
					r2, err := l.scanHex4()
					if err != nil {
						return 0, err
					}
					if 0xDC00 <= r2 && r2 <= 0xDFFF {
						return utf16.DecodeRune(r, r2), nil
					}
				}
			}
			// Not a valid pair; emit the lone half as-is.
			l.cur, l.line, l.col = saveCur, saveLine, saveCol
		}
		return r, nil
	default:
		return 0, l.errHere(fmt.Sprintf("invalid escape sequence: \\%c", esc))
	}
}

// scanHex4 reads exactly four hex digits of a \u escape.
func (l *Lexer) scanHex4() (rune, error) {
	var hex string
	for i := 0; i < 4; i++ {
		b, ok := l.peek()
		if !ok || !isHex(b) {
			return 0, l.errHere("unicode escape requires exactly 4 hex digits")
		}
		hex += string(b)
		l.advance()
	}
	v, err := strconv.ParseInt(hex, 16, 32)
	if err != nil {
		return 0, l.errHere("invalid unicode escape")
	}
	return rune(v), nil
}

// scanNumber scans a strict JSON number starting at the token start:
// optional '-', then a single '0' or a digit run without a leading zero,
// an optional fraction with at least one digit, and an optional exponent
// with at least one digit. The literal must parse to a finite float64.
func (l *Lexer) scanNumber() (float64, error) {
	if b, ok := l.peek(); ok && b == '-' {
		l.advance()
	}

	b, ok := l.peek()
	if !ok || !isDigit(b) {
		return 0, l.errStart("malformed number: expected a digit")
	}
	if b == '0' {
		l.advance()
		if b2, ok := l.peek(); ok && isDigit(b2) {
			return 0, l.errStart("malformed number: leading zeros are not allowed")
		}
	} else {
		for {
			b, ok := l.peek()
			if !ok || !isDigit(b) {
				break
			}
			l.advance()
		}
	}

	if b, ok := l.peek(); ok && b == '.' {
		l.advance()
		b2, ok := l.peek()
		if !ok || !isDigit(b2) {
			return 0, l.errHere("malformed number: expected a digit after '.'")
		}
		for {
			b, ok := l.peek()
			if !ok || !isDigit(b) {
				break
			}
			l.advance()
		}
	}

	if b, ok := l.peek(); ok && (b == 'e' || b == 'E') {
		l.advance()
		if b2, ok := l.peek(); ok && (b2 == '+' || b2 == '-') {
			l.advance()
		}
		b3, ok := l.peek()
		if !ok || !isDigit(b3) {
			return 0, l.errHere("malformed number: expected a digit in exponent")
		}
		for {
			b, ok := l.peek()
			if !ok || !isDigit(b) {
				break
			}
			l.advance()
		}
	}

	lex := l.src[l.start:l.cur]
	v, err := strconv.ParseFloat(lex, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, l.errStart(fmt.Sprintf("number out of range: %s", lex))
	}
	return v, nil
}

// scanKeyword scans an identifier run and matches it against the three JSON
// keywords. The run consumes trailing identifier characters, so a keyword
// immediately followed by one (e.g. "truex") never matches a prefix.
func (l *Lexer) scanKeyword() (Token, error) {
	for {
		b, ok := l.peek()
		if !ok || !isIdentChar(b) {
			break
		}
		l.advance()
	}
	switch lex := l.src[l.start:l.cur]; lex {
	case "true":
		return l.make(BOOLEAN, true), nil
	case "false":
		return l.make(BOOLEAN, false), nil
	case "null":
		return l.make(NULL, nil), nil
	default:
		return Token{}, l.errStart(fmt.Sprintf("invalid literal %q", lex))
	}
}

// Next returns exactly one token, advancing the lexer, or fails with a
// positioned lexical error. After the source is exhausted it keeps
// returning EOF tokens.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespace()
	l.start = l.cur
	l.tokLine, l.tokCol = l.line, l.col

	if l.isAtEnd() {
		return l.make(EOF, nil), nil
	}

	ch, _ := l.advance()
	switch ch {
	case '{':
		return l.make(LCURLY, nil), nil
	case '}':
		return l.make(RCURLY, nil), nil
	case '[':
		return l.make(LSQUARE, nil), nil
	case ']':
		return l.make(RSQUARE, nil), nil
	case ':':
		return l.make(COLON, nil), nil
	case ',':
		return l.make(COMMA, nil), nil
	case '"':
		s, err := l.scanString()
		if err != nil {
			return Token{}, err
		}
		return l.make(STRING, s), nil
	}

	if ch == '-' || isDigit(ch) {
		l.cur = l.start // rescan from the sign/first digit
		l.col = l.tokCol
		v, err := l.scanNumber()
		if err != nil {
			return Token{}, err
		}
		return l.make(NUMBER, v), nil
	}

	if isIdentChar(ch) {
		return l.scanKeyword()
	}

	if ch == '\'' {
		return Token{}, l.errStart("single-quoted strings are not allowed")
	}
	if ch == '/' {
		return Token{}, l.errStart("comments are not allowed")
	}
	return Token{}, l.errStart(fmt.Sprintf("unexpected character %q", rune(ch)))
}

// Scan tokenizes the entire source and returns the tokens, EOF included.
func (l *Lexer) Scan() ([]Token, error) {
	var toks []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks, nil
		}
	}
}
