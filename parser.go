// parser.go — recursive-descent parser over the token stream.
//
// The parser consumes the fully pre-scanned token slice with a single
// lookahead index and produces a plain JSON tree: nil, bool, float64,
// string, []any and *Object (insertion-ordered). It is the sole source of
// grammar errors; every failure points at the offending token's position.
// The grammar is strict RFC 8259: quoted keys only, no trailing commas, no
// comments, and exactly one top-level value followed by end of input.
package tson

import "fmt"

// parseTree tokenizes and parses src into a raw JSON tree (tags left as
// plain objects). Returns *SyntaxError on malformed input.
func parseTree(src string) (any, error) {
	lex := NewLexer(src)
	toks, err := lex.Scan()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, src: src}
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Type != EOF {
		return nil, p.errAt(tok, fmt.Sprintf("unexpected %s after top-level value", tok.Type))
	}
	return v, nil
}

type parser struct {
	toks []Token
	i    int
	src  string
}

func (p *parser) peek() Token {
	if p.i >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF, Scan always appends it
	}
	return p.toks[p.i]
}

func (p *parser) advance() Token {
	tok := p.peek()
	if tok.Type != EOF {
		p.i++
	}
	return tok
}

func (p *parser) match(tt TokenType) bool {
	if p.peek().Type != tt {
		return false
	}
	p.advance()
	return true
}

func (p *parser) need(tt TokenType, msg string) (Token, error) {
	if tok := p.peek(); tok.Type == tt {
		return p.advance(), nil
	}
	return Token{}, p.errAt(p.peek(), msg)
}

func (p *parser) errAt(tok Token, msg string) error {
	return newSyntaxError(KindGrammar, p.src, msg, tok.Line, tok.Col, tok.Byte)
}

func (p *parser) parseValue() (any, error) {
	switch tok := p.peek(); tok.Type {
	case LCURLY:
		return p.parseObject()
	case LSQUARE:
		return p.parseArray()
	case STRING, NUMBER, BOOLEAN, NULL:
		p.advance()
		return tok.Literal, nil
	default:
		return nil, p.errAt(tok, fmt.Sprintf("unexpected %s, expected a value", tok.Type))
	}
}

// parseObject parses "{" already at the lookahead. Later duplicate keys
// overwrite earlier values but keep the key's original position, consistent
// with standard JSON object semantics.
func (p *parser) parseObject() (*Object, error) {
	p.advance() // "{"
	obj := NewObject()
	if p.match(RCURLY) {
		return obj, nil
	}
	for {
		key, err := p.need(STRING, fmt.Sprintf("expected object key, got %s", p.peek().Type))
		if err != nil {
			return nil, err
		}
		if _, err := p.need(COLON, fmt.Sprintf("expected ':' after object key, got %s", p.peek().Type)); err != nil {
			return nil, err
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		obj.Set(key.Literal.(string), v)

		if p.match(COMMA) {
			continue // another key must follow; "}" here is a trailing comma
		}
		if p.match(RCURLY) {
			return obj, nil
		}
		return nil, p.errAt(p.peek(), fmt.Sprintf("expected ',' or '}' in object, got %s", p.peek().Type))
	}
}

// parseArray parses "[" already at the lookahead.
func (p *parser) parseArray() ([]any, error) {
	p.advance() // "["
	arr := []any{}
	if p.match(RSQUARE) {
		return arr, nil
	}
	for {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)

		if p.match(COMMA) {
			continue // another element must follow
		}
		if p.match(RSQUARE) {
			return arr, nil
		}
		return nil, p.errAt(p.peek(), fmt.Sprintf("expected ',' or ']' in array, got %s", p.peek().Type))
	}
}
