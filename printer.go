// printer.go — renders a JSON-safe tree to text.
//
// The printer is the text-emission backend for trees produced by the
// conversion engine (or by the parser, for format-only use). It never
// inspects tags and it never mutates the tree: sorted mode copies key slices
// before sorting. Number formatting matches the conventional JSON shortest
// form (plain notation between 1e-6 and 1e21, exponent notation outside).
package tson

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// StringifyOptions controls text emission and conversion strictness.
type StringifyOptions struct {
	// Indent is one level's indent unit. Empty produces minified output.
	Indent string
	// SortKeys recursively sorts object keys alphabetically at every depth.
	// Array element order is never altered.
	SortKeys bool
	// Strict rejects non-representable primitives during conversion instead
	// of dropping or nulling them.
	Strict bool
}

// Spaces returns an indent unit of n spaces, covering the numeric form of
// the indentation option.
func Spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}

// renderTree writes a converted, JSON-safe tree as text.
func renderTree(v any, opt StringifyOptions) (string, error) {
	p := &printer{opt: opt}
	if err := p.value(v, 0); err != nil {
		return "", err
	}
	return p.b.String(), nil
}

type printer struct {
	b   strings.Builder
	opt StringifyOptions
}

func (p *printer) value(v any, depth int) error {
	switch x := v.(type) {
	case nil:
		p.b.WriteString("null")
	case bool:
		if x {
			p.b.WriteString("true")
		} else {
			p.b.WriteString("false")
		}
	case float64:
		p.number(x)
	case string:
		p.quote(x)
	case []any:
		return p.array(x, depth)
	case *Object:
		return p.object(x, depth)
	default:
		return &ConvertError{
			Kind: KindHandler,
			Msg:  fmt.Sprintf("cannot stringify value of type %T: handler payloads must be JSON-safe", v),
		}
	}
	return nil
}

func (p *printer) array(xs []any, depth int) error {
	if len(xs) == 0 {
		p.b.WriteString("[]")
		return nil
	}
	p.b.WriteByte('[')
	for i, el := range xs {
		if i > 0 {
			p.b.WriteByte(',')
		}
		p.newline(depth + 1)
		if err := p.value(el, depth+1); err != nil {
			return err
		}
	}
	p.newline(depth)
	p.b.WriteByte(']')
	return nil
}

func (p *printer) object(o *Object, depth int) error {
	if o.Len() == 0 {
		p.b.WriteString("{}")
		return nil
	}
	keys := o.keys
	if p.opt.SortKeys {
		keys = o.Keys()
		sort.Strings(keys)
	}
	p.b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			p.b.WriteByte(',')
		}
		p.newline(depth + 1)
		p.quote(k)
		p.b.WriteByte(':')
		if p.opt.Indent != "" {
			p.b.WriteByte(' ')
		}
		v, _ := o.Get(k)
		if err := p.value(v, depth+1); err != nil {
			return err
		}
	}
	p.newline(depth)
	p.b.WriteByte('}')
	return nil
}

func (p *printer) newline(depth int) {
	if p.opt.Indent == "" {
		return
	}
	p.b.WriteByte('\n')
	for i := 0; i < depth; i++ {
		p.b.WriteString(p.opt.Indent)
	}
}

// number emits the shortest decimal form, switching to exponent notation
// only outside [1e-6, 1e21) and trimming a zero-padded exponent so output
// matches the common JSON rendering.
func (p *printer) number(f float64) {
	// The conversion engine guarantees finite numbers; guard anyway so a
	// hand-built tree cannot emit an invalid literal.
	if math.IsNaN(f) || math.IsInf(f, 0) {
		p.b.WriteString("null")
		return
	}
	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	s := strconv.AppendFloat(nil, f, format, -1, 64)
	if format == 'e' {
		if n := len(s); n >= 4 && s[n-4] == 'e' && s[n-3] == '-' && s[n-2] == '0' {
			s[n-2] = s[n-1]
			s = s[:n-1]
		}
	}
	p.b.Write(s)
}

func (p *printer) quote(s string) {
	p.b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			p.b.WriteString(`\"`)
		case '\\':
			p.b.WriteString(`\\`)
		case '\n':
			p.b.WriteString(`\n`)
		case '\r':
			p.b.WriteString(`\r`)
		case '\t':
			p.b.WriteString(`\t`)
		case '\b':
			p.b.WriteString(`\b`)
		case '\f':
			p.b.WriteString(`\f`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&p.b, `\u%04x`, r)
			} else {
				p.b.WriteRune(r)
			}
		}
	}
	p.b.WriteByte('"')
}
