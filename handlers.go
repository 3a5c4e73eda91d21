// handlers.go — the built-in type handler set.
//
// Each handler implements one row of the wire-contract table: a unique tag
// name, a predicate over runtime values, and the two conversion directions.
// Handlers validate their own payload shapes on revival and report
// descriptive failures; the engines wrap those into *ConvertError.
//
// Wire contracts:
//
//	Date    — RFC 3339 timestamp string
//	BigInt  — decimal digit string
//	Decimal — decimal string (arbitrary-precision decimal)
//	RegExp  — {source, flags} object
//	URL     — absolute URI string
//	UUID    — canonical hyphenated UUID string
//	Map     — array of [key, value] pairs, both sides converted recursively
//	Set     — array of converted elements, deduplicated on insertion
package tson

import (
	"fmt"
	"math/big"
	"net/url"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func registerDefaultHandlers(reg *Registry) {
	for _, h := range []Handler{
		dateHandler(),
		bigIntHandler(),
		decimalHandler(),
		regexpHandler(),
		urlHandler(),
		uuidHandler(),
		mapHandler(),
		setHandler(),
	} {
		// Names are distinct constants; registration cannot fail here.
		_ = reg.Register(h)
	}
}

// stringPayload asserts the common string-payload shape.
func stringPayload(tag string, payload any) (string, error) {
	s, ok := payload.(string)
	if !ok {
		return "", fmt.Errorf("%s payload must be a string, got %T", tag, payload)
	}
	return s, nil
}

func dateHandler() Handler {
	return Handler{
		Name: "Date",
		Match: func(v any) bool {
			switch v.(type) {
			case time.Time, *time.Time:
				return true
			}
			return false
		},
		Serialize: func(v any, _ *ConvertContext) (any, error) {
			t, ok := v.(time.Time)
			if !ok {
				t = *(v.(*time.Time))
			}
			return t.Format(time.RFC3339Nano), nil
		},
		Deserialize: func(payload any, _ *ReviveContext) (any, error) {
			s, err := stringPayload("Date", payload)
			if err != nil {
				return nil, err
			}
			t, err := time.Parse(time.RFC3339Nano, s)
			if err != nil {
				return nil, fmt.Errorf("invalid Date payload %q: %v", s, err)
			}
			return t, nil
		},
	}
}

func bigIntHandler() Handler {
	return Handler{
		Name: "BigInt",
		Match: func(v any) bool {
			_, ok := v.(*big.Int)
			return ok
		},
		Serialize: func(v any, _ *ConvertContext) (any, error) {
			return v.(*big.Int).String(), nil
		},
		Deserialize: func(payload any, _ *ReviveContext) (any, error) {
			s, err := stringPayload("BigInt", payload)
			if err != nil {
				return nil, err
			}
			n, ok := new(big.Int).SetString(s, 10)
			if !ok {
				return nil, fmt.Errorf("invalid BigInt payload %q: not a decimal digit string", s)
			}
			return n, nil
		},
	}
}

func decimalHandler() Handler {
	return Handler{
		Name: "Decimal",
		Match: func(v any) bool {
			switch v.(type) {
			case decimal.Decimal, *decimal.Decimal:
				return true
			}
			return false
		},
		Serialize: func(v any, _ *ConvertContext) (any, error) {
			d, ok := v.(decimal.Decimal)
			if !ok {
				d = *(v.(*decimal.Decimal))
			}
			return d.String(), nil
		},
		Deserialize: func(payload any, _ *ReviveContext) (any, error) {
			s, err := stringPayload("Decimal", payload)
			if err != nil {
				return nil, err
			}
			d, err := decimal.NewFromString(s)
			if err != nil {
				return nil, fmt.Errorf("invalid Decimal payload %q: %v", s, err)
			}
			return d, nil
		},
	}
}

func regexpHandler() Handler {
	return Handler{
		Name: "RegExp",
		Match: func(v any) bool {
			_, ok := v.(*regexp.Regexp)
			return ok
		},
		Serialize: func(v any, _ *ConvertContext) (any, error) {
			out := NewObject()
			out.Set("source", v.(*regexp.Regexp).String())
			out.Set("flags", "")
			return out, nil
		},
		Deserialize: func(payload any, _ *ReviveContext) (any, error) {
			obj, ok := payload.(*Object)
			if !ok {
				return nil, fmt.Errorf("RegExp payload must be an object with source and flags, got %T", payload)
			}
			srcv, ok := obj.Get("source")
			if !ok {
				return nil, fmt.Errorf("RegExp payload is missing \"source\"")
			}
			source, ok := srcv.(string)
			if !ok {
				return nil, fmt.Errorf("RegExp source must be a string, got %T", srcv)
			}
			flags := ""
			if fv, ok := obj.Get("flags"); ok {
				if flags, ok = fv.(string); !ok {
					return nil, fmt.Errorf("RegExp flags must be a string, got %T", fv)
				}
			}
			expr := source
			if flags != "" {
				for _, f := range flags {
					switch f {
					case 'i', 'm', 's', 'U':
					default:
						return nil, fmt.Errorf("unsupported RegExp flag %q", f)
					}
				}
				expr = "(?" + flags + ")" + source
			}
			re, err := regexp.Compile(expr)
			if err != nil {
				return nil, fmt.Errorf("invalid RegExp payload: %v", err)
			}
			return re, nil
		},
	}
}

func urlHandler() Handler {
	return Handler{
		Name: "URL",
		Match: func(v any) bool {
			_, ok := v.(*url.URL)
			return ok
		},
		Serialize: func(v any, _ *ConvertContext) (any, error) {
			u := v.(*url.URL)
			if !u.IsAbs() {
				return nil, fmt.Errorf("URL must be absolute, got %q", u.String())
			}
			return u.String(), nil
		},
		Deserialize: func(payload any, _ *ReviveContext) (any, error) {
			s, err := stringPayload("URL", payload)
			if err != nil {
				return nil, err
			}
			u, err := url.Parse(s)
			if err != nil {
				return nil, fmt.Errorf("invalid URL payload %q: %v", s, err)
			}
			if !u.IsAbs() {
				return nil, fmt.Errorf("URL payload %q is not absolute", s)
			}
			return u, nil
		},
	}
}

func uuidHandler() Handler {
	return Handler{
		Name: "UUID",
		Match: func(v any) bool {
			_, ok := v.(uuid.UUID)
			return ok
		},
		Serialize: func(v any, _ *ConvertContext) (any, error) {
			return v.(uuid.UUID).String(), nil
		},
		Deserialize: func(payload any, _ *ReviveContext) (any, error) {
			s, err := stringPayload("UUID", payload)
			if err != nil {
				return nil, err
			}
			id, err := uuid.Parse(s)
			if err != nil {
				return nil, fmt.Errorf("invalid UUID payload %q: %v", s, err)
			}
			return id, nil
		},
	}
}

func mapHandler() Handler {
	return Handler{
		Name: "Map",
		Match: func(v any) bool {
			_, ok := v.(*Map)
			return ok
		},
		Serialize: func(v any, ctx *ConvertContext) (any, error) {
			m := v.(*Map)
			pairs := make([]any, 0, m.Len())
			for _, e := range m.entries {
				k, err := ctx.Convert(e.Key)
				if err != nil {
					return nil, err
				}
				val, err := ctx.Convert(e.Value)
				if err != nil {
					return nil, err
				}
				pairs = append(pairs, []any{k, val})
			}
			return pairs, nil
		},
		Deserialize: func(payload any, ctx *ReviveContext) (any, error) {
			pairs, ok := payload.([]any)
			if !ok {
				return nil, fmt.Errorf("Map payload must be an array of [key, value] pairs, got %T", payload)
			}
			m := NewMap()
			for i, p := range pairs {
				pair, ok := p.([]any)
				if !ok || len(pair) != 2 {
					return nil, fmt.Errorf("Map payload entry %d is not a 2-element array", i)
				}
				k, err := ctx.Revive(pair[0])
				if err != nil {
					return nil, err
				}
				val, err := ctx.Revive(pair[1])
				if err != nil {
					return nil, err
				}
				m.Set(k, val)
			}
			return m, nil
		},
	}
}

func setHandler() Handler {
	return Handler{
		Name: "Set",
		Match: func(v any) bool {
			_, ok := v.(*Set)
			return ok
		},
		Serialize: func(v any, ctx *ConvertContext) (any, error) {
			s := v.(*Set)
			out := make([]any, 0, s.Len())
			for _, el := range s.values {
				cv, err := ctx.Convert(el)
				if err != nil {
					return nil, err
				}
				out = append(out, cv)
			}
			return out, nil
		},
		Deserialize: func(payload any, ctx *ReviveContext) (any, error) {
			els, ok := payload.([]any)
			if !ok {
				return nil, fmt.Errorf("Set payload must be an array, got %T", payload)
			}
			s := NewSet()
			for _, el := range els {
				rv, err := ctx.Revive(el)
				if err != nil {
					return nil, err
				}
				s.Add(rv)
			}
			return s, nil
		},
	}
}
