// revive.go — the deserialize-direction engine.
//
// Revival walks a parsed JSON tree, recognizes the two-key tagged shape and
// dispatches to the named handler; everything else is rebuilt structurally
// with key order preserved. An object that carries "$type" with any other
// key set is a malformed tag and fails rather than passing as plain data.
package tson

import (
	"fmt"
	"strings"
)

// ReviveContext is handed to every handler Deserialize call so handlers can
// delegate nested payload pieces back into the engine.
type ReviveContext struct {
	reg  *Registry
	path []string
}

func newReviveContext(reg *Registry) *ReviveContext {
	return &ReviveContext{reg: reg}
}

// Revive recursively revives a nested payload value on behalf of a handler.
func (c *ReviveContext) Revive(v any) (any, error) {
	return c.revive(v)
}

func (c *ReviveContext) pushPath(seg string) { c.path = append(c.path, seg) }
func (c *ReviveContext) popPath()            { c.path = c.path[:len(c.path)-1] }

func (c *ReviveContext) fail(kind ConvertKind, msg string) error {
	return &ConvertError{Kind: kind, Msg: msg, Path: "$" + strings.Join(c.path, "")}
}

func (c *ReviveContext) revive(v any) (any, error) {
	switch x := v.(type) {
	case nil, bool, float64, string:
		return x, nil
	case []any:
		out := make([]any, len(x))
		for i, el := range x {
			c.pushPath(fmt.Sprintf("[%d]", i))
			rv, err := c.revive(el)
			c.popPath()
			if err != nil {
				return nil, err
			}
			out[i] = rv
		}
		return out, nil
	case *Object:
		return c.reviveObject(x)
	default:
		// Already-revived runtime values pass through, so handlers may hand
		// back values they built themselves.
		return x, nil
	}
}

func (c *ReviveContext) reviveObject(o *Object) (any, error) {
	if tv, ok := o.Get(tagTypeKey); ok {
		name, isStr := tv.(string)
		_, hasValue := o.Get(tagValueKey)
		if !isStr || !hasValue || o.Len() != 2 {
			return nil, c.fail(KindMalformedTag,
				fmt.Sprintf("malformed tag: an object with %q must have exactly the keys %q and %q",
					tagTypeKey, tagTypeKey, tagValueKey))
		}
		h, ok := c.reg.lookup(name)
		if !ok {
			return nil, c.fail(KindUnknownTag, fmt.Sprintf("unknown type tag %q", name))
		}
		payload, _ := o.Get(tagValueKey)
		rv, err := h.Deserialize(payload, c)
		if err != nil {
			if ce, ok := err.(*ConvertError); ok {
				return nil, ce
			}
			return nil, &ConvertError{
				Kind: KindHandler,
				Msg:  fmt.Sprintf("handler %q: %v", name, err),
				Path: "$" + strings.Join(c.path, ""),
				err:  err,
			}
		}
		return rv, nil
	}

	out := NewObject()
	for _, key := range o.keys {
		c.pushPath("." + key)
		rv, err := c.revive(o.entries[key])
		c.popPath()
		if err != nil {
			return nil, err
		}
		out.Set(key, rv)
	}
	return out, nil
}
