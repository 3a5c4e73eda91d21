// convert.go — the serialize-direction engine.
//
// The converter walks an arbitrary runtime value graph and produces a
// JSON-safe tree (nil, bool, finite float64, string, []any, *Object) with
// handler-backed values wrapped in the two-key tagged form. It consults the
// registry first, so a handler can claim any value before generic handling
// sees it. Cycles are detected through an identity set of the reference
// values currently being converted; the set lives exactly as long as one
// top-level call.
//
// Values with no JSON representation (functions, channels, structs without a
// handler, ...) resolve to an internal skip marker. Containers decide its
// fate: arrays null the slot to keep index alignment, objects drop the key.
// Strict mode turns both the skip marker and non-finite numbers into errors
// at the point they are found.
package tson

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
)

// Keys of the tagged-value wire shape.
const (
	tagTypeKey  = "$type"
	tagValueKey = "$value"
)

// JSONConverter lets a type substitute a convertible representation of
// itself before generic container handling runs, the moral equivalent of a
// toJSON method. The returned value is converted recursively in its place.
type JSONConverter interface {
	ConvertJSON() any
}

// skipMarker is the internal result for values with no JSON representation.
type skipMarker struct{}

// ConvertContext carries the per-call conversion state and is handed to
// every handler Serialize call so handlers can delegate nested values.
type ConvertContext struct {
	reg    *Registry
	strict bool
	guard  map[refKey]struct{}
	path   []string
}

func newConvertContext(reg *Registry, strict bool) *ConvertContext {
	return &ConvertContext{reg: reg, strict: strict, guard: map[refKey]struct{}{}}
}

// Convert recursively converts a nested value on behalf of a handler. A
// value that has no JSON representation converts to nil here (in strict mode
// it is an error, as everywhere else).
func (c *ConvertContext) Convert(v any) (any, error) {
	out, err := c.convert(v)
	if err != nil {
		return nil, err
	}
	if _, skip := out.(skipMarker); skip {
		return nil, nil
	}
	return out, nil
}

func (c *ConvertContext) pushPath(seg string) { c.path = append(c.path, seg) }
func (c *ConvertContext) popPath()            { c.path = c.path[:len(c.path)-1] }

func (c *ConvertContext) where() string {
	return "$" + strings.Join(c.path, "")
}

func (c *ConvertContext) fail(kind ConvertKind, msg string) error {
	return &ConvertError{Kind: kind, Msg: msg, Path: c.where()}
}

// enter adds v's identity to the cycle guard when v is a reference value.
// It fails when the identity is already being converted on this call stack.
func (c *ConvertContext) enter(v any) (refKey, bool, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		if rv.Kind() == reflect.Slice && rv.Len() == 0 {
			// All empty slices share one base address and cannot nest anyway.
			return refKey{}, false, nil
		}
		k := refKey{kind: rv.Kind(), ptr: rv.Pointer()}
		if _, busy := c.guard[k]; busy {
			return refKey{}, false, c.fail(KindCycle, "circular reference detected")
		}
		c.guard[k] = struct{}{}
		return k, true, nil
	}
	return refKey{}, false, nil
}

// exit removes an identity recorded by enter, on success or failure alike.
func (c *ConvertContext) exit(k refKey, tracked bool) {
	if tracked {
		delete(c.guard, k)
	}
}

// convert is the internal walk; unlike Convert it may return skipMarker so
// the enclosing container can apply its own skip policy.
func (c *ConvertContext) convert(v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	// Handler dispatch comes first: a handler can claim containers too.
	if h, ok := c.reg.match(v); ok {
		k, tracked, err := c.enter(v)
		if err != nil {
			return nil, err
		}
		payload, serr := h.Serialize(v, c)
		c.exit(k, tracked)
		if serr != nil {
			return nil, c.wrapHandlerErr(h.Name, serr)
		}
		tag := NewObject()
		tag.Set(tagTypeKey, h.Name)
		tag.Set(tagValueKey, payload)
		return tag, nil
	}

	switch x := v.(type) {
	case bool, string:
		return x, nil
	case float64:
		return c.convertFloat(x)
	case float32:
		return c.convertFloat(float64(x))
	case int:
		return c.convertFloat(float64(x))
	case int8:
		return c.convertFloat(float64(x))
	case int16:
		return c.convertFloat(float64(x))
	case int32:
		return c.convertFloat(float64(x))
	case int64:
		return c.convertFloat(float64(x))
	case uint:
		return c.convertFloat(float64(x))
	case uint8:
		return c.convertFloat(float64(x))
	case uint16:
		return c.convertFloat(float64(x))
	case uint32:
		return c.convertFloat(float64(x))
	case uint64:
		return c.convertFloat(float64(x))
	case *Object:
		return c.convertObject(x)
	case []any:
		return c.convertSlice(v, reflect.ValueOf(x))
	case map[string]any:
		return c.convertStringMap(v, reflect.ValueOf(x))
	}

	// A value-supplied conversion method takes precedence over generic
	// container handling.
	if conv, ok := v.(JSONConverter); ok {
		return c.convert(conv.ConvertJSON())
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return c.convertFloat(float64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return c.convertFloat(float64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return c.convertFloat(rv.Float())
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return c.convert(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		return c.convertSlice(v, rv)
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return c.convertStringMap(v, rv)
		}
	}

	return c.skipValue(v)
}

// skipValue resolves a non-representable value: an error under strict mode,
// the skip marker otherwise.
func (c *ConvertContext) skipValue(v any) (any, error) {
	if c.strict {
		return nil, c.fail(KindStrict, fmt.Sprintf("value of type %T has no JSON representation", v))
	}
	return skipMarker{}, nil
}

// convertFloat passes finite numbers through; non-finite ones become null
// (or an error under strict mode) since JSON has no literal for them.
func (c *ConvertContext) convertFloat(f float64) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		if c.strict {
			return nil, c.fail(KindStrict, "non-finite number has no JSON representation")
		}
		return nil, nil
	}
	return f, nil
}

func (c *ConvertContext) wrapHandlerErr(name string, err error) error {
	if ce, ok := err.(*ConvertError); ok {
		return ce
	}
	return &ConvertError{
		Kind: KindHandler,
		Msg:  fmt.Sprintf("handler %q: %v", name, err),
		Path: c.where(),
		err:  err,
	}
}

// convertSlice converts array elements independently. A skipped element
// becomes null so positions stay aligned; arrays never omit slots.
func (c *ConvertContext) convertSlice(v any, rv reflect.Value) (any, error) {
	k, tracked, err := c.enter(v)
	if err != nil {
		return nil, err
	}
	defer c.exit(k, tracked)

	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		c.pushPath(fmt.Sprintf("[%d]", i))
		el, err := c.convert(rv.Index(i).Interface())
		c.popPath()
		if err != nil {
			return nil, err
		}
		if _, skip := el.(skipMarker); skip {
			el = nil
		}
		out[i] = el
	}
	return out, nil
}

// convertObject converts an ordered object key by key, dropping keys whose
// value resolved to the skip marker; key order is preserved.
func (c *ConvertContext) convertObject(o *Object) (any, error) {
	k, tracked, err := c.enter(o)
	if err != nil {
		return nil, err
	}
	defer c.exit(k, tracked)

	out := NewObject()
	for _, key := range o.keys {
		c.pushPath("." + key)
		ev, cerr := c.convert(o.entries[key])
		c.popPath()
		if cerr != nil {
			return nil, cerr
		}
		if _, skip := ev.(skipMarker); skip {
			continue
		}
		out.Set(key, ev)
	}
	return out, nil
}

// convertStringMap converts a plain Go map with string keys. Go map
// iteration order is unspecified, so keys are walked sorted to keep the
// output deterministic.
func (c *ConvertContext) convertStringMap(v any, rv reflect.Value) (any, error) {
	k, tracked, err := c.enter(v)
	if err != nil {
		return nil, err
	}
	defer c.exit(k, tracked)

	keys := make([]string, 0, rv.Len())
	for _, mk := range rv.MapKeys() {
		keys = append(keys, mk.String())
	}
	sort.Strings(keys)

	keyType := rv.Type().Key()
	out := NewObject()
	for _, key := range keys {
		c.pushPath("." + key)
		ev, cerr := c.convert(rv.MapIndex(reflect.ValueOf(key).Convert(keyType)).Interface())
		c.popPath()
		if cerr != nil {
			return nil, cerr
		}
		if _, skip := ev.(skipMarker); skip {
			continue
		}
		out.Set(key, ev)
	}
	return out, nil
}
