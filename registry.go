// registry.go — ordered, name-indexed collection of type handlers.
package tson

import "fmt"

// Handler converts one runtime type to and from its tagged wire form.
//
// Match decides whether a value belongs to this handler. Serialize builds
// the $value payload and must return a JSON-safe tree, delegating nested
// values through ctx.Convert. Deserialize reverses it, delegating nested
// payload pieces through ctx.Revive. Errors returned by either side abort
// the whole call.
type Handler struct {
	Name        string
	Match       func(v any) bool
	Serialize   func(v any, ctx *ConvertContext) (any, error)
	Deserialize func(payload any, ctx *ReviveContext) (any, error)
}

// Registry holds handlers in registration order (precedence: first matching
// predicate wins) plus a name index for revival lookups. Registration and
// removal are not synchronized internally; callers mutating a registry while
// conversions are in flight on the same instance must serialize access
// themselves.
type Registry struct {
	order  []Handler
	byName map[string]Handler
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: map[string]Handler{}}
}

// Register appends h to the precedence list. A duplicate name fails rather
// than replacing the existing handler.
func (r *Registry) Register(h Handler) error {
	if h.Name == "" {
		return &ConvertError{Kind: KindRegister, Msg: "handler name must not be empty"}
	}
	if _, exists := r.byName[h.Name]; exists {
		return &ConvertError{Kind: KindRegister, Msg: fmt.Sprintf("handler %q is already registered", h.Name)}
	}
	if h.Match == nil || h.Serialize == nil || h.Deserialize == nil {
		return &ConvertError{Kind: KindRegister, Msg: fmt.Sprintf("handler %q must define Match, Serialize and Deserialize", h.Name)}
	}
	r.order = append(r.order, h)
	r.byName[h.Name] = h
	return nil
}

// Unregister removes the handler with the given name, keeping the relative
// order of the remaining handlers. It reports whether a removal occurred.
func (r *Registry) Unregister(name string) bool {
	if _, ok := r.byName[name]; !ok {
		return false
	}
	delete(r.byName, name)
	for i, h := range r.order {
		if h.Name == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Names returns the registered handler names in precedence order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	for i, h := range r.order {
		out[i] = h.Name
	}
	return out
}

// match returns the first handler, in precedence order, whose predicate
// accepts v.
func (r *Registry) match(v any) (Handler, bool) {
	for _, h := range r.order {
		if h.Match(v) {
			return h, true
		}
	}
	return Handler{}, false
}

// lookup finds a handler by name for revival.
func (r *Registry) lookup(name string) (Handler, bool) {
	h, ok := r.byName[name]
	return h, ok
}
