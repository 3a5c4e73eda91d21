// Package tson parses strict JSON text into an in-memory value tree and
// serializes runtime value graphs back to JSON text, preserving runtime
// types that plain JSON cannot represent — timestamps, big integers,
// decimals, patterns, URLs, UUIDs, ordered maps, sets and user-defined
// types — through the reversible two-key tagging convention
//
//	{"$type": "<handler name>", "$value": <payload>}
//
// Parsing is strict RFC 8259: double-quoted keys and strings only, no
// comments, no trailing commas. Malformed input fails with a *SyntaxError
// carrying the exact line, column and byte offset plus a caret-annotated
// source snippet. Conversion and revival failures surface as *ConvertError.
//
// Each Instance owns an independent handler registry; Default is a shared
// instance preloaded with the built-in handler set. Parse and Stringify
// calls are self-contained and safe to run concurrently on one instance,
// but Register/Unregister are not synchronized against in-flight calls.
package tson

// Instance binds a handler registry to the parse/stringify pipeline.
type Instance struct {
	registry *Registry
}

// New returns an instance with the built-in handler set registered
// (Date, BigInt, Decimal, RegExp, URL, UUID, Map, Set).
func New() *Instance {
	in := NewEmpty()
	registerDefaultHandlers(in.registry)
	return in
}

// NewEmpty returns an instance with no handlers registered.
func NewEmpty() *Instance {
	return &Instance{registry: NewRegistry()}
}

// Default is the shared instance used by the package-level functions.
var Default = New()

// Parse parses strict JSON text and revives tagged values into their runtime
// types. It fails with *SyntaxError on malformed input and with
// *ConvertError on an unknown $type or malformed tag shape.
func (in *Instance) Parse(src string) (any, error) {
	tree, err := parseTree(src)
	if err != nil {
		return nil, err
	}
	return newReviveContext(in.registry).revive(tree)
}

// ParseRaw parses strict JSON text and returns the plain tree with tagged
// values left intact as ordinary objects.
func (in *Instance) ParseRaw(src string) (any, error) {
	return parseTree(src)
}

// Stringify serializes a runtime value graph to minified JSON text.
func (in *Instance) Stringify(v any) (string, error) {
	return in.StringifyOpts(v, StringifyOptions{})
}

// StringifyOpts serializes a runtime value graph with explicit options.
// A value that is itself non-representable at the top level renders as null
// unless opts.Strict is set.
func (in *Instance) StringifyOpts(v any, opts StringifyOptions) (string, error) {
	tree, err := newConvertContext(in.registry, opts.Strict).Convert(v)
	if err != nil {
		return "", err
	}
	return renderTree(tree, opts)
}

// Register adds a handler to this instance's registry. Registering a name
// that already exists fails rather than replacing the handler.
func (in *Instance) Register(h Handler) error {
	return in.registry.Register(h)
}

// Unregister removes the named handler, reporting whether a removal
// occurred. The relative order of the remaining handlers is unchanged.
func (in *Instance) Unregister(name string) bool {
	return in.registry.Unregister(name)
}

// Handlers returns the registered handler names in precedence order.
func (in *Instance) Handlers() []string {
	return in.registry.Names()
}

// Parse calls Default.Parse.
func Parse(src string) (any, error) { return Default.Parse(src) }

// ParseRaw calls Default.ParseRaw.
func ParseRaw(src string) (any, error) { return Default.ParseRaw(src) }

// Stringify calls Default.Stringify.
func Stringify(v any) (string, error) { return Default.Stringify(v) }

// StringifyOpts calls Default.StringifyOpts.
func StringifyOpts(v any, opts StringifyOptions) (string, error) {
	return Default.StringifyOpts(v, opts)
}

// Register calls Default.Register.
func Register(h Handler) error { return Default.Register(h) }

// Unregister calls Default.Unregister.
func Unregister(name string) bool { return Default.Unregister(name) }

// Handlers calls Default.Handlers.
func Handlers() []string { return Default.Handlers() }
