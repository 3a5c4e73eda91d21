// value.go — runtime container types for parsed and revived value graphs.
//
// A parsed JSON tree is built from nil, bool, float64 (always finite),
// string, []any and *Object. Revival may additionally produce *Map, *Set and
// whatever registered handlers return. Plain Go maps cannot serve as the
// object representation because JSON object key order is significant here;
// *Object keeps an insertion-ordered key slice next to the entry map, the
// same shape the MindScript runtime uses for its ordered maps.
package tson

import "reflect"

// Object is an insertion-ordered JSON object. Setting an existing key
// replaces its value but keeps the key's original position; new keys append.
type Object struct {
	keys    []string
	entries map[string]any
}

// NewObject returns an empty ordered object.
func NewObject() *Object {
	return &Object{entries: map[string]any{}}
}

// Set assigns v under key, appending the key if it is new.
func (o *Object) Set(key string, v any) {
	if _, ok := o.entries[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.entries[key] = v
}

// Get returns the value stored under key and whether the key is present.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.entries[key]
	return v, ok
}

// Delete removes key, preserving the relative order of the remaining keys.
// It reports whether the key was present.
func (o *Object) Delete(key string) bool {
	if _, ok := o.entries[key]; !ok {
		return false
	}
	delete(o.entries, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of keys.
func (o *Object) Len() int { return len(o.keys) }

// Keys returns the keys in insertion order. The slice is a copy.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// MapEntry is one key/value pair of a Map.
type MapEntry struct {
	Key   any
	Value any
}

// Map is an insertion-ordered key-value collection whose keys may be any
// value, not just strings. It is the runtime counterpart of the "Map" wire
// tag. Keys with comparable dynamic types compare by ==; reference types
// (pointers, maps, slices) compare by identity.
type Map struct {
	entries []MapEntry
	index   map[any]int
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{index: map[any]int{}}
}

// Set assigns value under key, appending a new entry if the key is absent.
func (m *Map) Set(key, value any) {
	k := dedupKey(key)
	if i, ok := m.index[k]; ok {
		m.entries[i].Value = value
		return
	}
	m.index[k] = len(m.entries)
	m.entries = append(m.entries, MapEntry{Key: key, Value: value})
}

// Get returns the value stored under key and whether the key is present.
func (m *Map) Get(key any) (any, bool) {
	if i, ok := m.index[dedupKey(key)]; ok {
		return m.entries[i].Value, true
	}
	return nil, false
}

// Delete removes key, preserving entry order. It reports whether the key was
// present.
func (m *Map) Delete(key any) bool {
	k := dedupKey(key)
	i, ok := m.index[k]
	if !ok {
		return false
	}
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	delete(m.index, k)
	for dk, di := range m.index {
		if di > i {
			m.index[dk] = di - 1
		}
	}
	return true
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.entries) }

// Entries returns the entries in insertion order. The slice is a copy.
func (m *Map) Entries() []MapEntry {
	out := make([]MapEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Set is an insertion-ordered deduplicated collection. Membership uses the
// same key rule as Map: == for comparable values, identity for reference
// types.
type Set struct {
	values []any
	index  map[any]struct{}
}

// NewSet returns a Set holding the given values, duplicates removed.
func NewSet(values ...any) *Set {
	s := &Set{index: map[any]struct{}{}}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts v if not already present and reports whether it was inserted.
func (s *Set) Add(v any) bool {
	k := dedupKey(v)
	if _, ok := s.index[k]; ok {
		return false
	}
	s.index[k] = struct{}{}
	s.values = append(s.values, v)
	return true
}

// Has reports whether v is a member.
func (s *Set) Has(v any) bool {
	_, ok := s.index[dedupKey(v)]
	return ok
}

// Delete removes v, preserving the order of remaining values. It reports
// whether v was a member.
func (s *Set) Delete(v any) bool {
	k := dedupKey(v)
	if _, ok := s.index[k]; !ok {
		return false
	}
	delete(s.index, k)
	for i, x := range s.values {
		if dedupKey(x) == k {
			s.values = append(s.values[:i], s.values[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of members.
func (s *Set) Len() int { return len(s.values) }

// Values returns the members in insertion order. The slice is a copy.
func (s *Set) Values() []any {
	out := make([]any, len(s.values))
	copy(out, s.values)
	return out
}

// refKey distinguishes identity keys of different reference kinds that might
// share a numeric pointer value.
type refKey struct {
	kind reflect.Kind
	ptr  uintptr
}

// dedupKey maps a value to a key usable in a Go map: the value itself when
// its dynamic type is comparable, the referent identity for reference types,
// and a fresh unique key otherwise (such values never deduplicate).
func dedupKey(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return refKey{kind: rv.Kind(), ptr: rv.Pointer()}
	}
	if rv.Type().Comparable() {
		return v
	}
	// Zero-size allocations may share an address; use a sized one so every
	// non-comparable, non-reference value gets a genuinely unique key.
	return new(int8)
}
