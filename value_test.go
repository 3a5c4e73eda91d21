package tson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Object_OrderAndOverwrite(t *testing.T) {
	o := NewObject()
	o.Set("b", 1)
	o.Set("a", 2)
	o.Set("c", 3)
	require.Equal(t, []string{"b", "a", "c"}, o.Keys())

	// Overwriting keeps the key's original position.
	o.Set("a", 20)
	assert.Equal(t, []string{"b", "a", "c"}, o.Keys())
	v, ok := o.Get("a")
	require.True(t, ok)
	assert.Equal(t, 20, v)
	assert.Equal(t, 3, o.Len())
}

func Test_Object_Delete(t *testing.T) {
	o := NewObject()
	o.Set("a", 1)
	o.Set("b", 2)
	o.Set("c", 3)

	assert.True(t, o.Delete("b"))
	assert.Equal(t, []string{"a", "c"}, o.Keys())
	_, ok := o.Get("b")
	assert.False(t, ok)

	assert.False(t, o.Delete("missing"))
	assert.Equal(t, 2, o.Len())
}

func Test_Map_AnyKeys(t *testing.T) {
	m := NewMap()
	m.Set("s", 1)
	m.Set(2.0, "two")
	m.Set(true, "yes")
	require.Equal(t, 3, m.Len())

	v, ok := m.Get(2.0)
	require.True(t, ok)
	assert.Equal(t, "two", v)

	// Entry order is insertion order.
	entries := m.Entries()
	assert.Equal(t, "s", entries[0].Key)
	assert.Equal(t, 2.0, entries[1].Key)
	assert.Equal(t, true, entries[2].Key)
}

func Test_Map_ReferenceKeysUseIdentity(t *testing.T) {
	k1, k2 := NewObject(), NewObject()
	m := NewMap()
	m.Set(k1, "one")
	m.Set(k2, "two")
	require.Equal(t, 2, m.Len(), "distinct objects are distinct keys")

	m.Set(k1, "updated")
	assert.Equal(t, 2, m.Len())
	v, ok := m.Get(k1)
	require.True(t, ok)
	assert.Equal(t, "updated", v)
}

func Test_Map_Delete(t *testing.T) {
	m := NewMap()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("c", 3)

	assert.True(t, m.Delete("b"))
	assert.False(t, m.Delete("b"))
	require.Equal(t, 2, m.Len())

	// Remaining entries keep order and stay addressable.
	entries := m.Entries()
	assert.Equal(t, "a", entries[0].Key)
	assert.Equal(t, "c", entries[1].Key)
	v, ok := m.Get("c")
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func Test_Set_Dedup(t *testing.T) {
	s := NewSet(1.0, "x", 1.0, "x", true)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []any{1.0, "x", true}, s.Values())

	assert.False(t, s.Add(1.0))
	assert.True(t, s.Add(2.0))
	assert.True(t, s.Has("x"))
	assert.False(t, s.Has("y"))
}

func Test_Set_ReferenceMembersUseIdentity(t *testing.T) {
	a, b := NewObject(), NewObject()
	s := NewSet(a, b, a)
	assert.Equal(t, 2, s.Len(), "same object twice deduplicates; equal-shaped objects do not")

	assert.True(t, s.Delete(a))
	assert.False(t, s.Has(a))
	assert.Equal(t, []any{b}, s.Values())
}
