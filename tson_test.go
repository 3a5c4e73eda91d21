package tson

import (
	"math/big"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_RoundTrip_CompositeGraph(t *testing.T) {
	when := time.Date(2024, 7, 16, 9, 0, 0, 0, time.UTC)
	id := uuid.MustParse("f47ac10b-58cc-4372-a567-0e02b2c3d479")
	link, _ := url.Parse("https://example.com/x")
	big1, _ := new(big.Int).SetString("9007199254740993", 10)

	inner := NewMap()
	inner.Set("first", when)

	doc := NewObject()
	doc.Set("title", "report")
	doc.Set("count", 3.0)
	doc.Set("draft", false)
	doc.Set("when", when)
	doc.Set("id", id)
	doc.Set("link", link)
	doc.Set("big", big1)
	doc.Set("pattern", regexp.MustCompile(`\d+`))
	doc.Set("tags", NewSet("a", "b"))
	doc.Set("stamps", inner)
	doc.Set("rows", []any{1.0, nil, "x", []any{true}})

	text, err := Stringify(doc)
	require.NoError(t, err)
	out, err := Parse(text)
	require.NoError(t, err)
	got, ok := out.(*Object)
	require.True(t, ok)

	assert.Equal(t, doc.Keys(), got.Keys(), "key order survives the round trip")

	getv := func(key string) any {
		v, ok := got.Get(key)
		require.True(t, ok, "key %q", key)
		return v
	}
	assert.Equal(t, "report", getv("title"))
	assert.Equal(t, 3.0, getv("count"))
	assert.Equal(t, false, getv("draft"))
	assert.True(t, when.Equal(getv("when").(time.Time)))
	assert.Equal(t, id, getv("id"))
	assert.Equal(t, link.String(), getv("link").(*url.URL).String())
	assert.Zero(t, big1.Cmp(getv("big").(*big.Int)))
	assert.Equal(t, `\d+`, getv("pattern").(*regexp.Regexp).String())
	assert.ElementsMatch(t, []any{"a", "b"}, getv("tags").(*Set).Values())
	assert.Equal(t, []any{1.0, nil, "x", []any{true}}, getv("rows"))

	stamps := getv("stamps").(*Map)
	v, ok := stamps.Get("first")
	require.True(t, ok)
	assert.True(t, when.Equal(v.(time.Time)))
}

func Test_RoundTrip_RawTreeIsStable(t *testing.T) {
	// Without handlers in play, parse→stringify→parse reproduces the tree.
	src := `{"b":[1,2.5,{"x":null}],"a":"s","c":{"d":true}}`
	tree1, err := ParseRaw(src)
	require.NoError(t, err)
	text, err := Stringify(tree1)
	require.NoError(t, err)
	tree2, err := ParseRaw(text)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(tree1, tree2, cmp.AllowUnexported(Object{})))
}

func Test_Stringify_SortedIsStableThroughParse(t *testing.T) {
	o := obj("z", 1.0, "m", obj("b", 2.0, "a", 3.0), "a", []any{obj("q", 1.0, "p", 2.0)})
	opts := StringifyOptions{SortKeys: true}

	first, err := StringifyOpts(o, opts)
	require.NoError(t, err)

	reparsed, err := ParseRaw(first)
	require.NoError(t, err)
	second, err := StringifyOpts(reparsed, opts)
	require.NoError(t, err)

	assert.Equal(t, first, second, "sorted stringify must be byte-identical through a parse")
}

func Test_Stringify_SortedScenario(t *testing.T) {
	got, err := StringifyOpts(obj("c", 1.0, "a", 2.0, "b", 3.0), StringifyOptions{SortKeys: true})
	require.NoError(t, err)
	assert.Equal(t, `{"a":2,"b":3,"c":1}`, got)
}

func Test_Instances_AreIndependent(t *testing.T) {
	a, b := New(), New()
	require.NoError(t, a.Register(Handler{
		Name:        "OnlyA",
		Match:       func(v any) bool { return false },
		Serialize:   func(v any, _ *ConvertContext) (any, error) { return nil, nil },
		Deserialize: func(p any, _ *ReviveContext) (any, error) { return nil, nil },
	}))
	assert.Contains(t, a.Handlers(), "OnlyA")
	assert.NotContains(t, b.Handlers(), "OnlyA")
	assert.NotContains(t, Default.Handlers(), "OnlyA")
}

func Test_CustomHandler_RoundTrip(t *testing.T) {
	type rgb struct{ R, G, B float64 }

	in := New()
	require.NoError(t, in.Register(Handler{
		Name:  "Color",
		Match: func(v any) bool { _, ok := v.(rgb); return ok },
		Serialize: func(v any, _ *ConvertContext) (any, error) {
			c := v.(rgb)
			return []any{c.R, c.G, c.B}, nil
		},
		Deserialize: func(payload any, _ *ReviveContext) (any, error) {
			p, ok := payload.([]any)
			if !ok || len(p) != 3 {
				return nil, assert.AnError
			}
			return rgb{p[0].(float64), p[1].(float64), p[2].(float64)}, nil
		},
	}))

	text, err := in.Stringify(rgb{1, 0.5, 0})
	require.NoError(t, err)
	assert.Equal(t, `{"$type":"Color","$value":[1,0.5,0]}`, text)

	out, err := in.Parse(text)
	require.NoError(t, err)
	assert.Equal(t, rgb{1, 0.5, 0}, out)
}

func Test_ConcurrentUseOfOneInstance(t *testing.T) {
	// Parse/stringify are read-only with respect to the registry, so many
	// goroutines may share one instance.
	in := New()
	src := `{"when":{"$type":"Date","$value":"2024-01-01T00:00:00Z"},"n":[1,2,3]}`
	done := make(chan error, 16)
	for i := 0; i < 16; i++ {
		go func() {
			v, err := in.Parse(src)
			if err == nil {
				_, err = in.Stringify(v)
			}
			done <- err
		}()
	}
	for i := 0; i < 16; i++ {
		require.NoError(t, <-done)
	}
}
