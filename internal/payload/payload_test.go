package payload

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestSerializeRoundTripScenario(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"a":1,"b":2}`))
	require.NoError(t, err)

	out, err := Serialize(v)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1, "b": 2}`, string(out))
}

func TestSerializeKeepsKeyOrder(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"zeta": true, "alpha": [1, 2.5, "x"], "mid": {"k": null}}`))
	require.NoError(t, err)

	out, err := Serialize(v)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta": true, "alpha": [1, 2.5, "x"], "mid": {"k": null}}`, string(out))
}

func TestSerializeMatchesPythonDefaults(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"city": "Zürich", "dup": 1, "dup": 2, "n": 1e3}`))
	require.NoError(t, err)

	out, err := Serialize(v)
	require.NoError(t, err)
	assert.Equal(t, `{"city": "Z\u00fcrich", "dup": 2, "n": 1000.0}`, string(out))
}

func TestSerializeIsASCII(t *testing.T) {
	out, err := Serialize(Object{{Key: "名前", Value: []any{"ñ", "€", "𝄞"}}})
	require.NoError(t, err)
	for i, c := range out {
		require.Less(t, c, byte(0x80), "byte %d of %s", i, out)
	}
}

func TestSerializeGoValues(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"sorted map", map[string]any{"b": 2, "a": int64(-1)}, `{"a": -1, "b": 2}`},
		{"integral float", 3.0, `3.0`},
		{"fractional float", 118.53, `118.53`},
		{"small float", 1e-7, `1e-07`},
		{"large float", 1e20, `1e+20`},
		{"html stays", "<a&b>", `"<a&b>"`},
		{"latin escaped", "héllo", `"h\u00e9llo"`},
		{"astral surrogates", "a😀", `"a\ud83d\ude00"`},
		{"control escaped", "\x01\x7f", `"\u0001\u007f"`},
		{"invalid utf8", "a\xffb", `"a\ufffdb"`},
		{"escapes", "line\n\"q\"", `"line\n\"q\""`},
		{"uint", uint64(7), `7`},
		{"empty object", Object{}, `{}`},
		{"empty array", []any{}, `[]`},
		{"json exponent", json.Number("1e3"), `1000.0`},
		{"json fraction", json.Number("2.50"), `2.5`},
		{"json big integer", json.Number("123456789012345678901234567890"), `123456789012345678901234567890`},
		{"json negative zero", json.Number("-0"), `0`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Serialize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))
		})
	}
}

func TestSerializeRejectsUnsupported(t *testing.T) {
	tests := []any{
		make(chan int),
		func() {},
		Object{{Key: "nested", Value: []any{struct{}{}}}},
		map[string]any{"nan": nan()},
	}
	for _, in := range tests {
		_, err := Serialize(in)
		assert.True(t, errors.Is(err, ErrUnsupportedType), "Serialize(%T) error = %v", in, err)
	}
}

func TestLoadJSONAndYAMLAgree(t *testing.T) {
	jsonPath := writeFile(t, "hidden.json", `{
	"radius": 118.53,
	"circle_area": 44138.25,
	"coordinates": {"lat": 54.01078, "lon": 38.29855},
	"tags": ["a", "b"]
}`)
	yamlPath := writeFile(t, "hidden.yaml", `radius: 118.53
circle_area: 44138.25
coordinates:
  lat: 54.01078
  lon: 38.29855
tags: [a, b]
`)

	jv, err := Load(jsonPath)
	require.NoError(t, err)
	yv, err := Load(yamlPath)
	require.NoError(t, err)

	jb, err := Serialize(jv)
	require.NoError(t, err)
	yb, err := Serialize(yv)
	require.NoError(t, err)

	assert.Equal(t, `{"radius": 118.53, "circle_area": 44138.25, "coordinates": {"lat": 54.01078, "lon": 38.29855}, "tags": ["a", "b"]}`, string(jb))
	assert.Equal(t, string(jb), string(yb))
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = Load(writeFile(t, "empty.json", "  \n"))
	assert.True(t, errors.Is(err, ErrEmpty))

	_, err = Load(writeFile(t, "broken.json", `{"a": 1,`))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "invalid JSON"))

	_, err = Load(writeFile(t, "two.json", `{"a": 1} {"b": 2}`))
	require.Error(t, err)

	_, err = Load(writeFile(t, "bad.yml", "a: [1, 2\n"))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "invalid YAML"))
}

func TestDuplicateKeysLastWins(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"a": 1, "b": {"x": 1, "x": [2]}, "a": 3}`))
	require.NoError(t, err)

	obj := v.(Object)
	assert.Equal(t, []string{"a", "b"}, obj.Keys())
	a, _ := obj.Get("a")
	assert.Equal(t, json.Number("3"), a)

	out, err := Serialize(v)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 3, "b": {"x": [2]}}`, string(out))
}

func TestObjectAccessors(t *testing.T) {
	o := Object{{Key: "x", Value: 1}, {Key: "y", Value: "two"}}
	assert.Equal(t, []string{"x", "y"}, o.Keys())

	v, ok := o.Get("y")
	assert.True(t, ok)
	assert.Equal(t, "two", v)

	_, ok = o.Get("z")
	assert.False(t, ok)
}

func TestDigest(t *testing.T) {
	a, err := Digest([]byte(`{"a": 1, "b": 2}`))
	require.NoError(t, err)
	b, err := Digest([]byte(`{"a": 1, "b": 2}`))
	require.NoError(t, err)
	c, err := Digest([]byte(`{"a": 1, "b": 3}`))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	// CIDv1 in the default base32 multibase starts with "b".
	assert.True(t, strings.HasPrefix(a, "bafkrei"), a)
}

func nan() float64 {
	zero := 0.0
	return zero / zero
}
