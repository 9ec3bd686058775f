package fingerprint

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string", "a<b>&c", `"a<b>&c"`},
		{"nfc", "cafe\u0301", "\"caf\u00e9\""},
		{"bool", true, `true`},
		{"int", 42, `42`},
		{"uint64", uint64(7), `7`},
		{"float", 0.01, `0.01`},
		{"small float", 1e-8, `1e-08`},
		{"negative zero", math.Copysign(0, -1), `0`},
		{"float slice", []float64{1, 2.5}, `[1,2.5]`},
		{"sorted keys", map[string]any{"b": 1, "a": map[string]any{"d": "x", "c": false}}, `{"a":{"c":false,"d":"x"},"b":1}`},
		{"empty array", []any{}, `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshalCanonicalRejects(t *testing.T) {
	for name, in := range map[string]any{
		"null":      nil,
		"nan":       math.NaN(),
		"inf":       math.Inf(1),
		"nested":    map[string]any{"x": []any{math.Inf(-1)}},
		"struct":    struct{}{},
		"float32":   float32(1),
		"null elem": []any{nil},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := MarshalCanonical(in)
			assert.Error(t, err)
		})
	}
}

func TestCompareUTF16(t *testing.T) {
	// U+FF61 sorts after U+1F600 in UTF-8 byte order but before it in UTF-16.
	assert.Less(t, compareUTF16("\U0001F600", "｡"), 0)
	assert.Equal(t, 0, compareUTF16("abc", "abc"))
	assert.Greater(t, compareUTF16("b", "a"), 0)
}
