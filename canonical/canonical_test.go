package canonical

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelops/contracts"
)

func TestEncode_Determinism(t *testing.T) {
	// Key order of the input map must not affect the bytes.
	got, err := Encode(map[string]any{"b": 2, "a": 1})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":2}`, string(got))

	got2, err := Encode(map[string]any{"a": 1, "b": 2})
	require.NoError(t, err)
	assert.Equal(t, got, got2)
}

func TestEncode_Scalars(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"null", nil, "null"},
		{"true", true, "true"},
		{"false", false, "false"},
		{"int", 42, "42"},
		{"negative int", -7, "-7"},
		{"max uint64", uint64(math.MaxUint64), "18446744073709551615"},
		{"string", "hello", `"hello"`},
		{"simple float", 1.5, "1.5"},
		{"integral float keeps point", 1.0, "1.0"},
		{"negative zero is distinct", math.Copysign(0, -1), "-0.0"},
		{"positive zero", 0.0, "0.0"},
		{"small fixed", 0.0001, "0.0001"},
		{"small exponent", 0.00001, "1e-05"},
		{"large fixed", 1e15, "1000000000000000.0"},
		{"large exponent", 1e16, "1e+16"},
		{"shortest round trip", 0.1, "0.1"},
		{"long mantissa", 1.2345678901234567e+17, "1.2345678901234568e+17"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestEncode_Strings(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"non-ascii literal", "café", `"café"`},
		{"cjk literal", "日本", `"日本"`},
		{"quote", `a"b`, `"a\"b"`},
		{"backslash", `a\b`, `"a\\b"`},
		{"newline", "a\nb", `"a\nb"`},
		{"tab", "a\tb", `"a\tb"`},
		{"control", "\x01", `"\u0001"`},
		{"unit separator", "\x1f", `"\u001f"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestEncode_Nested(t *testing.T) {
	got, err := Encode(map[string]any{
		"z": []any{3, 1, 2},
		"a": map[string]any{"y": nil, "x": true},
	})
	require.NoError(t, err)
	// Sequence order preserved, object keys sorted at every level.
	assert.Equal(t, `{"a":{"x":true,"y":null},"z":[3,1,2]}`, string(got))
}

func TestEncode_TypedContainers(t *testing.T) {
	got, err := Encode(map[string]float64{"lr": 0.01})
	require.NoError(t, err)
	assert.Equal(t, `{"lr":0.01}`, string(got))

	got, err = Encode([]string{"b", "a"})
	require.NoError(t, err)
	assert.Equal(t, `["b","a"]`, string(got))
}

func TestCanonicalize_Rejections(t *testing.T) {
	t.Run("nan", func(t *testing.T) {
		_, err := Canonicalize(math.NaN())
		require.Error(t, err)
		assert.True(t, errors.Is(err, contracts.ErrNonFiniteValue))
	})

	t.Run("infinity", func(t *testing.T) {
		_, err := Canonicalize(math.Inf(1))
		require.Error(t, err)
		assert.True(t, errors.Is(err, contracts.ErrNonFiniteValue))
	})

	t.Run("nested nan", func(t *testing.T) {
		_, err := Canonicalize(map[string]any{"v": math.NaN()})
		require.Error(t, err)
		assert.True(t, errors.Is(err, contracts.ErrNonFiniteValue))
	})

	t.Run("unsupported type", func(t *testing.T) {
		_, err := Canonicalize(make(chan int))
		require.Error(t, err)
		assert.True(t, errors.Is(err, contracts.ErrUnsupportedType))
	})

	t.Run("non-string map keys", func(t *testing.T) {
		_, err := Canonicalize(map[int]any{1: "a"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, contracts.ErrUnsupportedType))
	})

	t.Run("raw bytes", func(t *testing.T) {
		_, err := Canonicalize([]byte("blob"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, contracts.ErrUnsupportedType))
	})
}

func TestScalar(t *testing.T) {
	t.Run("accepts scalars", func(t *testing.T) {
		for _, v := range []any{true, 1, int64(-3), uint64(9), 1.5, "s"} {
			_, err := Scalar(v)
			require.NoError(t, err, "value %v", v)
		}
	})

	t.Run("rejects containers at scalar level", func(t *testing.T) {
		for _, v := range []any{[]any{1}, map[string]any{"a": 1}, nil, struct{}{}} {
			_, err := Scalar(v)
			require.Error(t, err, "value %v", v)
			assert.True(t, errors.Is(err, contracts.ErrUnsupportedType))
		}
	})

	t.Run("rejects non-finite", func(t *testing.T) {
		_, err := Scalar(math.Inf(-1))
		require.Error(t, err)
		assert.True(t, errors.Is(err, contracts.ErrNonFiniteValue))
	})
}

func TestEncodeValue_HandBuiltNaN(t *testing.T) {
	_, err := EncodeValue(Float(math.NaN()))
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrNonFiniteValue))
}
