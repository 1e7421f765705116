package contracts

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContractError_Error(t *testing.T) {
	t.Run("with underlying error", func(t *testing.T) {
		err := &ContractError{
			Op:   "canonical.Encode",
			Kind: KindNonFiniteValue,
			Err:  ErrNonFiniteValue,
		}
		assert.Contains(t, err.Error(), "canonical.Encode")
		assert.Contains(t, err.Error(), KindNonFiniteValue)
		assert.Contains(t, err.Error(), "non-finite value")
	})

	t.Run("without underlying error", func(t *testing.T) {
		err := &ContractError{Op: "digest.Parse", Kind: KindInvalidDigestFormat}
		assert.Equal(t, "contracts: digest.Parse: invalid_digest_format", err.Error())
	})

	t.Run("with context", func(t *testing.T) {
		err := &ContractError{
			Op:   "entrypoint.Parse",
			Kind: KindMalformedGrammar,
			Err:  ErrMalformedGrammar,
		}
		err = err.WithContext(map[string]any{"input": "pkg"})
		assert.Contains(t, err.Error(), "input")
	})
}

func TestContractError_Is(t *testing.T) {
	err := NewMalformedGrammarError("entrypoint.Parse", fmt.Errorf("no separator"))

	// Sentinel matching through the wrap chain.
	require.True(t, errors.Is(err, ErrMalformedGrammar))
	require.False(t, errors.Is(err, ErrBundleMismatch))

	// Kind-only target matching.
	assert.True(t, errors.Is(err, &ContractError{Kind: KindMalformedGrammar}))
	assert.False(t, errors.Is(err, &ContractError{Kind: KindBundleMismatch}))

	// Kind+Op target matching.
	assert.True(t, errors.Is(err, &ContractError{Op: "entrypoint.Parse", Kind: KindMalformedGrammar}))
	assert.False(t, errors.Is(err, &ContractError{Op: "entrypoint.Format", Kind: KindMalformedGrammar}))
}

func TestContractError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := NewValidationError("jobs.SimJob.Validate", inner)

	require.True(t, errors.Is(err, ErrValidation))
	require.True(t, errors.Is(err, inner))

	var ce *ContractError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, KindValidation, ce.Kind)
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *ContractError
		kind     string
		sentinel error
	}{
		{"unsupported type", NewUnsupportedTypeError("canonical.Canonicalize", make(chan int)), KindUnsupportedType, ErrUnsupportedType},
		{"non-finite", NewNonFiniteValueError("canonical.Scalar", 0), KindNonFiniteValue, ErrNonFiniteValue},
		{"grammar", NewMalformedGrammarError("entrypoint.Parse", errors.New("bad")), KindMalformedGrammar, ErrMalformedGrammar},
		{"bundle mismatch", NewBundleMismatchError("entrypoint.ValidateMatchesBundle", errors.New("bad")), KindBundleMismatch, ErrBundleMismatch},
		{"too short", NewDigestTooShortError("digest.Shard", 4, 3), KindDigestTooShort, ErrDigestTooShort},
		{"digest format", NewInvalidDigestFormatError("digest.Parse", "xyz"), KindInvalidDigestFormat, ErrInvalidDigestFormat},
		{"validation", NewValidationError("types.TrialResult", errors.New("bad")), KindValidation, ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.err.Kind)
			assert.True(t, errors.Is(tt.err, tt.sentinel))
		})
	}
}
