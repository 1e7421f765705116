package contracts

import (
	"errors"
	"fmt"
)

// Sentinel errors for contract violations.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrUnsupportedType indicates a value outside the canonical domain
	// (null, bool, int, finite float, string, sequence, mapping) was
	// passed to the canonicalizer.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrNonFiniteValue indicates NaN or an infinity was supplied as a
	// scalar or parameter value.
	ErrNonFiniteValue = errors.New("non-finite value")

	// ErrMalformedGrammar indicates an entrypoint string does not match
	// any supported grammar, or one of its components fails validation.
	ErrMalformedGrammar = errors.New("malformed entrypoint grammar")

	// ErrBundleMismatch indicates an entrypoint's embedded digest prefix
	// does not match the supplied bundle reference.
	ErrBundleMismatch = errors.New("entrypoint does not match bundle")

	// ErrDigestTooShort indicates a digest shorter than depth*width was
	// passed to shard-path computation.
	ErrDigestTooShort = errors.New("digest too short")

	// ErrInvalidDigestFormat indicates a string expected to be a
	// 64-character lowercase hex digest failed the length/charset check.
	ErrInvalidDigestFormat = errors.New("invalid digest format")

	// ErrValidation indicates a contract container type failed its
	// construction-time validation.
	ErrValidation = errors.New("contract validation failed")
)

// Error kinds categorize errors by their type.
const (
	// KindUnsupportedType represents canonicalization failures on values
	// outside the supported domain.
	KindUnsupportedType = "unsupported_type"

	// KindNonFiniteValue represents NaN/Infinity rejections.
	KindNonFiniteValue = "non_finite_value"

	// KindMalformedGrammar represents entrypoint grammar failures.
	KindMalformedGrammar = "malformed_grammar"

	// KindBundleMismatch represents entrypoint/bundle digest mismatches.
	KindBundleMismatch = "bundle_mismatch"

	// KindDigestTooShort represents shard-path length failures.
	KindDigestTooShort = "digest_too_short"

	// KindInvalidDigestFormat represents digest length/charset failures.
	KindInvalidDigestFormat = "invalid_digest_format"

	// KindValidation represents container-type validation failures.
	KindValidation = "validation"
)

// ContractError is a structured error type that wraps underlying errors
// with the operation that failed and the category of failure.
//
// ContractError implements the error interface and supports error
// unwrapping, making it compatible with errors.Is() and errors.As().
//
// Example usage:
//
//	err := &ContractError{
//		Op:   "provenance.ParamID",
//		Kind: KindNonFiniteValue,
//		Err:  ErrNonFiniteValue,
//	}
type ContractError struct {
	// Op is the operation that failed (e.g., "canonical.Encode",
	// "entrypoint.Parse").
	Op string

	// Kind categorizes the error (e.g., KindMalformedGrammar).
	Kind string

	// Err is the underlying error that caused this error.
	Err error

	// Context provides additional context about the error (optional).
	Context map[string]any
}

// Error implements the error interface, returning a formatted message
// that includes the operation, kind, and underlying error.
func (e *ContractError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("contracts: %s: %s", e.Op, e.Kind)
	}

	if len(e.Context) > 0 {
		return fmt.Sprintf("contracts: %s (%s): %v [context: %+v]", e.Op, e.Kind, e.Err, e.Context)
	}

	return fmt.Sprintf("contracts: %s (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error, allowing errors.Is() and
// errors.As() to work correctly with wrapped errors.
func (e *ContractError) Unwrap() error {
	return e.Err
}

// Is implements error matching for ContractError, allowing comparison
// based on the underlying error or a kind-only target.
func (e *ContractError) Is(target error) bool {
	if target == nil {
		return false
	}

	if t, ok := target.(*ContractError); ok {
		if t.Kind != "" && e.Kind == t.Kind {
			if t.Op == "" || e.Op == t.Op {
				return true
			}
		}
	}

	return errors.Is(e.Err, target)
}

// WithContext returns a copy of the error with the provided context added.
func (e *ContractError) WithContext(ctx map[string]any) *ContractError {
	newErr := *e
	if newErr.Context == nil {
		newErr.Context = make(map[string]any)
	}
	for k, v := range ctx {
		newErr.Context[k] = v
	}
	return &newErr
}

// NewUnsupportedTypeError creates a ContractError with KindUnsupportedType.
// The offending Go type is recorded in the message.
func NewUnsupportedTypeError(op string, value any) *ContractError {
	return &ContractError{
		Op:   op,
		Kind: KindUnsupportedType,
		Err:  fmt.Errorf("%w: %T", ErrUnsupportedType, value),
	}
}

// NewNonFiniteValueError creates a ContractError with KindNonFiniteValue.
func NewNonFiniteValueError(op string, value float64) *ContractError {
	return &ContractError{
		Op:   op,
		Kind: KindNonFiniteValue,
		Err:  fmt.Errorf("%w: %v", ErrNonFiniteValue, value),
	}
}

// NewMalformedGrammarError creates a ContractError with KindMalformedGrammar.
func NewMalformedGrammarError(op string, err error) *ContractError {
	return &ContractError{
		Op:   op,
		Kind: KindMalformedGrammar,
		Err:  fmt.Errorf("%w: %w", ErrMalformedGrammar, err),
	}
}

// NewBundleMismatchError creates a ContractError with KindBundleMismatch.
func NewBundleMismatchError(op string, err error) *ContractError {
	return &ContractError{
		Op:   op,
		Kind: KindBundleMismatch,
		Err:  fmt.Errorf("%w: %w", ErrBundleMismatch, err),
	}
}

// NewDigestTooShortError creates a ContractError with KindDigestTooShort.
func NewDigestTooShortError(op string, need, got int) *ContractError {
	return &ContractError{
		Op:   op,
		Kind: KindDigestTooShort,
		Err:  fmt.Errorf("%w: need at least %d chars, got %d", ErrDigestTooShort, need, got),
	}
}

// NewInvalidDigestFormatError creates a ContractError with
// KindInvalidDigestFormat.
func NewInvalidDigestFormatError(op, digest string) *ContractError {
	return &ContractError{
		Op:   op,
		Kind: KindInvalidDigestFormat,
		Err:  fmt.Errorf("%w: %q", ErrInvalidDigestFormat, digest),
	}
}

// NewValidationError creates a ContractError with KindValidation.
func NewValidationError(op string, err error) *ContractError {
	return &ContractError{
		Op:   op,
		Kind: KindValidation,
		Err:  fmt.Errorf("%w: %w", ErrValidation, err),
	}
}
