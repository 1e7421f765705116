package types

import (
	"fmt"

	"github.com/modelops/contracts"
	"github.com/modelops/contracts/canonical"
	"github.com/modelops/contracts/digest"
	"github.com/modelops/contracts/provenance"
)

// ValidateScalar checks that a parameter value is an allowed scalar:
// bool, integer, finite float, or string.
func ValidateScalar(v any) error {
	_, err := canonical.Scalar(v)
	return err
}

// UniqueParameterSet pairs a parameter mapping with its stable ID.
// Build it with NewParameterSet to compute the ID, or FromParts when
// rehydrating previously serialized data.
type UniqueParameterSet struct {
	Params  map[string]any
	ParamID digest.Digest
}

// NewParameterSet validates the parameters and computes their ID.
func NewParameterSet(params map[string]any) (UniqueParameterSet, error) {
	id, err := provenance.ParamID(params)
	if err != nil {
		return UniqueParameterSet{}, err
	}
	return UniqueParameterSet{Params: copyParams(params), ParamID: id}, nil
}

// FromParts builds a parameter set from an externally supplied ID
// without recomputing it. The parameters are still validated as scalars
// and the ID must be well-formed, but no consistency check runs; call
// Verify when the pairing needs to be trusted.
func FromParts(params map[string]any, id digest.Digest) (UniqueParameterSet, error) {
	const op = "types.FromParts"
	if !id.Valid() {
		return UniqueParameterSet{}, contracts.NewInvalidDigestFormatError(op, id.String())
	}
	for k, v := range params {
		if err := ValidateScalar(v); err != nil {
			return UniqueParameterSet{}, contracts.NewValidationError(op, fmt.Errorf("parameter %q: %w", k, err))
		}
	}
	return UniqueParameterSet{Params: copyParams(params), ParamID: id}, nil
}

// Verify recomputes the parameter ID and checks it against the stored
// one.
func (s UniqueParameterSet) Verify() error {
	id, err := provenance.ParamID(s.Params)
	if err != nil {
		return err
	}
	if id != s.ParamID {
		return contracts.NewValidationError("types.Verify",
			fmt.Errorf("param_id %s does not match recomputed %s", s.ParamID, id))
	}
	return nil
}

func copyParams(params map[string]any) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}
