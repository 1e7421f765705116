package types

import (
	"fmt"
	"math"

	"github.com/modelops/contracts"
	"github.com/modelops/contracts/canonical"
	"github.com/modelops/contracts/digest"
)

// MaxDiagnosticsBytes caps the serialized size of trial diagnostics to
// keep result records bounded.
const MaxDiagnosticsBytes = 64 * 1024

// TrialStatus is the terminal state of a trial evaluation.
type TrialStatus string

const (
	TrialCompleted TrialStatus = "completed"
	TrialFailed    TrialStatus = "failed"
	TrialTimeout   TrialStatus = "timeout"
)

// Valid reports whether the status is one of the known terminal states.
func (s TrialStatus) Valid() bool {
	switch s {
	case TrialCompleted, TrialFailed, TrialTimeout:
		return true
	}
	return false
}

// TrialResult records the outcome of evaluating one parameter set.
// Construct with NewTrialResult; the zero value is not valid.
type TrialResult struct {
	ParamID     digest.Digest
	Loss        float64
	Diagnostics map[string]any
	Status      TrialStatus
}

// NewTrialResult validates and builds a trial result. A completed trial
// must carry a finite loss; failed and timed-out trials may not (NaN is
// conventional there). Diagnostics must canonicalize and stay within
// MaxDiagnosticsBytes.
func NewTrialResult(paramID digest.Digest, loss float64, diagnostics map[string]any, status TrialStatus) (TrialResult, error) {
	const op = "types.NewTrialResult"

	if !paramID.Valid() {
		return TrialResult{}, contracts.NewInvalidDigestFormatError(op, paramID.String())
	}
	if !status.Valid() {
		return TrialResult{}, contracts.NewValidationError(op, fmt.Errorf("unknown trial status %q", status))
	}
	if status == TrialCompleted && !isFinite(loss) {
		return TrialResult{}, contracts.NewValidationError(op,
			fmt.Errorf("loss must be finite for completed trials, got %v", loss))
	}

	if len(diagnostics) > 0 {
		encoded, err := canonical.Encode(diagnostics)
		if err != nil {
			return TrialResult{}, contracts.NewValidationError(op, fmt.Errorf("diagnostics: %w", err))
		}
		if len(encoded) > MaxDiagnosticsBytes {
			return TrialResult{}, contracts.NewValidationError(op,
				fmt.Errorf("diagnostics too large: %d bytes exceeds %d", len(encoded), MaxDiagnosticsBytes))
		}
	}

	diag := make(map[string]any, len(diagnostics))
	for k, v := range diagnostics {
		diag[k] = v
	}
	return TrialResult{ParamID: paramID, Loss: loss, Diagnostics: diag, Status: status}, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
