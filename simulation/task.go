package simulation

import (
	"fmt"
	"sort"

	"github.com/modelops/contracts"
	"github.com/modelops/contracts/digest"
	"github.com/modelops/contracts/entrypoint"
	"github.com/modelops/contracts/provenance"
	"github.com/modelops/contracts/types"
)

// SimTask specifies a single deterministic simulation run. The same
// task always produces the same outputs.
//
// Outputs nil means "all outputs"; a non-nil slice selects specific
// extractors and is normalized to sorted order by NewSimTask.
type SimTask struct {
	BundleRef  string
	Entrypoint entrypoint.EntryPointID
	Params     types.UniqueParameterSet
	Seed       uint64
	Outputs    []string
}

// NewSimTask validates and normalizes a task specification. The
// entrypoint must parse and the bundle reference must be non-empty;
// outputs are copied and sorted so task identity never depends on
// selection order.
func NewSimTask(bundleRef string, ep entrypoint.EntryPointID, params types.UniqueParameterSet, seed uint64, outputs []string) (SimTask, error) {
	const op = "simulation.NewSimTask"

	if bundleRef == "" {
		return SimTask{}, contracts.NewValidationError(op, fmt.Errorf("bundle_ref must be non-empty"))
	}
	if _, err := entrypoint.Parse(ep); err != nil {
		return SimTask{}, err
	}
	if err := params.Verify(); err != nil {
		return SimTask{}, err
	}

	var sorted []string
	if outputs != nil {
		sorted = make([]string, len(outputs))
		copy(sorted, outputs)
		sort.Strings(sorted)
	}

	return SimTask{
		BundleRef:  bundleRef,
		Entrypoint: ep,
		Params:     params,
		Seed:       seed,
		Outputs:    sorted,
	}, nil
}

// SimRoot derives the simulation root for this task. The root excludes
// the requested outputs, so tasks that differ only in output selection
// share it.
func (t SimTask) SimRoot() (digest.Digest, error) {
	return provenance.SimRoot(provenance.SimRootInput{
		BundleRef:  t.BundleRef,
		Params:     t.Params.Params,
		Seed:       t.Seed,
		Entrypoint: t.Entrypoint,
	})
}

// TaskID derives the identifier for this specific materialization:
// simulation root plus output selection.
func (t SimTask) TaskID() (digest.Digest, error) {
	root, err := t.SimRoot()
	if err != nil {
		return "", err
	}
	return provenance.TaskID(root, t.Entrypoint, t.Outputs)
}
