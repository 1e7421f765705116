package jobs

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"

	"github.com/modelops/contracts"
	"github.com/modelops/contracts/digest"
	"github.com/modelops/contracts/simulation"
)

// JobType discriminates the job union for dispatch and serialization.
type JobType string

const (
	JobSimulation  JobType = "simulation"
	JobCalibration JobType = "calibration"
)

// Job is the contract every job kind satisfies.
type Job interface {
	JobID() string
	BundleRef() string
	JobType() JobType

	// BlobKey is the canonical blob-storage key for the serialized job.
	BlobKey() string

	// Validate checks the job configuration; it returns a
	// KindValidation contract error on the first problem found.
	Validate() error
}

// NewJobID generates a fresh unique job identifier.
func NewJobID() string {
	return uuid.NewString()
}

var bundleRefRE = regexp.MustCompile(`^sha256:[a-f0-9]{64}$`)

func validateCommon(op, jobID, bundleRef string) error {
	if jobID == "" {
		return contracts.NewValidationError(op, fmt.Errorf("job_id must be non-empty"))
	}
	if !bundleRefRE.MatchString(bundleRef) {
		return contracts.NewValidationError(op, fmt.Errorf("bundle_ref must be sha256:<64 hex>, got %q", bundleRef))
	}
	return nil
}

// TargetSpec describes the empirical data a calibration matches and how
// loss is computed against it.
type TargetSpec struct {
	Data         map[string]any     `yaml:"data"`
	LossFunction string             `yaml:"loss_function"`
	Weights      map[string]float64 `yaml:"weights,omitempty"`
	Metadata     map[string]any     `yaml:"metadata,omitempty"`
}

// SimJob runs a fixed set of simulation tasks in parallel; all tasks
// are known upfront and share the job's bundle.
type SimJob struct {
	ID        string
	Bundle    string
	Tasks     []simulation.SimTask
	Metadata  map[string]any
	Priority  int
	Resources map[string]any
}

func (j SimJob) JobID() string     { return j.ID }
func (j SimJob) BundleRef() string { return j.Bundle }
func (j SimJob) JobType() JobType  { return JobSimulation }

func (j SimJob) BlobKey() string {
	return fmt.Sprintf("jobs/%s/%s.json", j.JobType(), j.ID)
}

func (j SimJob) Validate() error {
	const op = "jobs.SimJob.Validate"
	if err := validateCommon(op, j.ID, j.Bundle); err != nil {
		return err
	}
	if len(j.Tasks) == 0 {
		return contracts.NewValidationError(op, fmt.Errorf("simulation job must have at least one task"))
	}
	for i, task := range j.Tasks {
		if task.BundleRef != j.Bundle {
			return contracts.NewValidationError(op,
				fmt.Errorf("task %d uses bundle %q, job requires %q", i, task.BundleRef, j.Bundle))
		}
	}
	return nil
}

// TaskCount returns the total number of tasks.
func (j SimJob) TaskCount() int { return len(j.Tasks) }

// TaskGroups groups tasks by parameter ID so replicates of the same
// parameter set can be aggregated together.
func (j SimJob) TaskGroups() map[digest.Digest][]simulation.SimTask {
	groups := make(map[digest.Digest][]simulation.SimTask)
	for _, task := range j.Tasks {
		id := task.Params.ParamID
		groups[id] = append(groups[id], task)
	}
	return groups
}

// CalibrationJob drives an adaptive parameter search via the ask/tell
// protocol until convergence or the iteration cap.
type CalibrationJob struct {
	ID                  string
	Bundle              string
	Algorithm           string
	Targets             TargetSpec
	MaxIterations       int
	ConvergenceCriteria map[string]float64
	AlgorithmConfig     map[string]any
}

func (j CalibrationJob) JobID() string     { return j.ID }
func (j CalibrationJob) BundleRef() string { return j.Bundle }
func (j CalibrationJob) JobType() JobType  { return JobCalibration }

func (j CalibrationJob) BlobKey() string {
	return fmt.Sprintf("jobs/%s/%s.json", j.JobType(), j.ID)
}

func (j CalibrationJob) Validate() error {
	const op = "jobs.CalibrationJob.Validate"
	if err := validateCommon(op, j.ID, j.Bundle); err != nil {
		return err
	}
	if j.Algorithm == "" {
		return contracts.NewValidationError(op, fmt.Errorf("algorithm must be specified"))
	}
	if j.MaxIterations <= 0 {
		return contracts.NewValidationError(op, fmt.Errorf("max_iterations must be positive, got %d", j.MaxIterations))
	}
	if j.Targets.LossFunction == "" {
		return contracts.NewValidationError(op, fmt.Errorf("target spec must name a loss function"))
	}
	return nil
}
