// Package jobs defines the job containers executed by the
// orchestration infrastructure: simulation jobs with pre-determined
// task lists and calibration jobs driving an adaptive search.
//
// Jobs form a discriminated union over the Job interface; JobType is
// the discriminator used for dispatch and blob-key layout.
package jobs
