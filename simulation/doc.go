// Package simulation defines the simulation task specification and the
// ports through which tasks move between the orchestrator and execution
// backends.
//
// SimTask is the unit of work: one deterministic simulation run,
// identified by its simulation root and, together with the requested
// outputs, its task ID. The port interfaces (SimulationService,
// ExecutionEnvironment, BundleRepository, WireFunction) keep the domain
// free of executor specifics; implementations may sit on top of any
// worker pool, container runtime, or remote service.
package simulation
