// Package environment tracks execution environments for
// reproducibility.
//
// RuntimeEnvironment captures the factors that affect simulation
// results beyond code and parameters (runtime version, platform,
// dependency versions, container image, CUDA, RNG algorithm, thread
// count) and derives a stable digest over them, so cached results are
// only reused when the environment matches.
//
// BundleEnvironment is the configuration contract between the
// infrastructure provisioner and the bundle tooling: which OCI registry
// and which blob storage a named environment uses. Configurations live
// as YAML files under ~/.modelops/bundle-env and may carry credentials,
// so they are written with 0600 permissions.
package environment
