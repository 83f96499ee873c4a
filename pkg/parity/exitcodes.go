// Package parity provides public constants for tools that drive the
// colorparity CLI, such as CI wrappers checking its exit status.
package parity

// Exit codes returned by the colorparity CLI.
const (
	// ExitSuccess indicates the run met its pass gate and duration limit.
	ExitSuccess = 0

	// ExitFailure indicates a runtime failure or a run that missed its gate.
	ExitFailure = 1

	// ExitConfigError indicates invalid configuration, corpus, tolerances or usage.
	ExitConfigError = 2

	// ExitEnvError indicates an environment error such as a missing engine binary.
	ExitEnvError = 3
)
