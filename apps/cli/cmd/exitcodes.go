package cmd

// Exit codes for xhrmock CLI
const (
	// ExitSuccess indicates every call loaded
	ExitSuccess = 0

	// ExitCallFailure indicates a call ended in error, timeout or abort
	ExitCallFailure = 1

	// ExitParseError indicates a fixture parsing or validation error
	ExitParseError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)
