package models

// ExecutionResult is the outcome of a single command cycle. A non-zero
// exit code is valid data, not an error.
type ExecutionResult struct {
	// ExitCode is the exit code reported by the command
	ExitCode int `json:"exit_code"`

	// Stdout is the accumulated output of the command
	Stdout string `json:"stdout"`

	// Stderr is the accumulated error output of the command
	Stderr string `json:"stderr"`
}

// Success reports whether the command exited with code 0.
func (r *ExecutionResult) Success() bool {
	return r.ExitCode == 0
}
