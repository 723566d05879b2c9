package cli

// CommandError carries the exit code of a command that already reported its
// problems on stderr, so main exits without printing them a second time.
type CommandError struct {
	exitCode int
	reason   string
}

// NewCommandError creates a CommandError. The reason is a short summary such
// as "2 malformed rows".
func NewCommandError(exitCode int, reason string) *CommandError {
	return &CommandError{exitCode: exitCode, reason: reason}
}

func (e *CommandError) Error() string {
	if e.reason == "" {
		return "command failed"
	}
	return e.reason
}

// ExitCode returns the process exit code.
func (e *CommandError) ExitCode() int {
	return e.exitCode
}
