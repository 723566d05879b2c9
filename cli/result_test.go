package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestCommandError(t *testing.T) {
	t.Run("returns exit code", func(t *testing.T) {
		err := NewCommandError(42, "")
		assert.Equal(t, 42, err.ExitCode())
	})

	t.Run("message is the reason", func(t *testing.T) {
		assert.EqualError(t, NewCommandError(1, "2 malformed rows"), "2 malformed rows")
	})

	t.Run("message without reason", func(t *testing.T) {
		assert.EqualError(t, NewCommandError(1, ""), "command failed")
	})

	t.Run("survives wrapping", func(t *testing.T) {
		err := fmt.Errorf("doctor: %w", NewCommandError(3, "broken"))
		var cmdErr *CommandError
		assert.True(t, errors.As(err, &cmdErr))
		assert.Equal(t, 3, cmdErr.ExitCode())
	})
}
