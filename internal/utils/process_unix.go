//go:build unix

package utils

import (
	"os"
	"os/exec"
)

// SetGracefulStop makes context cancellation interrupt the child instead of killing it,
// giving the server a chance to save before exiting.
func SetGracefulStop(cmd *exec.Cmd) {
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
}
