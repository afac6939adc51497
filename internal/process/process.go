// Package process starts helper subprocesses in their own process group so
// a cancelled conversion can tear down the whole tree.
package process

import (
	"context"
	"os/exec"
)

// Command builds a command bound to ctx. The child runs in a new process
// group, and cancelling ctx kills that group instead of just the leader.
func Command(ctx context.Context, name string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...)
	setGroup(cmd)
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		KillProcessGroup(cmd.Process.Pid)
		return cmd.Process.Kill()
	}
	return cmd
}
