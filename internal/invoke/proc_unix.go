//go:build !windows

package invoke

import (
	"os/exec"
	"syscall"
)

// configureProcess starts the child in its own process group so a timeout
// kills everything it spawned, not just the direct child
func configureProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}

// setVerbatimCommandLine is a no-op off Windows: argv is passed as a vector
func setVerbatimCommandLine(cmd *exec.Cmd, line string) {}
