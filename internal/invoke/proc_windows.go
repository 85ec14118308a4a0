//go:build windows

package invoke

import (
	"os/exec"
	"syscall"
)

func configureProcess(cmd *exec.Cmd) {}

// setVerbatimCommandLine hands cmd.exe the command line as built, since the
// runtime's own argument escaping would undo the caret escaping
func setVerbatimCommandLine(cmd *exec.Cmd, line string) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.CmdLine = line
}
