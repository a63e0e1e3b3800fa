package utils

import (
	"io"
	"os/exec"
)

// The Executor interface abstracts foreign process invocation so that
// provisioning code can be exercised against a mock in tests.
type Executor interface {
	// Run executes cmd with arguments and returns its output. When combined
	// is true, stderr is folded into the returned output.
	Run(combined bool, cmd string, arguments ...string) ([]byte, error)
	// Pipe executes cmd with arguments, feeding stdin to the process.
	Pipe(stdin io.Reader, combined bool, cmd string, arguments ...string) ([]byte, error)
	// LookPath reports the full path of cmd if it is present on PATH.
	LookPath(cmd string) (string, error)
}

type CommandExecutor struct {
}

func (c *CommandExecutor) Run(combined bool, cmd string, arguments ...string) ([]byte, error) {
	command := exec.Command(cmd, arguments...)
	if combined {
		return command.CombinedOutput()
	}
	return command.Output()
}

func (c *CommandExecutor) Pipe(stdin io.Reader, combined bool, cmd string, arguments ...string) ([]byte, error) {
	command := exec.Command(cmd, arguments...)
	command.Stdin = stdin
	if combined {
		return command.CombinedOutput()
	}
	return command.Output()
}

func (c *CommandExecutor) LookPath(cmd string) (string, error) {
	return exec.LookPath(cmd)
}

var Exec Executor = &CommandExecutor{}
