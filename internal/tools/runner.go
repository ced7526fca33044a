package tools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
)

var ErrWorkDirMissing = errors.New("tools: working directory missing")

// Command describes one blocking child-process launch.
// A nil Env inherits nothing; callers pass the full environment explicitly.
type Command struct {
	Path   string
	Args   []string
	Env    []string
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// CommandRunner abstracts child-process execution for launchers.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) (int, error)
}

// ExecRunner executes commands on the local host.
type ExecRunner struct{}

// Run waits for the child and maps its termination to an exit code:
// the child's own status, 127 when the executable cannot be started,
// 1 for any other launch failure.
func (r ExecRunner) Run(ctx context.Context, c Command) (int, error) {
	if c.Dir != "" {
		info, err := os.Stat(c.Dir)
		if err != nil {
			return 1, fmt.Errorf("%w: %v", ErrWorkDirMissing, err)
		}
		if !info.IsDir() {
			return 1, fmt.Errorf("%w: %s is not a directory", ErrWorkDirMissing, c.Dir)
		}
	}

	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Env = c.Env
	if cmd.Env == nil {
		cmd.Env = []string{}
	}
	cmd.Dir = c.Dir
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			code = 1
		}
		return code, err
	}

	exitCode := 1
	var execErr *exec.Error
	var pathErr *fs.PathError
	if errors.As(err, &execErr) {
		exitCode = 127
	} else if errors.As(err, &pathErr) && errors.Is(pathErr.Err, fs.ErrNotExist) {
		exitCode = 127
	}
	return exitCode, err
}
