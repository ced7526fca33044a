package buildenv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	logs "github.com/danmuck/espctl/internal/logging"
	"github.com/danmuck/espctl/internal/tools"
	"github.com/google/uuid"
)

var ErrMissingExecutable = errors.New("buildenv: missing executable")

// Invocation is the fixed command the launcher runs.
type Invocation struct {
	Executable string
	Args       []string
	WorkDir    string
}

// DefaultInvocation runs `idf.py build` through the ESP-IDF python env.
func DefaultInvocation() Invocation {
	return Invocation{
		Executable: idfPythonEnv + `\Scripts\python.exe`,
		Args:       []string{idfPath + `\tools\idf.py`, "build"},
		WorkDir:    `C:\DayZ_servertracker`,
	}
}

// LauncherConfig wires a build launch. Nil hooks fall back to the host.
type LauncherConfig struct {
	Env        Config
	Invocation Invocation
	Runner     tools.CommandRunner
	Environ    func() []string
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
}

func DefaultLauncherConfig() LauncherConfig {
	return LauncherConfig{
		Env:        DefaultConfig(),
		Invocation: DefaultInvocation(),
	}
}

// Launcher runs one build with a sanitized environment.
type Launcher struct {
	env        Config
	invocation Invocation
	runner     tools.CommandRunner
	environ    func() []string
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
}

func NewLauncher(cfg LauncherConfig) (*Launcher, error) {
	if strings.TrimSpace(cfg.Invocation.Executable) == "" {
		return nil, ErrMissingExecutable
	}
	if err := cfg.Env.Validate(); err != nil {
		return nil, err
	}

	l := &Launcher{
		env:        cfg.Env,
		invocation: cfg.Invocation,
		runner:     cfg.Runner,
		environ:    cfg.Environ,
		stdin:      cfg.Stdin,
		stdout:     cfg.Stdout,
		stderr:     cfg.Stderr,
	}
	if l.runner == nil {
		l.runner = tools.ExecRunner{}
	}
	if l.environ == nil {
		l.environ = os.Environ
	}
	if l.stdin == nil {
		l.stdin = os.Stdin
	}
	if l.stdout == nil {
		l.stdout = os.Stdout
	}
	if l.stderr == nil {
		l.stderr = os.Stderr
	}
	return l, nil
}

// Environment returns the environment the child would receive.
func (l *Launcher) Environment() Env {
	return Build(l.environ(), l.env)
}

// Launch runs the build once and returns the child's exit code.
// A non-nil error with a non-zero code means the child failed or never ran.
func (l *Launcher) Launch(ctx context.Context) (int, error) {
	runID := uuid.NewString()
	env := l.Environment()
	if dropped := env.Dropped(); len(dropped) > 0 {
		logs.Debugf("buildenv.Launcher.Launch filtered run_id=%s keys=%q", runID, dropped)
	}
	logs.Infof(
		"buildenv.Launcher.Launch start run_id=%s exe=%q args=%q dir=%q env=%d",
		runID,
		l.invocation.Executable,
		l.invocation.Args,
		l.invocation.WorkDir,
		env.Len(),
	)

	started := time.Now()
	code, err := l.runner.Run(ctx, tools.Command{
		Path:   l.invocation.Executable,
		Args:   append([]string(nil), l.invocation.Args...),
		Env:    env.Environ(),
		Dir:    l.invocation.WorkDir,
		Stdin:  l.stdin,
		Stdout: l.stdout,
		Stderr: l.stderr,
	})
	elapsed := time.Since(started).Round(time.Millisecond)
	if err != nil && code == 0 {
		code = 1
	}
	if err != nil {
		logs.Warnf("buildenv.Launcher.Launch failed run_id=%s exit_code=%d elapsed=%s err=%v", runID, code, elapsed, err)
		return code, fmt.Errorf("run %s: %w", l.invocation.Executable, err)
	}
	logs.Infof("buildenv.Launcher.Launch done run_id=%s exit_code=%d elapsed=%s", runID, code, elapsed)
	return code, nil
}
