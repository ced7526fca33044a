package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"

	"github.com/danmuck/espctl/internal/buildenv"
	"github.com/danmuck/espctl/internal/config"
	"github.com/danmuck/espctl/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("idfbuild", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "optional config.toml overriding the built-in ESP-IDF layout")
	printEnv := fs.Bool("print-env", false, "print the sanitized build environment and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logging.ConfigureRuntime()
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "idfbuild: %v\n", err)
		return 1
	}
	launcher, err := buildenv.NewLauncher(buildenv.LauncherConfig{
		Env:        cfg.Env,
		Invocation: cfg.Invocation,
		Stdout:     stdout,
		Stderr:     stderr,
	})
	if err != nil {
		fmt.Fprintf(stderr, "idfbuild: %v\n", err)
		return 1
	}

	if *printEnv {
		for _, kv := range launcher.Environment().Environ() {
			fmt.Fprintln(stdout, kv)
		}
		return 0
	}

	// The child shares the console and gets the interrupt itself; stay
	// alive until it exits so its status is what gets reported.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	defer signal.Stop(sigs)

	code, err := launcher.Launch(context.Background())
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintf(stderr, "idfbuild: %v\n", err)
		}
	}
	return code
}
