package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/espctl/internal/config"
	"github.com/danmuck/espctl/internal/logging"
	"github.com/danmuck/espctl/internal/serialmon"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run always reports success once the monitor has started; the outcome
// of a session is printed to stdout by the monitor itself.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sermon", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "optional config.toml overriding the built-in device settings")
	list := fs.Bool("list", false, "list available serial ports and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logging.ConfigureRuntime()
	if *list {
		ports, err := serialmon.ListPorts()
		if err != nil {
			fmt.Fprintf(stderr, "sermon: %v\n", err)
			return 1
		}
		for _, p := range ports {
			fmt.Fprintln(stdout, p)
		}
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "sermon: %v\n", err)
		return 1
	}
	monitor, err := serialmon.NewMonitor(serialmon.MonitorConfig{
		Serial: cfg.Monitor,
		Out:    stdout,
	})
	if err != nil {
		fmt.Fprintf(stderr, "sermon: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	_ = monitor.Run(ctx)
	return 0
}
