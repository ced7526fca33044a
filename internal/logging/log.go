package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

type Level = zerolog.Level

const (
	TraceLevel = zerolog.TraceLevel
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
	Disabled   = zerolog.Disabled
)

// Config describes the process-wide diagnostic logger.
// Bypass skips the console writer and emits raw JSON records.
type Config struct {
	Level     Level
	Timestamp bool
	NoColor   bool
	Bypass    bool
	Out       io.Writer
}

func DefaultConfig() Config {
	return Config{
		Level:     InfoLevel,
		Timestamp: true,
		Out:       os.Stderr,
	}
}

var (
	mu     sync.RWMutex
	logger = zerolog.Nop()
)

// New builds a logger from cfg without installing it.
func New(cfg Config) zerolog.Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	if !cfg.Bypass {
		noColor := cfg.NoColor
		if f, ok := out.(*os.File); ok {
			if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
				noColor = true
			} else if f == os.Stderr {
				out = colorable.NewColorableStderr()
			} else if f == os.Stdout {
				out = colorable.NewColorableStdout()
			}
		}
		cw := zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    noColor,
			TimeFormat: time.RFC3339,
		}
		if !cfg.Timestamp {
			cw.PartsExclude = []string{zerolog.TimestampFieldName}
		}
		out = cw
	}
	ctx := zerolog.New(out).With()
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	return ctx.Logger().Level(cfg.Level)
}

// ConfigureWith installs the process-wide logger. Later calls replace it.
func ConfigureWith(cfg Config) {
	l := New(cfg)
	mu.Lock()
	logger = l
	mu.Unlock()
}

func current() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := logger
	return &l
}

func Logf(level Level, format string, args ...any) {
	current().WithLevel(level).Msg(fmt.Sprintf(format, args...))
}

func Tracef(format string, args ...any) {
	current().Trace().Msg(fmt.Sprintf(format, args...))
}

func Debugf(format string, args ...any) {
	current().Debug().Msg(fmt.Sprintf(format, args...))
}

func Infof(format string, args ...any) {
	current().Info().Msg(fmt.Sprintf(format, args...))
}

func Warnf(format string, args ...any) {
	current().Warn().Msg(fmt.Sprintf(format, args...))
}

func Errf(format string, args ...any) {
	current().Error().Msg(fmt.Sprintf(format, args...))
}
