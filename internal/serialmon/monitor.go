package serialmon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	logs "github.com/danmuck/espctl/internal/logging"
	"github.com/google/uuid"
)

// Config is the fixed device triple plus console text.
type Config struct {
	Device       string
	Baud         int
	ReadTimeout  time.Duration
	MaxLineBytes int
	Farewell     string
}

func DefaultConfig() Config {
	return Config{
		Device:       "COM5",
		Baud:         115200,
		ReadTimeout:  500 * time.Millisecond,
		MaxLineBytes: DefaultMaxLineBytes,
		Farewell:     "\nStopped.",
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Device) == "" {
		return fmt.Errorf("%w: missing device", ErrInvalidConfig)
	}
	if c.Baud <= 0 {
		return fmt.Errorf("%w: baud=%d", ErrInvalidConfig, c.Baud)
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("%w: read_timeout=%s", ErrInvalidConfig, c.ReadTimeout)
	}
	if c.MaxLineBytes < 0 {
		return fmt.Errorf("%w: max_line_bytes=%d", ErrInvalidConfig, c.MaxLineBytes)
	}
	return nil
}

// State is the monitor lifecycle position.
type State int

const (
	StateInit State = iota
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// MonitorConfig wires a Monitor. Nil fields fall back to the host.
type MonitorConfig struct {
	Serial Config
	Opener Opener
	Out    io.Writer
}

// Monitor prints lines received on one serial device until interrupted.
type Monitor struct {
	cfg    Config
	opener Opener
	out    io.Writer
	decode func([]byte) (string, error)
	state  State
}

func NewMonitor(cfg MonitorConfig) (*Monitor, error) {
	if err := cfg.Serial.Validate(); err != nil {
		return nil, err
	}
	m := &Monitor{
		cfg:    cfg.Serial,
		opener: cfg.Opener,
		out:    cfg.Out,
		decode: DecodeLine,
	}
	if m.opener == nil {
		m.opener = SystemOpener{}
	}
	if m.out == nil {
		m.out = os.Stdout
	}
	return m, nil
}

func (m *Monitor) State() State {
	return m.state
}

// Run opens the device, prints lines until ctx is cancelled, the device
// fails or the stream ends, and releases the device on every path.
// It returns nil at end of stream, ErrInterrupted on cancellation and a
// *DeviceError otherwise.
func (m *Monitor) Run(ctx context.Context) error {
	if m.state != StateInit {
		return ErrAlreadyRan
	}
	runID := uuid.NewString()

	port, err := m.opener.Open(m.cfg.Device, m.cfg.Baud, m.cfg.ReadTimeout)
	if err != nil {
		m.state = StateClosed
		derr := &DeviceError{Op: OpOpen, Device: m.cfg.Device, Err: err}
		logs.Errf("serialmon.Monitor.Run open failed run_id=%s device=%q err=%v", runID, m.cfg.Device, err)
		m.println(consoleError(derr))
		return derr
	}
	m.state = StateOpen
	defer func() {
		if cerr := port.Close(); cerr != nil {
			logs.Debugf("serialmon.Monitor.Run close ignored run_id=%s err=%v", runID, cerr)
		}
		m.state = StateClosed
	}()

	logs.Infof(
		"serialmon.Monitor.Run open run_id=%s device=%q baud=%d timeout=%s",
		runID,
		m.cfg.Device,
		m.cfg.Baud,
		m.cfg.ReadTimeout,
	)
	m.println(fmt.Sprintf("Monitoring %s...", m.cfg.Device))

	lines := NewLineReader(port, m.cfg.MaxLineBytes)
	count := 0
	for {
		if ctx.Err() != nil {
			return m.interrupted(runID, count)
		}

		raw, err := lines.ReadLine()
		if err != nil {
			if ctx.Err() != nil {
				return m.interrupted(runID, count)
			}
			if errors.Is(err, io.EOF) {
				logs.Infof("serialmon.Monitor.Run eof run_id=%s lines=%d", runID, count)
				return nil
			}
			derr := &DeviceError{Op: OpRead, Device: m.cfg.Device, Err: err}
			logs.Errf("serialmon.Monitor.Run read failed run_id=%s lines=%d err=%v", runID, count, err)
			m.println(consoleError(derr))
			return derr
		}
		if len(raw) == 0 {
			continue
		}

		count++
		text, err := m.decode(raw)
		if err != nil {
			logs.Debugf("serialmon.Monitor.Run raw fallback run_id=%s err=%v", runID, err)
			m.println(fmt.Sprintf("%q", raw))
			continue
		}
		m.println(text)
	}
}

func (m *Monitor) interrupted(runID string, count int) error {
	logs.Infof("serialmon.Monitor.Run interrupted run_id=%s lines=%d", runID, count)
	m.println(m.cfg.Farewell)
	return ErrInterrupted
}

// println writes one line and flushes buffered writers so each line is
// visible as soon as it is received.
func (m *Monitor) println(s string) {
	_, _ = io.WriteString(m.out, s+"\n")
	if f, ok := m.out.(interface{ Flush() error }); ok {
		_ = f.Flush()
	}
}

func consoleError(err *DeviceError) string {
	return fmt.Sprintf("Error: %s %s: %v", err.Op, err.Device, err.Err)
}
