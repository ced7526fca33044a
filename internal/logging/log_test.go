package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewBypassWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: InfoLevel, Bypass: true, Out: &buf})
	l.Info().Msg("serialmon.Monitor.Run open")

	out := buf.String()
	if !strings.Contains(out, `"message":"serialmon.Monitor.Run open"`) {
		t.Fatalf("unexpected output: %q", out)
	}
	if strings.Contains(out, `"time"`) {
		t.Fatalf("expected no timestamp, got %q", out)
	}
}

func TestNewConsoleRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: WarnLevel, NoColor: true, Out: &buf})
	l.Info().Msg("dropped")
	l.Warn().Msg("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("info record should be filtered: %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Fatalf("warn record missing: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	if lvl, ok := parseLevel("WARNING"); !ok || lvl != WarnLevel {
		t.Fatalf("unexpected warn parse: %v %v", lvl, ok)
	}
	if lvl, ok := parseLevel(" off "); !ok || lvl != Disabled {
		t.Fatalf("unexpected off parse: %v %v", lvl, ok)
	}
	if _, ok := parseLevel("loud"); ok {
		t.Fatalf("expected unknown level to be rejected")
	}
	if _, ok := parseLevel(""); ok {
		t.Fatalf("expected empty level to be ignored")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogTimestamp, "false")
	t.Setenv(EnvLogNoColor, "1")
	t.Setenv(EnvLogBypass, "not-a-bool")

	cfg := defaultConfig(ProfileRuntime)
	applyEnvOverrides(&cfg)
	if cfg.Level != ErrorLevel {
		t.Fatalf("unexpected level: %v", cfg.Level)
	}
	if cfg.Timestamp {
		t.Fatalf("expected timestamp disabled")
	}
	if !cfg.NoColor {
		t.Fatalf("expected no color")
	}
	if cfg.Bypass {
		t.Fatalf("invalid bool must not enable bypass")
	}
}
