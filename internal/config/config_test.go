package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/espctl/internal/buildenv"
	"github.com/danmuck/espctl/internal/testutil/testlog"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	testlog.Start(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Monitor.Device != "COM5" || cfg.Monitor.Baud != 115200 {
		t.Fatalf("unexpected monitor defaults: %+v", cfg.Monitor)
	}
	if len(cfg.Env.ExtraPaths) != 5 {
		t.Fatalf("unexpected extra paths: %v", cfg.Env.ExtraPaths)
	}
}

func TestLoadOverlaysDefinedKeys(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, `
[build]
executable = "/opt/esp/python_env/idf5.5_py3.12_env/bin/python"
args = ["/opt/esp/esp-idf/tools/idf.py", "-p", "/dev/ttyUSB0", "flash"]
work_dir = "/home/dev/tracker"
extra_paths = ["/opt/esp/tools/bin", "  "]
path_list_separator = ":"

[build.extra_vars]
IDF_PATH = "/opt/esp/esp-idf"

[monitor]
device = "/dev/ttyUSB0"
read_timeout = "250ms"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Invocation.Executable != "/opt/esp/python_env/idf5.5_py3.12_env/bin/python" {
		t.Fatalf("unexpected executable: %q", cfg.Invocation.Executable)
	}
	if len(cfg.Invocation.Args) != 4 || cfg.Invocation.Args[3] != "flash" {
		t.Fatalf("unexpected args: %v", cfg.Invocation.Args)
	}
	if cfg.Invocation.WorkDir != "/home/dev/tracker" {
		t.Fatalf("unexpected work dir: %q", cfg.Invocation.WorkDir)
	}
	if len(cfg.Env.ExtraPaths) != 1 || cfg.Env.ExtraPaths[0] != "/opt/esp/tools/bin" {
		t.Fatalf("unexpected extra paths: %v", cfg.Env.ExtraPaths)
	}
	if len(cfg.Env.ExtraVars) != 1 || cfg.Env.ExtraVars["IDF_PATH"] != "/opt/esp/esp-idf" {
		t.Fatalf("unexpected extra vars: %v", cfg.Env.ExtraVars)
	}
	if len(cfg.Env.Denylist) != 3 {
		t.Fatalf("denylist should keep defaults: %v", cfg.Env.Denylist)
	}
	if cfg.Monitor.Device != "/dev/ttyUSB0" || cfg.Monitor.ReadTimeout != 250*time.Millisecond {
		t.Fatalf("unexpected monitor: %+v", cfg.Monitor)
	}
	if cfg.Monitor.Baud != 115200 {
		t.Fatalf("baud should keep default: %d", cfg.Monitor.Baud)
	}
}

func TestLoadReadTimeoutMillis(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, `
[monitor]
read_timeout_ms = 1200
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Monitor.ReadTimeout != 1200*time.Millisecond {
		t.Fatalf("unexpected timeout: %s", cfg.Monitor.ReadTimeout)
	}
}

func TestLoadBadDuration(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, `
[monitor]
read_timeout = "soon"
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, `
[monitor]
baudrate = 9600
`)
	if _, err := Load(path); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, `
[build]
extra_vars = { MSYS_ROOT = "C:\\msys64" }
`)
	_, err := Load(path)
	if !errors.Is(err, buildenv.ErrInvalidConfig) {
		t.Fatalf("expected buildenv.ErrInvalidConfig, got %v", err)
	}

	path = writeConfig(t, `
[build]
executable = ""
`)
	if _, err := Load(path); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestTemplateLoadsBackToDefaults(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteTemplate(path, false); err != nil {
		t.Fatalf("write template: %v", err)
	}
	if err := WriteTemplate(path, false); err == nil {
		t.Fatalf("expected refusal to overwrite")
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load template: %v", err)
	}
	def := Default()
	if cfg.Invocation.Executable != def.Invocation.Executable {
		t.Fatalf("executable mismatch: %q", cfg.Invocation.Executable)
	}
	if strings.Join(cfg.Env.ExtraPaths, "|") != strings.Join(def.Env.ExtraPaths, "|") {
		t.Fatalf("extra paths mismatch: %v", cfg.Env.ExtraPaths)
	}
	if cfg.Env.ExtraVars["IDF_PATH"] != def.Env.ExtraVars["IDF_PATH"] {
		t.Fatalf("IDF_PATH mismatch: %q", cfg.Env.ExtraVars["IDF_PATH"])
	}
	if cfg.Monitor != def.Monitor {
		t.Fatalf("monitor mismatch: %+v", cfg.Monitor)
	}
}
