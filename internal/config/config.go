package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/espctl/internal/buildenv"
	"github.com/danmuck/espctl/internal/serialmon"
)

var ErrInvalidConfig = errors.New("config: invalid config")

// Config is the combined settings for idfbuild and sermon.
type Config struct {
	Env        buildenv.Config
	Invocation buildenv.Invocation
	Monitor    serialmon.Config
}

func Default() Config {
	return Config{
		Env:        buildenv.DefaultConfig(),
		Invocation: buildenv.DefaultInvocation(),
		Monitor:    serialmon.DefaultConfig(),
	}
}

// config.toml key mapping. Shared with the template renderer.
type fileConfig struct {
	Build   fileBuild   `toml:"build"`
	Monitor fileMonitor `toml:"monitor"`
}

type fileBuild struct {
	Executable        string            `toml:"executable"`
	Args              []string          `toml:"args"`
	WorkDir           string            `toml:"work_dir"`
	Denylist          []string          `toml:"denylist"`
	ExtraPaths        []string          `toml:"extra_paths"`
	PathListSeparator string            `toml:"path_list_separator"`
	ExtraVars         map[string]string `toml:"extra_vars"`
}

type fileMonitor struct {
	Device        string `toml:"device"`
	Baud          int    `toml:"baud"`
	ReadTimeout   string `toml:"read_timeout"`
	ReadTimeoutMS int64  `toml:"read_timeout_ms,omitempty"`
	MaxLineBytes  int    `toml:"max_line_bytes"`
	Farewell      string `toml:"farewell"`
}

// Load overlays the keys defined in path onto Default. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load espctl config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%w: unknown key %q", ErrInvalidConfig, undecoded[0].String())
	}

	applyBuild(&cfg, meta, raw.Build)
	if err := applyMonitor(&cfg, meta, raw.Monitor); err != nil {
		return Config{}, err
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyBuild(cfg *Config, meta toml.MetaData, raw fileBuild) {
	if meta.IsDefined("build", "executable") {
		cfg.Invocation.Executable = strings.TrimSpace(raw.Executable)
	}
	if meta.IsDefined("build", "args") {
		cfg.Invocation.Args = append([]string{}, raw.Args...)
	}
	if meta.IsDefined("build", "work_dir") {
		cfg.Invocation.WorkDir = strings.TrimSpace(raw.WorkDir)
	}
	if meta.IsDefined("build", "denylist") {
		cfg.Env.Denylist = append([]string{}, raw.Denylist...)
	}
	if meta.IsDefined("build", "extra_paths") {
		cfg.Env.ExtraPaths = normalizeList(raw.ExtraPaths)
	}
	if meta.IsDefined("build", "path_list_separator") {
		cfg.Env.PathListSeparator = raw.PathListSeparator
	}
	if meta.IsDefined("build", "extra_vars") {
		vars := make(map[string]string, len(raw.ExtraVars))
		for k, v := range raw.ExtraVars {
			vars[k] = v
		}
		cfg.Env.ExtraVars = vars
	}
}

func applyMonitor(cfg *Config, meta toml.MetaData, raw fileMonitor) error {
	if meta.IsDefined("monitor", "device") {
		cfg.Monitor.Device = strings.TrimSpace(raw.Device)
	}
	if meta.IsDefined("monitor", "baud") {
		cfg.Monitor.Baud = raw.Baud
	}
	if meta.IsDefined("monitor", "read_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ReadTimeout))
		if err != nil {
			return fmt.Errorf("parse monitor.read_timeout: %w", err)
		}
		cfg.Monitor.ReadTimeout = d
	}
	if meta.IsDefined("monitor", "read_timeout_ms") {
		cfg.Monitor.ReadTimeout = time.Duration(raw.ReadTimeoutMS) * time.Millisecond
	}
	if meta.IsDefined("monitor", "max_line_bytes") {
		cfg.Monitor.MaxLineBytes = raw.MaxLineBytes
	}
	if meta.IsDefined("monitor", "farewell") {
		cfg.Monitor.Farewell = raw.Farewell
	}
	return nil
}

func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Invocation.Executable) == "" {
		return fmt.Errorf("%w: build.executable is required", ErrInvalidConfig)
	}
	if err := cfg.Env.Validate(); err != nil {
		return fmt.Errorf("build: %w", err)
	}
	if err := cfg.Monitor.Validate(); err != nil {
		return fmt.Errorf("monitor: %w", err)
	}
	return nil
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
