package buildenv

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// PathKey is the variable the extra tool directories are prepended to.
const PathKey = "PATH"

var (
	ErrInvalidConfig = errors.New("buildenv: invalid config")
)

// Config describes how an inherited environment is rewritten for the build.
type Config struct {
	// Denylist holds case-sensitive substrings; any key containing one is dropped.
	Denylist []string
	// ExtraPaths are prepended to PATH in order.
	ExtraPaths []string
	// ExtraVars are set after filtering and replace inherited values.
	ExtraVars map[string]string
	// PathListSeparator joins PATH entries. Empty means the host separator.
	PathListSeparator string
}

const (
	espressifRoot = `C:\Espressif`
	idfPath       = espressifRoot + `\frameworks\esp-idf-v5.5.1`
	idfPythonEnv  = espressifRoot + `\python_env\idf5.5_py3.11_env`
)

// DefaultConfig returns the ESP-IDF v5.5.1 Windows toolchain layout with the
// MSYS/MinGW variables that make idf.py refuse to run filtered out.
func DefaultConfig() Config {
	return Config{
		Denylist: []string{"MSYS", "MINGW", "MSYSTEM"},
		ExtraPaths: []string{
			espressifRoot + `\tools\cmake\3.30.2\bin`,
			espressifRoot + `\tools\ninja\1.12.1`,
			espressifRoot + `\tools\xtensa-esp-elf\esp-14.2.0_20241119\xtensa-esp-elf\bin`,
			idfPythonEnv + `\Scripts`,
			idfPath + `\tools`,
		},
		ExtraVars: map[string]string{
			"IDF_PATH":            idfPath,
			"IDF_PYTHON_ENV_PATH": idfPythonEnv,
		},
		PathListSeparator: ";",
	}
}

func (c Config) Validate() error {
	for _, sub := range c.Denylist {
		if sub == "" {
			return fmt.Errorf("%w: empty denylist entry", ErrInvalidConfig)
		}
		if strings.Contains(PathKey, sub) {
			return fmt.Errorf("%w: denylist entry %q would drop %s", ErrInvalidConfig, sub, PathKey)
		}
	}
	for key := range c.ExtraVars {
		if key == "" || strings.Contains(key, "=") {
			return fmt.Errorf("%w: bad variable name %q", ErrInvalidConfig, key)
		}
		if strings.EqualFold(key, PathKey) {
			return fmt.Errorf("%w: %s is managed through extra paths", ErrInvalidConfig, PathKey)
		}
		if c.denied(key) {
			return fmt.Errorf("%w: extra variable %q matches denylist", ErrInvalidConfig, key)
		}
	}
	return nil
}

func (c Config) denied(key string) bool {
	for _, sub := range c.Denylist {
		if sub != "" && strings.Contains(key, sub) {
			return true
		}
	}
	return false
}

func (c Config) separator() string {
	if c.PathListSeparator != "" {
		return c.PathListSeparator
	}
	return string(os.PathListSeparator)
}

// Env is an ordered environment mapping.
type Env struct {
	keys    []string
	values  map[string]string
	dropped []string
}

func newEnv() Env {
	return Env{values: make(map[string]string)}
}

func (e *Env) set(key, value string) {
	if _, ok := e.values[key]; !ok {
		e.keys = append(e.keys, key)
	}
	e.values[key] = value
}

func (e Env) Lookup(key string) (string, bool) {
	v, ok := e.values[key]
	return v, ok
}

func (e Env) Keys() []string {
	return append([]string(nil), e.keys...)
}

func (e Env) Len() int {
	return len(e.keys)
}

// Dropped lists inherited keys removed by the denylist, in input order.
func (e Env) Dropped() []string {
	return append([]string(nil), e.dropped...)
}

// Environ renders the mapping as KEY=VALUE entries for exec.
func (e Env) Environ() []string {
	out := make([]string, 0, len(e.keys))
	for _, k := range e.keys {
		out = append(out, k+"="+e.values[k])
	}
	return out
}

// Build derives the child environment from environ (os.Environ format).
// It is pure: environ and cfg are only read.
func Build(environ []string, cfg Config) Env {
	env := newEnv()
	inheritedPath := ""
	for _, entry := range environ {
		key, value, ok := splitEntry(entry)
		if !ok {
			continue
		}
		if cfg.denied(key) {
			env.dropped = append(env.dropped, key)
			continue
		}
		// Windows reports PATH as "Path".
		if strings.EqualFold(key, PathKey) {
			inheritedPath = value
			continue
		}
		env.set(key, value)
	}

	sep := cfg.separator()
	path := strings.Join(cfg.ExtraPaths, sep)
	if inheritedPath != "" {
		if path != "" {
			path += sep
		}
		path += inheritedPath
	}
	env.set(PathKey, path)

	names := make([]string, 0, len(cfg.ExtraVars))
	for k := range cfg.ExtraVars {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		if cfg.denied(k) {
			continue
		}
		env.set(k, cfg.ExtraVars[k])
	}
	return env
}

// splitEntry splits KEY=VALUE. A leading '=' belongs to the key, which is how
// Windows encodes per-drive working directories ("=C:=C:\dir").
func splitEntry(entry string) (string, string, bool) {
	if entry == "" {
		return "", "", false
	}
	i := strings.IndexByte(entry[1:], '=')
	if i < 0 {
		return "", "", false
	}
	i++
	return entry[:i], entry[i+1:], true
}
