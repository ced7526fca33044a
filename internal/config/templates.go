package config

import (
	"fmt"
	"os"

	gotoml "github.com/pelletier/go-toml/v2"
)

// Template renders cfg as a config.toml document.
func Template(cfg Config) ([]byte, error) {
	raw := fileConfig{
		Build: fileBuild{
			Executable:        cfg.Invocation.Executable,
			Args:              cfg.Invocation.Args,
			WorkDir:           cfg.Invocation.WorkDir,
			Denylist:          cfg.Env.Denylist,
			ExtraPaths:        cfg.Env.ExtraPaths,
			PathListSeparator: cfg.Env.PathListSeparator,
			ExtraVars:         cfg.Env.ExtraVars,
		},
		Monitor: fileMonitor{
			Device:       cfg.Monitor.Device,
			Baud:         cfg.Monitor.Baud,
			ReadTimeout:  cfg.Monitor.ReadTimeout.String(),
			MaxLineBytes: cfg.Monitor.MaxLineBytes,
			Farewell:     cfg.Monitor.Farewell,
		},
	}
	out, err := gotoml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("render config template: %w", err)
	}
	return out, nil
}

func WriteTemplate(path string, overwrite bool) error {
	data, err := Template(Default())
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
