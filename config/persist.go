package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/dtogen/errors"
)

// DefaultFilePermissions is used for written config files.
const DefaultFilePermissions = 0644

// Save writes cfg as TOML to path, creating parent directories. An existing
// file is kept as <path>.back1.
func Save(cfg *Config, path string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}
	if err := createBackup(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write config file %s", path)
	}
	return nil
}

// createBackup copies an existing config to <path>.back1 before it is replaced
func createBackup(configPath string) error {
	content, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}

	if err := os.WriteFile(configPath+".back1", content, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}
	return nil
}
