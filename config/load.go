package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/dtogen/errors"
	"github.com/teranos/dtogen/logger"
)

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "DTOGEN"

// Load reads the configuration. An empty path searches for dtogen.toml from
// the working directory upward; when none is found the defaults are used.
// The returned path is the file that was read, or "".
func Load(path string) (*Config, string, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, "", errors.Wrap(err, "failed to get working directory")
		}
		path = Find(wd)
	}

	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, "", errors.WithHint(
				errors.Wrapf(err, "failed to read config file %s", path),
				"run dtogen init to write a starting configuration")
		}
	}

	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, "", err
	}

	logger.ComponentLogger("config").Debugw("Configuration loaded",
		logger.FieldFile, path,
		logger.FieldCount, len(cfg.Types),
	)
	return cfg, path, nil
}

// LoadFromFile loads configuration from a specific file path, without
// environment overrides.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}
	return LoadWithViper(v)
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfig, "failed to unmarshal config: "+err.Error())
	}
	return &config, nil
}

// Find walks up from dir looking for dtogen.toml and returns its path, or
// "" when the filesystem root is reached.
func Find(dir string) string {
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}
