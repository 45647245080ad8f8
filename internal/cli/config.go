package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/dumpfmap/pkg/dump"
	"github.com/matzehuels/dumpfmap/pkg/errors"
)

// Config holds defaults read from the config file. Command-line flags take
// precedence over every field.
type Config struct {
	Format           string `toml:"format"`
	Gaps             bool   `toml:"gaps"`
	OverlapTolerance int    `toml:"overlap_tolerance"`
	RootName         string `toml:"root_name"`
	ExtractDir       string `toml:"extract_dir"`
	Verbose          bool   `toml:"verbose"`
}

// LoadConfig reads the config file at path. An empty path selects the
// default location, which may be absent.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return &Config{}, nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &Config{}, nil
		}
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read config %s", path)
	}
	return parseConfig(path, data)
}

func parseConfig(path string, data []byte) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Format != "" {
		if _, err := dump.ParseFormat(c.Format); err != nil {
			return err
		}
	}
	if c.OverlapTolerance < 0 {
		return fmt.Errorf("overlap_tolerance must not be negative, got %d", c.OverlapTolerance)
	}
	return nil
}

// =============================================================================
// Paths
// =============================================================================

// configDir returns the config directory using XDG standard (~/.config/dumpfmap/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
