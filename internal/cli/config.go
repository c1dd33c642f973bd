package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory when --config is
// not given.
const DefaultConfigFile = "mcdil.yaml"

// Config is the optional per-project configuration.
type Config struct {
	// Root is the default source file compiled when no argument is given.
	Root string `yaml:"root"`
	// CacheDB is the path of the persistent source cache database.
	CacheDB string `yaml:"cache_db"`
	// Format overrides the default output format.
	Format string `yaml:"format"`
}

// LoadConfig reads the project config. A missing default file yields the
// zero config; an explicitly requested file must exist.
func LoadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %q: %w", path, err)
	}
	if cfg.Format != "" && !isValidFormat(cfg.Format) {
		return Config{}, fmt.Errorf("config %q: invalid format %q", path, cfg.Format)
	}
	return cfg, nil
}
