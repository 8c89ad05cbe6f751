package cli

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/asgraph/pkg/errors"
	"github.com/matzehuels/asgraph/pkg/pipeline"
)

// Cache backends accepted in the config file.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendNone  = "none"
)

// defaultConfigFiles are looked up in the working directory when --config
// is not given.
var defaultConfigFiles = []string{"asgraph.toml", "asgraph.yaml", "asgraph.yml"}

// Config is the optional configuration file. Flags override its values.
type Config struct {
	Title       string      `toml:"title" yaml:"title" validate:"max=1024"`
	Description string      `toml:"description" yaml:"description" validate:"max=8192"`
	TreeName    string      `toml:"tree_name" yaml:"tree_name" validate:"omitempty,libsea_ident"`
	Output      string      `toml:"output" yaml:"output"`
	MetricsFile string      `toml:"metrics_file" yaml:"metrics_file"`
	Cache       CacheConfig `toml:"cache" yaml:"cache"`
}

// CacheConfig selects and configures the document cache.
type CacheConfig struct {
	Backend  string        `toml:"backend" yaml:"backend" validate:"oneof=file redis none"`
	RedisURL string        `toml:"redis_url" yaml:"redis_url" validate:"required_if=Backend redis"`
	TTL      time.Duration `toml:"ttl" yaml:"ttl" validate:"min=0"`
}

// loadConfig reads path, or the first default config file present when
// path is empty. No file at all yields the defaults.
func loadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		path = findConfig()
	}
	if path != "" {
		if err := decodeConfig(path, cfg); err != nil {
			return nil, err
		}
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = backendFile
	}
	if err := pipeline.ValidateStruct(cfg); err != nil {
		if path != "" {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
		}
		return nil, err
	}
	return cfg, nil
}

func findConfig() string {
	for _, name := range defaultConfigFiles {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

func decodeConfig(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return errors.Wrap(errors.ErrCodeIO, err, "read config %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "config %s: unsupported format (use .toml, .yaml or .yml)", path)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	return nil
}
