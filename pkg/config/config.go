// Package config holds hotspot-report settings: built-in defaults, an optional
// YAML file and HOTSPOT_* environment overrides, applied in that order.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/srodi/hotspot-report/pkg/types"
)

// Server defaults
const (
	DefaultListen       = "127.0.0.1:8080"
	DefaultReadTimeout  = 10 * time.Second
	DefaultWriteTimeout = 10 * time.Second
	ShutdownTimeout     = 30 * time.Second
)

// WebSocket configuration
const (
	WSReadBufferSize  = 1024
	WSWriteBufferSize = 1024
	WSWriteDeadline   = 10 * time.Second
	WSReadLimit       = 64 << 10
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the process-wide configuration. It is read once at startup.
type Config struct {
	BaseDir       string        `yaml:"base_dir"`
	DefaultFile   string        `yaml:"default_file"`
	DefaultTopN   int           `yaml:"default_top_n"`
	ConfineToBase bool          `yaml:"confine_to_base"`
	Listen        string        `yaml:"listen"`
	ReadTimeout   time.Duration `yaml:"read_timeout"`
	WriteTimeout  time.Duration `yaml:"write_timeout"`
	Verbosity     int           `yaml:"verbosity"`
}

// Default returns the built-in configuration. The base directory is the
// working directory at startup, or "." if it cannot be determined.
func Default() Config {
	baseDir, err := os.Getwd()
	if err != nil {
		baseDir = "."
	}
	return Config{
		BaseDir:      baseDir,
		DefaultFile:  types.DefaultDocument,
		DefaultTopN:  types.DefaultTopK,
		Listen:       DefaultListen,
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
	}
}

// Load builds the configuration from defaults, the YAML file at path (skipped
// when path is empty) and the environment, then validates it.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		// A relative base_dir is relative to the file that names it.
		if cfg.BaseDir != "" && !filepath.IsAbs(cfg.BaseDir) {
			cfg.BaseDir = filepath.Join(filepath.Dir(path), cfg.BaseDir)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.BaseDir = getEnvString("HOTSPOT_BASE_DIR", c.BaseDir)
	c.DefaultFile = getEnvString("HOTSPOT_DEFAULT_FILE", c.DefaultFile)
	c.DefaultTopN = int(getEnvInt64("HOTSPOT_TOP_N", int64(c.DefaultTopN)))
	c.Listen = getEnvString("HOTSPOT_LISTEN", c.Listen)
	c.ConfineToBase = getEnvBool("HOTSPOT_CONFINE", c.ConfineToBase)
	c.Verbosity = int(getEnvInt64("HOTSPOT_VERBOSITY", int64(c.Verbosity)))
}

// Validate reports settings no command can work with.
func (c Config) Validate() error {
	var errs []error
	if c.BaseDir == "" {
		errs = append(errs, errors.New("base_dir must not be empty"))
	}
	if c.DefaultFile == "" {
		errs = append(errs, errors.New("default_file must not be empty"))
	}
	if c.DefaultTopN <= 0 {
		errs = append(errs, fmt.Errorf("default_top_n must be positive, got %d", c.DefaultTopN))
	}
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 {
		errs = append(errs, errors.New("read_timeout and write_timeout must be positive"))
	}
	if c.Verbosity < 0 {
		errs = append(errs, fmt.Errorf("verbosity must not be negative, got %d", c.Verbosity))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

func getEnvString(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

// getEnvInt64 gets an int64 from environment variable or returns default.
func getEnvInt64(key string, defaultValue int64) int64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			return parsed
		}
		log.Printf("Invalid value for %s: %q, using default %d", key, val, defaultValue)
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
		log.Printf("Invalid value for %s: %q, using default %t", key, val, defaultValue)
	}
	return defaultValue
}
