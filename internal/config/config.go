package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/drakos74/free-cover/internal/data"
	"github.com/drakos74/free-cover/internal/preprocess"
	"github.com/drakos74/free-cover/internal/storage"
	"github.com/drakos74/free-cover/internal/train"
	"gopkg.in/yaml.v3"
)

const (
	// Development is the default run mode.
	Development = "development"
	// Production serves without debug output.
	Production = "production"

	DefaultPort      = 5000
	DefaultStaticDir = "client/dist"
	DefaultDataFile  = "insurance_data.csv"

	envPort  = "PORT"
	envMode  = "FLASK_ENV"
	envDebug = "DEBUG"
)

// Config is the configuration of all binaries.
type Config struct {
	Env       string               `yaml:"env"`
	Debug     bool                 `yaml:"debug"`
	Server    Server               `yaml:"server"`
	Model     Model                `yaml:"model"`
	Training  train.Config         `yaml:"training"`
	Generator data.GeneratorConfig `yaml:"generator"`
	Log       Log                  `yaml:"log"`
}

// Server configures the http server.
type Server struct {
	Port            int           `yaml:"port"`
	StaticDir       string        `yaml:"static_dir"`
	RateLimit       float64       `yaml:"rate_limit"`
	Burst           int           `yaml:"burst"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Model configures the model artifacts.
type Model struct {
	Dir       string                `yaml:"dir"`
	DataFile  string                `yaml:"data_file"`
	Scaler    preprocess.ScalerKind `yaml:"scaler"`
	CacheSize int                   `yaml:"cache_size"`
}

// Log configures the logger.
type Log struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Env: Development,
		Server: Server{
			Port:            DefaultPort,
			StaticDir:       DefaultStaticDir,
			RateLimit:       10,
			Burst:           20,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Model: Model{
			Dir:       storage.DefaultDir,
			DataFile:  DefaultDataFile,
			Scaler:    preprocess.Robust,
			CacheSize: 4,
		},
		Training:  train.DefaultConfig(),
		Generator: data.DefaultGeneratorConfig(),
		Log: Log{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load reads the yaml file on top of the defaults and applies the environment overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("could not read config '%s': %w", path, err)
		default:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("could not parse config '%s': %w", path, err)
			}
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides the port, mode and debug flag from the environment.
func (c *Config) ApplyEnv(lookup func(key string) (string, bool)) error {
	if v, ok := lookup(envPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", envPort, v, err)
		}
		c.Server.Port = port
	}
	if v, ok := lookup(envMode); ok && v != "" {
		c.Env = v
	}
	if v, ok := lookup(envDebug); ok && v != "" {
		c.Debug = ParseBool(v)
	}
	return nil
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if _, err := preprocess.NewScaler(c.Model.Scaler); err != nil {
		return err
	}
	return nil
}

// IsDevelopment reports if the service runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == Development
}

// ParseBool accepts true, 1 and t in any case.
func ParseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "t":
		return true
	}
	return false
}
