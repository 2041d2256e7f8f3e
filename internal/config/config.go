// Package config loads driver configuration from environment variables
// layered under an optional YAML file, then validates it.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds every setting the driver CLI and debug server read.
type Config struct {
	// ScriptPath is the build script the driver evaluates as its root
	// RunScript query.
	ScriptPath string `yaml:"scriptPath" validate:"required"`
	// SourceRoot is the directory ReadFile/ListDirectory paths resolve
	// against.
	SourceRoot string `yaml:"sourceRoot" validate:"required"`
	// OutDir is where queued WriteOutput entries are materialized after
	// the root query returns.
	OutDir string `yaml:"outDir" validate:"required"`
	// CacheDir is where persistence.Save/Load read and write state.
	CacheDir string `yaml:"cacheDir" validate:"required"`

	// DebugAddr, when non-empty, starts the debug HTTP server.
	DebugAddr string `yaml:"debugAddr"`

	// Watch puts the CLI into an fsnotify-driven re-run loop.
	Watch bool `yaml:"watch"`

	// LogLevel is a zap level name (debug, info, warn, error).
	LogLevel string `yaml:"logLevel" validate:"oneof=debug info warn error"`
	// EnableTracing turns on the OTLP-over-gRPC exporter.
	EnableTracing bool `yaml:"enableTracing"`
	// EnableMetrics turns on the Prometheus registry backing
	// engine.MetricsRecorder.
	EnableMetrics bool `yaml:"enableMetrics"`

	// FetchTimeout is loaded and validated but not passed to the engine;
	// FetchURL calls use the engine's own fixed 30-second HTTP client
	// timeout.
	FetchTimeout time.Duration `yaml:"fetchTimeout" validate:"required"`

	// IgnoreFile is the .driverignore path relative to SourceRoot.
	IgnoreFile string `yaml:"ignoreFile"`
}

var validate = validator.New()

// Load builds a Config from (in increasing priority) built-in defaults,
// an optional YAML file at yamlPath, and environment variables. Every
// setting is optional with a default; a missing YAML file just means
// that layer is skipped.
func Load(yamlPath string) (*Config, error) {
	cfg := &Config{
		ScriptPath:    getEnv("DRIVER_SCRIPT", "build.js"),
		SourceRoot:    getEnv("DRIVER_SOURCE_ROOT", "."),
		OutDir:        getEnv("DRIVER_OUT_DIR", "./dist"),
		CacheDir:      getEnv("DRIVER_CACHE_DIR", "./.driver_cache"),
		DebugAddr:     getEnv("DRIVER_DEBUG_ADDR", ""),
		Watch:         getEnvBool("DRIVER_WATCH", false),
		LogLevel:      getEnv("DRIVER_LOG_LEVEL", "info"),
		EnableTracing: getEnvBool("DRIVER_ENABLE_TRACING", false),
		EnableMetrics: getEnvBool("DRIVER_ENABLE_METRICS", true),
		FetchTimeout:  getEnvDuration("DRIVER_FETCH_TIMEOUT", 30*time.Second),
		IgnoreFile:    getEnv("DRIVER_IGNORE_FILE", ".driverignore"),
	}

	if yamlPath != "" {
		if err := mergeYAML(cfg, yamlPath); err != nil {
			return nil, err
		}
	}

	// Environment variables win over the YAML file when both are set
	// explicitly; re-applying only the ones a caller actually exported
	// keeps that precedence without re-parsing the whole struct.
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeYAML decodes path into cfg's fields, currently at their default
// values; a missing file is treated as "no YAML layer", not an error.
func mergeYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := os.LookupEnv("DRIVER_SCRIPT"); ok {
		cfg.ScriptPath = v
	}
	if v, ok := os.LookupEnv("DRIVER_SOURCE_ROOT"); ok {
		cfg.SourceRoot = v
	}
	if v, ok := os.LookupEnv("DRIVER_OUT_DIR"); ok {
		cfg.OutDir = v
	}
	if v, ok := os.LookupEnv("DRIVER_CACHE_DIR"); ok {
		cfg.CacheDir = v
	}
	if v, ok := os.LookupEnv("DRIVER_DEBUG_ADDR"); ok {
		cfg.DebugAddr = v
	}
	if v, ok := os.LookupEnv("DRIVER_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv("DRIVER_IGNORE_FILE"); ok {
		cfg.IgnoreFile = v
	}
	if _, ok := os.LookupEnv("DRIVER_WATCH"); ok {
		cfg.Watch = getEnvBool("DRIVER_WATCH", cfg.Watch)
	}
	if _, ok := os.LookupEnv("DRIVER_ENABLE_TRACING"); ok {
		cfg.EnableTracing = getEnvBool("DRIVER_ENABLE_TRACING", cfg.EnableTracing)
	}
	if _, ok := os.LookupEnv("DRIVER_ENABLE_METRICS"); ok {
		cfg.EnableMetrics = getEnvBool("DRIVER_ENABLE_METRICS", cfg.EnableMetrics)
	}
	if _, ok := os.LookupEnv("DRIVER_FETCH_TIMEOUT"); ok {
		cfg.FetchTimeout = getEnvDuration("DRIVER_FETCH_TIMEOUT", cfg.FetchTimeout)
	}
}

// Validate checks the struct tags; there are no cross-field rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	return defaultValue
}
