// Configuration for the pipeline builder, loaded from environment variables
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"pipeline-builder/internal/engine"
	"pipeline-builder/internal/pipeline"
)

// Config holds builder configuration
type Config struct {
	// Engine executable and the native library search path it needs
	EnginePath    string
	EngineLibPath string
	EngineLibEnv  string
	EngineTimeout time.Duration

	// Where the pipeline document is written
	DocumentPath string

	// Inspect input/output images before running the engine
	InspectImages bool

	Debug bool
}

// LoadEnvFile merges a dotenv file into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	}
	if err := godotenv.Load(path); err != nil {
		return false, errors.Wrapf(err, "unable to load env file %s", path)
	}
	return true, nil
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	timeout, err := getEnvAsDurationOrDefault("PIPELINE_ENGINE_TIMEOUT", 0)
	if err != nil {
		return nil, err
	}
	inspect, err := getEnvAsBoolOrDefault("PIPELINE_INSPECT_IMAGES", true)
	if err != nil {
		return nil, err
	}
	debug, err := getEnvAsBoolOrDefault("PIPELINE_DEBUG", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		EnginePath:    getEnvOrDefault("PIPELINE_ENGINE_PATH", DefaultEnginePath()),
		EngineLibPath: os.Getenv("PIPELINE_ENGINE_LIB_PATH"),
		EngineLibEnv:  getEnvOrDefault("PIPELINE_ENGINE_LIB_ENV", engine.DefaultLibEnv()),
		EngineTimeout: timeout,
		DocumentPath:  getEnvOrDefault("PIPELINE_DOCUMENT_PATH", pipeline.DefaultFileName),
		InspectImages: inspect,
		Debug:         debug,
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return cfg, nil
}

// DefaultEnginePath is the engine's location in a release build tree
func DefaultEnginePath() string {
	path := filepath.Join("build", "Release", "sea_vision")
	if runtime.GOOS == "windows" {
		path += ".exe"
	}
	return path
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.EnginePath == "" {
		return errors.New("PIPELINE_ENGINE_PATH must not be empty")
	}
	if c.DocumentPath == "" {
		return errors.New("PIPELINE_DOCUMENT_PATH must not be empty")
	}
	if c.EngineTimeout < 0 {
		return errors.Errorf("PIPELINE_ENGINE_TIMEOUT must not be negative, got %s", c.EngineTimeout)
	}
	return nil
}

// Engine returns the runner settings
func (c *Config) Engine() engine.Config {
	return engine.Config{
		Path:    c.EnginePath,
		LibPath: c.EngineLibPath,
		LibEnv:  c.EngineLibEnv,
		Timeout: c.EngineTimeout,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) (bool, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return false, errors.Wrapf(err, "%s must be a boolean", key)
	}
	return value, nil
}

// getEnvAsDurationOrDefault accepts Go durations ("90s") or plain seconds ("90")
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	if seconds, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return 0, errors.Wrapf(err, "%s must be a duration", key)
	}
	return value, nil
}
