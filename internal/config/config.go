// Package config provides configuration management for blackjack DataFrame
// operations. Settings load from YAML files and BLACKJACK_* environment
// variables, with a process-wide instance guarded for concurrent access.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config holds the tunables for parallel execution and engine behavior.
type Config struct {
	// ParallelThreshold is the minimum element count before an elementwise
	// or reduction operation fans out to the worker pool. Below it,
	// operations run on the calling goroutine to avoid dispatch overhead.
	ParallelThreshold int `yaml:"parallel_threshold"`

	// WorkerPoolSize is the number of worker goroutines (0 = NumCPU).
	WorkerPoolSize int `yaml:"worker_pool_size"`

	// ChunkSize is the minimum chunk size for parallel splitting
	// (0 = auto-calculate from worker count).
	ChunkSize int `yaml:"chunk_size"`

	// NullsFirst places missing values at the front of sorted output when
	// true; the default sorts them last.
	NullsFirst bool `yaml:"nulls_first"`

	// VerboseLogging enables development-level log output.
	VerboseLogging bool `yaml:"verbose_logging"`
}

// Default configuration values.
const (
	DefaultParallelThreshold = 1000
)

// NewDefaultConfig returns a Config populated with defaults.
func NewDefaultConfig() Config {
	return Config{
		ParallelThreshold: DefaultParallelThreshold,
		WorkerPoolSize:    0,
		ChunkSize:         0,
		NullsFirst:        false,
		VerboseLogging:    false,
	}
}

// EffectiveWorkers resolves WorkerPoolSize to a concrete count.
func (c Config) EffectiveWorkers() int {
	if c.WorkerPoolSize > 0 {
		return c.WorkerPoolSize
	}
	return runtime.NumCPU()
}

// Validate checks the configuration for nonsensical values.
func (c Config) Validate() error {
	if c.ParallelThreshold < 0 {
		return fmt.Errorf("parallel_threshold must be non-negative, got %d", c.ParallelThreshold)
	}
	if c.WorkerPoolSize < 0 {
		return fmt.Errorf("worker_pool_size must be non-negative, got %d", c.WorkerPoolSize)
	}
	if c.ChunkSize < 0 {
		return fmt.Errorf("chunk_size must be non-negative, got %d", c.ChunkSize)
	}
	return nil
}

var (
	globalConfig = NewDefaultConfig()
	configMutex  sync.RWMutex
)

// GetGlobalConfig returns a copy of the process-wide configuration.
func GetGlobalConfig() Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// SetGlobalConfig replaces the process-wide configuration.
func SetGlobalConfig(c Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = c
	return nil
}

// LoadFromFile reads a YAML configuration file.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	c := NewDefaultConfig()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// SaveToFile writes the configuration as YAML.
func (c Config) SaveToFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Environment variable names recognized by LoadFromEnv.
const (
	envParallelThreshold = "BLACKJACK_PARALLEL_THRESHOLD"
	envWorkerPoolSize    = "BLACKJACK_WORKER_POOL_SIZE"
	envChunkSize         = "BLACKJACK_CHUNK_SIZE"
	envNullsFirst        = "BLACKJACK_NULLS_FIRST"
	envVerboseLogging    = "BLACKJACK_VERBOSE_LOGGING"
)

// LoadFromEnv overlays environment variables onto c, returning the result.
// Unset or malformed variables leave the corresponding field untouched.
func LoadFromEnv(c Config) Config {
	if v, ok := intEnv(envParallelThreshold); ok {
		c.ParallelThreshold = v
	}
	if v, ok := intEnv(envWorkerPoolSize); ok {
		c.WorkerPoolSize = v
	}
	if v, ok := intEnv(envChunkSize); ok {
		c.ChunkSize = v
	}
	if v, ok := boolEnv(envNullsFirst); ok {
		c.NullsFirst = v
	}
	if v, ok := boolEnv(envVerboseLogging); ok {
		c.VerboseLogging = v
	}
	return c
}

func intEnv(name string) (int, bool) {
	s, ok := os.LookupEnv(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

func boolEnv(name string) (bool, bool) {
	s, ok := os.LookupEnv(name)
	if !ok {
		return false, false
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, false
	}
	return v, true
}
