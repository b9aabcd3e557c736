package cache

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/cachekit/memory"
)

// Config configures a Manager.
type Config struct {
	// MemoryCacheSize is the fast store's entry capacity.
	MemoryCacheSize int `yaml:"memory_cache_size"`

	// EnableDiskCache turns on the durable cache at CacheDir.
	EnableDiskCache bool `yaml:"enable_disk_cache"`

	// CacheDir is the durable cache directory. ${VAR} references are
	// expanded from the environment by LoadConfig.
	CacheDir string `yaml:"cache_dir"`

	// MaxMemoryUsage is the tracked-memory ceiling in bytes.
	MaxMemoryUsage int64 `yaml:"max_memory_usage"`

	// CleanupThresholdPercent is the fraction of MaxMemoryUsage at
	// which pressure escalates and cleanup reclaims.
	CleanupThresholdPercent float64 `yaml:"cleanup_threshold_percent"`

	// CleanupInterval is the period of the background maintenance loop.
	CleanupInterval time.Duration `yaml:"cleanup_interval"`

	// LargeFileThreshold is the size above which ShouldStreamFile
	// advises streaming.
	LargeFileThreshold int64 `yaml:"large_file_threshold"`

	// StreamBufferSize is the suggested chunk size for streaming.
	StreamBufferSize int `yaml:"stream_buffer_size"`

	// DefaultTTL applies when Set is called without a TTL. Zero means
	// such entries never expire.
	DefaultTTL time.Duration `yaml:"default_ttl"`

	// MaxTTL clamps caller TTLs. Zero means unclamped.
	MaxTTL time.Duration `yaml:"max_ttl"`
}

// DefaultConfig returns a Config with production defaults and the
// disk cache disabled (no directory chosen for the caller).
func DefaultConfig() Config {
	return Config{
		MemoryCacheSize:         DefaultFastStoreSize,
		MaxMemoryUsage:          memory.DefaultMaxMemoryUsage,
		CleanupThresholdPercent: memory.DefaultCleanupThreshold,
		CleanupInterval:         memory.DefaultCleanupInterval,
		LargeFileThreshold:      memory.DefaultLargeFileThreshold,
		StreamBufferSize:        memory.DefaultStreamBufferSize,
	}
}

// Validate checks the configuration for contradictions.
func (c Config) Validate() error {
	if c.MemoryCacheSize < 0 {
		return fmt.Errorf("%w: memory_cache_size is negative", ErrInvalidConfig)
	}
	if c.MaxMemoryUsage < 0 {
		return fmt.Errorf("%w: max_memory_usage is negative", ErrInvalidConfig)
	}
	if c.CleanupThresholdPercent < 0 || c.CleanupThresholdPercent > 1 {
		return fmt.Errorf("%w: cleanup_threshold_percent must be within [0, 1]", ErrInvalidConfig)
	}
	if c.EnableDiskCache && c.CacheDir == "" {
		return fmt.Errorf("%w: enable_disk_cache requires cache_dir", ErrInvalidConfig)
	}
	if c.DefaultTTL < 0 || c.MaxTTL < 0 {
		return fmt.Errorf("%w: TTLs must not be negative", ErrInvalidConfig)
	}
	return nil
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MemoryCacheSize == 0 {
		c.MemoryCacheSize = d.MemoryCacheSize
	}
	if c.MaxMemoryUsage == 0 {
		c.MaxMemoryUsage = d.MaxMemoryUsage
	}
	if c.CleanupThresholdPercent == 0 {
		c.CleanupThresholdPercent = d.CleanupThresholdPercent
	}
	if c.CleanupInterval == 0 {
		c.CleanupInterval = d.CleanupInterval
	}
	if c.LargeFileThreshold == 0 {
		c.LargeFileThreshold = d.LargeFileThreshold
	}
	if c.StreamBufferSize == 0 {
		c.StreamBufferSize = d.StreamBufferSize
	}
	return c
}

// rawConfig is the YAML shape: durations are strings ("5m", "90s")
// parsed with time.ParseDuration. Pointer fields distinguish "absent"
// from zero so defaults only fill what the file left out.
type rawConfig struct {
	MemoryCacheSize         *int     `yaml:"memory_cache_size"`
	EnableDiskCache         *bool    `yaml:"enable_disk_cache"`
	CacheDir                *string  `yaml:"cache_dir"`
	MaxMemoryUsage          *int64   `yaml:"max_memory_usage"`
	CleanupThresholdPercent *float64 `yaml:"cleanup_threshold_percent"`
	CleanupInterval         *string  `yaml:"cleanup_interval"`
	LargeFileThreshold      *int64   `yaml:"large_file_threshold"`
	StreamBufferSize        *int     `yaml:"stream_buffer_size"`
	DefaultTTL              *string  `yaml:"default_ttl"`
	MaxTTL                  *string  `yaml:"max_ttl"`
}

// LoadConfig reads a YAML config file, expands ${VAR} references in
// CacheDir, and validates the result. Unknown fields are rejected so
// typos fail loudly.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if raw.MemoryCacheSize != nil {
		cfg.MemoryCacheSize = *raw.MemoryCacheSize
	}
	if raw.EnableDiskCache != nil {
		cfg.EnableDiskCache = *raw.EnableDiskCache
	}
	if raw.CacheDir != nil {
		cfg.CacheDir = *raw.CacheDir
	}
	if raw.MaxMemoryUsage != nil {
		cfg.MaxMemoryUsage = *raw.MaxMemoryUsage
	}
	if raw.CleanupThresholdPercent != nil {
		cfg.CleanupThresholdPercent = *raw.CleanupThresholdPercent
	}
	if raw.LargeFileThreshold != nil {
		cfg.LargeFileThreshold = *raw.LargeFileThreshold
	}
	if raw.StreamBufferSize != nil {
		cfg.StreamBufferSize = *raw.StreamBufferSize
	}
	for _, d := range []struct {
		raw  *string
		dst  *time.Duration
		name string
	}{
		{raw.CleanupInterval, &cfg.CleanupInterval, "cleanup_interval"},
		{raw.DefaultTTL, &cfg.DefaultTTL, "default_ttl"},
		{raw.MaxTTL, &cfg.MaxTTL, "max_ttl"},
	} {
		if d.raw == nil {
			continue
		}
		parsed, err := time.ParseDuration(*d.raw)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, d.name, err)
		}
		*d.dst = parsed
	}

	if cfg.CacheDir != "" {
		expanded, err := expandEnvStrict(cfg.CacheDir)
		if err != nil {
			return Config{}, fmt.Errorf("%w: cache_dir: %v", ErrInvalidConfig, err)
		}
		cfg.CacheDir = expanded
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvStrict expands ${VAR} references in s and errors when any
// referenced variable is missing, so a path never silently collapses
// to an empty segment.
func expandEnvStrict(s string) (string, error) {
	missing := make(map[string]struct{})
	for _, match := range envVarPattern.FindAllStringSubmatch(s, -1) {
		if _, ok := os.LookupEnv(match[1]); !ok {
			missing[match[1]] = struct{}{}
		}
	}
	if len(missing) > 0 {
		keys := make([]string, 0, len(missing))
		for k := range missing {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return "", fmt.Errorf("missing required environment variables: %s", strings.Join(keys, ", "))
	}

	return envVarPattern.ReplaceAllStringFunc(s, func(ref string) string {
		return os.Getenv(ref[2 : len(ref)-1])
	}), nil
}
