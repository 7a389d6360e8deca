package model

import (
	"runtime"
	"time"
)

// Config holds the full application configuration. Defaults are produced
// by DefaultConfig and overridden by config file, env vars and flags.
type Config struct {
	Templates   TemplatesConfig   `yaml:"templates" mapstructure:"templates"`
	Locale      string            `yaml:"locale" mapstructure:"locale"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// TemplatesConfig locates template sources and compiled manifests.
type TemplatesConfig struct {
	SourceDir   string `yaml:"source_dir" mapstructure:"source_dir"`
	CompiledDir string `yaml:"compiled_dir" mapstructure:"compiled_dir"`
}

// CacheConfig controls result memoization.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Host         string   `yaml:"host" mapstructure:"host"`
	Port         int      `yaml:"port" mapstructure:"port"`
	CORSOrigins  []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	RateLimitRPM int      `yaml:"rate_limit_rpm" mapstructure:"rate_limit_rpm"`
}

// LLMConfig controls the optional summary rephrasing step. Provider ""
// means disabled, which is the default.
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"`
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ConcurrencyConfig controls batch processing.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig controls CLI output behavior.
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Templates: TemplatesConfig{
			SourceDir:   "templates",
			CompiledDir: "templates/compiled",
		},
		Locale: "en-IN",
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".simpledoc/cache",
			MemoryTTL: 1 * time.Hour,
			DiskTTL:   30 * 24 * time.Hour,
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			CORSOrigins:  []string{"*"},
			RateLimitRPM: 60,
		},
		LLM: LLMConfig{
			Provider:  "", // Disabled by default
			Model:     "",
			Timeout:   30,
			MaxTokens: 400,
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
		Output: OutputConfig{
			Verbose: false,
		},
	}
}
