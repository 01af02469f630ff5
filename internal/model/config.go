package model

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds all configuration for induct
type Config struct {
	Space       SpaceConfig       `yaml:"space" mapstructure:"space"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
	Metrics     MetricsConfig     `yaml:"metrics" mapstructure:"metrics"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
}

// SpaceConfig bounds hypothesis-space enumeration. Enumeration is exponential
// in both attribute count and domain size; these limits are the guard.
type SpaceConfig struct {
	Policy          string        `yaml:"policy" mapstructure:"policy" validate:"oneof=all observed"`
	MaxAttributes   int           `yaml:"max_attributes" mapstructure:"max_attributes" validate:"min=1"`
	MaxValues       int           `yaml:"max_values" mapstructure:"max_values" validate:"min=1"`
	MaxConjunctions int           `yaml:"max_conjunctions" mapstructure:"max_conjunctions" validate:"min=1,max=62"`
	MaxHypotheses   int           `yaml:"max_hypotheses" mapstructure:"max_hypotheses" validate:"min=1"`
	CacheTTL        time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl" validate:"gte=0"`
}

// ConcurrencyConfig controls batch runs (one learning run per job)
type ConcurrencyConfig struct {
	Workers       int     `yaml:"workers" mapstructure:"workers" validate:"min=1"`
	JobsPerSecond float64 `yaml:"jobs_per_second" mapstructure:"jobs_per_second" validate:"gte=0"`
	Burst         int     `yaml:"burst" mapstructure:"burst" validate:"min=1"`

	// Separate pacing for version-space jobs; 0 shares jobs_per_second
	VersionSpaceJobsPerSecond float64 `yaml:"version_space_jobs_per_second" mapstructure:"version_space_jobs_per_second" validate:"gte=0"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose      bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeTrace bool `yaml:"include_trace" mapstructure:"include_trace"`
	MaxListed    int  `yaml:"max_listed" mapstructure:"max_listed" validate:"gte=0"`
	Color        bool `yaml:"color" mapstructure:"color"`
}

// LoggingConfig controls the slog handler
type LoggingConfig struct {
	Level            string        `yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
	Format           string        `yaml:"format" mapstructure:"format" validate:"oneof=text json"`
	ProgressInterval time.Duration `yaml:"progress_interval" mapstructure:"progress_interval" validate:"gte=0"`
}

// MetricsConfig controls the Prometheus textfile dump
type MetricsConfig struct {
	File string `yaml:"file" mapstructure:"file"`
}

// LLMConfig holds the optional narration provider settings.
// Narration never changes a learned hypothesis.
type LLMConfig struct {
	Provider         string `yaml:"provider" mapstructure:"provider" validate:"omitempty,oneof=openai ollama"`
	Model            string `yaml:"model" mapstructure:"model"`
	APIKey           string `yaml:"-" mapstructure:"api_key"`
	BaseURL          string `yaml:"base_url,omitempty" mapstructure:"base_url" validate:"omitempty,url"`
	Timeout          int    `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
	StrictVocabulary bool   `yaml:"strict_vocabulary" mapstructure:"strict_vocabulary"`
	MaxTokens        int    `yaml:"max_tokens" mapstructure:"max_tokens" validate:"gte=0"`

	// Proxy for LLM requests; empty falls back to HTTP_PROXY/HTTPS_PROXY/NO_PROXY
	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy" validate:"omitempty,url"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy" validate:"omitempty,url"`
	NoProxy    string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Space: SpaceConfig{
			Policy:          "all",
			MaxAttributes:   4,
			MaxValues:       4,
			MaxConjunctions: 24,
			MaxHypotheses:   1 << 20,
			CacheTTL:        10 * time.Minute,
		},
		Concurrency: ConcurrencyConfig{
			Workers:       4,
			JobsPerSecond: 0,
			Burst:         1,
		},
		Output: OutputConfig{
			IncludeTrace: true,
			MaxListed:    20,
			Color:        true,
		},
		Logging: LoggingConfig{
			Level:            "info",
			Format:           "text",
			ProgressInterval: time.Second,
		},
		LLM: LLMConfig{
			Timeout:          30,
			StrictVocabulary: true,
			MaxTokens:        600,
		},
	}
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints declared in struct tags
func (c *Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
