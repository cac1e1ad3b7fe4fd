// Package config provides configuration loading and validation for the server and CLI.
package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variables, e.g. RESUME_ANALYZER_SERVER_PORT.
const EnvPrefix = "RESUME_ANALYZER"

// Config is the full application configuration. Values come from defaults, an
// optional YAML file, environment variables and CLI flags, in increasing priority.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Scoring   ScoringConfig   `mapstructure:"scoring"`
	Skills    SkillsConfig    `mapstructure:"skills"`
	Log       LogConfig       `mapstructure:"log"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	MaxUploadMB  int           `mapstructure:"max_upload_mb"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	CORSOrigin   string        `mapstructure:"cors_origin"`
}

// DatabaseConfig selects the job profile backing store. An empty URL keeps profiles in memory.
type DatabaseConfig struct {
	URL     string `mapstructure:"url"`
	Migrate bool   `mapstructure:"migrate"`
}

// LLMConfig configures the narrative text-generation collaborator.
type LLMConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	ModelTier       string        `mapstructure:"model_tier"`
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxPromptChars  int           `mapstructure:"max_prompt_chars"`
	SuggestProfiles bool          `mapstructure:"suggest_profiles"`
}

// AnalysisConfig bounds the analysis pipeline.
type AnalysisConfig struct {
	MaxConcurrent int `mapstructure:"max_concurrent"`
}

// ScoringConfig holds the category weights of the match score.
type ScoringConfig struct {
	Weights WeightsConfig `mapstructure:"weights"`
}

// WeightsConfig are the category weights; they must sum to 1.
type WeightsConfig struct {
	Required   float64 `mapstructure:"required"`
	Preferred  float64 `mapstructure:"preferred"`
	Experience float64 `mapstructure:"experience"`
	Education  float64 `mapstructure:"education"`
}

// SkillsConfig points at an optional vocabulary file replacing the built-in one.
type SkillsConfig struct {
	VocabularyFile string `mapstructure:"vocabulary_file"`
}

// LogConfig controls logger output.
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// RateLimitConfig controls per-client rate limiting. Lists accept comma-separated env values.
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	DefaultLimit   int           `mapstructure:"default_limit"`
	DefaultWindow  time.Duration `mapstructure:"default_window"`
	AnalyzePerHour int           `mapstructure:"analyze_per_hour"`
	Whitelist      []string      `mapstructure:"whitelist"`
	Blacklist      []string      `mapstructure:"blacklist"`
}

// MaxUploadBytes returns the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}

// SetDefaults registers every key with its default so environment overrides are picked up by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.max_upload_mb", 16)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.cors_origin", "*")

	v.SetDefault("database.url", "")
	v.SetDefault("database.migrate", true)

	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model_tier", "standard")
	v.SetDefault("llm.timeout", 10*time.Second)
	v.SetDefault("llm.max_prompt_chars", 12000)
	v.SetDefault("llm.suggest_profiles", true)

	v.SetDefault("analysis.max_concurrent", 8)

	v.SetDefault("scoring.weights.required", 0.40)
	v.SetDefault("scoring.weights.preferred", 0.20)
	v.SetDefault("scoring.weights.experience", 0.20)
	v.SetDefault("scoring.weights.education", 0.20)

	v.SetDefault("skills.vocabulary_file", "")

	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.default_limit", 1000)
	v.SetDefault("rate_limit.default_window", time.Minute)
	v.SetDefault("rate_limit.analyze_per_hour", 60)
	v.SetDefault("rate_limit.whitelist", []string{})
	v.SetDefault("rate_limit.blacklist", []string{})
}

// Load reads configuration into a Config. path may be empty, in which case only
// defaults and environment variables apply.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Conventional names used by deployments of the original service.
	if err := v.BindEnv("llm.api_key", EnvPrefix+"_LLM_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind llm.api_key: %w", err)
	}
	if err := v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind database.url: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' out of range: %d", c.Server.Port)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("config error: 'server.max_upload_mb' must be positive")
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("config error: 'llm.timeout' must be positive")
	}
	if c.LLM.MaxPromptChars < 500 {
		return fmt.Errorf("config error: 'llm.max_prompt_chars' must be at least 500")
	}
	if c.Analysis.MaxConcurrent < 1 {
		return fmt.Errorf("config error: 'analysis.max_concurrent' must be at least 1")
	}

	w := c.Scoring.Weights
	for _, weight := range []struct {
		name  string
		value float64
	}{
		{"required", w.Required},
		{"preferred", w.Preferred},
		{"experience", w.Experience},
		{"education", w.Education},
	} {
		if weight.value < 0 || weight.value > 1 {
			return fmt.Errorf("config error: 'scoring.weights.%s' must be within [0,1]", weight.name)
		}
	}
	if sum := w.Required + w.Preferred + w.Experience + w.Education; math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("config error: scoring weights must sum to 1, got %.4f", sum)
	}

	if c.RateLimit.Enabled && (c.RateLimit.DefaultLimit < 1 || c.RateLimit.DefaultWindow <= 0) {
		return fmt.Errorf("config error: 'rate_limit.default_limit' and 'rate_limit.default_window' must be positive")
	}

	switch c.LLM.ModelTier {
	case "lite", "standard", "advanced":
	default:
		return fmt.Errorf("config error: 'llm.model_tier' must be lite, standard or advanced")
	}

	return nil
}
