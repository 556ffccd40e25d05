package config

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Similarity backend variants. The variant is resolved once at pipeline
// construction, not probed per call.
const (
	SimilarityBackendNone    = "none"
	SimilarityBackendLexical = "lexical"
	SimilarityBackendGemini  = "gemini"
)

// Feedback backend variants.
const (
	FeedbackBackendNone   = "none"
	FeedbackBackendGemini = "gemini"
)

// Config holds all application configuration.
// API key precedence order:
// 1. Vault (if configured) - highest priority
// 2. Config file values
// 3. Environment variables (RESUMATCH_BACKEND_GEMINI_APIKEY, GEMINI_API_KEY)
// 4. Default values - lowest priority
type Config struct {
	Engine        EngineConfig        `mapstructure:"engine"`
	Backend       BackendConfig       `mapstructure:"backend"`
	Server        ServerConfig        `mapstructure:"server"`
	App           AppConfig           `mapstructure:"app"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`

	// configFile records which file the configuration was loaded from, if
	// any. Used by the watcher to re-read the same file on change.
	configFile string
}

// EngineConfig holds the scoring weights. The weight values are
// configuration rather than constants, but each tuple must sum to 1.0 so
// scores stay bounded in [0,100].
type EngineConfig struct {
	Weights WeightsConfig `mapstructure:"weights"`
	Lexical LexicalConfig `mapstructure:"lexical"`
}

// WeightsConfig holds the final-score combination weights.
type WeightsConfig struct {
	Lexical       float64 `mapstructure:"lexical"`
	Similarity    float64 `mapstructure:"similarity"`
	Compatibility float64 `mapstructure:"compatibility"`
}

// LexicalConfig holds the must-have / good-to-have coverage weights.
type LexicalConfig struct {
	MustHave   float64 `mapstructure:"mustHave"`
	GoodToHave float64 `mapstructure:"goodToHave"`
}

// BackendConfig selects the optional external backends.
type BackendConfig struct {
	Similarity string       `mapstructure:"similarity"` // none, lexical, gemini
	Feedback   string       `mapstructure:"feedback"`   // none, gemini
	Gemini     GeminiConfig `mapstructure:"gemini"`
}

// GeminiConfig holds the Gemini backend configuration.
type GeminiConfig struct {
	Model          string               `mapstructure:"model"`
	EmbedModel     string               `mapstructure:"embedModel"`
	APIKey         string               `mapstructure:"apiKey"`
	Timeout        time.Duration        `mapstructure:"timeout"`
	MaxRetries     int                  `mapstructure:"maxRetries"`
	Temperature    float32              `mapstructure:"temperature"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Timeout for half-open to open
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string          `mapstructure:"host"`
	Port           string          `mapstructure:"port"`
	ReadTimeout    time.Duration   `mapstructure:"readTimeout"`
	WriteTimeout   time.Duration   `mapstructure:"writeTimeout"`
	IdleTimeout    time.Duration   `mapstructure:"idleTimeout"`
	MaxRequestSize int64           `mapstructure:"maxRequestSize"`
	APIKeys        []string        `mapstructure:"apiKeys"`
	RateLimit      RateLimitConfig `mapstructure:"rateLimit"`
}

// RateLimitConfig holds request rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	RequestsPerMin int  `mapstructure:"requestsPerMin"`
	BurstCapacity  int  `mapstructure:"burstCapacity"`
	ByIP           bool `mapstructure:"byIP"`
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
}

// LoadConfig loads configuration from defaults, config file, environment
// variables and Vault, in ascending priority.
func LoadConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("RESUMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/resumatch/")
	v.AddConfigPath("$HOME/.resumatch")
	v.AddConfigPath(".")

	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		configFileUsed = v.ConfigFileUsed()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.configFile = configFileUsed

	cfg.applyFallbacks()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// ConfigFile returns the path of the config file in use, or "" when running
// on defaults and environment only.
func (c *Config) ConfigFile() string {
	return c.configFile
}

// applyFallbacks applies environment variable fallbacks that viper's prefix
// handling does not cover.
func (c *Config) applyFallbacks() {
	if c.Backend.Gemini.APIKey == "" {
		c.Backend.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if len(c.Server.APIKeys) == 0 {
		if keys := os.Getenv("RESUMATCH_SERVER_APIKEYS"); keys != "" {
			for _, key := range strings.Split(keys, ",") {
				if k := strings.TrimSpace(key); k != "" {
					c.Server.APIKeys = append(c.Server.APIKeys, k)
				}
			}
		}
	}
}

// weightEpsilon is the tolerance used when checking that weight tuples sum
// to exactly 1.0.
const weightEpsilon = 1e-9

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	w := c.Engine.Weights
	if w.Lexical < 0 || w.Similarity < 0 || w.Compatibility < 0 {
		return fmt.Errorf("engine.weights must be non-negative, got %v/%v/%v",
			w.Lexical, w.Similarity, w.Compatibility)
	}
	if sum := w.Lexical + w.Similarity + w.Compatibility; math.Abs(sum-1.0) > weightEpsilon {
		return fmt.Errorf("engine.weights must sum to 1.0, got %v", sum)
	}

	l := c.Engine.Lexical
	if l.MustHave < 0 || l.GoodToHave < 0 {
		return fmt.Errorf("engine.lexical weights must be non-negative, got %v/%v",
			l.MustHave, l.GoodToHave)
	}
	if sum := l.MustHave + l.GoodToHave; math.Abs(sum-1.0) > weightEpsilon {
		return fmt.Errorf("engine.lexical weights must sum to 1.0, got %v", sum)
	}

	switch c.Backend.Similarity {
	case SimilarityBackendNone, SimilarityBackendLexical, SimilarityBackendGemini:
	default:
		return fmt.Errorf("backend.similarity must be one of none, lexical, gemini; got %q",
			c.Backend.Similarity)
	}

	switch c.Backend.Feedback {
	case FeedbackBackendNone, FeedbackBackendGemini:
	default:
		return fmt.Errorf("backend.feedback must be one of none, gemini; got %q",
			c.Backend.Feedback)
	}

	switch c.App.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("app.logLevel must be one of debug, info, warn, error; got %q",
			c.App.LogLevel)
	}

	return nil
}
