package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server      ServerConfig
	Log         LogConfig
	Proxy       ProxyConfig
	DeepSeek    DeepSeekConfig
	Gemini      GeminiConfig
	Analysis    AnalysisConfig
	Redis       RedisConfig
	Preferences PreferencesConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
	Version         string   `envconfig:"APP_VERSION" default:"dev"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
	File   string `envconfig:"LOG_FILE"`
}

// ProxyConfig holds the DeepSeek pass-through proxy configuration.
// With AllowStream off the proxy forces "stream": false, so clients pointed at it
// must not set DEEPSEEK_STREAM.
type ProxyConfig struct {
	UpstreamURL string        `envconfig:"PROXY_UPSTREAM_URL" default:"https://api.deepseek.com/chat/completions"`
	Timeout     time.Duration `envconfig:"PROXY_TIMEOUT" default:"120s"`
	AllowStream bool          `envconfig:"PROXY_ALLOW_STREAM" default:"false"`
}

// DeepSeekConfig holds DeepSeek client configuration.
// When ProxyURL is set the client talks to the proxy and sends the key in the body.
// Stream through a proxy needs PROXY_ALLOW_STREAM=true on that proxy; otherwise the
// proxy answers with plain JSON and the stream reader sees no events.
type DeepSeekConfig struct {
	BaseURL     string  `envconfig:"DEEPSEEK_BASE_URL" default:"https://api.deepseek.com"`
	ProxyURL    string  `envconfig:"DEEPSEEK_PROXY_URL"`
	Model       string  `envconfig:"DEEPSEEK_MODEL" default:"deepseek-chat"`
	Stream      bool    `envconfig:"DEEPSEEK_STREAM" default:"false"`
	MaxTokens   int     `envconfig:"DEEPSEEK_MAX_TOKENS" default:"4000"`
	Temperature float64 `envconfig:"DEEPSEEK_TEMPERATURE" default:"0.3"`
}

// GeminiConfig holds Gemini client configuration
type GeminiConfig struct {
	APIKey         string `envconfig:"GEMINI_API_KEY"`
	Model          string `envconfig:"GEMINI_MODEL" default:"gemini-3-flash-preview"`
	ThinkingBudget int    `envconfig:"GEMINI_THINKING_BUDGET" default:"16000"`
	BaseURL        string `envconfig:"GEMINI_BASE_URL"`
}

// AnalysisConfig holds analysis service configuration
type AnalysisConfig struct {
	Timeout         time.Duration `envconfig:"ANALYSIS_TIMEOUT" default:"180s"`
	MaxInflight     int64         `envconfig:"ANALYSIS_MAX_INFLIGHT" default:"1"`
	StrictJSON      bool          `envconfig:"ANALYSIS_STRICT_JSON" default:"false"`
	ScenarioFile    string        `envconfig:"SCENARIO_FILE"`
	DefaultProvider string        `envconfig:"DEFAULT_PROVIDER" default:"gemini"`
	DefaultScenario string        `envconfig:"DEFAULT_SCENARIO" default:"store_visit"`
}

// RedisConfig holds Redis configuration. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
	Key      string `envconfig:"REDIS_PREFERENCES_KEY" default:"aisales:preferences"`
}

// PreferencesConfig holds the file preference store location.
// An empty File means the user config directory.
type PreferencesConfig struct {
	File string `envconfig:"PREFERENCES_FILE"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	return FromEnv()
}

// FromEnv builds the configuration from the current process environment only
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch strings.ToLower(c.Analysis.DefaultProvider) {
	case "deepseek", "gemini":
	default:
		return fmt.Errorf("DEFAULT_PROVIDER must be deepseek or gemini, got %q", c.Analysis.DefaultProvider)
	}
	if c.Analysis.Timeout <= 0 {
		return fmt.Errorf("ANALYSIS_TIMEOUT must be positive")
	}
	if c.Analysis.MaxInflight < 1 {
		return fmt.Errorf("ANALYSIS_MAX_INFLIGHT must be at least 1")
	}
	if c.Proxy.Timeout <= 0 {
		return fmt.Errorf("PROXY_TIMEOUT must be positive")
	}
	if c.Proxy.UpstreamURL == "" {
		return fmt.Errorf("PROXY_UPSTREAM_URL is required")
	}
	if c.DeepSeek.MaxTokens <= 0 {
		return fmt.Errorf("DEEPSEEK_MAX_TOKENS must be positive")
	}
	if c.Gemini.ThinkingBudget < 0 {
		return fmt.Errorf("GEMINI_THINKING_BUDGET must not be negative")
	}
	return nil
}

// GetServerAddr returns the listen address
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// StreamMismatch reports whether the DeepSeek client streams through a proxy that,
// configured from this same environment, would force non-streaming answers
func (c *Config) StreamMismatch() bool {
	return c.DeepSeek.Stream && strings.TrimSpace(c.DeepSeek.ProxyURL) != "" && !c.Proxy.AllowStream
}

// RedisEnabled reports whether a Redis address has been configured
func (c *Config) RedisEnabled() bool {
	return c.Redis.Addr != ""
}
