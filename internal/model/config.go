package model

import "time"

// Config is the full application configuration tree.
//
// Hierarchy (highest to lowest priority): CLI flags, environment variables
// (TRUTHSHIELD_* plus the API key variables), config file
// (~/.truthshield/config.yaml), defaults.
type Config struct {
	FactCheck  FactCheckConfig  `yaml:"factcheck" mapstructure:"factcheck"`
	Chat       ChatConfig       `yaml:"chat" mapstructure:"chat"`
	HTTP       HTTPConfig       `yaml:"http" mapstructure:"http"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Thumbnails ThumbnailsConfig `yaml:"thumbnails" mapstructure:"thumbnails"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
}

// FactCheckConfig configures the fact-check search client.
type FactCheckConfig struct {
	// APIKey for the fact-check search API (GOOGLE_API_KEY).
	// Absence is fatal for the search feature at startup.
	APIKey string `yaml:"-" mapstructure:"-"`

	// Endpoint override, used by tests.
	Endpoint string `yaml:"endpoint,omitempty" mapstructure:"endpoint"`

	// Language is the default languageCode sent with searches.
	Language string `yaml:"language" mapstructure:"language"`

	// PageSize is the default number of records per page.
	PageSize int `yaml:"page_size" mapstructure:"page_size"`
}

// ChatConfig configures the chat-completion client. Exactly one of the two
// provider keys is expected; if both are set Groq is used.
type ChatConfig struct {
	GroqAPIKey   string `yaml:"-" mapstructure:"-"` // GROQ_API_KEY
	GeminiAPIKey string `yaml:"-" mapstructure:"-"` // GEMINI_API_KEY

	// BaseURL override for the active provider, used by tests.
	BaseURL string `yaml:"base_url,omitempty" mapstructure:"base_url"`

	// Model is the chat model name (provider-specific; empty = provider default).
	Model string `yaml:"model,omitempty" mapstructure:"model"`

	// ExtractionModel is the smaller model used for claim-topic extraction.
	ExtractionModel string `yaml:"extraction_model,omitempty" mapstructure:"extraction_model"`

	// Timeout for a single completion call.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// MaxTokens limits response length (0 = provider default).
	MaxTokens int `yaml:"max_tokens,omitempty" mapstructure:"max_tokens"`
}

// HTTPConfig configures outbound HTTP behavior shared by all clients.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// CacheConfig configures the fact-check response cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ThumbnailsConfig configures review-page thumbnail resolution.
type ThumbnailsConfig struct {
	Enabled     bool    `yaml:"enabled" mapstructure:"enabled"`
	RatePerHost float64 `yaml:"rate_per_host" mapstructure:"rate_per_host"`
	Burst       int     `yaml:"burst" mapstructure:"burst"`
}

// OutputConfig controls diagnostic output.
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		FactCheck: FactCheckConfig{
			Language: "en",
			PageSize: 10,
		},
		Chat: ChatConfig{
			Timeout: 30 * time.Second,
		},
		HTTP: HTTPConfig{
			Timeout:      15 * time.Second,
			UserAgent:    "TruthShield/0.1 (+https://github.com/dkarpov/truthshield)",
			MaxBodyBytes: 2_000_000,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     time.Hour,
		},
		Thumbnails: ThumbnailsConfig{
			Enabled:     false,
			RatePerHost: 1,
			Burst:       2,
		},
	}
}
