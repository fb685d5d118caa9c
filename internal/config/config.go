package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/PabloGalante/farum-chat/internal/domain"
)

type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
	ProviderMock   Provider = "mock"
)

// DefaultModel is the model used when none is configured.
func DefaultModel(p Provider) string {
	switch p {
	case ProviderGemini:
		return "gemini-2.0-flash"
	case ProviderMock:
		return "mock"
	default:
		return "gpt-3.5-turbo"
	}
}

type HistoryMode string

const (
	HistoryFull   HistoryMode = "full"
	HistorySingle HistoryMode = "single"
)

type Config struct {
	Provider        Provider      `env:"FARUM_PROVIDER" envDefault:"openai"`
	Model           string        `env:"FARUM_MODEL"` // empty picks DefaultModel(Provider)
	Temperature     float32       `env:"FARUM_TEMPERATURE" envDefault:"0.7"`
	MaxOutputTokens int           `env:"FARUM_MAX_OUTPUT_TOKENS" envDefault:"1000"`
	SystemPrompt    string        `env:"FARUM_SYSTEM_PROMPT"`
	History         HistoryMode   `env:"FARUM_HISTORY_MODE" envDefault:"full"`
	RequestTimeout  time.Duration `env:"FARUM_REQUEST_TIMEOUT" envDefault:"60s"`
	OpenAIBaseURL   string        `env:"FARUM_OPENAI_BASE_URL"`
	GeminiBaseURL   string        `env:"FARUM_GEMINI_BASE_URL"`

	Port     string `env:"FARUM_PORT" envDefault:"8080"`
	LogLevel string `env:"FARUM_LOG_LEVEL" envDefault:"info"`

	SecretsFile string `env:"FARUM_SECRETS_FILE" envDefault:".farum/secrets.yaml"`
}

// Overrides are values set on the command line. Nil pointers leave the
// environment value alone.
type Overrides struct {
	Provider        *string
	Model           *string
	Temperature     *float32
	MaxOutputTokens *int
	SystemPrompt    *string
	SingleTurn      bool
	RequestTimeout  *time.Duration
	Port            *string
	LogLevel        *string
	SecretsFile     *string
}

// DefaultEnvFiles are read, when present, before the environment is parsed.
var DefaultEnvFiles = []string{".env"}

// LoadEnvFiles reads dotenv files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadEnvFiles(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// Load reads the environment, applies overrides and validates the result.
//
// Loading order (highest priority first):
//  1. command line overrides
//  2. environment variables
//  3. .env files
//  4. envDefault tags
func Load(ov Overrides) (*Config, error) {
	if err := LoadEnvFiles(DefaultEnvFiles...); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, &domain.ConfigurationError{Field: "environment", Reason: err.Error()}
	}

	cfg.apply(ov)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) apply(ov Overrides) {
	if ov.Provider != nil {
		c.Provider = Provider(*ov.Provider)
	}
	if ov.Model != nil {
		c.Model = *ov.Model
	}
	if ov.Temperature != nil {
		c.Temperature = *ov.Temperature
	}
	if ov.MaxOutputTokens != nil {
		c.MaxOutputTokens = *ov.MaxOutputTokens
	}
	if ov.SystemPrompt != nil {
		c.SystemPrompt = *ov.SystemPrompt
	}
	if ov.SingleTurn {
		c.History = HistorySingle
	}
	if ov.RequestTimeout != nil {
		c.RequestTimeout = *ov.RequestTimeout
	}
	if ov.Port != nil {
		c.Port = *ov.Port
	}
	if ov.LogLevel != nil {
		c.LogLevel = *ov.LogLevel
	}
	if ov.SecretsFile != nil {
		c.SecretsFile = *ov.SecretsFile
	}
}

// Validate checks value ranges. Every failure is a *domain.ConfigurationError.
func (c *Config) Validate() error {
	c.Provider = Provider(strings.ToLower(strings.TrimSpace(string(c.Provider))))
	switch c.Provider {
	case ProviderOpenAI, ProviderGemini, ProviderMock:
	default:
		return &domain.ConfigurationError{Field: "FARUM_PROVIDER", Reason: fmt.Sprintf("unknown provider %q", c.Provider)}
	}

	c.Model = strings.TrimSpace(c.Model)
	if c.Model == "" {
		c.Model = DefaultModel(c.Provider)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return &domain.ConfigurationError{Field: "FARUM_TEMPERATURE", Reason: fmt.Sprintf("%v is outside [0, 2]", c.Temperature)}
	}
	if c.MaxOutputTokens <= 0 {
		return &domain.ConfigurationError{Field: "FARUM_MAX_OUTPUT_TOKENS", Reason: "must be positive"}
	}

	switch c.History {
	case HistoryFull, HistorySingle:
	default:
		return &domain.ConfigurationError{Field: "FARUM_HISTORY_MODE", Reason: fmt.Sprintf("unknown mode %q (full or single)", c.History)}
	}

	if c.RequestTimeout <= 0 {
		return &domain.ConfigurationError{Field: "FARUM_REQUEST_TIMEOUT", Reason: "must be positive"}
	}
	return nil
}

// CredentialKey is the secret name holding the token for the configured provider.
func (c *Config) CredentialKey() string {
	switch c.Provider {
	case ProviderGemini:
		return "GEMINI_API_KEY"
	case ProviderMock:
		return ""
	default:
		return "OPENAI_API_KEY"
	}
}

// BaseURL is the endpoint override for the configured provider, empty for
// the public one.
func (c *Config) BaseURL() string {
	switch c.Provider {
	case ProviderGemini:
		return c.GeminiBaseURL
	case ProviderOpenAI:
		return c.OpenAIBaseURL
	default:
		return ""
	}
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}
