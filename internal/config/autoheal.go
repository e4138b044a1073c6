package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// AutoHealPrefix is the environment prefix of every locator setting
const AutoHealPrefix = "AUTOHEAL"

// AutoHealConfig holds configuration for the self-healing locator.
// Every field is read from an AUTOHEAL_* environment variable.
type AutoHealConfig struct {
	Enabled bool `envconfig:"ENABLED" default:"true"`

	AIProvider   string        `envconfig:"AI_PROVIDER" default:"gemini"`
	AIAPIKey     string        `envconfig:"AI_API_KEY"`
	AIModel      string        `envconfig:"AI_MODEL"`
	AIAPIURL     string        `envconfig:"AI_API_URL"`
	AITimeout    time.Duration `envconfig:"AI_TIMEOUT" default:"30s"`
	AIMaxRetries int           `envconfig:"AI_MAX_RETRIES" default:"3"`

	Strategy       string        `envconfig:"STRATEGY" default:"SMART_SEQUENTIAL"`
	ElementTimeout time.Duration `envconfig:"ELEMENT_TIMEOUT" default:"5s"`
	MinConfidence  float64       `envconfig:"MIN_CONFIDENCE" default:"0.6"`

	CacheEnabled bool          `envconfig:"CACHE_ENABLED" default:"true"`
	CacheTTL     time.Duration `envconfig:"CACHE_TTL" default:"24h"`
	CacheMaxSize int           `envconfig:"CACHE_MAX_SIZE" default:"1000"`
	CacheFile    string        `envconfig:"CACHE_FILE"`

	ReportsEnabled bool   `envconfig:"REPORTS_ENABLED" default:"true"`
	ReportsDir     string `envconfig:"REPORTS_DIR" default:"./autoheal-reports"`
}

// providerKeyVars lists the vendor variables consulted when AUTOHEAL_AI_API_KEY is unset
var providerKeyVars = map[string]string{
	"gemini":    "GEMINI_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
}

// LoadAutoHealConfig loads the locator configuration from AUTOHEAL_* environment variables
func LoadAutoHealConfig() (AutoHealConfig, error) {
	var config AutoHealConfig
	if err := envconfig.Process(AutoHealPrefix, &config); err != nil {
		return config, fmt.Errorf("failed to process %s_* variables: %w", AutoHealPrefix, err)
	}

	config.AIProvider = strings.ToLower(strings.TrimSpace(config.AIProvider))
	config.Strategy = strings.ToUpper(strings.TrimSpace(config.Strategy))
	if config.AIAPIKey == "" {
		config.AIAPIKey = ProviderAPIKey(config.AIProvider, os.Getenv)
	}

	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// DefaultAutoHealConfig returns the configuration used when no variables are set
func DefaultAutoHealConfig() AutoHealConfig {
	return AutoHealConfig{
		Enabled:        true,
		AIProvider:     "gemini",
		AITimeout:      30 * time.Second,
		AIMaxRetries:   3,
		Strategy:       "SMART_SEQUENTIAL",
		ElementTimeout: 5 * time.Second,
		MinConfidence:  0.6,
		CacheEnabled:   true,
		CacheTTL:       24 * time.Hour,
		CacheMaxSize:   1000,
		ReportsEnabled: true,
		ReportsDir:     "./autoheal-reports",
	}
}

// ProviderAPIKey looks up the vendor-specific key variable for provider
func ProviderAPIKey(provider string, getenv func(string) string) string {
	if name, ok := providerKeyVars[provider]; ok {
		return getenv(name)
	}
	return ""
}

// Validate checks value ranges that envconfig cannot express
func (c AutoHealConfig) Validate() error {
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("%s_MIN_CONFIDENCE must be between 0 and 1, got %v", AutoHealPrefix, c.MinConfidence)
	}
	if c.CacheMaxSize < 0 {
		return fmt.Errorf("%s_CACHE_MAX_SIZE cannot be negative", AutoHealPrefix)
	}
	if c.AIMaxRetries < 0 {
		return fmt.Errorf("%s_AI_MAX_RETRIES cannot be negative", AutoHealPrefix)
	}
	if c.ElementTimeout <= 0 {
		return fmt.Errorf("%s_ELEMENT_TIMEOUT must be positive", AutoHealPrefix)
	}
	return nil
}
