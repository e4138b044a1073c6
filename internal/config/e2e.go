package config

import "strings"

// E2EConfig holds settings for the browser test suite
type E2EConfig struct {
	// BaseURL of the storefront under test. Empty means the suite starts its own.
	BaseURL  string
	Headless bool
}

// LoadE2EConfig loads e2e configuration from environment variables
func LoadE2EConfig(getenv func(string) string) E2EConfig {
	return E2EConfig{
		BaseURL:  strings.TrimRight(getenv("BASE_URL"), "/"),
		Headless: getenv("HEADLESS") != "false",
	}
}
