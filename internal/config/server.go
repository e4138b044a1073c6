package config

import "fmt"

// Storage backends for carts
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	Storage      string
	TemplatesDir string
	StaticDir    string
	CatalogPath  string
}

// LoadServerConfig loads server configuration from environment variables
func LoadServerConfig(getenv func(string) string) (ServerConfig, error) {
	config := ServerConfig{
		Port:         getenv("PORT"),
		Storage:      getenv("STORAGE"),
		TemplatesDir: getenv("TEMPLATES_DIR"),
		StaticDir:    getenv("STATIC_DIR"),
		CatalogPath:  getenv("CATALOG_PATH"),
	}

	if config.Port == "" {
		config.Port = "8080" // Default to port 8080
	}
	if config.Storage == "" {
		config.Storage = StorageMemory
	}
	if config.TemplatesDir == "" {
		config.TemplatesDir = "templates"
	}
	if config.StaticDir == "" {
		config.StaticDir = "static"
	}

	switch config.Storage {
	case StorageMemory, StoragePostgres:
	default:
		return config, fmt.Errorf("unsupported STORAGE %q (want %s or %s)", config.Storage, StorageMemory, StoragePostgres)
	}

	return config, nil
}
