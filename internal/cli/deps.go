package cli

import (
	"database/sql"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/themizzi/swaglabs/internal/config"
	"github.com/themizzi/swaglabs/internal/database"
	"github.com/themizzi/swaglabs/internal/handlers"
	"github.com/themizzi/swaglabs/internal/models"
	"github.com/themizzi/swaglabs/internal/repository"
	"github.com/themizzi/swaglabs/internal/services"
	"go.uber.org/zap"
)

// Storefront bundles the server dependencies with the resources they hold
type Storefront struct {
	Deps ServerDependencies
	DB   *sql.DB
}

// Close releases the database connection, if any
func (s *Storefront) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// BuildStorefront wires repositories, services and handlers from configuration.
// pgConfig is only consulted when cfg.Storage is postgres.
func BuildStorefront(cfg config.ServerConfig, pgConfig *config.PostgresConfig, logger *zap.Logger) (*Storefront, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	sf := &Storefront{}

	catalog := models.DefaultCatalog()
	if cfg.CatalogPath != "" {
		loaded, err := models.LoadCatalog(cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
		catalog = loaded
	}
	logger.Info("Catalog loaded", zap.Int("products", catalog.Len()))

	var cartRepo services.CartRepository
	switch cfg.Storage {
	case config.StoragePostgres:
		if pgConfig == nil {
			return nil, fmt.Errorf("postgres storage requires database configuration")
		}
		db, err := database.Open(pgConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.RunMigrations(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
		logger.Info("Connected to database", zap.String("host", pgConfig.Host), zap.String("database", pgConfig.Database))
		sf.DB = db
		cartRepo = repository.NewCartRepository(db)
	default:
		cartRepo = repository.NewMemoryCartRepository()
	}

	users := models.DefaultUsers()
	auth := services.NewAuthService(users, services.NewSessionStore(), logger)
	carts := services.NewCartService(cartRepo, catalog, logger)

	tmpl := func(name string) string { return filepath.Join(cfg.TemplatesDir, name) }
	protect := func(h http.Handler) http.Handler { return handlers.RequireSession(auth, logger, h) }

	loginHandler, err := handlers.NewLoginHandler(tmpl("login.html"), auth, users, logger)
	if err != nil {
		sf.Close()
		return nil, fmt.Errorf("failed to create login handler: %w", err)
	}
	inventoryHandler, err := handlers.NewInventoryHandler(tmpl("inventory.html"), catalog, carts, logger)
	if err != nil {
		sf.Close()
		return nil, fmt.Errorf("failed to create inventory handler: %w", err)
	}
	cartHandler, err := handlers.NewCartHandler(tmpl("cart.html"), carts, logger)
	if err != nil {
		sf.Close()
		return nil, fmt.Errorf("failed to create cart handler: %w", err)
	}

	sf.Deps = ServerDependencies{
		ServerConfig:      cfg,
		Logger:            logger,
		LoginHandler:      loginHandler,
		LogoutHandler:     handlers.NewLogoutHandler(auth, logger),
		InventoryHandler:  protect(inventoryHandler),
		CartHandler:       protect(cartHandler),
		CartAddHandler:    protect(handlers.NewCartActionHandler(handlers.CartActionAdd, carts, logger)),
		CartRemoveHandler: protect(handlers.NewCartActionHandler(handlers.CartActionRemove, carts, logger)),
		CartAPIHandler:    protect(handlers.NewCartAPIHandler(carts, logger)),
		StaticHandler:     http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))),
	}

	return sf, nil
}
