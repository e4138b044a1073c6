package main

import (
	"fmt"
	"os"

	internalcli "github.com/themizzi/swaglabs/internal/cli"
	"github.com/themizzi/swaglabs/internal/config"
	"github.com/themizzi/swaglabs/internal/logging"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// ServeCommand returns the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the storefront web server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Usage: "listen port (overrides PORT)"},
		},
		Action: func(c *cli.Context) error {
			logger, err := logging.New(config.LoadLoggingConfig(os.Getenv))
			if err != nil {
				return err
			}
			defer logger.Sync()

			serverConfig, err := config.LoadServerConfig(os.Getenv)
			if err != nil {
				return err
			}
			if port := c.String("port"); port != "" {
				serverConfig.Port = port
			}

			var pgConfig *config.PostgresConfig
			if serverConfig.Storage == config.StoragePostgres {
				pgConfig, err = config.LoadPostgresConfig(os.Getenv)
				if err != nil {
					return fmt.Errorf("missing required database configuration: %w", err)
				}
			}

			storefront, err := internalcli.BuildStorefront(serverConfig, pgConfig, logger)
			if err != nil {
				return err
			}
			defer storefront.Close()

			logger.Info("Starting storefront", zap.String("port", serverConfig.Port), zap.String("storage", serverConfig.Storage))
			return internalcli.RunServe(storefront.Deps)
		},
	}
}
