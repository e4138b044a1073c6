package cli

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/themizzi/swaglabs/internal/config"
	"go.uber.org/zap"
)

// ServerDependencies holds all dependencies needed for the server
type ServerDependencies struct {
	ServerConfig      config.ServerConfig
	Logger            *zap.Logger
	LoginHandler      http.Handler
	LogoutHandler     http.Handler
	InventoryHandler  http.Handler
	CartHandler       http.Handler
	CartAddHandler    http.Handler
	CartRemoveHandler http.Handler
	CartAPIHandler    http.Handler
	StaticHandler     http.Handler
}

// RunServe starts the storefront web server
func RunServe(deps ServerDependencies) error {
	listener, server, err := StartServer(deps)
	if err != nil {
		return err
	}
	defer listener.Close()

	return WaitForShutdown(server, nil, deps.Logger)
}

// Routes builds the storefront mux
func Routes(deps ServerDependencies) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/", deps.LoginHandler)
	mux.Handle("/logout", deps.LogoutHandler)
	mux.Handle("/inventory.html", deps.InventoryHandler)
	mux.Handle("/cart.html", deps.CartHandler)
	mux.Handle("/cart/add", deps.CartAddHandler)
	mux.Handle("/cart/remove", deps.CartRemoveHandler)
	mux.Handle("/api/cart", deps.CartAPIHandler)
	if deps.StaticHandler != nil {
		mux.Handle("/static/", deps.StaticHandler)
	}
	return mux
}

// StartServer creates and starts the HTTP server, returning the listener and server
func StartServer(deps ServerDependencies) (net.Listener, *http.Server, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	addr := fmt.Sprintf(":%s", deps.ServerConfig.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create listener: %w", err)
	}

	server := &http.Server{
		Handler:           Routes(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server listening", zap.String("addr", listener.Addr().String()))
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", zap.Error(err))
		}
	}()

	return listener, server, nil
}

// WaitForShutdown waits for a shutdown signal and gracefully shuts down the server
// If shutdown channel is nil, a new channel will be created and registered with signal.Notify
func WaitForShutdown(server *http.Server, shutdown chan os.Signal, logger *zap.Logger) error {
	return WaitForShutdownWithTimeout(server, shutdown, 30*time.Second, logger)
}

// WaitForShutdownWithTimeout allows specifying a custom shutdown timeout (primarily for testing)
func WaitForShutdownWithTimeout(server *http.Server, shutdown chan os.Signal, shutdownTimeout time.Duration, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if shutdown == nil {
		shutdown = make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
		defer signal.Stop(shutdown)
	}

	sig := <-shutdown
	logger.Info("Received signal, shutting down server", zap.Stringer("signal", sig))

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		// Outstanding requests did not finish in time
		if err := server.Close(); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	logger.Info("Server stopped")
	return nil
}
