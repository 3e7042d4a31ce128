package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/guildboard/guildboard/config"
	httpx "github.com/guildboard/guildboard/internal/http"
)

const shutdownWaitTimeout = 10 * time.Second

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// NewHTTPServer builds the dashboard server. It does not start listening.
func NewHTTPServer(cfg *HTTPServerConfig) (*http.Server, error) {
	if cfg == nil || cfg.Config == nil {
		return nil, errors.New("http server config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config

	handler, err := httpx.NewRouter(httpx.RouterServices{
		Auth:          cfg.Services.Auth,
		Actions:       cfg.Services.Actions,
		CookieDomain:  appCfg.HTTP.CookieDomain,
		BotInstallURL: appCfg.Discord.InstallURL(appCfg.Auth.OAuth.ClientID),
		SupportURL:    appCfg.Discord.SupportURL,
		CommandPrefix: appCfg.Discord.CommandPrefix,
		Logger:        logger,
	})
	if err != nil {
		return nil, err
	}

	return &http.Server{
		Addr:              appCfg.HTTP.ListenAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}, nil
}

// ServeHTTP runs server until ctx is canceled, then shuts it down gracefully.
func ServeHTTP(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "starting HTTP server", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server")
	// ctx is already done; shutdown gets its own deadline.
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownWaitTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("HTTP server stopped")
	return nil
}
