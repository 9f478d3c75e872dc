package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/romangod6/sitemapper/internal/api"
	"github.com/romangod6/sitemapper/internal/blog"
	"github.com/romangod6/sitemapper/internal/sitemap"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site build and a live /sitemap.xml",
	Long: `Starts the HTTP server: /sitemap.xml is rebuilt on every request and never
cached, /api/health answers for load balancers, and every other path is served
from the static build directory with index.html as the fallback.

Stops gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if servePort != 0 {
		cfg.Server.Port = servePort
	}
	if cfg.Log.Level != "debug" && !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize blog source
	source, closer, err := blog.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	builder := sitemap.NewBuilder(cfg.Site.URL, cfg.Catalog, source, logger)
	server := api.NewServer(cfg.Server.Port, cfg.Server.StaticDir, builder, logger)

	// Start the API server
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server",
			zap.Int("port", cfg.Server.Port),
			zap.String("site", cfg.Site.URL),
			zap.String("blogSource", cfg.Blog.Source))
		errCh <- server.Start()
	}()

	return waitForShutdown(commandContext(cmd), server, errCh)
}

func waitForShutdown(ctx context.Context, server *api.Server, errCh <-chan error) error {
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")

	// Graceful server shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	<-errCh
	logger.Info("Server shut down gracefully")
	return nil
}
