package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/romangod6/sitemapper/config"
	"github.com/romangod6/sitemapper/internal/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	verbose    bool

	cfg      *config.Config
	logger   *zap.Logger
	closeLog func() error
)

var rootCmd = &cobra.Command{
	Use:   "sitemapper",
	Short: "Build and check the marketing site sitemap",
	Long: `sitemapper assembles sitemap.xml from the static page catalog, the service
and landing pages, and the published posts of the blog API.

Blog API failures never fail a build: the sitemap is written without blog
entries and a warning is logged.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		logger, closeLog, err = utils.NewLogger("sitemapper", cfg.Log.Dir, level)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if closeLog != nil {
			_ = closeLog()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml (default ./config.yaml or ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	generateCmd.Flags().StringVarP(&outputPath, "out", "o", "", "output file (default sitemap.output from config)")
	verifyCmd.Flags().BoolVar(&crawl, "crawl", false, "also fetch every page and check status, robots.txt and SEO tags")
	verifyCmd.Flags().StringVar(&siteOverride, "site", "", "expected site URL (default site.url from config)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (default server.port from config)")

	rootCmd.AddCommand(generateCmd, verifyCmd, blogsCmd, serveCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
