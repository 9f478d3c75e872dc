package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/romangod6/sitemapper/internal/blog"
	"github.com/romangod6/sitemapper/internal/sitemap"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var outputPath string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write sitemap.xml for the static build",
	Long: `Builds the sitemap and writes it to the output file, creating the parent
directory when needed. Run it before deploying the static site:

  sitemapper generate --out public/sitemap.xml`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	out := outputPath
	if out == "" {
		out = cfg.Sitemap.Output
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Generating sitemap for %s...\n", cfg.Site.URL)

	source, closer, err := blog.Open(cfg, logger)
	if err != nil {
		return fmt.Errorf("generating sitemap: %w", err)
	}
	defer closer.Close()

	builder := sitemap.NewBuilder(cfg.Site.URL, cfg.Catalog, source, logger)
	entries := builder.Entries(commandContext(cmd))

	data, err := sitemap.ToXML(builder.SiteURL(), entries)
	if err != nil {
		return fmt.Errorf("generating sitemap: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing sitemap: %w", err)
	}

	logger.Info("Sitemap written", zap.String("path", out), zap.Int("urls", len(entries)))
	fmt.Fprintf(w, "Sitemap generated successfully at %s (%d URLs)\n", out, len(entries))
	return nil
}
