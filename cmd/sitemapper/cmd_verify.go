package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/romangod6/sitemapper/internal/audit"
	"github.com/romangod6/sitemapper/internal/sitemap"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	crawl        bool
	siteOverride string
)

var verifyCmd = &cobra.Command{
	Use:   "verify [url|file]",
	Short: "Check a sitemap for structural and crawl problems",
	Long: `Parses a sitemap from a URL or a local file and reports every problem a
search engine would complain about: foreign or relative locations, duplicates,
invalid changefreq, priority or lastmod values.

With --crawl every location is fetched as well, honoring robots.txt, and
non-2xx pages, missing titles, noindex pages and foreign canonicals are
reported.

Example:
  sitemapper verify https://www.example-ai.com/sitemap.xml --crawl
  sitemapper verify public/sitemap.xml`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	w := cmd.OutOrStdout()

	siteURL := strings.TrimRight(cfg.Site.URL, "/")
	if siteOverride != "" {
		siteURL = strings.TrimRight(siteOverride, "/")
	}

	data, err := loadSitemap(ctx, args[0])
	if err != nil {
		return err
	}

	set, err := sitemap.Parse(data)
	if err != nil {
		return err
	}

	problems := sitemap.Validate(set, siteURL)
	fmt.Fprintf(w, "Checked %d URLs in %s\n", len(set.URLs), args[0])

	if crawl {
		auditor := audit.NewAuditor(audit.Config{
			SiteURL:     siteURL,
			UserAgent:   cfg.Audit.UserAgent,
			Parallelism: cfg.Audit.Parallelism,
			Timeout:     cfg.GetAuditTimeout(),
		}, logger)

		report, err := auditor.Run(ctx, sitemap.Locs(set))
		if err != nil {
			return fmt.Errorf("crawl interrupted: %w", err)
		}
		fmt.Fprintf(w, "Crawled %d pages\n", len(report.Pages))
		problems = append(problems, report.Problems()...)
	}

	if len(problems) == 0 {
		fmt.Fprintln(w, "No problems found")
		return nil
	}

	for _, p := range problems {
		fmt.Fprintf(w, "  - %s\n", p)
	}
	logger.Warn("Sitemap verification failed", zap.Int("problems", len(problems)))
	return fmt.Errorf("%d problem(s) found", len(problems))
}

func loadSitemap(ctx context.Context, target string) ([]byte, error) {
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		data, err := os.ReadFile(target)
		if err != nil {
			return nil, fmt.Errorf("reading sitemap: %w", err)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", cfg.Audit.UserAgent)
	req.Header.Set("Cache-Control", "no-cache")

	client := &http.Client{Timeout: cfg.GetAuditTimeout()}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching sitemap: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching sitemap: HTTP %s", resp.Status)
	}

	return io.ReadAll(io.LimitReader(resp.Body, 50<<20))
}
