package sitemap

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/romangod6/sitemapper/internal/catalog"
	"github.com/romangod6/sitemapper/internal/models"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// BlogSource returns the currently published blog posts.
type BlogSource interface {
	PublishedBlogs(ctx context.Context) ([]models.Blog, error)
}

// Builder assembles sitemap entries from a catalog and a blog source.
type Builder struct {
	siteURL string
	catalog catalog.Catalog
	source  BlogSource
	logger  *zap.Logger
	now     func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// NewBuilder creates a builder for siteURL. A nil source produces a sitemap
// without blog entries.
func NewBuilder(siteURL string, cat catalog.Catalog, source BlogSource, logger *zap.Logger, opts ...Option) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Builder{
		siteURL: strings.TrimRight(siteURL, "/"),
		catalog: cat,
		source:  source,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SiteURL returns the site origin without a trailing slash.
func (b *Builder) SiteURL() string {
	return b.siteURL
}

// Build produces the sitemap document. Blog source failures only remove the
// blog entries; an error means the document itself could not be rendered.
func (b *Builder) Build(ctx context.Context) ([]byte, error) {
	return ToXML(b.siteURL, b.Entries(ctx))
}

// Entries returns static, service, blog and landing entries in that order.
// When two entries share a path the first one is kept.
func (b *Builder) Entries(ctx context.Context) []models.SitemapEntry {
	now := b.now().UTC().Truncate(time.Second)

	static := lo.Map(b.catalog.Pages, func(p catalog.Page, _ int) models.SitemapEntry {
		return models.SitemapEntry{
			Path:            p.Path,
			LastModified:    now,
			ChangeFrequency: p.ChangeFrequency,
			Priority:        p.Priority,
		}
	})
	services := lo.Map(b.catalog.Services, func(slug string, _ int) models.SitemapEntry {
		return models.SitemapEntry{
			Path:            catalog.ServicePath(slug),
			LastModified:    now,
			ChangeFrequency: catalog.ServiceChangeFrequency,
			Priority:        catalog.ServicePriority,
		}
	})
	landing := lo.Map(b.catalog.Landing, func(path string, _ int) models.SitemapEntry {
		return models.SitemapEntry{
			Path:            path,
			LastModified:    now,
			ChangeFrequency: catalog.LandingChangeFrequency,
			Priority:        catalog.LandingPriority,
		}
	})

	entries := make([]models.SitemapEntry, 0, len(static)+len(services)+len(landing))
	entries = append(entries, static...)
	entries = append(entries, services...)
	entries = append(entries, b.blogEntries(ctx, now)...)
	entries = append(entries, landing...)

	return b.dedupe(entries)
}

func (b *Builder) blogEntries(ctx context.Context, now time.Time) []models.SitemapEntry {
	if b.source == nil {
		return nil
	}

	blogs, err := b.source.PublishedBlogs(ctx)
	if err != nil {
		b.logger.Warn("Blog source unavailable, building sitemap without blog entries", zap.Error(err))
		return nil
	}

	entries := lo.FilterMap(blogs, func(blog models.Blog, _ int) (models.SitemapEntry, bool) {
		slug := strings.TrimSpace(blog.Slug)
		if slug == "" {
			b.logger.Warn("Skipping blog without slug", zap.String("title", blog.Title))
			return models.SitemapEntry{}, false
		}
		return models.SitemapEntry{
			Path:            "/blogs/" + url.PathEscape(slug),
			LastModified:    blog.LastModified(now).UTC().Truncate(time.Second),
			ChangeFrequency: catalog.BlogChangeFrequency,
			Priority:        catalog.BlogPriority,
		}, true
	})
	b.logger.Debug("Fetched blog entries", zap.Int("count", len(entries)))
	return entries
}

func (b *Builder) dedupe(entries []models.SitemapEntry) []models.SitemapEntry {
	seen := make(map[string]struct{}, len(entries))
	return lo.Filter(entries, func(e models.SitemapEntry, _ int) bool {
		if _, ok := seen[e.Path]; ok {
			b.logger.Warn("Duplicate sitemap path, keeping first occurrence", zap.String("path", e.Path))
			return false
		}
		seen[e.Path] = struct{}{}
		return true
	})
}
