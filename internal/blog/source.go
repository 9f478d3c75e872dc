package blog

import (
	"context"
	"fmt"
	"io"

	"github.com/romangod6/sitemapper/config"
	"github.com/romangod6/sitemapper/internal/models"
	"github.com/romangod6/sitemapper/internal/storage"
	"go.uber.org/zap"
)

// Source returns published blog posts.
type Source interface {
	PublishedBlogs(ctx context.Context) ([]models.Blog, error)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// unavailableSource stands in for a blog database that could not be reached.
type unavailableSource struct {
	err error
}

func (s unavailableSource) PublishedBlogs(ctx context.Context) ([]models.Blog, error) {
	return nil, s.err
}

// Open builds the blog source selected by cfg.Blog.Source. A nil Source with
// a nil error means blog entries are disabled. An unreachable database is not
// an error: the returned Source reports it on every call so the sitemap is
// still built without blog entries. Only an unknown source fails. The
// returned Closer is never nil.
func Open(cfg *config.Config, logger *zap.Logger) (Source, io.Closer, error) {
	switch cfg.Blog.Source {
	case "", "http":
		logger.Info("Using blog API",
			zap.String("api", cfg.Blog.APIBase+cfg.Blog.Endpoint),
			zap.Duration("timeout", cfg.GetBlogTimeout()),
			zap.Bool("nocache", cfg.Blog.NoCache))
		return NewClient(ClientConfig{
			APIBase:  cfg.Blog.APIBase,
			Endpoint: cfg.Blog.Endpoint,
			Timeout:  cfg.GetBlogTimeout(),
			NoCache:  cfg.Blog.NoCache,
		}), nopCloser{}, nil
	case "postgres", "sqlite":
		store, err := storage.Open(cfg.Blog.Source, cfg.Database.URL)
		if err != nil {
			err = fmt.Errorf("failed to open %s blog store: %w", cfg.Blog.Source, err)
			logger.Warn("Blog database unavailable, sitemap will have no blog entries", zap.Error(err))
			return unavailableSource{err: err}, nopCloser{}, nil
		}
		if err := store.Initialize(); err != nil {
			store.Close()
			err = fmt.Errorf("failed to initialize blog store: %w", err)
			logger.Warn("Blog database unavailable, sitemap will have no blog entries", zap.Error(err))
			return unavailableSource{err: err}, nopCloser{}, nil
		}
		logger.Info("Using blog database", zap.String("driver", cfg.Blog.Source))
		return store, store, nil
	case "none":
		logger.Info("Blog entries disabled")
		return nil, nopCloser{}, nil
	default:
		return nil, nopCloser{}, fmt.Errorf("unknown blog source %q", cfg.Blog.Source)
	}
}
