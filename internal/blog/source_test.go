package blog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/romangod6/sitemapper/config"
	"github.com/romangod6/sitemapper/internal/models"
	"github.com/romangod6/sitemapper/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpen_HTTP(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{}
	cfg.Blog.Source = "http"
	cfg.Blog.APIBase = "https://api.example.com"
	cfg.Blog.Timeout = "10s"

	source, closer, err := Open(cfg, zap.NewNop())
	require.NoError(t, err)
	defer closer.Close()
	require.IsType(t, &Client{}, source)
	assert.Equal(t, DefaultEndpoint, source.(*Client).config.Endpoint)
}

func TestOpen_None(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{}
	cfg.Blog.Source = "none"

	source, closer, err := Open(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, source)
	assert.NoError(t, closer.Close())
}

func TestOpen_SQLite(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{}
	cfg.Blog.Source = "sqlite"
	cfg.Database.URL = filepath.Join(t.TempDir(), "blogs.db")

	source, closer, err := Open(cfg, zap.NewNop())
	require.NoError(t, err)
	defer closer.Close()

	store, ok := source.(storage.Store)
	require.True(t, ok)
	require.NoError(t, store.CreateBlog(context.Background(), models.NewBlog("hello", "Hello")))

	blogs, err := source.PublishedBlogs(context.Background())
	require.NoError(t, err)
	require.Len(t, blogs, 1)
	assert.Equal(t, "hello", blogs[0].Slug)
}

func TestOpen_Unknown(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{}
	cfg.Blog.Source = "ftp"

	_, closer, err := Open(cfg, zap.NewNop())
	assert.Error(t, err)
	assert.NotNil(t, closer)
}

func TestOpen_UnreachableDatabaseDegrades(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		source string
		dsn    string
	}{
		{"postgres refused", "postgres", "postgres://sitemapper@127.0.0.1:1/blogs?sslmode=disable&connect_timeout=2"},
		{"sqlite missing directory", "sqlite", filepath.Join(t.TempDir(), "missing", "dir", "blogs.db")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Blog.Source = tt.source
			cfg.Database.URL = tt.dsn

			source, closer, err := Open(cfg, zap.NewNop())
			require.NoError(t, err)
			require.NotNil(t, source)
			assert.NoError(t, closer.Close())

			blogs, err := source.PublishedBlogs(context.Background())
			assert.Error(t, err)
			assert.Empty(t, blogs)
		})
	}
}
