package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/romangod6/sitemapper/internal/catalog"
	"github.com/romangod6/sitemapper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "http", cfg.Blog.Source)
	assert.Equal(t, "/blogs/published", cfg.Blog.Endpoint)
	assert.True(t, cfg.Blog.NoCache)
	assert.Equal(t, 15*time.Second, cfg.GetBlogTimeout())
	assert.Equal(t, "public/sitemap.xml", cfg.Sitemap.Output)
	assert.Equal(t, catalog.Default(), cfg.Catalog)
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := writeConfig(t, `
site:
  url: https://acme.ai/
server:
  port: 9090
blog:
  apibase: https://api.acme.ai
  timeout: 10s
  nocache: false
catalog:
  pages:
    - path: ""
      changefrequency: daily
      priority: 1.0
  services: [chatbots]
  landing: [/promo]
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://acme.ai", cfg.Site.URL)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "https://api.acme.ai", cfg.Blog.APIBase)
	assert.Equal(t, 10*time.Second, cfg.GetBlogTimeout())
	assert.False(t, cfg.Blog.NoCache)
	assert.Equal(t, catalog.Catalog{
		Pages:    []catalog.Page{{Path: "", ChangeFrequency: models.ChangeDaily, Priority: 1.0}},
		Services: []string{"chatbots"},
		Landing:  []string{"/promo"},
	}, cfg.Catalog)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SITEMAPPER_BLOG_APIBASE", "https://env.example.com")
	t.Setenv("SITEMAPPER_SERVER_PORT", "7070")

	cfg, err := LoadConfig(writeConfig(t, "blog:\n  apibase: https://file.example.com\n"))
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.Blog.APIBase)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadConfig_RejectsInvalidCatalog(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
catalog:
  pages:
    - path: /x
      changefrequency: hourly
      priority: 0.5
`))
	assert.Error(t, err)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestGetBlogTimeout_FallsBack(t *testing.T) {
	cfg := &Config{}
	cfg.Blog.Timeout = "soon"
	assert.Equal(t, 15*time.Second, cfg.GetBlogTimeout())
	cfg.Blog.Timeout = "-1s"
	assert.Equal(t, 15*time.Second, cfg.GetBlogTimeout())
}
