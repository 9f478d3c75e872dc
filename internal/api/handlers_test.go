package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/romangod6/sitemapper/internal/catalog"
	"github.com/romangod6/sitemapper/internal/models"
	"github.com/romangod6/sitemapper/internal/sitemap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type failingBuilder struct{}

func (failingBuilder) Build(ctx context.Context) ([]byte, error) {
	return nil, errors.New("invalid change frequency")
}

func (failingBuilder) Entries(ctx context.Context) []models.SitemapEntry {
	return nil
}

type downSource struct{}

func (downSource) PublishedBlogs(ctx context.Context) ([]models.Blog, error) {
	return nil, context.DeadlineExceeded
}

type staticSource []models.Blog

func (s staticSource) PublishedBlogs(ctx context.Context) ([]models.Blog, error) {
	return s, nil
}

func newBuilder(source sitemap.BlogSource) *sitemap.Builder {
	frozen := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return sitemap.NewBuilder("https://example.com", catalog.Default(), source, zap.NewNop(),
		sitemap.WithClock(func() time.Time { return frozen }))
}

func serve(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func writeSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>spa</html>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log(1)"), 0o644))
	return dir
}

func TestSitemap_Success(t *testing.T) {
	t.Parallel()
	s := NewServer(0, "", newBuilder(staticSource{{Slug: "a"}, {Slug: "b"}}), zap.NewNop())

	rec := serve(t, s, http.MethodGet, "/sitemap.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xml", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "no-cache", rec.Header().Get("Pragma"))
	assert.Equal(t, "0", rec.Header().Get("Expires"))

	set, err := sitemap.Parse(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Len(t, set.URLs, 17)
}

func TestSitemap_BlogSourceDownStillServes(t *testing.T) {
	t.Parallel()
	s := NewServer(0, "", newBuilder(downSource{}), zap.NewNop())

	rec := serve(t, s, http.MethodGet, "/sitemap.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	set, err := sitemap.Parse(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Len(t, set.URLs, 15)
}

func TestSitemap_BuildFailureIs500(t *testing.T) {
	t.Parallel()
	s := NewServer(0, "", failingBuilder{}, zap.NewNop())

	rec := serve(t, s, http.MethodGet, "/sitemap.xml")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), "Error generating sitemap: invalid change frequency")
	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
}

func TestHealth(t *testing.T) {
	t.Parallel()
	s := NewServer(0, "", failingBuilder{}, zap.NewNop())

	rec := serve(t, s, http.MethodGet, "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestListEntries_Paginates(t *testing.T) {
	t.Parallel()
	s := NewServer(0, "", newBuilder(staticSource{{Slug: "a"}, {Slug: "b"}}), zap.NewNop())

	rec := serve(t, s, http.MethodGet, "/api/sitemap/entries?page=2&limit=5")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data       []models.SitemapEntry `json:"data"`
		Page       int                   `json:"page"`
		Limit      int                   `json:"limit"`
		TotalCount int                   `json:"total_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 5, resp.Limit)
	assert.Equal(t, 17, resp.TotalCount)
	require.Len(t, resp.Data, 5)
	assert.Equal(t, "/services/ai-chatbots", resp.Data[0].Path)
}

func TestListEntries_PastTheEnd(t *testing.T) {
	t.Parallel()
	s := NewServer(0, "", newBuilder(nil), zap.NewNop())

	for _, query := range []string{
		"page=9&limit=10",
		"page=184467440737095518&limit=50",
		"page=9223372036854775807&limit=500",
	} {
		rec := serve(t, s, http.MethodGet, "/api/sitemap/entries?"+query)
		require.Equal(t, http.StatusOK, rec.Code, query)
		assert.Contains(t, rec.Body.String(), `"data":[]`, query)
		assert.Contains(t, rec.Body.String(), `"total_count":15`, query)
	}
}

func TestStatic_ServesFilesAndFallsBack(t *testing.T) {
	t.Parallel()
	s := NewServer(0, writeSite(t), failingBuilder{}, zap.NewNop())

	rec := serve(t, s, http.MethodGet, "/assets/app.js")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "console.log(1)", rec.Body.String())

	rec = serve(t, s, http.MethodGet, "/services/ai-chatbots")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<html>spa</html>", rec.Body.String())

	rec = serve(t, s, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<html>spa</html>", rec.Body.String())
}

func TestStatic_NoTraversal(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	site := filepath.Join(root, "site")
	require.NoError(t, os.MkdirAll(site, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(site, "index.html"), []byte("index"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "secret.txt"), []byte("secret"), 0o644))

	s := NewServer(0, site, failingBuilder{}, zap.NewNop())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.URL.Path = "/../secret.txt"
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestStatic_NoSiteDir(t *testing.T) {
	t.Parallel()
	s := NewServer(0, "", failingBuilder{}, zap.NewNop())
	rec := serve(t, s, http.MethodGet, "/about")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatic_RejectsWrites(t *testing.T) {
	t.Parallel()
	s := NewServer(0, writeSite(t), failingBuilder{}, zap.NewNop())
	rec := serve(t, s, http.MethodPost, "/contact")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
