package api

import (
	"context"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/romangod6/sitemapper/internal/models"
	"go.uber.org/zap"
)

// SitemapBuilder is implemented by *sitemap.Builder.
type SitemapBuilder interface {
	Build(ctx context.Context) ([]byte, error)
	Entries(ctx context.Context) []models.SitemapEntry
}

type Handler struct {
	builder   SitemapBuilder
	staticDir string
	logger    *zap.Logger
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type PaginationResponse struct {
	Data       interface{} `json:"data"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalCount int         `json:"total_count"`
}

func NewHandler(builder SitemapBuilder, staticDir string, logger *zap.Logger) *Handler {
	return &Handler{builder: builder, staticDir: staticDir, logger: logger}
}

// Sitemap builds the sitemap on every hit and forbids any caching of it.
func (h *Handler) Sitemap(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")

	body, err := h.builder.Build(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to build sitemap", zap.Error(err))
		c.String(http.StatusInternalServerError, "Error generating sitemap: %v", err)
		return
	}

	c.Data(http.StatusOK, "application/xml", body)
}

func (h *Handler) ListEntries(c *gin.Context) {
	page, limit := getPaginationParams(c)

	entries := h.builder.Entries(c.Request.Context())
	total := len(entries)

	// Compare pages before multiplying so a huge page cannot overflow.
	offset := total
	if page-1 <= total/limit {
		offset = min((page-1)*limit, total)
	}
	end := offset + limit
	if end > total {
		end = total
	}

	c.JSON(http.StatusOK, PaginationResponse{
		Data:       entries[offset:end],
		Page:       page,
		Limit:      limit,
		TotalCount: total,
	})
}

// Static serves files from the site build and falls back to index.html so the
// client-side router can resolve the path.
func (h *Handler) Static(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.JSON(http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed"})
		return
	}
	if h.staticDir == "" {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
		return
	}

	// Clean against "/" so the result can never climb out of staticDir.
	rel := path.Clean("/" + c.Request.URL.Path)
	file := filepath.Join(h.staticDir, filepath.FromSlash(rel))

	if info, err := os.Stat(file); err == nil && !info.IsDir() {
		c.File(file)
		return
	}

	index := filepath.Join(h.staticDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
		return
	}
	c.File(index)
}

// Utility functions
func getPaginationParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 50
	}

	return page, limit
}
