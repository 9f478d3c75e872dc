package blog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/romangod6/sitemapper/internal/models"
	"github.com/romangod6/sitemapper/internal/utils"
)

const (
	DefaultEndpoint = "/blogs/published"
	DefaultTimeout  = 15 * time.Second

	maxBodySize = 5 << 20
)

// ErrMalformedResponse is returned when the body is not {"blogs": [...]}.
var ErrMalformedResponse = errors.New("malformed blog response")

// HTTPError represents a non-2XX answer from the blog API.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return "HTTP error: " + strconv.Itoa(e.StatusCode) + " " + http.StatusText(e.StatusCode) + " from " + e.URL
}

// ClientConfig configures the blog API client.
type ClientConfig struct {
	APIBase  string
	Endpoint string
	Timeout  time.Duration
	// NoCache adds unique query parameters and no-cache headers to every
	// request so CDN or proxy caches never answer for the API.
	NoCache bool
}

// Client reads published posts from the blog API.
type Client struct {
	httpClient *http.Client
	config     ClientConfig
}

func NewClient(config ClientConfig) *Client {
	if config.Endpoint == "" {
		config.Endpoint = DefaultEndpoint
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	config.APIBase = strings.TrimRight(config.APIBase, "/")
	if !strings.HasPrefix(config.Endpoint, "/") {
		config.Endpoint = "/" + config.Endpoint
	}

	return &Client{
		httpClient: &http.Client{Timeout: config.Timeout},
		config:     config,
	}
}

// Timestamps are decoded per post; non-string values count as absent.
type blogPayload struct {
	Slug      string          `json:"slug"`
	Title     string          `json:"title"`
	CreatedAt json.RawMessage `json:"createdAt"`
	UpdatedAt json.RawMessage `json:"updatedAt"`
}

type listResponse struct {
	Blogs *[]blogPayload `json:"blogs"`
}

// PublishedBlogs performs a single GET against the blog API. There is no retry.
func (c *Client) PublishedBlogs(ctx context.Context) ([]models.Blog, error) {
	endpoint, err := c.requestURL()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.config.NoCache {
		req.Header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
		req.Header.Set("Pragma", "no-cache")
		req.Header.Set("Expires", "0")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch blogs: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: c.config.APIBase + c.config.Endpoint}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read blog response: %w", err)
	}

	var list listResponse
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if list.Blogs == nil {
		return nil, fmt.Errorf("%w: missing blogs field", ErrMalformedResponse)
	}

	blogs := make([]models.Blog, 0, len(*list.Blogs))
	for _, p := range *list.Blogs {
		blogs = append(blogs, p.toModel())
	}
	return blogs, nil
}

func (c *Client) requestURL() (string, error) {
	u, err := url.Parse(c.config.APIBase + c.config.Endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid blog API URL: %w", err)
	}
	if !u.IsAbs() {
		return "", fmt.Errorf("blog API URL %q is not absolute", u.String())
	}
	if c.config.NoCache {
		q := u.Query()
		q.Set("_t", strconv.FormatInt(time.Now().UnixMilli(), 10))
		q.Set("_r", uuid.NewString())
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func (p blogPayload) toModel() models.Blog {
	return models.Blog{
		Slug:      p.Slug,
		Title:     p.Title,
		Published: true,
		CreatedAt: parseTimestamp(p.CreatedAt),
		UpdatedAt: parseTimestamp(p.UpdatedAt),
	}
}

// parseTimestamp accepts only JSON strings; anything else counts as absent.
func parseTimestamp(raw json.RawMessage) *time.Time {
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil
	}
	return utils.ParseTime(value)
}
