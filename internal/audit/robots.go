package audit

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/temoto/robotstxt"
)

// RobotsChecker answers whether a path may be crawled by the configured agent.
type RobotsChecker struct {
	data      *robotstxt.RobotsData
	userAgent string
}

// NewRobotsChecker parses robots.txt content.
func NewRobotsChecker(content, userAgent string) (*RobotsChecker, error) {
	data, err := robotstxt.FromString(content)
	if err != nil {
		return nil, fmt.Errorf("parsing robots.txt: %w", err)
	}
	return &RobotsChecker{data: data, userAgent: userAgent}, nil
}

// FetchRobots downloads siteURL/robots.txt. Status codes follow the usual
// convention: 4xx allows everything, 5xx disallows everything.
func FetchRobots(ctx context.Context, client *http.Client, siteURL, userAgent string) (*RobotsChecker, error) {
	base, err := url.Parse(siteURL)
	if err != nil {
		return nil, fmt.Errorf("invalid site URL %q: %w", siteURL, err)
	}
	robotsURL := base.ResolveReference(&url.URL{Path: "/robots.txt"})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", robotsURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512<<10))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", robotsURL, err)
	}

	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", robotsURL, err)
	}
	return &RobotsChecker{data: data, userAgent: userAgent}, nil
}

// Allowed reports whether the path of loc may be fetched.
func (rc *RobotsChecker) Allowed(loc string) bool {
	if rc == nil || rc.data == nil {
		return true
	}
	path := "/"
	if u, err := url.Parse(loc); err == nil && u.EscapedPath() != "" {
		path = u.EscapedPath()
	}
	return rc.data.TestAgent(path, rc.userAgent)
}
