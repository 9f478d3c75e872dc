package audit

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/romangod6/sitemapper/internal/sitemap"
	"go.uber.org/zap"
)

const locKey = "loc"

type Config struct {
	SiteURL     string
	UserAgent   string
	Parallelism int
	Timeout     time.Duration
}

// PageResult is what the crawl observed for one sitemap location.
type PageResult struct {
	Loc        string   `json:"loc"`
	StatusCode int      `json:"status_code"`
	Disallowed bool     `json:"disallowed,omitempty"`
	Error      string   `json:"error,omitempty"`
	Meta       *SEOMeta `json:"meta,omitempty"`
}

// Report lists results in the order the locations were given.
type Report struct {
	Pages []PageResult `json:"pages"`
}

// Auditor visits every location of a sitemap and records how each page
// answers.
type Auditor struct {
	config     Config
	httpClient *http.Client
	logger     *zap.Logger
}

func NewAuditor(config Config, logger *zap.Logger) *Auditor {
	if config.Parallelism < 1 {
		config.Parallelism = 1
	}
	if config.Timeout <= 0 {
		config.Timeout = 20 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "sitemapper-audit/1.0"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Auditor{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger,
	}
}

// resultSet collects results from concurrent colly callbacks.
type resultSet struct {
	pages map[string]PageResult
	mutex sync.Mutex
}

func (rs *resultSet) add(result PageResult) {
	rs.mutex.Lock()
	defer rs.mutex.Unlock()
	rs.pages[result.Loc] = result
}

func (a *Auditor) newCollector() (*colly.Collector, error) {
	options := []colly.CollectorOption{
		colly.UserAgent(a.config.UserAgent),
		colly.Async(true),
	}
	if site, err := url.Parse(a.config.SiteURL); err == nil && site.Hostname() != "" {
		options = append(options, colly.AllowedDomains(site.Hostname()))
	}

	c := colly.NewCollector(options...)
	c.SetRequestTimeout(a.config.Timeout)

	if err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: a.config.Parallelism,
	}); err != nil {
		return nil, fmt.Errorf("configuring crawl limits: %w", err)
	}
	return c, nil
}

// Run crawls locs. robots.txt is consulted first; a site without a reachable
// robots.txt is crawled as if everything were allowed.
func (a *Auditor) Run(ctx context.Context, locs []string) (*Report, error) {
	robots, err := FetchRobots(ctx, a.httpClient, a.config.SiteURL, a.config.UserAgent)
	if err != nil {
		a.logger.Warn("robots.txt unavailable, crawling without it", zap.Error(err))
	}

	collector, err := a.newCollector()
	if err != nil {
		return nil, err
	}

	results := &resultSet{pages: make(map[string]PageResult, len(locs))}

	collector.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})

	collector.OnResponse(func(r *colly.Response) {
		loc := r.Ctx.Get(locKey)
		result := PageResult{Loc: loc, StatusCode: r.StatusCode}

		meta, err := ParseSEOMeta(r.Body)
		if err != nil {
			result.Error = err.Error()
		} else {
			result.Meta = meta
		}

		a.logger.Debug("Audited page",
			zap.String("loc", loc),
			zap.Int("status", r.StatusCode),
			zap.String("title", result.Meta.titleOrEmpty()))
		results.add(result)
	})

	collector.OnError(func(r *colly.Response, err error) {
		loc := r.Ctx.Get(locKey)
		a.logger.Warn("Page request failed",
			zap.String("loc", loc),
			zap.Int("status", r.StatusCode),
			zap.Error(err))
		results.add(PageResult{Loc: loc, StatusCode: r.StatusCode, Error: err.Error()})
	})

	for idx, loc := range locs {
		if ctx.Err() != nil {
			break
		}
		if !robots.Allowed(loc) {
			results.add(PageResult{Loc: loc, Disallowed: true})
			continue
		}

		a.logger.Debug("Queueing page", zap.Int("index", idx+1), zap.Int("total", len(locs)), zap.String("loc", loc))
		reqCtx := colly.NewContext()
		reqCtx.Put(locKey, loc)
		if err := collector.Request(http.MethodGet, loc, nil, reqCtx, nil); err != nil {
			results.add(PageResult{Loc: loc, Error: err.Error()})
		}
	}

	collector.Wait()

	report := &Report{Pages: make([]PageResult, 0, len(locs))}
	seen := make(map[string]bool, len(locs))
	for _, loc := range locs {
		if seen[loc] {
			continue
		}
		seen[loc] = true
		result, ok := results.pages[loc]
		if !ok {
			result = PageResult{Loc: loc, Error: "not visited"}
		}
		report.Pages = append(report.Pages, result)
	}

	return report, ctx.Err()
}

func (m *SEOMeta) titleOrEmpty() string {
	if m == nil {
		return ""
	}
	return m.Title
}

// Problems lists everything a search engine would trip over.
func (r *Report) Problems() []sitemap.Problem {
	var problems []sitemap.Problem
	for _, page := range r.Pages {
		add := func(format string, args ...any) {
			problems = append(problems, sitemap.Problem{Loc: page.Loc, Message: fmt.Sprintf(format, args...)})
		}

		switch {
		case page.Disallowed:
			add("disallowed by robots.txt")
			continue
		case page.StatusCode == 0:
			add("request failed: %s", page.Error)
			continue
		case page.StatusCode < 200 || page.StatusCode > 299:
			add("returned HTTP %d", page.StatusCode)
			continue
		}

		if page.Meta == nil {
			add("unreadable HTML: %s", page.Error)
			continue
		}
		if page.Meta.Title == "" {
			add("missing <title>")
		}
		if page.Meta.NoIndex() {
			add("page is marked noindex")
		}
		if page.Meta.Canonical != "" && !sameLocation(page.Meta.Canonical, page.Loc) {
			add("canonical points to %s", page.Meta.Canonical)
		}
	}
	return problems
}

func sameLocation(a, b string) bool {
	return strings.TrimRight(a, "/") == strings.TrimRight(b, "/")
}
