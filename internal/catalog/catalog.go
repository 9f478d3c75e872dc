package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/romangod6/sitemapper/internal/models"
)

// Fixed change frequency and priority per page category.
const (
	ServiceChangeFrequency = models.ChangeWeekly
	ServicePriority        = 0.8

	BlogChangeFrequency = models.ChangeWeekly
	BlogPriority        = 0.7

	LandingChangeFrequency = models.ChangeMonthly
	LandingPriority        = 0.8
)

// Page is a marketing page with its own fixed change frequency and priority.
type Page struct {
	Path            string
	ChangeFrequency models.ChangeFrequency
	Priority        float64
}

// Catalog holds the pages of the site that do not depend on runtime data.
type Catalog struct {
	Pages    []Page
	Services []string
	Landing  []string
}

// Default returns the catalog compiled into the binary.
func Default() Catalog {
	return Catalog{
		Pages: []Page{
			{Path: "", ChangeFrequency: models.ChangeDaily, Priority: 1.0},
			{Path: "/about", ChangeFrequency: models.ChangeMonthly, Priority: 0.8},
			{Path: "/services", ChangeFrequency: models.ChangeWeekly, Priority: 0.9},
			{Path: "/blogs", ChangeFrequency: models.ChangeDaily, Priority: 0.9},
			{Path: "/contact", ChangeFrequency: models.ChangeMonthly, Priority: 0.7},
		},
		Services: []string{
			"ai-chatbots",
			"ai-automation",
			"machine-learning",
			"data-analytics",
			"computer-vision",
			"natural-language-processing",
			"ai-strategy-consulting",
		},
		Landing: []string{
			"/ai-consulting",
			"/ai-development-company",
			"/free-ai-assessment",
		},
	}
}

// ServicePath maps a service slug to its page path.
func ServicePath(slug string) string {
	return "/services/" + slug
}

// Validate checks the catalog for data that would produce an invalid sitemap.
func (c Catalog) Validate() error {
	var errs []error
	for _, p := range c.Pages {
		if p.Path != "" && !strings.HasPrefix(p.Path, "/") {
			errs = append(errs, fmt.Errorf("page %q: path must start with /", p.Path))
		}
		if !p.ChangeFrequency.Valid() {
			errs = append(errs, fmt.Errorf("page %q: invalid change frequency %q", p.Path, p.ChangeFrequency))
		}
		if p.Priority < 0 || p.Priority > 1 {
			errs = append(errs, fmt.Errorf("page %q: priority %v out of range", p.Path, p.Priority))
		}
	}
	for i, s := range c.Services {
		if strings.TrimSpace(s) == "" || strings.Contains(s, "/") {
			errs = append(errs, fmt.Errorf("service %d: invalid slug %q", i, s))
		}
	}
	for _, l := range c.Landing {
		if !strings.HasPrefix(l, "/") {
			errs = append(errs, fmt.Errorf("landing page %q: path must start with /", l))
		}
	}
	return errors.Join(errs...)
}
