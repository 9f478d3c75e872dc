package sitemap

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/romangod6/sitemapper/internal/models"
	"github.com/romangod6/sitemapper/internal/utils"
	"github.com/samber/lo"
)

// Problem is a single issue found in a published sitemap.
type Problem struct {
	Loc     string
	Message string
}

func (p Problem) String() string {
	if p.Loc == "" {
		return p.Message
	}
	return p.Loc + ": " + p.Message
}

// Parse decodes a sitemap document.
func Parse(data []byte) (*models.Sitemap, error) {
	var set models.Sitemap
	if err := xml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse sitemap: %w", err)
	}
	return &set, nil
}

// Locs returns every non-empty loc in document order.
func Locs(set *models.Sitemap) []string {
	return lo.FilterMap(set.URLs, func(u models.URL, _ int) (string, bool) {
		loc := strings.TrimSpace(u.Loc)
		return loc, loc != ""
	})
}

// Validate checks a parsed sitemap against the rules the builder guarantees.
func Validate(set *models.Sitemap, siteURL string) []Problem {
	siteURL = strings.TrimRight(siteURL, "/")
	var problems []Problem

	if set.XMLName.Space != "" && set.XMLName.Space != models.SitemapNamespace {
		problems = append(problems, Problem{Message: fmt.Sprintf("unexpected namespace %q", set.XMLName.Space)})
	}

	seen := make(map[string]struct{}, len(set.URLs))
	for _, u := range set.URLs {
		loc := strings.TrimSpace(u.Loc)
		if loc == "" {
			problems = append(problems, Problem{Message: "url without loc"})
			continue
		}
		if _, dup := seen[loc]; dup {
			problems = append(problems, Problem{Loc: loc, Message: "duplicate loc"})
		}
		seen[loc] = struct{}{}

		if siteURL != "" && loc != siteURL && !strings.HasPrefix(loc, siteURL+"/") {
			problems = append(problems, Problem{Loc: loc, Message: "loc is outside " + siteURL})
		}
		if parsed, err := url.Parse(loc); err != nil || !parsed.IsAbs() {
			problems = append(problems, Problem{Loc: loc, Message: "loc is not an absolute URL"})
		} else if parsed.RawQuery != "" || parsed.Fragment != "" || strings.ContainsAny(loc, "?#") {
			problems = append(problems, Problem{Loc: loc, Message: "loc has a query or fragment"})
		}
		if u.ChangeFreq != "" && !models.ChangeFrequency(u.ChangeFreq).Valid() {
			problems = append(problems, Problem{Loc: loc, Message: fmt.Sprintf("invalid changefreq %q", u.ChangeFreq)})
		}
		if u.Priority != "" {
			p, err := strconv.ParseFloat(u.Priority, 64)
			if err != nil || p < 0 || p > 1 {
				problems = append(problems, Problem{Loc: loc, Message: fmt.Sprintf("invalid priority %q", u.Priority)})
			}
		}
		if u.LastMod != "" && utils.ParseTime(u.LastMod) == nil {
			problems = append(problems, Problem{Loc: loc, Message: fmt.Sprintf("invalid lastmod %q", u.LastMod)})
		}
	}
	return problems
}
