package sitemap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/romangod6/sitemapper/internal/models"
)

// LastModLayout is the lastmod format: RFC 3339, UTC, second precision.
const LastModLayout = time.RFC3339

// ToXML renders entries as a sitemaps.org urlset rooted at siteURL.
func ToXML(siteURL string, entries []models.SitemapEntry) ([]byte, error) {
	siteURL = strings.TrimRight(siteURL, "/")
	if siteURL == "" {
		return nil, fmt.Errorf("site URL is required")
	}

	set := models.Sitemap{
		Xmlns: models.SitemapNamespace,
		URLs:  make([]models.URL, 0, len(entries)),
	}
	for _, e := range entries {
		u, err := toURL(siteURL, e)
		if err != nil {
			return nil, err
		}
		set.URLs = append(set.URLs, u)
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sitemap: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(len(xml.Header) + len(out) + 1)
	buf.WriteString(xml.Header)
	buf.Write(out)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func toURL(siteURL string, e models.SitemapEntry) (models.URL, error) {
	if strings.ContainsAny(e.Path, "?#") {
		return models.URL{}, fmt.Errorf("entry %q: path must not contain a query or fragment", e.Path)
	}
	if e.Path != "" && !strings.HasPrefix(e.Path, "/") {
		return models.URL{}, fmt.Errorf("entry %q: path must start with /", e.Path)
	}
	if !e.ChangeFrequency.Valid() {
		return models.URL{}, fmt.Errorf("entry %q: invalid change frequency %q", e.Path, e.ChangeFrequency)
	}
	if e.Priority < 0 || e.Priority > 1 {
		return models.URL{}, fmt.Errorf("entry %q: priority %v out of range", e.Path, e.Priority)
	}

	return models.URL{
		Loc:        siteURL + e.Path,
		LastMod:    e.LastModified.UTC().Format(LastModLayout),
		ChangeFreq: string(e.ChangeFrequency),
		Priority:   FormatPriority(e.Priority),
	}, nil
}

// FormatPriority renders a priority with one decimal, e.g. "0.8" or "1.0".
func FormatPriority(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64)
}
