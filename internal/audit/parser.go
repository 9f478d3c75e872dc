package audit

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// SEOMeta is the subset of a page head the audit cares about.
type SEOMeta struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Canonical   string `json:"canonical,omitempty"`
	Robots      string `json:"robots,omitempty"`
}

// ParseSEOMeta extracts title, meta description, meta robots and the
// canonical link from an HTML document.
func ParseSEOMeta(body []byte) (*SEOMeta, error) {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error parsing HTML: %w", err)
	}
	doc := goquery.NewDocumentFromNode(root)

	meta := &SEOMeta{
		Title: strings.Join(strings.Fields(doc.Find("title").First().Text()), " "),
	}

	doc.Find("meta[name]").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		content, _ := s.Attr("content")
		switch strings.ToLower(name) {
		case "description":
			meta.Description = strings.TrimSpace(content)
		case "robots":
			meta.Robots = strings.ToLower(strings.TrimSpace(content))
		}
	})

	doc.Find("link[rel]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		rel, _ := s.Attr("rel")
		if strings.EqualFold(strings.TrimSpace(rel), "canonical") {
			meta.Canonical, _ = s.Attr("href")
			meta.Canonical = strings.TrimSpace(meta.Canonical)
			return false
		}
		return true
	})

	return meta, nil
}

// NoIndex reports whether the page asks search engines not to index it.
func (m *SEOMeta) NoIndex() bool {
	for _, directive := range strings.Split(m.Robots, ",") {
		if d := strings.TrimSpace(directive); d == "noindex" || d == "none" {
			return true
		}
	}
	return false
}
