// internal/models/sitemap.go
package models

import (
	"encoding/xml"
	"time"
)

// SitemapNamespace is the sitemaps.org protocol namespace.
const SitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// Sitemap represents the structure of an XML sitemap.
type Sitemap struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// URL represents a single URL entry in the sitemap.
type URL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type ChangeFrequency string

const (
	ChangeDaily   ChangeFrequency = "daily"
	ChangeWeekly  ChangeFrequency = "weekly"
	ChangeMonthly ChangeFrequency = "monthly"
)

// Valid reports whether f is one of the frequencies the site emits.
func (f ChangeFrequency) Valid() bool {
	switch f {
	case ChangeDaily, ChangeWeekly, ChangeMonthly:
		return true
	}
	return false
}

// SitemapEntry is one page of the site before it is rendered as a <url>.
// An empty Path is the site root.
type SitemapEntry struct {
	Path            string          `json:"path"`
	LastModified    time.Time       `json:"lastModified"`
	ChangeFrequency ChangeFrequency `json:"changeFrequency"`
	Priority        float64         `json:"priority"`
}
