// Package seo builds crawler-facing output: page metadata, sitemap, robots
// rules and JSON-LD.
package seo

import "strings"

const (
	DefaultSiteName    = "Practical Prague"
	DefaultDescription = "Honest advice for visiting Prague, from an expat who lives here."
	DefaultSiteURL     = "https://practicalprague.com"
	DefaultOGImage     = "/og-image.png"
)

// SiteConfig holds site-wide settings. Handlers pass it to every template.
type SiteConfig struct {
	Name        string
	Description string
	URL         string
	OGImage     string
}

func (s SiteConfig) withDefaults() SiteConfig {
	if s.Name == "" {
		s.Name = DefaultSiteName
	}
	if s.Description == "" {
		s.Description = DefaultDescription
	}
	if s.URL == "" {
		s.URL = DefaultSiteURL
	}
	s.URL = strings.TrimRight(s.URL, "/")
	if s.OGImage == "" {
		s.OGImage = DefaultOGImage
	}
	return s
}

// Normalize fills defaults and strips a trailing slash from URL.
func (s SiteConfig) Normalize() SiteConfig { return s.withDefaults() }

// Abs resolves a site-relative path against the site URL.
func (s SiteConfig) Abs(path string) string {
	s = s.withDefaults()
	if path == "" || path == "/" {
		return s.URL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return s.URL + path
}

// PageMeta is the per-page head data.
type PageMeta struct {
	Title       string
	Description string
	Canonical   string
	OGType      string
	Image       string
	NoIndex     bool
}

// Meta builds head metadata for path. An empty title yields the bare site
// name; otherwise titles follow "<title> | <site>".
func (s SiteConfig) Meta(title, description, path string) PageMeta {
	s = s.withDefaults()
	m := PageMeta{
		Title:       s.Name,
		Description: description,
		Canonical:   s.Abs(path),
		OGType:      "website",
		Image:       s.Abs(s.OGImage),
	}
	if title != "" && title != s.Name {
		m.Title = title + " | " + s.Name
	}
	if m.Description == "" {
		m.Description = s.Description
	}
	return m
}
