package seo

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"time"

	"practicalprague/internal/domain"
)

// CategoryPages are the top-level section paths, in navigation order.
var CategoryPages = []string{"/eat-drink", "/neighborhoods", "/things-to-do", "/practical-tips"}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

func entry(loc string, lastMod time.Time, freq string, priority float64) sitemapURL {
	u := sitemapURL{
		Loc:        loc,
		ChangeFreq: freq,
		Priority:   strconv.FormatFloat(priority, 'f', 1, 64),
	}
	if !lastMod.IsZero() {
		u.LastMod = lastMod.UTC().Format(time.RFC3339)
	}
	return u
}

// Sitemap renders the sitemap for the static pages followed by one entry per
// published post. Static pages carry now as their last modification.
func Sitemap(site SiteConfig, posts []domain.PostSummary, now time.Time) ([]byte, error) {
	site = site.withDefaults()

	set := urlSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	set.URLs = append(set.URLs,
		entry(site.URL, now, "daily", 1.0),
		entry(site.Abs("/about"), now, "monthly", 0.7),
		entry(site.Abs("/articles"), now, "daily", 0.9),
	)
	for _, p := range CategoryPages {
		set.URLs = append(set.URLs, entry(site.Abs(p), now, "weekly", 0.8))
	}
	for _, p := range posts {
		set.URLs = append(set.URLs, entry(site.Abs("/articles/"+p.Slug), p.PublishedAt, "weekly", 0.8))
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode sitemap: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// Robots renders robots.txt.
func Robots(site SiteConfig) string {
	site = site.withDefaults()
	return "User-agent: *\n" +
		"Allow: /\n" +
		"Disallow: /admin/\n" +
		"Disallow: /studio/\n" +
		"\n" +
		"Sitemap: " + site.URL + "/sitemap.xml\n"
}
