package seo

import (
	"encoding/json"
	"fmt"
	"html/template"
	"time"

	"practicalprague/internal/domain"
)

const publisherName = "Practical Prague"

type schemaThing struct {
	Type string       `json:"@type"`
	Name string       `json:"name,omitempty"`
	ID   string       `json:"@id,omitempty"`
	URL  string       `json:"url,omitempty"`
	Logo *schemaThing `json:"logo,omitempty"`
}

type ArticleSchema struct {
	Context          string      `json:"@context"`
	Type             string      `json:"@type"`
	Headline         string      `json:"headline"`
	Description      string      `json:"description"`
	DatePublished    string      `json:"datePublished"`
	DateModified     string      `json:"dateModified"`
	Author           schemaThing `json:"author"`
	Publisher        schemaThing `json:"publisher"`
	Image            string      `json:"image"`
	MainEntityOfPage schemaThing `json:"mainEntityOfPage"`
}

type breadcrumbItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item"`
}

type BreadcrumbSchema struct {
	Context         string           `json:"@context"`
	Type            string           `json:"@type"`
	ItemListElement []breadcrumbItem `json:"itemListElement"`
}

// NewArticleSchema describes p as a schema.org Article. Without a modified
// date the published date is reused.
func NewArticleSchema(site SiteConfig, p domain.Post, description string) ArticleSchema {
	site = site.withDefaults()

	published := ""
	if !p.PublishedAt.IsZero() {
		published = p.PublishedAt.UTC().Format(time.RFC3339)
	}
	author := p.Author
	if author == "" {
		author = publisherName
	}
	image := site.Abs(site.OGImage)
	if p.FeaturedImage != nil && p.FeaturedImage.URL != "" {
		image = p.FeaturedImage.URL
	}

	return ArticleSchema{
		Context:       "https://schema.org",
		Type:          "Article",
		Headline:      p.Title,
		Description:   description,
		DatePublished: published,
		DateModified:  published,
		Author:        schemaThing{Type: "Organization", Name: author},
		Publisher: schemaThing{
			Type: "Organization",
			Name: publisherName,
			Logo: &schemaThing{Type: "ImageObject", URL: site.Abs(site.OGImage)},
		},
		Image:            image,
		MainEntityOfPage: schemaThing{Type: "WebPage", ID: site.Abs("/articles/" + p.Slug)},
	}
}

// NewBreadcrumbSchema builds Home > first category > article, or
// Home > article when the post has no category.
func NewBreadcrumbSchema(site SiteConfig, p domain.Post) BreadcrumbSchema {
	site = site.withDefaults()
	articleURL := site.Abs("/articles/" + p.Slug)

	items := []breadcrumbItem{{Type: "ListItem", Position: 1, Name: "Home", Item: site.URL}}
	if len(p.CategoryRefs) > 0 {
		c := p.CategoryRefs[0]
		items = append(items,
			breadcrumbItem{Type: "ListItem", Position: 2, Name: c.Title, Item: site.Abs("/" + c.Slug)},
			breadcrumbItem{Type: "ListItem", Position: 3, Name: p.Title, Item: articleURL},
		)
	} else {
		items = append(items, breadcrumbItem{Type: "ListItem", Position: 2, Name: p.Title, Item: articleURL})
	}

	return BreadcrumbSchema{
		Context:         "https://schema.org",
		Type:            "BreadcrumbList",
		ItemListElement: items,
	}
}

// JSONLD renders v as a <script type="application/ld+json"> element.
// json.Marshal escapes <, > and &, so content cannot close the element.
func JSONLD(v any) (template.HTML, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode json-ld: %w", err)
	}
	return template.HTML(`<script type="application/ld+json">` + string(b) + `</script>`), nil
}
