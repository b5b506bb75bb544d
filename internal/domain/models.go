package domain

import "time"

type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

type PostSummary struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	PublishedAt time.Time  `json:"publishedAt"`
	Categories  []string   `json:"categories"`
	Status      PostStatus `json:"status,omitempty"`
}

type Post struct {
	PostSummary
	Author          string     `json:"author,omitempty"`
	CategoryRefs    []Category `json:"categoryRefs,omitempty"`
	Body            []Block    `json:"body,omitempty"`
	MainImage       *Image     `json:"mainImage,omitempty"`
	FeaturedImage   *Image     `json:"featuredImage,omitempty"`
	MetaTitle       string     `json:"metaTitle,omitempty"`
	MetaDescription string     `json:"metaDescription,omitempty"`
}

func (p Post) IsDraft() bool { return p.Status == PostStatusDraft }

// CategoryIDs returns the ids of the referenced categories in display order.
func (p Post) CategoryIDs() []string {
	out := make([]string, 0, len(p.CategoryRefs))
	for _, c := range p.CategoryRefs {
		if c.ID != "" {
			out = append(out, c.ID)
		}
	}
	return out
}

type Category struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

type Image struct {
	URL     string `json:"url"`
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// Block is one portable-text node of an article body. Text blocks use Style,
// ListItem, Children and MarkDefs; image and custom object blocks use the
// remaining fields.
type Block struct {
	Type     string    `json:"_type"`
	Key      string    `json:"_key,omitempty"`
	Style    string    `json:"style,omitempty"`
	ListItem string    `json:"listItem,omitempty"`
	Level    int       `json:"level,omitempty"`
	Children []Span    `json:"children,omitempty"`
	MarkDefs []MarkDef `json:"markDefs,omitempty"`

	Asset   *AssetRef `json:"asset,omitempty"`
	Alt     string    `json:"alt,omitempty"`
	Caption string    `json:"caption,omitempty"`

	Title   string   `json:"title,omitempty"`
	Bullets []string `json:"bullets,omitempty"`
	Pros    []string `json:"pros,omitempty"`
	Cons    []string `json:"cons,omitempty"`

	// place
	Name         string   `json:"name,omitempty"`
	Category     string   `json:"category,omitempty"`
	Neighborhood string   `json:"neighborhood,omitempty"`
	Price        string   `json:"price,omitempty"`
	WhyGo        string   `json:"whyGo,omitempty"`
	WhatToGet    string   `json:"whatToGet,omitempty"`
	Practical    []string `json:"practical,omitempty"`
	MapLink      string   `json:"mapLink,omitempty"`

	// practicalTip
	Variant string  `json:"variant,omitempty"`
	Content []Block `json:"content,omitempty"`

	// youtubeEmbed, socialEmbed
	URL      string `json:"url,omitempty"`
	Platform string `json:"platform,omitempty"`
}

type Span struct {
	Type  string   `json:"_type"`
	Key   string   `json:"_key,omitempty"`
	Text  string   `json:"text"`
	Marks []string `json:"marks,omitempty"`
}

type MarkDef struct {
	Key   string `json:"_key"`
	Type  string `json:"_type"`
	Href  string `json:"href,omitempty"`
	Blank bool   `json:"blank,omitempty"`
}

// AssetRef points at an uploaded asset. URL is filled in once the reference
// has been resolved against the asset CDN.
type AssetRef struct {
	Ref string `json:"_ref,omitempty"`
	URL string `json:"url,omitempty"`
}
