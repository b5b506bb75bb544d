// Package render turns CMS portable text into HTML for the site templates.
package render

import (
	"html/template"
	"regexp"
	"strings"

	"practicalprague/internal/domain"
)

// PortableText renders blocks to HTML. Object types without a renderer are
// skipped, as are list items with an unknown list type.
func PortableText(blocks []domain.Block) template.HTML {
	var b strings.Builder
	openList := ""

	closeList := func() {
		if openList != "" {
			b.WriteString("</" + openList + ">\n")
			openList = ""
		}
	}

	for _, blk := range blocks {
		if blk.Type == "block" && blk.ListItem != "" {
			tag := listTag(blk.ListItem)
			if tag == "" {
				continue
			}
			if tag != openList {
				closeList()
				b.WriteString("<" + tag + ">\n")
				openList = tag
			}
			b.WriteString("<li>")
			writeSpans(&b, blk)
			b.WriteString("</li>\n")
			continue
		}
		closeList()

		switch blk.Type {
		case "block":
			writeTextBlock(&b, blk)
		case "image":
			writeImage(&b, blk)
		case "quickSummary":
			writeQuickSummary(&b, blk)
		case "prosCons":
			writeProsCons(&b, blk)
		case "place":
			writePlace(&b, blk)
		case "practicalTip":
			writeTip(&b, blk)
		case "youtubeEmbed":
			writeYouTube(&b, blk)
		case "socialEmbed":
			writeSocial(&b, blk)
		}
	}
	closeList()

	return template.HTML(b.String())
}

func listTag(listItem string) string {
	switch listItem {
	case "bullet":
		return "ul"
	case "number":
		return "ol"
	}
	return ""
}

func writeTextBlock(b *strings.Builder, blk domain.Block) {
	tag := "p"
	switch blk.Style {
	case "h2", "h3", "blockquote":
		tag = blk.Style
	}
	b.WriteString("<" + tag + ">")
	writeSpans(b, blk)
	b.WriteString("</" + tag + ">\n")
}

func writeSpans(b *strings.Builder, blk domain.Block) {
	defs := make(map[string]domain.MarkDef, len(blk.MarkDefs))
	for _, d := range blk.MarkDefs {
		defs[d.Key] = d
	}

	for _, span := range blk.Children {
		var open, closing []string
		for _, m := range span.Marks {
			switch m {
			case "strong", "em", "code":
				open = append(open, "<"+m+">")
				closing = append(closing, "</"+m+">")
				continue
			}
			def, ok := defs[m]
			if !ok || def.Type != "link" || !safeHref(def.Href) {
				continue
			}
			a := `<a href="` + template.HTMLEscapeString(def.Href) + `"`
			if def.Blank {
				a += ` target="_blank" rel="noopener noreferrer"`
			}
			open = append(open, a+">")
			closing = append(closing, "</a>")
		}

		for _, o := range open {
			b.WriteString(o)
		}
		writeText(b, span.Text)
		for i := len(closing) - 1; i >= 0; i-- {
			b.WriteString(closing[i])
		}
	}
}

// writeText escapes s and keeps soft line breaks.
func writeText(b *strings.Builder, s string) {
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			b.WriteString("<br>")
		}
		b.WriteString(template.HTMLEscapeString(line))
	}
}

func safeHref(href string) bool {
	h := strings.ToLower(strings.TrimSpace(href))
	switch {
	case h == "":
		return false
	case strings.HasPrefix(h, "https://"), strings.HasPrefix(h, "http://"), strings.HasPrefix(h, "mailto:"):
		return true
	case strings.HasPrefix(h, "/") && !strings.HasPrefix(h, "//"):
		return true
	case strings.HasPrefix(h, "#"):
		return true
	}
	return false
}

func writeImage(b *strings.Builder, blk domain.Block) {
	if blk.Asset == nil || blk.Asset.URL == "" || !safeHref(blk.Asset.URL) {
		return
	}
	b.WriteString(`<figure><img src="` + template.HTMLEscapeString(blk.Asset.URL) + `" alt="` + template.HTMLEscapeString(blk.Alt) + `" loading="lazy">`)
	if blk.Caption != "" {
		b.WriteString("<figcaption>" + template.HTMLEscapeString(blk.Caption) + "</figcaption>")
	}
	b.WriteString("</figure>\n")
}

func writeQuickSummary(b *strings.Builder, blk domain.Block) {
	title := blk.Title
	if title == "" {
		title = "In short"
	}
	b.WriteString(`<aside class="quick-summary"><h3>` + template.HTMLEscapeString(title) + "</h3>")
	writeItems(b, blk.Bullets)
	b.WriteString("</aside>\n")
}

func writeProsCons(b *strings.Builder, blk domain.Block) {
	b.WriteString(`<div class="pros-cons"><div class="pros"><h4>Pros</h4>`)
	writeItems(b, blk.Pros)
	b.WriteString(`</div><div class="cons"><h4>Cons</h4>`)
	writeItems(b, blk.Cons)
	b.WriteString("</div></div>\n")
}

func writeItems(b *strings.Builder, items []string) {
	b.WriteString("<ul>")
	for _, it := range items {
		b.WriteString("<li>" + template.HTMLEscapeString(it) + "</li>")
	}
	b.WriteString("</ul>")
}

func writePlace(b *strings.Builder, blk domain.Block) {
	if blk.Name == "" {
		return
	}
	b.WriteString(`<div class="place"><h3>` + template.HTMLEscapeString(blk.Name) + "</h3>")

	var meta []string
	for _, m := range []string{blk.Neighborhood, blk.Category, blk.Price} {
		if m != "" {
			meta = append(meta, template.HTMLEscapeString(m))
		}
	}
	if len(meta) > 0 {
		b.WriteString(`<p class="place-meta">` + strings.Join(meta, " &bull; ") + "</p>")
	}

	if blk.WhyGo != "" {
		b.WriteString("<p>" + template.HTMLEscapeString(blk.WhyGo) + "</p>")
	}
	if blk.WhatToGet != "" {
		b.WriteString(`<p class="place-order"><strong>What to get:</strong> ` + template.HTMLEscapeString(blk.WhatToGet) + "</p>")
	}
	if len(blk.Practical) > 0 {
		b.WriteString(`<ul class="place-practical">`)
		for _, p := range blk.Practical {
			b.WriteString("<li>" + template.HTMLEscapeString(p) + "</li>")
		}
		b.WriteString("</ul>")
	}
	if blk.MapLink != "" && safeHref(blk.MapLink) {
		b.WriteString(`<a href="` + template.HTMLEscapeString(blk.MapLink) + `" target="_blank" rel="noopener noreferrer">View on map &rarr;</a>`)
	}
	b.WriteString("</div>\n")
}

var tipIcons = map[string]string{
	"tip":       "💡",
	"warning":   "⚠️",
	"avoid":     "🚫",
	"logistics": "📋",
}

// writeTip renders a callout. Unknown variants fall back to "tip".
func writeTip(b *strings.Builder, blk domain.Block) {
	variant := blk.Variant
	if _, ok := tipIcons[variant]; !ok {
		variant = "tip"
	}
	b.WriteString(`<div class="tip tip-` + variant + `"><span class="tip-icon">` + tipIcons[variant] + "</span><div>")
	if blk.Title != "" {
		b.WriteString("<h4>" + template.HTMLEscapeString(blk.Title) + "</h4>")
	}
	for _, c := range blk.Content {
		if c.Type != "block" {
			continue
		}
		b.WriteString("<p>")
		writeSpans(b, c)
		b.WriteString("</p>")
	}
	b.WriteString("</div></div>\n")
}

var youTubeID = regexp.MustCompile(`(?:youtu\.be/|youtube\.com(?:/embed/|/v/|/watch\?v=|/watch\?.+&v=))([\w-]{11})`)

func writeYouTube(b *strings.Builder, blk domain.Block) {
	m := youTubeID.FindStringSubmatch(blk.URL)
	if m == nil {
		b.WriteString(`<div class="embed-error"><p>Invalid YouTube URL</p></div>` + "\n")
		return
	}
	title := blk.Title
	if title == "" {
		title = "YouTube video"
	}
	b.WriteString(`<figure class="video"><div class="video-frame"><iframe src="https://www.youtube-nocookie.com/embed/` + m[1] +
		`" title="` + template.HTMLEscapeString(title) +
		`" allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture" allowfullscreen loading="lazy"></iframe></div>`)
	if blk.Caption != "" {
		b.WriteString("<figcaption>" + template.HTMLEscapeString(blk.Caption) + "</figcaption>")
	}
	b.WriteString("</figure>\n")
}

var platformLabels = map[string]string{
	"instagram": "Instagram",
	"facebook":  "Facebook",
	"bluesky":   "Bluesky",
	"x":         "X",
}

// writeSocial renders a link card; third-party embed scripts are not loaded.
func writeSocial(b *strings.Builder, blk domain.Block) {
	if !safeHref(blk.URL) {
		return
	}
	label := platformLabels[blk.Platform]
	if label == "" {
		label = blk.Platform
	}
	b.WriteString(`<figure class="social social-` + template.HTMLEscapeString(blk.Platform) + `"><div><p class="social-platform">` + template.HTMLEscapeString(label) + "</p>")
	if blk.Caption != "" {
		b.WriteString("<p>" + template.HTMLEscapeString(blk.Caption) + "</p>")
	}
	b.WriteString(`</div><a href="` + template.HTMLEscapeString(blk.URL) + `" target="_blank" rel="noopener noreferrer">View post</a></figure>` + "\n")
}

// PlainText flattens blocks to text, e.g. for meta descriptions.
func PlainText(blocks []domain.Block) string {
	var parts []string
	for _, blk := range blocks {
		if blk.Type != "block" {
			continue
		}
		var sb strings.Builder
		for _, span := range blk.Children {
			sb.WriteString(span.Text)
		}
		if t := strings.TrimSpace(sb.String()); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
