// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package sitemap renders the XML sitemap from the static routes and
// the published posts. Drafts never appear; the rendered document is
// cached by the handler and invalidated with the publication contract.
package sitemap

import (
	"encoding/xml"
	"strings"
	"time"

	"inkwell/internal/models"
)

// Entry is one <url> element.
type Entry struct {
	XMLName    xml.Name `xml:"url"`
	Loc        string   `xml:"loc"`
	LastMod    string   `xml:"lastmod"`
	ChangeFreq string   `xml:"changefreq"`
	Priority   string   `xml:"priority"`
}

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []Entry
}

const xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

// Generate renders the sitemap for the given base URL and published
// posts. Static routes get daily/1.0, posts monthly/0.8 with lastmod
// from their latest update.
func Generate(baseURL string, posts []models.Post) ([]byte, error) {
	base := strings.TrimRight(baseURL, "/")
	today := time.Now().Format("2006-01-02")

	set := urlSet{XMLNS: xmlns}
	set.URLs = append(set.URLs, Entry{
		Loc:        base + "/",
		LastMod:    today,
		ChangeFreq: "daily",
		Priority:   "1.0",
	})

	for _, p := range posts {
		if !p.IsPublished() {
			continue
		}
		lastmod := p.CreatedAt
		if p.UpdatedAt.After(lastmod) {
			lastmod = p.UpdatedAt
		}
		set.URLs = append(set.URLs, Entry{
			Loc:        base + "/post/" + p.Slug,
			LastMod:    lastmod.Format("2006-01-02"),
			ChangeFreq: "monthly",
			Priority:   "0.8",
		})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
