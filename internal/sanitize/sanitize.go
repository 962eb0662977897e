// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package sanitize strips disallowed tags and attributes from rich-text
// post bodies before they are stored or rendered. It is an allow-list
// transform, not a validator: disallowed markup is removed, never rejected.
// Clean is deterministic and idempotent: Clean(Clean(x)) == Clean(x).
package sanitize

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// imgSrc restricts image sources to local uploads, https, or inline
// data URIs. Plain http image embeds are rejected to avoid mixed content.
var imgSrc = regexp.MustCompile(`^(/static/images/|https://|data:image/)`)

// policy is the fixed allow-list shared by all callers. Built once at
// init; bluemonday policies are safe for concurrent use.
var policy = buildPolicy()

func buildPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	// Structural and inline formatting tags permitted in post bodies.
	p.AllowElements(
		"p", "strong", "em", "h1", "h2", "h3",
		"ul", "ol", "li", "a", "code", "pre", "span",
		"img", "details", "summary", "blockquote", "br",
	)

	// class and id are allowed everywhere so editor styling survives.
	p.AllowAttrs("class", "id").Globally()

	// Links must be absolute http(s) URLs.
	p.AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("http", "https")
	p.RequireParseableURLs(true)

	// Images: alt always, src only from trusted locations.
	p.AllowAttrs("alt").OnElements("img")
	p.AllowAttrs("src").Matching(imgSrc).OnElements("img")
	p.AllowRelativeURLs(true)
	p.AllowDataURIImages()

	// Collapsible sections keep their boolean open attribute.
	p.AllowAttrs("open").OnElements("details")

	return p
}

// Clean returns html with everything outside the allow-list removed.
func Clean(html string) string {
	return policy.Sanitize(html)
}
