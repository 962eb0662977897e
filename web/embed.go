// Package web provides the embedded static assets (stylesheets,
// robots.txt) served at /static/ and /robots.txt.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree.
//
//go:embed all:static
var StaticFS embed.FS
