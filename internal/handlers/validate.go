package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for form fields.
const (
	maxTitleLen    = 300
	maxBodyLen     = 100_000
	maxDescLen     = 500
	maxCatNameLen  = 100
	maxCatDescLen  = 500
	maxThumbURLLen = 2_000
)

// validatePostForm checks post form inputs and returns the first error
// found. Domain rules (duplicate slugs, category existence) live in the
// service layer; this guards field lengths at the HTTP edge.
func validatePostForm(title, body, description, thumbnailURL string) string {
	if strings.TrimSpace(title) == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(body) > maxBodyLen {
		return "Body is too long (max 100,000 characters)."
	}
	if utf8.RuneCountInString(description) > maxDescLen {
		return "Description is too long (max 500 characters)."
	}
	if utf8.RuneCountInString(thumbnailURL) > maxThumbURLLen {
		return "Thumbnail URL is too long."
	}
	return ""
}

// validateCategoryForm checks category form inputs.
func validateCategoryForm(name, description string) string {
	if strings.TrimSpace(name) == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(name) > maxCatNameLen {
		return "Name is too long (max 100 characters)."
	}
	if utf8.RuneCountInString(description) > maxCatDescLen {
		return "Description is too long (max 500 characters)."
	}
	return ""
}
