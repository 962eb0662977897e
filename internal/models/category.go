// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCategorySlug identifies the always-present fallback category.
// Posts created without an explicit category land here.
const DefaultCategorySlug = "uncategorized"

// DefaultCategoryName is the display name of the fallback category.
const DefaultCategoryName = "Uncategorized"

// Category represents a content category. Every post belongs to exactly
// one category; the default category cannot be deleted.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Virtual fields populated by store methods.
	PostCount          int `json:"post_count"`           // all posts
	PublishedPostCount int `json:"published_post_count"` // published only
}

// IsDefault returns true for the fallback "Uncategorized" category.
func (c *Category) IsDefault() bool {
	return c.Slug == DefaultCategorySlug
}
