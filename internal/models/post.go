// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the publication state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// Valid reports whether the status is one of the two known states.
func (s PostStatus) Valid() bool {
	return s == PostStatusDraft || s == PostStatusPublished
}

// BodyFormat indicates how a post body is stored and rendered.
type BodyFormat string

const (
	BodyFormatHTML     BodyFormat = "html"
	BodyFormatMarkdown BodyFormat = "markdown"
)

// Valid reports whether the format is one of the two known formats.
func (f BodyFormat) Valid() bool {
	return f == BodyFormatHTML || f == BodyFormatMarkdown
}

// Post represents a blog article. A post is either a draft (invisible on
// the public site) or published (listed, linkable, and present in the
// sitemap). PublishedAt is set on the first transition to published and is
// never cleared afterwards, even if the post returns to draft.
type Post struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	Body         string     `json:"body"`
	BodyFormat   BodyFormat `json:"body_format"`
	Description  *string    `json:"description,omitempty"`
	ThumbnailURL *string    `json:"thumbnail_url,omitempty"`
	Status       PostStatus `json:"status"`
	CategoryID   uuid.UUID  `json:"category_id"`
	AuthorID     uuid.UUID  `json:"author_id"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Virtual fields populated by store joins.
	CategoryName string `json:"category_name,omitempty"`
	CategorySlug string `json:"category_slug,omitempty"`
	AuthorName   string `json:"author_name,omitempty"`
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// PostPage is one page of a paginated post listing.
type PostPage struct {
	Posts    []Post `json:"posts"`
	Page     int    `json:"page"`
	PerPage  int    `json:"per_page"`
	Total    int    `json:"total"`
	HasPrev  bool   `json:"has_prev"`
	HasNext  bool   `json:"has_next"`
	LastPage int    `json:"last_page"`
}

// DashboardStats holds the aggregate counts shown on the admin dashboard.
// Values are recomputed from COUNT queries, never maintained as counters.
type DashboardStats struct {
	TotalPosts     int `json:"total_posts"`
	PublishedPosts int `json:"published_posts"`
	DraftPosts     int `json:"draft_posts"`
	Categories     int `json:"categories"`
}
