// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"inkwell/internal/cache"
	"inkwell/internal/errs"
	"inkwell/internal/models"
	"inkwell/internal/sanitize"
	"inkwell/internal/slug"
	"inkwell/internal/store"
)

// DefaultPerPage is the public listing page size.
const DefaultPerPage = 10

// PostInput carries the writable fields of a post through Create and
// Update. CategoryID nil means "assign the default category".
type PostInput struct {
	Title        string
	Body         string
	BodyFormat   models.BodyFormat
	Description  string
	ThumbnailURL string
	Status       models.PostStatus
	CategoryID   *uuid.UUID
	AuthorID     uuid.UUID
}

// PostService implements the publication state machine: how posts move
// between draft and published, and which cache entries each transition
// invalidates.
type PostService struct {
	posts      *store.PostStore
	categories *CategoryService
	cache      cache.Store
	cacheLog   *store.CacheLogStore
}

// NewPostService creates a PostService.
func NewPostService(posts *store.PostStore, categories *CategoryService, c cache.Store, cacheLog *store.CacheLogStore) *PostService {
	return &PostService{posts: posts, categories: categories, cache: c, cacheLog: cacheLog}
}

// Create validates, sanitizes and stores a new post. Publishing on
// creation stamps published_at. A slug collision with an existing post
// is resolved by appending a numeric suffix and retrying once.
func (s *PostService) Create(ctx context.Context, in PostInput) (*models.Post, error) {
	p, err := s.fromInput(ctx, in)
	if err != nil {
		return nil, err
	}
	p.Slug = slug.Generate(p.Title)

	created, err := s.posts.Create(p)
	if err != nil && store.IsUniqueViolation(err) {
		// Another post owns this slug. Count existing variants and take
		// the next free suffix. A second collision (a concurrent writer
		// grabbing the same suffix) is surfaced as a conflict.
		n, cntErr := s.posts.CountSlugVariants(p.Slug)
		if cntErr != nil {
			return nil, cntErr
		}
		p.Slug = slug.WithSuffix(slug.Generate(p.Title), n+1)
		created, err = s.posts.Create(p)
		if err != nil && store.IsUniqueViolation(err) {
			return nil, errs.Conflict("could not assign a unique slug, try again")
		}
	}
	if err != nil {
		return nil, err
	}

	slog.Info("post created", "id", created.ID, "slug", created.Slug, "status", created.Status)
	s.invalidateListing(ctx, created, "create")
	return created, nil
}

// Update applies input to an existing post. Status transitions follow
// the state machine: draft→published sets published_at only if it was
// never set (publish is idempotent), published→draft keeps it. The
// invalidation scope depends on whether public listings changed.
func (s *PostService) Update(ctx context.Context, id uuid.UUID, in PostInput) (*models.Post, error) {
	existing, err := s.posts.FindByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, errs.NotFound("post", id.String())
	}

	updated, err := s.fromInput(ctx, in)
	if err != nil {
		return nil, err
	}

	prevStatus := existing.Status
	listingChanged := existing.Status != updated.Status || existing.CategoryID != updated.CategoryID

	// The slug is assigned at creation and never re-derived from the
	// title, so published URLs stay stable across edits.
	existing.Title = updated.Title
	existing.Body = updated.Body
	existing.BodyFormat = updated.BodyFormat
	existing.Description = updated.Description
	existing.ThumbnailURL = updated.ThumbnailURL
	existing.Status = updated.Status
	existing.CategoryID = updated.CategoryID
	// published_at is deliberately left alone: the store sets it on the
	// first transition to published and it survives unpublishing.

	if err := s.posts.Update(existing); err != nil {
		return nil, err
	}

	// The invalidation log records the transition, not just "update", so
	// stale-cache reports can be matched to publish events.
	action := "update"
	switch {
	case prevStatus == models.PostStatusDraft && existing.Status == models.PostStatusPublished:
		action = "publish"
	case prevStatus == models.PostStatusPublished && existing.Status == models.PostStatusDraft:
		action = "unpublish"
	}

	if listingChanged {
		s.invalidateListing(ctx, existing, action)
	} else {
		s.invalidatePost(ctx, existing, action)
	}
	return existing, nil
}

// Delete removes a post and invalidates everything that listed it.
func (s *PostService) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.posts.FindByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return errs.NotFound("post", id.String())
	}

	if err := s.posts.Delete(id); err != nil {
		return err
	}

	slog.Info("post deleted", "id", id, "slug", existing.Slug)
	s.invalidateListing(ctx, existing, "delete")
	return nil
}

// ListPublished returns one page of published posts, newest publish
// first, optionally scoped to a category. Pages are cached individually
// with a short TTL under a shared prefix.
func (s *PostService) ListPublished(ctx context.Context, page int, categoryID *uuid.UUID) (*models.PostPage, error) {
	if page < 1 {
		page = 1
	}
	key := cache.PublishedListKey(page, categoryID)

	if data, ok := s.cache.Get(ctx, key); ok {
		var cached models.PostPage
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
		slog.Warn("discarding undecodable cached post page", "key", key)
	}

	total, err := s.posts.CountPublished(categoryID)
	if err != nil {
		return nil, err
	}
	offset := (page - 1) * DefaultPerPage
	posts, err := s.posts.ListPublished(DefaultPerPage, offset, categoryID)
	if err != nil {
		return nil, err
	}

	lastPage := (total + DefaultPerPage - 1) / DefaultPerPage
	if lastPage < 1 {
		lastPage = 1
	}
	result := &models.PostPage{
		Posts:    posts,
		Page:     page,
		PerPage:  DefaultPerPage,
		Total:    total,
		HasPrev:  page > 1,
		HasNext:  page < lastPage,
		LastPage: lastPage,
	}

	if data, err := json.Marshal(result); err == nil {
		s.cache.Set(ctx, key, data, cache.ListTTL)
	}
	return result, nil
}

// GetPublishedBySlug returns a published post for the public site.
// Drafts are indistinguishable from missing posts here.
func (s *PostService) GetPublishedBySlug(ctx context.Context, postSlug string) (*models.Post, error) {
	key := cache.PostSlugKey(postSlug)
	if data, ok := s.cache.Get(ctx, key); ok {
		var cached models.Post
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	p, err := s.posts.FindPublishedBySlug(postSlug)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errs.NotFound("post", postSlug)
	}

	if data, err := json.Marshal(p); err == nil {
		s.cache.Set(ctx, key, data, cache.DefaultTTL)
	}
	return p, nil
}

// GetBySlug returns a post regardless of status, bypassing the cache.
// Used for draft preview by authenticated users.
func (s *PostService) GetBySlug(ctx context.Context, postSlug string) (*models.Post, error) {
	p, err := s.posts.FindBySlug(postSlug)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errs.NotFound("post", postSlug)
	}
	return p, nil
}

// GetByID returns a post by ID for the dashboard edit form.
func (s *PostService) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	p, err := s.posts.FindByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errs.NotFound("post", id.String())
	}
	return p, nil
}

// ListAll returns every post for the dashboard, drafts included,
// optionally filtered by status. Never cached.
func (s *PostService) ListAll(ctx context.Context, status *models.PostStatus) ([]models.Post, error) {
	return s.posts.ListAll(status)
}

// ListPublishedAll returns every published post without pagination, for
// sitemap generation.
func (s *PostService) ListPublishedAll(ctx context.Context) ([]models.Post, error) {
	total, err := s.posts.CountPublished(nil)
	if err != nil {
		return nil, err
	}
	return s.posts.ListPublished(total, 0, nil)
}

// fromInput validates and normalizes input into a post ready for the
// store. The body is sanitized here, on the write path: stored HTML is
// always clean, whatever the client sent. Markdown is stored verbatim
// and sanitized after conversion at render time.
func (s *PostService) fromInput(ctx context.Context, in PostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, errs.Validation("title", "title is required")
	}
	if !in.Status.Valid() {
		return nil, errs.Validation("status", "status must be draft or published")
	}
	format := in.BodyFormat
	if format == "" {
		format = models.BodyFormatHTML
	}
	if !format.Valid() {
		return nil, errs.Validation("body_format", "body format must be html or markdown")
	}

	body := in.Body
	if format == models.BodyFormatHTML {
		body = sanitize.Clean(body)
	}

	catID, err := s.resolveCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	p := &models.Post{
		Title:      title,
		Body:       body,
		BodyFormat: format,
		Status:     in.Status,
		CategoryID: catID,
		AuthorID:   in.AuthorID,
	}
	if d := strings.TrimSpace(in.Description); d != "" {
		p.Description = &d
	}
	if u := strings.TrimSpace(in.ThumbnailURL); u != "" {
		p.ThumbnailURL = &u
	}
	return p, nil
}

// resolveCategory maps a nil or dangling category reference to the
// default category, bootstrapping it if needed.
func (s *PostService) resolveCategory(ctx context.Context, id *uuid.UUID) (uuid.UUID, error) {
	if id != nil {
		cat, err := s.categories.categories.FindByID(*id)
		if err != nil {
			return uuid.Nil, err
		}
		if cat != nil {
			return cat.ID, nil
		}
	}
	def, err := s.categories.EnsureDefault(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	return def.ID, nil
}

// invalidateListing drops everything a listing-visible change can
// affect: all published pages (every category scope), the post itself,
// the sitemap and the dashboard stats.
func (s *PostService) invalidateListing(ctx context.Context, p *models.Post, action string) {
	s.cache.DeletePrefix(ctx, cache.PublishedListPrefix)
	s.cache.Delete(ctx, cache.PostSlugKey(p.Slug), cache.KeySitemap, cache.KeyStats, cache.KeyCategoryList, cache.KeyNavCategories)
	if s.cacheLog != nil {
		s.cacheLog.Log("post", p.ID, action)
	}
}

// invalidatePost drops only the single-post and sitemap entries. List
// pages still hold the old title until their short TTL expires, which
// the listing tolerates.
func (s *PostService) invalidatePost(ctx context.Context, p *models.Post, action string) {
	s.cache.Delete(ctx, cache.PostSlugKey(p.Slug), cache.KeySitemap)
	if s.cacheLog != nil {
		s.cacheLog.Log("post", p.ID, action)
	}
}
