// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/cache"
	"inkwell/internal/errs"
	"inkwell/internal/markdown"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/render"
	"inkwell/internal/sanitize"
	"inkwell/internal/service"
	"inkwell/internal/sitemap"
)

// Public groups handlers for the public-facing site: the published
// listing, single posts, category archives and the sitemap. Only
// published content is reachable here, except for draft preview by
// authenticated users.
type Public struct {
	renderer   *render.Renderer
	posts      *service.PostService
	categories *service.CategoryService
	cache      cache.Store
	baseURL    string
}

// NewPublic creates a new Public handler group.
func NewPublic(renderer *render.Renderer, posts *service.PostService, categories *service.CategoryService, c cache.Store, baseURL string) *Public {
	return &Public{
		renderer:   renderer,
		posts:      posts,
		categories: categories,
		cache:      c,
		baseURL:    baseURL,
	}
}

// pageParam parses ?page=N, defaulting to 1.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// Home renders the paginated published listing.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := pageParam(r)

	listing, err := p.posts.ListPublished(ctx, page, nil)
	if err != nil {
		slog.Error("list published posts failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	nav, err := p.categories.NavCategories(ctx)
	if err != nil {
		slog.Error("nav categories failed", "error", err)
	}

	p.renderer.Public(w, r, "index", &render.PageData{
		Title: "Inkwell",
		Data: map[string]any{
			"Page":          listing,
			"NavCategories": nav,
			"PagePath":      "/",
			"PrevPage":      page - 1,
			"NextPage":      page + 1,
		},
	})
}

// Post renders a single published post by slug. Authenticated users can
// preview drafts; draft responses never come from or enter the cache.
func (p *Public) Post(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slugParam := chi.URLParam(r, "slug")

	post, err := p.posts.GetPublishedBySlug(ctx, slugParam)
	preview := false
	if errs.IsNotFound(err) && middleware.SessionFromCtx(ctx) != nil {
		// Draft preview path for logged-in staff.
		post, err = p.posts.GetBySlug(ctx, slugParam)
		preview = err == nil && !post.IsPublished()
	}
	if errs.IsNotFound(err) {
		p.renderer.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("find post by slug failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	body := post.Body
	if post.BodyFormat == models.BodyFormatMarkdown {
		rendered, err := markdown.ToHTML(post.Body)
		if err != nil {
			slog.Error("markdown render failed", "error", err, "slug", slugParam)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		body = sanitize.Clean(rendered)
	}

	nav, err := p.categories.NavCategories(ctx)
	if err != nil {
		slog.Error("nav categories failed", "error", err)
	}

	data := map[string]any{
		"Post":          post,
		"Body":          body,
		"NavCategories": nav,
		"Preview":       preview,
	}
	if post.Description != nil {
		data["Description"] = *post.Description
	}

	p.renderer.Public(w, r, "post", &render.PageData{
		Title: post.Title,
		Data:  data,
	})
}

// Category renders a category archive: published posts in the category,
// paginated like the homepage.
func (p *Public) Category(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slugParam := chi.URLParam(r, "slug")
	page := pageParam(r)

	cat, err := p.categories.GetBySlug(ctx, slugParam)
	if errs.IsNotFound(err) {
		p.renderer.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("find category failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	listing, err := p.posts.ListPublished(ctx, page, &cat.ID)
	if err != nil {
		slog.Error("list category posts failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	nav, err := p.categories.NavCategories(ctx)
	if err != nil {
		slog.Error("nav categories failed", "error", err)
	}

	p.renderer.Public(w, r, "index", &render.PageData{
		Title: cat.Name + " — Inkwell",
		Data: map[string]any{
			"Category":      cat,
			"Page":          listing,
			"NavCategories": nav,
			"PagePath":      "/category/" + cat.Slug,
			"PrevPage":      page - 1,
			"NextPage":      page + 1,
		},
	})
}

// Sitemap serves /sitemap.xml: the homepage plus every published post.
// The rendered document is cached and invalidated with the publication
// contract.
func (p *Public) Sitemap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cached, ok := p.cache.Get(ctx, cache.KeySitemap); ok {
		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.Write(cached)
		return
	}

	posts, err := p.posts.ListPublishedAll(ctx)
	if err != nil {
		slog.Error("list posts for sitemap failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	out, err := sitemap.Generate(p.baseURL, posts)
	if err != nil {
		slog.Error("sitemap generation failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.cache.Set(ctx, cache.KeySitemap, out, cache.DefaultTTL)
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Write(out)
}
