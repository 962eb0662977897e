// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the inkwell blog
// engine. Handlers are grouped by concern (admin, public, auth) and
// receive their dependencies through the handler struct.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/errs"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/render"
	"inkwell/internal/service"
	"inkwell/internal/session"
	"inkwell/internal/storage"
	"inkwell/internal/store"
)

// Admin groups all admin panel HTTP handlers and their dependencies.
type Admin struct {
	renderer      *render.Renderer
	sessions      *session.Store
	posts         *service.PostService
	categories    *service.CategoryService
	stats         *service.StatsService
	mediaStore    *store.MediaStore
	storageClient *storage.Client
}

// NewAdmin creates a new Admin handler group with the given dependencies.
// storageClient and mediaStore may be nil if S3 is not configured.
func NewAdmin(renderer *render.Renderer, sessions *session.Store, posts *service.PostService, categories *service.CategoryService, stats *service.StatsService, mediaStore *store.MediaStore, storageClient *storage.Client) *Admin {
	return &Admin{
		renderer:      renderer,
		sessions:      sessions,
		posts:         posts,
		categories:    categories,
		stats:         stats,
		mediaStore:    mediaStore,
		storageClient: storageClient,
	}
}

// Dashboard renders the admin dashboard with aggregate counts.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := a.stats.Dashboard(r.Context())
	if err != nil {
		slog.Error("dashboard stats failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.renderer.Admin(w, r, "dashboard", &render.PageData{
		Title:   "Dashboard",
		Section: "dashboard",
		Data:    map[string]any{"Stats": stats},
	})
}

// --- Posts ---

// PostsList renders the posts management page, optionally filtered by
// status via ?status=draft|published.
func (a *Admin) PostsList(w http.ResponseWriter, r *http.Request) {
	var statusFilter *models.PostStatus
	filter := r.URL.Query().Get("status")
	if s := models.PostStatus(filter); s.Valid() {
		statusFilter = &s
	} else {
		filter = ""
	}

	posts, err := a.posts.ListAll(r.Context(), statusFilter)
	if err != nil {
		slog.Error("list posts failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.renderer.Admin(w, r, "posts", &render.PageData{
		Title:   "Posts",
		Section: "posts",
		Data: map[string]any{
			"Posts":  posts,
			"Filter": filter,
		},
	})
}

// PostNew renders the empty post form.
func (a *Admin) PostNew(w http.ResponseWriter, r *http.Request) {
	a.postForm(w, r, nil, "")
}

// PostEdit renders the edit form for an existing post.
func (a *Admin) PostEdit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	post, err := a.posts.GetByID(r.Context(), id)
	if errs.IsNotFound(err) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("find post failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.postForm(w, r, post, "")
}

// postForm renders the shared create/edit form.
func (a *Admin) postForm(w http.ResponseWriter, r *http.Request, post *models.Post, errMsg string) {
	cats, err := a.categories.List(r.Context())
	if err != nil {
		slog.Error("list categories failed", "error", err)
	}

	action := "/admin/posts"
	title := "New Post"
	if post != nil && post.ID != uuid.Nil {
		action = "/admin/posts/" + post.ID.String()
		title = "Edit Post"
	}

	a.renderer.Admin(w, r, "post_form", &render.PageData{
		Title:   title,
		Section: "posts",
		Data: map[string]any{
			"Post":       post,
			"Categories": cats,
			"Action":     action,
			"Error":      errMsg,
		},
	})
}

// postInput builds a service.PostInput from the submitted form.
func postInput(r *http.Request, sess *session.Data) service.PostInput {
	in := service.PostInput{
		Title:        r.FormValue("title"),
		Body:         r.FormValue("body"),
		BodyFormat:   models.BodyFormat(r.FormValue("body_format")),
		Description:  r.FormValue("description"),
		ThumbnailURL: r.FormValue("thumbnail_url"),
		Status:       models.PostStatus(r.FormValue("status")),
		AuthorID:     sess.UserID,
	}
	if id, err := uuid.Parse(r.FormValue("category_id")); err == nil {
		in.CategoryID = &id
	}
	if in.Status == "" {
		in.Status = models.PostStatusDraft
	}
	return in
}

// formPost echoes submitted values back into the form after an error.
func formPost(in service.PostInput, id uuid.UUID) *models.Post {
	p := &models.Post{
		ID:         id,
		Title:      in.Title,
		Body:       in.Body,
		BodyFormat: in.BodyFormat,
		Status:     in.Status,
	}
	if in.CategoryID != nil {
		p.CategoryID = *in.CategoryID
	}
	if in.Description != "" {
		p.Description = &in.Description
	}
	if in.ThumbnailURL != "" {
		p.ThumbnailURL = &in.ThumbnailURL
	}
	return p
}

// PostCreate processes the new-post form.
func (a *Admin) PostCreate(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	in := postInput(r, sess)

	if msg := validatePostForm(in.Title, in.Body, in.Description, in.ThumbnailURL); msg != "" {
		a.postForm(w, r, formPost(in, uuid.Nil), msg)
		return
	}

	_, err := a.posts.Create(r.Context(), in)
	if err != nil {
		a.postForm(w, r, formPost(in, uuid.Nil), mutationError(err, "create post"))
		return
	}

	http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
}

// PostUpdate processes the edit form.
func (a *Admin) PostUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	in := postInput(r, sess)

	if msg := validatePostForm(in.Title, in.Body, in.Description, in.ThumbnailURL); msg != "" {
		a.postForm(w, r, formPost(in, id), msg)
		return
	}

	_, err = a.posts.Update(r.Context(), id, in)
	if errs.IsNotFound(err) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	if err != nil {
		a.postForm(w, r, formPost(in, id), mutationError(err, "update post"))
		return
	}

	http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
}

// PostDelete removes a post.
func (a *Admin) PostDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	if err := a.posts.Delete(r.Context(), id); err != nil && !errs.IsNotFound(err) {
		slog.Error("delete post failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
}

// --- Categories ---

// CategoriesList renders the category management page.
func (a *Admin) CategoriesList(w http.ResponseWriter, r *http.Request) {
	a.categoriesPage(w, r, "")
}

func (a *Admin) categoriesPage(w http.ResponseWriter, r *http.Request, errMsg string) {
	cats, err := a.categories.List(r.Context())
	if err != nil {
		slog.Error("list categories failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.renderer.Admin(w, r, "categories", &render.PageData{
		Title:   "Categories",
		Section: "categories",
		Data: map[string]any{
			"Categories": cats,
			"Error":      errMsg,
		},
	})
}

// CategoryCreate processes the new-category form.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("name")
	description := r.FormValue("description")

	if msg := validateCategoryForm(name, description); msg != "" {
		a.categoriesPage(w, r, msg)
		return
	}

	if _, err := a.categories.Create(r.Context(), name, description); err != nil {
		a.categoriesPage(w, r, mutationError(err, "create category"))
		return
	}

	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

// CategoryUpdate renames a category.
func (a *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	name := r.FormValue("name")
	description := r.FormValue("description")

	if msg := validateCategoryForm(name, description); msg != "" {
		a.categoriesPage(w, r, msg)
		return
	}

	if _, err := a.categories.Rename(r.Context(), id, name, description); err != nil {
		if errs.IsNotFound(err) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		a.categoriesPage(w, r, mutationError(err, "rename category"))
		return
	}

	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

// CategoryDelete removes a category. Conflicts (default category,
// category with posts) come back as form errors.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	if err := a.categories.Delete(r.Context(), id); err != nil {
		if errs.IsNotFound(err) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		a.categoriesPage(w, r, mutationError(err, "delete category"))
		return
	}

	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

// mutationError maps a service error to a user-facing form message.
// Validation and conflict messages are written for end users and shown
// verbatim; anything else is logged and masked.
func mutationError(err error, op string) string {
	if errs.IsValidation(err) || errs.IsConflict(err) {
		return err.Error()
	}
	slog.Error(op+" failed", "error", err)
	return "An unexpected error occurred."
}
