// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package service holds the application logic between the HTTP handlers
// and the stores: validation, the publication state machine, and the
// cache invalidation contract. Every mutation invalidates its dependent
// cache keys synchronously before returning; cache failures are logged,
// never surfaced.
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
	"inkwell/internal/slug"
	"inkwell/internal/store"
)

// CategoryService manages categories and the default-category invariant.
type CategoryService struct {
	categories *store.CategoryStore
	cache      cache.Store
	cacheLog   *store.CacheLogStore
}

// NewCategoryService creates a CategoryService.
func NewCategoryService(categories *store.CategoryStore, c cache.Store, cacheLog *store.CacheLogStore) *CategoryService {
	return &CategoryService{categories: categories, cache: c, cacheLog: cacheLog}
}

// EnsureDefault makes sure the "Uncategorized" category exists and
// returns it. Called at startup and before any fallback assignment.
func (s *CategoryService) EnsureDefault(ctx context.Context) (*models.Category, error) {
	existing, err := s.categories.FindBySlug(models.DefaultCategorySlug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	created, err := s.categories.Create(&models.Category{
		Name:        models.DefaultCategoryName,
		Slug:        models.DefaultCategorySlug,
		Description: "Posts without an assigned category.",
	})
	if err != nil {
		// Concurrent bootstrap: another request created it first.
		if store.IsUniqueViolation(err) {
			return s.categories.FindBySlug(models.DefaultCategorySlug)
		}
		return nil, err
	}
	slog.Info("default category created", "id", created.ID)
	s.invalidate(ctx, created.ID, "create")
	return created, nil
}

// Create adds a new category. Names are unique case-insensitively.
func (s *CategoryService) Create(ctx context.Context, name, description string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.Validation("name", "name is required")
	}

	dup, err := s.categories.FindByNameFold(name)
	if err != nil {
		return nil, err
	}
	if dup != nil {
		return nil, errs.Validation("name", "a category with this name already exists")
	}

	created, err := s.categories.Create(&models.Category{
		Name:        name,
		Slug:        slug.Generate(name),
		Description: strings.TrimSpace(description),
	})
	if err != nil {
		// The unique index races with the FindByNameFold check.
		if store.IsUniqueViolation(err) {
			return nil, errs.Validation("name", "a category with this name already exists")
		}
		return nil, err
	}

	s.invalidate(ctx, created.ID, "create")
	return created, nil
}

// Rename changes a category's name and description. The slug follows the
// new name. The default category keeps its reserved slug so existing
// fallback lookups keep working.
func (s *CategoryService) Rename(ctx context.Context, id uuid.UUID, name, description string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.Validation("name", "name is required")
	}

	cat, err := s.categories.FindByID(id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, errs.NotFound("category", id.String())
	}

	dup, err := s.categories.FindByNameFold(name)
	if err != nil {
		return nil, err
	}
	if dup != nil && dup.ID != id {
		return nil, errs.Validation("name", "a category with this name already exists")
	}

	cat.Name = name
	cat.Description = strings.TrimSpace(description)
	if !cat.IsDefault() {
		cat.Slug = slug.Generate(name)
	}
	if err := s.categories.Update(cat); err != nil {
		if store.IsUniqueViolation(err) {
			return nil, errs.Validation("name", "a category with this name already exists")
		}
		return nil, err
	}

	s.invalidate(ctx, cat.ID, "update")
	return cat, nil
}

// Delete removes a category. The default category and categories that
// still hold posts cannot be deleted.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	cat, err := s.categories.FindByID(id)
	if err != nil {
		return err
	}
	if cat == nil {
		return errs.NotFound("category", id.String())
	}
	if cat.IsDefault() {
		return errs.Conflict("the default category cannot be deleted")
	}

	n, err := s.categories.PostCount(id)
	if err != nil {
		return err
	}
	if n > 0 {
		return errs.Conflict("category still has posts; reassign them first")
	}

	if err := s.categories.Delete(id); err != nil {
		return err
	}

	s.invalidate(ctx, id, "delete")
	return nil
}

// List returns all categories with post counts, ordered by name. The
// result is cached; every category or post mutation invalidates it.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	if data, ok := s.cache.Get(ctx, cache.KeyCategoryList); ok {
		var cached []models.Category
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		slog.Warn("discarding undecodable cached category list")
	}

	list, err := s.categories.List()
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(list); err == nil {
		s.cache.Set(ctx, cache.KeyCategoryList, data, cache.DefaultTTL)
	}
	return list, nil
}

// NavCategories returns categories with at least one published post, for
// the public navigation menu. Cached under its own key.
func (s *CategoryService) NavCategories(ctx context.Context) ([]models.Category, error) {
	if data, ok := s.cache.Get(ctx, cache.KeyNavCategories); ok {
		var cached []models.Category
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	list, err := s.categories.ListWithPublished()
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(list); err == nil {
		s.cache.Set(ctx, cache.KeyNavCategories, data, cache.DefaultTTL)
	}
	return list, nil
}

// GetBySlug returns a category by its slug.
func (s *CategoryService) GetBySlug(ctx context.Context, categorySlug string) (*models.Category, error) {
	cat, err := s.categories.FindBySlug(categorySlug)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, errs.NotFound("category", categorySlug)
	}
	return cat, nil
}

// invalidate drops every cache entry a category mutation can affect.
// Post listings carry category names, so they go too.
func (s *CategoryService) invalidate(ctx context.Context, id uuid.UUID, action string) {
	s.cache.Delete(ctx, cache.KeyCategoryList, cache.KeyNavCategories, cache.KeyStats, cache.KeySitemap)
	s.cache.DeletePrefix(ctx, cache.PublishedListPrefix)
	if s.cacheLog != nil {
		s.cacheLog.Log("category", id, action)
	}
}
