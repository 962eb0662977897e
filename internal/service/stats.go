// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"encoding/json"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

// StatsService computes the dashboard aggregates. Counts are always
// derived from COUNT queries; nothing maintains running counters.
type StatsService struct {
	posts      *store.PostStore
	categories *store.CategoryStore
	cache      cache.Store
}

// NewStatsService creates a StatsService.
func NewStatsService(posts *store.PostStore, categories *store.CategoryStore, c cache.Store) *StatsService {
	return &StatsService{posts: posts, categories: categories, cache: c}
}

// Dashboard returns the post and category counts shown on the admin
// dashboard. Cached; post and category mutations invalidate it.
func (s *StatsService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	if data, ok := s.cache.Get(ctx, cache.KeyStats); ok {
		var cached models.DashboardStats
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	total, err := s.posts.Count()
	if err != nil {
		return nil, err
	}
	published, err := s.posts.CountByStatus(models.PostStatusPublished)
	if err != nil {
		return nil, err
	}
	cats, err := s.categories.Count()
	if err != nil {
		return nil, err
	}

	stats := &models.DashboardStats{
		TotalPosts:     total,
		PublishedPosts: published,
		DraftPosts:     total - published,
		Categories:     cats,
	}

	if data, err := json.Marshal(stats); err == nil {
		s.cache.Set(ctx, cache.KeyStats, data, cache.DefaultTTL)
	}
	return stats, nil
}
