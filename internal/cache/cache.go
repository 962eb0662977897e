// Package cache provides the derived-data cache used by the service layer:
// a small key-value contract with Valkey (Redis-compatible) and in-memory
// implementations, plus the key builders services invalidate against.
//
// All operations are best-effort. A cache-backend failure is logged and
// absorbed; it never fails the surrounding request, which falls through to
// direct computation.
package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultTTL is the fallback lifetime for cached derived values.
	DefaultTTL = 5 * time.Minute

	// ListTTL is the short lifetime for published-list pages, which may
	// go stale between explicit invalidations (title-only edits).
	ListTTL = time.Minute
)

// Store is the cache backend contract injected into services. Both the
// Valkey-backed store and the in-memory store satisfy it, so tests can
// substitute a fake without a network dependency.
type Store interface {
	// Get returns the cached value and true on a hit.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set stores value under key for ttl (DefaultTTL if ttl is zero).
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	// Delete removes the given keys.
	Delete(ctx context.Context, keys ...string)
	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string)
}

// Cache key layout. Mutations invalidate exactly the keys whose derived
// value depends on the mutated entity (see the service layer).
const (
	// KeyCategoryList caches the ordered category list with post counts.
	KeyCategoryList = "categories:list"

	// KeyNavCategories caches the public navigation menu (categories
	// that have at least one published post).
	KeyNavCategories = "categories:nav"

	// KeyStats caches the dashboard aggregate counts.
	KeyStats = "stats:dashboard"

	// KeySitemap caches the rendered sitemap XML.
	KeySitemap = "sitemap:xml"

	// PublishedListPrefix namespaces all published-list pages, so a
	// single prefix delete invalidates every page of every category.
	PublishedListPrefix = "posts:published:"

	// postSlugPrefix namespaces single-post cache entries.
	postSlugPrefix = "posts:slug:"
)

// PublishedListKey returns the cache key for one page of the published
// listing. categoryID is nil for the unfiltered listing.
func PublishedListKey(page int, categoryID *uuid.UUID) string {
	scope := "all"
	if categoryID != nil {
		scope = categoryID.String()
	}
	return PublishedListPrefix + scope + ":p" + strconv.Itoa(page)
}

// PostSlugKey returns the cache key for a single rendered post.
func PostSlugKey(slug string) string {
	return postSlugPrefix + slug
}
