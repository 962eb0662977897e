// service_test.go provides a shared environment for service integration
// tests: a real PostgreSQL database (skipped when unreachable) with an
// in-memory cache, so invalidation effects are observable and
// deterministic.
package service

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"inkwell/internal/cache"
	"inkwell/internal/database"
	"inkwell/internal/store"
)

type testEnv struct {
	db         *sql.DB
	cache      *cache.Memory
	categories *CategoryService
	posts      *PostService
	stats      *StatsService
	authorID   uuid.UUID
}

func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkwell")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkwell")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// newEnv wires the full service stack against the test database with an
// in-memory cache. Skips if PostgreSQL is not available.
func newEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)
	if err := database.Seed(db); err != nil {
		db.Close()
		t.Fatalf("failed to seed database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	var authorID uuid.UUID
	if err := db.QueryRow("SELECT id FROM users LIMIT 1").Scan(&authorID); err != nil {
		t.Fatalf("no users in database: %v", err)
	}

	mem := cache.NewMemory()
	cacheLog := store.NewCacheLogStore(db)
	catStore := store.NewCategoryStore(db)
	postStore := store.NewPostStore(db)

	categories := NewCategoryService(catStore, mem, cacheLog)
	posts := NewPostService(postStore, categories, mem, cacheLog)
	stats := NewStatsService(postStore, catStore, mem)

	if _, err := categories.EnsureDefault(context.Background()); err != nil {
		t.Fatalf("EnsureDefault: %v", err)
	}

	return &testEnv{
		db:         db,
		cache:      mem,
		categories: categories,
		posts:      posts,
		stats:      stats,
		authorID:   authorID,
	}
}

func (e *testEnv) cleanPost(t *testing.T, slugs ...string) {
	t.Helper()
	t.Cleanup(func() {
		for _, s := range slugs {
			e.db.Exec("DELETE FROM posts WHERE slug = $1 OR slug LIKE $1 || '-%'", s)
		}
	})
}

func (e *testEnv) cleanCategory(t *testing.T, slugs ...string) {
	t.Helper()
	t.Cleanup(func() {
		for _, s := range slugs {
			e.db.Exec("DELETE FROM categories WHERE slug = $1", s)
		}
	})
}
