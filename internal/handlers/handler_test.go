// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides a shared environment for handler integration
// tests: the full service stack over a real PostgreSQL database (skipped
// when unreachable), an in-memory cache, and the real template renderer.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"inkwell/internal/cache"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/render"
	"inkwell/internal/service"
	"inkwell/internal/session"
	"inkwell/internal/store"
)

type testEnv struct {
	db         *sql.DB
	cache      *cache.Memory
	posts      *service.PostService
	categories *service.CategoryService
	admin      *Admin
	public     *Public
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

	renderer, err := render.New()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}

	mem := cache.NewMemory()
	cacheLog := store.NewCacheLogStore(db)
	catStore := store.NewCategoryStore(db)
	postStore := store.NewPostStore(db)
	mediaStore := store.NewMediaStore(db)

	categories := service.NewCategoryService(catStore, mem, cacheLog)
	posts := service.NewPostService(postStore, categories, mem, cacheLog)
	stats := service.NewStatsService(postStore, catStore, mem)

	if _, err := categories.EnsureDefault(context.Background()); err != nil {
		t.Fatalf("EnsureDefault: %v", err)
	}

	return &testEnv{
		db:         db,
		cache:      mem,
		posts:      posts,
		categories: categories,
		admin:      NewAdmin(renderer, nil, posts, categories, stats, mediaStore, nil),
		public:     NewPublic(renderer, posts, categories, mem, "http://localhost:8080"),
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

// adminRequest builds a request carrying an authenticated admin session,
// the way LoadSession would after login.
func (e *testEnv) adminRequest(method, target string, form url.Values) *http.Request {
	var r *http.Request
	if form != nil {
		r = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}

	sess := &session.Data{
		UserID:    e.authorID,
		Email:     "admin@inkwell.local",
		Role:      "admin",
		TwoFADone: true,
	}
	ctx := context.WithValue(r.Context(), middleware.SessionKey, sess)
	return r.WithContext(ctx)
}

// withURLParam attaches a chi route parameter to the request context so
// handlers can be invoked without a full router.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
