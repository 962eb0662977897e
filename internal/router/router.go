// Package router sets up all HTTP routes and middleware chains for the
// inkwell blog engine. It organizes routes into public and admin groups
// with appropriate middleware stacks.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
	"inkwell/internal/session"
	"inkwell/web"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. loginLimiter guards the login and 2FA
// endpoints against brute-force attempts.
func New(sessionStore *session.Store, loginLimiter *middleware.RateLimiter, admin *handlers.Admin, auth *handlers.Auth, public *handlers.Public) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.Logger)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth, no CSRF.
	r.Get("/health", healthHandler)

	// Embedded static assets.
	staticFS, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(staticFS)))
	r.Get("/robots.txt", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFileFS(w, req, staticFS, "robots.txt")
	})

	// Admin routes — require authentication and CSRF protection.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.CSRF)

		// Auth pages — accessible without a session, rate-limited.
		r.Group(func(r chi.Router) {
			r.Use(loginLimiter.Middleware)
			r.Get("/login", auth.LoginPage)
			r.Post("/login", auth.LoginSubmit)
		})
		r.Post("/logout", auth.Logout)

		// 2FA — requires auth but NOT completed 2FA.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(loginLimiter.Middleware)
			r.Get("/2fa/setup", auth.TwoFASetupPage)
			r.Get("/2fa/verify", auth.TwoFAVerifyPage)
			r.Post("/2fa/verify", auth.TwoFAVerifySubmit)
		})

		// Authenticated + 2FA-verified admin area. Dashboard operations
		// are admin-only; editor sessions get a 403.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)
			r.Use(middleware.RequireAdmin)

			// Dashboard
			r.Get("/", admin.Dashboard)
			r.Get("/dashboard", admin.Dashboard)

			// Posts
			r.Route("/posts", func(r chi.Router) {
				r.Get("/", admin.PostsList)
				r.Get("/new", admin.PostNew)
				r.Post("/", admin.PostCreate)
				r.Get("/{id}", admin.PostEdit)
				r.Post("/{id}", admin.PostUpdate)
				r.Post("/{id}/delete", admin.PostDelete)
			})

			// Categories
			r.Route("/categories", func(r chi.Router) {
				r.Get("/", admin.CategoriesList)
				r.Post("/", admin.CategoryCreate)
				r.Post("/{id}", admin.CategoryUpdate)
				r.Post("/{id}/delete", admin.CategoryDelete)
			})

			// Media library
			r.Route("/media", func(r chi.Router) {
				r.Get("/", admin.MediaList)
				r.Post("/", admin.MediaUpload)
				r.Post("/{id}/delete", admin.MediaDelete)
			})
		})
	})

	// Public routes.
	r.Get("/", public.Home)
	r.Get("/post/{slug}", public.Post)
	r.Get("/category/{slug}", public.Category)
	r.Get("/sitemap.xml", public.Sitemap)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
