// Package router sets up all HTTP routes and middleware chains for the
// inkpress API. It organizes routes into public, authenticated, and
// admin groups with appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"inkpress/internal/auth"
	"inkpress/internal/handlers"
	"inkpress/internal/middleware"
)

// Deps bundles the handler groups and shared pieces the router wires
// together.
type Deps struct {
	Tokens     *auth.Tokens
	Auth       *handlers.Auth
	Posts      *handlers.Posts
	Comments   *handlers.Comments
	Categories *handlers.Categories
	Search     *handlers.Search

	// UploadDir, when set, is served under /uploads for the local
	// storage driver. The S3 driver serves files itself.
	UploadDir string
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Authenticate(d.Tokens))

	// Health check — no auth.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		// Auth endpoints. Login is rate-limited against credential
		// stuffing.
		r.Route("/auth", func(r chi.Router) {
			loginLimiter := middleware.NewRateLimiter(10, time.Minute)
			r.Post("/register", d.Auth.Register)
			r.With(loginLimiter.Middleware).Post("/login", d.Auth.Login)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Get("/2fa/setup", d.Auth.TOTPSetup)
				r.Post("/2fa/activate", d.Auth.TOTPActivate)
			})
		})

		r.Route("/posts", func(r chi.Router) {
			// Public reads.
			r.Get("/published", d.Posts.ListPublished)
			r.Get("/slug/{slug}", d.Posts.GetBySlug)
			r.Get("/{id}/images", d.Posts.ListImages)
			r.Get("/{id}/comments", d.Comments.List)

			// Authenticated interactions.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/{id}/images", d.Posts.AddImages)
				r.Delete("/{id}/images/{imageId}", d.Posts.RemoveImage)
				r.Post("/{id}/comments", d.Comments.Create)
				r.Put("/{id}/comments/{commentId}", d.Comments.Update)
				r.Delete("/{id}/comments/{commentId}", d.Comments.Delete)
			})

			// Admin content management.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", d.Posts.List)
				r.Get("/unpublished", d.Posts.ListUnpublished)
				r.Post("/", d.Posts.Create)
				r.Put("/{id}", d.Posts.Update)
				r.Put("/{id}/publish", d.Posts.Publish)
				r.Delete("/{id}", d.Posts.Delete)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", d.Categories.List)
			r.With(middleware.RequireAdmin).Post("/", d.Categories.Create)
		})

		r.Route("/search", func(r chi.Router) {
			r.Get("/", d.Search.Posts)
			r.Get("/categories", d.Search.Categories)
			r.With(middleware.RequireAdmin).Get("/admin", d.Search.AdminPosts)
		})

		r.With(middleware.RequireAdmin).Get("/statistics", d.Posts.Statistics)
	})

	// Local-driver uploads are served straight from disk.
	if d.UploadDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(d.UploadDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
