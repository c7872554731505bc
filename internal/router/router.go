// Package router sets up all HTTP routes and middleware chains for the
// clinic CMS backend. It organizes routes into public and admin groups
// with appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"clinicms/internal/handlers"
	"clinicms/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. Authentication sits in front of this service;
// by the time a request reaches the admin group the caller is trusted.
func New(admin *handlers.Admin, public *handlers.Public) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check.
	r.Get("/health", healthHandler)

	// Admin API — aggregate editing. Rate limited to keep a runaway
	// editor script from hammering the reconciliation path.
	adminLimiter := middleware.NewRateLimiter(120, time.Minute)
	r.Route("/admin", func(r chi.Router) {
		r.Use(adminLimiter.Middleware)

		r.Route("/departments", func(r chi.Router) {
			r.Get("/", admin.DepartmentsList)
			r.Post("/", admin.DepartmentCreate)
			r.Get("/{id}", admin.DepartmentShow)
			r.Put("/{id}", admin.DepartmentUpdate)
			r.Delete("/{id}", admin.DepartmentDelete)
		})

		r.Route("/doctors", func(r chi.Router) {
			r.Get("/", admin.DoctorsList)
			r.Post("/", admin.DoctorCreate)
			r.Get("/{id}", admin.DoctorShow)
			r.Put("/{id}", admin.DoctorUpdate)
			r.Delete("/{id}", admin.DoctorDelete)
		})

		r.Route("/galleries", func(r chi.Router) {
			r.Get("/", admin.GalleriesList)
			r.Post("/", admin.GalleryCreate)
			r.Get("/{id}", admin.GalleryShow)
			r.Put("/{id}", admin.GalleryUpdate)
			r.Delete("/{id}", admin.GalleryDelete)
		})
	})

	// Public routes — published aggregates by slug.
	r.Get("/departments/{slug}", public.Department)
	r.Get("/doctors/{slug}", public.Doctor)
	r.Get("/galleries/{slug}", public.Gallery)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
