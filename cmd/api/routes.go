package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (app *Application) routes() http.Handler {
	router := chi.NewRouter()
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		app.Http.NotFound(w, r, "Page not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		app.Http.MethodNotAllowed(w, r)
	})
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(app.Metrics)
	router.Use(app.Recoverer)
	router.Use(app.RateLimiter)

	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(app.Authenticate)
		r.Get("/healthcheck", app.healthcheck)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", app.register)
			r.Post("/login", app.login)
			r.With(app.requireAuthenticatedUser).Post("/logout", app.logout)
			r.Get("/status", app.authStatus)
		})
		r.Route("/movies", func(r chi.Router) {
			r.Get("/", app.listMovies)
			r.Post("/", app.createMovie)
			r.Get("/{id}", app.getMovie)
			r.Patch("/{id}", app.updateMovie)
			r.Delete("/{id}", app.deleteMovie)
			r.Get("/{id}/comments", app.listComments)
			r.Post("/{id}/comments", app.createComment)
		})
		r.Route("/comments", func(r chi.Router) {
			r.Patch("/{id}", app.updateComment)
			r.Delete("/{id}", app.deleteComment)
		})
		r.Route("/admin", func(r chi.Router) {
			r.Get("/users", app.listUsers)
			r.Get("/users/{id}", app.getUser)
			r.Patch("/users/{id}/role", app.updateUserRole)
			r.Delete("/movies/{id}", app.deleteMovie)
			r.Delete("/comments/{id}", app.deleteComment)
		})
	})
	return router
}
