package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/catslideshow/api/internal/api/handler"
	"github.com/catslideshow/api/internal/api/middleware"
	"github.com/catslideshow/api/internal/cat"
	"github.com/catslideshow/api/internal/identity"
	"github.com/catslideshow/api/internal/metrics"
	"github.com/catslideshow/api/internal/slideshow"
	"github.com/catslideshow/api/internal/todo"
	"github.com/catslideshow/api/internal/user"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Provider       identity.Provider
	Verifier       middleware.TokenVerifier
	UserRepo       user.Repository
	CatRepo        cat.Repository
	SlideshowRepo  slideshow.Repository
	TodoRepo       todo.Repository
	ImageLister    handler.ImageLister
	Cookie         handler.CookieConfig
	AllowedOrigins []string
	Metrics        *metrics.Collector
	Gatherer       prometheus.Gatherer
	Version        string
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}

	healthHandler := handler.NewHealthHandler(deps.Version)
	r.Get("/healthz", healthHandler.ServeHTTP)

	if deps.Gatherer != nil {
		r.Method("GET", "/metrics", metrics.Handler(deps.Gatherer))
	}

	authHandler := handler.NewAuthHandler(deps.Provider, deps.UserRepo, deps.Cookie)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/confirm-signup", authHandler.ConfirmSignup)
		r.Post("/login", authHandler.Login)
		r.Post("/resume", authHandler.Resume)
		r.Post("/logout", authHandler.Logout)
	})

	requireAuth := middleware.BearerAuth(deps.Verifier, deps.UserRepo)

	catHandler := handler.NewCatHandler(deps.CatRepo)
	r.Route("/cats", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", catHandler.Create)
		r.Get("/", catHandler.List)
		r.Get("/{id}", catHandler.GetByID)
		r.Patch("/{id}", catHandler.Update)
		r.Delete("/{id}", catHandler.Delete)
	})

	slideshowHandler := handler.NewSlideshowHandler(deps.SlideshowRepo)
	r.Route("/slideshows", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", slideshowHandler.Create)
		r.Get("/", slideshowHandler.List)
		r.Get("/cat/{cat_id}", slideshowHandler.ListByCat)
		r.Get("/search/{term}", slideshowHandler.Search)
		r.Get("/{id}", slideshowHandler.GetByID)
		r.Patch("/{id}", slideshowHandler.Update)
		r.Delete("/{id}", slideshowHandler.Delete)
	})

	todoHandler := handler.NewTodoHandler(deps.TodoRepo)
	r.Route("/todos", func(r chi.Router) {
		r.Post("/", todoHandler.Create)
		r.Get("/", todoHandler.List)
		r.Get("/{id}", todoHandler.GetByID)
		r.Patch("/{id}", todoHandler.Update)
		r.Delete("/{id}", todoHandler.Delete)
	})

	catImagesHandler := handler.NewCatImagesHandler(deps.ImageLister)
	r.Get("/cat-images/", catImagesHandler.List)

	return r
}
