package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/aryan595/Movie-Recommendation-System/internal/logging"
	"github.com/aryan595/Movie-Recommendation-System/internal/metrics"
)

// RouterConfig holds the settings the router needs from the environment.
type RouterConfig struct {
	JWTSecret       string
	CORSOrigins     []string
	RateLimitPerMin int
}

type Handlers struct {
	Health    *HealthHandler
	Auth      *AuthHandler
	Movies    *MovieHandler
	Ratings   *RatingHandler
	Recommend *RecommendHandler
	Analytics *AnalyticsHandler
	Admin     *AdminHandler
}

func NewRouter(cfg RouterConfig, h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	limit := func(next http.Handler) http.Handler { return next }
	if cfg.RateLimitPerMin > 0 {
		limit = httprate.LimitByIP(cfg.RateLimitPerMin, time.Minute)
	}

	// Public
	r.Get("/health", h.Health.Health)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DocExpansion("list"),
	))

	r.With(limit).Post("/auth/register", h.Auth.Register)
	r.With(limit).Post("/auth/login", h.Auth.Login)

	r.Route("/movies", func(r chi.Router) {
		r.Get("/search", h.Movies.Search)
		r.Get("/top", h.Movies.Top)
		r.Get("/genres", h.Movies.Genres)
		r.Get("/seeds", h.Movies.Seeds)
		r.Get("/{id}", h.Movies.GetMovie)
		r.Get("/{id}/similar", h.Movies.Similar)
	})

	// JWT
	r.Group(func(r chi.Router) {
		r.Use(JWTAuth(cfg.JWTSecret))

		r.Route("/me", func(r chi.Router) {
			r.Get("/recommendations", h.Recommend.MyRecommendations)
			r.Get("/recommendations/history", h.Recommend.History)
			r.Get("/ws/recommendations", h.Recommend.StreamRecommendations)
			r.Post("/cold-start", h.Recommend.ColdStart)
			r.Get("/ratings", h.Ratings.GetRatings)
			r.With(limit).Post("/ratings", h.Ratings.PostRating)
			r.Get("/analytics", h.Analytics.Mine)
		})

		r.Group(func(r chi.Router) {
			r.Use(AdminOnly())
			r.Get("/users/{id}/recommendations", h.Recommend.UserRecommendations)
			MountAdminRoutes(r, h.Admin, h.Auth, h.Movies, h.Analytics)
		})
	})

	return r
}
