package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/aryan595/Movie-Recommendation-System/docs" // swagger docs

	"github.com/aryan595/Movie-Recommendation-System/internal/cache"
	"github.com/aryan595/Movie-Recommendation-System/internal/config"
	"github.com/aryan595/Movie-Recommendation-System/internal/handler"
	"github.com/aryan595/Movie-Recommendation-System/internal/logging"
	"github.com/aryan595/Movie-Recommendation-System/internal/recommend"
	"github.com/aryan595/Movie-Recommendation-System/internal/repository"
	"github.com/aryan595/Movie-Recommendation-System/internal/service"
)

// @title Movie Recommendation API
// @version 1.0
// @description Personalized, explained and cold-start movie recommendations over a pre-trained embedding model.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err := cfg.Validate(); err != nil {
		logging.Fatal().Err(err).Msg("configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := repository.Open(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("open store")
	}
	defer func() {
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := stores.Close(cctx); err != nil {
			logging.Warn().Err(err).Msg("close store")
		}
	}()

	users, err := repository.NewUserRepository(cfg.CredentialsFile)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.CredentialsFile).Msg("load credentials")
	}

	// Artifacts are loaded once. A bad model is fatal: there is nothing to
	// serve without it.
	snap, err := recommend.Load(ctx, recommend.Options{
		ModelDir:       cfg.ModelDir,
		Catalog:        stores.Movies,
		LikedThreshold: cfg.LikedThreshold,
	})
	if err != nil {
		logging.Fatal().Err(err).Str("dir", cfg.ModelDir).Msg("load model snapshot")
	}

	rc := cache.NewRedis(ctx, cfg)
	defer rc.Close()

	// services
	ratingSvc := service.NewRatingService(stores.Ratings, stores.Movies)
	recSvc := service.NewRecommendService(snap, stores.Movies, stores.Ratings, stores.Recommendations, rc, service.RecommendOptions{
		DefaultK:        cfg.DefaultK,
		MaxK:            cfg.MaxK,
		MinSeeds:        cfg.ColdStartMinSeeds,
		SimilarCacheTTL: cfg.SimilarCacheTTL,
	})
	movieSvc := service.NewMovieService(stores.Movies, stores.Ratings, snap)
	authSvc := service.NewAuthService(users, stores.Ratings, cfg.JWTSecret)
	analyticsSvc := service.NewAnalyticsService(ratingSvc, users, stores.Movies, stores.Ratings)
	adminSvc := service.NewAdminService(snap, stores.Movies)

	router := handler.NewRouter(handler.RouterConfig{
		JWTSecret:       cfg.JWTSecret,
		CORSOrigins:     cfg.CORSOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
	}, handler.Handlers{
		Health:    handler.NewHealthHandler(snap),
		Auth:      handler.NewAuthHandler(authSvc),
		Movies:    handler.NewMovieHandler(movieSvc, recSvc),
		Ratings:   handler.NewRatingHandler(ratingSvc),
		Recommend: handler.NewRecommendHandler(recSvc, cfg.CORSOrigins),
		Analytics: handler.NewAnalyticsHandler(analyticsSvc),
		Admin:     handler.NewAdminHandler(adminSvc, recSvc),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info().Str("addr", srv.Addr).Str("generation", snap.Generation).Msg("http listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		logging.Error().Err(err).Msg("http shutdown")
	}
}
