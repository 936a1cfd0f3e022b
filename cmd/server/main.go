package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	cognitoidp "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/catslideshow/api/internal/api"
	"github.com/catslideshow/api/internal/api/handler"
	"github.com/catslideshow/api/internal/cat"
	"github.com/catslideshow/api/internal/config"
	"github.com/catslideshow/api/internal/database"
	"github.com/catslideshow/api/internal/identity"
	"github.com/catslideshow/api/internal/images"
	"github.com/catslideshow/api/internal/metrics"
	"github.com/catslideshow/api/internal/slideshow"
	"github.com/catslideshow/api/internal/todo"
	"github.com/catslideshow/api/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	ctx := context.Background()

	if err := database.RunMigrations(cfg.MigrateDatabaseURL); err != nil {
		slog.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		slog.Error("failed to load AWS configuration", "error", err)
		os.Exit(1)
	}

	provider := identity.NewCognitoProvider(cognitoidp.NewFromConfig(awsCfg), cfg.UserPoolID, cfg.AppClientID)

	keyCache := identity.NewKeyCache(
		identity.JWKSURL(cfg.AWSRegion, cfg.UserPoolID),
		time.Duration(cfg.JWKSCacheTTL)*time.Second,
		nil, nil,
	)
	verifier := identity.NewVerifier(keyCache, cfg.AppClientID, identity.Issuer(cfg.AWSRegion, cfg.UserPoolID))

	lister := images.NewLister(s3.NewFromConfig(awsCfg), cfg.CatImagesBucket)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	router := api.NewRouter(api.RouterDeps{
		Provider:      provider,
		Verifier:      verifier,
		UserRepo:      user.NewRepository(db.Pool()),
		CatRepo:       cat.NewRepository(db.Pool()),
		SlideshowRepo: slideshow.NewRepository(db.Pool()),
		TodoRepo:      todo.NewRepository(db.Pool()),
		ImageLister:   lister,
		Cookie: handler.CookieConfig{
			Name:   cfg.SessionCookieName,
			TTL:    cfg.SessionCookieTTL,
			AppEnv: cfg.AppEnv,
			Domain: cfg.AppDomain,
		},
		AllowedOrigins: cfg.AllowedOrigins,
		Metrics:        collector,
		Gatherer:       registry,
		Version:        cfg.Version,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting cat slideshow API", "port", cfg.Port, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

// setupLogger configures the process-wide slog default at the given level.
func setupLogger(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
}
