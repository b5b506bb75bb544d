package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"practicalprague/internal/adminui"
	"practicalprague/internal/cms/sanity"
	"practicalprague/internal/config"
	"practicalprague/internal/httpapi"
	"practicalprague/internal/ratelimit"
	"practicalprague/internal/seo"
	"practicalprague/internal/service"
	"practicalprague/internal/siteui"
	"practicalprague/internal/store/postgres"
	"practicalprague/internal/store/rediscache"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	logger := newLogger(cfg)

	ctx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	switch {
	case cfg.AdminSecret == nil:
		logger.Warn("admin password not configured; admin login is disabled")
	case !cfg.AdminSecretHashed:
		logger.Warn("admin password is plaintext; generate a hash with cmd/hashpassword")
	}

	var (
		store  service.PostsStore
		checks []func(context.Context) error
	)

	switch {
	case cfg.DBDSN != "":
		pgPool, err := postgres.Open(ctx, cfg.DBDSN)
		if err != nil {
			logger.Error("db open failed", "err", err)
			os.Exit(1)
		}
		defer pgPool.Close()

		store = postgres.NewPostsStore(pgPool)
		checks = append(checks, pgPool.Ping)
		logger.Info("content source: postgres mirror")
	case cfg.SanityProjectID != "":
		client, err := sanity.New(sanity.Config{
			ProjectID:  cfg.SanityProjectID,
			Dataset:    cfg.SanityDataset,
			APIVersion: cfg.SanityAPIVersion,
			Token:      cfg.SanityToken,
			RPS:        cfg.SanityRPS,
		})
		if err != nil {
			logger.Error("sanity client setup failed", "err", err)
			os.Exit(1)
		}
		store = client
		logger.Info("content source: sanity", "project", cfg.SanityProjectID, "dataset", cfg.SanityDataset)
	default:
		logger.Warn("no content source configured; set APP_SANITY_PROJECT_ID or APP_DB_DSN")
	}

	if store != nil && cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("redis url invalid", "err", err)
			os.Exit(1)
		}
		rdb := redis.NewClient(redisOpts)
		defer rdb.Close()

		store = rediscache.New(rdb, store,
			rediscache.WithTTL(cfg.ContentCacheTTL),
			rediscache.WithLogger(logger),
		)
		checks = append(checks, func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		logger.Info("content cache enabled", "ttl", cfg.ContentCacheTTL)
	}

	var postsSvc *service.PostsService
	if store != nil {
		postsSvc = &service.PostsService{Store: store}
	}

	limiter := ratelimit.NewDefault()
	go limiter.Run(ctx, ratelimit.DefaultSweepInterval, func(removed int) {
		if removed > 0 {
			logger.Debug("login limiter swept", "removed", removed, "tracked", limiter.Len())
		}
	})

	gateSvc := &service.GateService{
		Limiter: limiter,
		Secret:  cfg.AdminSecret,
	}

	site := seo.SiteConfig{
		Name:        cfg.SiteName,
		Description: cfg.SiteDescription,
		URL:         cfg.SiteURL(),
	}

	pages := siteui.New(siteui.Opts{
		Logger: logger,
		Posts:  postsSvc,
		Site:   site,
	})

	var admin http.Handler
	if postsSvc != nil {
		admin = adminui.New(adminui.Opts{
			Logger:       logger,
			Gate:         gateSvc,
			Posts:        postsSvc,
			CookieSecure: cfg.CookieSecure(),
			StudioURL:    cfg.StudioURL,
		})
	}

	root := httpapi.NewRouter(httpapi.RouterOpts{
		Logger:       logger,
		IsProd:       cfg.IsProd(),
		Health:       healthCheck(checks),
		Gate:         gateSvc,
		Posts:        postsSvc,
		Site:         site,
		CookieSecure: cfg.CookieSecure(),
		Pages:        pages,
		Admin:        admin,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           root,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "env", cfg.Env, "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}
}

func healthCheck(checks []func(context.Context) error) func(context.Context) error {
	if len(checks) == 0 {
		return nil
	}
	return func(ctx context.Context) error {
		for _, check := range checks {
			if err := check(ctx); err != nil {
				return err
			}
		}
		return nil
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProd() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
