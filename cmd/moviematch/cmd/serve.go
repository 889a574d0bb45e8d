package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/moviematch/internal/config"
	dbRedis "github.com/kailas-cloud/moviematch/internal/db/redis"
	"github.com/kailas-cloud/moviematch/internal/domain"
	"github.com/kailas-cloud/moviematch/internal/domain/tfidf"
	logpkg "github.com/kailas-cloud/moviematch/internal/logger"
	"github.com/kailas-cloud/moviematch/internal/metrics"
	"github.com/kailas-cloud/moviematch/internal/repository/catalog"
	"github.com/kailas-cloud/moviematch/internal/repository/reccache"
	chiTransport "github.com/kailas-cloud/moviematch/internal/transport/chi"
	healthuc "github.com/kailas-cloud/moviematch/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/moviematch/internal/usecase/recommend"
	"github.com/kailas-cloud/moviematch/internal/version"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Fit the catalog and serve recommendations over HTTP",
		Long: "Loads config/<ENV>.yaml (ENV defaults to local), fits the catalog once " +
			"and serves /recommendations/title, /recommendations/keywords, /health and /metrics. " +
			"SIGHUP re-reads the catalog and refits without downtime.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting moviematch API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("data_dir", cfg.Dataset.Dir),
		zap.Bool("cache", cfg.Cache.Enabled()),
	)

	metrics.RegisterRecommendMetrics()

	files, err := prepareDataset(ctx, cfg.Dataset, logger)
	if err != nil {
		return err
	}
	logger.Info("Dataset ready", zap.String("movies", files.Movies))

	svc := recommenduc.New(recommenduc.Config{
		Vectorizer:     tfidf.Options{MinDF: cfg.Recommend.MinDF, NGramMax: tfidf.DefaultOptions().NGramMax},
		MatchThreshold: cfg.Recommend.MatchThreshold,
	}, metrics.RecommendObserver{}, logger)

	catalogRepo := catalog.New(cfg.Dataset.Dir, logger)
	if err := refit(ctx, svc, catalogRepo, logger); err != nil {
		return err
	}

	var recommender domain.Recommender = svc
	// Pass a nil interface, not a typed nil pointer, when the cache is off.
	var cachePinger healthuc.CachePinger
	if cfg.Cache.Enabled() {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			return fmt.Errorf("create cache store: %w", err)
		}
		defer store.Close()

		readiness := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, readiness); err != nil {
			return fmt.Errorf("cache not ready: %w", err)
		}
		logger.Info("Connected to result cache", zap.Strings("addrs", cfg.Cache.Addrs))

		recommender = reccache.New(svc, store, reccache.Config{
			KeyPrefix: cfg.Cache.KeyPrefix,
			TTL:       cfg.Cache.TTL(),
		}, metrics.CacheTotal, logger)
		cachePinger = store
	}

	healthSvc := healthuc.New(svc, cachePinger)
	server := chiTransport.NewServer(recommender, healthSvc, chiTransport.Limits{
		DefaultTopN: cfg.Recommend.DefaultTopN,
		MaxTopN:     cfg.Recommend.MaxTopN,
	}, logger)

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.WideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	defer signal.Stop(quit)
	defer signal.Stop(reload)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	for running := true; running; {
		select {
		case <-reload:
			logger.Info("Received reload signal")
			if err := refit(ctx, svc, catalogRepo, logger); err != nil {
				logger.Error("Refit failed, keeping current model", zap.Error(err))
			}
		case <-quit:
			logger.Info("Received shutdown signal")
			running = false
		case err, ok := <-serveErr:
			if ok && err != nil {
				return fmt.Errorf("http server: %w", err)
			}
			running = false
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}

// refit reads the catalog from disk and swaps in a new model.
func refit(ctx context.Context, svc *recommenduc.Service, repo *catalog.Repo, logger *zap.Logger) error {
	movies, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	m, err := svc.Fit(ctx, movies)
	if err != nil {
		return fmt.Errorf("fit catalog %s: %w", repo.Path(), err)
	}
	logger.Info("Catalog fitted",
		zap.String("path", repo.Path()),
		zap.String("model_id", m.ID().String()),
		zap.Time("fitted_at", m.FittedAt()),
		zap.Int("movies", m.Size()),
	)
	return nil
}
