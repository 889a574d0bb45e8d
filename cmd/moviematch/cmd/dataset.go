package cmd

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/moviematch/internal/config"
	"github.com/kailas-cloud/moviematch/internal/transport/movielens"
)

// datasetURL is the CLI download source. Overridden in tests.
var datasetURL = movielens.DefaultURL

// ensureDataset fetches the bundle from url into dir when missing or when force is set.
func ensureDataset(ctx context.Context, url, dir string, force bool, timeout time.Duration, logger *zap.Logger) (movielens.Files, error) {
	dl := movielens.New(movielens.Config{URL: url, Timeout: timeout}, logger)
	files, err := dl.Ensure(ctx, dir, force)
	if err != nil {
		return movielens.Files{}, fmt.Errorf("dataset: %w", err)
	}
	return files, nil
}

// prepareDataset makes the configured dataset available for serve.
func prepareDataset(ctx context.Context, cfg config.DatasetConfig, logger *zap.Logger) (movielens.Files, error) {
	return ensureDataset(ctx, cfg.URL, cfg.Dir, cfg.ForceDownload, cfg.DownloadTimeout(), logger)
}
