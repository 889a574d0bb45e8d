// Package movielens fetches the MovieLens bundle and unpacks the catalog files.
package movielens

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/moviematch/internal/version"
)

const (
	// DefaultURL is the small MovieLens bundle.
	DefaultURL = "https://files.grouplens.org/datasets/movielens/ml-latest-small.zip"
	// DefaultTimeout bounds the whole download.
	DefaultTimeout = 60 * time.Second

	// MoviesFile holds movieId,title,genres.
	MoviesFile = "movies.csv"
	// RatingsFile is kept alongside the catalog but not used for ranking.
	RatingsFile = "ratings.csv"

	maxBundleSize = 256 << 20
)

// ErrMemberMissing is returned when the bundle lacks an expected file.
var ErrMemberMissing = errors.New("bundle member missing")

// Config controls where and how the bundle is fetched.
type Config struct {
	URL     string
	Timeout time.Duration
}

// Files are the extracted dataset paths.
type Files struct {
	Movies  string
	Ratings string
}

// Downloader fetches and extracts the dataset into a directory.
type Downloader struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// New creates a Downloader. Zero config values fall back to the defaults.
func New(cfg Config, logger *zap.Logger) *Downloader {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Downloader{
		url:    cfg.URL,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Paths returns the dataset file locations inside dir.
func Paths(dir string) Files {
	return Files{
		Movies:  filepath.Join(dir, MoviesFile),
		Ratings: filepath.Join(dir, RatingsFile),
	}
}

// Ensure downloads the bundle when either file is missing or force is set.
func (d *Downloader) Ensure(ctx context.Context, dir string, force bool) (Files, error) {
	files := Paths(dir)
	if !force && exists(files.Movies) && exists(files.Ratings) {
		d.logger.Debug("Dataset already present", zap.String("dir", dir))
		return files, nil
	}
	if err := d.Download(ctx, dir); err != nil {
		return Files{}, err
	}
	return files, nil
}

// Download fetches the bundle and writes movies.csv and ratings.csv into dir.
func (d *Downloader) Download(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	start := time.Now()
	d.logger.Info("Downloading MovieLens dataset", zap.String("url", d.url), zap.String("dir", dir))

	body, err := d.fetch(ctx)
	if err != nil {
		return err
	}

	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return fmt.Errorf("open bundle: %w", err)
	}
	for _, name := range []string{MoviesFile, RatingsFile} {
		if err := extract(zr, name, filepath.Join(dir, name)); err != nil {
			return err
		}
	}

	d.logger.Info("Dataset downloaded",
		zap.Int("bytes", len(body)),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

func (d *Downloader) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", version.UserAgent("downloader"))

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("download: HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBundleSize+1))
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}
	if len(body) > maxBundleSize {
		return nil, fmt.Errorf("bundle exceeds %d bytes", maxBundleSize)
	}
	return body, nil
}

// extract copies the member whose base name is name. The bundle nests files
// under a top-level directory, so only the base name is matched.
func extract(zr *zip.Reader, name, outPath string) error {
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || path.Base(f.Name) != name {
			continue
		}
		src, err := f.Open()
		if err != nil {
			return fmt.Errorf("open %s: %w", f.Name, err)
		}
		defer func() { _ = src.Close() }()
		return writeAtomic(outPath, src)
	}
	return fmt.Errorf("%s: %w", name, ErrMemberMissing)
}

func writeAtomic(outPath string, r io.Reader) error {
	tmpPath := filepath.Clean(outPath) + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open tmp: %w", err)
	}
	_, err = io.Copy(f, r)
	if closeErr := f.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", filepath.Base(outPath), err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func exists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}
