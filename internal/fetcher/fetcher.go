// Package fetcher downloads the raw export and supplemental documents from
// their fixed remote locations.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	"github.com/ahaim5357/10.17605-osf.io-74bzs/internal/config"
	apperrors "github.com/ahaim5357/10.17605-osf.io-74bzs/internal/errors"
)

// Resource identifies one remote file to fetch.
type Resource struct {
	Name string // file name the resource is saved as
	URL  string // remote location answering a plain GET
}

// SupplementalDocs lists the documentation files distributed alongside the
// compiled dataset. URLs are fixed by the hosting project.
var SupplementalDocs = []Resource{
	{Name: config.ContentLicenseFile, URL: "https://osf.io/download/4xhm9/"},
	{Name: config.DatasetDescriptionFile, URL: "https://osf.io/download/bgwp3/"},
	{Name: config.ExplanationsFile, URL: "https://osf.io/download/xav7z/"},
}

// Client fetches remote files over HTTP. Downloads are paced with a rate
// limiter so a run stays polite to the hosting service.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	projectURL string
	logger     *slog.Logger
}

// NewClient creates a fetch client from configuration.
func NewClient(cfg config.FetchConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		projectURL: cfg.ProjectURL,
		logger:     logger,
	}
}

// Download fetches url into dest with a GET request. Existing files are
// left untouched, which makes reruns idempotent: delete the file to force a
// fresh download. Failures surface as network errors with the offending
// resource attached; there is no retry, rerunning the tool is the recovery
// strategy.
func (c *Client) Download(ctx context.Context, url, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		c.logger.InfoContext(ctx, "file already present, skipping download",
			slog.String("path", dest))
		return nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return apperrors.NewDownloadError("download cancelled", err).WithContext("url", url)
	}

	c.logger.InfoContext(ctx, "downloading file",
		slog.String("name", filepath.Base(dest)),
		slog.String("source", c.projectURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return apperrors.NewDownloadError("failed to build request", err).WithContext("url", url)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewDownloadError(
			fmt.Sprintf("failed to download %s", filepath.Base(dest)), err,
		).WithContext("url", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperrors.NewDownloadError(
			fmt.Sprintf("failed to download %s: remote returned status %d", filepath.Base(dest), resp.StatusCode), nil,
		).WithContext("url", url).WithContext("status", resp.StatusCode)
	}

	if err := writeFile(dest, resp.Body); err != nil {
		return apperrors.NewStorageError(
			fmt.Sprintf("failed to save %s", filepath.Base(dest)), err,
		).WithContext("path", dest)
	}

	c.logger.InfoContext(ctx, "download complete", slog.String("path", dest))
	return nil
}

// FetchDocs downloads the supplemental documentation files into dir.
func (c *Client) FetchDocs(ctx context.Context, dir string) error {
	for _, doc := range SupplementalDocs {
		if err := c.Download(ctx, doc.URL, filepath.Join(dir, doc.Name)); err != nil {
			return err
		}
	}
	return nil
}

// writeFile streams body into a file at path, creating parent directories.
func writeFile(path string, body io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if _, err := io.Copy(file, body); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}
	return file.Close()
}
