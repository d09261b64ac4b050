// Package covers caches book cover images on local disk. Covers are fetched
// from their upstream source (Project Gutenberg for the built-in catalog) on
// first request and served from the cache afterwards.
package covers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Cache handles local caching of book cover images, keyed by catalog slug.
type Cache struct {
	cacheDir   string
	httpClient *http.Client
}

// NewCache creates a new cover cache at the specified directory.
func NewCache(cacheDir string) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	return &Cache{
		cacheDir: cacheDir,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Resolve returns the local path of a book's cover, fetching and caching it
// from remoteURL when not yet present. Returns an empty path when the book
// has no cover source.
func (c *Cache) Resolve(slug, remoteURL string) (string, error) {
	cachePath := filepath.Join(c.cacheDir, slug+".jpg")

	if _, err := os.Stat(cachePath); err == nil {
		return cachePath, nil
	}

	if remoteURL == "" {
		return "", nil
	}

	if err := c.fetchAndCache(remoteURL, cachePath); err != nil {
		return "", err
	}

	return cachePath, nil
}

// Invalidate removes the cached cover for a slug.
func (c *Cache) Invalidate(slug string) error {
	err := os.Remove(filepath.Join(c.cacheDir, slug+".jpg"))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// CacheDir returns the cache directory path.
func (c *Cache) CacheDir() string {
	return c.cacheDir
}

// fetchAndCache downloads a cover image and saves it to the cache.
func (c *Cache) fetchAndCache(url, cachePath string) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "OpenShelf/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch cover: status %d", resp.StatusCode)
	}

	// Temp file in the same directory so the rename below is atomic
	tmpFile, err := os.CreateTemp(c.cacheDir, "cover_tmp_")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath)
	}()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		return err
	}
	tmpFile.Close()

	return os.Rename(tmpPath, cachePath)
}
