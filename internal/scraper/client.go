package scraper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Description is the scraped content of one posting page.
type Description struct {
	// Text is the extracted description, truncated to a fixed maximum.
	Text string
	// Requirements holds individually extracted requirement items when the
	// page structure exposed them. May be empty.
	Requirements []string
}

// FetchError marks a navigation or rendering failure for one posting page.
// The pipeline recovers from it by skipping the posting.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client fetches and extracts posting descriptions with a headless browser.
type Client struct {
	saveSnapshots bool
	snapshotDir   string
	logger        *zap.Logger

	// render is swapped out in tests.
	render func(ctx context.Context, url string) (string, error)
}

func NewClient(saveSnapshots bool, snapshotDir string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if snapshotDir == "" {
		snapshotDir = "debug_pages"
	}

	return &Client{
		saveSnapshots: saveSnapshots,
		snapshotDir:   snapshotDir,
		logger:        logger,
		render:        renderPage,
	}
}

// Fetch renders the posting page and extracts its description and requirement
// items. Navigation and timeout failures come back as a *FetchError.
func (c *Client) Fetch(ctx context.Context, url string) (*Description, error) {
	c.logger.Debug("navigating to posting page", zap.String("url", url))

	html, err := c.render(ctx, url)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	if c.saveSnapshots {
		c.saveSnapshot(html)
	}

	desc, err := extract(html)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	c.logger.Debug("extracted posting description",
		zap.String("url", url),
		zap.Int("description_length", len(desc.Text)),
		zap.Int("requirement_items", len(desc.Requirements)),
	)

	return desc, nil
}

func (c *Client) saveSnapshot(html string) {
	if err := os.MkdirAll(c.snapshotDir, 0o755); err != nil {
		c.logger.Debug("creating snapshot dir failed", zap.Error(err))
		return
	}

	path := filepath.Join(c.snapshotDir, fmt.Sprintf("%d.html", time.Now().Unix()))
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		c.logger.Debug("saving html snapshot failed", zap.Error(err))
		return
	}

	c.logger.Debug("saved html snapshot", zap.String("path", path))
}
