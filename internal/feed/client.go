package feed

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const fetchTimeout = 30 * time.Second

// Client retrieves the job listings feed over HTTP.
type Client struct {
	HTTPClient *http.Client
	feedURL    string
	logger     *zap.Logger
}

func NewClient(feedURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		HTTPClient: &http.Client{Timeout: fetchTimeout},
		feedURL:    feedURL,
		logger:     logger,
	}
}

// Fetch downloads and parses the CSV feed, returning at most max postings in
// feed order. Zero or negative max means no limit. A feed-level failure is
// fatal to the caller; malformed fields in a single row degrade to empty
// strings instead.
func (c *Client) Fetch(ctx context.Context, max int) ([]Posting, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch job listings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch job listings: unexpected status %s", resp.Status)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read feed header: %w", err)
	}

	columns := normalizeHeader(header)
	c.logger.Debug("feed columns", zap.Strings("columns", header))

	postings := make([]Posting, 0)
	for max <= 0 || len(postings) < max {
		record, err := reader.Read()
		if err != nil {
			break
		}

		posting := postingFromRecord(record, columns, header)
		if posting.Company == "" {
			c.logger.Warn("company name missing for feed row",
				zap.Int("row", len(postings)+1),
				zap.String("url", posting.URL),
			)
		}

		postings = append(postings, posting)
	}

	c.logger.Info("fetched job listings", zap.Int("count", len(postings)))
	return postings, nil
}

// normalizeHeader maps trimmed, lower-cased column names to their position.
// The first occurrence of a name wins.
func normalizeHeader(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, ok := columns[key]; !ok {
			columns[key] = i
		}
	}
	return columns
}

func postingFromRecord(record []string, columns map[string]int, header []string) Posting {
	field := func(names ...string) string {
		for _, name := range names {
			if idx, ok := columns[name]; ok && idx < len(record) {
				if v := strings.TrimSpace(record[idx]); v != "" {
					return v
				}
			}
		}
		return ""
	}

	company := field("company", "company_name", "employer")
	if company == "" && len(header) > 0 && len(record) > 0 {
		// Feeds that rename the company column still put it first.
		company = strings.TrimSpace(record[0])
	}

	return Posting{
		Title:    field("title"),
		Company:  company,
		Category: field("category"),
		Size:     field("size"),
		Level:    field("level"),
		City:     field("city"),
		URL:      field("url"),
		Updated:  field("updated"),
	}
}
