// Package seenstore persists the set of posting URLs already evaluated, so
// repeated runs skip postings they have handled before.
package seenstore

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"
)

type fileFormat struct {
	URLs []string `json:"urls"`
}

type Store struct {
	path   string
	logger *zap.Logger
}

func New(path string, logger *zap.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Load reads the persisted set. A missing or unreadable file yields an empty
// set so a fresh or damaged state file never blocks a run.
func (s *Store) Load() map[string]struct{} {
	seen := make(map[string]struct{})

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("can't read seen urls file, starting empty",
				zap.String("path", s.path), zap.Error(err))
		}
		return seen
	}

	var stored fileFormat
	if err := json.Unmarshal(data, &stored); err != nil {
		s.logger.Warn("seen urls file is corrupt, starting empty",
			zap.String("path", s.path), zap.Error(err))
		return seen
	}

	for _, url := range stored.URLs {
		seen[url] = struct{}{}
	}

	return seen
}

// Save writes the set back, sorted for stable diffs.
func (s *Store) Save(seen map[string]struct{}) error {
	urls := make([]string, 0, len(seen))
	for url := range seen {
		urls = append(urls, url)
	}
	sort.Strings(urls)

	data, err := json.MarshalIndent(fileFormat{URLs: urls}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode seen urls: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write seen urls file: %w", err)
	}

	return nil
}
