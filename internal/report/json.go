// Package report exports matching results as a JSON summary and a browsable
// HTML dashboard.
package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tzemach-hadar/ai-job-hunter/internal/matcher"
)

const maxSummaryDescriptionRunes = 1000

type summaryEntry struct {
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	City            string   `json:"city,omitempty"`
	URL             string   `json:"url"`
	Score           float64  `json:"score"`
	Rationale       string   `json:"rationale,omitempty"`
	Description     string   `json:"description,omitempty"`
	DistanceKm      *float64 `json:"distance_km,omitempty"`
	CoverLetterPath string   `json:"cover_letter_path,omitempty"`
}

// WriteJSON stores the evaluations as a summary file. Descriptions are
// truncated so the file stays reviewable by hand.
func WriteJSON(path string, evals *matcher.Evaluations) error {
	entries := make([]summaryEntry, 0, evals.Len())
	for _, item := range evals.Items {
		entries = append(entries, summaryEntry{
			Title:           item.Posting.Title,
			Company:         item.Posting.Company,
			City:            item.Posting.City,
			URL:             item.Posting.URL,
			Score:           item.Score,
			Rationale:       item.Rationale,
			Description:     truncate(item.Description, maxSummaryDescriptionRunes),
			DistanceKm:      item.DistanceKm,
			CoverLetterPath: item.CoverLetterPath,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write summary file: %w", err)
	}

	return nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
