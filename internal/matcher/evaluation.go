package matcher

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tzemach-hadar/ai-job-hunter/internal/feed"
)

// Evaluation is a single scored posting. Postings skipped before scoring
// (already seen, too far away, fetch failed) never become evaluations.
type Evaluation struct {
	Posting         feed.Posting `json:"posting"`
	Score           float64      `json:"score"`
	Rationale       string       `json:"rationale,omitempty"`
	Description     string       `json:"description,omitempty"`
	DistanceKm      *float64     `json:"distance_km,omitempty"`
	CoverLetterPath string       `json:"cover_letter_path,omitempty"`
}

type Evaluations struct {
	Items []*Evaluation
}

func (e *Evaluations) Len() int {
	return len(e.Items)
}

func (e *Evaluations) Append(item *Evaluation) {
	e.Items = append(e.Items, item)
}

// AboveThreshold returns the evaluations that scored at or above the given
// threshold, preserving order.
func (e *Evaluations) AboveThreshold(threshold float64) *Evaluations {
	matched := &Evaluations{}
	for _, item := range e.Items {
		if item.Score >= threshold {
			matched.Items = append(matched.Items, item)
		}
	}
	return matched
}

// Report by company.
func (e *Evaluations) ReportByCompany() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, item := range e.Items {
		key := item.Posting.Company
		if key == "" {
			key = "(unknown company)"
		}
		report[key] = append(report[key], map[string]string{
			"title": item.Posting.Title,
			"url":   item.Posting.URL,
			"city":  item.Posting.City,
			"score": fmt.Sprintf("%.1f", item.Score),
		})
	}
	return report
}

func (e *Evaluations) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "evaluations_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e); err != nil {
		return "", err
	}
	return file.Name(), nil
}
