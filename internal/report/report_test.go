package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tzemach-hadar/ai-job-hunter/internal/feed"
	"github.com/tzemach-hadar/ai-job-hunter/internal/matcher"
)

func sampleEvaluations() *matcher.Evaluations {
	distance := 12.5
	return &matcher.Evaluations{Items: []*matcher.Evaluation{
		{
			Posting:         feed.Posting{Title: "Go Developer", Company: "Acme", City: "Haifa", URL: "https://jobs.example/1"},
			Score:           88,
			Rationale:       "Strong overlap",
			Description:     "go job description",
			DistanceKm:      &distance,
			CoverLetterPath: "cover_letters/Go_Developer_Acme.txt",
		},
		{
			Posting:     feed.Posting{Title: "Junior QA", Company: "Beta", URL: "https://jobs.example/2"},
			Score:       40,
			Rationale:   "Different field",
			Description: "qa job description",
		},
	}}
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matched_jobs.json")

	require.NoError(t, WriteJSON(path, sampleEvaluations()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entries []map[string]any
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 2)

	require.Equal(t, "Go Developer", entries[0]["title"])
	require.Equal(t, "Acme", entries[0]["company"])
	require.Equal(t, 88.0, entries[0]["score"])
	require.Equal(t, 12.5, entries[0]["distance_km"])
	require.Equal(t, "cover_letters/Go_Developer_Acme.txt", entries[0]["cover_letter_path"])

	_, hasDistance := entries[1]["distance_km"]
	require.False(t, hasDistance)
}

func TestWriteJSONTruncatesDescription(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matched_jobs.json")

	evals := &matcher.Evaluations{Items: []*matcher.Evaluation{
		{
			Posting:     feed.Posting{Title: "Long", URL: "https://jobs.example/1"},
			Score:       50,
			Description: strings.Repeat("x", 2000),
		},
	}}

	require.NoError(t, WriteJSON(path, evals))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entries []struct {
		Description string `json:"description"`
	}
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries[0].Description, 1003)
	require.True(t, strings.HasSuffix(entries[0].Description, "..."))
}

func TestWriteHTML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "job_matches.html")

	evals := sampleEvaluations()
	evals.Items[0].CoverLetterPath = filepath.Join(dir, "cover_letters", "letter.txt")

	require.NoError(t, WriteHTML(path, evals, 75))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(data)

	require.Contains(t, html, "Go Developer")
	require.Contains(t, html, "Junior QA")

	// Only the posting above the threshold is highlighted.
	require.Equal(t, 1, strings.Count(html, `class="highlight"`))

	// Letter links are relative to the dashboard location.
	require.Contains(t, html, `href="cover_letters/letter.txt"`)

	// Sorted by score: the match appears before the low scorer.
	require.Less(t, strings.Index(html, "Go Developer"), strings.Index(html, "Junior QA"))
}

func TestWriteHTMLEscapesContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job_matches.html")

	evals := &matcher.Evaluations{Items: []*matcher.Evaluation{
		{
			Posting:   feed.Posting{Title: "<script>alert(1)</script>", URL: "https://jobs.example/1"},
			Score:     80,
			Rationale: "ok",
		},
	}}

	require.NoError(t, WriteHTML(path, evals, 75))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "<script>alert(1)</script>")
}
