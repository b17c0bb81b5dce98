package letter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tzemach-hadar/ai-job-hunter/internal/feed"
	"github.com/tzemach-hadar/ai-job-hunter/internal/resume"
)

func fixedWriter(t *testing.T) (*Writer, string) {
	t.Helper()
	dir := t.TempDir()

	w := NewWriter(dir, "Dana Levi", resume.Contact{Email: "dana@example.com", Phone: "555-0100"})
	w.now = func() time.Time {
		return time.Date(2026, time.August, 31, 14, 30, 5, 0, time.UTC)
	}
	return w, dir
}

func TestWriteFilename(t *testing.T) {
	w, dir := fixedWriter(t)

	path, err := w.Write(feed.Posting{Title: "Senior Go Developer", Company: "Acme Corp."}, "body")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "Senior_Go_Developer_Acme_Corp_20260831_143005.txt"), path)
}

func TestWriteFilenameFallbacks(t *testing.T) {
	w, dir := fixedWriter(t)

	path, err := w.Write(feed.Posting{Title: "***", Company: ""}, "body")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "job_company_20260831_143005.txt"), path)
}

func TestWriteContent(t *testing.T) {
	w, _ := fixedWriter(t)

	path, err := w.Write(feed.Posting{Title: "Go Developer", Company: "Acme"}, "  Dear team,\n\nI am a great fit.  ")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	require.Equal(t, "August 31, 2026\n"+
		"Acme\n"+
		"Dana Levi\n"+
		"\n"+
		"Dear team,\n"+
		"\n"+
		"I am a great fit.\n"+
		"\n"+
		"Email: dana@example.com\n"+
		"Phone: 555-0100\n", content)
}

func TestWriteSkipsEmptyContactLines(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "Dana Levi", resume.Contact{})

	path, err := w.Write(feed.Posting{Title: "Go Developer", Company: "Acme"}, "body")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "Email:")
	require.NotContains(t, string(data), "Phone:")
}

func TestWriteCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "letters", "nested")
	w := NewWriter(dir, "Dana Levi", resume.Contact{})

	_, err := w.Write(feed.Posting{Title: "Go Developer", Company: "Acme"}, "body")
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
