// Package letter renders generated cover letters to disk as plain-text
// artifacts, one file per matched posting.
package letter

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tzemach-hadar/ai-job-hunter/internal/feed"
	"github.com/tzemach-hadar/ai-job-hunter/internal/resume"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9]+`)

type Writer struct {
	dir     string
	name    string
	contact resume.Contact
	now     func() time.Time
}

func NewWriter(dir string, name string, contact resume.Contact) *Writer {
	return &Writer{dir: dir, name: name, contact: contact, now: time.Now}
}

// Write stores the letter body wrapped with a dated header and a contact
// footer, and returns the path of the created file.
func (w *Writer) Write(posting feed.Posting, body string) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create cover letter dir: %w", err)
	}

	now := w.now()
	filename := fmt.Sprintf("%s_%s_%s.txt",
		sanitize(posting.Title, "job"),
		sanitize(posting.Company, "company"),
		now.Format("20060102_150405"))
	path := filepath.Join(w.dir, filename)

	var sb strings.Builder
	sb.WriteString(now.Format("January 2, 2006") + "\n")
	if posting.Company != "" {
		sb.WriteString(posting.Company + "\n")
	}
	sb.WriteString(w.name + "\n\n")
	sb.WriteString(strings.TrimSpace(body))
	sb.WriteString("\n\n")
	if w.contact.Email != "" {
		sb.WriteString("Email: " + w.contact.Email + "\n")
	}
	if w.contact.Phone != "" {
		sb.WriteString("Phone: " + w.contact.Phone + "\n")
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return "", fmt.Errorf("write cover letter: %w", err)
	}

	return path, nil
}

func sanitize(s, fallback string) string {
	cleaned := strings.Trim(unsafeChars.ReplaceAllString(s, "_"), "_")
	if cleaned == "" {
		return fallback
	}
	return cleaned
}
