package resume

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"gopkg.in/yaml.v3"
)

// Contact holds the candidate's reachable details for letters and reports.
type Contact struct {
	Email string `json:"email" yaml:"email"`
	Phone string `json:"phone" yaml:"phone"`
}

type Experience struct {
	Title       string `json:"title" yaml:"title"`
	Company     string `json:"company" yaml:"company"`
	Description string `json:"description" yaml:"description"`
	Years       string `json:"years" yaml:"years"`
	Period      string `json:"period" yaml:"period"`
}

type Education struct {
	Degree     string `json:"degree" yaml:"degree"`
	University string `json:"university" yaml:"university"`
}

// Profile is the candidate's resume. Structured fields are populated from
// JSON/YAML profiles; RawText carries the flat text of PDF and plain-text
// resumes.
type Profile struct {
	Name       string       `json:"name" yaml:"name"`
	Contact    Contact      `json:"contact" yaml:"contact"`
	Summary    string       `json:"summary" yaml:"summary"`
	Skills     []string     `json:"skills" yaml:"skills"`
	Tools      []string     `json:"tools" yaml:"tools"`
	Experience []Experience `json:"experience" yaml:"experience"`
	Education  []Education  `json:"education" yaml:"education"`

	RawText string `json:"-" yaml:"-"`
}

// Load reads a resume profile, dispatching on the file extension: .json and
// .yaml/.yml decode the structured profile, .pdf is converted to plain text,
// anything else is read verbatim.
func Load(path string) (*Profile, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return loadStructured(path, json.Unmarshal)
	case ".yaml", ".yml":
		return loadStructured(path, yaml.Unmarshal)
	case ".pdf":
		return loadPDF(path)
	default:
		return loadPlain(path)
	}
}

func loadStructured(path string, unmarshal func([]byte, any) error) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read resume: %w", err)
	}

	var profile Profile
	if err := unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("parse resume %s: %w", path, err)
	}

	return &profile, nil
}

func loadPDF(path string) (*Profile, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open resume pdf: %w", err)
	}
	defer file.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("extract resume pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(content); err != nil {
		return nil, fmt.Errorf("read resume pdf text: %w", err)
	}

	return &Profile{RawText: strings.TrimSpace(buf.String())}, nil
}

func loadPlain(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read resume: %w", err)
	}

	return &Profile{RawText: strings.TrimSpace(string(data))}, nil
}

// Text flattens the profile into the single block fed to the model.
func (p *Profile) Text() string {
	if p.RawText != "" {
		return p.RawText
	}

	var sections []string

	if p.Summary != "" {
		sections = append(sections, "Summary: "+p.Summary)
	}
	if len(p.Skills) > 0 {
		sections = append(sections, "Skills: "+strings.Join(p.Skills, ", "))
	}
	if len(p.Tools) > 0 {
		sections = append(sections, "Tools: "+strings.Join(p.Tools, ", "))
	}

	var expLines []string
	for _, exp := range p.Experience {
		years := exp.Years
		if years == "" {
			years = exp.Period
		}
		expLines = append(expLines, fmt.Sprintf("%s at %s (%s): %s", exp.Title, exp.Company, years, exp.Description))
	}
	if len(expLines) > 0 {
		sections = append(sections, "Experience: "+strings.Join(expLines, " | "))
	}

	var eduLines []string
	for _, edu := range p.Education {
		eduLines = append(eduLines, fmt.Sprintf("%s - %s", edu.Degree, edu.University))
	}
	if len(eduLines) > 0 {
		sections = append(sections, "Education: "+strings.Join(eduLines, " | "))
	}

	return strings.TrimSpace(strings.Join(sections, "\n"))
}

// CoreSkills returns the skill list used for requirement analysis and letter
// constraints, falling back to tools for profiles that list none.
func (p *Profile) CoreSkills() []string {
	if len(p.Skills) > 0 {
		return p.Skills
	}
	return p.Tools
}
