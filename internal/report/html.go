package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"

	"github.com/tzemach-hadar/ai-job-hunter/internal/matcher"
)

const dashboardTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Job Matches</title>
<link rel="stylesheet" href="https://cdn.datatables.net/1.13.6/css/jquery.dataTables.min.css">
<script src="https://code.jquery.com/jquery-3.7.0.min.js"></script>
<script src="https://cdn.datatables.net/1.13.6/js/jquery.dataTables.min.js"></script>
<style>
body { font-family: sans-serif; margin: 2em; }
tr.highlight td { background-color: #d4edda; }
td.score { text-align: right; }
</style>
</head>
<body>
<h1>Job Matches</h1>
<p>{{len .Rows}} scored postings, threshold {{printf "%.0f" .Threshold}}.</p>
<table id="matches" class="display">
<thead>
<tr><th>Title</th><th>Company</th><th>City</th><th>Score</th><th>Distance (km)</th><th>Rationale</th><th>Cover Letter</th></tr>
</thead>
<tbody>
{{range .Rows}}<tr{{if .Matched}} class="highlight"{{end}}>
<td><a href="{{.URL}}">{{.Title}}</a></td>
<td>{{.Company}}</td>
<td>{{.City}}</td>
<td class="score">{{printf "%.1f" .Score}}</td>
<td>{{.Distance}}</td>
<td>{{.Rationale}}</td>
<td>{{if .LetterLink}}<a href="{{.LetterLink}}">letter</a>{{end}}</td>
</tr>
{{end}}</tbody>
</table>
<script>
$(document).ready(function () {
  $('#matches').DataTable({ order: [[3, 'desc']], pageLength: 50 });
});
</script>
</body>
</html>
`

type dashboardRow struct {
	Title      string
	Company    string
	City       string
	URL        string
	Score      float64
	Distance   string
	Rationale  string
	LetterLink string
	Matched    bool
}

type dashboardData struct {
	Threshold float64
	Rows      []dashboardRow
}

// WriteHTML renders the evaluations as a sortable dashboard. Rows are sorted
// by score, matches above the threshold are highlighted, and cover letter
// links are relative to the report location so the file can be moved around
// together with the letters directory.
func WriteHTML(path string, evals *matcher.Evaluations, threshold float64) error {
	reportDir := filepath.Dir(path)

	rows := make([]dashboardRow, 0, evals.Len())
	for _, item := range evals.Items {
		row := dashboardRow{
			Title:     item.Posting.Title,
			Company:   item.Posting.Company,
			City:      item.Posting.City,
			URL:       item.Posting.URL,
			Score:     item.Score,
			Rationale: item.Rationale,
			Matched:   item.Score >= threshold,
		}
		if item.DistanceKm != nil {
			row.Distance = fmt.Sprintf("%.1f", *item.DistanceKm)
		}
		if item.CoverLetterPath != "" {
			if rel, err := filepath.Rel(reportDir, item.CoverLetterPath); err == nil {
				row.LetterLink = filepath.ToSlash(rel)
			} else {
				row.LetterLink = item.CoverLetterPath
			}
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Score > rows[j].Score })

	tmpl, err := template.New("dashboard").Parse(dashboardTemplate)
	if err != nil {
		return fmt.Errorf("parse dashboard template: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dashboard file: %w", err)
	}
	defer file.Close()

	if err := tmpl.Execute(file, dashboardData{Threshold: threshold, Rows: rows}); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}

	return nil
}
