package feed

// Posting is one job listing parsed from the CSV feed. The URL doubles as the
// posting identifier and is unique within a feed. Postings are immutable once
// fetched.
type Posting struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Category string `json:"category"`
	Size     string `json:"size"`
	Level    string `json:"level"`
	City     string `json:"city"`
	URL      string `json:"url"`
	Updated  string `json:"updated"`
}
