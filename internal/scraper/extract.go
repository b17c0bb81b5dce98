package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxDescriptionRunes = 5000

	// Minimum joined length for a tier to be considered a real description.
	primaryMinLength   = 200
	secondaryMinLength = 100
	genericMinLength   = 200
	genericGoodLength  = 400
)

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	requirementRe = regexp.MustCompile(`(?i)\brequirements?\b`)
)

// primarySelectors target the structured requirement lists some boards render.
var primarySelectors = []string{
	".userDesignedContent.company-description li",
	".userDesignedContent .company-description li",
}

// secondarySelectors are known description containers scanned for a
// "Requirements" heading.
var secondarySelectors = []string{
	".jobs-description__content.jobs-description-content",
	".jobs-description__content--condensed",
}

// genericSelectors are the broad last-tier content candidates.
var genericSelectors = []string{
	"[class*='description']",
	"[class*='Description']",
	"article",
	"main",
	"section",
}

// extract pulls the description text and any individually extracted
// requirement items out of rendered HTML. Tiers are tried in order of
// specificity; the first tier producing enough text wins.
func extract(html string) (*Description, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	// Tier 1: structured requirement lists.
	for _, selector := range primarySelectors {
		items := listItems(doc.Find(selector))
		if joined := strings.Join(items, " | "); len(joined) > primaryMinLength {
			return &Description{Text: truncate(joined), Requirements: items}, nil
		}
	}

	// Tier 2: description containers with a Requirements heading.
	description := ""
	for _, selector := range secondarySelectors {
		container := doc.Find(selector).First()
		if container.Length() == 0 {
			continue
		}

		items := requirementsAfterHeading(container)
		if joined := cleanText(strings.Join(items, " | ")); len(joined) > secondaryMinLength {
			return &Description{Text: truncate(joined), Requirements: items}, nil
		}

		if text := cleanText(container.Text()); len(text) > len(description) {
			description = text
		}
	}

	// Tier 3: broad generic content selectors, keeping the longest text.
	if len(description) < genericMinLength {
		for _, selector := range genericSelectors {
			var parts []string
			doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
				if text := strings.TrimSpace(s.Text()); text != "" {
					parts = append(parts, text)
				}
			})
			if text := cleanText(strings.Join(parts, " ")); len(text) > len(description) {
				description = text
			}
			if len(description) > genericGoodLength {
				break
			}
		}
	}

	// Tier 4: whole page body.
	if len(description) < genericMinLength {
		if text := cleanText(doc.Find("body").Text()); len(text) > len(description) {
			description = text
		}
	}

	return &Description{Text: truncate(description)}, nil
}

// requirementsAfterHeading scans the container's headings for a requirements
// label and harvests the list that follows it.
func requirementsAfterHeading(container *goquery.Selection) []string {
	var items []string
	container.Find("h1,h2,h3,h4,h5,h6,p,strong,b").Each(func(_ int, heading *goquery.Selection) {
		if !requirementRe.MatchString(heading.Text()) {
			return
		}

		list := heading.NextAllFiltered("ul").First()
		if list.Length() == 0 {
			list = heading.Parent().NextAllFiltered("ul").First()
		}

		items = append(items, listItems(list.Find("li"))...)
	})
	return items
}

func listItems(sel *goquery.Selection) []string {
	var items []string
	sel.Each(func(_ int, li *goquery.Selection) {
		if text := cleanText(li.Text()); text != "" {
			items = append(items, text)
		}
	})
	return items
}

func cleanText(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxDescriptionRunes {
		return s
	}
	return string(runes[:maxDescriptionRunes])
}
