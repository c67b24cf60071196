// Package content normalizes article bodies before they are sent to the
// language model.
package content

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MaxPromptRunes caps how much article text is submitted per model request.
const MaxPromptRunes = 3000

// candidateFields is checked in order; the first present string value wins
// and the rest are ignored.
var candidateFields = []string{"content", "text", "body", "article", "description"}

// Resolve picks the article's content field. It returns the value, the field
// name it came from, and false when none of the recognized fields holds a
// string.
func Resolve(fields map[string]interface{}) (string, string, bool) {
	for _, name := range candidateFields {
		if v, ok := fields[name]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s, name, true
			}
		}
	}
	return "", "", false
}

// Flatten strips markup from stored article bodies. Some source scrapers
// persist raw HTML; the model gets cleaner input (and fewer wasted tokens)
// from plain text.
func Flatten(s string) string {
	if !strings.Contains(s, "<") {
		return collapseWhitespace(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return collapseWhitespace(s)
	}
	doc.Find("script, style").Remove()
	// Text() joins adjacent elements with nothing in between; give block
	// boundaries a space so words from neighboring paragraphs stay separate.
	doc.Find("p, div, li, h1, h2, h3, h4, h5, h6, br, tr").AfterHtml(" ")
	return collapseWhitespace(doc.Text())
}

// Truncate cuts s to at most limit runes.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
