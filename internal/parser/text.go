package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	innerWhitespace = regexp.MustCompile(`\s+`)
	leadingInt      = regexp.MustCompile(`-?\d+`)
)

// cellText decodes HTML entities and strips markup from a table cell.
func cellText(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.TrimSpace(innerWhitespace.ReplaceAllString(doc.Text(), " "))
}

// firstInt returns the first integer in s, e.g. 180 for "180 cm".
func firstInt(s string) (int, bool) {
	m := leadingInt.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}
