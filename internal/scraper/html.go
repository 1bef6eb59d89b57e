package scraper

import (
	"github.com/PuerkitoBio/goquery"

	"showscrape/internal/normalize"
)

// firstText returns the cleaned text of the first node matching selector,
// or "" when the selector matches nothing useful.
func firstText(sel *goquery.Selection, selector string) string {
	node := sel.Find(selector).First()
	if node.Length() == 0 {
		return ""
	}
	return normalize.CleanText(node.Text())
}

// firstAttr returns the named attribute of the first node matching selector.
func firstAttr(sel *goquery.Selection, selector, attr string) string {
	value, _ := sel.Find(selector).First().Attr(attr)
	return value
}
