package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StripMarkup reduces a content blurb that may contain HTML fragments to
// plain text for display. Upstream description fields mix raw text, <p>/<br>
// soup and entity escapes; goquery's lenient HTML parsing handles all of them.
// Whitespace runs are collapsed to single spaces. On unparseable input the
// original string is returned unchanged.
func StripMarkup(content string) string {
	if !strings.ContainsAny(content, "<&") {
		return strings.TrimSpace(content)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return strings.TrimSpace(content)
	}

	return strings.Join(strings.Fields(doc.Text()), " ")
}
