// Package title extracts the display name of a target page from the HTML
// body captured during the liveness probe.
package title

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Extract returns the text of the first <title> element in the document.
// Missing titles and parse failures yield an empty string; enrichment must
// never fail mapping creation.
func Extract(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	return strings.TrimSpace(doc.Find("title").First().Text())
}
