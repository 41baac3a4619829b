package ingest

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var tagPattern = regexp.MustCompile(`</?[a-zA-Z][^<>]*>`)

// Cleaner normalizes raw cell text
type Cleaner struct {
	stripHTML bool
}

// NewCleaner creates a cleaner. With stripHTML set, cells that carry
// markup (rich text pasted into the sheet) are reduced to their text.
func NewCleaner(stripHTML bool) *Cleaner {
	return &Cleaner{stripHTML: stripHTML}
}

// Clean trims surrounding whitespace; blank cells become "".
func (c *Cleaner) Clean(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if c != nil && c.stripHTML && tagPattern.MatchString(s) {
		s = stripHTML(s)
	}
	return s
}

func stripHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			buf.WriteString(n.Data)
		case n.Type == html.ElementNode && n.Data == "br":
			buf.WriteString("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
		if n.Type == html.ElementNode && (n.Data == "p" || n.Data == "div" || n.Data == "li") {
			buf.WriteString("\n")
		}
	}
	extractText(doc)

	return strings.TrimSpace(buf.String())
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
