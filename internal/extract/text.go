package extract

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// NormalizeText applies NFKC so full-width digits, hyphens and latin letters
// common in Japanese posts become their ASCII forms
func NormalizeText(text string) string {
	return norm.NFKC.String(text)
}

// VisibleText reduces an HTML fragment (e.g. an embedded post) to its visible
// text, skipping scripts and styles. Line breaks become newlines.
func VisibleText(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(extractVisibleText(doc)), nil
}

// extractVisibleText extracts text nodes from HTML, skipping scripts/styles
func extractVisibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "template":
				return
			case "br", "p", "div", "li":
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return collapseBlankLines(buf.String())
}

// collapseBlankLines drops empty lines left behind by nested block elements
func collapseBlankLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
