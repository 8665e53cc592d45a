package adapters

import (
	"strings"

	"golang.org/x/net/html"
)

// EmbedAdapter reads saved pages or embed snippets. Each
// <blockquote class="twitter-tweet"> is one post; its <p> elements hold the
// text, the trailing author and date link is skipped.
type EmbedAdapter struct {
	BaseAdapter
}

// NewEmbedAdapter creates a new embed adapter
func NewEmbedAdapter() *EmbedAdapter {
	return &EmbedAdapter{}
}

// Name returns the adapter name
func (a *EmbedAdapter) Name() string {
	return "embed"
}

// CanHandle accepts .html files and sniffed HTML content
func (a *EmbedAdapter) CanHandle(path string, contentType string, data []byte) bool {
	return hasExt(path, ".html", ".htm") || strings.HasPrefix(contentType, "text/html")
}

// ExtractPosts returns one post per embedded blockquote
func (a *EmbedAdapter) ExtractPosts(data []byte) ([]string, error) {
	doc, err := a.ParseHTML(string(data))
	if err != nil {
		return nil, err
	}

	var posts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "blockquote" && a.isPost(n) {
			if text := a.postText(n); text != "" {
				posts = append(posts, text)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return posts, nil
}

func (a *EmbedAdapter) isPost(n *html.Node) bool {
	return a.HasClass(n, "twitter-tweet") || a.HasClass(n, "twitter-post")
}

func (a *EmbedAdapter) postText(n *html.Node) string {
	var parts []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "p" {
			if text := strings.TrimSpace(a.ExtractText(c)); text != "" {
				parts = append(parts, text)
			}
		}
	}
	return strings.Join(parts, "\n")
}
