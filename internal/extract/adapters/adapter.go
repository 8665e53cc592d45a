package adapters

import (
	"net/http"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// Adapter turns one kind of post source into individual post texts
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// CanHandle checks if this adapter can read the given file
	CanHandle(path string, contentType string, data []byte) bool

	// ExtractPosts returns the posts in source order
	ExtractPosts(data []byte) ([]string, error)
}

// Registry manages source adapters
type Registry struct {
	adapters []Adapter
	generic  Adapter
}

// NewRegistry creates a new adapter registry
func NewRegistry() *Registry {
	registry := &Registry{
		adapters: make([]Adapter, 0),
	}

	// Register built-in adapters
	registry.Register(NewArchiveAdapter())
	registry.Register(NewEmbedAdapter())

	// Set generic adapter as fallback
	registry.generic = NewGenericAdapter()

	return registry
}

// Register registers a new adapter
func (r *Registry) Register(adapter Adapter) {
	r.adapters = append(r.adapters, adapter)
}

// FindAdapter finds the best adapter for the given file
func (r *Registry) FindAdapter(path string, data []byte) Adapter {
	contentType := http.DetectContentType(data)

	// Try specific adapters first
	for _, adapter := range r.adapters {
		if adapter.CanHandle(path, contentType, data) {
			return adapter
		}
	}

	// Fall back to generic adapter
	return r.generic
}

// Posts extracts deduplicated posts from data using the matching adapter
func (r *Registry) Posts(path string, data []byte) ([]string, error) {
	posts, err := r.FindAdapter(path, data).ExtractPosts(data)
	if err != nil {
		return nil, err
	}
	return dedupe(posts), nil
}

// BaseAdapter provides common functionality for adapters
type BaseAdapter struct{}

// ParseHTML parses HTML string into a node tree
func (b *BaseAdapter) ParseHTML(htmlContent string) (*html.Node, error) {
	return html.Parse(strings.NewReader(htmlContent))
}

// ExtractText extracts text content from a node. <br> becomes a newline.
func (b *BaseAdapter) ExtractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	if n.Type == html.ElementNode {
		switch n.Data {
		case "br":
			return "\n"
		case "script", "style":
			return ""
		}
	}

	var buf strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		buf.WriteString(b.ExtractText(c))
	}
	return buf.String()
}

// HasClass checks if a node has the specified CSS class
func (b *BaseAdapter) HasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key == "class" {
			for _, c := range strings.Fields(attr.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

func hasExt(path string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// dedupe drops blank and repeated posts, keeping first occurrences
func dedupe(posts []string) []string {
	seen := make(map[string]bool, len(posts))
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
