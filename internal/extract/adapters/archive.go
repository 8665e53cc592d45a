package adapters

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
)

// ArchiveAdapter reads the tweets.js file of an X data export
// ("window.YTD.tweets.part0 = [...]") and plain JSON arrays of posts
type ArchiveAdapter struct{}

// archiveEntry covers both export layouts: {"tweet": {...}} and flat objects
type archiveEntry struct {
	Tweet    *archiveTweet `json:"tweet"`
	FullText string        `json:"full_text"`
	Text     string        `json:"text"`
}

type archiveTweet struct {
	FullText string `json:"full_text"`
	Text     string `json:"text"`
}

// NewArchiveAdapter creates a new archive adapter
func NewArchiveAdapter() *ArchiveAdapter {
	return &ArchiveAdapter{}
}

// Name returns the adapter name
func (a *ArchiveAdapter) Name() string {
	return "archive"
}

// CanHandle accepts .js and .json files and data starting with an export
// assignment or a JSON array
func (a *ArchiveAdapter) CanHandle(path string, contentType string, data []byte) bool {
	if hasExt(path, ".js", ".json") {
		return true
	}
	trimmed := bytes.TrimSpace(data)
	return bytes.HasPrefix(trimmed, []byte("window.YTD.")) || bytes.HasPrefix(trimmed, []byte("[{"))
}

// ExtractPosts decodes the export array. Strings in the array are posts
// themselves.
func (a *ArchiveAdapter) ExtractPosts(data []byte) ([]string, error) {
	start := bytes.IndexByte(data, '[')
	if start < 0 {
		return nil, fmt.Errorf("archive: no JSON array found")
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data[start:], &raw); err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}

	posts := make([]string, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			posts = append(posts, s)
			continue
		}

		var entry archiveEntry
		if err := json.Unmarshal(item, &entry); err != nil {
			return nil, fmt.Errorf("archive: %w", err)
		}
		if text := entry.text(); text != "" {
			posts = append(posts, text)
		}
	}
	return posts, nil
}

// text returns the entry text with HTML entities (&amp; &lt;) decoded
func (e archiveEntry) text() string {
	switch {
	case e.Tweet != nil && e.Tweet.FullText != "":
		return html.UnescapeString(e.Tweet.FullText)
	case e.Tweet != nil && e.Tweet.Text != "":
		return html.UnescapeString(e.Tweet.Text)
	case e.FullText != "":
		return html.UnescapeString(e.FullText)
	default:
		return html.UnescapeString(e.Text)
	}
}
