package adapters

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
)

// GenericAdapter is the fallback adapter: one post per line, blank lines and
// # comments skipped
type GenericAdapter struct{}

// NewGenericAdapter creates a new generic adapter
func NewGenericAdapter() *GenericAdapter {
	return &GenericAdapter{}
}

// Name returns the adapter name
func (a *GenericAdapter) Name() string {
	return "lines"
}

// CanHandle always returns true (fallback adapter)
func (a *GenericAdapter) CanHandle(path string, contentType string, data []byte) bool {
	return true
}

// ExtractPosts splits data into lines
func (a *GenericAdapter) ExtractPosts(data []byte) ([]string, error) {
	var posts []string

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		posts = append(posts, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan posts: %w", err)
	}
	return posts, nil
}
