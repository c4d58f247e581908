// Package docs embeds the reference pages behind `nodeboard docs`.
package docs

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed content/*.md
var pages embed.FS

// Topic is one embedded reference page.
type Topic struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// List returns every embedded topic sorted by name. Titles come from the
// first markdown heading of each page.
func List() []Topic {
	matches, err := fs.Glob(pages, "content/*.md")
	if err != nil {
		return nil
	}
	topics := make([]Topic, 0, len(matches))
	for _, p := range matches {
		name := strings.TrimSuffix(path.Base(p), ".md")
		if name == "" {
			continue
		}
		body, _ := pages.ReadFile(p)
		topics = append(topics, Topic{Name: name, Title: firstHeading(string(body))})
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].Name < topics[j].Name })
	return topics
}

// Get returns the markdown body for a topic name. Lookup is
// case-insensitive.
func Get(name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", false
	}
	b, err := pages.ReadFile(path.Join("content", name+".md"))
	if err != nil {
		return "", false
	}
	return string(b), true
}

func firstHeading(md string) string {
	for _, line := range strings.Split(md, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			return strings.TrimSpace(strings.TrimLeft(line, "#"))
		}
	}
	return ""
}
