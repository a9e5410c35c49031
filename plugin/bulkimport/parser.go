// Package bulkimport parses free-form text listings into catalog entries.
//
// Supported line formats:
//  1. "Title by Author" (one per line)
//  2. "Title - Author" (one per line)
//  3. "Title | Author | Topics | Themes | Tags" (pipe-separated)
//
// A line matching none of these becomes a title-only entry.
package bulkimport

import (
	"regexp"
	"strings"
)

// Entry is a parsed book listing. Fields not present in the input are
// empty slices, never nil.
type Entry struct {
	Title   string
	Authors []string
	Topics  []string
	Themes  []string
	Tags    []string
}

var byPattern = regexp.MustCompile(`(?i)^(.+?)\s+by\s+(.+)$`)

// Parse splits text into lines and parses each non-blank line into an
// entry. Lines are tried against the pipe format first (most specific),
// then "by", then dash.
func Parse(text string) []*Entry {
	entries := []*Entry{}
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		var entry *Entry
		switch {
		case strings.Contains(trimmed, "|"):
			entry = parsePipeSeparated(trimmed)
		case strings.Contains(strings.ToLower(trimmed), " by "):
			entry = parseByFormat(trimmed)
		case strings.Contains(trimmed, " - "):
			entry = parseDashFormat(trimmed)
		default:
			entry = newEntry(trimmed, nil)
		}
		entries = append(entries, entry)
	}
	return entries
}

func newEntry(title string, authors []string) *Entry {
	if authors == nil {
		authors = []string{}
	}
	return &Entry{
		Title:   title,
		Authors: authors,
		Topics:  []string{},
		Themes:  []string{},
		Tags:    []string{},
	}
}

func parseByFormat(line string) *Entry {
	match := byPattern.FindStringSubmatch(line)
	if match == nil {
		return newEntry(line, nil)
	}
	return newEntry(strings.TrimSpace(match[1]), parseCommaSeparated(match[2]))
}

func parseDashFormat(line string) *Entry {
	parts := strings.SplitN(line, " - ", 2)
	entry := newEntry(strings.TrimSpace(parts[0]), nil)
	if len(parts) > 1 {
		entry.Authors = parseCommaSeparated(parts[1])
	}
	return entry
}

func parsePipeSeparated(line string) *Entry {
	parts := strings.Split(line, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	get := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}

	title := get(0)
	if title == "" {
		title = "Untitled"
	}
	entry := newEntry(title, parseCommaSeparated(get(1)))
	entry.Topics = parseCommaSeparated(get(2))
	entry.Themes = parseCommaSeparated(get(3))
	entry.Tags = parseCommaSeparated(get(4))
	return entry
}

func parseCommaSeparated(raw string) []string {
	values := []string{}
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
