// Package graph builds the library relationship graph: a typed node/link
// structure connecting books to the attribute values they share, plus
// AI-inferred book-to-book connections and a suggestion overlay. Everything
// in this package is pure computation over caller-supplied records.
package graph

import (
	"strings"

	"github.com/shelfgraph/shelfgraph/store"
)

// Node kind constants.
const (
	NodeKindBook       = "book"
	NodeKindAuthor     = "author"
	NodeKindTopic      = "topic"
	NodeKindTheme      = "theme"
	NodeKindTag        = "tag"
	NodeKindSuggestion = "suggestion"
)

// Link kind constants.
const (
	LinkKindAuthor       = "author"
	LinkKindTopic        = "topic"
	LinkKindTheme        = "theme"
	LinkKindTag          = "tag"
	LinkKindAIConnection = "ai_connection"
)

// Provenance constants for attribute nodes.
const (
	ProvenanceUser = "user"
	ProvenanceAI   = "ai"
)

// attributeKinds is the fixed emission order for attribute edges.
var attributeKinds = []string{NodeKindAuthor, NodeKindTopic, NodeKindTheme, NodeKindTag}

var nodeColors = map[string]string{
	NodeKindBook:       "#6366f1",
	NodeKindAuthor:     "#f59e0b",
	NodeKindTopic:      "#10b981",
	NodeKindTheme:      "#ec4899",
	NodeKindTag:        "#8b5cf6",
	NodeKindSuggestion: "#6366f1",
}

const (
	bookNodeWeight       = 3
	suggestionNodeWeight = 2
	suggestionOpacity    = 0.5
)

// Node is a graph vertex. Its identity is derived from (kind, value), never
// assigned, so the same attribute value maps to the same node across builds.
type Node struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Kind          string  `json:"kind"`
	Source        string  `json:"source,omitempty"` // user or ai, attribute nodes only
	BookUID       string  `json:"book_uid,omitempty"`
	SuggestionUID string  `json:"suggestion_uid,omitempty"`
	Weight        int     `json:"weight"`
	Color         string  `json:"color"`
	Opacity       float64 `json:"opacity,omitempty"`
}

// Link is a graph edge between two node identities.
type Link struct {
	Source      string   `json:"source"`
	Target      string   `json:"target"`
	Kind        string   `json:"kind"`
	Strength    *float64 `json:"strength,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
}

// GraphData is the snapshot produced by BuildGraph. It is created fresh on
// every build and never mutated afterwards.
type GraphData struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// EdgeToggles enables or disables each edge source independently.
type EdgeToggles struct {
	Author       bool `json:"author"`
	Topic        bool `json:"topic"`
	Theme        bool `json:"theme"`
	Tag          bool `json:"tag"`
	AIConnection bool `json:"ai_connection"`
}

func (t EdgeToggles) enabled(kind string) bool {
	switch kind {
	case NodeKindAuthor:
		return t.Author
	case NodeKindTopic:
		return t.Topic
	case NodeKindTheme:
		return t.Theme
	case NodeKindTag:
		return t.Tag
	}
	return false
}

// NodeID derives the stable identity for a (kind, value) pair.
func NodeID(kind, value string) string {
	return kind + ":" + value
}

// ParseNodeID splits a node identity on the first colon. The value segment
// may itself contain colons and is returned verbatim.
func ParseNodeID(id string) (kind, value string, ok bool) {
	idx := strings.Index(id, ":")
	if idx < 0 {
		return "", "", false
	}
	return id[:idx], id[idx+1:], true
}

// userValues returns the book's own values for an attribute kind.
func userValues(book *store.Book, kind string) []string {
	switch kind {
	case NodeKindAuthor:
		return book.Authors
	case NodeKindTopic:
		return book.Topics
	case NodeKindTheme:
		return book.Themes
	case NodeKindTag:
		return book.Tags
	}
	return nil
}

// aiValues returns the AI-inferred values for an attribute kind. Authors
// have no AI-inferred form.
func aiValues(book *store.Book, kind string) []string {
	if book.Analysis == nil {
		return nil
	}
	switch kind {
	case NodeKindTopic:
		return book.Analysis.Topics
	case NodeKindTheme:
		return book.Analysis.Themes
	case NodeKindTag:
		return book.Analysis.Tags
	}
	return nil
}

// mergedValues returns the union of user-supplied and AI-inferred values for
// a kind, deduplicated, first occurrence winning the position.
func mergedValues(book *store.Book, kind string) []string {
	user := userValues(book, kind)
	ai := aiValues(book, kind)
	if len(ai) == 0 && !hasDuplicates(user) {
		return user
	}

	merged := make([]string, 0, len(user)+len(ai))
	seen := make(map[string]bool, len(user)+len(ai))
	for _, value := range user {
		if !seen[value] {
			seen[value] = true
			merged = append(merged, value)
		}
	}
	for _, value := range ai {
		if !seen[value] {
			seen[value] = true
			merged = append(merged, value)
		}
	}
	return merged
}

func hasDuplicates(values []string) bool {
	if len(values) < 2 {
		return false
	}
	seen := make(map[string]bool, len(values))
	for _, value := range values {
		if seen[value] {
			return true
		}
		seen[value] = true
	}
	return false
}

func containsValue(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
