package graph

import (
	"github.com/shelfgraph/shelfgraph/store"
)

// FindRelatedBooks returns every other book sharing at least one merged
// attribute value with book. Authors are compared on the raw fields (they
// have no AI-inferred form); topics, themes and tags compare the merged
// user+AI sets on both sides. A pair is checked in order author, topic,
// theme, tag and matching stops at the first qualifying category. Results
// keep the relative order of allBooks and never include the queried book.
func FindRelatedBooks(book *store.Book, allBooks []*store.Book) []*store.Book {
	if book == nil {
		return []*store.Book{}
	}

	related := make(map[string]bool)
	for _, other := range allBooks {
		if other.UID == book.UID {
			continue
		}
		if sharesAny(book.Authors, other.Authors) {
			related[other.UID] = true
			continue
		}
		if sharesAny(mergedValues(book, NodeKindTopic), mergedValues(other, NodeKindTopic)) {
			related[other.UID] = true
			continue
		}
		if sharesAny(mergedValues(book, NodeKindTheme), mergedValues(other, NodeKindTheme)) {
			related[other.UID] = true
			continue
		}
		if sharesAny(mergedValues(book, NodeKindTag), mergedValues(other, NodeKindTag)) {
			related[other.UID] = true
		}
	}

	result := make([]*store.Book, 0, len(related))
	for _, other := range allBooks {
		if related[other.UID] {
			result = append(result, other)
		}
	}
	return result
}

// GetConnectedBooks returns the books whose merged attribute set for the
// kind encoded in nodeID contains the identity's value. The value segment
// may legally contain colons, so the identity is split on the first colon
// only. Unknown kinds and empty values yield an empty result, not an error.
// Membership uses the same merged-set rules as BuildGraph, so selecting a
// rendered attribute node returns exactly the books that produced an edge
// to it.
func GetConnectedBooks(nodeID string, books []*store.Book) []*store.Book {
	kind, value, ok := ParseNodeID(nodeID)
	result := []*store.Book{}
	if !ok || value == "" {
		return result
	}

	switch kind {
	case NodeKindAuthor:
		for _, book := range books {
			if containsValue(book.Authors, value) {
				result = append(result, book)
			}
		}
	case NodeKindTopic, NodeKindTheme, NodeKindTag:
		for _, book := range books {
			if containsValue(mergedValues(book, kind), value) {
				result = append(result, book)
			}
		}
	}
	return result
}

// sharesAny reports whether any value appears in both sets.
func sharesAny(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]bool, len(b))
	for _, value := range b {
		set[value] = true
	}
	for _, value := range a {
		if set[value] {
			return true
		}
	}
	return false
}
