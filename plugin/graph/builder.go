package graph

import (
	"github.com/shelfgraph/shelfgraph/store"
)

// BuildGraph converts a flat book collection (with AI analyses already
// attached by the caller) into a node/link graph for visualization.
//
// Two passes are required for the threshold rule: an attribute value is only
// rendered when its global book count reaches the threshold, and that count
// must be known before any attribute node is emitted. A single emit-as-you-go
// pass cannot decide inclusion correctly.
//
// Node and link order is deterministic: input book order, then attribute kind
// order {author, topic, theme, tag}, then merged value order per book. The
// ordering carries no meaning but keeps tests reproducible and the layout
// seeding stable across rebuilds.
func BuildGraph(
	books []*store.Book,
	toggles EdgeToggles,
	threshold int,
	connections []*store.BookConnection,
	suggestions []*store.BookSuggestion,
	showSuggestions bool,
) *GraphData {
	data := &GraphData{
		Nodes: []Node{},
		Links: []Link{},
	}

	// First pass: count how many books carry each attribute value. A book
	// contributing the same value from both its own field and its analysis
	// counts once (mergedValues deduplicates).
	counts := make(map[string]int)
	for _, book := range books {
		for _, kind := range attributeKinds {
			if !toggles.enabled(kind) {
				continue
			}
			for _, value := range mergedValues(book, kind) {
				counts[NodeID(kind, value)]++
			}
		}
	}

	valid := make(map[string]bool, len(counts))
	for id, count := range counts {
		if count >= threshold {
			valid[id] = true
		}
	}

	// Second pass: emit book nodes (never pruned), then attribute nodes and
	// edges for values that cleared the threshold. The first book observed
	// with a value fixes the attribute node's provenance.
	emitted := make(map[string]bool)
	bookUIDs := make(map[string]bool, len(books))
	for _, book := range books {
		bookUIDs[book.UID] = true
		data.Nodes = append(data.Nodes, Node{
			ID:      NodeID(NodeKindBook, book.UID),
			Name:    book.Title,
			Kind:    NodeKindBook,
			BookUID: book.UID,
			Weight:  bookNodeWeight,
			Color:   nodeColors[NodeKindBook],
		})

		for _, kind := range attributeKinds {
			if !toggles.enabled(kind) {
				continue
			}
			for _, value := range mergedValues(book, kind) {
				id := NodeID(kind, value)
				if !valid[id] {
					continue
				}
				if !emitted[id] {
					emitted[id] = true
					source := ProvenanceAI
					if containsValue(userValues(book, kind), value) {
						source = ProvenanceUser
					}
					data.Nodes = append(data.Nodes, Node{
						ID:     id,
						Name:   value,
						Kind:   kind,
						Source: source,
						Weight: counts[id],
						Color:  nodeColors[kind],
					})
				}
				data.Links = append(data.Links, Link{
					Source: NodeID(NodeKindBook, book.UID),
					Target: id,
					Kind:   kind,
				})
			}
		}
	}

	// AI connection edges are direct book-to-book links and are exempt from
	// the threshold rule. Connections referencing books outside the current
	// collection are skipped silently.
	if toggles.AIConnection {
		for _, conn := range connections {
			if !bookUIDs[conn.BookAUID] || !bookUIDs[conn.BookBUID] {
				continue
			}
			strength := conn.Strength
			data.Links = append(data.Links, Link{
				Source:      NodeID(NodeKindBook, conn.BookAUID),
				Target:      NodeID(NodeKindBook, conn.BookBUID),
				Kind:        LinkKindAIConnection,
				Strength:    &strength,
				Explanation: conn.Explanation,
			})
		}
	}

	// Suggestion overlay: one dimmed node per non-dismissed suggestion with
	// weak links into the library. A suggestion referencing an unknown book
	// loses that link only; the node itself is still emitted.
	if showSuggestions {
		for _, suggestion := range suggestions {
			if suggestion.Dismissed {
				continue
			}
			suggestionNodeID := NodeID(NodeKindSuggestion, suggestion.UID)
			data.Nodes = append(data.Nodes, Node{
				ID:            suggestionNodeID,
				Name:          suggestion.Title,
				Kind:          NodeKindSuggestion,
				SuggestionUID: suggestion.UID,
				Weight:        suggestionNodeWeight,
				Color:         nodeColors[NodeKindSuggestion],
				Opacity:       suggestionOpacity,
			})
			for _, relatedUID := range suggestion.RelatedBookUIDs {
				if !bookUIDs[relatedUID] {
					continue
				}
				data.Links = append(data.Links, Link{
					Source: suggestionNodeID,
					Target: NodeID(NodeKindBook, relatedUID),
					Kind:   LinkKindAIConnection,
				})
			}
		}
	}

	return data
}
