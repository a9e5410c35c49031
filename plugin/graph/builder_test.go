package graph

import (
	"reflect"
	"testing"

	"github.com/shelfgraph/shelfgraph/store"
)

func allToggles() EdgeToggles {
	return EdgeToggles{Author: true, Topic: true, Theme: true, Tag: true, AIConnection: true}
}

func book(uid, title string) *store.Book {
	return &store.Book{UID: uid, Title: title}
}

func nodeByID(data *GraphData, id string) *Node {
	for i := range data.Nodes {
		if data.Nodes[i].ID == id {
			return &data.Nodes[i]
		}
	}
	return nil
}

func linksTo(data *GraphData, target string) []Link {
	var links []Link
	for _, link := range data.Links {
		if link.Target == target {
			links = append(links, link)
		}
	}
	return links
}

func countNodesOfKind(data *GraphData, kind string) int {
	count := 0
	for _, node := range data.Nodes {
		if node.Kind == kind {
			count++
		}
	}
	return count
}

func TestBuildGraphSharedTopic(t *testing.T) {
	// Two books tagged with the same topic at threshold 2: one shared topic
	// node with an edge from each book.
	books := []*store.Book{
		{UID: "a", Title: "A", Topics: []string{"Space"}},
		{UID: "b", Title: "B", Topics: []string{"Space"}},
	}

	data := BuildGraph(books, allToggles(), 2, nil, nil, false)

	if got := countNodesOfKind(data, NodeKindTopic); got != 1 {
		t.Fatalf("topic node count = %d, want 1", got)
	}
	node := nodeByID(data, "topic:Space")
	if node == nil {
		t.Fatal("topic:Space node missing")
	}
	if node.Weight != 2 {
		t.Errorf("topic:Space weight = %d, want 2", node.Weight)
	}
	if got := len(linksTo(data, "topic:Space")); got != 2 {
		t.Errorf("edges into topic:Space = %d, want 2", got)
	}
}

func TestBuildGraphThresholdPrunes(t *testing.T) {
	books := []*store.Book{
		{UID: "a", Title: "A", Topics: []string{"Space"}},
		{UID: "b", Title: "B", Topics: []string{"Space"}},
	}

	data := BuildGraph(books, allToggles(), 3, nil, nil, false)

	if node := nodeByID(data, "topic:Space"); node != nil {
		t.Error("topic:Space node emitted below threshold")
	}
	if len(data.Links) != 0 {
		t.Errorf("links = %d, want 0", len(data.Links))
	}
	// Book nodes are never pruned.
	if got := countNodesOfKind(data, NodeKindBook); got != 2 {
		t.Errorf("book node count = %d, want 2", got)
	}
}

func TestBuildGraphMergedAIValues(t *testing.T) {
	// Book A carries the topic as user data, book B only through its AI
	// analysis. The merged count clears threshold 2 and the first-seen book
	// fixes provenance as user.
	books := []*store.Book{
		{UID: "a", Title: "A", Topics: []string{"AI"}},
		{UID: "b", Title: "B", Analysis: &store.BookAnalysis{BookUID: "b", Topics: []string{"AI"}}},
	}

	data := BuildGraph(books, allToggles(), 2, nil, nil, false)

	node := nodeByID(data, "topic:AI")
	if node == nil {
		t.Fatal("topic:AI node missing")
	}
	if node.Source != ProvenanceUser {
		t.Errorf("topic:AI source = %q, want %q", node.Source, ProvenanceUser)
	}
	if got := len(linksTo(data, "topic:AI")); got != 2 {
		t.Errorf("edges into topic:AI = %d, want 2", got)
	}
}

func TestBuildGraphAIOnlyProvenance(t *testing.T) {
	// A value seen first (and only) through analyses is tagged as AI-sourced,
	// and is still emitted once the global count clears the threshold.
	books := []*store.Book{
		{UID: "a", Title: "A", Analysis: &store.BookAnalysis{BookUID: "a", Themes: []string{"loss"}}},
		{UID: "b", Title: "B", Analysis: &store.BookAnalysis{BookUID: "b", Themes: []string{"loss"}}},
	}

	data := BuildGraph(books, allToggles(), 2, nil, nil, false)

	node := nodeByID(data, "theme:loss")
	if node == nil {
		t.Fatal("theme:loss node missing")
	}
	if node.Source != ProvenanceAI {
		t.Errorf("theme:loss source = %q, want %q", node.Source, ProvenanceAI)
	}
}

func TestBuildGraphProvenanceFirstSeenWins(t *testing.T) {
	// The first observed book determines provenance even when a later book
	// carries the value as user data. Preserved input-order dependence.
	aiFirst := []*store.Book{
		{UID: "a", Title: "A", Analysis: &store.BookAnalysis{BookUID: "a", Tags: []string{"dense"}}},
		{UID: "b", Title: "B", Tags: []string{"dense"}},
	}
	userFirst := []*store.Book{aiFirst[1], aiFirst[0]}

	data := BuildGraph(aiFirst, allToggles(), 1, nil, nil, false)
	if node := nodeByID(data, "tag:dense"); node == nil || node.Source != ProvenanceAI {
		t.Errorf("ai-first build: source = %v, want %q", node, ProvenanceAI)
	}

	data = BuildGraph(userFirst, allToggles(), 1, nil, nil, false)
	if node := nodeByID(data, "tag:dense"); node == nil || node.Source != ProvenanceUser {
		t.Errorf("user-first build: source = %v, want %q", node, ProvenanceUser)
	}
}

func TestBuildGraphThresholdMonotonicity(t *testing.T) {
	books := []*store.Book{
		{UID: "a", Title: "A", Topics: []string{"x", "y"}, Tags: []string{"t"}},
		{UID: "b", Title: "B", Topics: []string{"x"}, Tags: []string{"t"}},
		{UID: "c", Title: "C", Topics: []string{"x", "y"}},
	}

	prev := map[string]bool{}
	first := true
	for threshold := 1; threshold <= 4; threshold++ {
		data := BuildGraph(books, allToggles(), threshold, nil, nil, false)
		current := map[string]bool{}
		for _, node := range data.Nodes {
			if node.Kind != NodeKindBook {
				current[node.ID] = true
			}
		}
		if !first {
			for id := range current {
				if !prev[id] {
					t.Errorf("threshold %d emitted %s absent at threshold %d", threshold, id, threshold-1)
				}
			}
			if len(current) > len(prev) {
				t.Errorf("attribute node count grew from %d to %d when raising threshold", len(prev), len(current))
			}
		}
		prev = current
		first = false
	}
}

func TestBuildGraphToggleIndependence(t *testing.T) {
	books := []*store.Book{
		{UID: "a", Title: "A", Authors: []string{"Jane"}, Topics: []string{"x"}, Tags: []string{"t"}},
		{UID: "b", Title: "B", Authors: []string{"Jane"}, Topics: []string{"x"}, Tags: []string{"t"}},
	}
	connections := []*store.BookConnection{
		{BookAUID: "a", BookBUID: "b", Type: store.ConnectionTypeThematic, Strength: 0.8},
	}

	full := BuildGraph(books, allToggles(), 1, connections, nil, false)

	toggles := allToggles()
	toggles.Topic = false
	partial := BuildGraph(books, toggles, 1, connections, nil, false)

	if countNodesOfKind(partial, NodeKindTopic) != 0 {
		t.Error("disabled topic toggle still produced topic nodes")
	}
	for _, link := range partial.Links {
		if link.Kind == LinkKindTopic {
			t.Error("disabled topic toggle still produced topic links")
		}
	}
	// Everything else is untouched.
	if countNodesOfKind(partial, NodeKindBook) != countNodesOfKind(full, NodeKindBook) {
		t.Error("book nodes changed with topic toggle")
	}
	if countNodesOfKind(partial, NodeKindAuthor) != countNodesOfKind(full, NodeKindAuthor) {
		t.Error("author nodes changed with topic toggle")
	}
	if countNodesOfKind(partial, NodeKindTag) != countNodesOfKind(full, NodeKindTag) {
		t.Error("tag nodes changed with topic toggle")
	}
	countAIConnections := func(data *GraphData) int {
		count := 0
		for _, link := range data.Links {
			if link.Kind == LinkKindAIConnection {
				count++
			}
		}
		return count
	}
	if countAIConnections(partial) != countAIConnections(full) {
		t.Error("ai_connection links changed with topic toggle")
	}
}

func TestBuildGraphIdentityStability(t *testing.T) {
	books := []*store.Book{
		{UID: "a", Title: "A", Topics: []string{"x"}, Authors: []string{"Jane Doe"}},
		{UID: "b", Title: "B", Topics: []string{"x"}},
	}

	first := BuildGraph(books, allToggles(), 1, nil, nil, false)
	second := BuildGraph(books, allToggles(), 1, nil, nil, false)

	if !reflect.DeepEqual(first, second) {
		t.Error("repeated builds with identical inputs differ")
	}
}

func TestBuildGraphConnectionEdges(t *testing.T) {
	books := []*store.Book{book("a", "A"), book("b", "B")}
	connections := []*store.BookConnection{
		{BookAUID: "a", BookBUID: "b", Type: store.ConnectionTypeInfluence, Strength: 0.7, Explanation: "shared lineage"},
		// References a book not in the collection: skipped silently.
		{BookAUID: "a", BookBUID: "ghost", Type: store.ConnectionTypeThematic, Strength: 0.5},
	}

	data := BuildGraph(books, allToggles(), 1, connections, nil, false)

	var aiLinks []Link
	for _, link := range data.Links {
		if link.Kind == LinkKindAIConnection {
			aiLinks = append(aiLinks, link)
		}
	}
	if len(aiLinks) != 1 {
		t.Fatalf("ai_connection links = %d, want 1", len(aiLinks))
	}
	link := aiLinks[0]
	if link.Source != "book:a" || link.Target != "book:b" {
		t.Errorf("link endpoints = %s -> %s", link.Source, link.Target)
	}
	if link.Strength == nil || *link.Strength != 0.7 {
		t.Errorf("link strength = %v, want 0.7", link.Strength)
	}
	if link.Explanation != "shared lineage" {
		t.Errorf("link explanation = %q", link.Explanation)
	}
}

func TestBuildGraphConnectionToggleOff(t *testing.T) {
	books := []*store.Book{book("a", "A"), book("b", "B")}
	connections := []*store.BookConnection{
		{BookAUID: "a", BookBUID: "b", Type: store.ConnectionTypeThematic, Strength: 0.9},
	}

	toggles := allToggles()
	toggles.AIConnection = false
	data := BuildGraph(books, toggles, 1, connections, nil, false)

	for _, link := range data.Links {
		if link.Kind == LinkKindAIConnection {
			t.Fatal("ai_connection link emitted with toggle off")
		}
	}
}

func TestBuildGraphConnectionsExemptFromThreshold(t *testing.T) {
	books := []*store.Book{book("a", "A"), book("b", "B")}
	connections := []*store.BookConnection{
		{BookAUID: "a", BookBUID: "b", Type: store.ConnectionTypeStylistic, Strength: 0.4},
	}

	// Threshold high enough to prune every attribute.
	data := BuildGraph(books, allToggles(), 100, connections, nil, false)

	found := false
	for _, link := range data.Links {
		if link.Kind == LinkKindAIConnection {
			found = true
		}
	}
	if !found {
		t.Error("threshold pruned an ai_connection edge")
	}
}

func TestBuildGraphSuggestionOverlay(t *testing.T) {
	books := []*store.Book{book("a", "A"), book("b", "B")}
	suggestions := []*store.BookSuggestion{
		{UID: "s1", Title: "Suggested", RelatedBookUIDs: []string{"a", "ghost"}},
		{UID: "s2", Title: "Dismissed", Dismissed: true},
	}

	data := BuildGraph(books, allToggles(), 1, nil, suggestions, true)

	if got := countNodesOfKind(data, NodeKindSuggestion); got != 1 {
		t.Fatalf("suggestion node count = %d, want 1", got)
	}
	node := nodeByID(data, "suggestion:s1")
	if node == nil {
		t.Fatal("suggestion:s1 node missing")
	}
	if node.Weight != suggestionNodeWeight || node.Opacity != suggestionOpacity {
		t.Errorf("suggestion node weight/opacity = %d/%v", node.Weight, node.Opacity)
	}

	var suggestionLinks []Link
	for _, link := range data.Links {
		if link.Source == "suggestion:s1" {
			suggestionLinks = append(suggestionLinks, link)
		}
	}
	// The unknown related book loses its link; the node stays.
	if len(suggestionLinks) != 1 {
		t.Fatalf("suggestion links = %d, want 1", len(suggestionLinks))
	}
	if suggestionLinks[0].Target != "book:a" || suggestionLinks[0].Kind != LinkKindAIConnection {
		t.Errorf("suggestion link = %+v", suggestionLinks[0])
	}
}

func TestBuildGraphSuggestionsHidden(t *testing.T) {
	books := []*store.Book{book("a", "A")}
	suggestions := []*store.BookSuggestion{
		{UID: "s1", Title: "Suggested", RelatedBookUIDs: []string{"a"}},
	}

	data := BuildGraph(books, allToggles(), 1, nil, suggestions, false)

	if got := countNodesOfKind(data, NodeKindSuggestion); got != 0 {
		t.Errorf("suggestion node count = %d, want 0", got)
	}
}

func TestBuildGraphOrderingStable(t *testing.T) {
	// Book nodes appear in input order; the shared attribute node appears
	// right after the first book that carries it.
	books := []*store.Book{
		{UID: "b", Title: "B", Topics: []string{"x"}},
		{UID: "a", Title: "A", Topics: []string{"x"}},
	}

	data := BuildGraph(books, allToggles(), 1, nil, nil, false)

	wantOrder := []string{"book:b", "topic:x", "book:a"}
	if len(data.Nodes) != len(wantOrder) {
		t.Fatalf("node count = %d, want %d", len(data.Nodes), len(wantOrder))
	}
	for i, id := range wantOrder {
		if data.Nodes[i].ID != id {
			t.Errorf("nodes[%d] = %s, want %s", i, data.Nodes[i].ID, id)
		}
	}
}

func TestBuildGraphDuplicateValuesCountOnce(t *testing.T) {
	// The same value in both the user field and the analysis contributes a
	// single count and a single edge for that book.
	books := []*store.Book{
		{UID: "a", Title: "A", Topics: []string{"x"}, Analysis: &store.BookAnalysis{BookUID: "a", Topics: []string{"x"}}},
	}

	data := BuildGraph(books, allToggles(), 1, nil, nil, false)

	node := nodeByID(data, "topic:x")
	if node == nil {
		t.Fatal("topic:x node missing")
	}
	if node.Weight != 1 {
		t.Errorf("topic:x weight = %d, want 1", node.Weight)
	}
	if got := len(linksTo(data, "topic:x")); got != 1 {
		t.Errorf("edges into topic:x = %d, want 1", got)
	}
}

func TestBuildGraphEmptyInput(t *testing.T) {
	data := BuildGraph(nil, allToggles(), 1, nil, nil, true)
	if len(data.Nodes) != 0 || len(data.Links) != 0 {
		t.Errorf("empty input produced %d nodes, %d links", len(data.Nodes), len(data.Links))
	}
}
