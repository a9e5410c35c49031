package graph

import (
	"testing"

	"github.com/shelfgraph/shelfgraph/store"
)

func uids(books []*store.Book) []string {
	result := make([]string, 0, len(books))
	for _, book := range books {
		result = append(result, book.UID)
	}
	return result
}

func equalUIDs(got []*store.Book, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i, book := range got {
		if book.UID != want[i] {
			return false
		}
	}
	return true
}

func TestFindRelatedBooks(t *testing.T) {
	library := []*store.Book{
		{UID: "a", Title: "A", Authors: []string{"Jane Doe"}, Topics: []string{"space"}},
		{UID: "b", Title: "B", Authors: []string{"Jane Doe"}},
		{UID: "c", Title: "C", Topics: []string{"space"}},
		{UID: "d", Title: "D", Themes: []string{"isolation"}},
		{UID: "e", Title: "E", Tags: []string{"slow"}},
	}

	tests := []struct {
		name string
		book *store.Book
		want []string
	}{
		{
			name: "shared author and topic",
			book: library[0],
			want: []string{"b", "c"},
		},
		{
			name: "shared author only",
			book: library[1],
			want: []string{"a"},
		},
		{
			name: "no matches",
			book: library[4],
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindRelatedBooks(tt.book, library)
			if !equalUIDs(got, tt.want) {
				t.Errorf("FindRelatedBooks(%s) = %v, want %v", tt.book.UID, uids(got), tt.want)
			}
		})
	}
}

func TestFindRelatedBooksNoSelfLoop(t *testing.T) {
	library := []*store.Book{
		{UID: "a", Title: "A", Tags: []string{"x"}},
		{UID: "b", Title: "B", Tags: []string{"x"}},
	}
	for _, book := range library {
		for _, related := range FindRelatedBooks(book, library) {
			if related.UID == book.UID {
				t.Errorf("FindRelatedBooks(%s) includes itself", book.UID)
			}
		}
	}
}

func TestFindRelatedBooksMergedSets(t *testing.T) {
	// Book a's user topic matches book b's AI-inferred topic.
	library := []*store.Book{
		{UID: "a", Title: "A", Topics: []string{"AI"}},
		{UID: "b", Title: "B", Analysis: &store.BookAnalysis{BookUID: "b", Topics: []string{"AI"}}},
	}

	got := FindRelatedBooks(library[0], library)
	if !equalUIDs(got, []string{"b"}) {
		t.Errorf("FindRelatedBooks(a) = %v, want [b]", uids(got))
	}
	// Symmetric from b's side.
	got = FindRelatedBooks(library[1], library)
	if !equalUIDs(got, []string{"a"}) {
		t.Errorf("FindRelatedBooks(b) = %v, want [a]", uids(got))
	}
}

func TestFindRelatedBooksAuthorsAreRawOnly(t *testing.T) {
	// Analyses carry no author values, so an author match can only come from
	// the raw fields.
	library := []*store.Book{
		{UID: "a", Title: "A", Authors: []string{"Jane Doe"}},
		{UID: "b", Title: "B"},
	}
	got := FindRelatedBooks(library[0], library)
	if len(got) != 0 {
		t.Errorf("FindRelatedBooks(a) = %v, want empty", uids(got))
	}
}

func TestGetConnectedBooks(t *testing.T) {
	library := []*store.Book{
		{UID: "a", Title: "A", Tags: []string{"sci-fi"}},
		{UID: "b", Title: "B"},
		{UID: "c", Title: "C", Tags: []string{"sci-fi"}},
		{UID: "d", Title: "D", Tags: []string{"fantasy"}},
		{UID: "e", Title: "E"},
	}

	tests := []struct {
		name   string
		nodeID string
		want   []string
	}{
		{
			name:   "tag members in original order",
			nodeID: "tag:sci-fi",
			want:   []string{"a", "c"},
		},
		{
			name:   "no members",
			nodeID: "tag:horror",
			want:   []string{},
		},
		{
			name:   "unknown kind",
			nodeID: "publisher:Tor",
			want:   []string{},
		},
		{
			name:   "missing separator",
			nodeID: "sci-fi",
			want:   []string{},
		},
		{
			name:   "empty value segment",
			nodeID: "tag:",
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetConnectedBooks(tt.nodeID, library)
			if !equalUIDs(got, tt.want) {
				t.Errorf("GetConnectedBooks(%q) = %v, want %v", tt.nodeID, uids(got), tt.want)
			}
		})
	}
}

func TestGetConnectedBooksValueWithColon(t *testing.T) {
	// The value segment may itself contain colons; split on the first only.
	library := []*store.Book{
		{UID: "a", Title: "A", Topics: []string{"History: Ancient Rome"}},
		{UID: "b", Title: "B"},
	}
	got := GetConnectedBooks("topic:History: Ancient Rome", library)
	if !equalUIDs(got, []string{"a"}) {
		t.Errorf("GetConnectedBooks with colon value = %v, want [a]", uids(got))
	}
}

func TestGetConnectedBooksAgreesWithBuild(t *testing.T) {
	// Merged-set consistency: at threshold 1 with the topic toggle on, the
	// books returned by GetConnectedBooks are exactly those with an edge to
	// the topic node in a build.
	library := []*store.Book{
		{UID: "a", Title: "A", Topics: []string{"X"}},
		{UID: "b", Title: "B", Analysis: &store.BookAnalysis{BookUID: "b", Topics: []string{"X"}}},
		{UID: "c", Title: "C", Topics: []string{"Y"}},
	}

	data := BuildGraph(library, EdgeToggles{Topic: true}, 1, nil, nil, false)
	edgeSources := make(map[string]bool)
	for _, link := range data.Links {
		if link.Target == "topic:X" {
			edgeSources[link.Source] = true
		}
	}

	connected := GetConnectedBooks("topic:X", library)
	if len(connected) != len(edgeSources) {
		t.Fatalf("connected books = %d, edges = %d", len(connected), len(edgeSources))
	}
	for _, book := range connected {
		if !edgeSources[NodeID(NodeKindBook, book.UID)] {
			t.Errorf("book %s connected but has no edge", book.UID)
		}
	}
}

func TestParseNodeID(t *testing.T) {
	tests := []struct {
		id    string
		kind  string
		value string
		ok    bool
	}{
		{"topic:Space Travel", "topic", "Space Travel", true},
		{"author:Jane Doe", "author", "Jane Doe", true},
		{"topic:History: Rome", "topic", "History: Rome", true},
		{"tag:", "tag", "", true},
		{"nocolon", "", "", false},
	}

	for _, tt := range tests {
		kind, value, ok := ParseNodeID(tt.id)
		if kind != tt.kind || value != tt.value || ok != tt.ok {
			t.Errorf("ParseNodeID(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.id, kind, value, ok, tt.kind, tt.value, tt.ok)
		}
	}
}

func TestMergedValues(t *testing.T) {
	book := &store.Book{
		UID:    "a",
		Topics: []string{"x", "y", "x"},
		Analysis: &store.BookAnalysis{
			BookUID: "a",
			Topics:  []string{"y", "z"},
		},
	}

	got := mergedValues(book, NodeKindTopic)
	want := []string{"x", "y", "z"}
	if len(got) != len(want) {
		t.Fatalf("mergedValues = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("mergedValues[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// Authors never merge analysis values.
	if values := mergedValues(book, NodeKindAuthor); len(values) != 0 {
		t.Errorf("mergedValues(author) = %v, want empty", values)
	}
}
