package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shelfgraph/shelfgraph/plugin/ai"
	"github.com/shelfgraph/shelfgraph/store"
)

type fakeLLM struct {
	reply string
	err   error
	calls int
}

func (f *fakeLLM) Chat(_ context.Context, _ []ai.Message) (string, error) {
	f.calls++
	return f.reply, f.err
}

type fakeStore struct {
	books       []*store.Book
	analyses    map[string]*store.BookAnalysis
	connections []*store.BookConnection
}

func newFakeStore(books ...*store.Book) *fakeStore {
	return &fakeStore{
		books:    books,
		analyses: map[string]*store.BookAnalysis{},
	}
}

func (f *fakeStore) GetBook(_ context.Context, find *store.FindBook) (*store.Book, error) {
	for _, book := range f.books {
		if find.UID != nil && book.UID == *find.UID {
			return book, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListBooks(_ context.Context, _ *store.FindBook) ([]*store.Book, error) {
	return f.books, nil
}

func (f *fakeStore) UpsertBookAnalysis(_ context.Context, upsert *store.BookAnalysis) (*store.BookAnalysis, error) {
	f.analyses[upsert.BookUID] = upsert
	return upsert, nil
}

func (f *fakeStore) DeleteBookConnections(_ context.Context, delete *store.DeleteBookConnection) error {
	kept := f.connections[:0]
	for _, conn := range f.connections {
		if delete.BookUID != nil && conn.BookAUID != *delete.BookUID && conn.BookBUID != *delete.BookUID {
			kept = append(kept, conn)
		}
	}
	f.connections = kept
	return nil
}

func (f *fakeStore) UpsertBookConnection(_ context.Context, upsert *store.BookConnection) (*store.BookConnection, error) {
	f.connections = append(f.connections, upsert)
	return upsert, nil
}

func TestAnalyzeBook(t *testing.T) {
	st := newFakeStore(
		&store.Book{UID: "aaa", CreatorID: 1, Title: "Solaris", Authors: []string{"Stanislaw Lem"}},
		&store.Book{UID: "bbb", CreatorID: 1, Title: "Roadside Picnic", Authors: []string{"Strugatsky"}},
	)
	llm := &fakeLLM{reply: "```json\n" + `{
		"topics": ["first contact"],
		"themes": ["the unknowable"],
		"tags": ["sci-fi"],
		"summary": "A planet that thinks.",
		"connections": [
			{"book_uid": "bbb", "connection_type": "thematic", "strength": 0.8, "explanation": "Alien contact"},
			{"book_uid": "ghost", "connection_type": "topical", "strength": 0.9, "explanation": "dropped"},
			{"book_uid": "aaa", "connection_type": "topical", "strength": 0.9, "explanation": "self"}
		]
	}` + "\n```"}

	analyzer := NewAnalyzer(llm, st, "test-model", 2)
	analysis, err := analyzer.AnalyzeBook(context.Background(), 1, "aaa")
	require.NoError(t, err)
	require.Equal(t, []string{"first contact"}, analysis.Topics)
	require.Equal(t, "A planet that thinks.", analysis.Summary)
	require.Equal(t, "test-model", analysis.Model)

	// Only the connection to a known, distinct book survives.
	require.Len(t, st.connections, 1)
	conn := st.connections[0]
	require.Equal(t, "aaa", conn.BookAUID)
	require.Equal(t, "bbb", conn.BookBUID)
	require.Equal(t, store.ConnectionTypeThematic, conn.Type)
	require.InDelta(t, 0.8, conn.Strength, 1e-9)
}

func TestAnalyzeBookCanonicalOrderAndClamp(t *testing.T) {
	st := newFakeStore(
		&store.Book{UID: "zzz", CreatorID: 1, Title: "Z"},
		&store.Book{UID: "aaa", CreatorID: 1, Title: "A"},
	)
	llm := &fakeLLM{reply: `{
		"topics": [], "themes": [], "tags": [], "summary": "",
		"connections": [
			{"book_uid": "aaa", "connection_type": "bogus", "strength": 1.7, "explanation": ""}
		]
	}`}

	analyzer := NewAnalyzer(llm, st, "m", 1)
	_, err := analyzer.AnalyzeBook(context.Background(), 1, "zzz")
	require.NoError(t, err)

	require.Len(t, st.connections, 1)
	conn := st.connections[0]
	// Lexicographically smaller UID first, regardless of analysis direction.
	require.Equal(t, "aaa", conn.BookAUID)
	require.Equal(t, "zzz", conn.BookBUID)
	// Unknown type falls back to thematic; strength is clamped to 1.
	require.Equal(t, store.ConnectionTypeThematic, conn.Type)
	require.Equal(t, 1.0, conn.Strength)
}

func TestAnalyzeBookNotFound(t *testing.T) {
	analyzer := NewAnalyzer(&fakeLLM{}, newFakeStore(), "m", 1)
	_, err := analyzer.AnalyzeBook(context.Background(), 1, "missing")
	require.Error(t, err)
}

func TestAnalyzeBookUnparsableReply(t *testing.T) {
	st := newFakeStore(&store.Book{UID: "aaa", CreatorID: 1, Title: "A"})
	analyzer := NewAnalyzer(&fakeLLM{reply: "I am unable to help with that."}, st, "m", 1)
	_, err := analyzer.AnalyzeBook(context.Background(), 1, "aaa")
	require.Error(t, err)
	require.Empty(t, st.analyses)
}

func TestAnalyzeLibraryEmpty(t *testing.T) {
	analyzer := NewAnalyzer(&fakeLLM{}, newFakeStore(), "m", 2)
	err := analyzer.AnalyzeLibrary(context.Background(), 1)
	require.Error(t, err)
}

func TestClampStrength(t *testing.T) {
	require.Equal(t, 0.5, clampStrength(0))
	require.Equal(t, 0.0, clampStrength(-1))
	require.Equal(t, 1.0, clampStrength(2))
	require.Equal(t, 0.3, clampStrength(0.3))
}
