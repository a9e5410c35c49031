package analysis

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"

	"github.com/shelfgraph/shelfgraph/plugin/ai"
	"github.com/shelfgraph/shelfgraph/store"
)

// Store is the catalog surface the analyzer writes through.
// *store.Store satisfies it.
type Store interface {
	GetBook(ctx context.Context, find *store.FindBook) (*store.Book, error)
	ListBooks(ctx context.Context, find *store.FindBook) ([]*store.Book, error)
	UpsertBookAnalysis(ctx context.Context, upsert *store.BookAnalysis) (*store.BookAnalysis, error)
	DeleteBookConnections(ctx context.Context, delete *store.DeleteBookConnection) error
	UpsertBookConnection(ctx context.Context, upsert *store.BookConnection) (*store.BookConnection, error)
}

// Analyzer derives topics, themes, tags, a summary and cross-book
// connections for books via the LLM.
type Analyzer struct {
	llm        ai.LLM
	store      Store
	model      string
	maxWorkers int64
}

func NewAnalyzer(llm ai.LLM, st Store, model string, maxWorkers int) *Analyzer {
	if maxWorkers <= 0 {
		maxWorkers = 2
	}
	return &Analyzer{
		llm:        llm,
		store:      st,
		model:      model,
		maxWorkers: int64(maxWorkers),
	}
}

type analysisResult struct {
	Topics      []string           `json:"topics"`
	Themes      []string           `json:"themes"`
	Tags        []string           `json:"tags"`
	Summary     string             `json:"summary"`
	Connections []connectionResult `json:"connections"`
}

type connectionResult struct {
	BookUID        string  `json:"book_uid"`
	ConnectionType string  `json:"connection_type"`
	Strength       float64 `json:"strength"`
	Explanation    string  `json:"explanation"`
}

// AnalyzeBook analyzes a single book and replaces its stored analysis and
// connections with the model's output.
func (a *Analyzer) AnalyzeBook(ctx context.Context, creatorID int32, bookUID string) (*store.BookAnalysis, error) {
	book, err := a.store.GetBook(ctx, &store.FindBook{UID: &bookUID, CreatorID: &creatorID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get book")
	}
	if book == nil {
		return nil, errors.Errorf("book %s not found", bookUID)
	}

	books, err := a.store.ListBooks(ctx, &store.FindBook{CreatorID: &creatorID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list books")
	}
	others := make([]*store.Book, 0, len(books))
	validUIDs := make(map[string]bool, len(books))
	for _, other := range books {
		validUIDs[other.UID] = true
		if other.UID != bookUID {
			others = append(others, other)
		}
	}

	reply, err := a.llm.Chat(ctx, []ai.Message{ai.UserMessage(buildBookPrompt(book, others))})
	if err != nil {
		return nil, errors.Wrap(err, "chat failed")
	}
	result, err := parseAnalysis(reply)
	if err != nil {
		return nil, err
	}

	analysis, err := a.store.UpsertBookAnalysis(ctx, &store.BookAnalysis{
		BookUID:   bookUID,
		CreatorID: creatorID,
		Topics:    result.Topics,
		Themes:    result.Themes,
		Tags:      result.Tags,
		Summary:   result.Summary,
		Model:     a.model,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to upsert analysis")
	}

	// Replace this book's connections with the fresh set.
	if err := a.store.DeleteBookConnections(ctx, &store.DeleteBookConnection{CreatorID: creatorID, BookUID: &bookUID}); err != nil {
		return nil, errors.Wrap(err, "failed to delete old connections")
	}
	for _, conn := range result.Connections {
		if conn.BookUID == "" || conn.BookUID == bookUID || !validUIDs[conn.BookUID] {
			continue
		}
		bookA, bookB := store.CanonicalPair(bookUID, conn.BookUID)
		if _, err := a.store.UpsertBookConnection(ctx, &store.BookConnection{
			CreatorID:   creatorID,
			BookAUID:    bookA,
			BookBUID:    bookB,
			Type:        normalizeConnectionType(conn.ConnectionType),
			Strength:    clampStrength(conn.Strength),
			Explanation: conn.Explanation,
		}); err != nil {
			return nil, errors.Wrap(err, "failed to upsert connection")
		}
	}

	return analysis, nil
}

// AnalyzeLibrary analyzes every book of the user with bounded concurrency.
// Failures of individual books do not abort the rest; the first error is
// returned after all books have been attempted.
func (a *Analyzer) AnalyzeLibrary(ctx context.Context, creatorID int32) error {
	books, err := a.store.ListBooks(ctx, &store.FindBook{CreatorID: &creatorID})
	if err != nil {
		return errors.Wrap(err, "failed to list books")
	}
	if len(books) == 0 {
		return errors.New("no books in library")
	}

	sem := semaphore.NewWeighted(a.maxWorkers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for _, book := range books {
		if err := sem.Acquire(ctx, 1); err != nil {
			return err
		}
		wg.Add(1)
		go func(uid string) {
			defer wg.Done()
			defer sem.Release(1)
			if _, err := a.AnalyzeBook(ctx, creatorID, uid); err != nil {
				slog.Warn("book analysis failed", slog.String("book_uid", uid), slog.Any("error", err))
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(book.UID)
	}
	wg.Wait()
	return firstErr
}

func parseAnalysis(reply string) (*analysisResult, error) {
	raw, err := ai.ExtractJSONObject(reply)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse AI response as JSON")
	}
	result := &analysisResult{}
	if err := json.Unmarshal([]byte(raw), result); err != nil {
		return nil, errors.Wrap(err, "failed to parse AI response as JSON")
	}
	return result, nil
}

// normalizeConnectionType maps unknown types to thematic.
func normalizeConnectionType(raw string) store.BookConnectionType {
	t := store.BookConnectionType(raw)
	if !store.IsValidConnectionType(t) {
		return store.ConnectionTypeThematic
	}
	return t
}

// clampStrength keeps strength in [0,1]; a missing value becomes 0.5.
func clampStrength(strength float64) float64 {
	if strength == 0 {
		return 0.5
	}
	if strength < 0 {
		return 0
	}
	if strength > 1 {
		return 1
	}
	return strength
}
