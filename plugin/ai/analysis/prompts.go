package analysis

import (
	"fmt"
	"strings"

	"github.com/shelfgraph/shelfgraph/store"
)

const bookPromptTemplate = `Analyze this book and return a JSON response. Be consistent with terminology across analyses.

Book: %q by %s
%s%s%s
Return ONLY valid JSON with this exact structure:
{
  "topics": ["3-6 concrete subjects the book covers"],
  "themes": ["3-6 abstract concepts or themes explored"],
  "tags": ["3-6 genre/style/mood descriptors"],
  "summary": "A concise 1-2 sentence summary of what makes this book notable",
  "connections": [
    {
      "book_uid": "uid of a connected book from the library",
      "connection_type": "thematic|stylistic|topical|influence|author",
      "strength": 0.7,
      "explanation": "Brief explanation of the connection"
    }
  ]
}

For connections, only reference books from the user's library listed above. Use strength 0-1 where 1 is strongest. Include connections array even if empty.`

// buildBookPrompt builds the analysis prompt for one book, with the rest of
// the library as connection context.
func buildBookPrompt(book *store.Book, others []*store.Book) string {
	var year, notes string
	if book.Year != nil {
		year = fmt.Sprintf("Year: %d\n", *book.Year)
	}
	if book.Notes != "" {
		notes = fmt.Sprintf("Reader's notes: %s\n", book.Notes)
	}

	var context string
	if len(others) > 0 {
		lines := make([]string, 0, len(others))
		for _, other := range others {
			lines = append(lines, fmt.Sprintf("- UID: %s | %q by %s", other.UID, other.Title, strings.Join(other.Authors, ", ")))
		}
		context = fmt.Sprintf("\nOther books in this user's library:\n%s\n", strings.Join(lines, "\n"))
	}

	return fmt.Sprintf(bookPromptTemplate, book.Title, strings.Join(book.Authors, ", "), year, notes, context)
}
