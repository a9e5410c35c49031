package v1

import (
	"github.com/google/cel-go/cel"
	"github.com/pkg/errors"

	"github.com/shelfgraph/shelfgraph/store"
)

// Book list filters are CEL expressions over the catalog fields, e.g.
//
//	"slow" in tags && rating >= 4
//	title.contains("Sea") || year < 1970
//
// A missing year or rating evaluates as 0.
func newBookFilterEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("title", cel.StringType),
		cel.Variable("authors", cel.ListType(cel.StringType)),
		cel.Variable("topics", cel.ListType(cel.StringType)),
		cel.Variable("themes", cel.ListType(cel.StringType)),
		cel.Variable("tags", cel.ListType(cel.StringType)),
		cel.Variable("year", cel.IntType),
		cel.Variable("rating", cel.IntType),
	)
}

// compileBookFilter compiles a filter expression into a CEL program.
func compileBookFilter(expression string) (cel.Program, error) {
	env, err := newBookFilterEnv()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create filter environment")
	}
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, errors.Wrap(issues.Err(), "invalid filter expression")
	}
	if ast.OutputType() != cel.BoolType {
		return nil, errors.New("filter expression must evaluate to a boolean")
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build filter program")
	}
	return program, nil
}

// filterBooks keeps the books the compiled filter matches, preserving order.
func filterBooks(program cel.Program, books []*store.Book) ([]*store.Book, error) {
	matched := make([]*store.Book, 0, len(books))
	for _, book := range books {
		var year, rating int64
		if book.Year != nil {
			year = int64(*book.Year)
		}
		if book.Rating != nil {
			rating = int64(*book.Rating)
		}

		out, _, err := program.Eval(map[string]any{
			"title":   book.Title,
			"authors": book.Authors,
			"topics":  book.Topics,
			"themes":  book.Themes,
			"tags":    book.Tags,
			"year":    year,
			"rating":  rating,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to evaluate filter")
		}
		if keep, ok := out.Value().(bool); ok && keep {
			matched = append(matched, book)
		}
	}
	return matched, nil
}
