package v1

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shelfgraph/shelfgraph/store"
)

func intPtr(v int32) *int32 {
	return &v
}

func TestBookFilter(t *testing.T) {
	books := []*store.Book{
		{UID: "a", Title: "Solaris", Authors: []string{"Stanislaw Lem"}, Tags: []string{"sci-fi", "slow"}, Year: intPtr(1961), Rating: intPtr(5)},
		{UID: "b", Title: "Dune", Authors: []string{"Frank Herbert"}, Tags: []string{"sci-fi"}, Year: intPtr(1965), Rating: intPtr(4)},
		{UID: "c", Title: "Untitled Draft", Tags: []string{}},
	}

	tests := []struct {
		name       string
		expression string
		want       []string
	}{
		{
			name:       "tag membership",
			expression: `"slow" in tags`,
			want:       []string{"a"},
		},
		{
			name:       "rating threshold",
			expression: `rating >= 4`,
			want:       []string{"a", "b"},
		},
		{
			name:       "missing year evaluates as zero",
			expression: `year == 0`,
			want:       []string{"c"},
		},
		{
			name:       "compound expression",
			expression: `"sci-fi" in tags && year < 1965`,
			want:       []string{"a"},
		},
		{
			name:       "title contains",
			expression: `title.contains("Dune")`,
			want:       []string{"b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, err := compileBookFilter(tt.expression)
			require.NoError(t, err)
			matched, err := filterBooks(program, books)
			require.NoError(t, err)
			got := make([]string, 0, len(matched))
			for _, book := range matched {
				got = append(got, book.UID)
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func TestBookFilterInvalidExpression(t *testing.T) {
	_, err := compileBookFilter(`title ===`)
	require.Error(t, err)
}

func TestBookFilterNonBoolean(t *testing.T) {
	_, err := compileBookFilter(`title`)
	require.Error(t, err)
}
