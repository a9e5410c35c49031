package bulkimport

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []*Entry
	}{
		{
			name: "by format",
			text: "Solaris by Stanislaw Lem",
			want: []*Entry{
				{Title: "Solaris", Authors: []string{"Stanislaw Lem"}, Topics: []string{}, Themes: []string{}, Tags: []string{}},
			},
		},
		{
			name: "by format is case insensitive",
			text: "Dune BY Frank Herbert",
			want: []*Entry{
				{Title: "Dune", Authors: []string{"Frank Herbert"}, Topics: []string{}, Themes: []string{}, Tags: []string{}},
			},
		},
		{
			name: "dash format with multiple authors",
			text: "Good Omens - Terry Pratchett, Neil Gaiman",
			want: []*Entry{
				{Title: "Good Omens", Authors: []string{"Terry Pratchett", "Neil Gaiman"}, Topics: []string{}, Themes: []string{}, Tags: []string{}},
			},
		},
		{
			name: "pipe format with all fields",
			text: "Solaris | Stanislaw Lem | first contact, oceans | the unknowable | sci-fi, classic",
			want: []*Entry{
				{
					Title:   "Solaris",
					Authors: []string{"Stanislaw Lem"},
					Topics:  []string{"first contact", "oceans"},
					Themes:  []string{"the unknowable"},
					Tags:    []string{"sci-fi", "classic"},
				},
			},
		},
		{
			name: "pipe format with missing trailing fields",
			text: "Solaris | Stanislaw Lem",
			want: []*Entry{
				{Title: "Solaris", Authors: []string{"Stanislaw Lem"}, Topics: []string{}, Themes: []string{}, Tags: []string{}},
			},
		},
		{
			name: "pipe format with empty title",
			text: "| Stanislaw Lem",
			want: []*Entry{
				{Title: "Untitled", Authors: []string{"Stanislaw Lem"}, Topics: []string{}, Themes: []string{}, Tags: []string{}},
			},
		},
		{
			name: "title only fallback",
			text: "Neuromancer",
			want: []*Entry{
				{Title: "Neuromancer", Authors: []string{}, Topics: []string{}, Themes: []string{}, Tags: []string{}},
			},
		},
		{
			name: "pipe wins over by",
			text: "Death by Water | Kenzaburo Oe",
			want: []*Entry{
				{Title: "Death by Water", Authors: []string{"Kenzaburo Oe"}, Topics: []string{}, Themes: []string{}, Tags: []string{}},
			},
		},
		{
			name: "blank lines are skipped",
			text: "\n  \nSolaris by Stanislaw Lem\n\n",
			want: []*Entry{
				{Title: "Solaris", Authors: []string{"Stanislaw Lem"}, Topics: []string{}, Themes: []string{}, Tags: []string{}},
			},
		},
		{
			name: "empty input",
			text: "",
			want: []*Entry{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Parse(tt.text))
		})
	}
}

func TestParseMultipleLines(t *testing.T) {
	entries := Parse("Solaris by Stanislaw Lem\nDune - Frank Herbert\nNeuromancer")
	require.Len(t, entries, 3)
	require.Equal(t, "Solaris", entries[0].Title)
	require.Equal(t, "Dune", entries[1].Title)
	require.Equal(t, "Neuromancer", entries[2].Title)
}
