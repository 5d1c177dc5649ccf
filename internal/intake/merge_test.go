package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docintake/internal/extraction"
	"docintake/internal/model"
)

func s(v string) *string { return &v }

func TestMerge(t *testing.T) {
	tests := []struct {
		name  string
		pages []model.PageExtraction
		want  model.Document
	}{
		{
			name: "first non-null title wins",
			pages: []model.PageExtraction{
				{Title: nil},
				{Title: s("A")},
				{Title: s("B")},
			},
			want: model.Document{Title: "A", Department: model.UnknownDepartment, Authors: []string{}},
		},
		{
			name: "all null falls back to sentinels",
			pages: []model.PageExtraction{
				{Authors: []string{}},
				{Authors: []string{}},
			},
			want: model.Document{Title: model.UnknownTitle, Department: model.UnknownDepartment, Authors: []string{}},
		},
		{
			name: "title and department resolve independently",
			pages: []model.PageExtraction{
				{Title: nil, Department: s("Physics")},
				{Title: s("Later Title"), Department: s("Chemistry")},
			},
			want: model.Document{Title: "Later Title", Department: "Physics", Authors: []string{}},
		},
		{
			name: "authors de-duplicated in first-seen order",
			pages: []model.PageExtraction{
				{Authors: []string{"X", "Y"}},
				{Authors: []string{"Y", "Z"}},
			},
			want: model.Document{Title: model.UnknownTitle, Department: model.UnknownDepartment, Authors: []string{"X", "Y", "Z"}},
		},
		{
			name: "author match is exact",
			pages: []model.PageExtraction{
				{Authors: []string{"Ada Lovelace"}},
				{Authors: []string{"ada lovelace", "Ada Lovelace ", "Ada Lovelace"}},
			},
			want: model.Document{
				Title:      model.UnknownTitle,
				Department: model.UnknownDepartment,
				Authors:    []string{"Ada Lovelace", "ada lovelace", "Ada Lovelace "},
			},
		},
		{
			name: "null data pages add nothing",
			pages: []model.PageExtraction{
				{Data: s("foo")},
				{Data: nil},
				{Data: s("bar")},
			},
			want: model.Document{Title: model.UnknownTitle, Department: model.UnknownDepartment, Authors: []string{}, Data: "foo\n\nbar"},
		},
		{
			name: "data trimmed once at the end",
			pages: []model.PageExtraction{
				{Data: s("  lead")},
				{Data: s("inner  \n")},
				{Data: s("tail\n")},
			},
			want: model.Document{Title: model.UnknownTitle, Department: model.UnknownDepartment, Authors: []string{}, Data: "lead\n\ninner  \n\n\ntail"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Merge(tt.pages)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMerge_Empty(t *testing.T) {
	_, err := Merge(nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)
}

func TestMerge_Deterministic(t *testing.T) {
	pages := []model.PageExtraction{
		{Title: s("T"), Authors: []string{"B", "A"}, Data: s("one")},
		{Department: s("D"), Authors: []string{"C", "A"}, Data: s("two")},
	}
	first, err := Merge(pages)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := Merge(pages)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestMerge_BlankValuesFromParsedPages(t *testing.T) {
	raws := []string{
		`{"title":"","authors":["","X"],"department":" ","data":"foo"}`,
		`{"title":"Real","authors":["X"],"department":"Dept","data":"   "}`,
		`{"title":null,"authors":[],"department":null,"data":"bar"}`,
	}
	pages := make([]model.PageExtraction, 0, len(raws))
	for i, raw := range raws {
		p, mismatch, err := extraction.ParseExtraction([]byte(raw))
		require.NoError(t, err)
		require.Empty(t, mismatch)
		p.PageIndex = i
		pages = append(pages, p)
	}

	got, err := Merge(pages)

	require.NoError(t, err)
	assert.Equal(t, "", got.Title)
	assert.Equal(t, " ", got.Department)
	assert.Equal(t, []string{"", "X"}, got.Authors)
	assert.Equal(t, "foo\n\n   \n\nbar", got.Data)
}
