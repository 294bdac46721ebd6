package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func heading(text string, x, y float64) Line {
	return Line{Text: text, Font: "Arial-Bold", Size: 16, Bold: true, X: x, Y: y, Page: 1}
}

func TestMergeHeadingsJoinsWrappedLines(t *testing.T) {
	lines := []Line{
		heading("Chapter One", 72, 99),
		heading("Overview", 72.5, 102),
		{Text: "Body", Font: "Arial", Size: 11, X: 72, Y: 129, Page: 1},
	}
	merged := MergeHeadings(lines, DefaultOptions())
	require.Len(t, merged, 2)
	assert.Equal(t, "Chapter One Overview", merged[0].Text)
	assert.Equal(t, 102.0, merged[0].Y)
	assert.Equal(t, 72.0, merged[0].X)
	assert.Equal(t, "Body", merged[1].Text)
}

func TestMergeHeadingsChains(t *testing.T) {
	lines := []Line{
		heading("A very long", 50, 10),
		heading("heading that", 50, 13),
		heading("wraps twice", 50, 16),
	}
	merged := MergeHeadings(lines, DefaultOptions())
	require.Len(t, merged, 1)
	assert.Equal(t, "A very long heading that wraps twice", merged[0].Text)
	assert.Equal(t, 16.0, merged[0].Y)
}

func TestMergeHeadingsRejects(t *testing.T) {
	base := heading("First", 50, 10)
	tests := []struct {
		name string
		next Line
	}{
		{"other page", Line{Text: "x", Font: base.Font, Size: 16, X: 50, Y: 13, Page: 2}},
		{"other font", Line{Text: "x", Font: "Arial", Size: 16, X: 50, Y: 13, Page: 1}},
		{"size differs", Line{Text: "x", Font: base.Font, Size: 16.5, X: 50, Y: 13, Page: 1}},
		{"same y", Line{Text: "x", Font: base.Font, Size: 16, X: 50, Y: 10, Page: 1}},
		{"above", Line{Text: "x", Font: base.Font, Size: 16, X: 50, Y: 7, Page: 1}},
		{"gap too wide", Line{Text: "x", Font: base.Font, Size: 16, X: 50, Y: 15, Page: 1}},
		{"not aligned", Line{Text: "x", Font: base.Font, Size: 16, X: 60, Y: 13, Page: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged := MergeHeadings([]Line{base, tt.next}, DefaultOptions())
			assert.Len(t, merged, 2)
		})
	}
}

func TestMergeHeadingsIsIdempotent(t *testing.T) {
	for _, fx := range loadFixtures(t) {
		once := MergeHeadings(AssembleLines(fx.fragments(), DefaultOptions()), DefaultOptions())
		twice := MergeHeadings(once, DefaultOptions())
		assert.Equal(t, once, twice, fx.Name)
	}

	once := MergeHeadings([]Line{
		heading("A", 50, 10),
		heading("B", 50, 13),
		heading("C", 50, 19),
		heading("D", 51, 22),
	}, DefaultOptions())
	require.Len(t, once, 2)
	assert.Equal(t, once, MergeHeadings(once, DefaultOptions()))
}

func TestMergeHeadingsLeavesInputAlone(t *testing.T) {
	lines := []Line{heading("One", 50, 10), heading("Two", 50, 13)}
	MergeHeadings(lines, DefaultOptions())
	assert.Equal(t, "One", lines[0].Text)
	assert.Equal(t, 10.0, lines[0].Y)
}
