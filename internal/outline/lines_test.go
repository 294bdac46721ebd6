package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBand(t *testing.T) {
	tests := []struct {
		y, height, want float64
	}{
		{0, 3, 0},
		{1.4, 3, 0},
		{1.6, 3, 3},
		{10, 3, 9},
		{12, 3, 12},
		{100, 3, 99},
		{102, 3, 102},
		{7, 5, 5},
		{13.5, 3, 12},
		{4.5, 3, 6},
		{-1.5, 3, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Band(tt.y, tt.height), "Band(%v, %v)", tt.y, tt.height)
	}
}

func TestRoundSize(t *testing.T) {
	assert.Equal(t, 11.0, RoundSize(11.04))
	assert.Equal(t, 11.1, RoundSize(11.05))
	assert.Equal(t, 9.9, RoundSize(9.94))
	assert.Equal(t, 24.0, RoundSize(24))
}

func TestIsBoldFont(t *testing.T) {
	tests := []struct {
		font string
		want bool
	}{
		{"Arial-BoldMT", true},
		{"ABCDEF+Helvetica-Bold", true},
		{"Helvetica,Black", true},
		{"Roboto-BlackItalic", true},
		{"TimesNewRomanPS-BoldItalicMT", true},
		{"Arial", false},
		{"Helvetica-Oblique", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsBoldFont(tt.font), tt.font)
	}
}

func TestAssembleLinesGroupsByBand(t *testing.T) {
	frags := []Fragment{
		{Text: "world", Font: "F", Size: 11, X: 60, Y: 100.4, Page: 1},
		{Text: "Hello", Font: "F", Size: 11, X: 10, Y: 99.8, Page: 1},
		{Text: "second", Font: "F", Size: 11, X: 10, Y: 120, Page: 1},
		{Text: "next page", Font: "G", Size: 9, X: 10, Y: 5, Page: 2},
	}
	lines := AssembleLines(frags, DefaultOptions())
	require.Len(t, lines, 3)

	assert.Equal(t, Line{Text: "Hello world", Font: "F", Size: 11, X: 10, Y: 99, Page: 1}, lines[0])
	assert.Equal(t, "second", lines[1].Text)
	assert.Equal(t, 1, lines[1].Page)
	assert.Equal(t, Line{Text: "next page", Font: "G", Size: 9, X: 10, Y: 6, Page: 2}, lines[2])
}

func TestAssembleLinesHalfBandJoinsLine(t *testing.T) {
	frags := []Fragment{
		{Text: "Hello", Font: "F", Size: 11, X: 10, Y: 13.5, Page: 1},
		{Text: "world", Font: "F", Size: 11, X: 60, Y: 12.9, Page: 1},
	}
	lines := AssembleLines(frags, DefaultOptions())
	require.Len(t, lines, 1)
	assert.Equal(t, "Hello world", lines[0].Text)
	assert.Equal(t, 12.0, lines[0].Y)
}

func TestAssembleLinesTakesStyleFromLeftmostFragment(t *testing.T) {
	frags := []Fragment{
		{Text: "tail", Font: "Body", Size: 10.04, X: 80, Y: 50, Page: 1},
		{Text: "Lead", Font: "Body-Bold", Size: 12.26, Bold: true, X: 20, Y: 50, Page: 1},
	}
	lines := AssembleLines(frags, DefaultOptions())
	require.Len(t, lines, 1)
	assert.Equal(t, "Lead tail", lines[0].Text)
	assert.Equal(t, "Body-Bold", lines[0].Font)
	assert.Equal(t, 12.3, lines[0].Size)
	assert.True(t, lines[0].Bold)
}

func TestAssembleLinesDropsEmptyText(t *testing.T) {
	frags := []Fragment{
		{Text: "   ", Size: 10, Page: 1},
		{Text: "", Size: 10, Page: 1},
		{Text: "  kept  ", Size: 10, Y: 3, Page: 1},
	}
	lines := AssembleLines(frags, DefaultOptions())
	require.Len(t, lines, 1)
	assert.Equal(t, "kept", lines[0].Text)

	assert.Empty(t, AssembleLines(nil, DefaultOptions()))
	assert.Empty(t, AssembleLines(frags[:2], DefaultOptions()))
}

func TestAssembleLinesDoesNotMutateInput(t *testing.T) {
	frags := []Fragment{
		{Text: " b ", Size: 10, X: 20, Y: 10, Page: 1},
		{Text: "a", Size: 10, X: 10, Y: 10, Page: 1},
	}
	before := append([]Fragment(nil), frags...)
	AssembleLines(frags, DefaultOptions())
	assert.Equal(t, before, frags)
}
