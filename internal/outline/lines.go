package outline

import (
	"math"
	"sort"
	"strings"
)

// Band quantizes a vertical position so fragments on the same visual line
// share a key. Halves round to even.
func Band(y, height float64) float64 {
	return math.RoundToEven(y/height) * height
}

// RoundSize rounds a font size to one decimal so sizes compare stably.
func RoundSize(size float64) float64 {
	return math.Round(size*10) / 10
}

// IsBoldFont reports whether a font name carries a bold style token, e.g.
// "Arial-BoldMT" or "Helvetica,Black".
func IsBoldFont(name string) bool {
	if i := strings.IndexByte(name, '+'); i >= 0 {
		name = name[i+1:]
	}
	tokens := strings.FieldsFunc(name, func(r rune) bool { return r == '-' || r == ',' })
	for _, tok := range tokens {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if strings.Contains(tok, "bold") || strings.Contains(tok, "black") {
			return true
		}
	}
	return false
}

type bandKey struct {
	page int
	band float64
}

// AssembleLines groups fragments into visual lines. Fragments are ordered by
// (page, y, x), partitioned by (page, band) and joined left to right. A line
// takes its size, font and boldness from its leftmost fragment.
func AssembleLines(frags []Fragment, opts Options) []Line {
	kept := make([]Fragment, 0, len(frags))
	for _, f := range frags {
		f.Text = strings.TrimSpace(f.Text)
		if f.Text == "" {
			continue
		}
		kept = append(kept, f)
	}
	if len(kept) == 0 {
		return nil
	}

	sort.SliceStable(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})

	// Band is monotonic in y, so first appearance after the sort is already
	// (page, band) order.
	var groups [][]Fragment
	index := make(map[bandKey]int)
	var keys []bandKey
	for _, f := range kept {
		k := bandKey{page: f.Page, band: Band(f.Y, opts.BandHeight)}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, nil)
			keys = append(keys, k)
		}
		groups[i] = append(groups[i], f)
	}

	lines := make([]Line, 0, len(groups))
	for i, g := range groups {
		lines = append(lines, joinGroup(g, keys[i]))
	}
	return lines
}

func joinGroup(group []Fragment, key bandKey) Line {
	sort.SliceStable(group, func(i, j int) bool { return group[i].X < group[j].X })
	parts := make([]string, len(group))
	for i, f := range group {
		parts[i] = f.Text
	}
	first := group[0]
	return Line{
		Text: strings.TrimSpace(strings.Join(parts, " ")),
		Font: first.Font,
		Size: RoundSize(first.Size),
		Bold: first.Bold,
		X:    first.X,
		Y:    key.band,
		Page: key.page,
	}
}
