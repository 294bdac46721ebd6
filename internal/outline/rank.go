package outline

import "sort"

// LevelMap assigns roles to the largest distinct font sizes of a document.
// It is built once per document and never modified afterwards.
type LevelMap struct {
	sizes  []float64
	levels map[float64]Level
}

// RankStyles ranks the distinct rounded sizes of lines in descending order
// and maps rank 0 to Title and the next ranks to H1..H<depth>. depth is
// clamped to [0, MaxHeadingDepth].
func RankStyles(lines []Line, depth int) LevelMap {
	depth = max(0, min(depth, MaxHeadingDepth))
	seen := make(map[float64]struct{})
	var sizes []float64
	for _, ln := range lines {
		s := RoundSize(ln.Size)
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		sizes = append(sizes, s)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sizes)))

	roles := depth + 1
	if len(sizes) < roles {
		roles = len(sizes)
	}
	m := LevelMap{
		sizes:  sizes[:roles:roles],
		levels: make(map[float64]Level, roles),
	}
	for i, s := range m.sizes {
		m.levels[s] = LevelTitle + Level(i)
	}
	return m
}

// Lookup returns the role assigned to size, if any.
func (m LevelMap) Lookup(size float64) (Level, bool) {
	l, ok := m.levels[RoundSize(size)]
	return l, ok
}

// Sizes returns the ranked sizes, largest first.
func (m LevelMap) Sizes() []float64 {
	return append([]float64(nil), m.sizes...)
}

// Len is the number of roles assigned.
func (m LevelMap) Len() int { return len(m.sizes) }
