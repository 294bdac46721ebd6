package outline

import "strings"

// Classified pairs a merged line with its verdict.
type Classified struct {
	Line    Line
	Verdict Verdict
}

type entryKey struct {
	text string
	page int
}

// accumulator is folded over classified lines in document order.
type accumulator struct {
	title   []string
	entries []Entry
	seen    map[entryKey]struct{}
}

func (a accumulator) add(c Classified) accumulator {
	switch {
	case c.Verdict.Level == LevelTitle:
		a.title = append(a.title, c.Line.Text)
	case c.Verdict.Level.IsHeading():
		k := entryKey{text: c.Line.Text, page: c.Line.Page}
		if _, dup := a.seen[k]; dup {
			return a
		}
		a.seen[k] = struct{}{}
		a.entries = append(a.entries, Entry{Level: c.Verdict.Level, Text: c.Line.Text, Page: c.Line.Page})
	}
	return a
}

// Assemble builds the document outline from classified lines. All title lines
// contribute to the title; headings repeated on the same page are kept once.
func Assemble(classified []Classified, placeholder string) Document {
	acc := accumulator{seen: make(map[entryKey]struct{}), entries: []Entry{}}
	for _, c := range classified {
		acc = acc.add(c)
	}
	title := strings.TrimSpace(strings.Join(acc.title, " "))
	if title == "" {
		title = placeholder
	}
	return Document{Title: title, Outline: acc.entries}
}
