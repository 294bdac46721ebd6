package outline

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Fragment is one positioned run of styled text as emitted by a decoder.
// Y grows downwards from the top of the page; Page is 1-based.
type Fragment struct {
	Text string
	Font string
	Size float64
	Bold bool
	X    float64
	Y    float64
	Page int
}

// Line is a group of fragments that share a page and a vertical band.
type Line struct {
	Text string
	Font string
	Size float64
	Bold bool
	X    float64
	Y    float64
	Page int
}

// Level is the semantic role of a line.
type Level int

const (
	LevelBody Level = iota
	LevelTitle
	LevelH1
	LevelH2
	LevelH3
	LevelH4
)

// MaxHeadingDepth is the deepest heading level the ranker can assign.
const MaxHeadingDepth = int(LevelH4 - LevelTitle)

// IsHeading reports whether l is H1 or deeper.
func (l Level) IsHeading() bool { return l >= LevelH1 && l <= LevelH4 }

// Heading returns the heading level for depth n (1 = H1).
func Heading(n int) Level { return LevelTitle + Level(n) }

func (l Level) String() string {
	switch {
	case l == LevelTitle:
		return "Title"
	case l.IsHeading():
		return "H" + strconv.Itoa(int(l-LevelTitle))
	default:
		return "body"
	}
}

func (l Level) MarshalText() ([]byte, error) {
	if l != LevelTitle && !l.IsHeading() {
		return nil, fmt.Errorf("outline: level %d has no text form", int(l))
	}
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(b []byte) error {
	s := string(b)
	switch {
	case strings.EqualFold(s, "title"):
		*l = LevelTitle
		return nil
	case len(s) == 2 && (s[0] == 'H' || s[0] == 'h'):
		n, err := strconv.Atoi(s[1:])
		if err == nil && n >= 1 && n <= MaxHeadingDepth {
			*l = Heading(n)
			return nil
		}
	}
	return fmt.Errorf("outline: unknown level %q", s)
}

// Entry is one heading of the final outline.
type Entry struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// Document is the outline inferred for one input document.
type Document struct {
	Title   string  `json:"title"`
	Outline []Entry `json:"outline"`
}

// WriteJSON writes doc as two-space indented JSON followed by a newline.
// A nil outline is written as an empty array.
func WriteJSON(w io.Writer, doc Document) error {
	if doc.Outline == nil {
		doc.Outline = []Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(doc)
}
