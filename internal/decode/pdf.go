package decode

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/thywilljoshua/pdf-outline/internal/outline"
	rpdf "rsc.io/pdf"
)

// Letter-size fallback when a page has no usable MediaBox.
const defaultPageHeight = 792.0

// PDF extracts fragments with rsc.io/pdf. The reader reports one text item
// per glyph, so consecutive glyphs sharing font, size and baseline are
// coalesced into a fragment first.
type PDF struct {
	// Preflight validates the file with pdfcpu before decoding.
	Preflight bool
	Logger    *slog.Logger
}

func NewPDF(preflight bool, logger *slog.Logger) *PDF {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDF{Preflight: preflight, Logger: logger}
}

// Fingerprint identifies the decoder and its settings.
func (d *PDF) Fingerprint() string {
	return fmt.Sprintf("rsc.io/pdf preflight=%t", d.Preflight)
}

func (d *PDF) Extract(ctx context.Context, path string) (frags []outline.Fragment, err error) {
	if d.Preflight {
		pages, err := Preflight(path)
		if err != nil {
			return nil, err
		}
		d.Logger.Debug("preflight ok", "path", path, "pages", pages)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	// rsc.io/pdf reports malformed input by panicking.
	defer func() {
		if r := recover(); r != nil {
			frags = nil
			err = fmt.Errorf("%w: %s: %v", ErrDecode, path, r)
		}
	}()

	doc, err := rpdf.NewReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}

	n := doc.NumPage()
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := doc.Page(i)
		if p.V.IsNull() {
			continue
		}
		content := p.Content()
		_, bottom, top := mediaBox(p)
		frags = append(frags, coalesce(content.Text, i, top, bottom)...)
	}
	d.Logger.Debug("decoded", "path", path, "pages", n, "fragments", len(frags))
	return frags, nil
}

// mediaBox returns the page's lower-left x, lower-left y and upper-right y,
// following Parent links for inherited boxes.
func mediaBox(p rpdf.Page) (llx, lly, ury float64) {
	for v := p.V; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.Kind() == rpdf.Array && box.Len() == 4 {
			lly, ury = box.Index(1).Float64(), box.Index(3).Float64()
			if ury > lly {
				return box.Index(0).Float64(), lly, ury
			}
		}
	}
	return 0, 0, defaultPageHeight
}

// Glyphs further apart than maxGap font sizes start a new fragment; a gap of
// more than spaceGap font sizes inside a fragment becomes a space.
const (
	maxGap   = 3.0
	spaceGap = 0.25
)

type run struct {
	font string
	size float64
	x    float64
	y    float64
	end  float64
	text strings.Builder
}

func (r *run) accepts(t rpdf.Text) bool {
	if t.Font != r.font || math.Abs(t.FontSize-r.size) > 0.01 || math.Abs(t.Y-r.y) > 0.5 {
		return false
	}
	gap := t.X - r.end
	return gap >= -0.5*r.size && gap <= maxGap*r.size
}

func (r *run) add(t rpdf.Text) {
	if gap := t.X - r.end; gap > spaceGap*r.size && !strings.HasSuffix(r.text.String(), " ") {
		r.text.WriteByte(' ')
	}
	r.text.WriteString(t.S)
	r.end = t.X + t.W
}

func (r *run) fragment(page int, top float64) (outline.Fragment, bool) {
	txt := strings.Join(strings.Fields(r.text.String()), " ")
	if txt == "" {
		return outline.Fragment{}, false
	}
	font := baseFont(r.font)
	return outline.Fragment{
		Text: txt,
		Font: font,
		Size: r.size,
		Bold: outline.IsBoldFont(font),
		X:    r.x,
		Y:    top - r.y - r.size,
		Page: page,
	}, true
}

// coalesce merges per-glyph text items into fragments and flips y to a
// top-left origin.
func coalesce(texts []rpdf.Text, page int, top, bottom float64) []outline.Fragment {
	var out []outline.Fragment
	var cur *run
	flush := func() {
		if cur == nil {
			return
		}
		if f, ok := cur.fragment(page, top); ok {
			out = append(out, f)
		}
		cur = nil
	}
	for _, t := range texts {
		if t.S == "" || t.Y < bottom-t.FontSize {
			continue
		}
		if cur != nil && cur.accepts(t) {
			cur.add(t)
			continue
		}
		flush()
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		cur = &run{font: t.Font, size: t.FontSize, x: t.X, y: t.Y, end: t.X + t.W}
		cur.text.WriteString(t.S)
	}
	flush()
	return out
}

// baseFont strips the six-letter subset tag, e.g. "ABCDEF+Arial-BoldMT".
func baseFont(name string) string {
	if i := strings.IndexByte(name, '+'); i == 6 {
		return name[i+1:]
	}
	return name
}
