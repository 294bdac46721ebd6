package ai

import (
	"context"
	"time"

	"github.com/thywilljoshua/pdf-outline/internal/outline"
)

// Reviewer may repair the text of an inferred outline. Implementations must
// return the input unchanged when they have nothing better to offer.
type Reviewer interface {
	Review(ctx context.Context, doc outline.Document) (outline.Document, error)
}

type Noop struct{}

func (Noop) Review(ctx context.Context, doc outline.Document) (outline.Document, error) {
	return doc, nil
}

// Accept returns revised when it only changes text: same number of entries,
// same levels and pages, no empty strings and still no two entries sharing
// (text, page). Otherwise it returns orig.
func Accept(orig, revised outline.Document) (outline.Document, bool) {
	if revised.Title == "" || len(revised.Outline) != len(orig.Outline) {
		return orig, false
	}
	type textPage struct {
		text string
		page int
	}
	seen := make(map[textPage]struct{}, len(revised.Outline))
	for i, e := range revised.Outline {
		o := orig.Outline[i]
		if e.Level != o.Level || e.Page != o.Page || e.Text == "" {
			return orig, false
		}
		k := textPage{e.Text, e.Page}
		if _, dup := seen[k]; dup {
			return orig, false
		}
		seen[k] = struct{}{}
	}
	out := outline.Document{Title: revised.Title, Outline: make([]outline.Entry, len(revised.Outline))}
	copy(out.Outline, revised.Outline)
	return out, true
}

// WithTimeout bounds every review of r by d. d <= 0 returns r unchanged.
func WithTimeout(r Reviewer, d time.Duration) Reviewer {
	if d <= 0 {
		return r
	}
	return timeoutReviewer{r: r, d: d}
}

type timeoutReviewer struct {
	r Reviewer
	d time.Duration
}

func (t timeoutReviewer) Review(ctx context.Context, doc outline.Document) (outline.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.r.Review(ctx, doc)
}
