// Package decode turns page-based documents into positioned text fragments
// for the outline pipeline.
package decode

import (
	"context"
	"errors"

	"github.com/thywilljoshua/pdf-outline/internal/outline"
)

// ErrDecode marks documents that could not be opened or parsed.
var ErrDecode = errors.New("decode failure")

// Extractor yields the text fragments of a document, pages ascending.
// Fragments with whitespace-only text are never returned.
type Extractor interface {
	Extract(ctx context.Context, path string) ([]outline.Fragment, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, path string) ([]outline.Fragment, error)

func (f ExtractorFunc) Extract(ctx context.Context, path string) ([]outline.Fragment, error) {
	return f(ctx, path)
}

// Fingerprinter is implemented by extractors whose settings change their
// output, so caches can tell results apart.
type Fingerprinter interface {
	Fingerprint() string
}
