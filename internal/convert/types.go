package convert

import (
	"log/slog"

	"github.com/thywilljoshua/pdf-outline/internal/ai"
	"github.com/thywilljoshua/pdf-outline/internal/cache"
	"github.com/thywilljoshua/pdf-outline/internal/decode"
	"github.com/thywilljoshua/pdf-outline/internal/metrics"
	"github.com/thywilljoshua/pdf-outline/internal/outline"
)

// Config wires the collaborators of one outline run. Only Extractor is
// required; nil Cache, Reviewer and Metrics are skipped.
type Config struct {
	Extractor decode.Extractor
	Options   outline.Options
	Cache     *cache.Store
	Reviewer  ai.Reviewer
	Metrics   *metrics.Metrics
	Logger    *slog.Logger

	// Explain keeps the pipeline trace in the result. Cached results carry
	// no trace.
	Explain bool
}

type Result struct {
	Document outline.Document
	Cached   bool
	Trace    *outline.Trace
}
