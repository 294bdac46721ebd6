package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/thywilljoshua/pdf-outline/internal/cache"
	"github.com/thywilljoshua/pdf-outline/internal/decode"
	"github.com/thywilljoshua/pdf-outline/internal/metrics"
	"github.com/thywilljoshua/pdf-outline/internal/outline"
)

// Run infers the outline of the document at path.
func Run(ctx context.Context, path string, cfg Config) (Result, error) {
	if cfg.Extractor == nil {
		return Result{}, errors.New("convert: no extractor configured")
	}
	if err := cfg.Options.Validate(); err != nil {
		return Result{}, fmt.Errorf("convert: %w", err)
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("path", path)
	start := time.Now()

	res, err := run(ctx, path, cfg, log)
	if err != nil {
		cfg.Metrics.Observe(metrics.StatusFailed, time.Since(start), 0)
		return Result{}, err
	}

	if cfg.Reviewer != nil {
		reviewed, err := cfg.Reviewer.Review(ctx, res.Document)
		if err != nil {
			log.Warn("review failed, keeping heuristic outline", "err", err)
		} else {
			res.Document = reviewed
		}
	}

	status := metrics.StatusOK
	if res.Cached {
		status = metrics.StatusCached
	}
	cfg.Metrics.Observe(status, time.Since(start), len(res.Document.Outline))
	log.Info("outline ready", "title", res.Document.Title, "entries", len(res.Document.Outline), "cached", res.Cached, "elapsed", time.Since(start))
	return res, nil
}

func run(ctx context.Context, path string, cfg Config, log *slog.Logger) (Result, error) {
	var key string
	if cfg.Cache != nil {
		k, err := cache.KeyFile(path, cfg.Options, fingerprint(cfg.Extractor))
		if err != nil {
			log.Warn("cache key failed", "err", err)
		} else if doc, ok, err := cfg.Cache.Get(ctx, k); err != nil {
			log.Warn("cache lookup failed", "err", err)
		} else if ok && !cfg.Explain {
			return Result{Document: doc, Cached: true}, nil
		}
		key = k
	}

	frags, err := cfg.Extractor.Extract(ctx, path)
	if err != nil {
		return Result{}, fmt.Errorf("extract %s: %w", path, err)
	}

	trace := outline.Run(frags, cfg.Options)
	for _, c := range trace.Classified {
		if c.Verdict.Rule == outline.RuleBoldFallback {
			log.Debug("bold text without a ranked size", "text", c.Line.Text, "size", c.Line.Size, "font", c.Line.Font, "level", c.Verdict.Level)
		}
	}
	if len(frags) == 0 {
		log.Info("no text fragments, empty outline")
	}

	if cfg.Cache != nil && key != "" {
		if err := cfg.Cache.Put(ctx, key, trace.Document); err != nil {
			log.Warn("cache store failed", "err", err)
		}
	}

	res := Result{Document: trace.Document}
	if cfg.Explain {
		res.Trace = &trace
	}
	return res, nil
}

func fingerprint(e decode.Extractor) string {
	if f, ok := e.(decode.Fingerprinter); ok {
		return f.Fingerprint()
	}
	return fmt.Sprintf("%T", e)
}
