// Package batch computes outlines for every PDF in a directory.
package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/thywilljoshua/pdf-outline/internal/convert"
	"github.com/thywilljoshua/pdf-outline/internal/outline"
)

type Options struct {
	Workers int
	// Timeout bounds each document; 0 disables it.
	Timeout time.Duration
	// MetricsFile, when set, receives Convert.Metrics in Prometheus text
	// format after the run.
	MetricsFile string
	Convert     convert.Config
}

// Failure is a document that produced no outline.
type Failure struct {
	Path string
	Err  error
}

type Report struct {
	RunID     string
	Processed int
	Cached    int
	Failed    []Failure
}

// Process writes <name>.json to outDir for every *.pdf in inDir. A failing
// document is recorded in the report and does not stop the others; the
// returned error is reserved for problems with the directories themselves.
func Process(ctx context.Context, inDir, outDir string, opts Options) (Report, error) {
	rep := Report{RunID: uuid.NewString()}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	inputs, err := ListPDFs(inDir)
	if err != nil {
		return rep, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return rep, fmt.Errorf("batch: create %s: %w", outDir, err)
	}

	log := opts.Convert.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("run_id", rep.RunID)
	log.Info("batch started", "in", inDir, "out", outDir, "documents", len(inputs), "workers", workers)
	start := time.Now()

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, in := range inputs {
		g.Go(func() error {
			cached, err := processOne(gctx, in, outDir, opts, log)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Error("document failed", "path", in, "err", err)
				rep.Failed = append(rep.Failed, Failure{Path: in, Err: err})
				return nil
			}
			rep.Processed++
			if cached {
				rep.Cached++
			}
			return nil
		})
	}
	_ = g.Wait()
	sort.Slice(rep.Failed, func(i, j int) bool { return rep.Failed[i].Path < rep.Failed[j].Path })

	if opts.MetricsFile != "" && opts.Convert.Metrics != nil {
		if err := opts.Convert.Metrics.WriteTextfile(opts.MetricsFile); err != nil {
			log.Warn("write metrics textfile failed", "path", opts.MetricsFile, "err", err)
		}
	}

	log.Info("batch finished", "processed", rep.Processed, "cached", rep.Cached, "failed", len(rep.Failed), "elapsed", time.Since(start))
	return rep, ctx.Err()
}

func processOne(ctx context.Context, in, outDir string, opts Options, log *slog.Logger) (bool, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	cfg := opts.Convert
	cfg.Logger = log
	res, err := convert.Run(ctx, in, cfg)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return false, fmt.Errorf("timed out after %s: %w", opts.Timeout, err)
		}
		return false, err
	}

	var buf bytes.Buffer
	if err := outline.WriteJSON(&buf, res.Document); err != nil {
		return false, err
	}
	out := filepath.Join(outDir, OutputName(in))
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", out, err)
	}
	return res.Cached, nil
}

// ListPDFs returns the *.pdf files (extension matched case-insensitively)
// directly inside dir, sorted by name.
func ListPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("batch: read %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	return out, nil
}

// OutputName maps report.PDF to report.json.
func OutputName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".json"
}
