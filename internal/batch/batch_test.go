package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thywilljoshua/pdf-outline/internal/convert"
	"github.com/thywilljoshua/pdf-outline/internal/decode"
	"github.com/thywilljoshua/pdf-outline/internal/logging"
	"github.com/thywilljoshua/pdf-outline/internal/metrics"
	"github.com/thywilljoshua/pdf-outline/internal/outline"
)

// fakeExtractor serves fragments by file base name; "bad" fails to decode and
// "slow" blocks until the context ends.
var fakeExtractor = decode.ExtractorFunc(func(ctx context.Context, path string) ([]outline.Fragment, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	switch name {
	case "bad":
		return nil, fmt.Errorf("%w: broken xref", decode.ErrDecode)
	case "slow":
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return []outline.Fragment{
		{Text: strings.ToUpper(name), Size: 20, X: 10, Y: 10, Page: 1},
		{Text: "Overview", Size: 14, Bold: true, X: 10, Y: 40, Page: 1},
		{Text: "Plain body text.", Size: 10, X: 10, Y: 60, Page: 1},
	}, nil
})

func writeInputs(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("%PDF-"+n), 0o644))
	}
	return dir
}

func options() Options {
	return Options{
		Workers: 2,
		Convert: convert.Config{
			Extractor: fakeExtractor,
			Options:   outline.DefaultOptions(),
			Logger:    logging.Discard(),
		},
	}
}

func readDoc(t *testing.T, path string) outline.Document {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc outline.Document
	require.NoError(t, json.Unmarshal(b, &doc))
	return doc
}

func TestProcess(t *testing.T) {
	in := writeInputs(t, "alpha.pdf", "Beta.PDF", "bad.pdf", "notes.txt")
	require.NoError(t, os.Mkdir(filepath.Join(in, "nested.pdf"), 0o755))
	out := filepath.Join(t.TempDir(), "out")

	rep, err := Process(context.Background(), in, out, options())
	require.NoError(t, err)
	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, 2, rep.Processed)
	require.Len(t, rep.Failed, 1)
	assert.Equal(t, filepath.Join(in, "bad.pdf"), rep.Failed[0].Path)
	assert.ErrorIs(t, rep.Failed[0].Err, decode.ErrDecode)

	alpha := readDoc(t, filepath.Join(out, "alpha.json"))
	assert.Equal(t, "ALPHA", alpha.Title)
	assert.Equal(t, []outline.Entry{{Level: outline.LevelH1, Text: "Overview", Page: 1}}, alpha.Outline)
	assert.FileExists(t, filepath.Join(out, "Beta.json"))
	assert.NoFileExists(t, filepath.Join(out, "bad.json"))
	assert.NoFileExists(t, filepath.Join(out, "notes.json"))
}

func TestProcessTimeout(t *testing.T) {
	in := writeInputs(t, "slow.pdf", "quick.pdf")
	out := t.TempDir()
	opts := options()
	opts.Timeout = 20 * time.Millisecond

	rep, err := Process(context.Background(), in, out, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Processed)
	require.Len(t, rep.Failed, 1)
	assert.ErrorIs(t, rep.Failed[0].Err, context.DeadlineExceeded)
	assert.FileExists(t, filepath.Join(out, "quick.json"))
}

func TestProcessMetricsFile(t *testing.T) {
	in := writeInputs(t, "a.pdf", "bad.pdf")
	opts := options()
	opts.Convert.Metrics = metrics.New()
	opts.MetricsFile = filepath.Join(t.TempDir(), "pdfoutline.prom")

	_, err := Process(context.Background(), in, t.TempDir(), opts)
	require.NoError(t, err)

	b, err := os.ReadFile(opts.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(b), `pdfoutline_documents_total{status="ok"} 1`)
	assert.Contains(t, string(b), `pdfoutline_documents_total{status="failed"} 1`)
}

func TestProcessMissingInput(t *testing.T) {
	_, err := Process(context.Background(), filepath.Join(t.TempDir(), "nope"), t.TempDir(), options())
	assert.Error(t, err)
}

func TestProcessEmptyDirectory(t *testing.T) {
	rep, err := Process(context.Background(), t.TempDir(), t.TempDir(), options())
	require.NoError(t, err)
	assert.Zero(t, rep.Processed)
	assert.Empty(t, rep.Failed)
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "report.json", OutputName("/in/report.PDF"))
	assert.Equal(t, "a.b.json", OutputName("a.b.pdf"))
}
