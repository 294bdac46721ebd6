package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thywilljoshua/pdf-outline/internal/convert"
	"github.com/thywilljoshua/pdf-outline/internal/decode"
	"github.com/thywilljoshua/pdf-outline/internal/logging"
	"github.com/thywilljoshua/pdf-outline/internal/metrics"
	"github.com/thywilljoshua/pdf-outline/internal/outline"
)

// stubExtractor decides by the uploaded bytes: "bad" is undecodable, "boom"
// fails for another reason, anything else yields a small outline.
var stubExtractor = decode.ExtractorFunc(func(ctx context.Context, path string) ([]outline.Fragment, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch string(b) {
	case "bad":
		return nil, fmt.Errorf("%w: not a PDF", decode.ErrDecode)
	case "boom":
		return nil, fmt.Errorf("disk on fire")
	}
	return []outline.Fragment{
		{Text: "Guide", Size: 22, X: 10, Y: 10, Page: 1},
		{Text: "Setup", Size: 15, Bold: true, X: 10, Y: 50, Page: 1},
		{Text: "Details", Size: 12, Bold: true, X: 10, Y: 80, Page: 2},
		{Text: "Regular body text.", Size: 10, X: 10, Y: 100, Page: 2},
	}, nil
})

func newTestServer(m *metrics.Metrics, maxBody int64) http.Handler {
	return New(convert.Config{
		Extractor: stubExtractor,
		Options:   outline.DefaultOptions(),
		Metrics:   m,
		Logger:    logging.Discard(),
	}, Options{MaxBodySize: maxBody}).Handler()
}

func post(h http.Handler, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestOutline(t *testing.T) {
	rec := post(newTestServer(nil, 0), "/v1/outline", "%PDF-1.7")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var doc outline.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, outline.Document{
		Title: "Guide",
		Outline: []outline.Entry{
			{Level: outline.LevelH1, Text: "Setup", Page: 1},
			{Level: outline.LevelH2, Text: "Details", Page: 2},
		},
	}, doc)
}

func TestOutlineTree(t *testing.T) {
	rec := post(newTestServer(nil, 0), "/v1/outline?format=tree", "%PDF-1.7")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Guide\n  H1 Setup (p. 1)\n    H2 Details (p. 2)\n", rec.Body.String())
}

func TestOutlineErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		maxBody int64
		want    int
	}{
		{"decode failure", "bad", 0, http.StatusUnprocessableEntity},
		{"internal failure", "boom", 0, http.StatusInternalServerError},
		{"empty body", "", 0, http.StatusBadRequest},
		{"too large", "%PDF-1.7 and a lot more", 8, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(newTestServer(nil, tt.maxBody), "/v1/outline", tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestDecodeFailureHidesServerPaths(t *testing.T) {
	rec := post(newTestServer(nil, 0), "/v1/outline", "bad")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "document could not be decoded as PDF\n", rec.Body.String())
	assert.NotContains(t, rec.Body.String(), os.TempDir())
	assert.NotContains(t, rec.Body.String(), "pdfoutline-")
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestServer(metrics.New(), 0)
	post(h, "/v1/outline", "%PDF-1.7")
	post(h, "/v1/outline", "bad")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `pdfoutline_documents_total{status="ok"} 1`)
	assert.Contains(t, body, `pdfoutline_documents_total{status="failed"} 1`)
}

func TestMetricsRouteAbsentWithoutMetrics(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(nil, 0).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(nil, 0).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/outline", bytes.NewReader(nil)))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
