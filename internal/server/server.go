// Package server exposes outline extraction over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/thywilljoshua/pdf-outline/internal/convert"
	"github.com/thywilljoshua/pdf-outline/internal/decode"
	"github.com/thywilljoshua/pdf-outline/internal/outline"
)

type Options struct {
	// MaxBodySize caps the uploaded document, in bytes.
	MaxBodySize int64
	// Timeout bounds one extraction; 0 disables it.
	Timeout time.Duration
}

type Server struct {
	cfg    convert.Config
	opts   Options
	logger *slog.Logger
	router *chi.Mux
}

func New(cfg convert.Config, opts Options) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = 64 << 20
	}
	s := &Server{cfg: cfg, opts: opts, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Post("/v1/outline", s.handleOutline)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}
	s.router = r
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then drains in-flight
// requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("stopping server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok\n")
}

// handleOutline reads a PDF from the request body and answers with its
// outline. POST /v1/outline[?format=tree]
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	log := s.logger.With("request_id", middleware.GetReqID(r.Context()))

	path, err := s.spool(w, r)
	if err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.As(err, &tooBig):
			http.Error(w, fmt.Sprintf("document exceeds %d bytes", tooBig.Limit), http.StatusRequestEntityTooLarge)
		case errors.Is(err, errEmptyBody):
			http.Error(w, "empty request body, send the PDF bytes", http.StatusBadRequest)
		default:
			log.Error("spool upload failed", "err", err)
			http.Error(w, "failed to read document", http.StatusInternalServerError)
		}
		return
	}
	defer os.Remove(path)

	ctx := r.Context()
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}
	cfg := s.cfg
	cfg.Logger = log
	cfg.Explain = false
	res, err := convert.Run(ctx, path, cfg)
	if err != nil {
		if errors.Is(err, decode.ErrDecode) {
			log.Warn("undecodable document", "err", err)
			http.Error(w, "document could not be decoded as PDF", http.StatusUnprocessableEntity)
			return
		}
		log.Error("outline failed", "err", err)
		http.Error(w, "outline failed", http.StatusInternalServerError)
		return
	}

	if res.Cached {
		w.Header().Set("X-Outline-Cache", "hit")
	}
	if r.URL.Query().Get("format") == "tree" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := outline.WriteTree(w, res.Document); err != nil {
			log.Warn("write response failed", "err", err)
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := outline.WriteJSON(w, res.Document); err != nil {
		log.Warn("write response failed", "err", err)
	}
}

var errEmptyBody = errors.New("empty body")

// spool copies the size-limited request body to a temporary file, since the
// extractors work on paths.
func (s *Server) spool(w http.ResponseWriter, r *http.Request) (string, error) {
	body := http.MaxBytesReader(w, r.Body, s.opts.MaxBodySize)
	defer body.Close()

	f, err := os.CreateTemp("", "pdfoutline-*.pdf")
	if err != nil {
		return "", err
	}
	n, err := io.Copy(f, body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && n == 0 {
		err = errEmptyBody
	}
	if err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
