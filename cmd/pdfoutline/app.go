package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/thywilljoshua/pdf-outline/internal/ai"
	"github.com/thywilljoshua/pdf-outline/internal/cache"
	"github.com/thywilljoshua/pdf-outline/internal/config"
	"github.com/thywilljoshua/pdf-outline/internal/convert"
	"github.com/thywilljoshua/pdf-outline/internal/decode"
	"github.com/thywilljoshua/pdf-outline/internal/logging"
	"github.com/thywilljoshua/pdf-outline/internal/metrics"
)

// app carries the configuration and logger shared by all subcommands.
type app struct {
	v          *viper.Viper
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
}

func newApp() *app {
	return &app{v: config.New()}
}

// bind lets an explicitly set flag override the config file and environment.
func (a *app) bind(key string, f *pflag.Flag) {
	_ = a.v.BindPFlag(key, f)
}

func (a *app) load() error {
	cfg, err := config.Load(a.v, a.configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	slog.SetDefault(logger)
	return nil
}

// convertConfig opens the collaborators the configuration asks for. release
// frees them and is never nil.
func (a *app) convertConfig(ctx context.Context, m *metrics.Metrics) (cfg convert.Config, release func(), err error) {
	release = func() {}
	cfg = convert.Config{
		Extractor: decode.NewPDF(a.cfg.Decode.Preflight, a.logger),
		Options:   a.cfg.Pipeline.Options(),
		Metrics:   m,
		Logger:    a.logger,
		Reviewer:  ai.Noop{},
	}

	if a.cfg.AI.Enabled() {
		g, err := ai.NewGemini(ctx, a.cfg.AI.APIKey, a.cfg.AI.Model, a.logger)
		if err != nil {
			return cfg, release, err
		}
		cfg.Reviewer = ai.WithTimeout(g, a.cfg.AI.Timeout)
	}

	if a.cfg.Cache.Path != "" {
		store, err := cache.Open(a.cfg.Cache.Path)
		if err != nil {
			return cfg, release, err
		}
		cfg.Cache = store
		release = func() {
			if err := store.Close(); err != nil {
				a.logger.Warn("close cache failed", "err", err)
			}
		}
	}
	return cfg, release, nil
}
