package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/thywilljoshua/pdf-outline/internal/outline"
)

// Config holds all settings of the pdfoutline tool.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Decode   DecodeConfig   `mapstructure:"decode"`
	Batch    BatchConfig    `mapstructure:"batch"`
	Cache    CacheConfig    `mapstructure:"cache"`
	AI       AIConfig       `mapstructure:"ai"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Server   ServerConfig   `mapstructure:"server"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text, json
}

// PipelineConfig mirrors outline.Options.
type PipelineConfig struct {
	BandHeight     float64 `mapstructure:"band_height"`
	SizeEpsilon    float64 `mapstructure:"size_epsilon"`
	GapThreshold   float64 `mapstructure:"gap_threshold"`
	AlignThreshold float64 `mapstructure:"align_threshold"`
	HeadingDepth   int     `mapstructure:"heading_depth"`
	MaxWords       int     `mapstructure:"max_words"`
	LabelWords     int     `mapstructure:"label_words"`
	BoldBandMin    float64 `mapstructure:"bold_band_min"`
	BoldBandMax    float64 `mapstructure:"bold_band_max"`
	Placeholder    string  `mapstructure:"placeholder"`
}

// Options converts the pipeline section to outline options.
func (p PipelineConfig) Options() outline.Options {
	return outline.Options{
		BandHeight:     p.BandHeight,
		SizeEpsilon:    p.SizeEpsilon,
		GapThreshold:   p.GapThreshold,
		AlignThreshold: p.AlignThreshold,
		HeadingDepth:   p.HeadingDepth,
		MaxWords:       p.MaxWords,
		LabelWords:     p.LabelWords,
		BoldBandMin:    p.BoldBandMin,
		BoldBandMax:    p.BoldBandMax,
		Placeholder:    p.Placeholder,
	}
}

type DecodeConfig struct {
	Preflight bool `mapstructure:"preflight"`
}

// BatchConfig controls directory processing.
type BatchConfig struct {
	Workers int           `mapstructure:"workers"`
	Timeout time.Duration `mapstructure:"timeout"` // per document, 0 disables
}

func (b BatchConfig) Validate() error {
	if b.Workers < 1 {
		return fmt.Errorf("batch.workers must be >= 1, got %d", b.Workers)
	}
	if b.Timeout < 0 {
		return fmt.Errorf("batch.timeout must be >= 0, got %s", b.Timeout)
	}
	return nil
}

// CacheConfig enables the sqlite outline cache when Path is set.
type CacheConfig struct {
	Path string `mapstructure:"path"`
}

// AIConfig configures the optional outline reviewer.
type AIConfig struct {
	Provider string        `mapstructure:"provider"` // off, gemini
	Model    string        `mapstructure:"model"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func (a AIConfig) Validate() error {
	switch strings.ToLower(a.Provider) {
	case "", "off":
		return nil
	case "gemini":
		if a.APIKey == "" {
			return errors.New("ai.api_key (or GOOGLE_API_KEY) is required when ai.provider is gemini")
		}
		return nil
	default:
		return fmt.Errorf("ai.provider must be off or gemini, got %q", a.Provider)
	}
}

// Enabled reports whether a reviewer other than the no-op is configured.
func (a AIConfig) Enabled() bool {
	p := strings.ToLower(a.Provider)
	return p != "" && p != "off"
}

// MetricsConfig sets where batch metrics are written in Prometheus text format.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

type ServerConfig struct {
	Address     string        `mapstructure:"address"`
	MaxBodySize int64         `mapstructure:"max_body_size"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

func (s ServerConfig) Validate() error {
	if s.MaxBodySize <= 0 {
		return fmt.Errorf("server.max_body_size must be > 0, got %d", s.MaxBodySize)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	def := outline.DefaultOptions()
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("pipeline.band_height", def.BandHeight)
	v.SetDefault("pipeline.size_epsilon", def.SizeEpsilon)
	v.SetDefault("pipeline.gap_threshold", def.GapThreshold)
	v.SetDefault("pipeline.align_threshold", def.AlignThreshold)
	v.SetDefault("pipeline.heading_depth", def.HeadingDepth)
	v.SetDefault("pipeline.max_words", def.MaxWords)
	v.SetDefault("pipeline.label_words", def.LabelWords)
	v.SetDefault("pipeline.bold_band_min", def.BoldBandMin)
	v.SetDefault("pipeline.bold_band_max", def.BoldBandMax)
	v.SetDefault("pipeline.placeholder", def.Placeholder)
	v.SetDefault("decode.preflight", true)
	v.SetDefault("batch.workers", 4)
	v.SetDefault("batch.timeout", 0)
	v.SetDefault("cache.path", "")
	v.SetDefault("ai.provider", "off")
	v.SetDefault("ai.model", "gemini-2.5-flash")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.max_body_size", 64<<20)
	v.SetDefault("server.timeout", 2*time.Minute)
}

// New returns a viper instance with defaults and PDFOUTLINE_* environment
// overrides. Callers may bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("PDFOUTLINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("ai.api_key", "PDFOUTLINE_AI_API_KEY", "GOOGLE_API_KEY")
	return v
}

// Load reads the optional config file at path into v and validates the result.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Pipeline.Options().Validate(); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if err := c.Batch.Validate(); err != nil {
		return err
	}
	if err := c.AI.Validate(); err != nil {
		return err
	}
	return c.Server.Validate()
}
