package outline

import "fmt"

// Options holds the static thresholds used by every pipeline stage.
type Options struct {
	// BandHeight quantizes y positions when assembling lines.
	BandHeight float64 `json:"band_height"`

	// Heading merge adjacency thresholds.
	SizeEpsilon    float64 `json:"size_epsilon"`
	GapThreshold   float64 `json:"gap_threshold"`
	AlignThreshold float64 `json:"align_threshold"`

	// HeadingDepth is the number of heading roles below Title (3 = H1..H3).
	HeadingDepth int `json:"heading_depth"`

	// Noise rejection.
	MaxWords   int `json:"max_words"`
	LabelWords int `json:"label_words"`

	// Bold text in [BoldBandMin, BoldBandMax] without a ranked size becomes
	// the lowest heading level.
	BoldBandMin float64 `json:"bold_band_min"`
	BoldBandMax float64 `json:"bold_band_max"`

	Placeholder string `json:"placeholder"`
}

// DefaultOptions returns the reference thresholds.
func DefaultOptions() Options {
	return Options{
		BandHeight:     3.0,
		SizeEpsilon:    0.5,
		GapThreshold:   5,
		AlignThreshold: 10,
		HeadingDepth:   3,
		MaxWords:       12,
		LabelWords:     5,
		BoldBandMin:    9,
		BoldBandMax:    11,
		Placeholder:    "Untitled",
	}
}

// Validate rejects thresholds the pipeline cannot work with.
func (o Options) Validate() error {
	if o.BandHeight <= 0 {
		return fmt.Errorf("band_height must be > 0, got %v", o.BandHeight)
	}
	if o.HeadingDepth < 1 || o.HeadingDepth > MaxHeadingDepth {
		return fmt.Errorf("heading_depth must be in [1, %d], got %d", MaxHeadingDepth, o.HeadingDepth)
	}
	if o.MaxWords < 1 {
		return fmt.Errorf("max_words must be >= 1, got %d", o.MaxWords)
	}
	if o.BoldBandMin > o.BoldBandMax {
		return fmt.Errorf("bold band is empty: [%v, %v]", o.BoldBandMin, o.BoldBandMax)
	}
	if o.SizeEpsilon < 0 || o.GapThreshold < 0 || o.AlignThreshold < 0 {
		return fmt.Errorf("merge thresholds must be >= 0")
	}
	return nil
}

// LowestHeading is the level used for bold text that has no ranked size.
// Out-of-range depths fall back to H1 or H4.
func (o Options) LowestHeading() Level {
	return Heading(max(1, min(o.HeadingDepth, MaxHeadingDepth)))
}
