package outline

import "strings"

// Rule names reported in a Verdict.
const (
	RuleNoise        = "noise"
	RuleUnranked     = "unranked"
	RuleBoldFallback = "bold-fallback"
	RuleTitle        = "title"
	RuleBoldHeading  = "bold-heading"
	RulePlainHeading = "plain-heading"
)

// Verdict is the outcome of classifying one line: the level it was given and
// the rule that decided it.
type Verdict struct {
	Level Level
	Rule  string
}

type rule struct {
	name  string
	apply func(c *Classifier, ln Line) (Verdict, bool)
}

// rules are evaluated in order; the first that matches decides the line.
// Noise rejection runs before size lookup so that long or bulleted text set
// in a heading size is never promoted.
var rules = []rule{
	{RuleNoise, (*Classifier).noise},
	{RuleUnranked, (*Classifier).unranked},
	{RuleTitle, (*Classifier).title},
	{RuleBoldHeading, (*Classifier).boldHeading},
	{RulePlainHeading, (*Classifier).plainHeading},
}

// Classifier decides the role of single lines against a document's LevelMap.
type Classifier struct {
	levels LevelMap
	opts   Options
}

func NewClassifier(levels LevelMap, opts Options) *Classifier {
	return &Classifier{levels: levels, opts: opts}
}

// Classify returns the verdict for ln. Anything no rule accepts is body text.
func (c *Classifier) Classify(ln Line) Verdict {
	for _, r := range rules {
		if v, ok := r.apply(c, ln); ok {
			return v
		}
	}
	return Verdict{Level: LevelBody, Rule: RuleUnranked}
}

// IsNoise reports whether text looks like a sentence, bullet or label rather
// than a heading.
func IsNoise(text string, opts Options) bool {
	text = strings.TrimSpace(text)
	words := len(strings.Fields(text))
	if words > opts.MaxWords {
		return true
	}
	if strings.HasPrefix(text, "•") || strings.HasPrefix(text, "-") {
		return true
	}
	return strings.HasSuffix(text, ":") && words > opts.LabelWords
}

func (c *Classifier) noise(ln Line) (Verdict, bool) {
	if IsNoise(ln.Text, c.opts) {
		return Verdict{Level: LevelBody, Rule: RuleNoise}, true
	}
	return Verdict{}, false
}

func (c *Classifier) unranked(ln Line) (Verdict, bool) {
	if _, ok := c.levels.Lookup(ln.Size); ok {
		return Verdict{}, false
	}
	size := RoundSize(ln.Size)
	if ln.Bold && size >= c.opts.BoldBandMin && size <= c.opts.BoldBandMax {
		return Verdict{Level: c.opts.LowestHeading(), Rule: RuleBoldFallback}, true
	}
	return Verdict{Level: LevelBody, Rule: RuleUnranked}, true
}

func (c *Classifier) title(ln Line) (Verdict, bool) {
	if l, _ := c.levels.Lookup(ln.Size); l == LevelTitle {
		return Verdict{Level: LevelTitle, Rule: RuleTitle}, true
	}
	return Verdict{}, false
}

func (c *Classifier) boldHeading(ln Line) (Verdict, bool) {
	if l, _ := c.levels.Lookup(ln.Size); l.IsHeading() && ln.Bold {
		return Verdict{Level: l, Rule: RuleBoldHeading}, true
	}
	return Verdict{}, false
}

func (c *Classifier) plainHeading(ln Line) (Verdict, bool) {
	if l, _ := c.levels.Lookup(ln.Size); l.IsHeading() && !ln.Bold {
		return Verdict{Level: LevelBody, Rule: RulePlainHeading}, true
	}
	return Verdict{}, false
}

// RuleOrder lists the rule names in evaluation order.
func RuleOrder() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	return names
}
