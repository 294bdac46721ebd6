// Package outline infers a document outline (title and leveled headings)
// from positioned text fragments.
//
// The pipeline runs in fixed stages, each consuming the full output of the
// previous one:
//
//	fragments -> AssembleLines -> MergeHeadings -> RankStyles
//	          -> Classifier    -> Assemble      -> Document
//
// Every stage is a pure function of its input and Options, so the same
// fragments always produce the same Document.
package outline

// Trace is the full intermediate state of one pipeline run.
type Trace struct {
	Lines      []Line
	Merged     []Line
	Levels     LevelMap
	Classified []Classified
	Document   Document
}

// Build runs the pipeline over frags.
func Build(frags []Fragment, opts Options) Document {
	return Run(frags, opts).Document
}

// Run runs the pipeline and keeps every intermediate stage. Callers should
// pass options that passed Validate; out-of-range heading depths are clamped
// rather than rejected here.
func Run(frags []Fragment, opts Options) Trace {
	var t Trace
	t.Lines = AssembleLines(frags, opts)
	t.Merged = MergeHeadings(t.Lines, opts)
	t.Levels = RankStyles(t.Merged, opts.HeadingDepth)

	c := NewClassifier(t.Levels, opts)
	t.Classified = make([]Classified, len(t.Merged))
	for i, ln := range t.Merged {
		t.Classified[i] = Classified{Line: ln, Verdict: c.Classify(ln)}
	}
	t.Document = Assemble(t.Classified, opts.Placeholder)
	return t
}
