package diff

import "github.com/sergi/go-diff/diffmatchpatch"

// Span is a run of text inside a changed line pair.
type Span struct {
	Op   LineOp // OpContext for text common to both lines
	Text string
}

// WordDiff splits a removed/added line pair into spans so the changed
// characters can be emphasised. Spans with OpRemoved belong only to the old
// line, OpAdded only to the new one.
func WordDiff(removed, added string) []Span {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(removed, added, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	spans := make([]Span, 0, len(diffs))
	for _, d := range diffs {
		op := OpContext
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = OpAdded
		case diffmatchpatch.DiffDelete:
			op = OpRemoved
		}
		spans = append(spans, Span{Op: op, Text: d.Text})
	}
	return spans
}

// Side filters spans to the ones visible on one side of the pair: OpRemoved
// for the old line, OpAdded for the new line.
func Side(spans []Span, side LineOp) []Span {
	out := make([]Span, 0, len(spans))
	for _, s := range spans {
		if s.Op == OpContext || s.Op == side {
			out = append(out, s)
		}
	}
	return out
}
