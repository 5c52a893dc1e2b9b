package diff

import "fmt"

// LineOp tags a hunk body line.
type LineOp int

const (
	OpContext LineOp = iota
	OpRemoved
	OpAdded
)

// Prefix is the unified diff prefix character for op.
func (op LineOp) Prefix() string {
	switch op {
	case OpRemoved:
		return "-"
	case OpAdded:
		return "+"
	default:
		return " "
	}
}

func (op LineOp) String() string {
	switch op {
	case OpRemoved:
		return "removed"
	case OpAdded:
		return "added"
	default:
		return "context"
	}
}

// TaggedLine is one body line of a hunk, without its prefix.
type TaggedLine struct {
	Op   LineOp
	Text string
}

// Hunk is a contiguous region of the original text and its replacement.
// OldStart is the 1-based number of the first original line the hunk
// covers; for a pure insertion it is the line the insertion goes before.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Header   string
	Lines    []TaggedLine
}

// End is the first original line after the hunk.
func (h Hunk) End() int { return h.OldStart + h.OldCount }

// Original returns the context and removed lines, i.e. the hunk's span of
// the current content.
func (h Hunk) Original() []string {
	return h.texts(OpRemoved)
}

// Result returns the context and added lines, i.e. the hunk's span after
// the change is accepted.
func (h Hunk) Result() []string {
	return h.texts(OpAdded)
}

func (h Hunk) texts(keep LineOp) []string {
	out := make([]string, 0, len(h.Lines))
	for _, l := range h.Lines {
		if l.Op == OpContext || l.Op == keep {
			out = append(out, l.Text)
		}
	}
	return out
}

// Counts returns the number of added and removed lines.
func (h Hunk) Counts() (added, removed int) {
	for _, l := range h.Lines {
		switch l.Op {
		case OpAdded:
			added++
		case OpRemoved:
			removed++
		}
	}
	return
}

// Title is a short human label for prompts, e.g. "lines 12-15".
func (h Hunk) Title() string {
	switch {
	case h.OldCount == 0:
		return fmt.Sprintf("insert before line %d", h.OldStart)
	case h.OldCount == 1:
		return fmt.Sprintf("line %d", h.OldStart)
	default:
		return fmt.Sprintf("lines %d-%d", h.OldStart, h.End()-1)
	}
}
