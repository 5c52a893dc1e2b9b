package tui

import (
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/charmbracelet/lipgloss"
	"github.com/sprite-ai/tmplsync/internal/diff"
)

// renderedLine is a single line of the preview ready for display.
type renderedLine struct {
	OldNum  int // 0 for added lines
	NewNum  int // 0 for removed lines
	Op      gitdiff.LineOp
	Content string // without trailing newline
	IsHunk  bool

	Tokens []diff.Token // syntax colour for context lines
	Spans  []diff.Span  // changed text for paired removed/added lines
}

// renderFile flattens a patch file into display lines.
func renderFile(f *diff.File, theme string) []renderedLine {
	var contentLines []string
	for _, frag := range f.Fragments {
		for _, line := range frag.Lines {
			contentLines = append(contentLines, trimEOL(line.Line))
		}
	}
	highlighted := diff.NewHighlighter(f.Name(), theme).Lines(contentLines)
	hlIdx := 0

	var lines []renderedLine
	for i, frag := range f.Fragments {
		lines = append(lines, renderedLine{
			IsHunk:  true,
			Content: formatHunkHeader(frag),
		})

		oldLine := int(frag.OldPosition)
		newLine := int(frag.NewPosition)
		start := len(lines)

		for _, line := range frag.Lines {
			rl := renderedLine{
				Op:      line.Op,
				Content: trimEOL(line.Line),
			}
			if hlIdx < len(highlighted) {
				rl.Tokens = highlighted[hlIdx].Tokens
				hlIdx++
			}

			switch line.Op {
			case gitdiff.OpContext:
				rl.OldNum = oldLine
				rl.NewNum = newLine
				oldLine++
				newLine++
			case gitdiff.OpDelete:
				rl.OldNum = oldLine
				oldLine++
			case gitdiff.OpAdd:
				rl.NewNum = newLine
				newLine++
			}
			lines = append(lines, rl)
		}
		pairSpans(lines[start:])

		if i < len(f.Fragments)-1 {
			lines = append(lines, renderedLine{})
		}
	}
	return lines
}

// pairSpans attaches word-level spans to delete/add runs of equal length.
func pairSpans(lines []renderedLine) {
	i := 0
	for i < len(lines) {
		if lines[i].Op != gitdiff.OpDelete {
			i++
			continue
		}
		j := i
		for j < len(lines) && lines[j].Op == gitdiff.OpDelete {
			j++
		}
		k := j
		for k < len(lines) && lines[k].Op == gitdiff.OpAdd {
			k++
		}
		if j-i == k-j {
			for n := 0; n < j-i; n++ {
				spans := diff.WordDiff(lines[i+n].Content, lines[j+n].Content)
				lines[i+n].Spans = diff.Side(spans, diff.OpRemoved)
				lines[j+n].Spans = diff.Side(spans, diff.OpAdded)
			}
		}
		i = k
	}
}

func formatHunkHeader(frag *gitdiff.TextFragment) string {
	old := fmt.Sprintf("-%d", frag.OldPosition)
	if frag.OldLines != 1 {
		old += fmt.Sprintf(",%d", frag.OldLines)
	}
	new := fmt.Sprintf("+%d", frag.NewPosition)
	if frag.NewLines != 1 {
		new += fmt.Sprintf(",%d", frag.NewLines)
	}

	header := fmt.Sprintf("@@ %s %s @@", old, new)
	if frag.Comment != "" {
		header += " " + frag.Comment
	}
	return header
}

// renderContent renders the text of rl after prefix, colouring tokens on
// context lines and emphasising changed spans on paired lines.
func renderContent(st Styles, rl renderedLine, prefix string, max int) string {
	plain := truncate(prefix+rl.Content, max)

	switch rl.Op {
	case gitdiff.OpAdd, gitdiff.OpDelete:
		base, emph := st.Added, st.AddedEmph
		side := diff.OpAdded
		if rl.Op == gitdiff.OpDelete {
			base, emph, side = st.Removed, st.RemovedEmph, diff.OpRemoved
		}
		if len(rl.Spans) == 0 || lipgloss.Width(prefix+rl.Content) > max {
			return base.Render(plain)
		}
		var b strings.Builder
		b.WriteString(base.Render(prefix))
		for _, s := range rl.Spans {
			if s.Op == side {
				b.WriteString(emph.Render(s.Text))
			} else {
				b.WriteString(base.Render(s.Text))
			}
		}
		return b.String()
	}

	if len(rl.Tokens) == 0 || lipgloss.Width(prefix+rl.Content) > max {
		return st.Context.Render(plain)
	}
	var b strings.Builder
	b.WriteString(st.Context.Render(prefix))
	for _, tok := range rl.Tokens {
		b.WriteString(st.Token(tok.Text, tok.Color))
	}
	return b.String()
}

// styleLine renders a line for the unified view.
func styleLine(st Styles, rl renderedLine, width int) string {
	if rl.IsHunk {
		return st.HunkHeader.Width(width).Render(rl.Content)
	}
	if rl.Op == gitdiff.OpContext && rl.OldNum == 0 && rl.NewNum == 0 {
		return ""
	}

	lineNums := st.LineNumber.Render(lineNum(rl.OldNum)) + " " + st.LineNumber.Render(lineNum(rl.NewNum))

	prefix := " "
	switch rl.Op {
	case gitdiff.OpAdd:
		prefix = "+"
	case gitdiff.OpDelete:
		prefix = "-"
	}
	return lineNums + " " + renderContent(st, rl, prefix, width-10)
}

// styleLineSplit renders a line for the side-by-side view.
func styleLineSplit(st Styles, rl renderedLine, halfWidth int) (left, right string) {
	if rl.IsHunk {
		return st.HunkHeader.Width(halfWidth).Render(rl.Content), ""
	}

	maxContent := halfWidth - 5
	blank := strings.Repeat(" ", halfWidth)

	switch rl.Op {
	case gitdiff.OpDelete:
		left = st.LineNumber.Render(lineNum(rl.OldNum)) + " " + renderContent(st, rl, "-", maxContent)
		right = blank
	case gitdiff.OpAdd:
		left = blank
		right = st.LineNumber.Render(lineNum(rl.NewNum)) + " " + renderContent(st, rl, "+", maxContent)
	default:
		if rl.OldNum == 0 && rl.NewNum == 0 {
			return blank, ""
		}
		content := renderContent(st, rl, " ", maxContent)
		left = st.LineNumber.Render(lineNum(rl.OldNum)) + " " + content
		right = st.LineNumber.Render(lineNum(rl.NewNum)) + " " + content
	}
	return left, right
}

func lineNum(n int) string {
	if n <= 0 {
		return "    "
	}
	return fmt.Sprintf("%4d", n)
}

func trimEOL(s string) string {
	return strings.TrimRight(s, "\r\n")
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) > max {
		return string(r[:max-1]) + "…"
	}
	return s
}
