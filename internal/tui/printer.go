package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sprite-ai/tmplsync/internal/diff"
	"github.com/sprite-ai/tmplsync/internal/model"
)

// Printer writes hunks, line previews and outcomes to a line-oriented
// output stream. It is the display used while prompting.
type Printer struct {
	out   io.Writer
	st    Styles
	theme string
	hl    *diff.Highlighter
}

// NewPrinter creates a Printer writing to out. theme names the chroma
// style used for context lines.
func NewPrinter(out io.Writer, color bool, theme string) *Printer {
	return &Printer{
		out:   out,
		st:    NewStyles(NewRenderer(out, color)),
		theme: theme,
	}
}

// File announces the file whose hunks follow.
func (p *Printer) File(req model.FileDiffRequest, mode model.Mode, hunks int) {
	p.hl = diff.NewHighlighter(req.RelativePath, p.theme)

	noun := "hunks"
	if hunks == 1 {
		noun = "hunk"
	}
	header := p.st.FileHeader.Render(req.RelativePath)
	meta := fmt.Sprintf("(%d %s, %s)", hunks, noun, mode)
	if req.TargetPath != "" && req.TargetPath != req.RelativePath {
		meta = fmt.Sprintf("-> %s %s", req.TargetPath, meta)
	}
	fmt.Fprintf(p.out, "\n%s %s\n", header, p.st.FileMeta.Render(meta))
}

// Hunk prints the header and body of hunk index (0-based) of total.
func (p *Printer) Hunk(index, total int, h diff.Hunk) {
	title := p.st.HunkHeader.Render(fmt.Sprintf("Hunk %d/%d", index+1, total))
	header := h.Header
	if header == "" {
		header = diff.FormatHeader(h)
	}
	fmt.Fprintf(p.out, "%s %s %s\n", title, p.st.HunkTitle.Render(header), p.st.FileMeta.Render(h.Title()))
	p.body(h.Lines)
}

// Pair prints a removed/added line pair with the changed text emphasised.
func (p *Printer) Pair(removed, added string) {
	spans := diff.WordDiff(removed, added)
	fmt.Fprintln(p.out, p.emphasised(diff.OpRemoved, diff.Side(spans, diff.OpRemoved)))
	fmt.Fprintln(p.out, p.emphasised(diff.OpAdded, diff.Side(spans, diff.OpAdded)))
}

// Group prints a change group whose sides differ in length.
func (p *Printer) Group(removed, added []string) {
	p.Lines(diff.OpRemoved, removed)
	p.Lines(diff.OpAdded, added)
}

// Lines prints lines with the prefix and style of op.
func (p *Printer) Lines(op diff.LineOp, lines []string) {
	if op == diff.OpContext {
		p.context(lines)
		return
	}
	for _, l := range lines {
		fmt.Fprintln(p.out, p.plain(op, l))
	}
}

// Notice prints an informational message.
func (p *Printer) Notice(msg string) {
	fmt.Fprintln(p.out, p.st.Notice.Render(msg))
}

// Outcome prints the result for one file of a batch, e.g. "updated a/b.txt".
func (p *Printer) Outcome(label, path string) {
	style := p.st.Unchanged
	switch label {
	case "created":
		style = p.st.Created
	case "updated", "merged":
		style = p.st.Updated
	case "skipped":
		style = p.st.Skipped
	case "binary", "error":
		style = p.st.Warning
	}
	fmt.Fprintf(p.out, "%s %s\n", style.Render(fmt.Sprintf("%-9s", label)), path)
}

// Summary prints the batch totals.
func (p *Printer) Summary(created, updated, skipped, unchanged int) {
	fmt.Fprintf(p.out, "\n%s\n", p.st.FileHeader.Render(
		fmt.Sprintf("created %d, updated %d, skipped %d, unchanged %d", created, updated, skipped, unchanged)))
}

// body renders hunk lines. Equal-length removed/added runs are shown as
// emphasised pairs; context runs are syntax highlighted together.
func (p *Printer) body(lines []diff.TaggedLine) {
	i := 0
	for i < len(lines) {
		switch lines[i].Op {
		case diff.OpContext:
			j := i
			for j < len(lines) && lines[j].Op == diff.OpContext {
				j++
			}
			p.context(texts(lines[i:j]))
			i = j

		case diff.OpRemoved:
			j := i
			for j < len(lines) && lines[j].Op == diff.OpRemoved {
				j++
			}
			k := j
			for k < len(lines) && lines[k].Op == diff.OpAdded {
				k++
			}
			removed, added := texts(lines[i:j]), texts(lines[j:k])
			if len(removed) == len(added) {
				for n := range removed {
					spans := diff.WordDiff(removed[n], added[n])
					fmt.Fprintln(p.out, p.emphasised(diff.OpRemoved, diff.Side(spans, diff.OpRemoved)))
				}
				for n := range added {
					spans := diff.WordDiff(removed[n], added[n])
					fmt.Fprintln(p.out, p.emphasised(diff.OpAdded, diff.Side(spans, diff.OpAdded)))
				}
			} else {
				p.Group(removed, added)
			}
			i = k

		default:
			fmt.Fprintln(p.out, p.plain(lines[i].Op, lines[i].Text))
			i++
		}
	}
}

func (p *Printer) context(lines []string) {
	if len(lines) == 0 {
		return
	}
	hl := p.hl
	if hl == nil {
		hl = diff.NewHighlighter("", p.theme)
	}
	for _, line := range hl.Lines(lines) {
		var b strings.Builder
		b.WriteString(p.st.Context.Render(" "))
		for _, tok := range line.Tokens {
			b.WriteString(p.st.Token(tok.Text, tok.Color))
		}
		fmt.Fprintln(p.out, b.String())
	}
}

func (p *Printer) plain(op diff.LineOp, text string) string {
	return p.style(op, false).Render(op.Prefix() + text)
}

func (p *Printer) emphasised(op diff.LineOp, spans []diff.Span) string {
	var b strings.Builder
	b.WriteString(p.style(op, false).Render(op.Prefix()))
	for _, s := range spans {
		b.WriteString(p.style(op, s.Op == op).Render(s.Text))
	}
	return b.String()
}

func (p *Printer) style(op diff.LineOp, emph bool) lipgloss.Style {
	switch {
	case op == diff.OpRemoved && emph:
		return p.st.RemovedEmph
	case op == diff.OpRemoved:
		return p.st.Removed
	case op == diff.OpAdded && emph:
		return p.st.AddedEmph
	case op == diff.OpAdded:
		return p.st.Added
	default:
		return p.st.Context
	}
}

func texts(lines []diff.TaggedLine) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}
