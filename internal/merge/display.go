package merge

import (
	"github.com/sprite-ai/tmplsync/internal/diff"
	"github.com/sprite-ai/tmplsync/internal/model"
)

// Display shows the user what is being decided. tui.Printer is the
// terminal implementation; the API streams the same calls over a
// websocket.
type Display interface {
	// File announces a file with hunks pending in mode.
	File(req model.FileDiffRequest, mode model.Mode, hunks int)
	// Hunk shows hunk index (0-based) of total.
	Hunk(index, total int, h diff.Hunk)
	// Pair shows one removed line against its replacement.
	Pair(removed, added string)
	// Group shows a change group whose sides differ in length.
	Group(removed, added []string)
	// Lines shows lines tagged with op.
	Lines(op diff.LineOp, lines []string)
	// Notice shows an informational message.
	Notice(msg string)
}

type nopDisplay struct{}

func (nopDisplay) File(model.FileDiffRequest, model.Mode, int) {}
func (nopDisplay) Hunk(int, int, diff.Hunk)                    {}
func (nopDisplay) Pair(string, string)                         {}
func (nopDisplay) Group([]string, []string)                    {}
func (nopDisplay) Lines(diff.LineOp, []string)                 {}
func (nopDisplay) Notice(string)                               {}
