package diff

import (
	"errors"
	"fmt"
	"sort"
)

// ErrHunkRange is returned when a hunk application does not fit the
// content it is replayed over.
var ErrHunkRange = errors.New("hunk application out of range")

// HunkApplication is the final text chosen for one hunk's span.
type HunkApplication struct {
	Hunk  Hunk
	Lines []string
}

// Accepted uses the hunk's result lines.
func Accepted(h Hunk) HunkApplication {
	return HunkApplication{Hunk: h, Lines: h.Result()}
}

// Rejected keeps the hunk's original lines.
func Rejected(h Hunk) HunkApplication {
	return HunkApplication{Hunk: h, Lines: h.Original()}
}

// Rebuild replays apps over current. Lines outside every hunk are copied
// through unchanged and the result is joined with current's dominant line
// delimiter.
func Rebuild(current string, apps []HunkApplication) (string, error) {
	eol := DetectEOL(current)
	orig := SplitLines(current)

	sorted := make([]HunkApplication, len(apps))
	copy(sorted, apps)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Hunk.OldStart < sorted[j].Hunk.OldStart
	})

	out := make([]string, 0, len(orig))
	cursor := 1
	for _, app := range sorted {
		h := app.Hunk
		if h.OldStart < cursor || h.End()-1 > len(orig) {
			return "", fmt.Errorf("%w: %s against %d lines", ErrHunkRange, h.Header, len(orig))
		}
		out = append(out, orig[cursor-1:h.OldStart-1]...)
		out = append(out, app.Lines...)
		cursor = h.End()
	}
	out = append(out, orig[cursor-1:]...)

	return JoinLines(out, eol), nil
}
