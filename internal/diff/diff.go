// Package diff computes, parses and replays line diffs between the current
// and rendered versions of a template-derived file.
package diff

import (
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// File is one file of a git-style patch with its parsed fragments.
type File struct {
	OldName      string
	NewName      string
	IsNew        bool
	Fragments    []*gitdiff.TextFragment
	AddedLines   int
	DeletedLines int
}

// Name returns the display name for the file.
func (f *File) Name() string {
	if f.NewName != "" {
		return f.NewName
	}
	return f.OldName
}

// PatchSet holds a parsed multi-file patch.
type PatchSet struct {
	Files []*File
	Raw   string
}

// Stats returns aggregate statistics.
func (ps *PatchSet) Stats() (files, added, deleted int) {
	files = len(ps.Files)
	for _, f := range ps.Files {
		added += f.AddedLines
		deleted += f.DeletedLines
	}
	return
}

// ParsePatch reads git-style patch text, as produced by FormatPatch and
// FormatNewFile, back into a PatchSet.
func ParsePatch(raw string) (*PatchSet, error) {
	parsed, _, err := gitdiff.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing patch: %w", err)
	}

	ps := &PatchSet{Raw: raw}
	for _, f := range parsed {
		if f.IsBinary {
			continue
		}
		pf := &File{
			OldName: f.OldName,
			NewName: f.NewName,
			IsNew:   f.IsNew,
		}
		for _, frag := range f.TextFragments {
			pf.Fragments = append(pf.Fragments, frag)
			pf.AddedLines += int(frag.LinesAdded)
			pf.DeletedLines += int(frag.LinesDeleted)
		}
		ps.Files = append(ps.Files, pf)
	}
	return ps, nil
}

// FormatPatch renders hunks for path as a git-style single-file patch.
// It returns the empty string when there are no hunks.
func FormatPatch(path string, hunks []Hunk) string {
	if len(hunks) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "diff --git a/%s b/%s\n", path, path)
	fmt.Fprintf(&b, "--- a/%s\n", path)
	fmt.Fprintf(&b, "+++ b/%s\n", path)
	for _, h := range hunks {
		b.WriteString(FormatHeader(h))
		b.WriteByte('\n')
		for _, l := range h.Lines {
			b.WriteString(l.Op.Prefix())
			b.WriteString(l.Text)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// FormatNewFile renders content as a patch creating path.
func FormatNewFile(path, content string) string {
	lines := SplitLines(content)
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "diff --git a/%s b/%s\n", path, path)
	b.WriteString("new file mode 100644\n")
	b.WriteString("--- /dev/null\n")
	fmt.Fprintf(&b, "+++ b/%s\n", path)
	if len(lines) == 0 {
		return b.String()
	}
	fmt.Fprintf(&b, "@@ -0,0 +1,%d @@\n", len(lines))
	for _, l := range lines {
		b.WriteString("+" + l + "\n")
	}
	return b.String()
}

// FormatHeader rebuilds the "@@ -a,b +c,d @@" header of h, undoing the
// insertion-point adjustment ParseHunks applies to empty old ranges.
func FormatHeader(h Hunk) string {
	oldStart := h.OldStart
	if h.OldCount == 0 {
		oldStart--
	}
	return fmt.Sprintf("@@ -%s +%s @@", formatRange(oldStart, h.OldCount), formatRange(h.NewStart, h.NewCount))
}

func formatRange(start, count int) string {
	if count == 1 {
		return fmt.Sprintf("%d", start)
	}
	return fmt.Sprintf("%d,%d", start, count)
}
