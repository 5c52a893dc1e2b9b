package diff

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// DefaultContext is the number of context lines around each change.
const DefaultContext = 3

// Unified returns unified diff text between current and rendered, labelled
// with path on both sides. Both inputs are compared as logical lines, so
// content that differs only in line endings, including the presence of a
// final newline, has no textual diff and yields the empty string.
func Unified(path, current, rendered string, context int) (string, error) {
	if context < 0 {
		context = DefaultContext
	}

	ud := difflib.UnifiedDiff{
		A:        terminated(diffLines(current)),
		B:        terminated(diffLines(rendered)),
		FromFile: path,
		ToFile:   path,
		Context:  context,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", fmt.Errorf("diffing %s: %w", path, err)
	}
	return text, nil
}

// Hunks diffs current against rendered and parses the result.
func Hunks(path, current, rendered string, context int) ([]Hunk, error) {
	text, err := Unified(path, current, rendered, context)
	if err != nil {
		return nil, err
	}
	hunks, err := ParseHunks(text)
	if err != nil {
		return nil, fmt.Errorf("parsing diff for %s: %w", path, err)
	}
	return hunks, nil
}

// diffLines splits s for diffing. The empty line SplitLines yields after a
// final delimiter is not a line of the file; keeping it would show up as
// trailing context in every hunk that touches the end.
func diffLines(s string) []string {
	lines := SplitLines(s)
	if n := len(lines); lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

// difflib expects every line to carry its own terminator.
func terminated(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l + "\n"
	}
	return out
}
