package merge

import (
	"fmt"

	"github.com/sprite-ai/tmplsync/internal/diff"
	"github.com/sprite-ai/tmplsync/internal/prompt"
)

// previewHunks shows every hunk without recording anything. A line preview
// runs the line-mode questions for one hunk and shows the outcome, which is
// then discarded.
func (d *Decider) previewHunks(s *session) error {
	total := len(s.hunks)
	for i, h := range s.hunks {
		d.display.Hunk(i, total, h)

		q := fmt.Sprintf("Hunk %d/%d of %s (dry run)", i+1, total, target(s.req))
		answer, err := d.prompter.Choose(q, prompt.DryRunChoices)
		if err != nil {
			return err
		}
		if answer != prompt.KeyLineMode {
			continue
		}

		lines, changed, err := d.collectHunk(s.req, h)
		if err != nil {
			return err
		}
		if !changed {
			d.display.Notice("Line preview: hunk would be left unchanged.")
			continue
		}
		d.display.Notice("Line preview result (not applied):")
		d.display.Lines(diff.OpContext, lines)
	}
	return nil
}
