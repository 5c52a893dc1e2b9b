package merge

import (
	"fmt"

	"github.com/sprite-ai/tmplsync/internal/prompt"
)

// collectBlocks asks one question per hunk.
func (d *Decider) collectBlocks(s *session) error {
	total := len(s.hunks)
	for i, h := range s.hunks {
		d.display.Hunk(i, total, h)

		q := fmt.Sprintf("Apply hunk %d/%d to %s?", i+1, total, target(s.req))
		answer, err := d.prompter.Choose(q, prompt.BlockChoices)
		if err != nil {
			return err
		}

		switch answer {
		case prompt.KeyYes:
			s.accept(h)

		case prompt.KeyLineMode:
			lines, changed, err := d.collectHunk(s.req, h)
			if err != nil {
				return err
			}
			s.record(h, lines, changed)

		case prompt.KeyAcceptFile:
			for _, rest := range s.hunks[i:] {
				s.accept(rest)
			}
			d.logger.Debug("accepted remaining hunks", "path", s.req.RelativePath, "from", i+1)
			return nil

		case prompt.KeySkipFile:
			for _, rest := range s.hunks[i:] {
				s.reject(rest)
			}
			d.logger.Debug("skipped remaining hunks", "path", s.req.RelativePath, "from", i+1)
			return nil

		default:
			s.reject(h)
		}
	}
	return nil
}
