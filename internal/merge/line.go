package merge

import (
	"fmt"

	"github.com/sprite-ai/tmplsync/internal/diff"
	"github.com/sprite-ai/tmplsync/internal/model"
	"github.com/sprite-ai/tmplsync/internal/prompt"
)

// collectLines drives line mode over every hunk of the file.
func (d *Decider) collectLines(s *session) error {
	total := len(s.hunks)
	for i, h := range s.hunks {
		d.display.Hunk(i, total, h)
		lines, changed, err := d.collectHunk(s.req, h)
		if err != nil {
			return err
		}
		s.record(h, lines, changed)
	}
	return nil
}

// collectHunk asks about each changed line of h and returns the lines that
// survive, in order. changed reports whether they differ from the
// original span.
//
// A removed run directly followed by an added run is a change group: runs
// of equal length are decided pair by pair, otherwise the group is decided
// as a whole. Lone removed or added lines are decided one at a time.
func (d *Decider) collectHunk(req model.FileDiffRequest, h diff.Hunk) (lines []string, changed bool, err error) {
	lines = make([]string, 0, len(h.Lines))
	where := target(req)

	i := 0
	for i < len(h.Lines) {
		switch h.Lines[i].Op {
		case diff.OpContext:
			lines = append(lines, h.Lines[i].Text)
			i++

		case diff.OpRemoved:
			removed, j := run(h.Lines, i, diff.OpRemoved)
			added, k := run(h.Lines, j, diff.OpAdded)
			i = k

			switch {
			case len(added) == 0:
				for _, r := range removed {
					d.display.Lines(diff.OpRemoved, []string{r})
					yes, err := d.confirm(fmt.Sprintf("Delete this line from %s?", where))
					if err != nil {
						return nil, false, err
					}
					if yes {
						changed = true
						continue
					}
					lines = append(lines, r)
				}

			case len(removed) == len(added):
				for n := range removed {
					d.display.Pair(removed[n], added[n])
					yes, err := d.confirm(fmt.Sprintf("Replace this line in %s?", where))
					if err != nil {
						return nil, false, err
					}
					if yes {
						lines = append(lines, added[n])
						changed = true
					} else {
						lines = append(lines, removed[n])
					}
				}

			default:
				d.display.Group(removed, added)
				q := fmt.Sprintf("Replace %d %s with %d %s in %s?",
					len(removed), plural(len(removed), "line"), len(added), plural(len(added), "line"), where)
				yes, err := d.confirm(q)
				if err != nil {
					return nil, false, err
				}
				if yes {
					lines = append(lines, added...)
					changed = true
				} else {
					lines = append(lines, removed...)
				}
			}

		case diff.OpAdded:
			added, k := run(h.Lines, i, diff.OpAdded)
			i = k
			for _, a := range added {
				d.display.Lines(diff.OpAdded, []string{a})
				yes, err := d.confirm(fmt.Sprintf("Insert this line into %s?", where))
				if err != nil {
					return nil, false, err
				}
				if yes {
					lines = append(lines, a)
					changed = true
				}
			}
		}
	}
	return lines, changed, nil
}

func (d *Decider) confirm(question string) (bool, error) {
	answer, err := d.prompter.Choose(question, prompt.LineChoices)
	if err != nil {
		return false, err
	}
	return answer == prompt.KeyYes, nil
}

// run returns the texts of the consecutive lines tagged op starting at i,
// and the index after them.
func run(lines []diff.TaggedLine, i int, op diff.LineOp) ([]string, int) {
	var texts []string
	for i < len(lines) && lines[i].Op == op {
		texts = append(texts, lines[i].Text)
		i++
	}
	return texts, i
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
