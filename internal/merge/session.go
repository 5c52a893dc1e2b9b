package merge

import (
	"github.com/sprite-ai/tmplsync/internal/diff"
	"github.com/sprite-ai/tmplsync/internal/model"
)

// session accumulates the decisions for one file.
type session struct {
	req   model.FileDiffRequest
	hunks []diff.Hunk

	changed      bool
	accepted     int
	usedLineMode bool
	apps         []diff.HunkApplication
}

func newSession(req model.FileDiffRequest, hunks []diff.Hunk) *session {
	return &session{
		req:   req,
		hunks: hunks,
		apps:  make([]diff.HunkApplication, 0, len(hunks)),
	}
}

func (s *session) accept(h diff.Hunk) {
	s.apps = append(s.apps, diff.Accepted(h))
	s.changed = true
	s.accepted++
}

func (s *session) reject(h diff.Hunk) {
	s.apps = append(s.apps, diff.Rejected(h))
}

// record stores lines chosen line by line for h.
func (s *session) record(h diff.Hunk, lines []string, changed bool) {
	s.apps = append(s.apps, diff.HunkApplication{Hunk: h, Lines: lines})
	s.usedLineMode = true
	if changed {
		s.changed = true
	}
}

// finalize turns the accumulated applications into a decision.
//
// Accepting every hunk without line mode is Apply only when replaying them
// reproduces the rendered content byte for byte; a current file with
// different line endings yields Partial so its delimiters survive.
func (s *session) finalize() (model.Decision, error) {
	if !s.changed {
		return model.Skip(), nil
	}

	rebuilt, err := diff.Rebuild(s.req.CurrentContent, s.apps)
	if err != nil {
		return model.Decision{}, err
	}

	if s.accepted == len(s.hunks) && !s.usedLineMode && rebuilt == s.req.RenderedContent {
		return model.Apply(), nil
	}
	if rebuilt == s.req.CurrentContent {
		return model.Skip(), nil
	}
	return model.Partial(rebuilt), nil
}
