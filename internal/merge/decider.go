// Package merge decides, file by file, how much of a rendered template to
// take over a customized copy: everything, nothing, or a per-hunk or
// per-line selection rebuilt into new content.
package merge

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/sprite-ai/tmplsync/internal/diff"
	"github.com/sprite-ai/tmplsync/internal/model"
	"github.com/sprite-ai/tmplsync/internal/prompt"
)

// ErrAcceptLength is returned by Resolve when the acceptance list does not
// match the number of hunks.
var ErrAcceptLength = errors.New("acceptance list does not match hunk count")

// Decider turns a FileDiffRequest into a Decision, asking the user through
// a Prompter. It handles one file at a time and is not safe for concurrent
// use.
type Decider struct {
	opts     model.Options
	prompter prompt.Prompter
	display  Display
	context  int
	logger   *slog.Logger
}

// Option configures a Decider.
type Option func(*Decider)

// WithContext sets the number of context lines around each change.
func WithContext(n int) Option {
	return func(d *Decider) {
		if n >= 0 {
			d.context = n
		}
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(d *Decider) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDecider creates a Decider. d may be nil when nothing should be shown.
func NewDecider(opts model.Options, p prompt.Prompter, d Display, options ...Option) *Decider {
	if d == nil {
		d = nopDisplay{}
	}
	dec := &Decider{
		opts:     opts,
		prompter: p,
		display:  d,
		context:  diff.DefaultContext,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range options {
		o(dec)
	}
	return dec
}

// Mode is the strategy Decide uses.
func (d *Decider) Mode() model.Mode { return d.opts.Mode() }

// Decide returns the decision for req. Identical contents and contents
// without a textual difference are skipped without asking. The returned
// error wraps prompt.ErrAborted when the user aborted; the caller must
// then stop the whole batch.
func (d *Decider) Decide(req model.FileDiffRequest) (model.Decision, error) {
	log := d.logger.With("path", req.RelativePath)

	if req.Identical() {
		log.Debug("identical content")
		return model.Skip(), nil
	}

	mode := d.opts.Mode()
	if mode == model.ModeAutoApply {
		log.Debug("auto-apply")
		return model.Apply(), nil
	}

	hunks, err := d.Hunks(req)
	if err != nil {
		return model.Decision{}, err
	}
	if len(hunks) == 0 {
		log.Debug("no textual diff")
		return model.Skip(), nil
	}

	if d.prompter == nil {
		return model.Decision{}, fmt.Errorf("deciding %s in %s mode: no prompter", req.RelativePath, mode)
	}

	d.display.File(req, mode, len(hunks))
	s := newSession(req, hunks)

	switch mode {
	case model.ModeDryRun:
		if err := d.previewHunks(s); err != nil {
			return model.Decision{}, err
		}
		log.Debug("dry run", "hunks", len(hunks))
		return model.Skip(), nil
	case model.ModeLine:
		err = d.collectLines(s)
	default:
		err = d.collectBlocks(s)
	}
	if err != nil {
		return model.Decision{}, err
	}

	dec, err := s.finalize()
	if err != nil {
		return model.Decision{}, fmt.Errorf("rebuilding %s: %w", req.RelativePath, err)
	}
	log.Debug("decided", "mode", mode, "decision", dec, "accepted", s.accepted, "hunks", len(hunks))
	return dec, nil
}

// Resolve decides req without prompting, accepting hunk i when accept[i]
// is true. It finalizes exactly like block mode.
func (d *Decider) Resolve(req model.FileDiffRequest, accept []bool) (model.Decision, error) {
	if req.Identical() {
		return model.Skip(), nil
	}

	hunks, err := d.Hunks(req)
	if err != nil {
		return model.Decision{}, err
	}
	if len(accept) != len(hunks) {
		return model.Decision{}, fmt.Errorf("%w: %d hunks, %d answers", ErrAcceptLength, len(hunks), len(accept))
	}

	s := newSession(req, hunks)
	for i, h := range hunks {
		if accept[i] {
			s.accept(h)
		} else {
			s.reject(h)
		}
	}

	dec, err := s.finalize()
	if err != nil {
		return model.Decision{}, fmt.Errorf("rebuilding %s: %w", req.RelativePath, err)
	}
	return dec, nil
}

// Hunks returns the parsed hunks between the current and rendered content.
func (d *Decider) Hunks(req model.FileDiffRequest) ([]diff.Hunk, error) {
	if req.Identical() {
		return nil, nil
	}
	return diff.Hunks(req.RelativePath, req.CurrentContent, req.RenderedContent, d.context)
}

// target names the file in questions.
func target(req model.FileDiffRequest) string {
	if req.TargetPath != "" {
		return req.TargetPath
	}
	return req.RelativePath
}
