package update

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sprite-ai/tmplsync/internal/diff"
	"github.com/sprite-ai/tmplsync/internal/model"
)

// Decider decides a single file. *merge.Decider implements it.
type Decider interface {
	Decide(req model.FileDiffRequest) (model.Decision, error)
}

// Reporter receives one outcome line per file, e.g. ("updated", "a.txt").
type Reporter interface {
	Outcome(label, path string)
}

// Summary lists the files of a run by outcome.
type Summary struct {
	Created   []string
	Updated   []string
	Skipped   []string
	Unchanged []string
}

func (s Summary) String() string {
	return fmt.Sprintf("created %d, updated %d, skipped %d, unchanged %d",
		len(s.Created), len(s.Updated), len(s.Skipped), len(s.Unchanged))
}

// Updater writes decisions to the target directory.
type Updater struct {
	decider  Decider
	dryRun   bool
	reporter Reporter
	logger   *slog.Logger
}

// Option configures an Updater.
type Option func(*Updater)

// WithDryRun leaves the target untouched. New files are reported but not
// created.
func WithDryRun(dryRun bool) Option {
	return func(u *Updater) { u.dryRun = dryRun }
}

// WithReporter sets where per-file outcomes go.
func WithReporter(r Reporter) Option {
	return func(u *Updater) { u.reporter = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(u *Updater) {
		if l != nil {
			u.logger = l
		}
	}
}

// New creates an Updater deciding changed files with d.
func New(d Decider, opts ...Option) *Updater {
	u := &Updater{
		decider: d,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(u)
	}
	return u
}

// Run processes entries in order. When the decider fails, including on an
// abort, Run stops at once and returns the summary so far with the error;
// nothing after the failing file is written.
func (u *Updater) Run(entries []Entry) (Summary, error) {
	var sum Summary

	for _, e := range entries {
		log := u.logger.With("path", e.RelativePath, "kind", e.Kind)

		switch e.Kind {
		case EntryUnchanged:
			sum.Unchanged = append(sum.Unchanged, e.RelativePath)
			u.report("unchanged", e.RelativePath)

		case EntryBinary:
			sum.Skipped = append(sum.Skipped, e.RelativePath)
			u.report("binary", e.RelativePath)

		case EntryNew:
			if u.dryRun {
				sum.Skipped = append(sum.Skipped, e.RelativePath)
				u.report("new", e.RelativePath)
				continue
			}
			if err := writeFile(e.TargetPath, e.Rendered, e.Perm); err != nil {
				return sum, err
			}
			log.Debug("created")
			sum.Created = append(sum.Created, e.RelativePath)
			u.report("created", e.RelativePath)

		default:
			dec, err := u.decider.Decide(e.Request())
			if err != nil {
				return sum, fmt.Errorf("%s: %w", e.RelativePath, err)
			}
			log.Debug("decision", "decision", dec)

			switch dec.Kind {
			case model.DecisionApply:
				if u.dryRun {
					sum.Skipped = append(sum.Skipped, e.RelativePath)
					u.report("skipped", e.RelativePath)
					continue
				}
				if err := writeFile(e.TargetPath, e.Rendered, e.Perm); err != nil {
					return sum, err
				}
				sum.Updated = append(sum.Updated, e.RelativePath)
				u.report("updated", e.RelativePath)

			case model.DecisionPartial:
				if u.dryRun {
					sum.Skipped = append(sum.Skipped, e.RelativePath)
					u.report("skipped", e.RelativePath)
					continue
				}
				if err := writeFile(e.TargetPath, dec.Content, e.Perm); err != nil {
					return sum, err
				}
				sum.Updated = append(sum.Updated, e.RelativePath)
				u.report("merged", e.RelativePath)

			default:
				sum.Skipped = append(sum.Skipped, e.RelativePath)
				u.report("skipped", e.RelativePath)
			}
		}
	}
	return sum, nil
}

func (u *Updater) report(label, path string) {
	if u.reporter != nil {
		u.reporter.Outcome(label, path)
	}
}

func writeFile(path, content string, perm os.FileMode) error {
	if perm == 0 {
		perm = 0o644
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Patch renders every pending change in entries as one git-style patch.
// Unchanged and binary entries are left out.
func Patch(entries []Entry, context int) (string, error) {
	var b strings.Builder
	for _, e := range entries {
		switch e.Kind {
		case EntryNew:
			b.WriteString(diff.FormatNewFile(e.RelativePath, e.Rendered))
		case EntryChanged:
			hunks, err := diff.Hunks(e.RelativePath, e.Current, e.Rendered, context)
			if err != nil {
				return "", err
			}
			b.WriteString(diff.FormatPatch(e.RelativePath, hunks))
		}
	}
	return b.String(), nil
}

// Pending returns the entries that would change the target.
func Pending(entries []Entry) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Kind == EntryNew || e.Kind == EntryChanged {
			out = append(out, e)
		}
	}
	return out
}
