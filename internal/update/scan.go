// Package update applies a rendered template tree over a target directory,
// one file at a time, asking a merge.Decider about every file that differs.
package update

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/sprite-ai/tmplsync/internal/model"
)

// binarySniffLen is how much of a file is checked for NUL bytes.
const binarySniffLen = 8000

// EntryKind classifies a rendered file against the target.
type EntryKind int

const (
	EntryChanged EntryKind = iota
	EntryNew
	EntryUnchanged
	EntryBinary
)

func (k EntryKind) String() string {
	switch k {
	case EntryNew:
		return "new"
	case EntryUnchanged:
		return "unchanged"
	case EntryBinary:
		return "binary"
	default:
		return "changed"
	}
}

// Letter is the one-character status used in listings.
func (k EntryKind) Letter() string {
	switch k {
	case EntryNew:
		return "A"
	case EntryUnchanged:
		return "="
	case EntryBinary:
		return "B"
	default:
		return "M"
	}
}

// Entry is one rendered file and its counterpart in the target directory.
type Entry struct {
	RelativePath string // slash-separated, relative to both roots
	RenderedPath string
	TargetPath   string
	Kind         EntryKind

	Current  string // empty for new files
	Rendered string
	Perm     fs.FileMode // of the target file, or the rendered one when new
}

// Request is the decider input for e.
func (e Entry) Request() model.FileDiffRequest {
	return model.FileDiffRequest{
		RelativePath:    e.RelativePath,
		TargetPath:      e.TargetPath,
		CurrentContent:  e.Current,
		RenderedContent: e.Rendered,
	}
}

// Scan walks renderedDir in lexical order and classifies every regular
// file against targetDir. Paths matching an exclude pattern, by relative
// path or base name, are left out; an excluded directory is not entered.
func Scan(renderedDir, targetDir string, exclude []string) ([]Entry, error) {
	var entries []Entry

	err := filepath.WalkDir(renderedDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(renderedDir, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if Excluded(rel, exclude) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		e, err := classify(rel, p, filepath.Join(targetDir, filepath.FromSlash(rel)))
		if err != nil {
			return err
		}
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", renderedDir, err)
	}
	return entries, nil
}

func classify(rel, renderedPath, targetPath string) (Entry, error) {
	e := Entry{
		RelativePath: rel,
		RenderedPath: renderedPath,
		TargetPath:   targetPath,
	}

	rendered, err := os.ReadFile(renderedPath)
	if err != nil {
		return e, err
	}
	e.Rendered = string(rendered)

	info, err := os.Stat(targetPath)
	switch {
	case os.IsNotExist(err):
		ri, err := os.Stat(renderedPath)
		if err != nil {
			return e, err
		}
		e.Kind = EntryNew
		e.Perm = ri.Mode().Perm()
		return e, nil
	case err != nil:
		return e, err
	case info.IsDir():
		return e, fmt.Errorf("%s: target is a directory", targetPath)
	}
	e.Perm = info.Mode().Perm()

	current, err := os.ReadFile(targetPath)
	if err != nil {
		return e, err
	}
	e.Current = string(current)

	switch {
	case bytes.Equal(current, rendered):
		e.Kind = EntryUnchanged
	case isBinary(current) || isBinary(rendered):
		e.Kind = EntryBinary
	default:
		e.Kind = EntryChanged
	}
	return e, nil
}

func isBinary(data []byte) bool {
	if len(data) > binarySniffLen {
		data = data[:binarySniffLen]
	}
	return bytes.IndexByte(data, 0) >= 0
}

// Excluded reports whether rel matches one of patterns, either as a whole
// slash-separated path or by its base name.
func Excluded(rel string, patterns []string) bool {
	base := path.Base(rel)
	for _, p := range patterns {
		if ok, _ := path.Match(p, rel); ok {
			return true
		}
		if ok, _ := path.Match(p, base); ok {
			return true
		}
	}
	return false
}
