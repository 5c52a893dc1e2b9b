// Package model defines the core data types shared across tmplsync.
package model

import "fmt"

// FileDiffRequest is one file handed to the merge engine.
type FileDiffRequest struct {
	RelativePath    string
	TargetPath      string // shown in prompts only, never read
	CurrentContent  string
	RenderedContent string
}

// Identical reports whether applying the rendered content would be a no-op.
func (r FileDiffRequest) Identical() bool {
	return r.CurrentContent == r.RenderedContent
}

// DecisionKind tags a Decision.
type DecisionKind int

const (
	DecisionSkip DecisionKind = iota
	DecisionApply
	DecisionPartial
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionSkip:
		return "skip"
	case DecisionApply:
		return "apply"
	case DecisionPartial:
		return "partial"
	default:
		return "unknown"
	}
}

// Decision is the outcome for one file. Content is only set for
// DecisionPartial.
type Decision struct {
	Kind    DecisionKind
	Content string
}

// Skip leaves the target file untouched.
func Skip() Decision { return Decision{Kind: DecisionSkip} }

// Apply writes the rendered content verbatim.
func Apply() Decision { return Decision{Kind: DecisionApply} }

// Partial writes the merged content.
func Partial(content string) Decision {
	return Decision{Kind: DecisionPartial, Content: content}
}

func (d Decision) String() string { return d.Kind.String() }

// Mode selects the decision strategy for a file.
type Mode int

const (
	ModeBlock Mode = iota
	ModeLine
	ModeDryRun
	ModeAutoApply
)

func (m Mode) String() string {
	switch m {
	case ModeBlock:
		return "block"
	case ModeLine:
		return "line"
	case ModeDryRun:
		return "dry-run"
	case ModeAutoApply:
		return "auto-apply"
	default:
		return "unknown"
	}
}

// ParseMode maps a config or wire value to a Mode. The empty string is
// block mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "block":
		return ModeBlock, nil
	case "line":
		return ModeLine, nil
	case "dry-run":
		return ModeDryRun, nil
	case "auto-apply":
		return ModeAutoApply, nil
	default:
		return ModeBlock, fmt.Errorf("unknown mode %q", s)
	}
}

// Options are the run options that pick a strategy.
type Options struct {
	AutoApply bool
	DryRun    bool
	LineMode  bool
}

// Mode applies the fixed priority autoApply > dryRun > lineMode > block.
func (o Options) Mode() Mode {
	switch {
	case o.AutoApply:
		return ModeAutoApply
	case o.DryRun:
		return ModeDryRun
	case o.LineMode:
		return ModeLine
	default:
		return ModeBlock
	}
}

// OptionsFor is the inverse of Options.Mode.
func OptionsFor(m Mode) Options {
	switch m {
	case ModeAutoApply:
		return Options{AutoApply: true}
	case ModeDryRun:
		return Options{DryRun: true}
	case ModeLine:
		return Options{LineMode: true}
	default:
		return Options{}
	}
}
