package model

import (
	"testing"
)

func TestDecisionKindString(t *testing.T) {
	tests := []struct {
		kind DecisionKind
		want string
	}{
		{DecisionSkip, "skip"},
		{DecisionApply, "apply"},
		{DecisionPartial, "partial"},
		{DecisionKind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("DecisionKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestPartialCarriesContent(t *testing.T) {
	d := Partial("merged\n")
	if d.Kind != DecisionPartial || d.Content != "merged\n" {
		t.Errorf("Partial() = %+v", d)
	}
	if Apply().Content != "" || Skip().Content != "" {
		t.Error("Apply and Skip must not carry content")
	}
}

func TestOptionsModePriority(t *testing.T) {
	tests := []struct {
		opts Options
		want Mode
	}{
		{Options{}, ModeBlock},
		{Options{LineMode: true}, ModeLine},
		{Options{DryRun: true, LineMode: true}, ModeDryRun},
		{Options{AutoApply: true, DryRun: true, LineMode: true}, ModeAutoApply},
	}
	for _, tt := range tests {
		if got := tt.opts.Mode(); got != tt.want {
			t.Errorf("%+v.Mode() = %s, want %s", tt.opts, got, tt.want)
		}
	}
}

func TestParseModeRoundTrip(t *testing.T) {
	for _, m := range []Mode{ModeBlock, ModeLine, ModeDryRun, ModeAutoApply} {
		got, err := ParseMode(m.String())
		if err != nil {
			t.Fatalf("ParseMode(%q): %v", m, err)
		}
		if got != m {
			t.Errorf("ParseMode(%q) = %s", m, got)
		}
		if OptionsFor(m).Mode() != m {
			t.Errorf("OptionsFor(%s).Mode() mismatch", m)
		}
	}
	if _, err := ParseMode("bogus"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestIdentical(t *testing.T) {
	r := FileDiffRequest{CurrentContent: "a\n", RenderedContent: "a\n"}
	if !r.Identical() {
		t.Error("expected identical")
	}
	r.RenderedContent = "a\r\n"
	if r.Identical() {
		t.Error("line endings differ, expected not identical")
	}
}
