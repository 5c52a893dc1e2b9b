package merge

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/sprite-ai/tmplsync/internal/diff"
	"github.com/sprite-ai/tmplsync/internal/model"
	"github.com/sprite-ai/tmplsync/internal/prompt"
)

const (
	twoHunkCurrent  = "first\nl2\nl3\nl4\nl5\nl6\nl7\nl8\nsecond\n"
	twoHunkRendered = "FIRST\nl2\nl3\nl4\nl5\nl6\nl7\nl8\nSECOND\n"
)

func request(current, rendered string) model.FileDiffRequest {
	return model.FileDiffRequest{
		RelativePath:    "conf/app.txt",
		TargetPath:      "/work/conf/app.txt",
		CurrentContent:  current,
		RenderedContent: rendered,
	}
}

// scripted answers prompts from a fixed list and fails on any extra one.
type scripted struct {
	answers []string
	asked   []string
}

func (s *scripted) Choose(question string, set prompt.ChoiceSet) (string, error) {
	s.asked = append(s.asked, question)
	if len(s.answers) == 0 {
		return "", fmt.Errorf("unexpected prompt %q", question)
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	if a == prompt.KeyAbort {
		return "", prompt.ErrAborted
	}
	if !set.Has(a) {
		return "", fmt.Errorf("answer %q not allowed by %s", a, set.Legend())
	}
	return a, nil
}

func (s *scripted) Line(string) (string, error) { return "", io.EOF }

// recorder keeps a readable trace of display calls.
type recorder struct {
	events []string
}

func (r *recorder) File(req model.FileDiffRequest, mode model.Mode, hunks int) {
	r.events = append(r.events, fmt.Sprintf("file %s %s %d", req.RelativePath, mode, hunks))
}

func (r *recorder) Hunk(index, total int, h diff.Hunk) {
	r.events = append(r.events, fmt.Sprintf("hunk %d/%d", index+1, total))
}

func (r *recorder) Pair(removed, added string) {
	r.events = append(r.events, fmt.Sprintf("pair %s>%s", removed, added))
}

func (r *recorder) Group(removed, added []string) {
	r.events = append(r.events, fmt.Sprintf("group %d>%d", len(removed), len(added)))
}

func (r *recorder) Lines(op diff.LineOp, lines []string) {
	r.events = append(r.events, fmt.Sprintf("lines %s %s", op, strings.Join(lines, ",")))
}

func (r *recorder) Notice(msg string) {
	r.events = append(r.events, "notice "+msg)
}

func (r *recorder) has(prefix string) bool {
	for _, e := range r.events {
		if strings.HasPrefix(e, prefix) {
			return true
		}
	}
	return false
}

// decideCooked runs Decide with the line-reading prompter over input.
func decideCooked(t *testing.T, opts model.Options, req model.FileDiffRequest, input string) (model.Decision, error) {
	t.Helper()
	p := prompt.NewCooked(strings.NewReader(input), io.Discard)
	return NewDecider(opts, p, nil).Decide(req)
}

func TestBlockMode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKind model.DecisionKind
		want     string
	}{
		{"accept first only", "y\nn\n", model.DecisionPartial, "FIRST\nl2\nl3\nl4\nl5\nl6\nl7\nl8\nsecond\n"},
		{"accept second only", "n\ny\n", model.DecisionPartial, "first\nl2\nl3\nl4\nl5\nl6\nl7\nl8\nSECOND\n"},
		{"accept both", "y\ny\n", model.DecisionApply, ""},
		{"reject both", "n\nn\n", model.DecisionSkip, ""},
		{"enter is reject", "\n\n", model.DecisionSkip, ""},
		{"eof is reject", "", model.DecisionSkip, ""},
		{"accept file", "f\n", model.DecisionApply, ""},
		{"skip file", "s\n", model.DecisionSkip, ""},
		{"accept then skip file", "y\ns\n", model.DecisionPartial, "FIRST\nl2\nl3\nl4\nl5\nl6\nl7\nl8\nsecond\n"},
		{"invalid then accept", "x\ny\ny\n", model.DecisionApply, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decideCooked(t, model.Options{}, request(twoHunkCurrent, twoHunkRendered), tt.input)
			if err != nil {
				t.Fatalf("Decide: %v", err)
			}
			if got.Kind != tt.wantKind {
				t.Fatalf("decision = %s, want %s", got, tt.wantKind)
			}
			if tt.wantKind == model.DecisionPartial && got.Content != tt.want {
				t.Errorf("content = %q, want %q", got.Content, tt.want)
			}
		})
	}
}

func TestAcceptFileStopsPrompting(t *testing.T) {
	p := &scripted{answers: []string{prompt.KeyAcceptFile}}
	rec := &recorder{}

	got, err := NewDecider(model.Options{}, p, rec).Decide(request(twoHunkCurrent, twoHunkRendered))
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != model.DecisionApply {
		t.Errorf("decision = %s, want apply", got)
	}
	if len(p.asked) != 1 {
		t.Errorf("expected 1 prompt, got %d", len(p.asked))
	}
	if rec.has("hunk 2/2") {
		t.Error("second hunk should not be shown after f")
	}
}

func TestBlockQuestionNamesTarget(t *testing.T) {
	p := &scripted{answers: []string{prompt.KeyNo, prompt.KeyNo}}
	if _, err := NewDecider(model.Options{}, p, nil).Decide(request(twoHunkCurrent, twoHunkRendered)); err != nil {
		t.Fatal(err)
	}
	if p.asked[0] != "Apply hunk 1/2 to /work/conf/app.txt?" {
		t.Errorf("unexpected question %q", p.asked[0])
	}
}

func TestBlockLineModeForOneHunk(t *testing.T) {
	// l on hunk 1, y for its only pair, then y for hunk 2 in block mode
	p := &scripted{answers: []string{prompt.KeyLineMode, prompt.KeyYes, prompt.KeyYes}}
	rec := &recorder{}

	got, err := NewDecider(model.Options{}, p, rec).Decide(request(twoHunkCurrent, twoHunkRendered))
	if err != nil {
		t.Fatal(err)
	}
	// line mode was used, so even a complete acceptance is rebuilt
	if got.Kind != model.DecisionPartial || got.Content != twoHunkRendered {
		t.Errorf("decision = %s %q", got, got.Content)
	}
	if !rec.has("pair first>FIRST") {
		t.Errorf("expected pair preview, got %v", rec.events)
	}
}

func TestLineModePairwise(t *testing.T) {
	got, err := decideCooked(t, model.Options{LineMode: true}, request("a\nb\n", "A\nB\n"), "y\nn\n")
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != model.DecisionPartial || got.Content != "A\nb\n" {
		t.Errorf("decision = %s %q, want partial \"A\\nb\\n\"", got, got.Content)
	}
}

func TestLineModeGroups(t *testing.T) {
	tests := []struct {
		name              string
		current, rendered string
		answers           []string
		wantKind          model.DecisionKind
		want              string
		event             string
	}{
		{
			name:    "unequal group accepted",
			current: "keep\na\nb\n", rendered: "keep\nc\n",
			answers:  []string{"y"},
			wantKind: model.DecisionPartial, want: "keep\nc\n",
			event: "group 2>1",
		},
		{
			name:    "unequal group rejected",
			current: "keep\na\nb\n", rendered: "keep\nc\n",
			answers:  []string{"n"},
			wantKind: model.DecisionSkip,
			event:    "group 2>1",
		},
		{
			name:    "deletion",
			current: "a\nb\nc\nd\n", rendered: "a\nd\n",
			answers:  []string{"y", "n"},
			wantKind: model.DecisionPartial, want: "a\nc\nd\n",
			event: "lines removed b",
		},
		{
			name:    "insertion",
			current: "a\n", rendered: "a\nb\nc\n",
			answers:  []string{"n", "y"},
			wantKind: model.DecisionPartial, want: "a\nc\n",
			event: "lines added c",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &scripted{answers: tt.answers}
			rec := &recorder{}
			got, err := NewDecider(model.Options{LineMode: true}, p, rec).Decide(request(tt.current, tt.rendered))
			if err != nil {
				t.Fatal(err)
			}
			if got.Kind != tt.wantKind {
				t.Fatalf("decision = %s, want %s", got, tt.wantKind)
			}
			if got.Content != tt.want {
				t.Errorf("content = %q, want %q", got.Content, tt.want)
			}
			if !rec.has(tt.event) {
				t.Errorf("expected event %q in %v", tt.event, rec.events)
			}
			if len(p.answers) != 0 {
				t.Errorf("%d answers left unused", len(p.answers))
			}
		})
	}
}

func TestLineModeAcceptAllIsPartial(t *testing.T) {
	got, err := decideCooked(t, model.Options{LineMode: true}, request(twoHunkCurrent, twoHunkRendered), "y\ny\n")
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != model.DecisionPartial || got.Content != twoHunkRendered {
		t.Errorf("decision = %s %q", got, got.Content)
	}
}

func TestAbortEverywhere(t *testing.T) {
	tests := []struct {
		name  string
		opts  model.Options
		input string
	}{
		{"block first hunk", model.Options{}, "a\n"},
		{"block second hunk", model.Options{}, "y\na\n"},
		{"block line sub-mode", model.Options{}, "l\na\n"},
		{"line mode", model.Options{LineMode: true}, "y\na\n"},
		{"dry run", model.Options{DryRun: true}, "n\na\n"},
		{"dry run line preview", model.Options{DryRun: true}, "l\na\n"},
		{"upper case", model.Options{}, "A\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decideCooked(t, tt.opts, request(twoHunkCurrent, twoHunkRendered), tt.input)
			if !errors.Is(err, prompt.ErrAborted) {
				t.Fatalf("expected ErrAborted, got %v (decision %s)", err, got)
			}
		})
	}
}

func TestDryRunAlwaysSkips(t *testing.T) {
	inputs := []string{"", "\n\n", "n\nn\n", "l\ny\nn\n", "l\ny\nl\ny\n", "y\nf\nn\nn\n"}
	for _, input := range inputs {
		got, err := decideCooked(t, model.Options{DryRun: true}, request(twoHunkCurrent, twoHunkRendered), input)
		if err != nil {
			t.Fatalf("input %q: %v", input, err)
		}
		if got.Kind != model.DecisionSkip {
			t.Errorf("input %q: decision = %s, want skip", input, got)
		}
	}
}

func TestDryRunLinePreview(t *testing.T) {
	p := &scripted{answers: []string{prompt.KeyLineMode, prompt.KeyYes, prompt.KeyNo}}
	rec := &recorder{}

	got, err := NewDecider(model.Options{DryRun: true}, p, rec).Decide(request(twoHunkCurrent, twoHunkRendered))
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != model.DecisionSkip {
		t.Errorf("decision = %s", got)
	}
	if !rec.has("notice Line preview result") {
		t.Errorf("expected preview notice, got %v", rec.events)
	}
	if !rec.has("lines context FIRST,l2,l3,l4") {
		t.Errorf("expected previewed lines, got %v", rec.events)
	}
	if !rec.has("file conf/app.txt dry-run 2") {
		t.Errorf("expected file header, got %v", rec.events)
	}
}

func TestIdenticalNeverPrompts(t *testing.T) {
	modes := []model.Options{{}, {LineMode: true}, {DryRun: true}, {AutoApply: true}}
	for _, opts := range modes {
		p := &scripted{}
		rec := &recorder{}
		got, err := NewDecider(opts, p, rec).Decide(request("same\n", "same\n"))
		if err != nil {
			t.Fatalf("%s: %v", opts.Mode(), err)
		}
		if got.Kind != model.DecisionSkip {
			t.Errorf("%s: decision = %s, want skip", opts.Mode(), got)
		}
		if len(p.asked) != 0 || len(rec.events) != 0 {
			t.Errorf("%s: prompted %v, displayed %v", opts.Mode(), p.asked, rec.events)
		}
	}
}

func TestLineEndingOnlyDifferenceSkips(t *testing.T) {
	p := &scripted{}
	got, err := NewDecider(model.Options{}, p, nil).Decide(request("a\r\nb\r\n", "a\nb\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != model.DecisionSkip || len(p.asked) != 0 {
		t.Errorf("decision = %s after %d prompts", got, len(p.asked))
	}
}

func TestAutoApply(t *testing.T) {
	p := &scripted{}
	got, err := NewDecider(model.Options{AutoApply: true, DryRun: true, LineMode: true}, p, nil).
		Decide(request(twoHunkCurrent, twoHunkRendered))
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != model.DecisionApply {
		t.Errorf("decision = %s, want apply", got)
	}
}

func TestModePriority(t *testing.T) {
	// dry run wins over line mode: the first answer is a dry-run answer
	p := &scripted{answers: []string{prompt.KeyNo, prompt.KeyNo}}
	d := NewDecider(model.Options{DryRun: true, LineMode: true}, p, nil)
	if d.Mode() != model.ModeDryRun {
		t.Fatalf("mode = %s", d.Mode())
	}
	got, err := d.Decide(request(twoHunkCurrent, twoHunkRendered))
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != model.DecisionSkip {
		t.Errorf("decision = %s", got)
	}
	if !strings.Contains(p.asked[0], "dry run") {
		t.Errorf("expected dry-run question, got %q", p.asked[0])
	}
}

func TestCRLFPreserved(t *testing.T) {
	current := strings.ReplaceAll(twoHunkCurrent, "\n", "\r\n")
	got, err := decideCooked(t, model.Options{}, request(current, twoHunkRendered), "y\ny\n")
	if err != nil {
		t.Fatal(err)
	}
	// the rendered file uses LF, so taking it verbatim would change endings
	if got.Kind != model.DecisionPartial {
		t.Fatalf("decision = %s, want partial", got)
	}
	want := strings.ReplaceAll(twoHunkRendered, "\n", "\r\n")
	if got.Content != want {
		t.Errorf("content = %q, want %q", got.Content, want)
	}
	if strings.ContainsAny(strings.ReplaceAll(got.Content, "\r\n", ""), "\r\n") {
		t.Errorf("lone delimiter in %q", got.Content)
	}
}

func TestResolve(t *testing.T) {
	d := NewDecider(model.Options{}, nil, nil)
	req := request(twoHunkCurrent, twoHunkRendered)

	got, err := d.Resolve(req, []bool{true, false})
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != model.DecisionPartial || !strings.HasPrefix(got.Content, "FIRST\n") {
		t.Errorf("decision = %s %q", got, got.Content)
	}

	got, err = d.Resolve(req, []bool{true, true})
	if err != nil || got.Kind != model.DecisionApply {
		t.Errorf("accept all = %s, %v", got, err)
	}

	got, err = d.Resolve(req, []bool{false, false})
	if err != nil || got.Kind != model.DecisionSkip {
		t.Errorf("reject all = %s, %v", got, err)
	}

	if _, err := d.Resolve(req, []bool{true}); !errors.Is(err, ErrAcceptLength) {
		t.Errorf("expected ErrAcceptLength, got %v", err)
	}
}

func TestHunksUsesContext(t *testing.T) {
	req := request(twoHunkCurrent, twoHunkRendered)

	hunks, err := NewDecider(model.Options{}, nil, nil).Hunks(req)
	if err != nil {
		t.Fatal(err)
	}
	if len(hunks) != 2 {
		t.Fatalf("default context: expected 2 hunks, got %d", len(hunks))
	}

	hunks, err = NewDecider(model.Options{}, nil, nil, WithContext(10)).Hunks(req)
	if err != nil {
		t.Fatal(err)
	}
	if len(hunks) != 1 {
		t.Errorf("wide context: expected 1 hunk, got %d", len(hunks))
	}
}

func TestNoPrompterIsAnError(t *testing.T) {
	_, err := NewDecider(model.Options{}, nil, nil).Decide(request(twoHunkCurrent, twoHunkRendered))
	if err == nil {
		t.Fatal("expected error without a prompter")
	}
}
