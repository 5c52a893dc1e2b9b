package diff

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Parse errors. All of them are fatal for the file being processed.
var (
	ErrHunkHeader = errors.New("unable to parse diff hunk header")
	ErrHunkLength = errors.New("hunk body does not match header line counts")
	ErrHunkOrder  = errors.New("hunks overlap or are out of order")
)

var hunkHeaderRE = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

const noNewlineMarker = `\`

// ParseHunks turns single-file unified diff text into hunks in ascending
// OldStart order. Empty text yields no hunks.
func ParseHunks(text string) ([]Hunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	p := &hunkParser{}
	for _, line := range SplitLines(text) {
		if err := p.feed(line); err != nil {
			return nil, err
		}
	}
	if err := p.close(); err != nil {
		return nil, err
	}
	return p.hunks, nil
}

type hunkParser struct {
	hunks []Hunk
	cur   *Hunk

	// lines still expected on each side of the open hunk
	oldLeft int
	newLeft int
}

func (p *hunkParser) feed(line string) error {
	if strings.HasPrefix(line, "@@") {
		if err := p.close(); err != nil {
			return err
		}
		return p.open(line)
	}

	if p.cur == nil {
		// file labels and any preamble
		return nil
	}

	complete := p.oldLeft <= 0 && p.newLeft <= 0
	if line == "" {
		// some tools strip the space off blank context lines
		if p.oldLeft > 0 && p.newLeft > 0 {
			p.add(OpContext, "")
		}
		return nil
	}
	if complete && (strings.HasPrefix(line, "--- ") || strings.HasPrefix(line, "+++ ")) {
		return nil
	}

	switch line[:1] {
	case " ":
		p.add(OpContext, line[1:])
	case "-":
		p.add(OpRemoved, line[1:])
	case "+":
		p.add(OpAdded, line[1:])
	case noNewlineMarker:
		// dropped
	}
	return nil
}

func (p *hunkParser) add(op LineOp, text string) {
	p.cur.Lines = append(p.cur.Lines, TaggedLine{Op: op, Text: text})
	if op != OpAdded {
		p.oldLeft--
	}
	if op != OpRemoved {
		p.newLeft--
	}
}

func (p *hunkParser) open(line string) error {
	m := hunkHeaderRE.FindStringSubmatch(line)
	if m == nil {
		return fmt.Errorf("%w: %q", ErrHunkHeader, line)
	}

	h := &Hunk{Header: line, OldCount: 1, NewCount: 1}
	h.OldStart, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		h.OldCount, _ = strconv.Atoi(m[2])
	}
	h.NewStart, _ = strconv.Atoi(m[3])
	if m[4] != "" {
		h.NewCount, _ = strconv.Atoi(m[4])
	}

	p.cur = h
	p.oldLeft = h.OldCount
	p.newLeft = h.NewCount
	return nil
}

func (p *hunkParser) close() error {
	h := p.cur
	if h == nil {
		return nil
	}
	p.cur = nil

	if p.oldLeft != 0 || p.newLeft != 0 {
		return fmt.Errorf("%w: %s", ErrHunkLength, h.Header)
	}

	// "-5,0" inserts after line 5: the hunk sits before line 6.
	if h.OldCount == 0 {
		h.OldStart++
	}
	if h.OldStart < 1 {
		return fmt.Errorf("%w: %s", ErrHunkHeader, h.Header)
	}

	if n := len(p.hunks); n > 0 && p.hunks[n-1].End() > h.OldStart {
		return fmt.Errorf("%w: %s after %s", ErrHunkOrder, h.Header, p.hunks[n-1].Header)
	}

	p.hunks = append(p.hunks, *h)
	return nil
}
