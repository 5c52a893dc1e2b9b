package prompt

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

const ctrlC = 0x03

var errRawUnavailable = errors.New("raw terminal mode unavailable")

// rawModeFunc switches fd to raw mode and returns the function restoring
// the previous state.
type rawModeFunc func(fd int) (restore func(), err error)

// Terminal is a Prompter over a byte stream. On an interactive terminal it
// answers single keystrokes in raw mode; otherwise it reads whole lines.
type Terminal struct {
	reader *bufio.Reader
	out    io.Writer

	fd      int
	raw     bool
	rawMode rawModeFunc

	// echo writes the answer back, for input that the terminal does not echo
	echo bool
}

var _ Prompter = (*Terminal)(nil)

// NewTerminal prompts on out and reads from in, using raw single-key mode
// when in is a terminal.
func NewTerminal(in *os.File, out io.Writer) *Terminal {
	t := NewCooked(in, out)
	fd := in.Fd()
	if isatty.IsTerminal(fd) && term.IsTerminal(int(fd)) {
		t.fd = int(fd)
		t.raw = true
		t.echo = false
	}
	return t
}

// NewCooked always reads whole lines. Used for piped input.
func NewCooked(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		reader:  bufio.NewReader(in),
		out:     out,
		rawMode: termRawMode,
		echo:    true,
	}
}

// Interactive reports whether single-key raw mode is in use.
func (t *Terminal) Interactive() bool { return t.raw }

// Choose implements Prompter.
func (t *Terminal) Choose(question string, set ChoiceSet) (string, error) {
	if t.raw {
		choice, err := t.chooseRaw(question, set)
		if !errors.Is(err, errRawUnavailable) {
			return choice, err
		}
		slog.Debug("falling back to line input", "error", err)
		t.raw = false
		t.echo = false
	}
	return t.chooseCooked(question, set)
}

// Line implements Prompter. It returns io.EOF only when no text at all was
// read.
func (t *Terminal) Line(question string) (string, error) {
	fmt.Fprintf(t.out, "%s ", question)
	line, err := t.reader.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			err = nil
		} else if !errors.Is(err, io.EOF) {
			err = fmt.Errorf("reading input: %w", err)
		}
	}
	if t.echo {
		fmt.Fprintln(t.out, line)
	}
	return line, err
}

func (t *Terminal) chooseCooked(question string, set ChoiceSet) (string, error) {
	for {
		fmt.Fprintf(t.out, "%s %s ", question, set.Legend())

		line, err := t.reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("reading answer: %w", err)
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		if t.echo {
			fmt.Fprintln(t.out, answer)
		}

		// exhausted input behaves like a bare Enter
		if answer == "" {
			return set.Default, nil
		}

		r, _ := utf8.DecodeRuneInString(answer)
		if r == 'a' {
			return "", ErrAborted
		}
		if k, ok := set.Match(r); ok {
			return k, nil
		}
		fmt.Fprintf(t.out, "Invalid choice %q. Allowed: %s\n", string(r), strings.Join(set.Keys(), ", "))
	}
}

func (t *Terminal) chooseRaw(question string, set ChoiceSet) (string, error) {
	var choice string
	err := t.withRawMode(func() error {
		fmt.Fprintf(t.out, "%s %s ", question, set.Legend())

		buf := make([]byte, 64)
		for {
			n, err := t.reader.Read(buf)
			if n > 0 {
				k, ok, kerr := decodeKey(buf[:n], set)
				if kerr != nil {
					return kerr
				}
				if ok {
					choice = k
					return nil
				}
			}
			if err != nil {
				return err
			}
		}
	})

	switch {
	case errors.Is(err, errRawUnavailable):
		return "", err
	case errors.Is(err, ErrAborted):
		fmt.Fprintln(t.out)
		return "", ErrAborted
	case errors.Is(err, io.EOF):
		choice = set.Default
	case err != nil:
		return "", fmt.Errorf("reading key: %w", err)
	}

	fmt.Fprintln(t.out, choice)
	return choice, nil
}

// withRawMode runs fn with the terminal in raw mode. The previous mode is
// restored on every return path, including aborts and panics.
func (t *Terminal) withRawMode(fn func() error) error {
	restore, err := t.rawMode(t.fd)
	if err != nil {
		return fmt.Errorf("%w: %v", errRawUnavailable, err)
	}
	defer restore()
	return fn()
}

func termRawMode(fd int) (func(), error) {
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return func() { _ = term.Restore(fd, state) }, nil
}

// decodeKey interprets one raw input chunk. ok is false when the chunk
// should be ignored and the caller keep waiting.
func decodeKey(chunk []byte, set ChoiceSet) (k string, ok bool, err error) {
	if bytes.IndexByte(chunk, ctrlC) >= 0 {
		return "", false, ErrAborted
	}

	r, _ := utf8.DecodeRune(chunk)
	switch r {
	case '\r', '\n':
		return set.Default, true, nil
	case utf8.RuneError:
		return "", false, nil
	}

	if unicode.ToLower(r) == 'a' {
		return "", false, ErrAborted
	}
	if k, ok := set.Match(r); ok {
		return k, true, nil
	}
	return "", false, nil
}
