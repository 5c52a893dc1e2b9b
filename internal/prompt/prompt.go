// Package prompt reads single decision keys and free-text lines from the
// user. It knows nothing about diffs.
package prompt

import (
	"errors"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
)

// ErrAborted is returned from any prompt when the user aborts with "a" or
// Ctrl-C. Callers must stop the whole batch and write nothing further.
var ErrAborted = errors.New("aborted by user")

// Prompter asks the user questions.
type Prompter interface {
	// Choose returns the key of the chosen binding, or the set's default
	// on a bare Enter.
	Choose(question string, set ChoiceSet) (string, error)
	// Line returns one line of free text without its terminator.
	Line(question string) (string, error)
}

// ChoiceSet is the list of answers a question accepts.
type ChoiceSet struct {
	Bindings []key.Binding
	Default  string
}

// Legend renders the choice legend, e.g. "[y/N/a=abort]". The default key
// is upper-cased. Scripts feeding canned input rely on this text.
func (s ChoiceSet) Legend() string {
	parts := make([]string, 0, len(s.Bindings))
	for _, b := range s.Bindings {
		h := b.Help()
		k := h.Key
		if k == s.Default {
			k = strings.ToUpper(k)
		}
		if h.Desc != "" {
			k += "=" + h.Desc
		}
		parts = append(parts, k)
	}
	return "[" + strings.Join(parts, "/") + "]"
}

// Keys lists the accepted keys in legend order.
func (s ChoiceSet) Keys() []string {
	var keys []string
	for _, b := range s.Bindings {
		keys = append(keys, b.Keys()...)
	}
	return keys
}

// Match maps a typed rune to a binding key, ignoring case.
func (s ChoiceSet) Match(r rune) (string, bool) {
	typed := string(unicode.ToLower(r))
	for _, k := range s.Keys() {
		if k == typed {
			return k, true
		}
	}
	return "", false
}

// Has reports whether k is one of the set's keys.
func (s ChoiceSet) Has(k string) bool {
	for _, have := range s.Keys() {
		if have == k {
			return true
		}
	}
	return false
}
