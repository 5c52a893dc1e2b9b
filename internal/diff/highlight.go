package diff

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultTheme is the chroma style used when none is configured.
const DefaultTheme = "dracula"

// HighlightedLine is one source line split into coloured tokens.
type HighlightedLine struct {
	Tokens []Token
}

// Token is a syntax-highlighted chunk of text.
type Token struct {
	Text  string
	Color string // hex colour, empty for default
}

// Plain returns the concatenated text of all tokens.
func (hl HighlightedLine) Plain() string {
	var b strings.Builder
	for _, t := range hl.Tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

// Highlighter tokenizes lines of one file with a fixed chroma style.
type Highlighter struct {
	lexer chroma.Lexer
	style *chroma.Style
}

// NewHighlighter picks a lexer from filename. theme names a chroma style;
// unknown names fall back to the chroma default.
func NewHighlighter(filename, theme string) *Highlighter {
	if theme == "" {
		theme = DefaultTheme
	}
	style := styles.Get(theme)
	if style == nil {
		style = styles.Fallback
	}
	return &Highlighter{lexer: lexerForFile(filename), style: style}
}

// Lines highlights lines as one source unit so multi-line tokens colour
// correctly. It returns exactly one HighlightedLine per input line.
func (h *Highlighter) Lines(lines []string) []HighlightedLine {
	if h.lexer == nil || len(lines) == 0 {
		return plainLines(lines)
	}

	iterator, err := h.lexer.Tokenise(nil, strings.Join(lines, "\n"))
	if err != nil {
		return plainLines(lines)
	}

	result := make([]HighlightedLine, 0, len(lines))
	current := HighlightedLine{}
	for _, token := range iterator.Tokens() {
		parts := strings.Split(token.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				result = append(result, current)
				current = HighlightedLine{}
			}
			if part != "" {
				current.Tokens = append(current.Tokens, Token{
					Text:  part,
					Color: tokenColor(h.style, token.Type),
				})
			}
		}
	}
	result = append(result, current)

	// lexers may add a trailing newline token; keep the count stable
	if len(result) > len(lines) {
		result = result[:len(lines)]
	}
	for len(result) < len(lines) {
		result = append(result, HighlightedLine{})
	}
	return result
}

// HighlightLines is a convenience wrapper using the default theme.
func HighlightLines(filename string, lines []string) []HighlightedLine {
	return NewHighlighter(filename, DefaultTheme).Lines(lines)
}

func plainLines(lines []string) []HighlightedLine {
	result := make([]HighlightedLine, len(lines))
	for i, line := range lines {
		result[i] = HighlightedLine{Tokens: []Token{{Text: line}}}
	}
	return result
}

func lexerForFile(filename string) chroma.Lexer {
	lexer := lexers.Match(filename)
	if lexer == nil {
		if ext := filepath.Ext(filename); ext != "" {
			lexer = lexers.Match("file" + ext)
		}
	}
	if lexer != nil {
		lexer = chroma.Coalesce(lexer)
	}
	return lexer
}

func tokenColor(style *chroma.Style, tt chroma.TokenType) string {
	entry := style.Get(tt)
	if entry.Colour.IsSet() {
		return entry.Colour.String()
	}
	return ""
}
