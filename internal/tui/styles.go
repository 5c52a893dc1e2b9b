package tui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color palette.
var (
	colorRed       = lipgloss.Color("#ff5555")
	colorGreen     = lipgloss.Color("#50fa7b")
	colorYellow    = lipgloss.Color("#f1fa8c")
	colorBlue      = lipgloss.Color("#8be9fd")
	colorPurple    = lipgloss.Color("#bd93f9")
	colorDim       = lipgloss.Color("#6272a4")
	colorBgLight   = lipgloss.Color("#343746")
	colorFg        = lipgloss.Color("#f8f8f2")
	colorOrange    = lipgloss.Color("#ffb86c")
	colorBorder    = lipgloss.Color("#44475a")
	colorHighlight = lipgloss.Color("#44475a")
	colorRedBg     = lipgloss.Color("#5c2a35")
	colorGreenBg   = lipgloss.Color("#234a33")
)

// NewRenderer returns a lipgloss renderer for w. With color off the
// renderer uses the Ascii profile and every style renders as plain text.
func NewRenderer(w io.Writer, color bool) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
		return r
	}
	// colour was requested explicitly or w is a terminal; never let
	// detection on a pipe silently drop it
	profile := termenv.NewOutput(w).EnvColorProfile()
	if profile == termenv.Ascii {
		profile = termenv.ANSI256
	}
	r.SetColorProfile(profile)
	return r
}

// Styles is the full set of styles, bound to one renderer.
type Styles struct {
	r *lipgloss.Renderer

	// Prompt output
	FileHeader  lipgloss.Style
	FileMeta    lipgloss.Style
	HunkHeader  lipgloss.Style
	HunkTitle   lipgloss.Style
	Added       lipgloss.Style
	Removed     lipgloss.Style
	AddedEmph   lipgloss.Style
	RemovedEmph lipgloss.Style
	Context     lipgloss.Style
	Notice      lipgloss.Style

	// Outcomes
	Created   lipgloss.Style
	Updated   lipgloss.Style
	Skipped   lipgloss.Style
	Unchanged lipgloss.Style
	Warning   lipgloss.Style

	// Preview
	FileList         lipgloss.Style
	FileItem         lipgloss.Style
	FileItemSelected lipgloss.Style
	FileItemNew      lipgloss.Style
	DiffView         lipgloss.Style
	LineNumber       lipgloss.Style
	StatusBar        lipgloss.Style
	HelpBar          lipgloss.Style
	HelpKey          lipgloss.Style
}

// NewStyles builds the palette on r.
func NewStyles(r *lipgloss.Renderer) Styles {
	line := func() lipgloss.Style {
		return r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	}

	return Styles{
		r: r,

		FileHeader: r.NewStyle().
			Foreground(colorBlue).
			Bold(true),
		FileMeta: r.NewStyle().
			Foreground(colorDim),
		HunkHeader: r.NewStyle().
			Foreground(colorPurple).
			Bold(true),
		HunkTitle: r.NewStyle().
			Foreground(colorDim),
		Added: line().
			Foreground(colorGreen),
		Removed: line().
			Foreground(colorRed),
		AddedEmph: line().
			Foreground(colorGreen).
			Background(colorGreenBg).
			Bold(true),
		RemovedEmph: line().
			Foreground(colorRed).
			Background(colorRedBg).
			Bold(true),
		Context: line().
			Foreground(colorFg),
		Notice: r.NewStyle().
			Foreground(colorYellow),

		Created: r.NewStyle().
			Foreground(colorGreen).
			Bold(true),
		Updated: r.NewStyle().
			Foreground(colorBlue).
			Bold(true),
		Skipped: r.NewStyle().
			Foreground(colorOrange),
		Unchanged: r.NewStyle().
			Foreground(colorDim),
		Warning: r.NewStyle().
			Foreground(colorYellow).
			Bold(true),

		FileList: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1),
		FileItem: r.NewStyle().
			Foreground(colorFg),
		FileItemSelected: r.NewStyle().
			Foreground(colorFg).
			Background(colorHighlight).
			Bold(true),
		FileItemNew: r.NewStyle().
			Foreground(colorGreen),
		DiffView: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1),
		LineNumber: r.NewStyle().
			Foreground(colorDim).
			Width(4).
			Align(lipgloss.Right),
		StatusBar: r.NewStyle().
			Foreground(colorFg).
			Background(colorBgLight).
			Padding(0, 1),
		HelpBar: r.NewStyle().
			Foreground(colorDim),
		HelpKey: r.NewStyle().
			Foreground(colorYellow),
	}
}

// Token renders syntax-highlighted text in a chroma hex colour.
func (s Styles) Token(text, hex string) string {
	if hex == "" {
		return s.Context.Render(text)
	}
	return s.r.NewStyle().
		TabWidth(lipgloss.NoTabConversion).
		Foreground(lipgloss.Color(hex)).
		Render(text)
}
