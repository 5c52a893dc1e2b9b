// Package tui renders diffs for the terminal: the line-oriented Printer used
// while prompting and the read-only Bubble Tea preview of pending changes.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sprite-ai/tmplsync/internal/diff"
)

// Model is the Bubble Tea model of the preview.
type Model struct {
	patch *diff.PatchSet
	st    Styles
	theme string

	width  int
	height int

	fileIndex int

	scrollOffset int
	viewHeight   int

	// rendered lines for the current file
	lines []renderedLine

	splitView bool
	showHelp  bool
}

// New creates a preview over a patch of pending changes.
func New(ps *diff.PatchSet, st Styles, theme string) Model {
	if ps == nil {
		ps = &diff.PatchSet{}
	}
	m := Model{
		patch: ps,
		st:    st,
		theme: theme,
	}
	m.updateLines()
	return m
}

func (m *Model) updateLines() {
	if len(m.patch.Files) == 0 {
		m.lines = nil
		return
	}
	m.lines = renderFile(m.patch.Files[m.fileIndex], m.theme)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewHeight = m.height - 6 // status bar, borders, file header
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Down):
			if m.scrollOffset < len(m.lines)-1 {
				m.scrollOffset++
			}

		case key.Matches(msg, keys.Up):
			if m.scrollOffset > 0 {
				m.scrollOffset--
			}

		case key.Matches(msg, keys.Top):
			m.scrollOffset = 0

		case key.Matches(msg, keys.NextFile):
			if m.fileIndex < len(m.patch.Files)-1 {
				m.fileIndex++
				m.scrollOffset = 0
				m.updateLines()
			}

		case key.Matches(msg, keys.PrevFile):
			if m.fileIndex > 0 {
				m.fileIndex--
				m.scrollOffset = 0
				m.updateLines()
			}

		case key.Matches(msg, keys.NextHunk):
			m.jumpToNextHunk()

		case key.Matches(msg, keys.PrevHunk):
			m.jumpToPrevHunk()

		case key.Matches(msg, keys.Toggle):
			m.splitView = !m.splitView

		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
		}
	}

	return m, nil
}

func (m *Model) jumpToNextHunk() {
	for i := m.scrollOffset + 1; i < len(m.lines); i++ {
		if m.lines[i].IsHunk {
			m.scrollOffset = i
			return
		}
	}
}

func (m *Model) jumpToPrevHunk() {
	for i := m.scrollOffset - 1; i >= 0; i-- {
		if m.lines[i].IsHunk {
			m.scrollOffset = i
			return
		}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	fileListWidth := m.fileListWidth()
	diffWidth := m.width - fileListWidth - 1

	fileList := m.renderFileList(fileListWidth, m.height-2)
	diffView := m.renderDiffView(diffWidth, m.height-2)

	main := lipgloss.JoinHorizontal(lipgloss.Top, fileList, " ", diffView)
	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m Model) fileListWidth() int {
	maxLen := 20
	for _, f := range m.patch.Files {
		if n := len(f.Name()); n > maxLen {
			maxLen = n
		}
	}
	w := maxLen + 12
	if w > m.width/3 {
		w = m.width / 3
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) renderFileList(width, height int) string {
	var b strings.Builder

	maxName := width - 10
	for i, f := range m.patch.Files {
		name := f.Name()
		if maxName > 0 && len(name) > maxName {
			name = "…" + name[len(name)-maxName+1:]
		}

		stats := fmt.Sprintf("+%d -%d", f.AddedLines, f.DeletedLines)
		line := fmt.Sprintf("%-*s %s", maxName, name, stats)

		style := m.st.FileItem
		switch {
		case i == m.fileIndex:
			style = m.st.FileItemSelected
		case f.IsNew:
			style = m.st.FileItemNew
		}

		b.WriteString(style.Width(width - 4).Render(line))
		if i < len(m.patch.Files)-1 {
			b.WriteByte('\n')
		}
	}

	return m.st.FileList.Width(width).Height(height - 2).Render(b.String())
}

func (m Model) renderDiffView(width, height int) string {
	if len(m.patch.Files) == 0 {
		return m.st.DiffView.Width(width).Height(height - 2).Render("No pending changes")
	}

	f := m.patch.Files[m.fileIndex]
	innerWidth := width - 4
	innerHeight := height - 2

	header := f.Name()
	if f.IsNew {
		header += " (new)"
	}

	visibleLines := innerHeight - 2
	if visibleLines < 1 {
		visibleLines = 1
	}

	var b strings.Builder
	b.WriteString(m.st.FileHeader.Render(header))
	b.WriteString("\n\n")

	if m.splitView {
		m.renderSplitDiff(&b, innerWidth, visibleLines)
	} else {
		m.renderUnifiedDiff(&b, innerWidth, visibleLines)
	}

	return m.st.DiffView.Width(width).Height(innerHeight).Render(b.String())
}

func (m Model) visibleRange(visibleLines int) (int, int) {
	end := m.scrollOffset + visibleLines
	if end > len(m.lines) {
		end = len(m.lines)
	}
	return m.scrollOffset, end
}

func (m Model) renderUnifiedDiff(b *strings.Builder, width, visibleLines int) {
	start, end := m.visibleRange(visibleLines)
	for i := start; i < end; i++ {
		b.WriteString(styleLine(m.st, m.lines[i], width))
		if i < end-1 {
			b.WriteByte('\n')
		}
	}
}

func (m Model) renderSplitDiff(b *strings.Builder, width, visibleLines int) {
	halfWidth := (width - 3) / 2

	start, end := m.visibleRange(visibleLines)
	for i := start; i < end; i++ {
		left, right := styleLineSplit(m.st, m.lines[i], halfWidth)
		b.WriteString(left)
		b.WriteString(" │ ")
		b.WriteString(right)
		if i < end-1 {
			b.WriteByte('\n')
		}
	}
}

func (m Model) renderStatusBar() string {
	nFiles, added, deleted := m.patch.Stats()

	left := fmt.Sprintf(" File %d/%d", m.fileIndex+1, nFiles)
	if nFiles == 0 {
		left = " No files"
	}
	if len(m.lines) > 0 {
		left += fmt.Sprintf("  Line %d/%d", m.scrollOffset+1, len(m.lines))
	}

	mode := "unified"
	if m.splitView {
		mode = "split"
	}
	right := fmt.Sprintf("+%d -%d  %s  ? help ", added, deleted, mode)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return m.st.StatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderHelp() string {
	var b strings.Builder

	b.WriteString(m.st.FileHeader.Render("tmplsync preview: keyboard shortcuts"))
	b.WriteString("\n\n")

	bindings := []key.Binding{
		keys.Up, keys.Down, keys.NextFile, keys.PrevFile,
		keys.NextHunk, keys.PrevHunk, keys.Top, keys.Toggle, keys.Help, keys.Quit,
	}
	for _, kb := range bindings {
		h := kb.Help()
		fmt.Fprintf(&b, "  %s  %s\n", m.st.HelpKey.Width(12).Render(h.Key), h.Desc)
	}

	b.WriteString("\n")
	b.WriteString(m.st.HelpBar.Render("Press ? to close help. Nothing is written from this view."))
	return b.String()
}

// Run starts the preview on the alternate screen.
func Run(ps *diff.PatchSet, color bool, theme string) error {
	m := New(ps, NewStyles(NewRenderer(os.Stdout, color)), theme)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
