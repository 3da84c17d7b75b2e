package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/kraitsura/insight_viewer/pkg/model"
)

// maxSearchResults caps the result list shown under the input.
const maxSearchResults = 8

// searchEntry pairs a node id with the text fuzzy matching runs against.
type searchEntry struct {
	id   string
	text string
}

type searchSource []searchEntry

func (s searchSource) String(i int) string { return s[i].text }
func (s searchSource) Len() int            { return len(s) }

// SearchModel is the fuzzy search overlay. It matches against every node in
// the snapshot, hidden ones included, so accepting a result can jump anywhere.
type SearchModel struct {
	input   textinput.Model
	source  searchSource
	matches fuzzy.Matches
	cursor  int
	theme   Theme
}

// NewSearchModel creates a closed search overlay.
func NewSearchModel(theme Theme) SearchModel {
	ti := textinput.New()
	ti.Placeholder = "search topics…"
	ti.Prompt = "/ "
	ti.CharLimit = 80
	return SearchModel{input: ti, theme: theme}
}

// Open resets the overlay against the given nodes and focuses the input.
func (m *SearchModel) Open(nodes []model.Node) {
	m.source = m.source[:0]
	for _, n := range nodes {
		if !n.Type.IsSelectable() {
			continue
		}
		text := n.Label
		if n.Description != "" {
			text += " " + n.Description
		}
		m.source = append(m.source, searchEntry{id: n.ID, text: text})
	}
	m.input.SetValue("")
	m.input.Focus()
	m.matches = nil
	m.cursor = 0
}

// Close blurs the input and drops the match state.
func (m *SearchModel) Close() {
	m.input.Blur()
	m.matches = nil
	m.cursor = 0
}

// Accepted returns the node id under the result cursor.
func (m SearchModel) Accepted() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.matches) {
		return "", false
	}
	return m.source[m.matches[m.cursor].Index].id, true
}

// Update handles key input while the overlay is focused.
func (m SearchModel) Update(msg tea.Msg) (SearchModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "down", "ctrl+n":
			if m.cursor < len(m.matches)-1 {
				m.cursor++
			}
			return m, nil
		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.matches = fuzzy.FindFrom(m.input.Value(), m.source)
	if len(m.matches) > maxSearchResults {
		m.matches = m.matches[:maxSearchResults]
	}
	if m.cursor >= len(m.matches) {
		m.cursor = 0
	}
	return m, cmd
}

// View renders the input line followed by the top matches.
func (m SearchModel) View() string {
	t := m.theme
	var b strings.Builder
	b.WriteString(m.input.View())

	matchStyle := t.Renderer.NewStyle().Foreground(t.Subtext)
	selStyle := t.Renderer.NewStyle().Foreground(t.Primary).Bold(true)
	for i, match := range m.matches {
		b.WriteByte('\n')
		entry := m.source[match.Index]
		line := fmt.Sprintf("  %s", entry.text)
		if i == m.cursor {
			b.WriteString(selStyle.Render("▸" + line[1:]))
		} else {
			b.WriteString(matchStyle.Render(line))
		}
	}
	return b.String()
}
