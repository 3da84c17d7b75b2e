package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"

	"github.com/kraitsura/insight_viewer/pkg/detail"
)

// DetailPaneModel renders the conversation chunks behind the selected topic.
// Content arrives asynchronously via detailMsg, so the pane tracks a loading
// state between selection and response.
type DetailPaneModel struct {
	viewport viewport.Model
	theme    Theme

	topicID string
	title   string
	loading bool
	content string
	width   int
	height  int
}

// NewDetailPaneModel creates an empty detail pane.
func NewDetailPaneModel(theme Theme) DetailPaneModel {
	return DetailPaneModel{theme: theme}
}

// SetSize resizes the pane and its scroll viewport.
func (m *DetailPaneModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport = viewport.New(width-2, height-3)
	if m.content != "" {
		m.viewport.SetContent(m.content)
	}
}

// Clear empties the pane.
func (m *DetailPaneModel) Clear() {
	m.topicID = ""
	m.title = ""
	m.loading = false
	m.content = ""
	m.viewport.SetContent("")
}

// SetLoading marks the pane as waiting for a topic's chunks.
func (m *DetailPaneModel) SetLoading(topicID, title string) {
	m.topicID = topicID
	m.title = title
	m.loading = true
	m.content = ""
}

// SetResponse fills the pane with a fetched response.
func (m *DetailPaneModel) SetResponse(topicID, title string, resp detail.Response) {
	m.topicID = topicID
	m.title = title
	m.loading = false
	m.content = renderChunks(title, resp)
	m.viewport.SetContent(m.content)
	m.viewport.GotoTop()
}

// renderChunks formats the chunks as markdown and runs them through glamour.
// On render failure the raw markdown is shown instead.
func renderChunks(title string, resp detail.Response) string {
	var md strings.Builder
	fmt.Fprintf(&md, "## %s\n\n", title)

	if resp.Meta.Error != "" {
		fmt.Fprintf(&md, "_%s_\n", resp.Meta.Error)
	} else if len(resp.Chunks) == 0 {
		md.WriteString("_no conversation excerpts for this topic_\n")
	}

	for _, c := range resp.Chunks {
		if c.Speaker != "" {
			fmt.Fprintf(&md, "**%s**\n\n", c.Speaker)
		}
		fmt.Fprintf(&md, "> %s\n\n", strings.ReplaceAll(c.Content, "\n", "\n> "))
	}
	if resp.Meta.Total > len(resp.Chunks) {
		fmt.Fprintf(&md, "_%d of %d excerpts shown_\n", len(resp.Chunks), resp.Meta.Total)
	}

	out, err := glamour.Render(md.String(), "dark")
	if err != nil {
		return md.String()
	}
	return out
}

// View renders the pane inside its panel border.
func (m DetailPaneModel) View() string {
	t := m.theme

	var body string
	switch {
	case m.topicID == "":
		body = t.Renderer.NewStyle().Foreground(t.Secondary).Render("select a topic to see its excerpts")
	case m.loading:
		body = t.Renderer.NewStyle().Foreground(t.Secondary).Render("fetching excerpts…")
	default:
		body = m.viewport.View()
	}

	return PanelStyle.
		Width(m.width - 2).
		Height(m.height - 2).
		Render(body)
}
