package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kraitsura/insight_viewer/pkg/analysis"
	"github.com/kraitsura/insight_viewer/pkg/model"
)

// typeRows fixes the display order of node types in the stats panel.
var typeRows = []struct {
	nodeType model.NodeType
	label    string
}{
	{model.TypeTopic, "Topics:"},
	{model.TypeSubtopic, "Subtopics:"},
	{model.TypePoint, "Points:"},
	{model.TypeMoment, "Moments:"},
}

// RenderTypeBars renders the per-type node breakdown with mini bars.
func RenderTypeBars(stats analysis.GraphStats, theme Theme) []string {
	t := theme
	total := stats.NodeCount
	if total == 0 {
		total = 1
	}

	lines := make([]string, 0, len(typeRows))
	for _, row := range typeRows {
		count := stats.TypeCounts[row.nodeType]
		bar := RenderMiniBar(float64(count)/float64(total), 10, t)
		dot := t.Renderer.NewStyle().Foreground(t.TypeColor(row.nodeType)).Render(TypeIcon(row.nodeType))
		lines = append(lines, fmt.Sprintf("   %s %-11s %3d %s", dot, row.label, count, bar))
	}
	return lines
}

// RenderStatsPanel renders the graph shape summary shown on 's'.
func RenderStatsPanel(stats analysis.GraphStats, theme Theme) string {
	t := theme
	var b strings.Builder

	titleStyle := t.Renderer.NewStyle().Bold(true).Foreground(t.Primary)
	labelStyle := t.Renderer.NewStyle().Foreground(t.Subtext)

	b.WriteString(titleStyle.Render("Graph Shape"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "   %s %d nodes, %d edges\n", labelStyle.Render("Size:"), stats.NodeCount, stats.EdgeCount)
	fmt.Fprintf(&b, "   %s %d levels deep, %d leaves\n", labelStyle.Render("Depth:"), stats.MaxDepth+1, stats.LeafCount)
	fmt.Fprintf(&b, "   %s %.1f children per branch\n", labelStyle.Render("Branching:"), stats.AvgBranching)
	if d, w := stats.WidestDepth(); w > 0 {
		fmt.Fprintf(&b, "   %s %d nodes at level %d\n", labelStyle.Render("Widest:"), w, d)
	}
	fmt.Fprintf(&b, "   %s %d\n", labelStyle.Render("Excerpts:"), stats.TotalChunks)
	b.WriteString("\n")

	for _, line := range RenderTypeBars(stats, t) {
		b.WriteString(line + "\n")
	}

	if len(stats.Unreachable) > 0 {
		warnStyle := t.Renderer.NewStyle().Foreground(lipgloss.Color("#FFB86C"))
		fmt.Fprintf(&b, "\n   %s\n", warnStyle.Render(fmt.Sprintf("%d unreachable node(s)", len(stats.Unreachable))))
	}

	boxStyle := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(1, 2)
	return boxStyle.Render(b.String())
}
