package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kraitsura/insight_viewer/pkg/model"
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - Dracula-inspired with extended semantic colors
// ══════════════════════════════════════════════════════════════════════════════

var (
	// Base colors
	ColorBg          = lipgloss.Color("#282A36")
	ColorBgHighlight = lipgloss.Color("#44475A")
	ColorText        = lipgloss.Color("#F8F8F2")
	ColorSubtext     = lipgloss.Color("#BFBFBF")
	ColorMuted       = lipgloss.Color("#6272A4")

	// Primary accent colors
	ColorPrimary = lipgloss.Color("#BD93F9")
	ColorInfo    = lipgloss.Color("#8BE9FD")
	ColorSuccess = lipgloss.Color("#50FA7B")
	ColorWarning = lipgloss.Color("#FFB86C")
	ColorDanger  = lipgloss.Color("#FF5555")
)

// Theme bundles the renderer with the adaptive colors the viewer uses.
// Carrying the renderer lets tests render against a plain writer.
type Theme struct {
	Renderer *lipgloss.Renderer

	Base      lipgloss.AdaptiveColor
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor

	// Node type colors
	Root     lipgloss.AdaptiveColor
	Topic    lipgloss.AdaptiveColor
	Subtopic lipgloss.AdaptiveColor
	Point    lipgloss.AdaptiveColor
	Moment   lipgloss.AdaptiveColor
}

// DefaultTheme returns the standard dark theme bound to a renderer.
func DefaultTheme(renderer *lipgloss.Renderer) Theme {
	return Theme{
		Renderer: renderer,

		Base:      lipgloss.AdaptiveColor{Light: "#282A36", Dark: "#F8F8F2"},
		Primary:   lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#6272A4", Dark: "#6272A4"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"},
		Border:    lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0D7F9", Dark: "#44475A"},

		Root:     lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#BD93F9"},
		Topic:    lipgloss.AdaptiveColor{Light: "#0E7490", Dark: "#8BE9FD"},
		Subtopic: lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#50FA7B"},
		Point:    lipgloss.AdaptiveColor{Light: "#A16207", Dark: "#F1FA8C"},
		Moment:   lipgloss.AdaptiveColor{Light: "#BE185D", Dark: "#FF79C6"},
	}
}

// TypeColor returns the accent color for a node type.
func (t Theme) TypeColor(nodeType model.NodeType) lipgloss.AdaptiveColor {
	switch nodeType {
	case model.TypeRoot:
		return t.Root
	case model.TypeTopic:
		return t.Topic
	case model.TypeSubtopic:
		return t.Subtopic
	case model.TypePoint:
		return t.Point
	case model.TypeMoment:
		return t.Moment
	}
	return t.Secondary
}

// TypeIcon returns the glyph shown before a node's label.
func TypeIcon(nodeType model.NodeType) string {
	switch nodeType {
	case model.TypeRoot:
		return "◆"
	case model.TypeTopic:
		return "●"
	case model.TypeSubtopic:
		return "○"
	case model.TypePoint:
		return "·"
	case model.TypeMoment:
		return "◦"
	}
	return "?"
}

// ══════════════════════════════════════════════════════════════════════════════
// PANEL STYLES - For split view layouts
// ══════════════════════════════════════════════════════════════════════════════

var (
	// PanelStyle is the default style for unfocused panels
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#44475A"))

	// FocusedPanelStyle is the style for focused panels
	FocusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#BD93F9"))
)

// RenderMiniBar renders a mini horizontal bar for a value between 0 and 1
func RenderMiniBar(value float64, width int, t Theme) string {
	if width <= 0 {
		return ""
	}
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}

	filled := int(value * float64(width))
	if filled > width {
		filled = width
	}

	var barColor lipgloss.AdaptiveColor
	if value >= 0.66 {
		barColor = t.Primary
	} else if value >= 0.33 {
		barColor = t.Topic
	} else {
		barColor = t.Secondary
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return t.Renderer.NewStyle().Foreground(barColor).Render(bar)
}

// RenderDivider renders a horizontal divider line
func RenderDivider(width int, t Theme) string {
	if width <= 0 {
		return ""
	}
	return t.Renderer.NewStyle().
		Foreground(t.Border).
		Render(strings.Repeat("─", width))
}
