// Package export renders a laid-out mind map to a static image. It is the
// concrete rendering adapter behind the engine's view-model contract: SVG
// via svgo, PNG via gg.
package export

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/kraitsura/insight_viewer/pkg/graph"
	"github.com/kraitsura/insight_viewer/pkg/model"
)

// Node box geometry and canvas padding, in canvas units.
const (
	nodeWidth  = 260
	nodeHeight = 56
	padding    = 80
	labelChars = 28
)

// Fill colors by node type, with the Dracula-ish palette the TUI uses.
var typeFill = map[model.NodeType]string{
	model.TypeRoot:     "#BD93F9",
	model.TypeTopic:    "#8BE9FD",
	model.TypeSubtopic: "#50FA7B",
	model.TypePoint:    "#F1FA8C",
	model.TypeMoment:   "#FFB86C",
}

const (
	colorBg      = "#282A36"
	colorEdge    = "#6272A4"
	colorText    = "#282A36"
	colorOutline = "#44475A"
)

// MapSnapshotOptions configures a snapshot render.
type MapSnapshotOptions struct {
	Path     string // output file; extension decides the format unless Format is set
	Format   string // "svg" or "png"; inferred from Path when empty
	View     *graph.ViewModel
	Title    string
	DataHash string // stamped into the image corner for provenance
}

// SaveMapSnapshot renders the view model to the requested file. Unknown
// formats are an error; an empty view renders an empty canvas, not an error.
func SaveMapSnapshot(opts MapSnapshotOptions) error {
	if opts.View == nil {
		return fmt.Errorf("no view model to render")
	}

	format := opts.Format
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(opts.Path), ".")
	}

	switch format {
	case "svg":
		return saveSVG(opts)
	case "png":
		return savePNG(opts)
	default:
		return fmt.Errorf("unsupported snapshot format %q (want svg or png)", format)
	}
}

// bounds computes the pixel extent of the layout plus padding, and the
// offset that maps layout coordinates into the canvas.
func bounds(vm *graph.ViewModel) (width, height int, offsetX, offsetY float64) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range vm.Nodes {
		minX = math.Min(minX, n.Position.X)
		minY = math.Min(minY, n.Position.Y)
		maxX = math.Max(maxX, n.Position.X)
		maxY = math.Max(maxY, n.Position.Y)
	}
	if len(vm.Nodes) == 0 {
		return 2*padding + nodeWidth, 2*padding + nodeHeight, padding, padding
	}

	offsetX = padding - minX
	offsetY = padding - minY
	width = int(maxX-minX) + nodeWidth + 2*padding
	height = int(maxY-minY) + nodeHeight + 2*padding
	return width, height, offsetX, offsetY
}

func nodeLabel(n graph.RenderNode) string {
	label := n.Label
	if runes := []rune(label); len(runes) > labelChars {
		label = string(runes[:labelChars-1]) + "…"
	}
	if n.IsCollapsed && n.HasChildren {
		label += " [+]"
	}
	return label
}

func saveSVG(opts MapSnapshotOptions) error {
	f, err := os.Create(opts.Path)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	defer f.Close()

	vm := opts.View
	width, height, offsetX, offsetY := bounds(vm)

	canvas := svg.New(f)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:"+colorBg)

	positions := make(map[string]graph.Position, len(vm.Nodes))
	for _, n := range vm.Nodes {
		positions[n.ID] = graph.Position{X: n.Position.X + offsetX, Y: n.Position.Y + offsetY}
	}

	// Edges under nodes.
	for _, e := range vm.Edges {
		src, okS := positions[e.Source]
		dst, okT := positions[e.Target]
		if !okS || !okT {
			continue
		}
		style := fmt.Sprintf("stroke:%s;stroke-width:%.1f;stroke-opacity:%.2f;fill:none",
			colorEdge, e.Width, e.Opacity)
		if e.Animated {
			style += ";stroke-dasharray:6,4"
		}
		canvas.Line(
			int(src.X)+nodeWidth, int(src.Y)+nodeHeight/2,
			int(dst.X), int(dst.Y)+nodeHeight/2,
			style,
		)
	}

	for _, n := range vm.Nodes {
		pos := positions[n.ID]
		fill := typeFill[n.Type]
		if fill == "" {
			fill = typeFill[model.TypeTopic]
		}
		opacity := 1.0
		if n.IsDimmed {
			opacity = 0.25
		}
		boxStyle := fmt.Sprintf("fill:%s;fill-opacity:%.2f;stroke:%s;stroke-width:1.5", fill, opacity, colorOutline)
		if n.IsHighlighted {
			boxStyle = fmt.Sprintf("fill:%s;stroke:#FF79C6;stroke-width:3", fill)
		}
		canvas.Roundrect(int(pos.X), int(pos.Y), nodeWidth, nodeHeight, 10, 10, boxStyle)
		canvas.Text(int(pos.X)+14, int(pos.Y)+nodeHeight/2+5, nodeLabel(n),
			fmt.Sprintf("font-family:sans-serif;font-size:14px;fill:%s;fill-opacity:%.2f", colorText, opacity))
	}

	if opts.Title != "" || opts.DataHash != "" {
		stamp := strings.TrimSpace(opts.Title + " " + opts.DataHash)
		canvas.Text(12, height-12, stamp, "font-family:monospace;font-size:11px;fill:#6272A4")
	}
	canvas.End()
	return nil
}

func savePNG(opts MapSnapshotOptions) error {
	vm := opts.View
	width, height, offsetX, offsetY := bounds(vm)

	dc := gg.NewContext(width, height)
	dc.SetHexColor(colorBg)
	dc.Clear()

	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("parse font: %w", err)
	}
	dc.SetFontFace(truetype.NewFace(ttf, &truetype.Options{Size: 14}))

	positions := make(map[string]graph.Position, len(vm.Nodes))
	for _, n := range vm.Nodes {
		positions[n.ID] = graph.Position{X: n.Position.X + offsetX, Y: n.Position.Y + offsetY}
	}

	for _, e := range vm.Edges {
		src, okS := positions[e.Source]
		dst, okT := positions[e.Target]
		if !okS || !okT {
			continue
		}
		dc.SetHexColor(colorEdge)
		if e.Animated {
			dc.SetDash(6, 4)
		} else {
			dc.SetDash()
		}
		dc.SetLineWidth(e.Width)
		dc.DrawLine(src.X+nodeWidth, src.Y+nodeHeight/2, dst.X, dst.Y+nodeHeight/2)
		// gg has no stroke opacity knob; fade dimmed edges through color.
		if e.Opacity < 0.5 {
			dc.SetHexColor("#363949")
		}
		dc.Stroke()
	}
	dc.SetDash()

	for _, n := range vm.Nodes {
		pos := positions[n.ID]
		fill := typeFill[n.Type]
		if fill == "" {
			fill = typeFill[model.TypeTopic]
		}
		if n.IsDimmed {
			fill = "#44475A"
		}
		dc.SetHexColor(fill)
		dc.DrawRoundedRectangle(pos.X, pos.Y, nodeWidth, nodeHeight, 10)
		dc.Fill()

		if n.IsHighlighted {
			dc.SetHexColor("#FF79C6")
			dc.SetLineWidth(3)
			dc.DrawRoundedRectangle(pos.X, pos.Y, nodeWidth, nodeHeight, 10)
			dc.Stroke()
		}

		dc.SetHexColor(colorText)
		if n.IsDimmed {
			dc.SetHexColor("#6272A4")
		}
		dc.DrawStringAnchored(nodeLabel(n), pos.X+14, pos.Y+nodeHeight/2, 0, 0.35)
	}

	if opts.Title != "" || opts.DataHash != "" {
		dc.SetHexColor("#6272A4")
		dc.DrawStringAnchored(strings.TrimSpace(opts.Title+" "+opts.DataHash), 12, float64(height)-12, 0, 0)
	}

	if err := dc.SavePNG(opts.Path); err != nil {
		return fmt.Errorf("save png: %w", err)
	}
	return nil
}
