package render

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/partboard/partboard/pkg/observability"
	"github.com/partboard/partboard/pkg/template"
	"github.com/partboard/partboard/pkg/visual"
)

const sceneMargin = 20.0

// SceneOption configures scene serialization.
type SceneOption func(*sceneRenderer)

type sceneRenderer struct {
	background string
	showLinks  bool
}

// WithBackground fills the scene with a solid background color.
func WithBackground(color string) SceneOption {
	return func(r *sceneRenderer) { r.background = color }
}

// WithoutLinks omits the link lines between node parts.
func WithoutLinks() SceneOption {
	return func(r *sceneRenderer) { r.showLinks = false }
}

// SceneSVG serializes a diagram's arranged parts to SVG. Unlike
// [RenderSVG], which lets Graphviz place the nodes, this uses the exact
// positions the diagram's layout oracle assigned and the exact geometry
// the panel arrangement produced.
func SceneSVG(d *template.Diagram, opts ...SceneOption) []byte {
	ctx := context.Background()
	start := time.Now()
	observability.Render().OnRenderStart(ctx, "scene-svg")

	r := sceneRenderer{showLinks: true}
	for _, opt := range opts {
		opt(&r)
	}

	parts := d.NodeParts()
	slices.SortFunc(parts, func(a, b *template.Part) int {
		ka, _ := a.Key()
		kb, _ := b.Key()
		return cmp.Compare(ka, kb)
	})

	w, h := sceneBounds(parts)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill=%q/>`+"\n", r.background)
	}

	if r.showLinks {
		renderLinks(&buf, d, parts)
	}
	for _, p := range parts {
		if p.Root == nil {
			continue
		}
		origin := p.Position.Add(visual.Point{X: sceneMargin, Y: sceneMargin})
		renderObject(&buf, p.Root, origin, 1)
	}

	buf.WriteString("</svg>\n")
	out := buf.Bytes()
	observability.Render().OnRenderComplete(ctx, "scene-svg", len(out), time.Since(start), nil)
	return out
}

// sceneBounds returns the frame size covering every part plus margins.
func sceneBounds(parts []*template.Part) (w, h float64) {
	for _, p := range parts {
		if p.Root == nil {
			continue
		}
		w = max(w, p.Position.X+p.Root.Actual.W)
		h = max(h, p.Position.Y+p.Root.Actual.H)
	}
	return w + 2*sceneMargin, h + 2*sceneMargin
}

// renderLinks draws a line per link part between the centers of its
// endpoint parts. Links with an unresolved endpoint are skipped.
func renderLinks(buf *bytes.Buffer, d *template.Diagram, parts []*template.Part) {
	centers := make(map[int]visual.Point, len(parts))
	for _, p := range parts {
		if p.Root == nil {
			continue
		}
		key, _ := p.Key()
		centers[key] = visual.Point{
			X: p.Position.X + sceneMargin + p.Root.Actual.W/2,
			Y: p.Position.Y + sceneMargin + p.Root.Actual.H/2,
		}
	}
	for _, l := range d.LinkParts() {
		from, okFrom := centers[l.From]
		to, okTo := centers[l.To]
		if !okFrom || !okTo {
			continue
		}
		fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="dimgray" stroke-width="1.5"/>`+"\n",
			from.X, from.Y, to.X, to.Y)
	}
}

// renderObject serializes one visual object and its children. Offsets are
// parent-relative, so the absolute origin accumulates down the tree.
func renderObject(buf *bytes.Buffer, o *visual.Object, parent visual.Point, depth int) {
	pos := parent.Add(o.Offset)
	indent := strings.Repeat("  ", depth)

	switch o.Kind {
	case visual.KindShape:
		renderShape(buf, o, pos, indent)
	case visual.KindText:
		fmt.Fprintf(buf, `%s<text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle" font-size="%.0f">%s</text>`+"\n",
			indent, pos.X+o.Actual.W/2, pos.Y+o.Actual.H/2, textFontSize(o), escapeXML(o.Text))
	case visual.KindPanel:
		fmt.Fprintf(buf, "%s<g>\n", indent)
		for _, child := range o.Children {
			renderObject(buf, child, pos, depth+1)
		}
		fmt.Fprintf(buf, "%s</g>\n", indent)
	}
}

func renderShape(buf *bytes.Buffer, o *visual.Object, pos visual.Point, indent string) {
	fill := o.Fill
	if fill == "" {
		fill = "none"
	}
	stroke := fmt.Sprintf(` stroke=%q stroke-width="%.1f"`, cmp.Or(o.Stroke, "none"), o.StrokeWidth)

	switch o.Figure {
	case "Circle", "Ellipse":
		fmt.Fprintf(buf, `%s<ellipse cx="%.1f" cy="%.1f" rx="%.1f" ry="%.1f" fill=%q%s/>`+"\n",
			indent, pos.X+o.Actual.W/2, pos.Y+o.Actual.H/2, o.Actual.W/2, o.Actual.H/2, fill, stroke)
	case "Diamond":
		cx, cy := pos.X+o.Actual.W/2, pos.Y+o.Actual.H/2
		fmt.Fprintf(buf, `%s<polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f %.1f,%.1f" fill=%q%s/>`+"\n",
			indent, cx, pos.Y, pos.X+o.Actual.W, cy, cx, pos.Y+o.Actual.H, pos.X, cy, fill, stroke)
	case "RoundedRectangle":
		fmt.Fprintf(buf, `%s<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="6" fill=%q%s/>`+"\n",
			indent, pos.X, pos.Y, o.Actual.W, o.Actual.H, fill, stroke)
	default:
		fmt.Fprintf(buf, `%s<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill=%q%s/>`+"\n",
			indent, pos.X, pos.Y, o.Actual.W, o.Actual.H, fill, stroke)
	}
}

func textFontSize(o *visual.Object) float64 {
	if o.FontSize > 0 {
		return o.FontSize
	}
	return 12
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escapeXML(s string) string { return xmlEscaper.Replace(s) }
