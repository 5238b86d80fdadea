package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/partboard/partboard/pkg/model"
	"github.com/partboard/partboard/pkg/observability"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes keys and status values in node labels.
	// When false, only the node name is shown.
	Detailed bool
}

// ToDOT converts a graph model to Graphviz DOT format for node-link
// visualization. The resulting DOT string can be rendered using
// [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Node fill follows the record's status, matching the interactive
// templates: lightblue for active, lightgray for inactive.
func ToDOT(m *model.GraphModel, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, rec := range m.NodeDataArray() {
		key, ok := rec.Key()
		if !ok {
			continue
		}
		fmt.Fprintf(&buf, "  %d [label=%q, fillcolor=%q];\n",
			key, fmtLabel(rec, opts.Detailed), statusColor(rec))
	}

	buf.WriteString("\n")
	for _, rec := range m.LinkDataArray() {
		from, okFrom := rec.From()
		to, okTo := rec.To()
		if okFrom && okTo {
			fmt.Fprintf(&buf, "  %d -> %d;\n", from, to)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(rec model.Record, detailed bool) string {
	name, _ := rec["name"].(string)
	if name == "" {
		name = "(unnamed)"
	}
	if !detailed {
		return name
	}
	key, _ := rec.Key()
	label := fmt.Sprintf("%s\nkey: %d", name, key)
	if status, ok := rec["status"].(string); ok {
		label += "\nstatus: " + status
	}
	return label
}

func statusColor(rec model.Record) string {
	switch rec["status"] {
	case "active":
		return "lightblue"
	case "inactive":
		return "lightgray"
	default:
		return "white"
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with
// [ToPDF] or [ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	start := time.Now()
	observability.Render().OnRenderStart(ctx, "svg")

	svg, err := renderSVG(ctx, dot)
	observability.Render().OnRenderComplete(ctx, "svg", len(svg), time.Since(start), err)
	return svg, err
}

func renderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
