// Package render turns a diagram into shareable artifacts.
//
// # Overview
//
// Two render paths are available:
//
//   - [ToDOT] plus [RenderSVG] produce a classic node-link overview via
//     Graphviz, letting its layout engine place the nodes.
//   - [SceneSVG] serializes the arranged visual trees exactly as the
//     layout oracle positioned them, so the output matches what an
//     interactive host would display.
//
// # Usage
//
// Render the Graphviz overview:
//
//	dot := render.ToDOT(d.Model(), render.Options{Detailed: true})
//	svg, err := render.RenderSVG(dot)
//
// Or serialize the arranged scene directly:
//
//	svg := render.SceneSVG(d, render.WithBackground("white"))
//
// # Dependencies
//
// The DOT path uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion shells out to librsvg
// (rsvg-convert); the scene path has no external dependencies.
package render
