package template

import (
	"fmt"

	"github.com/partboard/partboard/pkg/binding"
	"github.com/partboard/partboard/pkg/visual"
)

// Built-in template ids.
const (
	TemplateCard     = "card"
	TemplateBadge    = "badge"
	TemplatePipeline = "pipeline"
)

// StatusFill maps a record's status field to a fill color. Unknown or
// missing values fall back to gray so a bad record still renders.
func StatusFill(v any) any {
	switch v {
	case "active":
		return "lightblue"
	case "inactive":
		return "lightgray"
	default:
		return "gray"
	}
}

// UpperText renders any value as an upper-cased label.
func UpperText(v any) any {
	s := fmt.Sprintf("%v", v)
	out := []rune(s)
	for i, r := range out {
		if r >= 'a' && r <= 'z' {
			out[i] = r - 32
		}
	}
	return string(out)
}

// BuiltinRegistry returns a registry preloaded with the built-in
// templates. Hosts attach their own pointer handlers per template id
// before registering; the built-ins declare none.
func BuiltinRegistry() *Registry {
	r := NewRegistry()
	r.Register(Template{ID: TemplateCard, Build: buildCard})
	r.Register(Template{ID: TemplateBadge, Build: buildBadge})
	r.Register(Template{ID: TemplatePipeline, Build: buildPipeline})
	return r
}

// buildCard is the default node look: an auto panel whose rounded
// background stretches around the name label and takes its fill from the
// record's status.
func buildCard() *visual.Object {
	bg := visual.NewShape("RoundedRectangle").
		WithName("background").
		WithStroke("dimgray", 1).
		Bind(binding.New("fill", "status").WithConverter(StatusFill))

	label := visual.NewTextBlock("").
		WithName("label").
		Bind(binding.New("text", "name"))

	return visual.NewPanel(visual.LayoutAuto, bg, label).
		WithName("card").
		WithPadding(visual.UniformMargin(8))
}

// buildBadge overlays a status dot on the top-right corner of a fixed
// square, with the name stacked underneath.
func buildBadge() *visual.Object {
	body := visual.NewShape("Rectangle").
		WithDesiredSize(60, 60).
		WithFill("white").
		WithStroke("dimgray", 1)

	dot := visual.NewShape("Circle").
		WithName("statusDot").
		WithDesiredSize(20, 20).
		WithAlignment(visual.SpotTopRight).
		WithAlignmentFocus(visual.SpotCenter).
		Bind(binding.New("fill", "status").WithConverter(StatusFill))

	face := visual.NewPanel(visual.LayoutSpot, body, dot).
		WithName("face")

	label := visual.NewTextBlock("").
		WithName("label").
		WithMargin(visual.Margin{Top: 4}).
		Bind(binding.New("text", "name"))

	return visual.NewPanel(visual.LayoutVertical, face, label).
		WithName("badge")
}

// buildPipeline lays the status shape and an upper-cased name side by
// side, the compact look for wide boards.
func buildPipeline() *visual.Object {
	marker := visual.NewShape("Diamond").
		WithName("marker").
		WithDesiredSize(16, 16).
		WithMargin(visual.Margin{Right: 6}).
		Bind(binding.New("fill", "status").WithConverter(StatusFill))

	label := visual.NewTextBlock("").
		WithName("label").
		Bind(binding.New("text", "name").WithConverter(UpperText))

	return visual.NewPanel(visual.LayoutHorizontal, marker, label).
		WithName("pipeline").
		WithDefaultAlignment(visual.SpotCenter)
}
