package template

import (
	"reflect"
	"testing"

	"github.com/partboard/partboard/pkg/model"
	"github.com/partboard/partboard/pkg/visual"
)

func TestRegistryOrderAndReplace(t *testing.T) {
	r := NewRegistry()
	r.Register(Template{ID: "a", Build: buildCard})
	r.Register(Template{ID: "b", Build: buildBadge})
	r.Register(Template{ID: "a", Build: buildBadge}) // replace keeps position

	if got, want := r.IDs(), []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("IDs() = %v, want %v", got, want)
	}
	if _, ok := r.Get("c"); ok {
		t.Error("Get(c) found an unregistered template")
	}
	a, _ := r.Get("a")
	if root := a.Build(); root.Name != "badge" {
		t.Errorf("replaced template builds %q, want badge", root.Name)
	}
}

func TestStatusFill(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"active", "lightblue"},
		{"inactive", "lightgray"},
		{"paused", "gray"},
		{nil, "gray"},
		{42, "gray"},
	}
	for _, tt := range tests {
		if got := StatusFill(tt.in); got != tt.want {
			t.Errorf("StatusFill(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestUpperText(t *testing.T) {
	if got := UpperText("assembly line"); got != "ASSEMBLY LINE" {
		t.Errorf("UpperText = %q", got)
	}
	if got := UpperText(7); got != "7" {
		t.Errorf("UpperText(7) = %q", got)
	}
}

func TestBuiltinCardBindsRecord(t *testing.T) {
	root := buildCard()
	rec := model.Record{"key": 1, "name": "Press", "status": "inactive"}

	if applied := root.Refresh(rec); applied != 2 {
		t.Fatalf("applied %d bindings, want 2", applied)
	}
	visual.Arrange(root)

	bg, ok := root.FindByName("background")
	if !ok || bg.Fill != "lightgray" {
		t.Errorf("background fill = %q, want lightgray", bg.Fill)
	}
	label, ok := root.FindByName("label")
	if !ok || label.Text != "Press" {
		t.Errorf("label text = %q, want Press", label.Text)
	}
	// Auto panel wraps the label plus 8 units of padding on each side.
	if root.Actual.W <= label.Actual.W || root.Actual.H <= label.Actual.H {
		t.Errorf("panel %v not larger than label %v", root.Actual, label.Actual)
	}
}

func TestBuiltinBadgeOverlaysDot(t *testing.T) {
	root := buildBadge()
	root.Refresh(model.Record{"key": 2, "name": "Mill", "status": "active"})
	visual.Arrange(root)

	face, ok := root.FindByName("face")
	if !ok {
		t.Fatal("face panel missing")
	}
	if face.Actual != (visual.Size{W: 60, H: 60}) {
		t.Fatalf("face size = %v, want 60x60", face.Actual)
	}
	dot, _ := root.FindByName("statusDot")
	if dot.Offset != (visual.Point{X: 50, Y: -10}) {
		t.Errorf("dot offset = %v, want {50 -10}", dot.Offset)
	}
	if dot.Fill != "lightblue" {
		t.Errorf("dot fill = %q, want lightblue", dot.Fill)
	}
}

func TestBuiltinPipelineUppercases(t *testing.T) {
	root := buildPipeline()
	root.Refresh(model.Record{"key": 3, "name": "paint", "status": "active"})

	label, _ := root.FindByName("label")
	if label.Text != "PAINT" {
		t.Errorf("label text = %q, want PAINT", label.Text)
	}
}
