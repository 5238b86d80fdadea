package template

import (
	"strconv"
	"strings"
	"testing"

	"github.com/partboard/partboard/pkg/model"
)

// boardModel builds a three-station board: 1 feeds 2 and 3.
func boardModel(t *testing.T) *model.GraphModel {
	t.Helper()
	m := model.New()
	nodes := []model.Record{
		{"key": 1, "name": "Press", "status": "active"},
		{"key": 2, "name": "Mill", "status": "active"},
		{"key": 3, "name": "Paint", "status": "inactive"},
	}
	for _, n := range nodes {
		if err := m.AddNodeData(n); err != nil {
			t.Fatalf("AddNodeData(%v): %v", n, err)
		}
	}
	for _, l := range []model.Record{{"from": 1, "to": 2}, {"from": 1, "to": 3}} {
		if err := m.AddLinkData(l); err != nil {
			t.Fatalf("AddLinkData(%v): %v", l, err)
		}
	}
	return m
}

func TestNewBuildsAllParts(t *testing.T) {
	m := boardModel(t)
	d := New(m, BuiltinRegistry(), TemplateCard)

	if got := len(d.NodeParts()); got != 3 {
		t.Fatalf("node parts = %d, want 3", got)
	}
	if got := len(d.LinkParts()); got != 2 {
		t.Fatalf("link parts = %d, want 2", got)
	}
	for _, p := range d.NodeParts() {
		if p.Root == nil {
			t.Fatalf("part %v has no visual tree", p.Record)
		}
		if p.Root.Actual.IsZero() {
			t.Errorf("part %v was not arranged", p.Record)
		}
	}

	// Node 1 is the only root, so its children sit one row below it.
	p1, _ := d.PartForKey(1)
	p2, _ := d.PartForKey(2)
	if p2.Position.Y <= p1.Position.Y {
		t.Errorf("child y %v not below root y %v", p2.Position.Y, p1.Position.Y)
	}
}

func TestPropertyChangeRefreshesInPlace(t *testing.T) {
	m := boardModel(t)
	d := New(m, BuiltinRegistry(), TemplateCard)

	before2, _ := d.PartForKey(2)
	rec, _ := m.FindNodeForKey(1)
	if err := m.SetDataProperty(rec, "name", "Stamping"); err != nil {
		t.Fatal(err)
	}

	p1, _ := d.PartForKey(1)
	label, _ := p1.Root.FindByName("label")
	if label.Text != "Stamping" {
		t.Errorf("label = %q, want Stamping", label.Text)
	}
	// Other parts are untouched: no full rebuild happened.
	after2, _ := d.PartForKey(2)
	if before2 != after2 {
		t.Error("unrelated part was rebuilt on a property change")
	}
}

func TestMembershipChangeRebuilds(t *testing.T) {
	m := boardModel(t)
	d := New(m, BuiltinRegistry(), TemplateCard)

	if err := m.AddNodeData(model.Record{"name": "Ship", "status": "active"}); err != nil {
		t.Fatal(err)
	}
	if got := len(d.NodeParts()); got != 4 {
		t.Fatalf("node parts after add = %d, want 4", got)
	}

	rec, _ := m.FindNodeForKey(1)
	if err := m.RemoveNodeData(rec); err != nil {
		t.Fatal(err)
	}
	if got := len(d.NodeParts()); got != 3 {
		t.Errorf("node parts after remove = %d, want 3", got)
	}
	if got := len(d.LinkParts()); got != 0 {
		t.Errorf("link parts after cascade = %d, want 0", got)
	}
}

func TestSelectTemplate(t *testing.T) {
	m := boardModel(t)
	d := New(m, BuiltinRegistry(), TemplateCard)

	d.SelectTemplate("no-such-template")
	if d.TemplateID() != TemplateCard {
		t.Fatalf("unknown id changed active template to %q", d.TemplateID())
	}

	d.SelectTemplate(TemplateBadge)
	if d.TemplateID() != TemplateBadge {
		t.Fatalf("template = %q, want badge", d.TemplateID())
	}
	p, _ := d.PartForKey(1)
	if p.Root.Name != "badge" {
		t.Errorf("part root = %q, want badge tree", p.Root.Name)
	}
}

func TestAddNodeIsUndoable(t *testing.T) {
	m := boardModel(t)
	d := New(m, BuiltinRegistry(), TemplateCard)

	rec, err := d.AddNode()
	if err != nil {
		t.Fatal(err)
	}
	if rec["name"] != "New Node" || rec["status"] != "active" {
		t.Errorf("new record = %v", rec)
	}
	if m.NodeCount() != 4 {
		t.Fatalf("node count = %d, want 4", m.NodeCount())
	}

	if err := d.Undo(); err != nil {
		t.Fatal(err)
	}
	if m.NodeCount() != 3 {
		t.Errorf("node count after undo = %d, want 3", m.NodeCount())
	}
	if err := d.Redo(); err != nil {
		t.Fatal(err)
	}
	if m.NodeCount() != 4 {
		t.Errorf("node count after redo = %d, want 4", m.NodeCount())
	}
}

func TestRemoveSelectedNode(t *testing.T) {
	m := boardModel(t)
	d := New(m, BuiltinRegistry(), TemplateCard)

	// Nothing selected: no-op.
	if err := d.RemoveSelectedNode(); err != nil {
		t.Fatal(err)
	}
	if m.NodeCount() != 3 {
		t.Fatalf("no-op removal changed the model")
	}

	rec, _ := m.FindNodeForKey(1)
	m.Selection().Select(rec)
	if err := d.RemoveSelectedNode(); err != nil {
		t.Fatal(err)
	}
	if m.NodeCount() != 2 || m.LinkCount() != 0 {
		t.Fatalf("after removal: %d nodes, %d links", m.NodeCount(), m.LinkCount())
	}
	if _, ok := m.Selection().Primary(); ok {
		t.Error("removed node still selected")
	}

	if err := d.Undo(); err != nil {
		t.Fatal(err)
	}
	if m.NodeCount() != 3 || m.LinkCount() != 2 {
		t.Errorf("undo restored %d nodes, %d links", m.NodeCount(), m.LinkCount())
	}
}

func TestToggleStatus(t *testing.T) {
	m := boardModel(t)
	d := New(m, BuiltinRegistry(), TemplateCard)

	rec, _ := m.FindNodeForKey(3) // inactive
	m.Selection().Select(rec)

	if err := d.ToggleStatus(); err != nil {
		t.Fatal(err)
	}
	if rec["status"] != "active" {
		t.Fatalf("status = %v, want active", rec["status"])
	}
	p, _ := d.PartForKey(3)
	bg, _ := p.Root.FindByName("background")
	if bg.Fill != "lightblue" {
		t.Errorf("fill after toggle = %q, want lightblue", bg.Fill)
	}

	if err := d.Undo(); err != nil {
		t.Fatal(err)
	}
	if rec["status"] != "inactive" {
		t.Errorf("status after undo = %v, want inactive", rec["status"])
	}
}

func TestDispatchPointer(t *testing.T) {
	m := boardModel(t)

	var calls []string
	r := NewRegistry()
	r.Register(Template{
		ID:    "wired",
		Build: buildCard,
		Handlers: map[string]HandlerSet{
			"label": {Click: func(ev PointerEvent) {
				key, _ := ev.Part.Key()
				calls = append(calls, "label-click", ev.Target, strconv.Itoa(key))
			}},
			"": {
				Click: func(ev PointerEvent) { calls = append(calls, "part-click") },
				Enter: func(ev PointerEvent) { calls = append(calls, "part-enter") },
			},
		},
	})
	d := New(m, r, "wired")

	// Named subtree wins over the part-level fallback.
	d.DispatchPointer(EventClick, 2, "label")
	if got := strings.Join(calls, ","); got != "label-click,label,2" {
		t.Fatalf("calls = %q", got)
	}
	if sel, ok := m.Selection().Primary(); !ok || sel["name"] != "Mill" {
		t.Fatalf("click did not select node 2: %v", sel)
	}

	// No handler on the target: falls back to the whole-part entry.
	calls = nil
	d.DispatchPointer(EventClick, 1, "background")
	if got := strings.Join(calls, ","); got != "part-click" {
		t.Errorf("fallback calls = %q", got)
	}

	// Enter is only declared at the part level.
	calls = nil
	d.DispatchPointer(EventEnter, 1, "label")
	if got := strings.Join(calls, ","); got != "part-enter" {
		t.Errorf("enter calls = %q", got)
	}

	// Undeclared kind and unknown key are both dropped.
	calls = nil
	d.DispatchPointer(EventLeave, 1, "label")
	d.DispatchPointer(EventClick, 99, "label")
	if len(calls) != 0 {
		t.Errorf("unexpected calls %v", calls)
	}
}

func TestLogModelData(t *testing.T) {
	m := boardModel(t)
	d := New(m, BuiltinRegistry(), TemplateCard)

	out := d.LogModelData()
	for _, want := range []string{"nodeDataArray", "linkDataArray", "Press", `"from": 1`} {
		if !strings.Contains(out, want) {
			t.Errorf("model data missing %q:\n%s", want, out)
		}
	}
}

func TestLogSelectedPart(t *testing.T) {
	m := boardModel(t)
	d := New(m, BuiltinRegistry(), TemplateCard)

	if got := d.LogSelectedPart(); got != "no selection" {
		t.Errorf("empty selection = %q", got)
	}
	rec, _ := m.FindNodeForKey(2)
	m.Selection().Select(rec)
	if got := d.LogSelectedPart(); !strings.Contains(got, "Mill") {
		t.Errorf("selected part = %q", got)
	}
}
