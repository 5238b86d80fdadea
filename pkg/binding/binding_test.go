package binding

import (
	"fmt"
	"testing"

	"github.com/partboard/partboard/pkg/model"
)

// propSink records property writes and can reject named properties.
type propSink struct {
	props  map[string]any
	reject map[string]bool
}

func newPropSink() *propSink {
	return &propSink{props: map[string]any{}, reject: map[string]bool{}}
}

func (s *propSink) SetProperty(name string, value any) error {
	if s.reject[name] {
		return fmt.Errorf("unknown property %q", name)
	}
	s.props[name] = value
	return nil
}

func TestRefresh(t *testing.T) {
	rec := model.Record{"key": 1, "name": "Alpha", "status": "active"}

	tests := []struct {
		name        string
		bindings    []Binding
		reject      []string
		wantApplied int
		wantProps   map[string]any
	}{
		{
			name:        "raw value",
			bindings:    []Binding{New("text", "name")},
			wantApplied: 1,
			wantProps:   map[string]any{"text": "Alpha"},
		},
		{
			name: "converted value",
			bindings: []Binding{
				New("fill", "status").WithConverter(func(v any) any {
					if v == "active" {
						return "#A5D6A7"
					}
					return "#EF9A9A"
				}),
			},
			wantApplied: 1,
			wantProps:   map[string]any{"fill": "#A5D6A7"},
		},
		{
			name:        "missing field skipped",
			bindings:    []Binding{New("text", "nonexistent")},
			wantApplied: 0,
			wantProps:   map[string]any{},
		},
		{
			name: "panicking converter skipped",
			bindings: []Binding{
				New("text", "name").WithConverter(func(v any) any {
					panic("bad converter")
				}),
				New("fill", "status"),
			},
			wantApplied: 1,
			wantProps:   map[string]any{"fill": "active"},
		},
		{
			name:        "rejected property skipped",
			bindings:    []Binding{New("bogus", "name"), New("text", "name")},
			reject:      []string{"bogus"},
			wantApplied: 1,
			wantProps:   map[string]any{"text": "Alpha"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := newPropSink()
			for _, r := range tt.reject {
				sink.reject[r] = true
			}

			got := Refresh(sink, tt.bindings, rec)
			if got != tt.wantApplied {
				t.Errorf("Refresh() = %d applied, want %d", got, tt.wantApplied)
			}
			if len(sink.props) != len(tt.wantProps) {
				t.Fatalf("props = %v, want %v", sink.props, tt.wantProps)
			}
			for k, v := range tt.wantProps {
				if sink.props[k] != v {
					t.Errorf("prop %q = %v, want %v", k, sink.props[k], v)
				}
			}
		})
	}
}

func TestRefreshDoesNotWriteBack(t *testing.T) {
	rec := model.Record{"key": 1, "name": "Alpha"}
	sink := newPropSink()

	Refresh(sink, []Binding{
		New("text", "name").WithConverter(func(v any) any { return v.(string) + "!" }),
	}, rec)

	if rec["name"] != "Alpha" {
		t.Errorf("record mutated by refresh: %v", rec["name"])
	}
	if sink.props["text"] != "Alpha!" {
		t.Errorf("text = %v, want Alpha!", sink.props["text"])
	}
}
