package model

import (
	"testing"

	"github.com/partboard/partboard/pkg/errors"
)

// sampleModel builds the three-node dataset used across tests:
// nodes {1,2,3}, links 1→2 and 1→3.
func sampleModel(t *testing.T) *GraphModel {
	t.Helper()
	m := New()
	for _, rec := range []Record{
		{"key": 1, "name": "Alpha", "status": "active"},
		{"key": 2, "name": "Beta", "status": "active"},
		{"key": 3, "name": "Gamma", "status": "inactive"},
	} {
		if err := m.AddNodeData(rec); err != nil {
			t.Fatalf("AddNodeData: %v", err)
		}
	}
	for _, rec := range []Record{
		{"from": 1, "to": 2},
		{"from": 1, "to": 3},
	} {
		if err := m.AddLinkData(rec); err != nil {
			t.Fatalf("AddLinkData: %v", err)
		}
	}
	return m
}

func nodeKeys(m *GraphModel) []int {
	var keys []int
	for _, n := range m.NodeDataArray() {
		k, _ := n.Key()
		keys = append(keys, k)
	}
	return keys
}

func TestAddNodeData(t *testing.T) {
	tests := []struct {
		name    string
		rec     Record
		wantErr errors.Code
		wantKey int
		autoKey bool
	}{
		{
			name:    "explicit key",
			rec:     Record{"key": 7, "name": "Greta"},
			wantKey: 7,
		},
		{
			name:    "auto-assigned key",
			rec:     Record{"name": "NoKey"},
			autoKey: true,
		},
		{
			name:    "duplicate key",
			rec:     Record{"key": 1, "name": "Dup"},
			wantErr: errors.ErrCodeDuplicateKey,
		},
		{
			name:    "nil record",
			rec:     nil,
			wantErr: errors.ErrCodeInvalidRecord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := sampleModel(t)
			before := m.NodeCount()

			err := m.AddNodeData(tt.rec)
			if tt.wantErr != "" {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("AddNodeData() err = %v, want code %s", err, tt.wantErr)
				}
				if m.NodeCount() != before {
					t.Error("failed add mutated the model")
				}
				return
			}
			if err != nil {
				t.Fatalf("AddNodeData() err = %v", err)
			}

			key, ok := tt.rec.Key()
			if !ok {
				t.Fatal("record has no key after add")
			}
			if !tt.autoKey && key != tt.wantKey {
				t.Errorf("key = %d, want %d", key, tt.wantKey)
			}
			if got, _ := m.FindNodeForKey(key); got == nil {
				t.Error("FindNodeForKey does not see the new node")
			}
		})
	}
}

func TestNoDuplicateKeysAcrossSequences(t *testing.T) {
	m := New()

	// Interleave adds with explicit keys, auto keys, and removes; live keys
	// must stay unique throughout.
	check := func() {
		seen := map[int]bool{}
		for _, k := range nodeKeys(m) {
			if seen[k] {
				t.Fatalf("duplicate live key %d", k)
			}
			seen[k] = true
		}
	}

	recs := make(map[int]Record)
	for i := 0; i < 20; i++ {
		rec := Record{"name": "n"}
		if i%3 == 0 {
			rec["key"] = i + 100
		}
		if err := m.AddNodeData(rec); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
		k, _ := rec.Key()
		recs[k] = rec
		check()
	}
	for k, rec := range recs {
		if k%2 == 0 {
			if err := m.RemoveNodeData(rec); err != nil {
				t.Fatalf("remove %d: %v", k, err)
			}
			check()
		}
	}
}

func TestRemoveNodeCascadesLinks(t *testing.T) {
	m := sampleModel(t)
	n1, _ := m.FindNodeForKey(1)

	if err := m.RemoveNodeData(n1); err != nil {
		t.Fatalf("RemoveNodeData: %v", err)
	}

	if got := nodeKeys(m); len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Errorf("remaining nodes = %v, want [2 3]", got)
	}
	if m.LinkCount() != 0 {
		t.Errorf("LinkCount = %d, want 0 (links 1→2 and 1→3 both touch node 1)", m.LinkCount())
	}
}

func TestRemoveNodeKeepsUnrelatedLinks(t *testing.T) {
	m := sampleModel(t)
	if err := m.AddLinkData(Record{"from": 2, "to": 3}); err != nil {
		t.Fatal(err)
	}
	n1, _ := m.FindNodeForKey(1)

	if err := m.RemoveNodeData(n1); err != nil {
		t.Fatalf("RemoveNodeData: %v", err)
	}

	links := m.LinkDataArray()
	if len(links) != 1 {
		t.Fatalf("LinkCount = %d, want 1", len(links))
	}
	from, _ := links[0].From()
	to, _ := links[0].To()
	if from != 2 || to != 3 {
		t.Errorf("surviving link = %d→%d, want 2→3", from, to)
	}
}

func TestRemoveUnknownNode(t *testing.T) {
	m := sampleModel(t)
	err := m.RemoveNodeData(Record{"key": 99})
	if !errors.Is(err, errors.ErrCodeUnknownRecord) {
		t.Errorf("err = %v, want UNKNOWN_RECORD", err)
	}
	if m.NodeCount() != 3 || m.LinkCount() != 2 {
		t.Error("failed remove mutated the model")
	}
}

func TestSetDataProperty(t *testing.T) {
	m := sampleModel(t)
	n2, _ := m.FindNodeForKey(2)

	var changes []Change
	m.AddChangeListener(func(c Change) {
		if c.Kind == PropertyChanged {
			changes = append(changes, c)
		}
	})

	if err := m.SetDataProperty(n2, "status", "inactive"); err != nil {
		t.Fatalf("SetDataProperty: %v", err)
	}
	if n2["status"] != "inactive" {
		t.Errorf("status = %v, want inactive", n2["status"])
	}
	if len(changes) != 1 {
		t.Fatalf("change count = %d, want 1", len(changes))
	}
	if changes[0].Old != "active" || changes[0].New != "inactive" {
		t.Errorf("change = %+v", changes[0])
	}

	// Same value again: no refresh.
	if err := m.SetDataProperty(n2, "status", "inactive"); err != nil {
		t.Fatalf("SetDataProperty: %v", err)
	}
	if len(changes) != 1 {
		t.Errorf("unchanged value fired a refresh (count = %d)", len(changes))
	}
}

func TestSetDataPropertyResolvesByKey(t *testing.T) {
	m := sampleModel(t)

	// A copy with the same key must update the stored record.
	if err := m.SetDataProperty(Record{"key": 3}, "name", "Renamed"); err != nil {
		t.Fatalf("SetDataProperty: %v", err)
	}
	n3, _ := m.FindNodeForKey(3)
	if n3["name"] != "Renamed" {
		t.Errorf("name = %v, want Renamed", n3["name"])
	}

	err := m.SetDataProperty(Record{"key": 42}, "name", "x")
	if !errors.Is(err, errors.ErrCodeUnknownRecord) {
		t.Errorf("err = %v, want UNKNOWN_RECORD", err)
	}
}

func TestAddLinkWithUnresolvedEndpoint(t *testing.T) {
	m := sampleModel(t)

	// Soft invariant: the link is kept even though node 9 does not exist.
	if err := m.AddLinkData(Record{"from": 1, "to": 9}); err != nil {
		t.Fatalf("AddLinkData: %v", err)
	}
	if m.LinkCount() != 3 {
		t.Errorf("LinkCount = %d, want 3", m.LinkCount())
	}
}

func TestReplaceModel(t *testing.T) {
	m := sampleModel(t)
	m.Selection().Select(m.NodeDataArray()[0])

	var resets int
	m.AddChangeListener(func(c Change) {
		if c.Kind == ModelReset {
			resets++
		}
	})

	err := m.ReplaceModel(
		[]Record{{"key": 10, "name": "New"}},
		nil,
	)
	if err != nil {
		t.Fatalf("ReplaceModel: %v", err)
	}
	if resets != 1 {
		t.Errorf("reset notifications = %d, want 1", resets)
	}
	if _, ok := m.Selection().Primary(); ok {
		t.Error("selection survived a model reset")
	}
	if m.Undo().CanUndo() {
		t.Error("undo history survived a model reset")
	}

	// Duplicate keys reject the whole replacement.
	err = m.ReplaceModel([]Record{{"key": 1}, {"key": 1}}, nil)
	if !errors.Is(err, errors.ErrCodeDuplicateKey) {
		t.Errorf("err = %v, want DUPLICATE_KEY", err)
	}
	if m.NodeCount() != 1 {
		t.Error("failed replace mutated the model")
	}
}
