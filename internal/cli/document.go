package cli

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/partboard/partboard/pkg/errors"
	"github.com/partboard/partboard/pkg/model"
	"github.com/partboard/partboard/pkg/store"
)

// loadDocument reads a board document from a JSON file.
func loadDocument(path string) (*store.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "no board file at %s", path)
		}
		return nil, err
	}
	var doc store.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse board file %s", path)
	}
	return &doc, nil
}

// saveDocument writes a board document as indented JSON.
func saveDocument(path string, doc *store.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// sampleDocument builds the starter board written by the init command.
func sampleDocument(name string) *store.Document {
	doc := store.NewDocument(name)
	doc.Template = "card"
	doc.Nodes = []model.Record{
		{"key": 1, "name": "Press", "status": "active"},
		{"key": 2, "name": "Mill", "status": "active"},
		{"key": 3, "name": "Paint", "status": "inactive"},
		{"key": 4, "name": "Assemble", "status": "active"},
	}
	doc.Links = []model.Record{
		{"from": 1, "to": 2},
		{"from": 1, "to": 3},
		{"from": 2, "to": 4},
		{"from": 3, "to": 4},
	}
	return doc
}
