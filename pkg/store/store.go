// Package store persists diagram documents.
//
// A document is a named snapshot of one graph model plus its active
// template: everything needed to reopen a board. Backends:
//   - memory: in-process storage for development/testing
//   - file: JSON files in a directory for CLI usage
//   - redis: Redis-backed storage for multi-instance deployments
//   - mongo: MongoDB-backed storage for durable deployments
//
// All backends implement [Store] and are selected via configuration.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/partboard/partboard/pkg/errors"
	"github.com/partboard/partboard/pkg/model"
)

// Document is a persisted snapshot of one board.
type Document struct {
	ID        string         `json:"id" bson:"_id"`
	Name      string         `json:"name" bson:"name"`
	Template  string         `json:"template" bson:"template"`
	Nodes     []model.Record `json:"nodeDataArray" bson:"nodes"`
	Links     []model.Record `json:"linkDataArray" bson:"links"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" bson:"updated_at"`
}

// Summary is the listing view of a document.
type Summary struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// NewDocument creates an empty named document with a fresh id.
func NewDocument(name string) *Document {
	now := time.Now().UTC()
	return &Document{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Snapshot copies the model's current records into the document.
func (d *Document) Snapshot(m *model.GraphModel) {
	nodes := m.NodeDataArray()
	d.Nodes = make([]model.Record, len(nodes))
	for i, rec := range nodes {
		d.Nodes[i] = rec.Clone()
	}
	links := m.LinkDataArray()
	d.Links = make([]model.Record, len(links))
	for i, rec := range links {
		d.Links[i] = rec.Clone()
	}
}

// Restore replaces the model's contents with the document's records.
// The model's undo history and selection are cleared.
func (d *Document) Restore(m *model.GraphModel) error {
	nodes := make([]model.Record, len(d.Nodes))
	for i, rec := range d.Nodes {
		nodes[i] = rec.Clone()
	}
	links := make([]model.Record, len(d.Links))
	for i, rec := range d.Links {
		links[i] = rec.Clone()
	}
	return m.ReplaceModel(nodes, links)
}

// Fingerprint hashes the document's render-relevant content. Two
// documents with the same records and template share a fingerprint, so
// it serves as the artifact cache's content key.
func (d *Document) Fingerprint() string {
	data, _ := json.Marshal(struct {
		Template string         `json:"template"`
		Nodes    []model.Record `json:"nodes"`
		Links    []model.Record `json:"links"`
	}{d.Template, d.Nodes, d.Links})
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Store is the interface for document storage backends.
type Store interface {
	// Get retrieves a document by id.
	// Returns ErrCodeDocumentNotFound when it does not exist.
	Get(ctx context.Context, id string) (*Document, error)

	// Put stores a document, updating its UpdatedAt stamp. Documents
	// without an id are assigned one.
	Put(ctx context.Context, doc *Document) error

	// List returns summaries of all documents, most recently updated first.
	List(ctx context.Context) ([]Summary, error)

	// Delete removes a document by id. Deleting a missing document
	// returns ErrCodeDocumentNotFound.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// errNotFound is the shared not-found error for all backends.
func errNotFound(id string) error {
	return errors.New(errors.ErrCodeDocumentNotFound, "document %s not found", id)
}

// stamp prepares a document for writing.
func stamp(doc *Document) {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
}
