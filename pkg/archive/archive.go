// Package archive records rendered graphs for later listing.
//
// This package defines the [Archive] interface with implementations for
// different backends:
//   - memory: in-process storage for tests and single-shot servers
//   - sqlite: a local database for the CLI's history command
//   - mongo: a shared collection for server deployments
//
// # Usage
//
//	store, err := archive.OpenSQLite(path)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	rec := archive.NewRecord(result.Graph6, "svg")
//	rec.Vertices, rec.Edges = result.Stats.Vertices, result.Stats.Edges
//	if err := store.Save(ctx, rec); err != nil {
//	    return err
//	}
//
//	recent, err := store.List(ctx, 20)
package archive

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// DefaultListLimit bounds List when the caller passes a non-positive limit.
const DefaultListLimit = 50

// Record describes one completed render.
type Record struct {
	ID        string    `json:"id" bson:"_id"`
	Graph6    string    `json:"graph6" bson:"graph6"`
	Vertices  int       `json:"vertices" bson:"vertices"`
	Edges     int       `json:"edges" bson:"edges"`
	Highlight string    `json:"highlight,omitempty" bson:"highlight,omitempty"`
	Format    string    `json:"format" bson:"format"`
	Hash      string    `json:"hash,omitempty" bson:"hash,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// NewRecord returns a record with a fresh random ID and the current time.
func NewRecord(graph6, format string) *Record {
	return &Record{
		ID:        uuid.NewString(),
		Graph6:    graph6,
		Format:    format,
		CreatedAt: time.Now().UTC(),
	}
}

// Archive is the interface for render history backends.
type Archive interface {
	// Save stores a record. Records without an ID or timestamp get one.
	Save(ctx context.Context, rec *Record) error

	// Get retrieves a record by ID, or returns ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]Record, error)

	// Close releases the backend's resources.
	Close() error
}

// prepare fills a record's ID and timestamp when they are unset.
func prepare(rec *Record) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
