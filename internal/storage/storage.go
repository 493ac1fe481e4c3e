// Package storage defines the Storage interface: the contract any
// document backend must satisfy to work with this application.
//
// The unit of storage is the whole types.Document. There is no
// sub-document addressing: callers Load everything, change what they need
// in memory and Save everything back.
//
// Backends:
//
//	storage/jsonfile  one pretty-printed JSON file (default)
//	storage/sqlite    a SQLite database file
//	storage/memory    process memory, lost on exit
package storage

import (
	"context"

	"github.com/aanand-mishra/classroom-api/internal/types"
)

// Storage is the persistence contract.
type Storage interface {
	// Load reads the full document. Any failure (missing, unreadable,
	// malformed) is returned as an error; deciding to fall back to the
	// seed is up to the caller.
	Load(ctx context.Context) (types.Document, error)

	// Save replaces the stored document with doc.
	Save(ctx context.Context, doc types.Document) error

	// EnsureInitialized writes the seed document if the backing store
	// does not exist yet. An existing store is left untouched.
	EnsureInitialized(ctx context.Context) error

	// Close releases any resources held by the backend.
	Close() error
}

// Clone returns a deep copy of doc, so that callers holding the result
// cannot alias slices owned by a backend.
func Clone(doc types.Document) types.Document {
	out := doc
	if doc.Students == nil {
		return out
	}

	out.Students = make([]types.Student, len(doc.Students))
	for i, s := range doc.Students {
		if s.Age != nil {
			age := *s.Age
			s.Age = &age
		}
		if s.Courses != nil {
			s.Courses = append([]string(nil), s.Courses...)
		}
		out.Students[i] = s
	}
	return out
}
