// Package memory provides an in-process storage.Storage. Data is lost when
// the process exits; it is used for local experiments and tests.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/aanand-mishra/classroom-api/internal/storage"
	"github.com/aanand-mishra/classroom-api/internal/types"
)

// ErrEmpty is returned by Load before anything has been saved.
var ErrEmpty = errors.New("memory: no document stored")

// Memory keeps one document behind a mutex. Load and Save deep-copy, so
// callers never share slices with the store.
type Memory struct {
	mu  sync.RWMutex
	doc *types.Document
}

// New returns an empty store.
func New() *Memory {
	return &Memory{}
}

func (m *Memory) Load(ctx context.Context) (types.Document, error) {
	if err := ctx.Err(); err != nil {
		return types.Document{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.doc == nil {
		return types.Document{}, ErrEmpty
	}
	return storage.Clone(*m.doc), nil
}

func (m *Memory) Save(ctx context.Context, doc types.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cp := storage.Clone(doc)

	m.mu.Lock()
	m.doc = &cp
	m.mu.Unlock()
	return nil
}

func (m *Memory) EnsureInitialized(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.doc == nil {
		seed := storage.Seed()
		m.doc = &seed
	}
	return nil
}

func (m *Memory) Close() error { return nil }
