// Package jsonfile provides a storage.Storage backed by a single JSON file.
//
// The whole document is read on every Load and rewritten on every Save,
// pretty-printed with two-space indentation so the file stays readable
// and diff-friendly.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aanand-mishra/classroom-api/internal/storage"
	"github.com/aanand-mishra/classroom-api/internal/types"
)

// File is the JSON-file implementation of storage.Storage.
type File struct {
	Path string
}

// New returns a File store for path. Nothing is touched on disk until
// EnsureInitialized, Load or Save is called.
func New(path string) *File {
	return &File{Path: path}
}

// Load reads and decodes the file.
func (f *File) Load(ctx context.Context) (types.Document, error) {
	if err := ctx.Err(); err != nil {
		return types.Document{}, fmt.Errorf("jsonfile.Load: %w", err)
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return types.Document{}, fmt.Errorf("jsonfile.Load: read: %w", err)
	}

	var doc types.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return types.Document{}, fmt.Errorf("jsonfile.Load: decode %s: %w", f.Path, err)
	}

	return doc, nil
}

// Save encodes doc with two-space indentation and overwrites the file.
func (f *File) Save(ctx context.Context, doc types.Document) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("jsonfile.Save: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile.Save: encode: %w", err)
	}

	if dir := filepath.Dir(f.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("jsonfile.Save: create dir: %w", err)
		}
	}

	if err := os.WriteFile(f.Path, data, 0o644); err != nil {
		return fmt.Errorf("jsonfile.Save: write: %w", err)
	}

	return nil
}

// EnsureInitialized writes the seed document when the file does not exist.
func (f *File) EnsureInitialized(ctx context.Context) error {
	_, err := os.Stat(f.Path)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("jsonfile.EnsureInitialized: stat: %w", err)
	}

	if err := f.Save(ctx, storage.Seed()); err != nil {
		return fmt.Errorf("jsonfile.EnsureInitialized: %w", err)
	}

	slog.Info("database initialized with sample data", slog.String("path", f.Path))
	return nil
}

// Close is a no-op; the file is opened and closed per call.
func (f *File) Close() error { return nil }
