package memory

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound reports that nothing is persisted yet, or that a path does not
// resolve.
var ErrNotFound = errors.New("memory: not found")

// Store persists one memory document.
type Store interface {
	// Load returns the persisted document, or ErrNotFound when there is none.
	Load(ctx context.Context) (*Document, error)
	// Save overwrites any previous state in full.
	Save(ctx context.Context, doc *Document) error
	// Delete removes persisted state. Deleting nothing is not an error.
	Delete(ctx context.Context) error
}

// Load reads the document from store, initializing and persisting the
// defaults when nothing is stored yet.
func Load(ctx context.Context, store Store) (*Document, error) {
	doc, err := store.Load(ctx)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("load memory: %w", err)
	}
	doc = NewDocument()
	if err := store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("save default memory: %w", err)
	}
	return doc, nil
}

// Reset deletes persisted state and returns freshly persisted defaults.
func Reset(ctx context.Context, store Store) (*Document, error) {
	if err := store.Delete(ctx); err != nil {
		return nil, fmt.Errorf("reset memory: %w", err)
	}
	return Load(ctx, store)
}

func decode(b []byte) (*Document, error) {
	doc := &Document{}
	if err := doc.UnmarshalJSON(b); err != nil {
		return nil, fmt.Errorf("decode memory: %w", err)
	}
	return doc, nil
}
