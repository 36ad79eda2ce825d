package match

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a match id has no stored document.
var ErrNotFound = errors.New("match not found")

// Repository is the document-store port. The orchestrator reads a match once
// at task start and writes at every status transition; other callers only
// read and tolerate eventual consistency while a match is PROCESSING.
type Repository interface {
	// Get returns a copy of the stored match.
	Get(ctx context.Context, id string) (*Match, error)

	// Save stores the match, replacing any existing document with the same id.
	Save(ctx context.Context, m *Match) error

	// List returns all matches, newest first.
	List(ctx context.Context) ([]*Match, error)

	// Delete removes the match document.
	Delete(ctx context.Context, id string) error
}
