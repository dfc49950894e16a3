// Package metadatastore implements the persistent, keyed store of
// doc_id -> GeneratedDocument, plus a (type, program) index
// ordered by created_at descending.
package metadatastore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dod-acq/orchestrator/doctype"
)

// Store is the MetadataStore contract. Implementations must be safe for
// concurrent reads; the Orchestrator serializes writes via a
// batch-completion barrier, so Save need not itself be
// lock-free, only correct under concurrent readers.
type Store interface {
	// Save persists doc, assigning a doc_id if doc.DocID is empty. It is
	// idempotent on doc_id: saving the same doc_id twice overwrites rather
	// than duplicating. Durable after return.
	Save(ctx context.Context, doc *doctype.GeneratedDocument) (string, error)
	// FindLatest returns the most recently created document of type t for
	// program, or (nil, nil) if none exists.
	FindLatest(ctx context.Context, t doctype.Type, program string) (*doctype.GeneratedDocument, error)
	// FindByProgram returns every document ever generated for program,
	// newest first.
	FindByProgram(ctx context.Context, program string) ([]*doctype.GeneratedDocument, error)
	// Lookup resolves a single document by its doc_id.
	Lookup(ctx context.Context, docID string) (*doctype.GeneratedDocument, error)
}

// Error wraps a MetadataStore failure. The Orchestrator retries a failed
// Save once; if the retry also fails, the document's content is still
// placed in the task's Sections and the ContextPool, and a task warning
// records that it was not persisted. No separate persisted flag is set.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("metadatastore: %s: %v", e.Op, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// IsStoreError reports whether err is (or wraps) a metadatastore Error.
func IsStoreError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
