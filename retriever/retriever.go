// Package retriever defines the Retriever external-collaborator contract:
// semantic search over a chunked reference corpus, returning ranked text
// chunks. The embedding model and vector index live outside this module;
// only the capability interface and an in-memory reference implementation
// live here.
package retriever

import (
	"context"
	"errors"
	"fmt"

	"github.com/dod-acq/orchestrator/doctype"
)

// Retriever performs semantic search over the reference corpus.
//
// Implementations must be safe for concurrent use: multiple agents within a
// batch call Retrieve concurrently - Retriever is assumed
// thread-safe/re-entrant by contract.
type Retriever interface {
	// Retrieve returns up to k chunks ordered by descending similarity for
	// query. Deterministic for a fixed index.
	Retrieve(ctx context.Context, query string, k int) (doctype.RetrievalResult, error)
}

// Error is returned by a Retriever on failure. Callers (the Agent execution
// skeleton) must treat it as "no context" and continue, per the
// RetrievalError recovery policy - never propagate it as a fatal error.
type Error struct {
	Query string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("retriever: query %q failed: %v", e.Query, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError wraps err as a retriever Error for query.
func NewError(query string, err error) error {
	return &Error{Query: query, Err: err}
}

// IsRetrievalError reports whether err is (or wraps) a retriever Error.
func IsRetrievalError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
