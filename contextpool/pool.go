// Package contextpool implements the ContextPool: the per-job scratch space
// that makes one batch's freshly-generated documents available as upstream
// context to the next batch, and logs every such reference for the final
// CollaborationMetadata.
//
// A Pool belongs to a single GenerationTask. The Orchestrator Puts documents
// only at a batch boundary, after every agent in the batch has returned, but
// the agents of one batch read it and call RecordReference concurrently, so
// the mutex below guards both concurrent readers and concurrent writers.
package contextpool

import (
	"sync"

	"github.com/dod-acq/orchestrator/doctype"
)

type entry struct {
	docID     string
	content   string
	extracted doctype.ExtractedData
}

// Pool holds every document generated so far in a job, keyed by
// DocumentType, plus the ordered log of which document drew context from
// which other document.
type Pool struct {
	mu      sync.RWMutex
	entries map[doctype.Type]entry
	refs    []doctype.CrossReference
}

// New returns an empty Pool.
func New() *Pool {
	return &Pool{entries: make(map[doctype.Type]entry)}
}

// Put records t's generated document (by doc_id, content, and extracted
// fields), overwriting anything previously stored for t.
func (p *Pool) Put(t doctype.Type, docID, content string, extracted doctype.ExtractedData) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries[t] = entry{docID: docID, content: content, extracted: extracted}
}

// Get returns t's stored doc_id, content, and extracted fields, if present.
func (p *Pool) Get(t doctype.Type) (docID, content string, extracted doctype.ExtractedData, ok bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	e, ok := p.entries[t]
	if !ok {
		return "", "", nil, false
	}
	return e.docID, e.content, e.extracted, true
}

// Related returns the stored content of every dependency in deps that has
// already been generated, keyed by DocumentType. Dependencies not yet
// present (not generated, or generation failed) are simply absent from the
// result; no error is reported for them.
func (p *Pool) Related(deps []doctype.Type) map[doctype.Type]string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[doctype.Type]string, len(deps))
	for _, d := range deps {
		if e, ok := p.entries[d]; ok {
			out[d] = e.content
		}
	}
	return out
}

// RelatedExtractions returns the extracted fields of every dependency in
// deps that has already been generated, in dependency order, so that later
// entries (read second) can override earlier ones on key collision via
// ExtractedData.Merge.
func (p *Pool) RelatedExtractions(deps []doctype.Type) []doctype.ExtractedData {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]doctype.ExtractedData, 0, len(deps))
	for _, d := range deps {
		if e, ok := p.entries[d]; ok && e.extracted != nil {
			out = append(out, e.extracted)
		}
	}
	return out
}

// RecordReference logs that the document of type from drew on the document
// of type to, under the given label (e.g. "total_cost"). The log is copied
// verbatim into CollaborationMetadata.CrossReferences at job end.
func (p *Pool) RecordReference(from, to doctype.Type, label string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refs = append(p.refs, doctype.CrossReference{From: from, To: to, Label: label})
}

// CrossReferences returns the reference log recorded so far, in the order
// RecordReference was called.
func (p *Pool) CrossReferences() []doctype.CrossReference {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]doctype.CrossReference, len(p.refs))
	copy(out, p.refs)
	return out
}

// Clear discards every stored document and reference, returning the Pool to
// its zero state. Called once at the start of Orchestrator.Run before the
// pool is pre-populated from the MetadataStore.
func (p *Pool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = make(map[doctype.Type]entry)
	p.refs = nil
}
