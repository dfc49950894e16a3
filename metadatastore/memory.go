package metadatastore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dod-acq/orchestrator/doctype"
	"github.com/dod-acq/orchestrator/doctype/docid"
)

// MemoryStore is a process-local Store backed by a plain map, for tests and
// demos that don't need durability across restarts.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*doctype.GeneratedDocument
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*doctype.GeneratedDocument)}
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, doc *doctype.GeneratedDocument) (string, error) {
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	if doc.DocID == "" {
		doc.DocID = docid.New(string(doc.Type), doc.Program, doc.CreatedAt)
	}

	cp := *doc
	s.mu.Lock()
	s.docs[cp.DocID] = &cp
	s.mu.Unlock()
	return cp.DocID, nil
}

// FindLatest implements Store.
func (s *MemoryStore) FindLatest(ctx context.Context, t doctype.Type, program string) (*doctype.GeneratedDocument, error) {
	matches, err := s.FindByProgram(ctx, program)
	if err != nil {
		return nil, err
	}
	for _, d := range matches {
		if d.Type == t {
			return d, nil
		}
	}
	return nil, nil
}

// FindByProgram implements Store.
func (s *MemoryStore) FindByProgram(_ context.Context, program string) ([]*doctype.GeneratedDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*doctype.GeneratedDocument
	for _, d := range s.docs {
		if d.Program == program {
			cp := *d
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Lookup implements Store.
func (s *MemoryStore) Lookup(_ context.Context, docID string) (*doctype.GeneratedDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.docs[docID]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

var _ Store = (*MemoryStore)(nil)
