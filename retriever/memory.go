package retriever

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/dod-acq/orchestrator/doctype"
)

// MemoryRetrieverConfig configures a MemoryRetriever.
type MemoryRetrieverConfig struct {
	// Corpus is the initial set of chunks to index. Optional; chunks can
	// also be added later via Index.
	Corpus []doctype.Chunk
}

func (c *MemoryRetrieverConfig) validate() error {
	if c == nil {
		return errors.New("memory retriever config cannot be nil")
	}
	return nil
}

var _ Retriever = (*MemoryRetriever)(nil)

// MemoryRetriever is an in-process, deterministic Retriever over a fixed
// corpus of chunks, scored by term overlap with the query. It exists so the
// Orchestrator, Agent, and demo binary have a concrete Retriever to run
// against without depending on a live embedding model or vector index - the
// real Retriever remains an external collaborator; a
// production deployment swaps this out for one backed by an actual vector
// store.
//
// Determinism ("deterministic for a fixed index") is achieved
// by a stable sort on (score desc, original insertion index asc).
type MemoryRetriever struct {
	mu     sync.RWMutex
	chunks []doctype.Chunk
}

// NewMemoryRetriever constructs a MemoryRetriever from config.
func NewMemoryRetriever(config *MemoryRetrieverConfig) (*MemoryRetriever, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	m := &MemoryRetriever{}
	m.chunks = append(m.chunks, config.Corpus...)
	return m, nil
}

// Index appends additional chunks to the corpus. Safe for concurrent use.
func (m *MemoryRetriever) Index(chunks ...doctype.Chunk) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks = append(m.chunks, chunks...)
}

// Retrieve implements Retriever.
func (m *MemoryRetriever) Retrieve(ctx context.Context, query string, k int) (doctype.RetrievalResult, error) {
	select {
	case <-ctx.Done():
		return doctype.RetrievalResult{}, NewError(query, ctx.Err())
	default:
	}
	if k <= 0 {
		k = 5
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	terms := termSet(query)
	type scored struct {
		chunk doctype.Chunk
		score float64
		idx   int
	}
	candidates := make([]scored, 0, len(m.chunks))
	for i, c := range m.chunks {
		s := overlapScore(terms, termSet(c.Content))
		if s <= 0 {
			continue
		}
		candidates = append(candidates, scored{chunk: doctype.Chunk{Content: c.Content, Source: c.Source, Score: s}, score: s, idx: i})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].idx < candidates[j].idx
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}

	out := make([]doctype.Chunk, len(candidates))
	for i, c := range candidates {
		out[i] = c.chunk
	}
	return doctype.RetrievalResult{Query: query, Chunks: out}, nil
}

func termSet(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,;:()[]{}\"'")
		if f == "" {
			continue
		}
		set[f] = struct{}{}
	}
	return set
}

// overlapScore is the Jaccard similarity between two term sets, a cheap
// stand-in for real embedding-cosine similarity that still yields a proper
// [0,1]-bounded, descending-sortable score.
func overlapScore(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	if inter == 0 {
		return 0
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
