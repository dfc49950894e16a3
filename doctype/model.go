package doctype

import (
	"encoding/json"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Chunk is a single retrieved snippet of reference material.
type Chunk struct {
	// Content is the chunk's raw text.
	Content string
	// Source identifies the originating file or page (e.g. "FAR-Part-10.pdf#p3").
	Source string
	// Score is the retriever's similarity score in [0,1], descending order
	// within a RetrievalResult.
	Score float64
}

// RetrievalResult is an ordered, finite sequence of Chunks returned by a
// Retriever for one query. Length is bounded by the caller's requested k.
type RetrievalResult struct {
	Query  string
	Chunks []Chunk
}

// Text concatenates every chunk's content, in ranked order, separated by
// blank lines. ExtractorLibrary functions consume chunk text through this
// single accessor rather than assuming RetrievalResult's internal shape.
func (r RetrievalResult) Text() string {
	if len(r.Chunks) == 0 {
		return ""
	}
	out := r.Chunks[0].Content
	for _, c := range r.Chunks[1:] {
		out += "\n\n" + c.Content
	}
	return out
}

// Assumption is one named programmatic assumption a human supplied up front
// (e.g. "no incumbent", "cloud-hosted").
type Assumption struct {
	Text               string
	Category           string
	LinkedDocumentTypes []Type
}

// AssumptionSet maps an assumption_id to its Assumption. Insertion order is
// not semantically significant, so a plain map is sufficient (unlike the
// reference maps below, whose iteration order is observable in generated
// output).
type AssumptionSet map[string]Assumption

// ProjectInfo is a free-form mapping of program-identifying data. At
// minimum ProgramName() must resolve to a non-empty string; agents and
// extractors read other keys (estimated_value, period_of_performance,
// user_count, ...) by coercing the values with spf13/cast where they are
// used (see agent/smartdefaults.go).
type ProjectInfo map[string]any

// ProgramName returns the required "program_name" key, or "" if absent or
// not a string.
func (p ProjectInfo) ProgramName() string {
	v, _ := p["program_name"].(string)
	return v
}

// References is an ordered mapping from an upstream DocumentType to the
// doc_id of the GeneratedDocument this document was conditioned on. Ordered
// so that collaboration_metadata and persisted records serialize
// deterministically across identical runs (identical input must reproduce identical output).
type References struct {
	om *orderedmap.OrderedMap[Type, string]
}

// NewReferences returns an empty, ready-to-use References.
func NewReferences() *References {
	return &References{om: orderedmap.New[Type, string]()}
}

// Set records that this document was conditioned on the given upstream
// doc_id for upstream document type t.
func (r *References) Set(t Type, docID string) {
	if r.om == nil {
		r.om = orderedmap.New[Type, string]()
	}
	r.om.Set(t, docID)
}

// Get returns the upstream doc_id recorded for t, if any.
func (r *References) Get(t Type) (string, bool) {
	if r.om == nil {
		return "", false
	}
	return r.om.Get(t)
}

// Len reports how many upstream references are recorded.
func (r *References) Len() int {
	if r.om == nil {
		return 0
	}
	return r.om.Len()
}

// Each calls fn for every (DocumentType, doc_id) pair in insertion order.
func (r *References) Each(fn func(t Type, docID string)) {
	if r.om == nil {
		return
	}
	for pair := r.om.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// refEntry is the wire shape for one References pair, used to preserve
// insertion order through JSON (a bare map loses it).
type refEntry struct {
	Type  Type   `json:"type"`
	DocID string `json:"doc_id"`
}

// MarshalJSON encodes References as an ordered array of {type, doc_id}
// pairs rather than a JSON object, so MetadataStore persistence and any
// wire representation preserve the insertion order the round-trip law in
// document idempotence depends on.
func (r *References) MarshalJSON() ([]byte, error) {
	entries := make([]refEntry, 0, r.Len())
	r.Each(func(t Type, docID string) {
		entries = append(entries, refEntry{Type: t, DocID: docID})
	})
	return json.Marshal(entries)
}

// UnmarshalJSON restores a References from the array form MarshalJSON
// produces.
func (r *References) UnmarshalJSON(data []byte) error {
	var entries []refEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	r.om = orderedmap.New[Type, string](len(entries))
	for _, e := range entries {
		r.om.Set(e.Type, e.DocID)
	}
	return nil
}

// Metadata is the per-document bookkeeping recorded alongside its content.
type Metadata struct {
	AgentName          string
	GenerationStrategy string
	WordCount          int
	TBDCount           int
	IterationsUsed     int
	FinalScore         float64
	Grade              string
	Risk               string
	// Status is "ok" or "failed"; Error carries the failure reason when
	// Status == "failed".
	Status string
	Error  string
	// Warnings accumulates non-fatal notices (missing dependency, rejected
	// refinement iteration, retrieval failure treated as empty context).
	Warnings []string
}

// ExtractedData is a flat mapping produced by the ExtractorLibrary. Kept as
// a distinct named type (rather than bare map[string]any) so that call
// sites read as "structured fields", and so helper methods (Merge, with
// upstream-overrides-RAG precedence) have a natural home.
type ExtractedData map[string]string

// Merge returns a new ExtractedData containing the receiver's entries
// overridden by higher's entries on key collision. Used so that
// upstream-document extractions outrank raw RAG extractions.
func (e ExtractedData) Merge(higher ExtractedData) ExtractedData {
	out := make(ExtractedData, len(e)+len(higher))
	for k, v := range e {
		out[k] = v
	}
	for k, v := range higher {
		out[k] = v
	}
	return out
}

// GeneratedDocument is one fully-generated artifact, independent of whether
// it has yet been persisted to the MetadataStore.
type GeneratedDocument struct {
	DocID         string
	Type          Type
	Program       string
	Content       string
	ExtractedData ExtractedData
	References    *References
	Metadata      Metadata
	CreatedAt     time.Time
}

// GenerationTask is the per-job record threaded through the Orchestrator.
type GenerationTask struct {
	TaskID                string
	Status                TaskStatus
	Progress              int
	SelectedDocumentTypes []Type
	ProjectInfo           ProjectInfo
	Assumptions           AssumptionSet
	Config                map[string]any

	// Sections holds each selected DocumentType's final rendered content.
	Sections map[Type]string
	// PerDocMetadata holds each selected DocumentType's Metadata.
	PerDocMetadata map[Type]Metadata
	// CollaborationMetadata summarizes how the job executed: the batch
	// plan, the dependency map consulted, and the cross-reference log.
	CollaborationMetadata CollaborationMetadata
	// Warnings aggregates every non-fatal notice emitted across the job
	// (partial-failure isolation still surfaces
	// warnings on an otherwise-completed task).
	Warnings []string
}

// TaskStatus is the GenerationTask lifecycle state.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusFailed     TaskStatus = "failed"
)

// CollaborationMetadata records how a job's batches executed, for audit and
// for round-trip/idempotence and audit.
type CollaborationMetadata struct {
	GenerationOrder [][]Type
	Dependencies    map[Type][]Type
	CrossReferences []CrossReference
}

// CrossReference is one "this document was conditioned on that one" edge,
// recorded by ContextPool.RecordReference and copied into
// CollaborationMetadata at job end.
type CrossReference struct {
	From  Type
	To    Type
	Label string
}
