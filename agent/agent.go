// Package agent implements the Agent execution contract: the shared
// BaseAgent skeleton every concrete document generator runs through
// (resolve dependencies, build RAG context, populate a template, invoke
// the language model, inject citations, self-extract, score, optionally
// refine), configured per DocumentType by a declarative Spec rather than
// by a distinct Go type per agent.
package agent

import (
	"context"

	"github.com/dod-acq/orchestrator/acqconfig"
	"github.com/dod-acq/orchestrator/citation"
	"github.com/dod-acq/orchestrator/contextpool"
	"github.com/dod-acq/orchestrator/doctype"
	"github.com/dod-acq/orchestrator/evaluation"
	"github.com/dod-acq/orchestrator/extractor"
	"github.com/dod-acq/orchestrator/llm"
	"github.com/dod-acq/orchestrator/metadatastore"
)

// Retriever is the narrow slice of retriever.Retriever this package
// depends on.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) (doctype.RetrievalResult, error)
}

// Evaluator is the narrow slice of *evaluation.Evaluator this package
// depends on, declared as an interface so tests can substitute a scripted
// evaluator that returns deterministic per-call scores (the seeded
// refinement scenarios require controlling exactly what score iteration 0
// vs. iteration 1 receives, which the real heuristic evaluator cannot
// guarantee from stub model text alone).
type Evaluator interface {
	Evaluate(ctx context.Context, req evaluation.Request) (evaluation.Result, error)
}

// Spec declares one concrete agent's fixed configuration: its
// DocumentType, its retrieval queries, its markdown scaffold, its upstream
// dependencies, the fields it populates, and any type-specific smart
// defaults. Concrete agents vary by these values, never by control flow -
// control flow lives entirely in Execute.
type Spec struct {
	Type doctype.Type
	// Queries are Go-template strings rendered against a {ProgramName}
	// binding before being issued to the Retriever (e.g. "IGCE labor
	// rates for {{.ProgramName}}").
	Queries []string
	// Template is the markdown scaffold with {{field}} placeholder holes.
	Template string
	// Dependencies are the upstream DocumentTypes this agent conditions on.
	Dependencies []doctype.Type
	// Fields are every placeholder name Template may contain; also the
	// field list passed to the ExtractorLibrary.
	Fields []string
	// ReferenceLabels names extracted-data fields whose value was sourced
	// from a specific upstream dependency (e.g. "total_cost" sourced from
	// igce) and so should be recorded in the ContextPool's cross-reference
	// log under that field's own name, rather than the generic
	// "dependency" label every resolved dependency gets.
	ReferenceLabels []string
	// SmartDefaults builds this agent's field→generator table from the
	// job's ProjectInfo. Nil means no type-specific defaults.
	SmartDefaults func(doctype.ProjectInfo) map[string]func() string
}

// Agent runs one Spec's generation through the shared BaseAgent skeleton.
type Agent struct {
	spec       Spec
	retriever  Retriever
	extractors *extractor.Library
	citations  *citation.Validator
	evaluator  Evaluator
	model      llm.Model
	pool       *contextpool.Pool
	store      metadatastore.Store
}

// New constructs an Agent for spec, wired to the shared collaborators used
// across a job.
func New(spec Spec, retriever Retriever, extractors *extractor.Library, citations *citation.Validator, evaluator Evaluator, model llm.Model, pool *contextpool.Pool, store metadatastore.Store) *Agent {
	return &Agent{
		spec:       spec,
		retriever:  retriever,
		extractors: extractors,
		citations:  citations,
		evaluator:  evaluator,
		model:      model,
		pool:       pool,
		store:      store,
	}
}

// Type returns the DocumentType this Agent generates.
func (a *Agent) Type() doctype.Type { return a.spec.Type }

// DeclareDependencies returns the agent's declared upstream DocumentTypes.
func (a *Agent) DeclareDependencies() []doctype.Type { return a.spec.Dependencies }

// DeclareQueries returns the agent's pre-declared retrieval query
// templates.
func (a *Agent) DeclareQueries() []string { return a.spec.Queries }

// State is the per-execution lifecycle state.
type State string

const (
	StateInit             State = "init"
	StateDepsResolved     State = "deps-resolved"
	StateContextBuilt     State = "context-built"
	StateTemplatePopulated State = "template-populated"
	StateGenerated        State = "generated"
	StateCitationsInjected State = "citations-injected"
	StateScored           State = "scored"
	StateRefining         State = "refining"
	StatePersisted        State = "persisted"
	StateDone             State = "done"
	StateFailed           State = "failed"
)

// JobContext bundles the per-job tunables and identifying info an Execute
// call needs.
type JobContext struct {
	acqconfig.Config
	ProgramName string
	ProjectInfo doctype.ProjectInfo
	Assumptions doctype.AssumptionSet
}
