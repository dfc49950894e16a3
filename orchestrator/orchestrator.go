// Package orchestrator drives one GenerationTask end to end: it resolves
// which agent generates which DocumentType, asks the DependencyGraph for an
// execution plan, and runs each batch of that plan concurrently, bounded by
// MaxParallelAgents, the same errgroup.WithContext+SetLimit shape the
// agent-flow pipeline uses for its own concurrent segment processing.
package orchestrator

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/dod-acq/orchestrator/acqconfig"
	"github.com/dod-acq/orchestrator/agent"
	"github.com/dod-acq/orchestrator/contextpool"
	"github.com/dod-acq/orchestrator/depgraph"
	"github.com/dod-acq/orchestrator/doctype"
	"github.com/dod-acq/orchestrator/metadatastore"
)

// Registry resolves a DocumentType to the Agent that generates it.
type Registry struct {
	agents map[doctype.Type]*agent.Agent
}

// NewRegistry builds a Registry from a set of Agents, keyed by their own
// declared Type.
func NewRegistry(agents ...*agent.Agent) *Registry {
	r := &Registry{agents: make(map[doctype.Type]*agent.Agent, len(agents))}
	for _, a := range agents {
		r.agents[a.Type()] = a
	}
	return r
}

func (r *Registry) lookup(t doctype.Type) (*agent.Agent, bool) {
	a, ok := r.agents[t]
	return a, ok
}

// Orchestrator runs GenerationTasks against a shared Graph, Registry,
// ContextPool, and MetadataStore.
type Orchestrator struct {
	graph    *depgraph.Graph
	registry *Registry
	pool     *contextpool.Pool
	store    metadatastore.Store

	// lastBatchErr aggregates the most recently run batch's per-agent
	// failures, if any, exposed via LastBatchErrors for callers that want
	// the combined diagnostic without re-deriving it from task.Warnings.
	lastBatchErr error
}

// LastBatchErrors returns the aggregated per-agent failures (via
// go.uber.org/multierr) from the most recently executed batch, or nil if
// every agent in that batch succeeded.
func (o *Orchestrator) LastBatchErrors() error {
	return o.lastBatchErr
}

// New constructs an Orchestrator.
func New(graph *depgraph.Graph, registry *Registry, pool *contextpool.Pool, store metadatastore.Store) *Orchestrator {
	return &Orchestrator{graph: graph, registry: registry, pool: pool, store: store}
}

// progressFloor and progressCeil bound the batch-execution portion of a
// task's reported Progress: the first 10 points cover plan construction and
// the last 10 cover finalization, leaving 80 points distributed
// proportionally across completed batches.
const (
	progressFloor = 10
	progressCeil  = 90
)

// Run executes task in place, mutating its Status, Progress, Sections,
// PerDocMetadata, CollaborationMetadata, and Warnings fields as it goes.
// Run never returns an error for a partial per-document failure - those are
// isolated to that document's Metadata.Status and surfaced in
// task.Warnings, so that one failing agent never prevents its unaffected
// siblings from completing (partial-failure isolation). Run does return an
// error for a task-fatal condition: an unknown DocumentType in the
// selection, a config that acqconfig.Parse rejects, or the context being
// canceled between batches.
func (o *Orchestrator) Run(ctx context.Context, task *doctype.GenerationTask) error {
	for _, t := range task.SelectedDocumentTypes {
		if !doctype.Known(t) {
			task.Status = doctype.StatusFailed
			return fmt.Errorf("orchestrator: unknown document type %q in selection", t)
		}
	}

	cfg, err := acqconfig.Parse(task.Config)
	if err != nil {
		task.Status = doctype.StatusFailed
		return err
	}

	task.Status = doctype.StatusInProgress
	task.Progress = 0
	if task.Sections == nil {
		task.Sections = make(map[doctype.Type]string)
	}
	if task.PerDocMetadata == nil {
		task.PerDocMetadata = make(map[doctype.Type]doctype.Metadata)
	}

	o.pool.Clear()
	o.prepopulate(ctx, task)

	plan := o.graph.Plan(task.SelectedDocumentTypes)
	validation := o.graph.Validate(task.SelectedDocumentTypes)
	task.Warnings = append(task.Warnings, validation.Warnings...)

	deps := make(map[doctype.Type][]doctype.Type, len(plan))
	for _, batch := range plan {
		for _, t := range batch {
			deps[t] = o.graph.Dependencies(t)
		}
	}
	task.CollaborationMetadata.GenerationOrder = plan
	task.CollaborationMetadata.Dependencies = deps

	task.Progress = progressFloor

	jc := agent.JobContext{
		Config:      cfg,
		ProgramName: task.ProjectInfo.ProgramName(),
		ProjectInfo: task.ProjectInfo,
		Assumptions: task.Assumptions,
	}

	for i, batch := range plan {
		if err := ctx.Err(); err != nil {
			task.Status = doctype.StatusFailed
			return fmt.Errorf("orchestrator: canceled before batch %d/%d: %w", i+1, len(plan), err)
		}

		if err := o.runBatch(ctx, task, jc, batch, cfg.MaxParallelAgents); err != nil {
			task.Status = doctype.StatusFailed
			return err
		}

		task.Progress = progressFloor + (progressCeil-progressFloor)*(i+1)/len(plan)
	}

	task.CollaborationMetadata.CrossReferences = o.pool.CrossReferences()
	task.Progress = 100
	task.Status = doctype.StatusCompleted
	return nil
}

// prepopulate seeds the ContextPool with the latest persisted document for
// every transitive dependency of the selection, so that an agent whose
// upstream was generated in an earlier job (not this batch run) still sees
// it as context.
func (o *Orchestrator) prepopulate(ctx context.Context, task *doctype.GenerationTask) {
	if o.store == nil {
		return
	}
	seen := map[doctype.Type]bool{}
	program := task.ProjectInfo.ProgramName()
	for _, t := range task.SelectedDocumentTypes {
		for _, dep := range append([]doctype.Type{t}, o.graph.Dependencies(t)...) {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			doc, err := o.store.FindLatest(ctx, dep, program)
			if err != nil || doc == nil {
				continue
			}
			o.pool.Put(dep, doc.DocID, doc.Content, doc.ExtractedData)
		}
	}
}

// runBatch executes every DocumentType in batch concurrently, bounded by
// maxParallel, then commits every successful result to the ContextPool and
// MetadataStore before returning. A per-agent failure never aborts the
// batch; it is recorded on task and the loop continues so sibling agents in
// the same batch still complete (partial-failure isolation).
func (o *Orchestrator) runBatch(ctx context.Context, task *doctype.GenerationTask, jc agent.JobContext, batch []doctype.Type, maxParallel int) error {
	results := make([]agent.Result, len(batch))
	failed := make([]error, len(batch))

	group, groupCtx := errgroup.WithContext(ctx)
	if maxParallel > 0 {
		group.SetLimit(maxParallel)
	}

	for i, t := range batch {
		i, t := i, t
		a, ok := o.registry.lookup(t)
		if !ok {
			failed[i] = fmt.Errorf("no agent registered for document type %q", t)
			continue
		}
		group.Go(func() error {
			res, err := a.Execute(groupCtx, jc)
			if err != nil {
				failed[i] = err
				return nil
			}
			results[i] = res
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		// Only a programming-level panic-recovery wrapper would return a
		// non-nil error here, since per-agent failures are captured in
		// failed[i] rather than returned; treat it as task-fatal.
		return err
	}

	var batchErr error
	for i, t := range batch {
		if err := failed[i]; err != nil {
			batchErr = multierr.Append(batchErr, fmt.Errorf("%s: %w", t, err))
			task.Warnings = append(task.Warnings, fmt.Sprintf("%s: %v", t, err))
			task.PerDocMetadata[t] = doctype.Metadata{
				AgentName: string(t) + "_agent",
				Status:    "failed",
				Error:     err.Error(),
			}
			continue
		}
		res := results[i]
		doc := res.Document
		docID, err := o.saveDocument(ctx, &doc)
		if err != nil {
			task.Warnings = append(task.Warnings, fmt.Sprintf("%s: persistence failed, content retained in memory only: %v", t, err))
		}
		o.pool.Put(t, docID, doc.Content, doc.ExtractedData)
		task.Sections[t] = doc.Content
		task.PerDocMetadata[t] = res.Metadata
		task.Warnings = append(task.Warnings, res.Metadata.Warnings...)
	}

	// batchErr aggregates this batch's per-agent failures for callers that
	// want the combined error (e.g. a CLI's exit-code decision); the task
	// itself is never failed by it; individual failures already recorded
	// above as task.Warnings and per-document Status.
	o.lastBatchErr = batchErr

	return nil
}

func (o *Orchestrator) saveDocument(ctx context.Context, doc *doctype.GeneratedDocument) (string, error) {
	if o.store == nil {
		return doc.DocID, nil
	}
	docID, err := o.store.Save(ctx, doc)
	if err != nil {
		// One retry before reporting the document as not persisted.
		docID, err = o.store.Save(ctx, doc)
	}
	if err != nil {
		return doc.DocID, err
	}
	return docID, nil
}

// sortedTypes is a small helper used by tests asserting on a deterministic
// batch's membership regardless of map iteration order.
func sortedTypes(ts []doctype.Type) []doctype.Type {
	out := append([]doctype.Type{}, ts...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
