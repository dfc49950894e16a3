// Command orchestratord is a thin composition root: it wires the
// MemoryRetriever, ExtractorLibrary, SQLiteStore, ContextPool,
// citation.Validator, evaluation.Evaluator, the full agent registry, and
// the DependencyGraph into an Orchestrator, then runs one demo
// GenerationTask end to end and logs each document's status, score and
// TBD count, plus the task's warnings.
//
// A production deployment swaps MemoryRetriever for a real vector-backed
// Retriever and supplies an llm.Model adapter backed by a live provider;
// everything downstream of those two interfaces is unchanged.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dod-acq/orchestrator/acqconfig"
	"github.com/dod-acq/orchestrator/agent"
	"github.com/dod-acq/orchestrator/citation"
	"github.com/dod-acq/orchestrator/contextpool"
	"github.com/dod-acq/orchestrator/depgraph"
	"github.com/dod-acq/orchestrator/doctype"
	"github.com/dod-acq/orchestrator/evaluation"
	"github.com/dod-acq/orchestrator/extractor"
	"github.com/dod-acq/orchestrator/internal/testkit"
	"github.com/dod-acq/orchestrator/metadatastore"
	"github.com/dod-acq/orchestrator/orchestrator"
	"github.com/dod-acq/orchestrator/retriever"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := run(ctx, logger); err != nil {
		logger.Error("generation run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	store, err := metadatastore.NewSQLiteStore(ctx, demoDBPath())
	if err != nil {
		return fmt.Errorf("open metadata store: %w", err)
	}
	defer store.Close()

	corpusRetriever, err := retriever.NewMemoryRetriever(&retriever.MemoryRetrieverConfig{Corpus: demoCorpus()})
	if err != nil {
		return fmt.Errorf("build retriever: %w", err)
	}

	model := testkit.NewScriptedModel()
	extractors := extractor.NewLibrary(model, acqconfig.Default().MaxLLMCallsPerExtraction)
	citations := citation.NewValidator()
	evaluator := evaluation.NewEvaluator(evaluation.DefaultWeights(), model)
	pool := contextpool.New()

	graph, err := depgraph.Load(depgraph.DefaultSpec())
	if err != nil {
		return fmt.Errorf("load dependency graph: %w", err)
	}

	specs := agent.BuildSpecs()
	agents := make([]*agent.Agent, 0, len(specs))
	for _, spec := range specs {
		agents = append(agents, agent.New(spec, corpusRetriever, extractors, citations, evaluator, model, pool, store))
	}
	registry := orchestrator.NewRegistry(agents...)

	engine := orchestrator.New(graph, registry, pool, store)

	task := &doctype.GenerationTask{
		TaskID: "demo-task-1",
		ProjectInfo: doctype.ProjectInfo{
			"program_name":          "ALMS",
			"user_count":            120,
			"period_of_performance": "12 months base + 4 one-year options",
			"contract_type":         "Firm-Fixed-Price",
		},
		SelectedDocumentTypes: []doctype.Type{doctype.IGCE, doctype.AcquisitionPlan},
		Config:                map[string]any{},
	}

	if err := engine.Run(ctx, task); err != nil {
		return fmt.Errorf("run task: %w", err)
	}

	logger.Info("task completed", "task_id", task.TaskID, "status", task.Status, "progress", task.Progress)
	for _, t := range task.SelectedDocumentTypes {
		meta := task.PerDocMetadata[t]
		logger.Info("document generated", "type", t, "status", meta.Status, "score", meta.FinalScore, "tbd_count", meta.TBDCount)
	}
	for _, w := range task.Warnings {
		logger.Warn("task warning", "warning", w)
	}
	return nil
}

func demoDBPath() string {
	if v := os.Getenv("ORCHESTRATORD_DB"); v != "" {
		return v
	}
	return "orchestratord.sqlite"
}

func demoCorpus() []doctype.Chunk {
	return []doctype.Chunk{
		{Content: "FAR Part 10 requires agencies to conduct market research appropriate to the circumstances before issuing a solicitation.", Source: "FAR-10.001"},
		{Content: "An Independent Government Cost Estimate documents the government's own projection of a fair and reasonable price, broken out by labor category and period of performance.", Source: "FAR-7.105"},
		{Content: "A Performance Work Statement describes required services in terms of measurable outcomes rather than prescriptive methods.", Source: "DFARS-237.170"},
	}
}
