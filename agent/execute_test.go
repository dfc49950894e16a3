package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dod-acq/orchestrator/acqconfig"
	"github.com/dod-acq/orchestrator/citation"
	"github.com/dod-acq/orchestrator/contextpool"
	"github.com/dod-acq/orchestrator/doctype"
	"github.com/dod-acq/orchestrator/extractor"
	"github.com/dod-acq/orchestrator/internal/testkit"
	"github.com/dod-acq/orchestrator/metadatastore"
	"github.com/dod-acq/orchestrator/retriever"
)

func testJobContext(overrides ...func(*JobContext)) JobContext {
	jc := JobContext{
		Config:      acqconfig.Default(),
		ProgramName: "ALMS",
		ProjectInfo: doctype.ProjectInfo{"program_name": "ALMS"},
	}
	for _, o := range overrides {
		o(&jc)
	}
	return jc
}

func newTestAgent(t *testing.T, spec Spec, model *testkit.ScriptedModel, evaluator Evaluator, pool *contextpool.Pool, store metadatastore.Store) *Agent {
	t.Helper()
	corpus, err := retriever.NewMemoryRetriever(&retriever.MemoryRetrieverConfig{})
	require.NoError(t, err)
	if pool == nil {
		pool = contextpool.New()
	}
	return New(spec, corpus, extractor.NewLibrary(model, 20), citation.NewValidator(), evaluator, model, pool, store)
}

func simpleSpec(t doctype.Type, deps ...doctype.Type) Spec {
	return Spec{
		Type:         t,
		Dependencies: deps,
		Fields:       []string{"estimated_value"},
		Template:     "# Doc\n\nValue: {{estimated_value}}\n",
	}
}

func TestExecute_HappyPathProducesDocument(t *testing.T) {
	model := testkit.NewScriptedModel()
	a := newTestAgent(t, simpleSpec(doctype.SourcesSought), model, &testkit.ScriptedEvaluator{Scores: []float64{95}}, nil, nil)

	res, err := a.Execute(context.Background(), testJobContext())
	require.NoError(t, err)

	assert.Equal(t, doctype.SourcesSought, res.Document.Type)
	assert.Equal(t, "ALMS", res.Document.Program)
	assert.NotEmpty(t, res.Document.Content)
	assert.Equal(t, "ok", res.Metadata.Status)
	assert.Equal(t, 0, res.Document.References.Len())
}

func TestExecute_MissingDependencyWarnsAndDegrades(t *testing.T) {
	model := testkit.NewScriptedModel()
	spec := simpleSpec(doctype.PWS, doctype.IGCE)
	a := newTestAgent(t, spec, model, &testkit.ScriptedEvaluator{Scores: []float64{95}}, nil, nil)

	res, err := a.Execute(context.Background(), testJobContext())
	require.NoError(t, err)

	assert.Equal(t, "ok", res.Metadata.Status)
	assert.NotEmpty(t, res.Metadata.Warnings)
	found := false
	for _, w := range res.Metadata.Warnings {
		if w == "dependency igce not available; proceeding with empty context" {
			found = true
		}
	}
	assert.True(t, found, "expected a specific missing-dependency warning, got %v", res.Metadata.Warnings)
	assert.Equal(t, 0, res.Document.References.Len())
}

func TestExecute_ResolvesDependencyFromPoolAndRecordsReference(t *testing.T) {
	model := testkit.NewScriptedModel()
	pool := contextpool.New()
	pool.Put(doctype.IGCE, "igce_alms_2026-07-29_deadbeef", "igce content", doctype.ExtractedData{"total_cost": "$1,000,000"})

	spec := simpleSpec(doctype.PWS, doctype.IGCE)
	a := newTestAgent(t, spec, model, &testkit.ScriptedEvaluator{Scores: []float64{95}}, pool, nil)

	res, err := a.Execute(context.Background(), testJobContext())
	require.NoError(t, err)

	docID, ok := res.Document.References.Get(doctype.IGCE)
	require.True(t, ok)
	assert.Equal(t, "igce_alms_2026-07-29_deadbeef", docID)

	refs := pool.CrossReferences()
	require.Len(t, refs, 1)
	assert.Equal(t, doctype.CrossReference{From: doctype.PWS, To: doctype.IGCE, Label: "dependency"}, refs[0])
}

func TestExecute_ReferenceLabelRecordsFieldSpecificCrossReference(t *testing.T) {
	model := testkit.NewScriptedModel()
	pool := contextpool.New()
	pool.Put(doctype.IGCE, "igce_alms_2026-07-29_deadbeef", "igce content", doctype.ExtractedData{"total_cost": "$1,000,000"})
	pool.Put(doctype.MarketResearchReport, "mrr_alms_2026-07-29_cafebabe", "mrr content", doctype.ExtractedData{"vendor_count": "7"})

	spec := Spec{
		Type:            doctype.AcquisitionPlan,
		Dependencies:    []doctype.Type{doctype.IGCE, doctype.MarketResearchReport},
		ReferenceLabels: []string{"total_cost"},
		Fields:          []string{"total_cost"},
		Template:        "# Plan\n\nCost basis: {{total_cost}}\n",
	}
	a := newTestAgent(t, spec, model, &testkit.ScriptedEvaluator{Scores: []float64{95}}, pool, nil)

	_, err := a.Execute(context.Background(), testJobContext())
	require.NoError(t, err)

	var labeled, generic int
	for _, ref := range pool.CrossReferences() {
		require.Equal(t, doctype.AcquisitionPlan, ref.From)
		switch ref.Label {
		case "total_cost":
			assert.Equal(t, doctype.IGCE, ref.To)
			labeled++
		case "dependency":
			generic++
		}
	}
	assert.Equal(t, 1, labeled, "expected exactly one total_cost-labeled reference, to igce")
	assert.Equal(t, 2, generic, "both dependencies still get the generic label")
}

func TestExecute_RefinementAcceptsStrictImprovement(t *testing.T) {
	model := testkit.NewScriptedModel()
	evaluator := &testkit.ScriptedEvaluator{Scores: []float64{70, 85}}
	a := newTestAgent(t, simpleSpec(doctype.PWS), model, evaluator, nil, nil)

	jc := testJobContext(func(jc *JobContext) {
		jc.EnableAutoRefinement = true
		jc.RefinementThreshold = 75
		jc.MaxIterations = 2
	})
	res, err := a.Execute(context.Background(), jc)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Metadata.IterationsUsed)
	assert.Equal(t, 85.0, res.Metadata.FinalScore)
	assert.Equal(t, "B", res.Metadata.Grade)
}

func TestExecute_RefinementRejectsRegression(t *testing.T) {
	model := testkit.NewScriptedModel()
	evaluator := &testkit.ScriptedEvaluator{Scores: []float64{82, 79}}
	a := newTestAgent(t, simpleSpec(doctype.PWS), model, evaluator, nil, nil)

	jc := testJobContext(func(jc *JobContext) {
		jc.EnableAutoRefinement = true
		jc.RefinementThreshold = 90
		jc.MaxIterations = 2
	})
	res, err := a.Execute(context.Background(), jc)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Metadata.IterationsUsed)
	assert.Equal(t, 82.0, res.Metadata.FinalScore)
}

func TestExecute_RefinementStopsAtTokenBudget(t *testing.T) {
	model := testkit.NewScriptedModel()
	evaluator := &testkit.ScriptedEvaluator{Scores: []float64{50, 95}}
	a := newTestAgent(t, simpleSpec(doctype.PWS), model, evaluator, nil, nil)

	jc := testJobContext(func(jc *JobContext) {
		jc.EnableAutoRefinement = true
		jc.RefinementThreshold = 75
		jc.MaxIterations = 5
		jc.MaxRefinementTokens = 1 // the first generation call alone exceeds this
	})
	res, err := a.Execute(context.Background(), jc)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Metadata.IterationsUsed)
	found := false
	for _, w := range res.Metadata.Warnings {
		if w == "refinement token budget exhausted; keeping last accepted revision" {
			found = true
		}
	}
	assert.True(t, found, "expected a token-budget-exhausted warning, got %v", res.Metadata.Warnings)
}

func TestExecute_AutoRefinementDisabledNeverRefines(t *testing.T) {
	model := testkit.NewScriptedModel()
	evaluator := &testkit.ScriptedEvaluator{Scores: []float64{10, 95}}
	a := newTestAgent(t, simpleSpec(doctype.PWS), model, evaluator, nil, nil)

	jc := testJobContext(func(jc *JobContext) {
		jc.EnableAutoRefinement = false
	})
	res, err := a.Execute(context.Background(), jc)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Metadata.IterationsUsed)
	assert.Equal(t, 10.0, res.Metadata.FinalScore)
}

func TestExecute_FieldOverrideWinsOverExtractedData(t *testing.T) {
	model := testkit.NewScriptedModel()
	pool := contextpool.New()
	pool.Put(doctype.IGCE, "igce_id", "igce content", doctype.ExtractedData{"total_cost": "$1,000,000"})

	spec := Spec{
		Type:         doctype.AcquisitionPlan,
		Dependencies: []doctype.Type{doctype.IGCE},
		Fields:       []string{"total_cost"},
		Template:     "# Plan\n\nCost basis: {{total_cost}}\n",
	}
	a := newTestAgent(t, spec, model, &testkit.ScriptedEvaluator{Scores: []float64{95}}, pool, nil)

	jc := testJobContext(func(jc *JobContext) {
		jc.FieldOverrides = map[string]string{"total_cost": "$2,500,000 (human override)"}
	})
	res, err := a.Execute(context.Background(), jc)
	require.NoError(t, err)

	assert.Contains(t, res.Document.Content, "$2,500,000 (human override)")
}
