package evaluation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dod-acq/orchestrator/doctype"
)

func TestEvaluate_HighQualityDocumentScoresWell(t *testing.T) {
	e := NewEvaluator(DefaultWeights(), nil)
	req := Request{
		DocumentType:        doctype.PWS,
		Content:              "The period of performance is 12 months. Place of performance is Fort Belvoir. Deliverable: monthly status report, per FAR 10.001.",
		SupportingDocuments: []string{"The period of performance is 12 months. Place of performance is Fort Belvoir. Deliverable: monthly status report."},
		TotalPlaceholders:   4,
		TBDCount:             0,
	}
	res, err := e.Evaluate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 100.0, res.Scores.Completeness)
	assert.Equal(t, 100.0, res.Scores.Compliance, "pws checklist: period/place of performance + deliverable all present")
	assert.GreaterOrEqual(t, res.Overall, 70.0)
}

func TestEvaluate_HallucinationFallsBackToLexicalOverlapWithoutModel(t *testing.T) {
	e := NewEvaluator(DefaultWeights(), nil)
	supporting := "The widget factory produces 500 units per day using robotic assembly."

	grounded, err := e.Evaluate(context.Background(), Request{Content: supporting, SupportingDocuments: []string{supporting}})
	require.NoError(t, err)

	fabricated, err := e.Evaluate(context.Background(), Request{
		Content:             "The moon is made of green cheese according to ancient lunar geologists.",
		SupportingDocuments: []string{supporting},
	})
	require.NoError(t, err)

	assert.Greater(t, grounded.Scores.Hallucination, fabricated.Scores.Hallucination)
}

func TestEvaluate_NoSupportingDocumentsIsNeutral(t *testing.T) {
	e := NewEvaluator(DefaultWeights(), nil)
	res, err := e.Evaluate(context.Background(), Request{Content: "Some claim with no backing material."})
	require.NoError(t, err)
	assert.Equal(t, 50.0, res.Scores.Hallucination)
}

func TestEvaluate_VaguenessPenalizesHedgingLanguage(t *testing.T) {
	e := NewEvaluator(DefaultWeights(), nil)
	precise, err := e.Evaluate(context.Background(), Request{Content: "Delivery occurs on the 15th of each month at the designated facility."})
	require.NoError(t, err)

	vague, err := e.Evaluate(context.Background(), Request{Content: "Delivery occurs as appropriate and as needed, using robust, optimal, best practices to leverage and streamline the process in a timely manner."})
	require.NoError(t, err)

	assert.Greater(t, precise.Scores.Vagueness, vague.Scores.Vagueness)
}

func TestEvaluate_ComplianceChecksPerTypeChecklist(t *testing.T) {
	e := NewEvaluator(DefaultWeights(), nil)
	complete, err := e.Evaluate(context.Background(), Request{
		DocumentType: doctype.IGCE,
		Content:      "This independent government cost estimate documents the basis of estimate for all line items.",
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, complete.Scores.Compliance)

	incomplete, err := e.Evaluate(context.Background(), Request{DocumentType: doctype.IGCE, Content: "This document has no relevant boilerplate."})
	require.NoError(t, err)
	assert.Less(t, incomplete.Scores.Compliance, 100.0)
}

func TestEvaluate_UnconfiguredTypeScoresComplianceAsPerfect(t *testing.T) {
	e := NewEvaluator(DefaultWeights(), nil)
	res, err := e.Evaluate(context.Background(), Request{DocumentType: doctype.Type("no_checklist_for_this_type"), Content: "anything"})
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.Scores.Compliance)
}

func TestEvaluate_CompletenessScalesWithTBDFraction(t *testing.T) {
	e := NewEvaluator(DefaultWeights(), nil)
	res, err := e.Evaluate(context.Background(), Request{Content: "x", TotalPlaceholders: 4, TBDCount: 2})
	require.NoError(t, err)
	assert.Equal(t, 50.0, res.Scores.Completeness)
}

func TestEvaluate_ZeroPlaceholdersIsFullyComplete(t *testing.T) {
	e := NewEvaluator(DefaultWeights(), nil)
	res, err := e.Evaluate(context.Background(), Request{Content: "x", TotalPlaceholders: 0, TBDCount: 0})
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.Scores.Completeness)
}

func TestEvaluate_GradeAndRiskBucketing(t *testing.T) {
	cases := []struct {
		overall       float64
		expectedGrade string
	}{
		{95, "A"}, {80, "B"}, {65, "C"}, {45, "D"}, {10, "F"},
	}
	for _, c := range cases {
		assert.Equal(t, c.expectedGrade, grade(c.overall))
	}

	assert.Equal(t, "LOW", risk(90))
	assert.Equal(t, "MODERATE", risk(70))
	assert.Equal(t, "HIGH", risk(30))
}

func TestNewEvaluator_ZeroWeightsFallBackToDefaults(t *testing.T) {
	e := NewEvaluator(Weights{}, nil)
	assert.Equal(t, DefaultWeights(), e.weights)
}

func TestEvaluate_SuggestionsIncludeCitationIssues(t *testing.T) {
	e := NewEvaluator(DefaultWeights(), nil)
	res, err := e.Evaluate(context.Background(), Request{
		Content: "The cost is $5,000,000 with absolutely no citation anywhere near this particular claim in the document.",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Suggestions)
}
