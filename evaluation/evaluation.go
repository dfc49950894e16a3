// Package evaluation scores a generated document along five axes -
// hallucination, vagueness, citations, compliance, completeness -
// combining them into a weighted overall score, a letter grade, and a
// hallucination-risk bucket.
package evaluation

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/dod-acq/orchestrator/citation"
	"github.com/dod-acq/orchestrator/doctype"
	"github.com/dod-acq/orchestrator/llm"
)

// Weights assigns each axis its share of the overall composite score. The
// defaults favour hallucination and citations/compliance, the two axes
// with direct legal/audit exposure, over completeness alone.
type Weights struct {
	Hallucination float64
	Vagueness     float64
	Citations     float64
	Compliance    float64
	Completeness  float64
}

// DefaultWeights returns the fixed default axis weights.
func DefaultWeights() Weights {
	return Weights{Hallucination: 0.30, Vagueness: 0.15, Citations: 0.20, Compliance: 0.20, Completeness: 0.15}
}

func (w Weights) sum() float64 {
	return w.Hallucination + w.Vagueness + w.Citations + w.Compliance + w.Completeness
}

// Scores holds each axis's independent [0,100] score.
type Scores struct {
	Hallucination float64
	Vagueness     float64
	Citations     float64
	Compliance    float64
	Completeness  float64
}

// Result is the full evaluation outcome for one document.
type Result struct {
	Scores      Scores
	Overall     float64
	Grade       string
	Risk        string
	Suggestions []string
}

// Request bundles everything a QualityEvaluator needs to score one
// generated document.
type Request struct {
	DocumentType doctype.Type
	Content      string
	// SupportingDocuments are retrieved chunks / upstream document content
	// the generation was conditioned on, used for the hallucination axis.
	SupportingDocuments []string
	TotalPlaceholders   int
	TBDCount            int
}

var vagueWords = []string{
	"appropriate", "various", "as needed", "as necessary", "reasonable",
	"adequate", "sufficient", "a number of", "in a timely manner",
	"to the extent possible", "robust", "best practices", "leverage",
	"streamline", "optimal",
}

var tokenRe = regexp.MustCompile(`\S+`)

var complianceChecklists = map[doctype.Type][]string{
	doctype.PWS:  {"period of performance", "place of performance", "deliverable"},
	doctype.SOW:  {"period of performance", "deliverable"},
	doctype.IGCE: {"independent government cost estimate", "basis of estimate"},
	doctype.QASP: {"surveillance method", "acceptable quality level"},
}

// Evaluator implements the quality-scoring engine.
type Evaluator struct {
	weights         Weights
	citationChecker *citation.Validator
	model           llm.Model
}

// NewEvaluator constructs an Evaluator. model is optional: when nil, the
// hallucination axis falls back to lexical overlap with
// SupportingDocuments instead of an LLM fact-check call (cheaper, used in
// tests and when enable_auto_refinement-adjacent LLM calls should be
// minimized).
func NewEvaluator(weights Weights, model llm.Model) *Evaluator {
	if weights.sum() == 0 {
		weights = DefaultWeights()
	}
	return &Evaluator{weights: weights, citationChecker: citation.NewValidator(), model: model}
}

// Evaluate scores req's document. It never returns an error for malformed
// or empty content; a pathological document simply scores poorly.
func (e *Evaluator) Evaluate(ctx context.Context, req Request) (Result, error) {
	hallucination, err := e.scoreHallucination(ctx, req)
	if err != nil {
		return Result{}, fmt.Errorf("evaluation: hallucination axis: %w", err)
	}
	vagueness := scoreVagueness(req.Content)
	citationScore := e.citationChecker.Validate(req.Content)
	compliance := scoreCompliance(req.DocumentType, req.Content)
	completeness := scoreCompleteness(req.TotalPlaceholders, req.TBDCount)

	scores := Scores{
		Hallucination: hallucination,
		Vagueness:     vagueness,
		Citations:     citationScore.Compliance,
		Compliance:    compliance,
		Completeness:  completeness,
	}
	overall := (scores.Hallucination*e.weights.Hallucination +
		scores.Vagueness*e.weights.Vagueness +
		scores.Citations*e.weights.Citations +
		scores.Compliance*e.weights.Compliance +
		scores.Completeness*e.weights.Completeness) / e.weights.sum()

	suggestions := buildSuggestions(scores, citationScore.Issues)

	return Result{
		Scores:      scores,
		Overall:     overall,
		Grade:       grade(overall),
		Risk:        risk(scores.Hallucination),
		Suggestions: suggestions,
	}, nil
}

func grade(overall float64) string {
	switch {
	case overall >= 90:
		return "A"
	case overall >= 75:
		return "B"
	case overall >= 60:
		return "C"
	case overall >= 40:
		return "D"
	default:
		return "F"
	}
}

func risk(hallucinationScore float64) string {
	switch {
	case hallucinationScore >= 85:
		return "LOW"
	case hallucinationScore >= 60:
		return "MODERATE"
	default:
		return "HIGH"
	}
}

// scoreHallucination cross-checks the generation's claims against the
// supporting documents. With a model configured, it asks a single yes/no
// fact-check prompt per sampled sentence (bounded to a handful to stay
// cheap); without one, it falls back to a lexical-overlap heuristic.
func (e *Evaluator) scoreHallucination(ctx context.Context, req Request) (float64, error) {
	sentences := splitSentences(req.Content)
	if len(sentences) == 0 {
		return 100, nil
	}
	sample := sampleSentences(sentences, 5)
	supporting := strings.Join(req.SupportingDocuments, "\n")

	if e.model == nil || supporting == "" {
		return lexicalOverlapScore(sample, supporting), nil
	}

	supported := 0
	for _, s := range sample {
		prompt := llm.NewPromptTemplate().
			WithTemplate(`Evaluate whether the following claim is supported by the provided document.
Respond with exactly "YES" or "NO".

Document:
{{.Document}}

Claim:
{{.Claim}}`).
			WithVariable("Document", supporting).
			WithVariable("Claim", s)
		rendered, err := prompt.Render()
		if err != nil {
			return 0, err
		}
		resp, err := e.model.Generate(ctx, llm.Request{Messages: []llm.Message{{Role: llm.RoleUser, Content: rendered}}})
		if err != nil {
			// A failed fact-check call degrades the axis rather than
			// aborting the whole evaluation (evaluators must
			// not propagate model failures as fatal).
			continue
		}
		if strings.EqualFold(strings.TrimSpace(resp.Text), "YES") {
			supported++
		}
	}
	return 100 * float64(supported) / float64(len(sample)), nil
}

func lexicalOverlapScore(sentences []string, supporting string) float64 {
	if supporting == "" {
		return 50 // no supporting material to check against: neutral score
	}
	supportTerms := tokenSet(supporting)
	if len(sentences) == 0 {
		return 100
	}
	total := 0.0
	for _, s := range sentences {
		terms := tokenSet(s)
		if len(terms) == 0 {
			total += 100
			continue
		}
		hit := 0
		for t := range terms {
			if _, ok := supportTerms[t]; ok {
				hit++
			}
		}
		total += 100 * float64(hit) / float64(len(terms))
	}
	return total / float64(len(sentences))
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range tokenRe.FindAllString(strings.ToLower(s), -1) {
		set[strings.Trim(tok, ".,;:()")] = struct{}{}
	}
	return set
}

func splitSentences(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool { return r == '.' || r == '\n' })
	var out []string
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if len(s) > 10 {
			out = append(out, s)
		}
	}
	return out
}

func sampleSentences(sentences []string, max int) []string {
	if len(sentences) <= max {
		return sentences
	}
	step := len(sentences) / max
	if step < 1 {
		step = 1
	}
	var out []string
	for i := 0; i < len(sentences) && len(out) < max; i += step {
		out = append(out, sentences[i])
	}
	return out
}

// scoreVagueness penalizes hedging-word density per 1000 words.
func scoreVagueness(content string) float64 {
	words := tokenRe.FindAllString(content, -1)
	if len(words) == 0 {
		return 100
	}
	lower := strings.ToLower(content)
	hits := 0
	for _, w := range vagueWords {
		hits += strings.Count(lower, w)
	}
	density := 1000 * float64(hits) / float64(len(words))
	score := 100 - density*8
	if score < 0 {
		score = 0
	}
	return score
}

// scoreCompliance checks for required boilerplate/regulatory references
// per DocumentType against a per-type checklist.
func scoreCompliance(t doctype.Type, content string) float64 {
	checklist, ok := complianceChecklists[t]
	if !ok || len(checklist) == 0 {
		return 100
	}
	lower := strings.ToLower(content)
	hits := 0
	for _, item := range checklist {
		if strings.Contains(lower, item) {
			hits++
		}
	}
	return 100 * float64(hits) / float64(len(checklist))
}

// scoreCompleteness is 1 - tbd_count/total_placeholders, scaled to [0,100].
func scoreCompleteness(total, tbd int) float64 {
	if total <= 0 {
		return 100
	}
	frac := 1 - float64(tbd)/float64(total)
	if frac < 0 {
		frac = 0
	}
	return 100 * frac
}

func buildSuggestions(s Scores, citationIssues []string) []string {
	var out []string
	if s.Hallucination < 85 {
		out = append(out, "re-ground unsupported claims in retrieved or upstream-document evidence")
	}
	if s.Vagueness < 80 {
		out = append(out, "replace hedging language with specific, quantified statements")
	}
	if s.Completeness < 90 {
		out = append(out, "resolve remaining TBD placeholders with cross-referenced or default values")
	}
	out = append(out, citationIssues...)
	return out
}
