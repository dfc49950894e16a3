package agent

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/dod-acq/orchestrator/citation"
	"github.com/dod-acq/orchestrator/doctype"
	"github.com/dod-acq/orchestrator/evaluation"
	"github.com/dod-acq/orchestrator/llm"
	"github.com/dod-acq/orchestrator/retriever"
	"github.com/dod-acq/orchestrator/xsync"
)

// PerCallTimeout bounds a single language-model invocation.
const PerCallTimeout = 120 * time.Second

// PerAgentTimeout bounds one Agent.Execute call end to end.
const PerAgentTimeout = 600 * time.Second

// Result is everything Execute produces for one document.
type Result struct {
	Document doctype.GeneratedDocument
	Metadata doctype.Metadata
}

// Execute runs the full BaseAgent skeleton: resolve dependencies, build
// RAG context, populate the scaffold, invoke the model, inject citations,
// self-extract, score, optionally refine, and return. It never panics;
// every failure, an expired timeout included, is returned as an *Error so
// the Orchestrator can isolate it to this one document.
func (a *Agent) Execute(ctx context.Context, jc JobContext) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, PerAgentTimeout)
	defer cancel()

	state := StateInit
	var warnings []string

	// 1. Resolve dependencies.
	refs := doctype.NewReferences()
	upstreamExtractions := make([]doctype.ExtractedData, 0, len(a.spec.Dependencies))
	upstreamByDep := make(map[doctype.Type]doctype.ExtractedData, len(a.spec.Dependencies))
	var upstreamSummaries []string
	for _, dep := range a.spec.Dependencies {
		docID, content, extracted, ok := a.pool.Get(dep)
		if !ok && a.store != nil {
			if doc, err := a.store.FindLatest(ctx, dep, jc.ProgramName); err == nil && doc != nil {
				docID, content, extracted, ok = doc.DocID, doc.Content, doc.ExtractedData, true
			}
		}
		if !ok {
			warnings = append(warnings, fmt.Sprintf("dependency %s not available; proceeding with empty context", dep))
			continue
		}
		if docID != "" {
			refs.Set(dep, docID)
		}
		a.pool.RecordReference(a.spec.Type, dep, "dependency")
		if extracted != nil {
			upstreamExtractions = append(upstreamExtractions, extracted)
			upstreamByDep[dep] = extracted
		}
		upstreamSummaries = append(upstreamSummaries, fmt.Sprintf("## %s\n%s", dep, truncateRunes(content, 2000)))
	}
	upstream := doctype.ExtractedData{}
	for _, e := range upstreamExtractions {
		upstream = upstream.Merge(e)
	}
	for _, label := range a.spec.ReferenceLabels {
		for dep, extracted := range upstreamByDep {
			if _, ok := extracted[label]; ok {
				a.pool.RecordReference(a.spec.Type, dep, label)
				break
			}
		}
	}
	state = StateDepsResolved

	// 2. Build RAG context.
	var ragChunks []string
	ragContext := doctype.ExtractedData{}
	for _, qTmpl := range a.spec.Queries {
		query := renderQuery(qTmpl, jc.ProgramName)
		result, err := a.retrieveWithRetry(ctx, query, jc.RetrievalK)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("retrieval query %q failed: %v", query, err))
			continue
		}
		text := result.Text()
		if text == "" {
			continue
		}
		ragChunks = append(ragChunks, text)
		extracted := a.extractors.Extract(ctx, a.spec.Type, text, a.spec.Fields)
		ragContext = ragContext.Merge(extracted)
	}
	state = StateContextBuilt

	// 3. Ingest upstream extractions (upstream outranks rag_context).
	combined := ragContext.Merge(upstream)

	// 4. Populate template (five-tier rule).
	smartDefaults := noSmartDefaults()
	if a.spec.SmartDefaults != nil {
		smartDefaults = a.spec.SmartDefaults(jc.ProjectInfo)
	}
	fill := populateScaffold(a.spec.Template, a.spec.Fields, jc.FieldOverrides, combined, ragContext, smartDefaults)
	state = StateTemplatePopulated

	// 5. Invoke the language model.
	content, usedTokens, err := a.generate(ctx, jc, fill.scaffold, ragChunks, upstreamSummaries)
	if err != nil {
		return Result{}, &Error{Type: a.spec.Type, Stage: state, Err: err}
	}
	content, extra := sanitizeTokens(content)
	tbdCount := fill.tbdCount + extra
	state = StateGenerated
	tokenSpent := usedTokens

	// 6. Inject citations.
	if candidates := a.citations.InjectionCandidates(content); len(candidates) > 0 {
		if revised, spent, err := a.injectCitations(ctx, content, candidates); err == nil {
			content = revised
			tokenSpent += spent
		} else {
			warnings = append(warnings, fmt.Sprintf("citation injection failed: %v", err))
		}
	}
	state = StateCitationsInjected

	// 7. Self-extract.
	selfExtracted := a.extractors.Extract(ctx, a.spec.Type, content, a.spec.Fields)

	// 8. Score.
	evalResult, err := a.evaluate(ctx, content, ragChunks, upstreamSummaries, len(a.spec.Fields), tbdCount)
	if err != nil {
		return Result{}, &Error{Type: a.spec.Type, Stage: state, Err: err}
	}
	state = StateScored

	// 9. Refine loop.
	iterations := 0
	if jc.EnableAutoRefinement {
		for evalResult.Overall < float64(jc.RefinementThreshold) && iterations < jc.MaxIterations {
			if jc.MaxRefinementTokens > 0 && tokenSpent >= jc.MaxRefinementTokens {
				warnings = append(warnings, "refinement token budget exhausted; keeping last accepted revision")
				break
			}
			state = StateRefining
			revised, spent, err := a.refine(ctx, content, evalResult.Suggestions)
			iterations++
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("refinement iteration %d failed: %v", iterations, err))
				break
			}
			tokenSpent += spent
			revisedSanitized, revExtra := sanitizeTokens(revised)
			revisedTBD := tbdCount
			if revExtra > 0 {
				revisedTBD += revExtra
			}
			revisedExtracted := a.extractors.Extract(ctx, a.spec.Type, revisedSanitized, a.spec.Fields)
			revisedEval, err := a.evaluate(ctx, revisedSanitized, ragChunks, upstreamSummaries, len(a.spec.Fields), revisedTBD)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("refinement iteration %d scoring failed: %v", iterations, err))
				break
			}
			if revisedEval.Overall > evalResult.Overall && revisedTBD <= tbdCount {
				content = revisedSanitized
				tbdCount = revisedTBD
				evalResult = revisedEval
				selfExtracted = revisedExtracted
				state = StateScored
				continue
			}
			// Rejected: strictly-better-and-no-more-TBDs not satisfied, keep
			// the prior revision and stop refining.
			warnings = append(warnings, fmt.Sprintf("refinement iteration %d rejected; keeping prior revision", iterations))
			break
		}
	}

	wordCount := len(strings.Fields(content))
	metadata := doctype.Metadata{
		AgentName:          string(a.spec.Type) + "_agent",
		GenerationStrategy: "rag_scaffold_refine",
		WordCount:          wordCount,
		TBDCount:           tbdCount,
		IterationsUsed:     iterations,
		FinalScore:         evalResult.Overall,
		Grade:              evalResult.Grade,
		Risk:               evalResult.Risk,
		Status:             "ok",
		Warnings:           warnings,
	}

	doc := doctype.GeneratedDocument{
		Type:          a.spec.Type,
		Program:       jc.ProgramName,
		Content:       content,
		ExtractedData: selfExtracted,
		References:    refs,
		Metadata:      metadata,
		CreatedAt:     time.Now().UTC(),
	}

	return Result{Document: doc, Metadata: metadata}, nil
}

func renderQuery(tmpl, programName string) string {
	t, err := template.New("q").Parse(tmpl)
	if err != nil {
		return tmpl
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, map[string]string{"ProgramName": programName}); err != nil {
		return tmpl
	}
	return buf.String()
}

func (a *Agent) retrieveWithRetry(ctx context.Context, query string, k int) (doctype.RetrievalResult, error) {
	var result doctype.RetrievalResult
	err := xsync.Retry(ctx, xsync.DefaultRetryPolicy(), retriever.IsRetrievalError, func(ctx context.Context) error {
		r, err := a.retriever.Retrieve(ctx, query, k)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	return result, err
}

func (a *Agent) callModel(ctx context.Context, temperature float64, prompt string) (llm.Response, error) {
	callCtx, cancel := context.WithTimeout(ctx, PerCallTimeout)
	defer cancel()

	var resp llm.Response
	err := xsync.Retry(callCtx, xsync.DefaultRetryPolicy(), llm.Retryable, func(ctx context.Context) error {
		r, err := a.model.Generate(ctx, llm.Request{
			Messages:    []llm.Message{{Role: llm.RoleSystem, Content: a.systemPrompt()}, {Role: llm.RoleUser, Content: prompt}},
			Temperature: temperature,
		})
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	return resp, err
}

func (a *Agent) systemPrompt() string {
	return fmt.Sprintf("You are a DoD contracting document generator for %s. Follow the provided scaffold and cite regulatory sources using these formats:\n%s",
		a.spec.Type, citation.AllFormatHints())
}

func (a *Agent) generate(ctx context.Context, jc JobContext, scaffold string, ragChunks, upstreamSummaries []string) (string, int, error) {
	var b strings.Builder
	b.WriteString("Scaffold:\n")
	b.WriteString(scaffold)
	if len(ragChunks) > 0 {
		b.WriteString("\n\nRetrieved reference material:\n")
		b.WriteString(strings.Join(ragChunks, "\n---\n"))
	}
	if len(upstreamSummaries) > 0 {
		b.WriteString("\n\nUpstream documents:\n")
		b.WriteString(strings.Join(upstreamSummaries, "\n\n"))
	}
	b.WriteString("\n\nWrite the final document content, replacing bracketed guidance with real prose while preserving every concrete value already present in the scaffold.")

	resp, err := a.callModel(ctx, jc.LLMTemperature, b.String())
	if err != nil {
		return "", 0, err
	}
	return resp.Text, tokensSpent(resp), nil
}

func (a *Agent) injectCitations(ctx context.Context, content string, candidates []string) (string, int, error) {
	prompt := fmt.Sprintf(
		"The following document contains claims lacking a citation. Rewrite it, adding an appropriate citation "+
			"immediately after each of these claims, using the formats below. Return the complete revised document only.\n\n"+
			"Formats:\n%s\n\nUncited claims:\n- %s\n\nDocument:\n%s",
		citation.AllFormatHints(), strings.Join(candidates, "\n- "), content)

	resp, err := a.callModel(ctx, 0.1, prompt)
	if err != nil {
		return content, 0, err
	}
	return resp.Text, tokensSpent(resp), nil
}

func (a *Agent) refine(ctx context.Context, prior string, issues []string) (string, int, error) {
	prompt := fmt.Sprintf(
		"Revise the following document to address these issues, preserving every fact already stated and not "+
			"introducing new unsupported claims. Return the complete revised document only.\n\nIssues:\n- %s\n\nDocument:\n%s",
		strings.Join(issues, "\n- "), prior)

	resp, err := a.callModel(ctx, 0.2, prompt)
	if err != nil {
		return prior, 0, err
	}
	return resp.Text, tokensSpent(resp), nil
}

func (a *Agent) evaluate(ctx context.Context, content string, ragChunks, upstreamSummaries []string, totalPlaceholders, tbdCount int) (evaluation.Result, error) {
	support := append(append([]string{}, ragChunks...), upstreamSummaries...)
	return a.evaluator.Evaluate(ctx, evaluation.Request{
		DocumentType:        a.spec.Type,
		Content:             content,
		SupportingDocuments: support,
		TotalPlaceholders:   totalPlaceholders,
		TBDCount:            tbdCount,
	})
}

func tokensSpent(resp llm.Response) int {
	if resp.Usage.PromptTokens > 0 || resp.Usage.CompletionTokens > 0 {
		return resp.Usage.PromptTokens + resp.Usage.CompletionTokens
	}
	return estimateTokens(resp.Text)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
