package extractor

import (
	"context"
	"fmt"
	"sync"

	"github.com/dod-acq/orchestrator/llm"
)

// llmFallback issues at most maxCalls "extract X from this text; return
// JSON or null" completions total, across the Library's lifetime, to keep
// the documented fallback path from becoming an unbounded
// cost sink. Once the budget is exhausted, extract always reports "no
// match" rather than blocking or erroring.
type llmFallback struct {
	mu       sync.Mutex
	model    llm.Model
	maxCalls int
	used     int
}

func newLLMFallback(model llm.Model, maxCalls int) *llmFallback {
	if maxCalls <= 0 {
		maxCalls = 20
	}
	return &llmFallback{model: model, maxCalls: maxCalls}
}

func (f *llmFallback) extract(ctx context.Context, text, field string) (string, bool) {
	if f == nil || f.model == nil {
		return "", false
	}

	f.mu.Lock()
	if f.used >= f.maxCalls {
		f.mu.Unlock()
		return "", false
	}
	f.used++
	f.mu.Unlock()

	prompt := fmt.Sprintf(
		"Extract the value of %q from the following text. "+
			`Return a JSON object of the form {"value": "..."} if found, or the bare word null if not found.`+
			"\n\nText:\n%s", field, truncate(text, 4000))

	resp, err := f.model.Generate(ctx, llm.Request{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: prompt}},
	})
	if err != nil {
		return "", false
	}
	return parseJSONOrNull(resp.Text)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
