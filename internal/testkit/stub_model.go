// Package testkit provides deterministic fakes shared across this module's
// package tests: a scripted llm.Model stub (ScriptedModel) and a scripted
// agent Evaluator (ScriptedEvaluator). It exists as an exported (non
// "_test.go") package because Go does not allow importing another
// package's _test.go-only types across package boundaries, and the
// round-trip/idempotence law and seeded scenarios require exactly that
// sharing between orchestrator, agent, and extractor tests. The demo binary
// in cmd/orchestratord also uses ScriptedModel as its stand-in model.
package testkit

import (
	"context"
	"fmt"
	"sync"

	"github.com/dod-acq/orchestrator/llm"
)

// ScriptedModel returns a scripted completion for each successive call to
// a given conversation "key" (derived from the caller-supplied KeyFunc),
// enabling tests to script "iteration 0 returns X, iteration 1 returns Y"
// without depending on call ordering across goroutines.
type ScriptedModel struct {
	mu       sync.Mutex
	KeyFunc  func(req llm.Request) string
	Scripts  map[string][]string
	calls    map[string]int
	FailWith error
}

// NewScriptedModel returns a ScriptedModel keyed by the last message's
// content unless KeyFunc is set.
func NewScriptedModel() *ScriptedModel {
	return &ScriptedModel{
		Scripts: make(map[string][]string),
		calls:   make(map[string]int),
	}
}

func (s *ScriptedModel) key(req llm.Request) string {
	if s.KeyFunc != nil {
		return s.KeyFunc(req)
	}
	if len(req.Messages) == 0 {
		return ""
	}
	return req.Messages[len(req.Messages)-1].Content
}

// Generate implements llm.Model.
func (s *ScriptedModel) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	select {
	case <-ctx.Done():
		return llm.Response{}, ctx.Err()
	default:
	}
	if s.FailWith != nil {
		return llm.Response{}, s.FailWith
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := s.key(req)
	script := s.Scripts[k]
	idx := s.calls[k]
	s.calls[k]++

	if len(script) == 0 {
		return llm.Response{Text: fmt.Sprintf("generated content for %q", k)}, nil
	}
	if idx >= len(script) {
		idx = len(script) - 1
	}
	return llm.Response{Text: script[idx], Usage: llm.Usage{PromptTokens: 50, CompletionTokens: 50}}, nil
}

// CallCount returns how many times Generate has been called for the given
// key.
func (s *ScriptedModel) CallCount(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[key]
}
