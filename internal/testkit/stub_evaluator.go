package testkit

import (
	"context"
	"sync"

	"github.com/dod-acq/orchestrator/evaluation"
)

// ScriptedEvaluator returns the next Result from Scores on each successive
// call, regardless of the Request's content - it decouples "what score did
// this revision get" from the model's actual text, which is what the
// seeded refinement scenarios need (iteration 0 scores 70, iteration 1
// scores 85, independent of what either stub completion says).
type ScriptedEvaluator struct {
	mu     sync.Mutex
	Scores []float64
	call   int
}

// Evaluate implements agent.Evaluator.
func (s *ScriptedEvaluator) Evaluate(_ context.Context, req evaluation.Request) (evaluation.Result, error) {
	s.mu.Lock()
	idx := s.call
	s.call++
	s.mu.Unlock()

	score := 100.0
	if len(s.Scores) > 0 {
		if idx >= len(s.Scores) {
			idx = len(s.Scores) - 1
		}
		score = s.Scores[idx]
	}

	grade := "F"
	switch {
	case score >= 90:
		grade = "A"
	case score >= 75:
		grade = "B"
	case score >= 60:
		grade = "C"
	case score >= 40:
		grade = "D"
	}

	return evaluation.Result{
		Scores:      evaluation.Scores{Hallucination: score, Vagueness: score, Citations: score, Compliance: score, Completeness: score},
		Overall:     score,
		Grade:       grade,
		Risk:        "LOW",
		Suggestions: []string{"address outstanding issues"},
	}, nil
}

// CallCount reports how many times Evaluate has been invoked.
func (s *ScriptedEvaluator) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.call
}
