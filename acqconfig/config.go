// Package acqconfig parses a job's raw config: map[string]any into a typed,
// validated Config, so the rest of the engine never touches the bare map
// again after job entry.
package acqconfig

import (
	"fmt"

	"github.com/spf13/cast"
)

// Config is the full set of recognized per-job tuning knobs. Every field
// has a documented default; Parse fills in defaults for any key the caller
// omitted and rejects any key it does not recognize.
type Config struct {
	// MaxParallelAgents bounds how many agents in one dependency-graph
	// batch run concurrently.
	MaxParallelAgents int
	// MaxIterations bounds how many refinement passes one agent may run
	// beyond its first generation.
	MaxIterations int
	// RefinementThreshold is the QualityEvaluator overall score at or
	// above which an agent stops refining.
	RefinementThreshold int
	// EnableAutoRefinement turns the refinement loop on or off entirely;
	// false means every agent stops after its first generation pass.
	EnableAutoRefinement bool
	// UseSpecializedAgents selects between the ~30 per-DocumentType
	// AgentSpecs and a single generic fallback agent.
	UseSpecializedAgents bool
	// RetrievalK is the top-k passed to every Retriever.Retrieve call.
	RetrievalK int
	// LLMTemperature is the sampling temperature passed to every model
	// call.
	LLMTemperature float64
	// MaxRefinementTokens caps the cumulative prompt+completion tokens spent
	// on a single document (initial generation, citation injection and
	// refinement together); once reached, no further refinement iteration
	// starts regardless of score.
	MaxRefinementTokens int
	// MaxLLMCallsPerExtraction caps how many LLM fallback calls the
	// ExtractorLibrary may issue over its lifetime.
	MaxLLMCallsPerExtraction int
	// FieldOverrides is the human-provided, per-placeholder-field override
	// map: tier 1 of the five-tier value-selection rule. Keyed by field
	// name (e.g. "labor_rates"), not by DocumentType - a field present here
	// wins over any extracted or smart-default value regardless of which
	// document is being populated.
	FieldOverrides map[string]string
}

// Default returns the documented defaults for every recognized option.
func Default() Config {
	return Config{
		MaxParallelAgents:        4,
		MaxIterations:            2,
		RefinementThreshold:      75,
		EnableAutoRefinement:     true,
		UseSpecializedAgents:     true,
		RetrievalK:               5,
		LLMTemperature:           0.2,
		MaxRefinementTokens:      20_000,
		MaxLLMCallsPerExtraction: 20,
	}
}

// Error is a malformed or unrecognized config entry.
type Error struct {
	Key string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("acqconfig: %s: %v", e.Key, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

var recognized = map[string]struct{}{
	"max_parallel_agents":          {},
	"max_iterations":               {},
	"refinement_threshold":         {},
	"enable_auto_refinement":       {},
	"use_specialized_agents":       {},
	"retrieval_k":                  {},
	"llm_temperature":              {},
	"max_refinement_tokens":        {},
	"max_llm_calls_per_extraction": {},
	"field_overrides":              {},
}

// Parse builds a Config from a job's raw config map, starting from
// Default() and overriding only the keys present in raw. Scalar values are
// coerced leniently (e.g. a JSON number unmarshaled as float64 for an int
// field, or "true"/"false" strings for a bool field) via spf13/cast. An
// unrecognized key is a fatal Error - the job never silently ignores a
// typo'd option.
func Parse(raw map[string]any) (Config, error) {
	cfg := Default()

	for k := range raw {
		if _, ok := recognized[k]; !ok {
			return Config{}, &Error{Key: k, Err: fmt.Errorf("unrecognized config option")}
		}
	}

	if v, ok := raw["max_parallel_agents"]; ok {
		n, err := cast.ToIntE(v)
		if err != nil {
			return Config{}, &Error{Key: "max_parallel_agents", Err: err}
		}
		cfg.MaxParallelAgents = n
	}
	if v, ok := raw["max_iterations"]; ok {
		n, err := cast.ToIntE(v)
		if err != nil {
			return Config{}, &Error{Key: "max_iterations", Err: err}
		}
		cfg.MaxIterations = n
	}
	if v, ok := raw["refinement_threshold"]; ok {
		n, err := cast.ToIntE(v)
		if err != nil {
			return Config{}, &Error{Key: "refinement_threshold", Err: err}
		}
		cfg.RefinementThreshold = n
	}
	if v, ok := raw["enable_auto_refinement"]; ok {
		b, err := cast.ToBoolE(v)
		if err != nil {
			return Config{}, &Error{Key: "enable_auto_refinement", Err: err}
		}
		cfg.EnableAutoRefinement = b
	}
	if v, ok := raw["use_specialized_agents"]; ok {
		b, err := cast.ToBoolE(v)
		if err != nil {
			return Config{}, &Error{Key: "use_specialized_agents", Err: err}
		}
		cfg.UseSpecializedAgents = b
	}
	if v, ok := raw["retrieval_k"]; ok {
		n, err := cast.ToIntE(v)
		if err != nil {
			return Config{}, &Error{Key: "retrieval_k", Err: err}
		}
		cfg.RetrievalK = n
	}
	if v, ok := raw["llm_temperature"]; ok {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return Config{}, &Error{Key: "llm_temperature", Err: err}
		}
		cfg.LLMTemperature = f
	}
	if v, ok := raw["max_refinement_tokens"]; ok {
		n, err := cast.ToIntE(v)
		if err != nil {
			return Config{}, &Error{Key: "max_refinement_tokens", Err: err}
		}
		cfg.MaxRefinementTokens = n
	}
	if v, ok := raw["max_llm_calls_per_extraction"]; ok {
		n, err := cast.ToIntE(v)
		if err != nil {
			return Config{}, &Error{Key: "max_llm_calls_per_extraction", Err: err}
		}
		cfg.MaxLLMCallsPerExtraction = n
	}
	if v, ok := raw["field_overrides"]; ok {
		m, err := cast.ToStringMapStringE(v)
		if err != nil {
			return Config{}, &Error{Key: "field_overrides", Err: err}
		}
		cfg.FieldOverrides = m
	}

	return cfg, nil
}
