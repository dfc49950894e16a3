package agent

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dod-acq/orchestrator/doctype"
)

var placeholderRe = regexp.MustCompile(`\{\{([a-zA-Z_][a-zA-Z0-9_]*)\}\}`)

// scaffoldFields returns every distinct {{field}} placeholder name in tmpl,
// in first-occurrence order.
func scaffoldFields(tmpl string) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range placeholderRe.FindAllStringSubmatch(tmpl, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}

// fillResult is the outcome of running the five-tier value-selection rule
// over one template.
type fillResult struct {
	scaffold string
	tbdCount int
	// tiersUsed maps each field to which tier supplied its value (1-5), for
	// diagnostics and tests.
	tiersUsed map[string]int
}

// populateScaffold fills every {{field}} hole in tmpl following the
// five-tier priority order: explicit config override, upstream
// extracted_data, rag_context extraction, a spec-declared smart default,
// or a descriptive TBD.
func populateScaffold(tmpl string, fields []string, overrides map[string]string, upstream, rag doctype.ExtractedData, smartDefaults map[string]func() string) fillResult {
	res := fillResult{tiersUsed: make(map[string]int, len(fields))}

	values := make(map[string]string, len(fields))
	for _, f := range fields {
		if v, ok := overrides[f]; ok && v != "" {
			values[f] = v
			res.tiersUsed[f] = 1
			continue
		}
		if v, ok := upstream[f]; ok && v != "" {
			values[f] = v
			res.tiersUsed[f] = 2
			continue
		}
		if v, ok := rag[f]; ok && v != "" {
			values[f] = v
			res.tiersUsed[f] = 3
			continue
		}
		if gen, ok := smartDefaults[f]; ok {
			if v := gen(); v != "" {
				values[f] = v + " _(smart default - verify before release)_"
				res.tiersUsed[f] = 4
				continue
			}
		}
		values[f] = fmt.Sprintf("TBD - no source, upstream reference, or default available for %q", f)
		res.tiersUsed[f] = 5
		res.tbdCount++
	}

	res.scaffold = placeholderRe.ReplaceAllStringFunc(tmpl, func(tok string) string {
		name := placeholderRe.FindStringSubmatch(tok)[1]
		if v, ok := values[name]; ok {
			return v
		}
		return tok
	})
	return res
}

var residualPlaceholderRe = regexp.MustCompile(`\{\{[^{}]*\}\}`)

// sanitizeTokens replaces any {{...}} token remaining in content - whether
// left over from the scaffold or reintroduced by a model completion - with
// a descriptive TBD, guaranteeing the "zero remaining template tokens"
// invariant regardless of what the language model returns.
func sanitizeTokens(content string) (string, int) {
	extra := 0
	out := residualPlaceholderRe.ReplaceAllStringFunc(content, func(tok string) string {
		extra++
		return "TBD - unresolved template token " + strings.Trim(tok, "{}")
	})
	return out, extra
}
