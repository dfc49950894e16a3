// Package extractor implements the ExtractorLibrary: a
// registry of per-DocumentType regex (and, as a rate-limited fallback,
// LLM-assisted) extraction functions that pull structured fields out of
// free text.
package extractor

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"

	"github.com/dod-acq/orchestrator/doctype"
	"github.com/dod-acq/orchestrator/llm"
)

// Func extracts whatever fields it can find in text and returns the subset
// it was able to fill. A Func never panics or returns an error: the documented
// failure semantics require the caller always receive a
// present-but-possibly-empty map.
type Func func(text string, fields []string) doctype.ExtractedData

// fieldPattern is one candidate regex for a single field, tried in
// priority order; the first match wins.
type fieldPattern struct {
	field    string
	patterns []*regexp.Regexp
	normalize func(string) string
}

// Library is the registry of per-DocumentType extraction functions, plus a
// shared, rate-limited LLM fallback for fields no regex pattern matched.
type Library struct {
	mu         sync.RWMutex
	extractors map[doctype.Type]Func
	fallback   *llmFallback
}

// NewLibrary returns a Library pre-populated with the built-in regex
// extractors for every DocumentType that has one (see patterns.go), plus
// an LLM fallback bounded to maxLLMCallsPerExtraction calls (model may be
// nil to disable the fallback entirely).
func NewLibrary(model llm.Model, maxLLMCallsPerExtraction int) *Library {
	l := &Library{
		extractors: make(map[doctype.Type]Func),
		fallback:   newLLMFallback(model, maxLLMCallsPerExtraction),
	}
	registerBuiltins(l)
	return l
}

// Register adds or replaces the extraction function for t.
func (l *Library) Register(t doctype.Type, fn Func) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.extractors[t] = fn
}

// Extract runs t's registered Func (if any) over text for the requested
// fields, then - for any field still missing - issues at most one
// rate-limited LLM fallback call per field. It never returns an error;
// fields that could not be determined are simply absent from the result
// - a missing field is absent, never an error.
func (l *Library) Extract(ctx context.Context, t doctype.Type, text string, fields []string) doctype.ExtractedData {
	l.mu.RLock()
	fn := l.extractors[t]
	l.mu.RUnlock()

	var result doctype.ExtractedData
	if fn != nil {
		result = fn(text, fields)
	} else {
		result = make(doctype.ExtractedData)
	}

	missing := lo.Filter(fields, func(f string, _ int) bool {
		_, ok := result[f]
		return !ok
	})
	if len(missing) == 0 || l.fallback == nil {
		return result
	}

	for _, f := range missing {
		if v, ok := l.fallback.extract(ctx, text, f); ok {
			result[f] = v
		}
	}
	return result
}

// extractFromFields runs a field-pattern table (used by the built-in
// per-type extractors in patterns.go) against text, returning every field
// whose first-matching pattern succeeded.
func extractFromFields(text string, table []fieldPattern, wanted []string) doctype.ExtractedData {
	want := lo.SliceToMap(wanted, func(f string) (string, struct{}) { return f, struct{}{} })
	out := make(doctype.ExtractedData)
	for _, fp := range table {
		if len(wanted) > 0 {
			if _, ok := want[fp.field]; !ok {
				continue
			}
		}
		for _, re := range fp.patterns {
			m := re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			val := m[0]
			if len(m) > 1 {
				val = m[1]
			}
			if fp.normalize != nil {
				val = fp.normalize(val)
			}
			out[fp.field] = val
			break
		}
	}
	return out
}

// --- normalization helpers ---

var moneyShorthand = regexp.MustCompile(`(?i)^\$?([\d,.]+)\s*([kmb])?$`)

// NormalizeMoney turns shorthand like "$2.5M" into "$2,500,000". Values
// already in long form pass through with thousands separators inserted.
func NormalizeMoney(raw string) string {
	m := moneyShorthand.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return raw
	}
	numStr := strings.ReplaceAll(m[1], ",", "")
	num, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return raw
	}
	switch strings.ToLower(m[2]) {
	case "k":
		num *= 1_000
	case "m":
		num *= 1_000_000
	case "b":
		num *= 1_000_000_000
	}
	return "$" + commaSeparate(int64(num))
}

func commaSeparate(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

var percentRe = regexp.MustCompile(`^\s*([\d.]+)\s*%?\s*$`)

// NormalizePercent preserves percentages as strings with a trailing "%".
func NormalizePercent(raw string) string {
	m := percentRe.FindStringSubmatch(raw)
	if m == nil {
		return raw
	}
	return m[1] + "%"
}

var monthYearRe = regexp.MustCompile(`(?i)^(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{4})$`)
var monthDayYearRe = regexp.MustCompile(`(?i)^(january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2},?\s+(\d{4})$`)

// NormalizeDate reduces a month-day-year date to "Month YYYY" when only
// month precision is meaningfully present; a bare "Month YYYY" input
// passes through unchanged.
func NormalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if m := monthYearRe.FindStringSubmatch(raw); m != nil {
		return strings.Title(strings.ToLower(m[1])) + " " + m[2]
	}
	if m := monthDayYearRe.FindStringSubmatch(raw); m != nil {
		return strings.Title(strings.ToLower(m[1])) + " " + m[2]
	}
	return raw
}

// parseJSONOrNull parses the LLM fallback's documented "return JSON or
// null" completion shape, extracting a single scalar value at key "value".
func parseJSONOrNull(completion string) (string, bool) {
	completion = strings.TrimSpace(completion)
	if completion == "" || completion == "null" {
		return "", false
	}
	if !gjson.Valid(completion) {
		return "", false
	}
	result := gjson.Parse(completion)
	if result.Type == gjson.Null {
		return "", false
	}
	if result.IsObject() {
		v := result.Get("value")
		if !v.Exists() || v.Type == gjson.Null {
			return "", false
		}
		return v.String(), true
	}
	return result.String(), true
}
