// Package citation implements the DoD-citation-compliance validator: a
// regex-and-rules scorer for FAR/DFARS/DoDI/USC/program-document citation
// formats, plus an "inject" mode the Agent execution skeleton uses to
// patch uncited factual claims.
package citation

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind identifies which DoD-approved citation family a match belongs to.
type Kind string

const (
	KindFAR        Kind = "FAR"
	KindDFARS      Kind = "DFARS"
	KindDoDI       Kind = "DoDI"
	KindUSC        Kind = "USC"
	KindProgramDoc Kind = "program_doc"
)

// Citation is one recognized citation occurrence within a document.
type Citation struct {
	Kind    Kind
	Text    string
	Start   int
	End     int
	// Complete is false when a required element is missing (e.g. a DoDI
	// citation with no parenthetical date).
	Complete bool
}

var patterns = []struct {
	kind     Kind
	re       *regexp.Regexp
	required []string // labels of required capture groups, for Complete
}{
	{KindFAR, regexp.MustCompile(`\bFAR\s+\d{1,3}\.\d{1,3}(?:-\d+)?(?:\.\d+)?\b`), nil},
	{KindDFARS, regexp.MustCompile(`\bDFARS\s+\d{3}\.\d{3}(?:-\d+)?\b`), nil},
	{KindDoDI, regexp.MustCompile(`\bDoDI\s+[\d.]+(?:,\s*[^(]+\(([^)]+)\))?`), []string{"date"}},
	{KindUSC, regexp.MustCompile(`\b\d{1,2}\s+U\.S\.C\.\s+§\s*\d+[a-z]?(?:\(\w+\))*\b`), nil},
	{KindProgramDoc, regexp.MustCompile(`\(([A-Z][\w\s]+),\s*([^)]+)\)`), []string{"title", "date"}},
}

// claimPatterns detect text shaped like a factual claim requiring a
// citation: monetary values, dates, counts, and regulatory assertions
// ("shall", "required by", "in accordance with").
var claimPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$[\d,]+(?:\.\d+)?`),
	regexp.MustCompile(`\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{4}\b`),
	regexp.MustCompile(`\b\d+\s+(?:users|seats|licenses|months|days|personnel)\b`),
	regexp.MustCompile(`\b(?:shall|must|is required by|in accordance with|per)\b`),
}

const citationProximityWindow = 120 // characters

// Validator scores a document's citation compliance.
type Validator struct{}

// NewValidator returns a ready-to-use Validator. It holds no state; the
// zero value is usable.
func NewValidator() *Validator { return &Validator{} }

// Find returns every recognized citation occurrence in text, in document
// order.
func (v *Validator) Find(text string) []Citation {
	var found []Citation
	for _, p := range patterns {
		locs := p.re.FindAllStringSubmatchIndex(text, -1)
		for _, loc := range locs {
			complete := true
			if len(loc) >= 4 {
				for gi := 1; gi < len(loc)/2; gi++ {
					if loc[2*gi] == -1 && gi-1 < len(p.required) {
						complete = false
					}
				}
			}
			found = append(found, Citation{
				Kind:     p.kind,
				Text:     text[loc[0]:loc[1]],
				Start:    loc[0],
				End:      loc[1],
				Complete: complete,
			})
		}
	}
	return found
}

// Score is the outcome of validating a document's citations.
type Score struct {
	// Compliance is the overall score in [0,100].
	Compliance float64
	Citations  []Citation
	// UncitedClaims lists claim-shaped substrings with no citation within
	// citationProximityWindow characters.
	UncitedClaims []string
	Issues        []string
}

// Validate scores text's citation compliance: penalizing missing
// citations on claim-shaped text, incomplete citations, and citations
// placed far from the claim they support.
func (v *Validator) Validate(text string) Score {
	citations := v.Find(text)
	score := 100.0
	var issues []string

	for _, c := range citations {
		if !c.Complete {
			score -= 10
			issues = append(issues, fmt.Sprintf("%s citation %q is missing a required element", c.Kind, c.Text))
		}
	}

	var uncited []string
	for _, cp := range claimPatterns {
		for _, loc := range cp.FindAllStringIndex(text, -1) {
			if nearestCitationDistance(citations, loc[0], loc[1]) > citationProximityWindow {
				claim := text[loc[0]:loc[1]]
				uncited = append(uncited, claim)
				score -= 8
			}
		}
	}
	if len(uncited) > 0 {
		issues = append(issues, fmt.Sprintf("%d factual claim(s) lack a nearby citation", len(uncited)))
	}

	if score < 0 {
		score = 0
	}
	return Score{Compliance: score, Citations: citations, UncitedClaims: uncited, Issues: issues}
}

func nearestCitationDistance(citations []Citation, start, end int) int {
	best := 1 << 30
	for _, c := range citations {
		d := 0
		switch {
		case c.End <= start:
			d = start - c.End
		case c.Start >= end:
			d = c.Start - end
		default:
			d = 0 // overlapping
		}
		if d < best {
			best = d
		}
	}
	return best
}

// InjectionCandidates returns the claim-shaped substrings in text that lack
// a nearby citation, for the Agent's "inject" mode:
// the agent re-prompts the model once per candidate (or in one batched
// call) asking it to rewrite the claim with an appropriate citation.
func (v *Validator) InjectionCandidates(text string) []string {
	return v.Validate(text).UncitedClaims
}

// FormatHint describes, for a given Kind, the exact textual format an
// agent's citation-injection prompt should request - used to keep the
// LLM-facing instruction and the regex patterns above in lockstep.
func FormatHint(k Kind) string {
	switch k {
	case KindFAR:
		return "FAR <Part>.<Subpart>.<Section>, e.g. FAR 10.001"
	case KindDFARS:
		return "DFARS <Part>.<Subpart>.<Section>, e.g. DFARS 252.225-7001"
	case KindDoDI:
		return "DoDI <Number>, <Title> (<Date>), e.g. DoDI 5000.85, Major Capability Acquisition (August 6, 2020)"
	case KindUSC:
		return "<Title> U.S.C. § <Section>, e.g. 10 U.S.C. § 3201"
	default:
		return "(<Document Name>, <Date>), e.g. (Budget Specification, FY2025)"
	}
}

// AllFormatHints returns FormatHint for every Kind, in a stable order, for
// building a single consolidated prompt instruction.
func AllFormatHints() string {
	kinds := []Kind{KindFAR, KindDFARS, KindDoDI, KindUSC, KindProgramDoc}
	hints := make([]string, len(kinds))
	for i, k := range kinds {
		hints[i] = "- " + FormatHint(k)
	}
	return strings.Join(hints, "\n")
}
