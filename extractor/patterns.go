package extractor

import (
	"regexp"

	"github.com/dod-acq/orchestrator/doctype"
)

// commonFields are recognized across every DocumentType: a solicitation
// number, an estimated value, and a period of performance show up in
// nearly all retrieved chunks and upstream documents regardless of which
// artifact is being generated.
var commonFields = []fieldPattern{
	{
		field: "solicitation_number",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b([A-Z]\d{2}[A-Z0-9]{2,4}-\d{2}-[A-Z]-\d{4})\b`),
			regexp.MustCompile(`(?i)solicitation(?:\s+number)?[:\s]+([A-Z0-9-]{6,})`),
		},
	},
	{
		field: "estimated_value",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)estimated\s+(?:value|cost)[:\s]+(\$[\d,.]+\s*[KMB]?)`),
			regexp.MustCompile(`\$[\d,]+(?:\.\d+)?\s*[KMB]?`),
		},
		normalize: NormalizeMoney,
	},
	{
		field: "period_of_performance",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)period\s+of\s+performance[:\s]+([^\n.]+)`),
		},
	},
	{
		field: "ioc_date",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:initial\s+operating\s+capability|IOC)\s*(?:date)?[:\s]+([A-Za-z]+\s+\d{1,2},?\s*\d{4})`),
			regexp.MustCompile(`(?i)(?:initial\s+operating\s+capability|IOC)\s*(?:date)?[:\s]+([A-Za-z]+\s+\d{4})`),
		},
		normalize: NormalizeDate,
	},
}

var igceFields = []fieldPattern{
	{
		field: "total_cost",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)total\s+(?:estimated\s+)?cost[:\s]+(\$[\d,.]+\s*[KMB]?)`),
		},
		normalize: NormalizeMoney,
	},
	{
		field: "labor_rates",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)labor\s+rate[s]?[:\s]+([^\n]+)`),
		},
	},
}

var pwsFields = []fieldPattern{
	{
		field: "performance_requirements",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)performance\s+requirements?[:\s]+([^\n]+)`),
		},
	},
	{
		field: "place_of_performance",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)place\s+of\s+performance[:\s]+([^\n.]+)`),
		},
	},
}

var qaspFields = []fieldPattern{
	{
		field: "surveillance_method",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)surveillance\s+method[:\s]+([^\n]+)`),
		},
	},
	{
		field: "acceptable_quality_level",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)acceptable\s+quality\s+level[:\s]+([^\n]+)`),
		},
	},
}

// registerBuiltins wires one extractor per DocumentType that has a
// dedicated field table, each combining commonFields with its type-
// specific table; every other DocumentType still gets commonFields alone
// so the five-tier placeholder rule in agent.Agent always has *something*
// to try before falling back to a smart default or a TBD.
func registerBuiltins(l *Library) {
	withCommon := func(specific []fieldPattern) []fieldPattern {
		out := make([]fieldPattern, 0, len(commonFields)+len(specific))
		out = append(out, commonFields...)
		out = append(out, specific...)
		return out
	}

	tables := map[doctype.Type][]fieldPattern{
		doctype.IGCE: withCommon(igceFields),
		doctype.PWS:  withCommon(pwsFields),
		doctype.SOW:  withCommon(pwsFields),
		doctype.QASP: withCommon(qaspFields),
	}

	for _, t := range doctype.All() {
		table, ok := tables[t]
		if !ok {
			table = withCommon(nil)
		}
		l.Register(t, func(text string, fields []string) doctype.ExtractedData {
			return extractFromFields(text, table, fields)
		})
	}
}
