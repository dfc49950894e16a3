package agent

import (
	"fmt"

	"github.com/spf13/cast"

	"github.com/dod-acq/orchestrator/doctype"
)

// igceDefaults builds the IGCE agent's smart-default table generators,
// each parameterized by the job's ProjectInfo (user_count, period_of_
// performance, contract_type). Every generated table is a markdown table
// and is always appended with the "smart default" label by
// populateScaffold, never presented as an authoritative fact.
func igceDefaults(info doctype.ProjectInfo) map[string]func() string {
	userCount := cast.ToInt(info["user_count"])
	if userCount <= 0 {
		userCount = 50
	}
	pop := cast.ToString(info["period_of_performance"])
	if pop == "" {
		pop = "12 months base + 4 one-year options"
	}
	contractType := cast.ToString(info["contract_type"])
	if contractType == "" {
		contractType = "Firm-Fixed-Price"
	}

	return map[string]func() string{
		"labor_rates": func() string {
			return "| Labor Category | Education/Experience | Rate | Source |\n" +
				"|---|---|---|---|\n" +
				"| Senior Systems Engineer | MS+10yr | $175/hr | GSA CALC Schedule |\n" +
				"| Systems Engineer | BS+5yr | $135/hr | GSA CALC Schedule |\n" +
				"| Program Manager | MS+8yr | $165/hr | GSA CALC Schedule |"
		},
		"labor_categories": func() string {
			return "| WBS Element | Labor Category | Hours |\n" +
				"|---|---|---|\n" +
				"| 1.0 Program Management | Program Manager | 2,080 |\n" +
				"| 2.0 Systems Engineering | Senior Systems Engineer | 4,160 |"
		},
		"hardware_table": func() string {
			return fmt.Sprintf("| Item | Qty | Unit Cost | Extended |\n|---|---|---|---|\n| Workstation | %d | $1,800 | $%d |",
				userCount, userCount*1800)
		},
		"software_table": func() string {
			return fmt.Sprintf("| License | Seats | Unit Cost/yr | Extended |\n|---|---|---|---|\n| Productivity Suite | %d | $240 | $%d |",
				userCount, userCount*240)
		},
		"cloud_table": func() string {
			return fmt.Sprintf("| Service | Tier | Est. Monthly | Basis |\n|---|---|---|---|\n| Compute | Standard, sized for %d users | $%d | vendor published rate card |",
				userCount, userCount*12)
		},
		"travel_table": func() string {
			return "| Purpose | Trips/yr | Est. Cost | Basis |\n|---|---|---|---|\n| Program reviews | 4 | $2,400 | JTR per-diem + airfare average |"
		},
		"training_table": func() string {
			return "| Course | Attendees | Est. Cost | Basis |\n|---|---|---|---|\n| Tool onboarding | 5 | $3,500 | vendor quote average |"
		},
		"risk_table": func() string {
			return "| Risk | Likelihood | Impact | Mitigation |\n|---|---|---|---|\n| Schedule slip | Medium | Medium | phased delivery, buffer in option periods |"
		},
		"period_of_performance": func() string { return pop },
		"contract_type":          func() string { return contractType },
	}
}

// noSmartDefaults is the empty generator set for agents without
// type-specific defaults; every field falls through to a TBD if not
// resolved by an earlier tier.
func noSmartDefaults() map[string]func() string { return map[string]func() string{} }
