package depgraph

import "github.com/dod-acq/orchestrator/doctype"

// DefaultSpec is the canonical dependency configuration loaded at process
// start. Only one DependencySpec is ever loaded by a running engine;
// alternate configurations are supplied only via LoadYAML for tests or
// site-specific deployments.
func DefaultSpec() map[doctype.Type]Spec {
	return map[doctype.Type]Spec{
		doctype.SourcesSought:        {Priority: 1},
		doctype.MarketResearchReport: {Priority: 1},
		doctype.RFI:                  {DependsOn: []doctype.Type{doctype.SourcesSought}, Priority: 2},
		doctype.IGCE:                 {Priority: 1},
		doctype.AcquisitionPlan: {
			DependsOn:  []doctype.Type{doctype.IGCE, doctype.MarketResearchReport},
			Priority:   2,
			References: []string{"total_cost"},
		},
		doctype.AcquisitionStrategy: {DependsOn: []doctype.Type{doctype.AcquisitionPlan}, Priority: 3},
		doctype.PWS:                 {DependsOn: []doctype.Type{doctype.IGCE}, Priority: 2},
		doctype.SOW:                 {DependsOn: []doctype.Type{doctype.IGCE}, Priority: 2},
		doctype.SOO:                 {DependsOn: []doctype.Type{doctype.IGCE}, Priority: 2},
		doctype.QASP:                {DependsOn: []doctype.Type{doctype.PWS}, Priority: 3},
		doctype.SectionB:            {DependsOn: []doctype.Type{doctype.IGCE}, Priority: 3},
		doctype.SectionC:            {DependsOn: []doctype.Type{doctype.PWS}, Priority: 3},
		doctype.SectionL:            {DependsOn: []doctype.Type{doctype.PWS}, Priority: 3},
		doctype.SectionM:            {DependsOn: []doctype.Type{doctype.PWS, doctype.QASP}, Priority: 3},
		doctype.SF1449:              {DependsOn: []doctype.Type{doctype.SectionB, doctype.SectionC}, Priority: 4},
		doctype.SF33:                {DependsOn: []doctype.Type{doctype.SF1449}, Priority: 5},
		doctype.SF26:                {DependsOn: []doctype.Type{doctype.SF1449}, Priority: 5},
		doctype.SF18:                {Priority: 1},
		doctype.JustificationApproval: {DependsOn: []doctype.Type{doctype.AcquisitionPlan}, Priority: 3},
		doctype.SmallBusinessPlan:     {DependsOn: []doctype.Type{doctype.MarketResearchReport}, Priority: 2},
		doctype.RiskAssessment:        {DependsOn: []doctype.Type{doctype.AcquisitionPlan}, Priority: 3},
		doctype.SourceSelectionPlan:   {DependsOn: []doctype.Type{doctype.SectionM}, Priority: 4},
		doctype.EvaluationScorecard:   {DependsOn: []doctype.Type{doctype.SourceSelectionPlan}, Priority: 5},
		doctype.ProposalAnalysisReport: {DependsOn: []doctype.Type{doctype.EvaluationScorecard}, Priority: 6},
		doctype.CompetitiveRangeDeterm: {DependsOn: []doctype.Type{doctype.ProposalAnalysisReport}, Priority: 7},
		doctype.SourceSelectionDecisionDoc: {
			DependsOn: []doctype.Type{doctype.ProposalAnalysisReport, doctype.SourceSelectionPlan},
			Priority:  7,
		},
		doctype.AwardNotification: {DependsOn: []doctype.Type{doctype.SourceSelectionDecisionDoc}, Priority: 8},
		doctype.DebriefingMemo:    {DependsOn: []doctype.Type{doctype.SourceSelectionDecisionDoc}, Priority: 8},
		doctype.Amendment:         {DependsOn: []doctype.Type{doctype.SF1449}, Priority: 4},
		doctype.PPQ:               {DependsOn: []doctype.Type{doctype.AwardNotification}, Priority: 9},
		doctype.CDRL:              {DependsOn: []doctype.Type{doctype.PWS}, Priority: 3},
		doctype.COROrgConflictMemo: {DependsOn: []doctype.Type{doctype.AcquisitionPlan}, Priority: 3},
		doctype.TransitionPlan:     {DependsOn: []doctype.Type{doctype.AwardNotification}, Priority: 9},
	}
}
