package agent

import (
	"fmt"

	"github.com/dod-acq/orchestrator/doctype"
)

var commonFields = []string{"solicitation_number", "estimated_value", "period_of_performance", "ioc_date"}

func withFields(extra ...string) []string {
	return append(append([]string{}, commonFields...), extra...)
}

func queries(programTerm string, extra ...string) []string {
	base := []string{
		fmt.Sprintf("%s requirements for {{.ProgramName}}", programTerm),
		fmt.Sprintf("%s regulatory guidance and citation sources", programTerm),
		fmt.Sprintf("prior %s examples for similar DoD programs", programTerm),
	}
	return append(base, extra...)
}

// BuildSpecs returns every concrete agent declaration this engine ships
// with. use_specialized_agents=false (acqconfig.Config) bypasses this
// registry entirely in favor of a single generic fallback Spec.
func BuildSpecs() map[doctype.Type]Spec {
	specs := map[doctype.Type]Spec{
		doctype.SourcesSought: {
			Type:    doctype.SourcesSought,
			Queries: queries("market research sources sought"),
			Fields:  withFields("naics_code", "response_due_date"),
			Template: "# Sources Sought Notice - {{solicitation_number}}\n\n" +
				"## Purpose\nThis notice is market research conducted under FAR Part 10 for a requirement with " +
				"an estimated value of {{estimated_value}} and a period of performance of {{period_of_performance}}.\n\n" +
				"## NAICS Code\n{{naics_code}}\n\n## Response Due Date\n{{response_due_date}}\n",
		},
		doctype.RFI: {
			Type:         doctype.RFI,
			Dependencies: []doctype.Type{doctype.SourcesSought},
			Queries:      queries("request for information"),
			Fields:       withFields("response_due_date"),
			Template: "# Request for Information - {{solicitation_number}}\n\n" +
				"Estimated value: {{estimated_value}}. Period of performance: {{period_of_performance}}.\n\n" +
				"Responses are due by {{response_due_date}}.\n",
		},
		doctype.MarketResearchReport: {
			Type:    doctype.MarketResearchReport,
			Queries: queries("market research report"),
			Fields:  withFields("vendor_count", "small_business_capable"),
			Template: "# Market Research Report\n\n## Scope\nConducted under FAR 10.001 for a requirement " +
				"valued at {{estimated_value}} with IOC target {{ioc_date}}.\n\n" +
				"## Vendor Landscape\nIdentified vendors: {{vendor_count}}.\n\n" +
				"## Small Business Capability\n{{small_business_capable}}\n",
		},
		doctype.IGCE: {
			Type:    doctype.IGCE,
			Queries: queries("independent government cost estimate"),
			Fields:  withFields("total_cost", "labor_rates", "labor_categories", "hardware_table", "software_table", "cloud_table", "travel_table", "training_table", "risk_table", "contract_type"),
			SmartDefaults: igceDefaults,
			Template: "# Independent Government Cost Estimate (IGCE) - {{solicitation_number}}\n\n" +
				"## Basis of Estimate\nContract type: {{contract_type}}. Period of performance: {{period_of_performance}}.\n\n" +
				"## Labor Rates\n{{labor_rates}}\n\n## Labor Categories (WBS)\n{{labor_categories}}\n\n" +
				"## Hardware\n{{hardware_table}}\n\n## Software\n{{software_table}}\n\n## Cloud Infrastructure\n{{cloud_table}}\n\n" +
				"## Travel\n{{travel_table}}\n\n## Training\n{{training_table}}\n\n## Risk\n{{risk_table}}\n\n" +
				"## Total Estimated Cost\n{{total_cost}}\n",
		},
		doctype.AcquisitionPlan: {
			Type:            doctype.AcquisitionPlan,
			Dependencies:    []doctype.Type{doctype.IGCE, doctype.MarketResearchReport},
			Queries:         queries("acquisition plan"),
			Fields:          withFields("total_cost", "acquisition_approach"),
			ReferenceLabels: []string{"total_cost"},
			Template: "# Acquisition Plan - {{solicitation_number}}\n\n" +
				"## Background\nEstimated value {{estimated_value}}, period of performance {{period_of_performance}}.\n\n" +
				"## Acquisition Approach\n{{acquisition_approach}}\n\n" +
				"## Cost Basis\nThis plan is conditioned on the IGCE's total estimated cost of {{total_cost}}.\n",
		},
		doctype.AcquisitionStrategy: {
			Type:         doctype.AcquisitionStrategy,
			Dependencies: []doctype.Type{doctype.AcquisitionPlan},
			Queries:      queries("acquisition strategy"),
			Fields:       withFields("competition_strategy"),
			Template:     "# Acquisition Strategy\n\n## Competition Strategy\n{{competition_strategy}}\n\n## Estimated Value\n{{estimated_value}}\n",
		},
		doctype.PWS: {
			Type:         doctype.PWS,
			Dependencies: []doctype.Type{doctype.IGCE},
			Queries:      queries("performance work statement"),
			Fields:       withFields("performance_requirements", "place_of_performance", "deliverable"),
			Template: "# Performance Work Statement (PWS) - {{solicitation_number}}\n\n" +
				"## Period of Performance\n{{period_of_performance}}\n\n## Place of Performance\n{{place_of_performance}}\n\n" +
				"## Performance Requirements\n{{performance_requirements}}\n\n## Deliverables\n{{deliverable}}\n",
		},
		doctype.SOW: {
			Type:         doctype.SOW,
			Dependencies: []doctype.Type{doctype.IGCE},
			Queries:      queries("statement of work"),
			Fields:       withFields("performance_requirements", "deliverable"),
			Template: "# Statement of Work (SOW) - {{solicitation_number}}\n\n" +
				"## Period of Performance\n{{period_of_performance}}\n\n## Tasks\n{{performance_requirements}}\n\n" +
				"## Deliverables\n{{deliverable}}\n",
		},
		doctype.SOO: {
			Type:         doctype.SOO,
			Dependencies: []doctype.Type{doctype.IGCE},
			Queries:      queries("statement of objectives"),
			Fields:       withFields("objectives"),
			Template:     "# Statement of Objectives (SOO)\n\n## Objectives\n{{objectives}}\n\n## Estimated Value\n{{estimated_value}}\n",
		},
		doctype.QASP: {
			Type:         doctype.QASP,
			Dependencies: []doctype.Type{doctype.PWS},
			Queries:      queries("quality assurance surveillance plan"),
			Fields:       withFields("surveillance_method", "acceptable_quality_level"),
			Template: "# Quality Assurance Surveillance Plan (QASP)\n\n" +
				"## Surveillance Method\n{{surveillance_method}}\n\n## Acceptable Quality Level\n{{acceptable_quality_level}}\n",
		},
		doctype.SectionB: {
			Type:         doctype.SectionB,
			Dependencies: []doctype.Type{doctype.IGCE},
			Queries:      queries("solicitation section B supplies and prices"),
			Fields:       withFields("total_cost"),
			Template:     "# Section B - Supplies or Services and Prices\n\n## Estimated Total\n{{total_cost}}\n",
		},
		doctype.SectionC: {
			Type:         doctype.SectionC,
			Dependencies: []doctype.Type{doctype.PWS},
			Queries:      queries("solicitation section C statement of work reference"),
			Fields:       withFields("performance_requirements"),
			Template:     "# Section C - Description/Specifications/Statement of Work\n\n{{performance_requirements}}\n",
		},
		doctype.SectionL: {
			Type:         doctype.SectionL,
			Dependencies: []doctype.Type{doctype.PWS},
			Queries:      queries("solicitation section L instructions to offerors"),
			Fields:       withFields("proposal_volume_structure"),
			Template:     "# Section L - Instructions to Offerors\n\n## Proposal Structure\n{{proposal_volume_structure}}\n",
		},
		doctype.SectionM: {
			Type:         doctype.SectionM,
			Dependencies: []doctype.Type{doctype.PWS, doctype.QASP},
			Queries:      queries("solicitation section M evaluation factors for award"),
			Fields:       withFields("evaluation_factors"),
			Template:     "# Section M - Evaluation Factors for Award\n\n## Factors\n{{evaluation_factors}}\n",
		},
		doctype.SF1449: {
			Type:         doctype.SF1449,
			Dependencies: []doctype.Type{doctype.SectionB, doctype.SectionC},
			Queries:      queries("SF1449 solicitation cover sheet"),
			Fields:       withFields("total_cost"),
			Template:     "# SF 1449 - Solicitation/Contract/Order for Commercial Products and Services\n\nTotal: {{total_cost}}\n",
		},
		doctype.SF33: {
			Type:         doctype.SF33,
			Dependencies: []doctype.Type{doctype.SF1449},
			Queries:      queries("SF33 solicitation offer and award"),
			Fields:       commonFields,
			Template:     "# SF 33 - Solicitation, Offer and Award\n\nSolicitation: {{solicitation_number}}\n",
		},
		doctype.SF26: {
			Type:         doctype.SF26,
			Dependencies: []doctype.Type{doctype.SF1449},
			Queries:      queries("SF26 award/contract form"),
			Fields:       commonFields,
			Template:     "# SF 26 - Award/Contract\n\nSolicitation: {{solicitation_number}}\n",
		},
		doctype.SF18: {
			Type:     doctype.SF18,
			Queries:  queries("SF18 request for quotations"),
			Fields:   commonFields,
			Template: "# SF 18 - Request for Quotations\n\nEstimated value: {{estimated_value}}\n",
		},
		doctype.JustificationApproval: {
			Type:         doctype.JustificationApproval,
			Dependencies: []doctype.Type{doctype.AcquisitionPlan},
			Queries:      queries("justification and approval for other than full and open competition"),
			Fields:       withFields("authority_cited"),
			Template:     "# Justification & Approval (J&A)\n\n## Statutory Authority\n{{authority_cited}}\n",
		},
		doctype.SmallBusinessPlan: {
			Type:         doctype.SmallBusinessPlan,
			Dependencies: []doctype.Type{doctype.MarketResearchReport},
			Queries:      queries("small business subcontracting plan"),
			Fields:       withFields("small_business_capable"),
			Template:     "# Small Business Participation Plan\n\n{{small_business_capable}}\n",
		},
		doctype.RiskAssessment: {
			Type:         doctype.RiskAssessment,
			Dependencies: []doctype.Type{doctype.AcquisitionPlan},
			Queries:      queries("program risk assessment"),
			Fields:       withFields("risk_table"),
			SmartDefaults: igceDefaults,
			Template:      "# Risk Assessment\n\n{{risk_table}}\n",
		},
		doctype.SourceSelectionPlan: {
			Type:         doctype.SourceSelectionPlan,
			Dependencies: []doctype.Type{doctype.SectionM},
			Queries:      queries("source selection plan"),
			Fields:       withFields("evaluation_factors"),
			Template:     "# Source Selection Plan (SSP)\n\n## Evaluation Factors\n{{evaluation_factors}}\n",
		},
		doctype.EvaluationScorecard: {
			Type:         doctype.EvaluationScorecard,
			Dependencies: []doctype.Type{doctype.SourceSelectionPlan},
			Queries:      queries("proposal evaluation scorecard"),
			Fields:       withFields("evaluation_factors"),
			Template:     "# Evaluation Scorecard\n\n## Factors Scored\n{{evaluation_factors}}\n",
		},
		doctype.ProposalAnalysisReport: {
			Type:         doctype.ProposalAnalysisReport,
			Dependencies: []doctype.Type{doctype.EvaluationScorecard},
			Queries:      queries("proposal analysis report"),
			Fields:       withFields("evaluation_factors"),
			Template:     "# Proposal Analysis Report (PAR)\n\n{{evaluation_factors}}\n",
		},
		doctype.CompetitiveRangeDeterm: {
			Type:         doctype.CompetitiveRangeDeterm,
			Dependencies: []doctype.Type{doctype.ProposalAnalysisReport},
			Queries:      queries("competitive range determination"),
			Fields:       commonFields,
			Template:     "# Competitive Range Determination\n\nSolicitation: {{solicitation_number}}\n",
		},
		doctype.SourceSelectionDecisionDoc: {
			Type:         doctype.SourceSelectionDecisionDoc,
			Dependencies: []doctype.Type{doctype.ProposalAnalysisReport, doctype.SourceSelectionPlan},
			Queries:      queries("source selection decision document"),
			Fields:       commonFields,
			Template:     "# Source Selection Decision Document (SSDD)\n\nSolicitation: {{solicitation_number}}\n",
		},
		doctype.AwardNotification: {
			Type:         doctype.AwardNotification,
			Dependencies: []doctype.Type{doctype.SourceSelectionDecisionDoc},
			Queries:      queries("contract award notification"),
			Fields:       withFields("total_cost"),
			Template:     "# Award Notification\n\nAwarded value: {{total_cost}}\n",
		},
		doctype.DebriefingMemo: {
			Type:         doctype.DebriefingMemo,
			Dependencies: []doctype.Type{doctype.SourceSelectionDecisionDoc},
			Queries:      queries("unsuccessful offeror debriefing memorandum"),
			Fields:       commonFields,
			Template:     "# Debriefing Memorandum\n\nSolicitation: {{solicitation_number}}\n",
		},
		doctype.Amendment: {
			Type:         doctype.Amendment,
			Dependencies: []doctype.Type{doctype.SF1449},
			Queries:      queries("solicitation amendment"),
			Fields:       commonFields,
			Template:     "# Amendment of Solicitation - {{solicitation_number}}\n",
		},
		doctype.PPQ: {
			Type:         doctype.PPQ,
			Dependencies: []doctype.Type{doctype.AwardNotification},
			Queries:      queries("past performance questionnaire"),
			Fields:       commonFields,
			Template:     "# Past Performance Questionnaire (PPQ)\n\nSolicitation: {{solicitation_number}}\n",
		},
		doctype.CDRL: {
			Type:         doctype.CDRL,
			Dependencies: []doctype.Type{doctype.PWS},
			Queries:      queries("contract data requirements list"),
			Fields:       withFields("deliverable"),
			Template:     "# Contract Data Requirements List (CDRL)\n\n## Deliverables\n{{deliverable}}\n",
		},
		doctype.COROrgConflictMemo: {
			Type:         doctype.COROrgConflictMemo,
			Dependencies: []doctype.Type{doctype.AcquisitionPlan},
			Queries:      queries("organizational conflict of interest mitigation plan"),
			Fields:       commonFields,
			Template:     "# Organizational Conflict of Interest (OCI) Mitigation Plan\n\nSolicitation: {{solicitation_number}}\n",
		},
		doctype.TransitionPlan: {
			Type:         doctype.TransitionPlan,
			Dependencies: []doctype.Type{doctype.AwardNotification},
			Queries:      queries("incumbent transition plan"),
			Fields:       withFields("period_of_performance"),
			Template:     "# Transition Plan\n\nTransition window within {{period_of_performance}}\n",
		},
	}
	return specs
}

// GenericSpec is the single fallback agent used when
// acqconfig.Config.UseSpecializedAgents is false: one undifferentiated
// template per DocumentType, still populated via the same five-tier rule.
func GenericSpec(t doctype.Type) Spec {
	return Spec{
		Type:    t,
		Queries: queries(string(t)),
		Fields:  commonFields,
		Template: fmt.Sprintf("# %s\n\nSolicitation: {{solicitation_number}}\nEstimated value: {{estimated_value}}\n"+
			"Period of performance: {{period_of_performance}}\nIOC date: {{ioc_date}}\n", t),
	}
}
