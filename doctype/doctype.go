// Package doctype defines the closed enumeration of DoD acquisition document
// kinds the system can produce, and the document/job data model that flows
// between the Retriever, ExtractorLibrary, ContextPool, MetadataStore, Agent,
// and Orchestrator components.
package doctype

// Type is a closed enumeration of procurement artifact kinds. Unlike a bare
// string, Type gives the DependencyGraph and Agent registries a comparable,
// exhaustively-switchable key so that "unknown document type" is a load-time
// ConfigError rather than a runtime surprise.
type Type string

const (
	SourcesSought        Type = "sources_sought"
	RFI                  Type = "rfi"
	MarketResearchReport Type = "market_research_report"
	AcquisitionPlan      Type = "acquisition_plan"
	IGCE                 Type = "igce"
	PWS                  Type = "pws"
	SOW                  Type = "sow"
	SOO                  Type = "soo"
	QASP                 Type = "qasp"
	SectionB             Type = "section_b"
	SectionC             Type = "section_c"
	SectionL             Type = "section_l"
	SectionM             Type = "section_m"
	SF33                 Type = "sf33"
	SF26                 Type = "sf26"
	SF18                 Type = "sf18"
	SF1449               Type = "sf1449"
	JustificationApproval Type = "justification_approval"
	SmallBusinessPlan    Type = "small_business_plan"
	AcquisitionStrategy  Type = "acquisition_strategy"
	RiskAssessment       Type = "risk_assessment"
	SourceSelectionPlan  Type = "ssp"
	SourceSelectionDecisionDoc Type = "ssdd"
	EvaluationScorecard  Type = "evaluation_scorecard"
	ProposalAnalysisReport Type = "proposal_analysis_report"
	CompetitiveRangeDeterm Type = "competitive_range_determination"
	AwardNotification    Type = "award_notification"
	DebriefingMemo       Type = "debriefing_memo"
	Amendment            Type = "amendment"
	PPQ                  Type = "ppq"
	CDRL                 Type = "cdrl"
	COROrgConflictMemo   Type = "oci_mitigation_plan"
	TransitionPlan       Type = "transition_plan"
)

// All enumerates every recognized DocumentType in a stable, deterministic
// order. Used by config loaders to validate that a DependencySpec names only
// known types, and by tests that fuzz random selections.
func All() []Type {
	return []Type{
		SourcesSought, RFI, MarketResearchReport, AcquisitionPlan, IGCE,
		PWS, SOW, SOO, QASP,
		SectionB, SectionC, SectionL, SectionM,
		SF33, SF26, SF18, SF1449,
		JustificationApproval, SmallBusinessPlan, AcquisitionStrategy,
		RiskAssessment, SourceSelectionPlan, SourceSelectionDecisionDoc,
		EvaluationScorecard, ProposalAnalysisReport, CompetitiveRangeDeterm,
		AwardNotification, DebriefingMemo, Amendment, PPQ, CDRL,
		COROrgConflictMemo, TransitionPlan,
	}
}

// Known reports whether t is one of the closed enumeration's recognized
// values.
func Known(t Type) bool {
	for _, known := range All() {
		if known == t {
			return true
		}
	}
	return false
}

func (t Type) String() string {
	return string(t)
}
