package extractor

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dod-acq/orchestrator/doctype"
	"github.com/dod-acq/orchestrator/internal/testkit"
	"github.com/dod-acq/orchestrator/llm"
)

func TestExtract_IGCERegexFieldsFromText(t *testing.T) {
	lib := NewLibrary(nil, 20)
	text := "Solicitation Number: W912DY-26-R-0042. Total estimated cost: $2.5M. " +
		"Labor rates: senior engineer $185/hr, junior engineer $95/hr."

	got := lib.Extract(context.Background(), doctype.IGCE, text, []string{"solicitation_number", "total_cost", "labor_rates"})

	assert.Equal(t, "W912DY-26-R-0042", got["solicitation_number"])
	assert.Equal(t, "$2,500,000", got["total_cost"])
	assert.Contains(t, got["labor_rates"], "senior engineer")
}

func TestExtract_UnknownFieldsAreAbsentNotError(t *testing.T) {
	lib := NewLibrary(nil, 20)
	got := lib.Extract(context.Background(), doctype.IGCE, "no useful content here", []string{"total_cost"})
	_, ok := got["total_cost"]
	assert.False(t, ok)
}

func TestExtract_TypeWithoutDedicatedTableStillGetsCommonFields(t *testing.T) {
	lib := NewLibrary(nil, 20)
	text := "Estimated value: $500,000. Period of performance: 12 months from award."
	got := lib.Extract(context.Background(), doctype.AwardNotification, text, []string{"estimated_value", "period_of_performance"})

	assert.Equal(t, "$500,000", got["estimated_value"])
	assert.Contains(t, got["period_of_performance"], "12 months")
}

func TestExtract_FallsBackToLLMForMissingField(t *testing.T) {
	model := testkit.NewScriptedModel()
	prompt := fmt.Sprintf(
		"Extract the value of %q from the following text. "+
			`Return a JSON object of the form {"value": "..."} if found, or the bare word null if not found.`+
			"\n\nText:\n%s", "vendor_count", "seven vendors responded to the sources sought notice")
	model.Scripts[prompt] = []string{`{"value": "7"}`}

	lib := NewLibrary(model, 20)
	got := lib.Extract(context.Background(), doctype.MarketResearchReport, "seven vendors responded to the sources sought notice", []string{"vendor_count"})
	assert.Equal(t, "7", got["vendor_count"])
}

func TestExtract_LLMFallbackReturningNullLeavesFieldAbsent(t *testing.T) {
	model := testkit.NewScriptedModel()
	model.Scripts[fmt.Sprintf(
		"Extract the value of %q from the following text. "+
			`Return a JSON object of the form {"value": "..."} if found, or the bare word null if not found.`+
			"\n\nText:\n%s", "vendor_count", "irrelevant text")] = []string{"null"}

	lib := NewLibrary(model, 20)
	got := lib.Extract(context.Background(), doctype.MarketResearchReport, "irrelevant text", []string{"vendor_count"})
	_, ok := got["vendor_count"]
	assert.False(t, ok)
}

func TestExtract_LLMFallbackIsRateLimitedAcrossCalls(t *testing.T) {
	model := testkit.NewScriptedModel()
	// Every fallback call hits the same key regardless of which field is
	// being asked about, so the budget is easy to observe: with maxCalls=1,
	// only the first of two missing fields should ever reach the model.
	model.KeyFunc = func(req llm.Request) string { return "shared-key" }
	model.Scripts["shared-key"] = []string{`{"value": "first"}`, `{"value": "second"}`}

	lib := NewLibrary(model, 1)
	got := lib.Extract(context.Background(), doctype.MarketResearchReport, "irrelevant text", []string{"vendor_count", "contract_vehicle"})

	filled := 0
	if _, ok := got["vendor_count"]; ok {
		filled++
	}
	if _, ok := got["contract_vehicle"]; ok {
		filled++
	}
	assert.Equal(t, 1, filled, "only one fallback call should be spent against the maxCalls=1 budget")
	assert.Equal(t, 1, model.CallCount("shared-key"))
}

func TestNormalizeMoney(t *testing.T) {
	assert.Equal(t, "$2,500,000", NormalizeMoney("$2.5M"))
	assert.Equal(t, "$500,000", NormalizeMoney("$500K"))
	assert.Equal(t, "$1,200,000,000", NormalizeMoney("$1.2B"))
	assert.Equal(t, "$1,234", NormalizeMoney("$1,234"))
	assert.Equal(t, "not money", NormalizeMoney("not money"))
}

func TestNormalizePercent(t *testing.T) {
	assert.Equal(t, "15%", NormalizePercent("15"))
	assert.Equal(t, "15%", NormalizePercent("15%"))
	assert.Equal(t, "not a percent", NormalizePercent("not a percent"))
}

func TestNormalizeDate_ReducesToMonthPrecision(t *testing.T) {
	assert.Equal(t, "August 2026", NormalizeDate("August 6, 2026"))
	assert.Equal(t, "August 2026", NormalizeDate("August 2026"))
	assert.Equal(t, "not a date", NormalizeDate("not a date"))
}
