package docid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlug_LowercasesAndCollapsesNonAlnumRuns(t *testing.T) {
	assert.Equal(t, "aegis-logistics-management-system", Slug("Aegis Logistics Management System"))
	assert.Equal(t, "a-b-c", Slug("A!!B__C"))
	assert.Equal(t, "leading-trailing", Slug("  leading trailing  "))
}

func TestSlug_Empty(t *testing.T) {
	assert.Equal(t, "", Slug(""))
	assert.Equal(t, "", Slug("!!!"))
}

func TestNewParse_RoundTrips(t *testing.T) {
	created := time.Date(2026, 7, 29, 12, 0, 0, 0, time.UTC)
	id := New("igce", "Aegis Logistics Management System", created)

	p, ok := Parse(id)
	require.True(t, ok)
	assert.Equal(t, "igce", p.Type)
	assert.Equal(t, "aegis-logistics-management-system", p.ProgramSlug)
	assert.Equal(t, "2026-07-29", p.ISODate)
	assert.Len(t, p.Nonce, 8)
}

func TestNewParse_RoundTripsMultiWordType(t *testing.T) {
	created := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	id := New("small_business_plan", "ALMS", created)

	p, ok := Parse(id)
	require.True(t, ok)
	assert.Equal(t, "small_business_plan", p.Type)
	assert.Equal(t, "alms", p.ProgramSlug)
	assert.Equal(t, "2026-01-05", p.ISODate)
}

func TestNew_IsUniquePerCall(t *testing.T) {
	created := time.Date(2026, 7, 29, 0, 0, 0, 0, time.UTC)
	a := New("igce", "ALMS", created)
	b := New("igce", "ALMS", created)
	assert.NotEqual(t, a, b, "nonce should differ across calls even with identical inputs")
}

func TestParse_RejectsMalformedID(t *testing.T) {
	cases := []string{
		"",
		"not-a-doc-id",
		"igce_alms_2026-07-29",              // missing nonce
		"igce_alms_07-29-2026_deadbeef",     // wrong date format
		"igce_alms_2026-07-29_ZZZZZZZZ",     // nonce not hex
	}
	for _, c := range cases {
		_, ok := Parse(c)
		assert.False(t, ok, "expected %q to fail to parse", c)
	}
}
