package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateTokens_NonEmptyTextCountsPositiveTokens(t *testing.T) {
	assert.Greater(t, estimateTokens("The period of performance is twelve months."), 0)
}

func TestEstimateTokens_EmptyStringIsZero(t *testing.T) {
	assert.Equal(t, 0, estimateTokens(""))
}

func TestEstimateTokens_LongerTextCountsMoreTokens(t *testing.T) {
	short := estimateTokens("one two three")
	long := estimateTokens("one two three four five six seven eight nine ten")
	assert.Greater(t, long, short)
}
