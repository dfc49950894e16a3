package retriever

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dod-acq/orchestrator/doctype"
)

func corpus() []doctype.Chunk {
	return []doctype.Chunk{
		{Content: "FAR Part 10 requires market research before issuing a solicitation.", Source: "FAR-10"},
		{Content: "An Independent Government Cost Estimate documents a fair and reasonable price.", Source: "FAR-7.105"},
		{Content: "A Performance Work Statement describes required services as measurable outcomes.", Source: "DFARS-237.170"},
		{Content: "totally unrelated content about rainfall patterns in the Pacific Northwest", Source: "weather.pdf"},
	}
}

func TestRetrieve_RanksByTermOverlapDescending(t *testing.T) {
	m, err := NewMemoryRetriever(&MemoryRetrieverConfig{Corpus: corpus()})
	require.NoError(t, err)

	res, err := m.Retrieve(context.Background(), "independent government cost estimate fair price", 5)
	require.NoError(t, err)
	require.NotEmpty(t, res.Chunks)
	assert.Equal(t, "FAR-7.105", res.Chunks[0].Source)
}

func TestRetrieve_RespectsKLimit(t *testing.T) {
	m, err := NewMemoryRetriever(&MemoryRetrieverConfig{Corpus: corpus()})
	require.NoError(t, err)

	res, err := m.Retrieve(context.Background(), "market research solicitation services price estimate", 2)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(res.Chunks), 2)
}

func TestRetrieve_NonPositiveKDefaultsToFive(t *testing.T) {
	m, err := NewMemoryRetriever(&MemoryRetrieverConfig{Corpus: corpus()})
	require.NoError(t, err)

	res, err := m.Retrieve(context.Background(), "market research solicitation services price estimate rainfall", 0)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(res.Chunks), 5)
}

func TestRetrieve_NoOverlapYieldsEmptyResult(t *testing.T) {
	m, err := NewMemoryRetriever(&MemoryRetrieverConfig{Corpus: corpus()})
	require.NoError(t, err)

	res, err := m.Retrieve(context.Background(), "xyzzy plugh quux", 5)
	require.NoError(t, err)
	assert.Empty(t, res.Chunks)
}

func TestRetrieve_HonorsContextCancellation(t *testing.T) {
	m, err := NewMemoryRetriever(&MemoryRetrieverConfig{Corpus: corpus()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = m.Retrieve(ctx, "market research", 5)
	assert.Error(t, err)
	assert.True(t, IsRetrievalError(err))
}

func TestRetrieve_IsDeterministicAcrossRepeatedCalls(t *testing.T) {
	m, err := NewMemoryRetriever(&MemoryRetrieverConfig{Corpus: corpus()})
	require.NoError(t, err)

	first, err := m.Retrieve(context.Background(), "market research solicitation price estimate services", 4)
	require.NoError(t, err)
	second, err := m.Retrieve(context.Background(), "market research solicitation price estimate services", 4)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestIndex_AddsChunksSearchableAfterConstruction(t *testing.T) {
	m, err := NewMemoryRetriever(&MemoryRetrieverConfig{})
	require.NoError(t, err)

	m.Index(doctype.Chunk{Content: "quality assurance surveillance plan defines inspection methods", Source: "qasp.pdf"})

	res, err := m.Retrieve(context.Background(), "quality assurance surveillance inspection", 5)
	require.NoError(t, err)
	require.NotEmpty(t, res.Chunks)
	assert.Equal(t, "qasp.pdf", res.Chunks[0].Source)
}

func TestNewMemoryRetriever_NilConfigErrors(t *testing.T) {
	_, err := NewMemoryRetriever(nil)
	assert.Error(t, err)
}

func TestNewError_WrapsQueryAndUnderlyingError(t *testing.T) {
	underlying := context.DeadlineExceeded
	err := NewError("some query", underlying)
	assert.Contains(t, err.Error(), "some query")
	assert.ErrorIs(t, err, underlying)
	assert.True(t, IsRetrievalError(err))
}

func TestIsRetrievalError_FalseForUnrelatedError(t *testing.T) {
	assert.False(t, IsRetrievalError(assert.AnError))
}
