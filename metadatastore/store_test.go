package metadatastore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dod-acq/orchestrator/doctype"
	"github.com/dod-acq/orchestrator/doctype/docid"
)

// stores returns one instance of every Store implementation, so every test
// in this file runs identically against both.
func stores(t *testing.T) map[string]Store {
	t.Helper()
	sqliteStore, err := NewSQLiteStore(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteStore.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqliteStore,
	}
}

func TestSave_AssignsDocIDWhenEmpty(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			doc := &doctype.GeneratedDocument{Type: doctype.IGCE, Program: "ALMS", Content: "content"}
			docID, err := store.Save(context.Background(), doc)
			require.NoError(t, err)
			require.NotEmpty(t, docID)

			_, ok := docid.Parse(docID)
			assert.True(t, ok, "generated doc_id %q must match the documented format", docID)
		})
	}
}

func TestSave_IsIdempotentOnDocID(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			doc := &doctype.GeneratedDocument{
				DocID:   "igce_alms_2026-07-29_deadbeef",
				Type:    doctype.IGCE,
				Program: "ALMS",
				Content: "first version",
			}
			_, err := store.Save(ctx, doc)
			require.NoError(t, err)

			updated := &doctype.GeneratedDocument{
				DocID:   "igce_alms_2026-07-29_deadbeef",
				Type:    doctype.IGCE,
				Program: "ALMS",
				Content: "second version",
			}
			_, err = store.Save(ctx, updated)
			require.NoError(t, err)

			all, err := store.FindByProgram(ctx, "ALMS")
			require.NoError(t, err)
			require.Len(t, all, 1, "saving the same doc_id twice must overwrite, not duplicate")
			assert.Equal(t, "second version", all[0].Content)
		})
	}
}

func TestFindLatest_ReturnsNewestOfType(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			older := &doctype.GeneratedDocument{
				Type: doctype.IGCE, Program: "ALMS", Content: "older",
				CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			}
			newer := &doctype.GeneratedDocument{
				Type: doctype.IGCE, Program: "ALMS", Content: "newer",
				CreatedAt: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
			}
			_, err := store.Save(ctx, older)
			require.NoError(t, err)
			_, err = store.Save(ctx, newer)
			require.NoError(t, err)

			got, err := store.FindLatest(ctx, doctype.IGCE, "ALMS")
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, "newer", got.Content)
		})
	}
}

func TestFindLatest_NoMatchReturnsNilNotError(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			got, err := store.FindLatest(context.Background(), doctype.PWS, "NONEXISTENT")
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestFindByProgram_ExcludesOtherPrograms(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, err := store.Save(ctx, &doctype.GeneratedDocument{Type: doctype.IGCE, Program: "ALMS", Content: "a"})
			require.NoError(t, err)
			_, err = store.Save(ctx, &doctype.GeneratedDocument{Type: doctype.IGCE, Program: "OTHER", Content: "b"})
			require.NoError(t, err)

			got, err := store.FindByProgram(ctx, "ALMS")
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, "a", got[0].Content)
		})
	}
}

func TestLookup_RoundTripsExtractedDataAndReferences(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			refs := doctype.NewReferences()
			refs.Set(doctype.IGCE, "igce_alms_2026-07-29_deadbeef")
			doc := &doctype.GeneratedDocument{
				Type:          doctype.IGCE,
				Program:       "ALMS",
				Content:       "content",
				ExtractedData: doctype.ExtractedData{"total_cost": "$1,000,000"},
				References:    refs,
			}
			docID, err := store.Save(ctx, doc)
			require.NoError(t, err)

			got, err := store.Lookup(ctx, docID)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, "$1,000,000", got.ExtractedData["total_cost"])
			require.NotNil(t, got.References)
			gotDocID, ok := got.References.Get(doctype.IGCE)
			require.True(t, ok)
			assert.Equal(t, "igce_alms_2026-07-29_deadbeef", gotDocID)
		})
	}
}

func TestLookup_MissingReturnsNilNotError(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			got, err := store.Lookup(context.Background(), "does_not_exist_2026-01-01_00000000")
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestDocIDParse_RoundTripsNewOutput(t *testing.T) {
	now := time.Date(2026, 7, 29, 12, 0, 0, 0, time.UTC)
	id := docid.New(string(doctype.IGCE), "Aegis Logistics Management System", now)

	parsed, ok := docid.Parse(id)
	require.True(t, ok)
	assert.Equal(t, string(doctype.IGCE), parsed.Type)
	assert.Equal(t, "aegis-logistics-management-system", parsed.ProgramSlug)
	assert.Equal(t, "2026-07-29", parsed.ISODate)
	assert.Len(t, parsed.Nonce, 8)
}

func TestDocIDParse_RejectsMalformedID(t *testing.T) {
	_, ok := docid.Parse("not-a-valid-doc-id")
	assert.False(t, ok)
}
