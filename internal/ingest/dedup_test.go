package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobfeed-engine/internal/domain"
)

func TestDedup_SameNaturalKey(t *testing.T) {
	drafts := []domain.Job{
		{Source: domain.SourceGoogle, ATSID: "75727382358434502", Title: "Customer Solutions Engineer"},
		{Source: domain.SourceGoogle, ATSID: "75727382358434502", Title: "Different Title Same Job"},
	}

	out, dropped := Dedup(drafts)
	require.Len(t, out, 1)
	assert.Equal(t, 1, dropped)
	// First seen wins.
	assert.Equal(t, "Customer Solutions Engineer", out[0].Title)
}

func TestDedup_DistinctKeysSurvive(t *testing.T) {
	drafts := []domain.Job{
		{ATSID: "1", URL: "https://a"},
		{ATSID: "1", URL: "https://b"}, // same ats id, different url: distinct
		{ATSID: "", URL: "https://a"},  // url-only key, distinct from ("1","https://a")
	}

	out, dropped := Dedup(drafts)
	assert.Len(t, out, 3)
	assert.Zero(t, dropped)
}

func TestDedup_SameATSIDAcrossSources(t *testing.T) {
	// Adapter output is concatenated before dedup, and ats ids are only
	// unique within one system. Both drafts must survive: their ids are
	// generated per source and would differ.
	drafts := []domain.Job{
		{Source: domain.SourceGoogle, ATSID: "12345", Title: "SRE"},
		{Source: domain.SourceAshby, ATSID: "12345", Title: "Designer"},
	}

	out, dropped := Dedup(drafts)
	require.Len(t, out, 2)
	assert.Zero(t, dropped)
	assert.Equal(t, domain.SourceGoogle, out[0].Source)
	assert.Equal(t, domain.SourceAshby, out[1].Source)
}

func TestDedup_PreservesOrder(t *testing.T) {
	drafts := []domain.Job{
		{ATSID: "c"}, {ATSID: "a"}, {ATSID: "b"}, {ATSID: "a"},
	}
	out, dropped := Dedup(drafts)
	require.Len(t, out, 3)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, "c", out[0].ATSID)
	assert.Equal(t, "a", out[1].ATSID)
	assert.Equal(t, "b", out[2].ATSID)
}
