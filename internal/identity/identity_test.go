package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobID_Deterministic(t *testing.T) {
	a := JobID("google", "https://example.com/jobs/1", "75727382358434502")
	b := JobID("google", "https://example.com/jobs/1", "75727382358434502")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestJobID_FieldOrderMatters(t *testing.T) {
	// An id in the url slot must not collide with the same value in the
	// ats id slot.
	assert.NotEqual(t, JobID("google", "", "abc"), JobID("google", "abc", ""))
}

func TestJobID_SourceScoped(t *testing.T) {
	assert.NotEqual(t,
		JobID("google", "https://x", "1"),
		JobID("ashby", "https://x", "1"),
	)
}

func TestJobID_PartialKey(t *testing.T) {
	onlyURL := JobID("google", "https://x", "")
	onlyID := JobID("google", "", "1")
	require.NotEmpty(t, onlyURL)
	require.NotEmpty(t, onlyID)
	assert.NotEqual(t, onlyURL, onlyID)

	// Stable when re-derived with the same partial key.
	assert.Equal(t, onlyURL, JobID("google", "https://x", ""))
}
