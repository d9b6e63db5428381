package googlelist

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobfeed-engine/internal/domain"
)

// row builds a positional job row with the observed field offsets filled.
func row(atsID, title, url, company string, locations any) []any {
	r := make([]any, 10)
	for i := range r {
		r[i] = nil
	}
	r[0] = atsID
	r[1] = title
	r[2] = url
	r[7] = company
	r[9] = locations
	return r
}

func payload(rows ...[]any) []byte {
	b, _ := json.Marshal(map[string]any{"data": []any{rows}})
	return b
}

func TestParsePayload_WrappedAndBare(t *testing.T) {
	r := row("75727382358434502", "Customer Solutions Engineer", "https://careers.google.com/jobs/1", "", []any{"Singapore"})

	wrapped := payload(r)
	bare, _ := json.Marshal([]any{[]any{r}})

	for _, raw := range [][]byte{wrapped, bare} {
		jobs, err := ParsePayload(raw)
		require.NoError(t, err)
		require.Len(t, jobs, 1)

		j := jobs[0]
		assert.Equal(t, domain.SourceGoogle, j.Source)
		assert.Equal(t, "75727382358434502", j.ATSID)
		assert.Equal(t, "Customer Solutions Engineer", j.Title)
		assert.Equal(t, "Singapore", j.Location)
		assert.Equal(t, "Google", j.Company, "company defaults to the source name")
		assert.True(t, j.IsActive)
	}
}

func TestParsePayload_TopLevelNotAList(t *testing.T) {
	_, err := ParsePayload([]byte(`{"data": {"nope": true}}`))
	assert.Error(t, err)
}

func TestParsePayload_MalformedRowSkipped(t *testing.T) {
	jobs, err := ParsePayload(payload(
		row("", "No Key Here", "", "", nil),
		row("1", "Kept", "https://x", "", nil),
		nil, // row that is not an array
	))
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Kept", jobs[0].Title)
}

func TestParsePayload_ShortRow(t *testing.T) {
	// Rows shorter than the highest offset still parse from what exists.
	raw, _ := json.Marshal([]any{[]any{[]any{"id-only"}}})
	jobs, err := ParsePayload(raw)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "id-only", jobs[0].ATSID)
	assert.Empty(t, jobs[0].Title)
}

func TestFlattenLocations(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want string
	}{
		{"nested with duplicates", []any{[]any{"New York", "NY"}, "Remote", []any{"New York", "NY"}}, "New York, Remote"},
		{"flat strings", []any{"Singapore", "Tokyo"}, "Singapore, Tokyo"},
		{"one level nested lists", []any{[]any{[]any{"Thornton, CO, USA"}}, []any{[]any{"Reston, VA, USA"}}}, "Thornton, CO, USA, Reston, VA, USA"},
		{"empty entries skipped", []any{"", []any{""}, "Zurich"}, "Zurich"},
		{"not a list", "Zurich", ""},
		{"nil", nil, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, _ := json.Marshal(tc.in)
			assert.Equal(t, tc.want, FlattenLocations(raw))
		})
	}
}
