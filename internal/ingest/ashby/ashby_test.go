package ashby

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobfeed-engine/internal/domain"
)

const samplePayload = `{
  "jobs": [
    {
      "id": "a1b2c3d4",
      "title": "  Senior Backend Engineer  ",
      "location": "Berlin",
      "secondaryLocations": [{"location": "Remote"}, {"location": "Berlin"}],
      "employmentType": "FullTime",
      "isListed": true,
      "isRemote": true,
      "descriptionPlain": "Build the backend.",
      "publishedAt": "2025-06-01T10:00:00Z",
      "jobUrl": "https://jobs.ashbyhq.com/acme/a1b2c3d4",
      "applyUrl": "https://jobs.ashbyhq.com/acme/a1b2c3d4/application"
    },
    {
      "id": "",
      "title": "No Identity",
      "jobUrl": ""
    },
    {
      "id": "e5f6",
      "title": "HTML Only",
      "isListed": false,
      "descriptionHtml": "<div><p>Ship &amp; iterate.</p></div>",
      "jobUrl": "https://jobs.ashbyhq.com/acme/e5f6"
    }
  ]
}`

func writeCompanyFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestFetch(t *testing.T) {
	dir := t.TempDir()
	writeCompanyFile(t, dir, "acme-robotics.json", samplePayload)
	writeCompanyFile(t, dir, "broken.json", `{"jobs": [`)

	res, err := New(Config{CompaniesDir: dir}).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Drafts, 2, "keyless posting dropped, broken file skipped")

	first := res.Drafts[0]
	assert.Equal(t, domain.SourceAshby, first.Source)
	assert.Equal(t, "a1b2c3d4", first.ATSID)
	assert.Equal(t, "Senior Backend Engineer", first.Title)
	assert.Equal(t, "Acme robotics", first.Company)
	assert.Equal(t, "Berlin, Remote", first.Location)
	assert.Equal(t, "https://jobs.ashbyhq.com/acme/a1b2c3d4/application", first.ApplicationURL)
	require.NotNil(t, first.IsRemote)
	assert.True(t, *first.IsRemote)
	assert.True(t, first.IsActive)
	require.NotNil(t, first.PostedAt)
	assert.Equal(t, "Build the backend.", first.EmbedText)

	second := res.Drafts[1]
	assert.False(t, second.IsActive, "isListed=false maps to inactive")
	assert.Equal(t, "Ship & iterate.", second.EmbedText, "embedding input stripped from HTML")
	assert.Equal(t, "<div><p>Ship &amp; iterate.</p></div>", second.Description)
}

func TestFetch_MissingDir(t *testing.T) {
	_, err := New(Config{CompaniesDir: filepath.Join(t.TempDir(), "nope")}).Fetch(context.Background())
	assert.Error(t, err)
}

func TestCompanyFromFilename(t *testing.T) {
	cases := map[string]string{
		"acme-robotics.json":  "Acme robotics",
		"plain.json":          "Plain",
		"snake_case_co.json":  "Snake case co",
		"/tmp/x/deep-co.json": "Deep co",
	}
	for in, want := range cases {
		assert.Equal(t, want, CompanyFromFilename(in), in)
	}
}
