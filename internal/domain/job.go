package domain

import "time"

// Source names. Each maps to one adapter under internal/ingest.
const (
	SourceGoogle     = "google"
	SourceAshby      = "ashby"
	SourceGreenhouse = "greenhouse"
	SourceWorkable   = "workable"
)

// Job is the canonical record every adapter converges to. Adapters emit
// drafts without an ID; the pipeline assigns the content-addressed ID from
// (Source, URL, ATSID) before merging against prior state.
type Job struct {
	ID     string
	Source string

	// Natural key. At least one of these must be non-empty for a draft to
	// be ingested; drafts with both empty are dropped at the adapter.
	ATSID string
	URL   string

	Title          string
	Location       string // sub-locations joined by ", ", duplicates removed
	Company        string
	CompanyID      string // resolved lazily on the table-backed path
	ApplicationURL string
	Description    string
	EmploymentType string
	IsRemote       *bool
	IsActive       bool
	PostedAt       *time.Time

	Embedding      []float32
	TitleEmbedding []float32

	// EmbedText is the plain-text input for the description embedding,
	// set by adapters that want one. Never persisted.
	EmbedText string
}

// HasNaturalKey reports whether the draft carries enough identity to be
// ingested at all.
func (j Job) HasNaturalKey() bool {
	return j.ATSID != "" || j.URL != ""
}

// NaturalKey returns the (ats id, url) pair used for in-batch dedup.
func (j Job) NaturalKey() (string, string) {
	return j.ATSID, j.URL
}
