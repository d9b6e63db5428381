package ingest

import "jobfeed-engine/internal/domain"

type naturalKey struct {
	source string
	atsID  string
	url    string
}

// Dedup removes in-batch duplicates keyed by source plus the
// (ats id, url) pair. The batch holds every adapter's output, and ats
// ids are only unique within one system, so two sources may emit the
// same raw value for unrelated jobs. First-seen draft wins; drafts with
// an entirely empty pair never reach this point (adapters drop them).
// Returns the surviving drafts in emission order and the number
// discarded.
func Dedup(drafts []domain.Job) (unique []domain.Job, dropped int) {
	seen := make(map[naturalKey]bool, len(drafts))
	unique = make([]domain.Job, 0, len(drafts))

	for _, d := range drafts {
		atsID, url := d.NaturalKey()
		k := naturalKey{source: d.Source, atsID: atsID, url: url}
		if seen[k] {
			dropped++
			continue
		}
		seen[k] = true
		unique = append(unique, d)
	}
	return unique, dropped
}
