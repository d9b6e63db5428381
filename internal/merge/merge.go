// Package merge classifies an ingested batch against previously persisted
// state: unseen ids insert, seen-but-different ids update, the rest are
// no-ops. Emission order is preserved within each group.
package merge

import (
	"time"

	"jobfeed-engine/internal/domain"
)

type Result struct {
	ToInsert  []domain.Job
	ToUpdate  []domain.Job
	Unchanged []domain.Job
}

func (r Result) Total() int {
	return len(r.ToInsert) + len(r.ToUpdate) + len(r.Unchanged)
}

// Classify splits drafts by their generated id against the prior record
// set. Drafts must already carry ids.
func Classify(drafts []domain.Job, prior map[string]domain.Job) Result {
	var res Result
	for _, d := range drafts {
		old, seen := prior[d.ID]
		switch {
		case !seen:
			res.ToInsert = append(res.ToInsert, d)
		case changed(d, old):
			res.ToUpdate = append(res.ToUpdate, d)
		default:
			res.Unchanged = append(res.Unchanged, d)
		}
	}
	return res
}

// changed compares the observed fields of a draft to the stored record.
// Two empty values are equal; empty versus populated is a change in
// either direction.
func changed(next, prev domain.Job) bool {
	if next.Title != prev.Title ||
		next.Location != prev.Location ||
		next.Company != prev.Company ||
		next.URL != prev.URL ||
		next.ApplicationURL != prev.ApplicationURL ||
		next.Description != prev.Description ||
		next.EmploymentType != prev.EmploymentType ||
		next.IsActive != prev.IsActive {
		return true
	}
	if !boolPtrEqual(next.IsRemote, prev.IsRemote) {
		return true
	}
	return !timePtrEqual(next.PostedAt, prev.PostedAt)
}

func boolPtrEqual(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
