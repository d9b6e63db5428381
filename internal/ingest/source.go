package ingest

import (
	"context"

	"jobfeed-engine/internal/domain"
)

// Result is what one source contributes to a run. Job sources fill Drafts;
// the board-list sources instead report discovered company slugs and carry
// their state rewrite as a Finalize hook, executed after the batch lands.
type Result struct {
	Source   string
	Drafts   []domain.Job
	NewSlugs []string
	Finalize func(context.Context) error
}

// Source turns a raw payload (files on disk, per config) into canonical
// drafts. Implementations hold no shared state.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (Result, error)
}
