// Package pipeline runs one ingestion pass: adapter fan-out, in-batch
// dedup, id assignment, diff against prior state, and the per-record
// upsert loop. A failure inside one record is counted and logged; it
// never unwinds past the batch.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"jobfeed-engine/internal/domain"
	"jobfeed-engine/internal/embed"
	"jobfeed-engine/internal/identity"
	"jobfeed-engine/internal/ingest"
	"jobfeed-engine/internal/merge"
)

// Store is the durable PersistedJobSet the executor writes to. Both the
// sqlite store and the CSV snapshot satisfy it.
type Store interface {
	GetJob(ctx context.Context, id string) (domain.Job, bool, error)
	UpsertJob(ctx context.Context, j domain.Job) error
}

// Keeper is implemented by stores that must see unchanged records to
// carry them into a rewritten snapshot (the CSV backend).
type Keeper interface {
	Keep(j domain.Job)
}

// CompanyResolver maps a company name to a stable id, creating the
// company on first sight.
type CompanyResolver interface {
	ResolveCompany(ctx context.Context, name string) (string, error)
}

type Pipeline struct {
	Sources  []ingest.Source
	Store    Store
	Resolver CompanyResolver // nil: jobs keep an empty company id
	Embedder embed.Embedder  // nil: embeddings disabled

	SourceTimeout time.Duration // per-source Fetch budget, 0 = 2m
}

// Summary is what a run reports, even when individual records failed.
type Summary struct {
	Drafts     int
	Invalid    int
	Duplicates int
	Inserted   int
	Updated    int
	Unchanged  int
	Failed     int

	// EmbedFailures counts records written with a degraded (nil)
	// vector because the embedding call failed.
	EmbedFailures int

	NewCompanySlugs []string
}

func (s Summary) Processed() int {
	return s.Inserted + s.Updated + s.Unchanged + s.Failed
}

// Run executes one full pass. The returned error is fatal (a source
// payload missing, prior state unreadable); per-record trouble lands in
// the Summary instead.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	results, err := p.collect(ctx)
	if err != nil {
		return Summary{}, err
	}

	var sum Summary
	var drafts []domain.Job
	var finals []func(context.Context) error
	for _, res := range results {
		drafts = append(drafts, res.Drafts...)
		sum.NewCompanySlugs = append(sum.NewCompanySlugs, res.NewSlugs...)
		if res.Finalize != nil {
			finals = append(finals, res.Finalize)
		}
	}
	sum.Drafts = len(drafts)

	// Defensive: adapters drop keyless drafts already.
	valid := drafts[:0]
	for _, d := range drafts {
		if !d.HasNaturalKey() {
			sum.Invalid++
			log.Printf("[pipeline] dropped keyless draft source=%s title=%q", d.Source, d.Title)
			continue
		}
		valid = append(valid, d)
	}

	unique, dropped := ingest.Dedup(valid)
	sum.Duplicates = dropped

	for i := range unique {
		unique[i].ID = identity.JobID(unique[i].Source, unique[i].URL, unique[i].ATSID)
	}

	prior, err := p.priorFor(ctx, unique)
	if err != nil {
		return sum, err
	}
	classified := merge.Classify(unique, prior)

	p.execute(ctx, classified, prior, &sum)

	for _, fin := range finals {
		if err := fin(ctx); err != nil {
			return sum, fmt.Errorf("finalize: %w", err)
		}
	}

	log.Printf("[pipeline] done drafts=%d dup=%d inserted=%d updated=%d unchanged=%d failed=%d embed_failed=%d",
		sum.Drafts, sum.Duplicates, sum.Inserted, sum.Updated, sum.Unchanged, sum.Failed, sum.EmbedFailures)
	return sum, nil
}

// collect fans the sources out concurrently (they share no state) and
// returns their results in configured source order, so the batch order
// is stable across runs. Any source error is fatal: an absent payload
// means no meaningful partial progress.
func (p *Pipeline) collect(ctx context.Context) ([]ingest.Result, error) {
	timeout := p.SourceTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	results := make([]ingest.Result, len(p.Sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range p.Sources {
		i, src := i, src
		g.Go(func() error {
			sctx, cancel := context.WithTimeout(gctx, timeout)
			defer cancel()

			log.Printf("[%s] running", src.Name())
			res, err := src.Fetch(sctx)
			if err != nil {
				return fmt.Errorf("source %s: %w", src.Name(), err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (p *Pipeline) priorFor(ctx context.Context, drafts []domain.Job) (map[string]domain.Job, error) {
	prior := make(map[string]domain.Job, len(drafts))
	for _, d := range drafts {
		j, ok, err := p.Store.GetJob(ctx, d.ID)
		if err != nil {
			return nil, fmt.Errorf("load prior state: %w", err)
		}
		if ok {
			prior[d.ID] = j
		}
	}
	return prior, nil
}

// execute is the upsert loop: embed, resolve company, write. One
// record at a time, continue on error.
func (p *Pipeline) execute(ctx context.Context, res merge.Result, prior map[string]domain.Job, sum *Summary) {
	write := func(j domain.Job, isInsert bool) {
		if err := p.upsertOne(ctx, j, sum); err != nil {
			sum.Failed++
			log.Printf("[pipeline] record failed source=%s id=%s url=%q: %v", j.Source, j.ID, j.URL, err)
			return
		}
		if isInsert {
			sum.Inserted++
		} else {
			sum.Updated++
		}
	}

	for _, j := range res.ToInsert {
		write(j, true)
	}
	for _, j := range res.ToUpdate {
		write(j, false)
	}

	keeper, _ := p.Store.(Keeper)
	for _, j := range res.Unchanged {
		sum.Unchanged++
		if keeper != nil {
			keeper.Keep(prior[j.ID])
		}
	}
}

func (p *Pipeline) upsertOne(ctx context.Context, j domain.Job, sum *Summary) error {
	if p.Embedder != nil {
		p.embedJob(ctx, &j, sum)
	}

	if p.Resolver != nil && j.CompanyID == "" && j.Company != "" {
		id, err := p.Resolver.ResolveCompany(ctx, j.Company)
		if err != nil {
			return fmt.Errorf("resolve company %q: %w", j.Company, err)
		}
		j.CompanyID = id
	}

	return p.Store.UpsertJob(ctx, j)
}

// embedJob populates missing vectors. A failed call degrades that
// vector to nil and is counted; the record still goes through.
func (p *Pipeline) embedJob(ctx context.Context, j *domain.Job, sum *Summary) {
	failed := false

	if j.Embedding == nil && j.EmbedText != "" {
		vec, err := p.Embedder.Embed(ctx, j.EmbedText)
		if err != nil {
			failed = true
			log.Printf("[embed] description source=%s id=%s: %v", j.Source, j.ID, err)
		} else {
			j.Embedding = vec
		}
	}

	if j.TitleEmbedding == nil && j.Title != "" {
		vec, err := p.Embedder.Embed(ctx, j.Title+"; "+j.Location)
		if err != nil {
			failed = true
			log.Printf("[embed] title source=%s id=%s: %v", j.Source, j.ID, err)
		} else {
			j.TitleEmbedding = vec
		}
	}

	if failed {
		sum.EmbedFailures++
	}
}
