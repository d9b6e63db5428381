package googlelist

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sort"

	"jobfeed-engine/internal/domain"
	"jobfeed-engine/internal/ingest"
)

type Config struct {
	PayloadDir string // directory holding cached ds:1 *.json payloads
}

type Adapter struct {
	cfg Config
}

func New(cfg Config) *Adapter {
	return &Adapter{cfg: cfg}
}

func (a *Adapter) Name() string { return domain.SourceGoogle }

// Fetch parses every cached payload file in the configured directory.
// One undecodable file is logged and skipped; an absent directory is
// fatal because no partial progress is possible.
func (a *Adapter) Fetch(ctx context.Context) (ingest.Result, error) {
	files, err := payloadFiles(a.cfg.PayloadDir)
	if err != nil {
		return ingest.Result{}, err
	}

	var drafts []domain.Job
	for _, path := range files {
		if ctx.Err() != nil {
			return ingest.Result{}, ctx.Err()
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			log.Printf("[googlelist] read %s: %v", filepath.Base(path), err)
			continue
		}
		jobs, err := ParsePayload(raw)
		if err != nil {
			log.Printf("[googlelist] skipping %s: %v", filepath.Base(path), err)
			continue
		}
		log.Printf("[googlelist] %s: %d jobs", filepath.Base(path), len(jobs))
		drafts = append(drafts, jobs...)
	}

	return ingest.Result{Source: a.Name(), Drafts: drafts}, nil
}

func payloadFiles(dir string) ([]string, error) {
	var paths []string
	for _, pattern := range []string{"*.json", "*.txt"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}
	if len(paths) == 0 {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}
	sort.Strings(paths)
	return paths, nil
}
