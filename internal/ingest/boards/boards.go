// Package boards extracts company slugs from scraped job-board URL lists
// (greenhouse, workable) and maintains the per-board companies CSV.
package boards

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"sort"
	"strings"

	"jobfeed-engine/internal/domain"
	"jobfeed-engine/internal/ingest"
)

// Board describes one slug-addressed job-board host.
type Board struct {
	Source  string
	BaseURL string // slugs are rewritten as BaseURL/<slug> in the CSV
}

var (
	Greenhouse = Board{Source: domain.SourceGreenhouse, BaseURL: "https://job-boards.greenhouse.io"}
	Workable   = Board{Source: domain.SourceWorkable, BaseURL: "https://apply.workable.com"}
)

type Config struct {
	Board        Board
	URLsFile     string // newline-delimited scraped URLs
	CompaniesCSV string // prior state, merged and rewritten on finalize
}

type Adapter struct {
	cfg Config
}

func New(cfg Config) *Adapter {
	return &Adapter{cfg: cfg}
}

func (a *Adapter) Name() string { return a.cfg.Board.Source }

// Fetch reads the scraped URL list, extracts slugs for this board's host,
// and diffs them against the slugs already in the companies CSV. The CSV
// rewrite happens in Finalize so a failed run never clobbers prior state.
func (a *Adapter) Fetch(ctx context.Context) (ingest.Result, error) {
	scraped, err := a.slugsFromURLFile()
	if err != nil {
		return ingest.Result{}, err
	}

	existing, err := a.slugsFromCSV()
	if err != nil {
		return ingest.Result{}, err
	}

	var fresh []string
	merged := make(map[string]bool, len(existing)+len(scraped))
	for s := range existing {
		merged[s] = true
	}
	for s := range scraped {
		if !merged[s] {
			fresh = append(fresh, s)
		}
		merged[s] = true
	}
	sort.Strings(fresh)

	log.Printf("[boards:%s] scraped=%d existing=%d new=%d total=%d",
		a.Name(), len(scraped), len(existing), len(fresh), len(merged))

	return ingest.Result{
		Source:   a.Name(),
		NewSlugs: fresh,
		Finalize: func(context.Context) error {
			return a.writeCSV(merged)
		},
	}, nil
}

func (a *Adapter) slugsFromURLFile() (map[string]bool, error) {
	f, err := os.Open(a.cfg.URLsFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	slugs := make(map[string]bool)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, a.cfg.Board.BaseURL+"/") {
			continue
		}
		if slug, ok := ExtractSlug(line); ok {
			slugs[slug] = true
		}
	}
	return slugs, sc.Err()
}

// slugsFromCSV loads the prior companies CSV. A missing file means a
// fresh start, not an error.
func (a *Adapter) slugsFromCSV() (map[string]bool, error) {
	f, err := os.Open(a.cfg.CompaniesCSV)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]bool{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", a.cfg.CompaniesCSV, err)
	}

	slugs := make(map[string]bool)
	for i, row := range rows {
		if i == 0 || len(row) == 0 { // skip header
			continue
		}
		if !strings.HasPrefix(row[0], a.cfg.Board.BaseURL+"/") {
			continue
		}
		if slug, ok := ExtractSlug(row[0]); ok {
			slugs[slug] = true
		}
	}
	return slugs, nil
}

func (a *Adapter) writeCSV(slugs map[string]bool) error {
	ordered := make([]string, 0, len(slugs))
	for s := range slugs {
		ordered = append(ordered, s)
	}
	sort.Strings(ordered)

	f, err := os.Create(a.cfg.CompaniesCSV)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"url"}); err != nil {
		return err
	}
	for _, slug := range ordered {
		if err := w.Write([]string{a.cfg.Board.BaseURL + "/" + slug}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ExtractSlug parses the company slug out of a board URL: query and
// fragment dropped, trailing slash trimmed, first path segment wins.
func ExtractSlug(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}

	path := strings.TrimSuffix(u.Path, "/")
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return "", false
	}
	slug := strings.SplitN(path, "/", 2)[0]
	return slug, slug != ""
}
