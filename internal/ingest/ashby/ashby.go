// Package ashby ingests cached Ashby posting-API payloads, one JSON file
// per company, into canonical drafts.
package ashby

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"jobfeed-engine/internal/domain"
	"jobfeed-engine/internal/ingest"
)

type Config struct {
	CompaniesDir string // directory of <company>.json payload files
}

type Adapter struct {
	cfg Config
}

func New(cfg Config) *Adapter {
	return &Adapter{cfg: cfg}
}

func (a *Adapter) Name() string { return domain.SourceAshby }

// payload mirrors the posting-API response shape.
type payload struct {
	Jobs []posting `json:"jobs"`
}

type posting struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Location           string     `json:"location"`
	SecondaryLocations []location `json:"secondaryLocations"`
	EmploymentType     string     `json:"employmentType"`
	IsListed           *bool      `json:"isListed"`
	IsRemote           *bool      `json:"isRemote"`
	DescriptionPlain   string     `json:"descriptionPlain"`
	DescriptionHTML    string     `json:"descriptionHtml"`
	PublishedAt        *time.Time `json:"publishedAt"`
	JobURL             string     `json:"jobUrl"`
	ApplyURL           string     `json:"applyUrl"`
}

type location struct {
	Location string `json:"location"`
}

// Fetch parses every company payload file. One malformed file is logged
// and skipped; the rest of the batch proceeds.
func (a *Adapter) Fetch(ctx context.Context) (ingest.Result, error) {
	files, err := filepath.Glob(filepath.Join(a.cfg.CompaniesDir, "*.json"))
	if err != nil {
		return ingest.Result{}, err
	}
	if len(files) == 0 {
		if _, err := os.Stat(a.cfg.CompaniesDir); err != nil {
			return ingest.Result{}, err
		}
	}
	sort.Strings(files)

	var drafts []domain.Job
	for _, path := range files {
		if ctx.Err() != nil {
			return ingest.Result{}, ctx.Err()
		}

		jobs, err := a.parseFile(path)
		if err != nil {
			log.Printf("[ashby] skipping %s: %v", filepath.Base(path), err)
			continue
		}
		log.Printf("[ashby] %s: %d jobs company=%q", filepath.Base(path), len(jobs), CompanyFromFilename(path))
		drafts = append(drafts, jobs...)
	}

	return ingest.Result{Source: a.Name(), Drafts: drafts}, nil
}

func (a *Adapter) parseFile(path string) ([]domain.Job, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	company := CompanyFromFilename(path)

	out := make([]domain.Job, 0, len(p.Jobs))
	for _, job := range p.Jobs {
		if job.ID == "" && job.JobURL == "" {
			log.Printf("[ashby] %s: posting without id or url, dropped title=%q", filepath.Base(path), job.Title)
			continue
		}
		out = append(out, convert(job, company))
	}
	return out, nil
}

func convert(p posting, company string) domain.Job {
	active := true
	if p.IsListed != nil {
		active = *p.IsListed
	}

	embedText := p.DescriptionPlain
	if embedText == "" && p.DescriptionHTML != "" {
		embedText = stripHTML(p.DescriptionHTML)
	}

	description := p.DescriptionPlain
	if description == "" {
		description = p.DescriptionHTML
	}

	return domain.Job{
		Source:         domain.SourceAshby,
		ATSID:          p.ID,
		URL:            p.JobURL,
		Title:          strings.TrimSpace(p.Title),
		Location:       joinLocations(p.Location, p.SecondaryLocations),
		Company:        company,
		ApplicationURL: p.ApplyURL,
		Description:    description,
		EmploymentType: p.EmploymentType,
		IsRemote:       p.IsRemote,
		IsActive:       active,
		PostedAt:       p.PublishedAt,
		EmbedText:      embedText,
	}
}

// joinLocations appends secondary locations to the primary one with the
// same first-seen-order, exact-dedup rule used everywhere else.
func joinLocations(primary string, secondary []location) string {
	seen := make(map[string]bool)
	var names []string

	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		names = append(names, s)
	}

	add(primary)
	for _, loc := range secondary {
		add(loc.Location)
	}
	return strings.Join(names, ", ")
}

// CompanyFromFilename derives the display company name from a payload
// file: stem, dashes and underscores to spaces, first rune upper-cased.
func CompanyFromFilename(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name := strings.NewReplacer("-", " ", "_", " ").Replace(stem)
	if name == "" {
		return name
	}
	r := []rune(name)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func stripHTML(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	return strings.TrimSpace(strings.Join(strings.Fields(doc.Text()), " "))
}
