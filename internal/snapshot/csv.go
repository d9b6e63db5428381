// Package snapshot is the flat-file PersistedJobSet: an ordered CSV
// keyed by job id, loaded at the start of a run and rewritten at the end.
// When the rewrite adds rows relative to the prior snapshot, a sibling
// diff artifact with only the added rows is written next to it.
package snapshot

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"jobfeed-engine/internal/domain"
)

var header = []string{
	"id", "url", "title", "location", "company", "ats_id", "source",
	"application_url", "description", "employment_type", "is_remote",
	"is_active", "posted_at",
}

// File holds the prior snapshot plus the rows accumulated during the
// current run. Rows are written back in the order they were recorded.
type File struct {
	path  string
	prior map[string]domain.Job

	order []string
	rows  map[string]domain.Job
}

// Open loads the prior snapshot. A missing file is an empty prior, not
// an error; a present-but-unreadable file is fatal.
func Open(path string) (*File, error) {
	f := &File{
		path:  path,
		prior: make(map[string]domain.Job),
		rows:  make(map[string]domain.Job),
	}

	fh, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	r := csv.NewReader(fh)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}

	for i, rec := range records {
		if i == 0 {
			continue
		}
		j, err := fromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("snapshot %s row %d: %w", path, i, err)
		}
		f.prior[j.ID] = j
	}
	return f, nil
}

// GetJob returns the prior record for id, if any.
func (f *File) GetJob(_ context.Context, id string) (domain.Job, bool, error) {
	j, ok := f.prior[id]
	return j, ok, nil
}

// Prior returns the full prior record set keyed by id.
func (f *File) Prior() map[string]domain.Job {
	out := make(map[string]domain.Job, len(f.prior))
	for id, j := range f.prior {
		out[id] = j
	}
	return out
}

// UpsertJob records a row for the rewritten snapshot. Last write for an
// id wins; the id keeps its first-recorded position.
func (f *File) UpsertJob(_ context.Context, j domain.Job) error {
	if j.ID == "" {
		return errors.New("snapshot upsert: empty id")
	}
	if _, ok := f.rows[j.ID]; !ok {
		f.order = append(f.order, j.ID)
	}
	f.rows[j.ID] = j
	return nil
}

// Keep carries an unchanged record into the rewritten snapshot.
func (f *File) Keep(j domain.Job) {
	_ = f.UpsertJob(context.Background(), j)
}

// Save rewrites the snapshot with the recorded rows and, when rows were
// added relative to the prior snapshot, writes the diff artifact.
// Returns the diff path, or "" when nothing was added.
func (f *File) Save() (diffPath string, err error) {
	if err := writeCSV(f.path, f.orderedRows()); err != nil {
		return "", err
	}

	var added []domain.Job
	for _, j := range f.orderedRows() {
		if _, ok := f.prior[j.ID]; !ok {
			added = append(added, j)
		}
	}
	if len(added) == 0 {
		return "", nil
	}

	diffPath = DiffPath(f.path, time.Now())
	if err := writeCSV(diffPath, added); err != nil {
		return "", err
	}
	return diffPath, nil
}

// DiffPath derives the sibling diff artifact path from the snapshot
// path and a timestamp.
func DiffPath(path string, at time.Time) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	if ext == "" {
		ext = ".csv"
	}
	return fmt.Sprintf("%s_diff_%s%s", stem, at.Format("20060102-150405"), ext)
}

func (f *File) orderedRows() []domain.Job {
	out := make([]domain.Job, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.rows[id])
	}
	return out
}

func writeCSV(path string, rows []domain.Job) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fh.Close()

	w := csv.NewWriter(fh)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, j := range rows {
		if err := w.Write(toRecord(j)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func toRecord(j domain.Job) []string {
	remote := ""
	if j.IsRemote != nil {
		remote = strconv.FormatBool(*j.IsRemote)
	}
	posted := ""
	if j.PostedAt != nil {
		posted = j.PostedAt.UTC().Format(time.RFC3339)
	}
	return []string{
		j.ID, j.URL, j.Title, j.Location, j.Company, j.ATSID, j.Source,
		j.ApplicationURL, j.Description, j.EmploymentType, remote,
		strconv.FormatBool(j.IsActive), posted,
	}
}

func fromRecord(rec []string) (domain.Job, error) {
	get := func(i int) string {
		if i < len(rec) {
			return rec[i]
		}
		return ""
	}
	if get(0) == "" {
		return domain.Job{}, errors.New("missing id")
	}

	j := domain.Job{
		ID:             get(0),
		URL:            get(1),
		Title:          get(2),
		Location:       get(3),
		Company:        get(4),
		ATSID:          get(5),
		Source:         get(6),
		ApplicationURL: get(7),
		Description:    get(8),
		EmploymentType: get(9),
		IsActive:       true,
	}

	if s := get(10); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return domain.Job{}, fmt.Errorf("is_remote: %w", err)
		}
		j.IsRemote = &v
	}
	if s := get(11); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return domain.Job{}, fmt.Errorf("is_active: %w", err)
		}
		j.IsActive = v
	}
	if s := get(12); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return domain.Job{}, fmt.Errorf("posted_at: %w", err)
		}
		j.PostedAt = &t
	}
	return j, nil
}
