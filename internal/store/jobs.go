package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"jobfeed-engine/internal/domain"
)

// UpsertJob writes one record inside its own transaction: insert when the
// id is new, otherwise a full replace of all mutable fields. A failure
// rolls back this record only.
func (d *DB) UpsertJob(ctx context.Context, j domain.Job) error {
	if j.ID == "" {
		return errors.New("upsert job: empty id")
	}

	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("upsert job %s: begin: %w", j.ID, err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)

	var remote any
	if j.IsRemote != nil {
		remote = boolToInt(*j.IsRemote)
	}
	var posted any
	if j.PostedAt != nil {
		posted = j.PostedAt.UTC().Format(time.RFC3339)
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO jobs (
  id, source, ats_id, url, title, location, company, company_id,
  application_url, description, employment_type, is_remote, is_active,
  posted_at, embedding, title_embedding, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  source = excluded.source,
  ats_id = excluded.ats_id,
  url = excluded.url,
  title = excluded.title,
  location = excluded.location,
  company = excluded.company,
  company_id = excluded.company_id,
  application_url = excluded.application_url,
  description = excluded.description,
  employment_type = excluded.employment_type,
  is_remote = excluded.is_remote,
  is_active = excluded.is_active,
  posted_at = excluded.posted_at,
  embedding = excluded.embedding,
  title_embedding = excluded.title_embedding,
  updated_at = excluded.updated_at;`,
		j.ID, j.Source, j.ATSID, j.URL, j.Title, j.Location, j.Company,
		j.CompanyID, j.ApplicationURL, j.Description, j.EmploymentType,
		remote, boolToInt(j.IsActive), posted,
		EncodeVector(j.Embedding), EncodeVector(j.TitleEmbedding),
		now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert job %s: %w", j.ID, err)
	}
	return tx.Commit()
}

// GetJob loads one record by id.
func (d *DB) GetJob(ctx context.Context, id string) (domain.Job, bool, error) {
	row := d.Pool.QueryRowContext(ctx, `
SELECT id, source, ats_id, url, title, location, company, company_id,
       application_url, description, employment_type, is_remote, is_active,
       posted_at, embedding, title_embedding
FROM jobs WHERE id = ?;`, id)

	var (
		j       domain.Job
		remote  sql.NullInt64
		active  int
		posted  sql.NullString
		descVec string
		idxVec  string
	)
	err := row.Scan(&j.ID, &j.Source, &j.ATSID, &j.URL, &j.Title, &j.Location,
		&j.Company, &j.CompanyID, &j.ApplicationURL, &j.Description,
		&j.EmploymentType, &remote, &active, &posted, &descVec, &idxVec)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Job{}, false, nil
	}
	if err != nil {
		return domain.Job{}, false, fmt.Errorf("get job %s: %w", id, err)
	}

	if remote.Valid {
		v := remote.Int64 != 0
		j.IsRemote = &v
	}
	j.IsActive = active != 0
	if posted.Valid && posted.String != "" {
		t, err := time.Parse(time.RFC3339, posted.String)
		if err != nil {
			return domain.Job{}, false, fmt.Errorf("get job %s: posted_at: %w", id, err)
		}
		j.PostedAt = &t
	}
	j.Embedding = DecodeVector(descVec)
	j.TitleEmbedding = DecodeVector(idxVec)
	return j, true, nil
}

// AllJobIDs returns every persisted job id.
func (d *DB) AllJobIDs(ctx context.Context) ([]string, error) {
	rows, err := d.Pool.QueryContext(ctx, `SELECT id FROM jobs;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountJobs returns the number of persisted records.
func (d *DB) CountJobs(ctx context.Context) (int, error) {
	var n int
	err := d.Pool.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs;`).Scan(&n)
	return n, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// EncodeVector renders an embedding as "[v1, v2, ...]", the format the
// vector columns carry. A nil vector encodes as the empty string.
func EncodeVector(v []float32) string {
	if len(v) == 0 {
		return ""
	}
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = strconv.FormatFloat(float64(f), 'g', -1, 32)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// DecodeVector parses the EncodeVector format; malformed components are
// dropped rather than failing the row.
func DecodeVector(s string) []float32 {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil
	}
	var out []float32
	for _, part := range strings.Split(s[1:len(s)-1], ",") {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			continue
		}
		out = append(out, float32(f))
	}
	return out
}
