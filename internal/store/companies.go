package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"jobfeed-engine/internal/domain"
)

// FindCompanyByName looks a company up by exact name.
func (d *DB) FindCompanyByName(ctx context.Context, name string) (domain.Company, bool, error) {
	var c domain.Company
	err := d.Pool.QueryRowContext(ctx,
		`SELECT id, name FROM companies WHERE name = ?;`, name).Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Company{}, false, nil
	}
	if err != nil {
		return domain.Company{}, false, fmt.Errorf("find company %q: %w", name, err)
	}
	return c, true, nil
}

// CreateCompany inserts a new company row with a generated id and commits
// it immediately so later lookups in the same run see it.
func (d *DB) CreateCompany(ctx context.Context, name string) (domain.Company, error) {
	c := domain.Company{ID: uuid.NewString(), Name: name}
	_, err := d.Pool.ExecContext(ctx,
		`INSERT INTO companies (id, name) VALUES (?, ?);`, c.ID, c.Name)
	if err != nil {
		return domain.Company{}, fmt.Errorf("create company %q: %w", name, err)
	}
	return c, nil
}

// ResolveCompany is get-or-create by exact name. The per-store mutex
// keeps two concurrent resolutions of the same name from racing; the
// unique constraint catches anything that slips past a second process.
func (d *DB) ResolveCompany(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", errors.New("resolve company: empty name")
	}

	d.companyMu.Lock()
	defer d.companyMu.Unlock()

	if id, ok := d.companyID[name]; ok {
		return id, nil
	}

	c, found, err := d.FindCompanyByName(ctx, name)
	if err != nil {
		return "", err
	}
	if !found {
		c, err = d.CreateCompany(ctx, name)
		if err != nil && isUniqueViolation(err) {
			// Another writer created it between lookup and insert.
			c, found, err = d.FindCompanyByName(ctx, name)
			if err == nil && !found {
				err = fmt.Errorf("resolve company %q: lost after conflict", name)
			}
		}
		if err != nil {
			return "", err
		}
	}

	d.companyID[name] = c.ID
	return c.ID, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
