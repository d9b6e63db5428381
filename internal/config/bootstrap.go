package config

import (
	"errors"
	"os"
	"path/filepath"
)

// defaultConfig is written into the data dir on first run.
const defaultConfig = `app:
  data_dir: .

storage:
  backend: csv
  sqlite_path: jobfeed.db
  csv_path: jobs.csv

sources:
  google:
    enabled: true
    payload_dir: google/data
  ashby:
    enabled: false
    companies_dir: ashby/companies
  boards:
    greenhouse:
      enabled: false
      urls_file: greenhouse/gh.txt
      companies_csv: greenhouse/greenhouse_companies.csv
    workable:
      enabled: false
      urls_file: workable/workable.txt
      companies_csv: workable/workable_companies.csv

embeddings:
  enabled: false
  model: text-embedding-3-small
  requests_per_sec: 2
`

// EnsureUserConfig returns the path of the user config inside dataDir,
// seeding it with the default config when absent.
func EnsureUserConfig(dataDir string) (string, error) {
	userPath := filepath.Join(dataDir, "config.yml")

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	if err := os.WriteFile(userPath, []byte(defaultConfig), 0o644); err != nil {
		return "", err
	}
	return userPath, nil
}
