package config

import "fmt"

func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path is required for the sqlite backend")
		}
	case BackendCSV:
		if c.Storage.CSVPath == "" {
			return fmt.Errorf("storage.csv_path is required for the csv backend")
		}
	default:
		return fmt.Errorf("storage.backend must be %q or %q, got %q",
			BackendSQLite, BackendCSV, c.Storage.Backend)
	}

	if !c.Sources.Google.Enabled && !c.Sources.Ashby.Enabled &&
		!c.Sources.Boards.Greenhouse.Enabled && !c.Sources.Boards.Workable.Enabled {
		return fmt.Errorf("no sources enabled")
	}

	if c.Sources.Google.Enabled && c.Sources.Google.PayloadDir == "" {
		return fmt.Errorf("sources.google.payload_dir is required")
	}
	if c.Sources.Ashby.Enabled && c.Sources.Ashby.CompaniesDir == "" {
		return fmt.Errorf("sources.ashby.companies_dir is required")
	}
	for name, b := range map[string]BoardSource{
		"greenhouse": c.Sources.Boards.Greenhouse,
		"workable":   c.Sources.Boards.Workable,
	} {
		if b.Enabled && (b.URLsFile == "" || b.CompaniesCSV == "") {
			return fmt.Errorf("sources.boards.%s needs urls_file and companies_csv", name)
		}
	}
	return nil
}
