package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	BackendSQLite = "sqlite"
	BackendCSV    = "csv"
)

type BoardSource struct {
	Enabled      bool   `yaml:"enabled"`
	URLsFile     string `yaml:"urls_file"`
	CompaniesCSV string `yaml:"companies_csv"`
}

type Config struct {
	App struct {
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Storage struct {
		Backend    string `yaml:"backend"` // sqlite | csv
		SQLitePath string `yaml:"sqlite_path"`
		CSVPath    string `yaml:"csv_path"`
	} `yaml:"storage"`

	Sources struct {
		Google struct {
			Enabled    bool   `yaml:"enabled"`
			PayloadDir string `yaml:"payload_dir"`
		} `yaml:"google"`

		Ashby struct {
			Enabled      bool   `yaml:"enabled"`
			CompaniesDir string `yaml:"companies_dir"`
		} `yaml:"ashby"`

		Boards struct {
			Greenhouse BoardSource `yaml:"greenhouse"`
			Workable   BoardSource `yaml:"workable"`
		} `yaml:"boards"`
	} `yaml:"sources"`

	Embeddings struct {
		Enabled        bool    `yaml:"enabled"`
		Model          string  `yaml:"model"`
		RequestsPerSec float64 `yaml:"requests_per_sec"`
	} `yaml:"embeddings"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
