package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"

	"jobfeed-engine/internal/config"
	"jobfeed-engine/internal/embed"
	"jobfeed-engine/internal/ingest"
	"jobfeed-engine/internal/ingest/ashby"
	"jobfeed-engine/internal/ingest/boards"
	"jobfeed-engine/internal/ingest/googlelist"
	"jobfeed-engine/internal/pipeline"
	"jobfeed-engine/internal/snapshot"
	"jobfeed-engine/internal/store"
)

func main() {
	// Optional .env for OPENAI_API_KEY and friends.
	_ = godotenv.Load()

	dataDir := os.Getenv("JOBFEED_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	cfgPath, err := config.EnsureUserConfig(dataDir)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", cfgPath, err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid (%s): %v", cfgPath, err)
	}

	// One run at a time: the stores assume a single writer.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("run lock: %v", err)
	}
	if !locked {
		log.Fatalf("another run holds %s", lock.Path())
	}
	defer func() { _ = lock.Unlock() }()

	p := &pipeline.Pipeline{
		Sources: buildSources(cfg, dataDir),
	}

	var snap *snapshot.File
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		db, err := store.Open(inDataDir(dataDir, cfg.Storage.SQLitePath))
		if err != nil {
			log.Fatalf("open store: %v", err)
		}
		defer db.Close()
		p.Store = db
		p.Resolver = db
	case config.BackendCSV:
		snap, err = snapshot.Open(inDataDir(dataDir, cfg.Storage.CSVPath))
		if err != nil {
			log.Fatalf("open snapshot: %v", err)
		}
		p.Store = snap
	}

	if cfg.Embeddings.Enabled {
		emb, err := embed.NewOpenAI(cfg.Embeddings.Model, cfg.Embeddings.RequestsPerSec)
		if err != nil {
			log.Fatalf("embedder: %v", err)
		}
		p.Embedder = emb
	}

	sum, err := p.Run(context.Background())
	if err != nil {
		log.Fatalf("run failed: %v", err)
	}

	if snap != nil {
		diffPath, err := snap.Save()
		if err != nil {
			log.Fatalf("save snapshot: %v", err)
		}
		if diffPath != "" {
			log.Printf("[engine] diff written to %s", diffPath)
		}
	}

	for _, slug := range sum.NewCompanySlugs {
		log.Printf("[engine] new company board: %s", slug)
	}
	log.Printf("[engine] finished processed=%d succeeded=%d failed=%d",
		sum.Processed(), sum.Inserted+sum.Updated+sum.Unchanged, sum.Failed)
}

func buildSources(cfg config.Config, dataDir string) []ingest.Source {
	var sources []ingest.Source

	if cfg.Sources.Google.Enabled {
		sources = append(sources, googlelist.New(googlelist.Config{
			PayloadDir: inDataDir(dataDir, cfg.Sources.Google.PayloadDir),
		}))
	}
	if cfg.Sources.Ashby.Enabled {
		sources = append(sources, ashby.New(ashby.Config{
			CompaniesDir: inDataDir(dataDir, cfg.Sources.Ashby.CompaniesDir),
		}))
	}
	if b := cfg.Sources.Boards.Greenhouse; b.Enabled {
		sources = append(sources, boards.New(boards.Config{
			Board:        boards.Greenhouse,
			URLsFile:     inDataDir(dataDir, b.URLsFile),
			CompaniesCSV: inDataDir(dataDir, b.CompaniesCSV),
		}))
	}
	if b := cfg.Sources.Boards.Workable; b.Enabled {
		sources = append(sources, boards.New(boards.Config{
			Board:        boards.Workable,
			URLsFile:     inDataDir(dataDir, b.URLsFile),
			CompaniesCSV: inDataDir(dataDir, b.CompaniesCSV),
		}))
	}
	return sources
}

func inDataDir(dataDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dataDir, path)
}
