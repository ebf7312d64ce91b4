package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/YAQOOBM6874/Smart-IR-System/pkg/config/env"
)

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type AppConfig struct {
	ENV string
}

type CorpusImportConfig struct {
	ArchiveDir    string
	BatchSize     int
	RecreateIndex bool
}

func (as *AppConfig) Load() (*CorpusImportConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/corpus_import/.env")
	if err != nil {
		slog.Info("Skipping .env environment variables...", "error", err)
	}

	archiveDir := os.Getenv("ARCHIVE_DIR")
	if archiveDir == "" {
		slog.Error("ARCHIVE_DIR environment variable is not set")
		return nil, fmt.Errorf("ARCHIVE_DIR environment variable is not set")
	}

	batchSize, err := strconv.Atoi(os.Getenv("BATCH_SIZE"))
	if err != nil || batchSize <= 0 {
		batchSize = 50
	}

	return &CorpusImportConfig{
		ArchiveDir:    archiveDir,
		BatchSize:     batchSize,
		RecreateIndex: os.Getenv("RECREATE_INDEX") == "true",
	}, nil
}
