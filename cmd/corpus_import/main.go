package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/YAQOOBM6874/Smart-IR-System/internal/embedding"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/enrich"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/geo"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/ingest"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/ingest/reuters"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/nlp"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/storage/es"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/temporal"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	appSettings := NewAppConfig()

	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	esCfg := es.LoadConfigFromEnv()

	indexer, err := es.NewIndexer(ctx, esCfg)
	if err != nil {
		slog.Error("failed to create indexer", "error", err)
		os.Exit(1)
	}

	if cfg.RecreateIndex {
		slog.Info("Recreating index", "index", esCfg.IndexName)
		if err := indexer.DeleteIndex(ctx); err != nil {
			slog.Warn("failed to delete index", "error", err)
		}
		if err := indexer.EnsureIndex(ctx); err != nil {
			slog.Error("failed to recreate index", "error", err)
			os.Exit(1)
		}
	}

	enricher, err := newEnrichPipeline(ctx, indexer)
	if err != nil {
		slog.Error("failed to create enrichment pipeline", "error", err)
		os.Exit(1)
	}

	collector := reuters.NewDirCollector(cfg.ArchiveDir)

	pipeline := ingest.NewPipeline(collector, enricher, ingest.WithBatchSize(cfg.BatchSize))

	slog.Info("Starting corpus import", "archiveDir", cfg.ArchiveDir, "batchSize", cfg.BatchSize)

	stats, err := pipeline.Run(ctx)
	if err != nil {
		slog.Error("failed to run import pipeline", "error", err)
		os.Exit(1)
	}

	slog.Info("Corpus import finished",
		"indexed", stats.Success,
		"failed", stats.Failed,
		"total", stats.Total,
	)

	if stats.Failed > 0 {
		os.Exit(1)
	}
}

func newEnrichPipeline(ctx context.Context, indexer *es.Indexer) (*enrich.Pipeline, error) {
	tagger := setupTagger()

	geoResolver, err := setupGeoResolver(tagger)
	if err != nil {
		return nil, err
	}

	temporalResolver := temporal.NewResolver(tagger)

	var opts []enrich.PipelineOption

	embCfg := embedding.LoadConfigFromEnv()
	if embCfg.Enabled {
		svc, err := embedding.Shared(embCfg)
		if err != nil {
			return nil, err
		}
		if err := svc.Warmup(ctx); err != nil {
			return nil, err
		}
		opts = append(opts, enrich.WithEncoder(svc))
	} else {
		slog.Info("Embeddings disabled, importing without vectors")
	}

	return enrich.NewPipeline(temporalResolver, geoResolver, indexer, opts...), nil
}

func setupTagger() nlp.Tagger {
	taggerURL := os.Getenv("TAGGER_URL")
	if taggerURL == "" {
		slog.Info("TAGGER_URL not set, entity tagging disabled")
		return nlp.NewNoopTagger()
	}

	tagger, err := nlp.NewHTTPTagger(taggerURL)
	if err != nil {
		slog.Warn("failed to create tagger, entity tagging disabled", "error", err)
		return nlp.NewNoopTagger()
	}
	return tagger
}

func setupGeoResolver(tagger nlp.Tagger) (*geo.Resolver, error) {
	geocoderURL := os.Getenv("GEOCODER_URL")
	if geocoderURL == "" {
		geocoderURL = "https://nominatim.openstreetmap.org"
	}

	geocoder, err := geo.NewNominatimGeocoder(geocoderURL)
	if err != nil {
		return nil, err
	}

	gazetteer := geo.NewGazetteer()
	if path := os.Getenv("GAZETTEER_PATH"); path != "" {
		if err := gazetteer.LoadOverrides(path); err != nil {
			slog.Warn("failed to load gazetteer overrides", "path", path, "error", err)
		}
	}

	return geo.NewResolver(tagger, geocoder, gazetteer), nil
}
