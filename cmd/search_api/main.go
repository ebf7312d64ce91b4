package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/YAQOOBM6874/Smart-IR-System/internal/analytics"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/apperr"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/embedding"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/enrich"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/geo"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/nlp"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/router"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/search"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/server"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/storage/es"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/temporal"
	pkgserver "github.com/YAQOOBM6874/Smart-IR-System/pkg/server"
	"github.com/labstack/echo/v4"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load server config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	esCfg := es.LoadConfigFromEnv()

	indexer, err := es.NewIndexer(ctx, esCfg)
	if err != nil {
		slog.Error("Failed to create indexer", "error", err)
		os.Exit(1)
	}

	searcher, err := es.NewSearcher(esCfg)
	if err != nil {
		slog.Error("Failed to create searcher", "error", err)
		os.Exit(1)
	}

	aggregator, err := es.NewAggregator(esCfg)
	if err != nil {
		slog.Error("Failed to create aggregator", "error", err)
		os.Exit(1)
	}

	encoder, err := setupEncoder(ctx)
	if err != nil {
		slog.Error("Failed to set up embedding service", "error", err)
		os.Exit(1)
	}

	tagger := setupTagger()

	geoResolver, err := setupGeoResolver(tagger)
	if err != nil {
		slog.Error("Failed to set up geo resolver", "error", err)
		os.Exit(1)
	}

	temporalResolver := temporal.NewResolver(tagger)

	var pipelineOpts []enrich.PipelineOption
	var compilerOpts []search.CompilerOption
	if encoder != nil {
		pipelineOpts = append(pipelineOpts, enrich.WithEncoder(encoder))
		compilerOpts = append(compilerOpts, search.WithQueryEncoder(encoder))
	}

	pipeline := enrich.NewPipeline(temporalResolver, geoResolver, indexer, pipelineOpts...)
	compiler := search.NewCompiler(compilerOpts...)
	analyticsService := analytics.NewService(aggregator)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()

	s := server.NewServer(e, sCfg)
	s.SetupHealthChecks(pkgserver.NewFuncHealthChecker(func(ctx context.Context) error {
		_, err := searcher.Count(ctx)
		return err
	}))

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Smart IR API is running")
	})

	router.NewSearchRouter(e, compiler, searcher).Bind()
	router.NewDocumentRouter(e, pipeline, searcher).Bind()
	router.NewAnalyticsRouter(e, analyticsService).Bind()

	slog.Info("Starting server", "port", sCfg.Port)
	if err := s.Start(); err != nil {
		e.Logger.Error("Failed to start server: ", err)
		os.Exit(1)
	}
}

func setupEncoder(ctx context.Context) (*embedding.Service, error) {
	cfg := embedding.LoadConfigFromEnv()
	if !cfg.Enabled {
		slog.Info("Embeddings disabled, lexical search only")
		return nil, nil
	}

	svc, err := embedding.Shared(cfg)
	if err != nil {
		return nil, err
	}

	if err := svc.Warmup(ctx); err != nil {
		return nil, err
	}

	return svc, nil
}

func setupTagger() nlp.Tagger {
	taggerURL := os.Getenv("TAGGER_URL")
	if taggerURL == "" {
		slog.Info("TAGGER_URL not set, entity tagging disabled")
		return nlp.NewNoopTagger()
	}

	tagger, err := nlp.NewHTTPTagger(taggerURL)
	if err != nil {
		slog.Warn("Failed to create tagger, entity tagging disabled", "error", err)
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
			slog.Warn("Failed to load gazetteer overrides", "path", path, "error", err)
		}
	}

	return geo.NewResolver(tagger, geocoder, gazetteer), nil
}
