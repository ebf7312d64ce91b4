package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/YAQOOBM6874/Smart-IR-System/internal/domain"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/storage"
)

// defaultBatchSize keeps bulk requests small enough that one slow geocoding
// round does not stall the whole import.
const defaultBatchSize = 50

type enricher interface {
	IndexBulk(ctx context.Context, raws []domain.RawDocument) (storage.BulkStats, error)
}

// Pipeline drains a collector into the enrichment pipeline in batches.
type Pipeline struct {
	collector Collector[domain.RawDocument]
	enricher  enricher
	batchSize int
}

type PipelineOption func(p *Pipeline)

func WithBatchSize(size int) PipelineOption {
	return func(p *Pipeline) {
		if size > 0 {
			p.batchSize = size
		}
	}
}

func NewPipeline(c Collector[domain.RawDocument], e enricher, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		collector: c,
		enricher:  e,
		batchSize: defaultBatchSize,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *Pipeline) Run(ctx context.Context) (storage.BulkStats, error) {
	start := time.Now()
	var stats storage.BulkStats

	slog.Info("starting corpus import", "batch_size", p.batchSize)

	results, err := p.collector.Collect(ctx)
	if err != nil {
		slog.Error("failed to start collection", "error", err)
		return stats, err
	}

	batch := make([]domain.RawDocument, 0, p.batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		batchStats, err := p.enricher.IndexBulk(ctx, batch)
		if err != nil {
			return err
		}
		stats.Add(batchStats)
		slog.Info("batch indexed",
			"batch", len(batch),
			"success", batchStats.Success,
			"failed", batchStats.Failed,
			"total_so_far", stats.Total)
		batch = batch[:0]
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("import cancelled",
				"indexed", stats.Success,
				"failed", stats.Failed)
			return stats, ctx.Err()
		case res, ok := <-results:
			if !ok {
				err := flush()
				slog.Info("corpus import completed",
					"success", stats.Success,
					"failed", stats.Failed,
					"total", stats.Total,
					"duration", time.Since(start))
				return stats, err
			}

			if res.Err != nil {
				slog.Error("collection error", "error", res.Err)
				stats.Failed++
				stats.Total++
				continue
			}

			batch = append(batch, res.Item)
			if len(batch) >= p.batchSize {
				if err := flush(); err != nil {
					return stats, err
				}
			}
		}
	}
}
