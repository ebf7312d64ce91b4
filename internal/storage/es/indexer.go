package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/YAQOOBM6874/Smart-IR-System/internal/apperr"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/domain"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
)

type Indexer struct {
	client    *elasticsearch.TypedClient
	indexName string
	schema    *schemaBuilder
}

func NewIndexer(ctx context.Context, config ClientConfig) (*Indexer, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	indexer := &Indexer{
		client:    client,
		indexName: config.IndexName,
		schema:    newSchemaBuilder(),
	}

	if err := indexer.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return indexer, nil
}

func (e *Indexer) EnsureIndex(ctx context.Context) error {
	exists, err := e.client.Indices.Exists(e.indexName).Do(ctx)
	if err != nil {
		return apperr.NewIndexBackend("exists", err)
	}

	if exists {
		slog.Info("index already exists", "index", e.indexName)
		return nil
	}

	settings := e.schema.buildSettings()
	mappings := e.schema.buildMapping()

	createRes, err := e.client.Indices.Create(e.indexName).
		Settings(&settings).
		Mappings(&mappings).
		Do(ctx)
	if err != nil {
		return apperr.NewIndexBackend("create", err)
	}

	if !createRes.Acknowledged {
		return apperr.NewIndexBackend("create", fmt.Errorf("index creation was not acknowledged"))
	}

	slog.Info("index created", "index", e.indexName, "vector_dims", e.schema.vectorDims)
	return nil
}

func (e *Indexer) DeleteIndex(ctx context.Context) error {
	exists, err := e.client.Indices.Exists(e.indexName).Do(ctx)
	if err != nil {
		return apperr.NewIndexBackend("exists", err)
	}
	if !exists {
		return nil
	}

	if _, err := e.client.Indices.Delete(e.indexName).Do(ctx); err != nil {
		return apperr.NewIndexBackend("delete", err)
	}

	slog.Info("index deleted", "index", e.indexName)
	return nil
}

func (e *Indexer) Save(ctx context.Context, record domain.Record) (string, error) {
	doc := mapToESDocument(record)

	res, err := e.client.Index(e.indexName).Id(doc.ID).Document(doc).Do(ctx)
	if err != nil {
		return "", apperr.NewIndexBackend("index", err)
	}

	slog.Info("document indexed", "id", doc.ID, "index", e.indexName, "result", res.Result)
	return doc.ID, nil
}

// SaveBulk indexes records through the bulk API. Per-document failures are
// counted, never fatal; only a broken bulk channel returns an error.
func (e *Indexer) SaveBulk(ctx context.Context, records []domain.Record) (storage.BulkStats, error) {
	stats := storage.BulkStats{Total: len(records)}
	if len(records) == 0 {
		return stats, nil
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         e.indexName,
		Client:        e.client,
		NumWorkers:    4,
		FlushBytes:    5e+6,
		FlushInterval: 30 * time.Second,
	})
	if err != nil {
		return stats, apperr.NewIndexBackend("bulk", err)
	}

	var successful, failed atomic.Int64

	for _, record := range records {
		doc := mapToESDocument(record)

		docBytes, err := json.Marshal(doc)
		if err != nil {
			slog.Error("failed to marshal document", "error", err, "id", doc.ID)
			failed.Add(1)
			continue
		}

		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: doc.ID,
			Body:       bytes.NewReader(docBytes),
			OnSuccess: func(_ context.Context, _ esutil.BulkIndexerItem, _ esutil.BulkIndexerResponseItem) {
				successful.Add(1)
			},
			OnFailure: func(_ context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				failed.Add(1)
				if err != nil {
					slog.Error("bulk index error", "error", err, "id", item.DocumentID)
				} else {
					slog.Error("bulk index error", "status", res.Status, "error", res.Error.Type, "reason", res.Error.Reason, "id", item.DocumentID)
				}
			},
		})
		if err != nil {
			failed.Add(1)
			slog.Error("failed to add document to bulk indexer", "error", err, "id", doc.ID)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return stats, apperr.NewIndexBackend("bulk", err)
	}

	stats.Success = int(successful.Load())
	stats.Failed = int(failed.Load())

	slog.Info("bulk indexing completed",
		"successful", stats.Success,
		"failed", stats.Failed,
		"total", stats.Total,
		"index", e.indexName)

	return stats, nil
}

var _ storage.Indexer = (*Indexer)(nil)
