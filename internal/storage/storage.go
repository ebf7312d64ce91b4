package storage

import (
	"context"

	"github.com/YAQOOBM6874/Smart-IR-System/internal/domain"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/search"
)

// BulkStats summarizes a bulk indexing run.
type BulkStats struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
	Total   int `json:"total"`
}

func (s *BulkStats) Add(other BulkStats) {
	s.Success += other.Success
	s.Failed += other.Failed
	s.Total += other.Total
}

// Indexer writes enriched records into the index backend.
type Indexer interface {
	EnsureIndex(ctx context.Context) error
	DeleteIndex(ctx context.Context) error
	Save(ctx context.Context, record domain.Record) (string, error)
	SaveBulk(ctx context.Context, records []domain.Record) (BulkStats, error)
}

// Searcher executes compiled queries against the index backend.
type Searcher interface {
	Search(ctx context.Context, q search.CompiledQuery) ([]domain.Hit, error)
	Autocomplete(ctx context.Context, q search.CompiledQuery) ([]domain.Suggestion, error)
	GetByID(ctx context.Context, id string) (*domain.Record, error)
	Count(ctx context.Context) (int64, error)
}
